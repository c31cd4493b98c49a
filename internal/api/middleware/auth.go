package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
)

type contextKey string

const (
	participantIDKey contextKey = "participant_id"
	shelterIDKey     contextKey = "shelter_id"
)

const (
	HeaderParticipantID = "X-Participant-ID"
	HeaderShelterID     = "X-Shelter-ID"
)

const (
	msgMissingParticipantID = "отсутствует заголовок X-Participant-ID"
	msgInvalidParticipantID = "некорректный заголовок X-Participant-ID"
	msgInvalidShelterID     = "некорректный заголовок X-Shelter-ID"
)

// Auth читает идентификаторы из заголовков, которые проставляет шлюз авторизации.
// X-Participant-ID обязателен, X-Shelter-ID опционален.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(HeaderParticipantID)
		if raw == "" {
			handlers.RespondUnauthorized(w, msgMissingParticipantID)
			return
		}
		participantID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || participantID <= 0 {
			handlers.RespondUnauthorized(w, msgInvalidParticipantID)
			return
		}

		ctx := context.WithValue(r.Context(), participantIDKey, participantID)

		if raw := r.Header.Get(HeaderShelterID); raw != "" {
			shelterID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || shelterID <= 0 {
				handlers.RespondBadRequest(w, msgInvalidShelterID)
				return
			}
			ctx = context.WithValue(ctx, shelterIDKey, shelterID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetParticipantID возвращает ID участника из контекста
func GetParticipantID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(participantIDKey).(int64)
	return id, ok
}

// GetShelterID возвращает ID приюта из контекста
func GetShelterID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(shelterIDKey).(int64)
	return id, ok
}

// WithIdentity кладет идентификаторы в контекст (для тестов и внутренних вызовов)
func WithIdentity(ctx context.Context, participantID, shelterID int64) context.Context {
	ctx = context.WithValue(ctx, participantIDKey, participantID)
	if shelterID > 0 {
		ctx = context.WithValue(ctx, shelterIDKey, shelterID)
	}
	return ctx
}
