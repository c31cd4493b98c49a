package list_my_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/api/middleware"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

const (
	msgInvalidParticipantID = "некорректный ID участника"
	msgMissingParticipantID = "отсутствует ID участника"
	msgForbidden            = "доступ запрещен"
	msgServiceUnavailable   = "журнал бронирований временно недоступен"
)

type Handler struct {
	service BookingLister
	logger  Logger
}

func NewHandler(service BookingLister, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/participants/{participantId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	participantID, err := strconv.ParseInt(mux.Vars(r)["participantId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /participants/{id}/bookings - Invalid participant ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParticipantID)
		return
	}

	// Участник видит только свои бронирования
	callerID, ok := middleware.GetParticipantID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingParticipantID)
		return
	}
	if callerID != participantID {
		h.logger.Warn("GET /participants/{id}/bookings - Access denied: caller=%d, participant_id=%d", callerID, participantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	result, err := h.service.ListMyBookings(r.Context(), participantID)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidParticipantID)

		case errors.Is(err, orchestrator.ErrLedgerUnavailable):
			h.logger.Warn("GET /participants/{id}/bookings - Ledger unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgServiceUnavailable)

		default:
			h.logger.Error("GET /participants/{id}/bookings - Failed to list bookings: participant_id=%d, error=%v",
				participantID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /participants/{id}/bookings - Bookings retrieved: participant_id=%d, count=%d",
		participantID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}
