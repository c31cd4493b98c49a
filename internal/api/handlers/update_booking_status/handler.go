package update_booking_status

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/api/middleware"
	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

const (
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidStatus      = "неизвестный статус бронирования"
	msgMissingUserID      = "отсутствует ID участника"
	msgForbidden          = "доступ запрещен"
	msgNotFound           = "бронирование не найдено"
	msgInvalidTransition  = "недопустимая смена статуса"
	msgServiceUnavailable = "журнал бронирований временно недоступен"
)

type Handler struct {
	service StatusUpdater
	logger  Logger
}

func NewHandler(service StatusUpdater, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем participantID из контекста (через middleware Auth)
	participantID, ok := middleware.GetParticipantID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/status - Missing participant ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req UpdateStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/status - Unknown status %q", req.Status)
		handlers.RespondBadRequest(w, msgInvalidStatus)
		return
	}

	current, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		h.respondError(w, bookingID, status, err)
		return
	}

	// Участник может только отменить свою запись, остальные переходы делает персонал приюта
	shelterID, _ := middleware.GetShelterID(r.Context())
	if !canChangeStatus(current, status, participantID, shelterID) {
		h.logger.Warn("PATCH /bookings/{id}/status - Access denied: booking_id=%d, participant_id=%d, shelter_id=%d, to=%s",
			bookingID, participantID, shelterID, status)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	booking, err := h.service.UpdateBookingStatus(r.Context(), bookingID, status)
	if err != nil {
		h.respondError(w, bookingID, status, err)
		return
	}

	h.logger.Info("PATCH /bookings/{id}/status - Status updated: booking_id=%d, status=%s", bookingID, booking.Status)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromBooking(booking))
}

func canChangeStatus(b *domain.Booking, to domain.BookingStatus, participantID, shelterID int64) bool {
	if shelterID > 0 && b.ShelterID == shelterID {
		return true
	}
	return to == domain.StatusCancelled && b.ParticipantID == participantID
}

func (h *Handler) respondError(w http.ResponseWriter, bookingID int64, status domain.BookingStatus, err error) {
	switch {
	case errors.Is(err, orchestrator.ErrInvalidInput):
		handlers.RespondBadRequest(w, msgInvalidBookingID)

	case errors.Is(err, orchestrator.ErrBookingNotFound):
		h.logger.Warn("PATCH /bookings/{id}/status - Booking not found: booking_id=%d", bookingID)
		handlers.RespondNotFound(w, msgNotFound)

	case errors.Is(err, orchestrator.ErrInvalidTransition):
		h.logger.Warn("PATCH /bookings/{id}/status - Invalid transition: booking_id=%d, to=%s", bookingID, status)
		handlers.RespondConflict(w, msgInvalidTransition)

	case errors.Is(err, orchestrator.ErrLedgerUnavailable):
		h.logger.Warn("PATCH /bookings/{id}/status - Ledger unavailable: %v", err)
		handlers.RespondServiceUnavailable(w, msgServiceUnavailable)

	default:
		h.logger.Error("PATCH /bookings/{id}/status - Failed to update status: booking_id=%d, error=%v",
			bookingID, err)
		handlers.RespondInternalError(w)
	}
}
