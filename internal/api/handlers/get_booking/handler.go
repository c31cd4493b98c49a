package get_booking

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
	msgInvalidBookingID   = "некорректный ID бронирования"
	msgNotFound           = "бронирование не найдено"
	msgMissingUserID      = "отсутствует ID участника"
	msgForbidden          = "доступ запрещен"
	msgServiceUnavailable = "журнал бронирований временно недоступен"
)

type Handler struct {
	service BookingGetter
	logger  Logger
}

func NewHandler(service BookingGetter, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	// Получаем participantID из контекста (через middleware Auth)
	participantID, ok := middleware.GetParticipantID(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id} - Missing participant ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	booking, err := h.service.GetBooking(r.Context(), bookingID)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidBookingID)

		case errors.Is(err, orchestrator.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, orchestrator.ErrLedgerUnavailable):
			h.logger.Warn("GET /bookings/{id} - Ledger unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgServiceUnavailable)

		default:
			h.logger.Error("GET /bookings/{id} - Failed to get booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	if booking.ParticipantID != participantID {
		h.logger.Warn("GET /bookings/{id} - Access denied: booking_id=%d, participant_id=%d", bookingID, participantID)
		handlers.RespondForbidden(w, msgForbidden)
		return
	}

	h.logger.Info("GET /bookings/{id} - Booking retrieved successfully: booking_id=%d, participant_id=%d",
		bookingID, participantID)
	handlers.RespondJSON(w, http.StatusOK, handlers.FromBooking(booking))
}
