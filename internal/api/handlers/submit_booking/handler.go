package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/api/middleware"
	submitBooking "github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody  = "некорректное тело запроса"
	msgInvalidDatetime     = "некорректный формат времени записи, ожидается YYYY-MM-DDTHH:MM"
	msgMissingParticipant  = "отсутствует ID участника"
	msgInvalidInput        = "некорректные данные бронирования"
	msgServiceNotFound     = "услуга не найдена"
	msgInvalidBookingDate  = "дата вне допустимого окна бронирования"
	msgInvalidTimeSlot     = "некорректный временной слот"
	msgTooLateToBook       = "слишком поздно для бронирования этого слота"
	msgCapacityExceeded    = "в выбранном слоте не осталось мест"
	msgServiceUnavailable  = "сервис бронирования временно недоступен"
	msgLedgerWriteTimedOut = "запись не подтверждена вовремя, повторите попытку"
)

type Handler struct {
	service BookingSubmitter
	logger  Logger
}

func NewHandler(service BookingSubmitter, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	participantID, ok := middleware.GetParticipantID(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing participant ID")
		handlers.RespondUnauthorized(w, msgMissingParticipant)
		return
	}
	shelterID, _ := middleware.GetShelterID(r.Context())

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Конвертируем HTTP запрос в модель use case (с парсингом даты и времени)
	useCaseReq, err := req.ToUseCaseRequest(participantID, shelterID)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse datetime: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDatetime)
		return
	}

	result, err := h.service.SubmitBooking(r.Context(), useCaseReq)
	if err != nil {
		var capErr *submitBooking.CapacityExceededError
		switch {
		case errors.As(err, &capErr):
			h.logger.Info("POST /bookings - Slot is full: participant_id=%d, service_id=%d, datetime=%s",
				participantID, req.ServiceID, req.Datetime)
			handlers.RespondJSON(w, http.StatusConflict, &CapacityExceededResponse{
				ErrorResponse: handlers.ErrorResponse{Code: http.StatusConflict, Message: msgCapacityExceeded},
				Alternatives:  handlers.FromSlots(capErr.Alternatives),
			})

		case errors.Is(err, submitBooking.ErrCapacityExceeded):
			handlers.RespondConflict(w, msgCapacityExceeded)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: participant_id=%d, error=%v", participantID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, submitBooking.ErrServiceNotFound):
			h.logger.Warn("POST /bookings - Service not found: service_id=%d", req.ServiceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, submitBooking.ErrInvalidDate):
			h.logger.Warn("POST /bookings - Invalid booking date: participant_id=%d, datetime=%s", participantID, req.Datetime)
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, submitBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /bookings - Invalid time slot: service_id=%d, datetime=%s", req.ServiceID, req.Datetime)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, submitBooking.ErrTooLateToBook):
			h.logger.Warn("POST /bookings - Too late to book: service_id=%d, datetime=%s", req.ServiceID, req.Datetime)
			handlers.RespondBadRequest(w, msgTooLateToBook)

		case errors.Is(err, submitBooking.ErrLedgerTimeout):
			h.logger.Warn("POST /bookings - Ledger write timed out: participant_id=%d", participantID)
			handlers.RespondError(w, http.StatusGatewayTimeout, msgLedgerWriteTimedOut)

		case errors.Is(err, submitBooking.ErrCatalogUnavailable), errors.Is(err, submitBooking.ErrLedgerUnavailable):
			h.logger.Warn("POST /bookings - Dependency unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgServiceUnavailable)

		default:
			h.logger.Error("POST /bookings - Failed to submit booking: participant_id=%d, service_id=%d, error=%v",
				participantID, req.ServiceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	status := http.StatusCreated
	if result.Degraded {
		status = http.StatusAccepted
	}

	h.logger.Info("POST /bookings - Booking submitted: booking_id=%d, code=%s, participant_id=%d, provisional=%t",
		result.Booking.ID, result.Booking.ConfirmationCode, participantID, result.Booking.Provisional)
	handlers.RespondJSON(w, status, FromUseCaseResponse(result))
}
