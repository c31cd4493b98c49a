package get_availability

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

const (
	msgInvalidServiceID   = "некорректный ID услуги"
	msgMissingDate        = "дата обязательна"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgDateOutOfWindow    = "дата вне допустимого окна бронирования"
	msgServiceNotFound    = "услуга не найдена"
	msgServiceUnavailable = "сервис временно недоступен"
)

type Handler struct {
	service AvailabilityService
	logger  Logger
}

func NewHandler(service AvailabilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/services/{serviceId}/availability
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	serviceID, err := strconv.ParseInt(mux.Vars(r)["serviceId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /services/{id}/availability - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /services/{id}/availability - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	resp, err := h.service.GetAvailability(r.Context(), serviceID, date)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidServiceID)

		case errors.Is(err, orchestrator.ErrServiceNotFound):
			h.logger.Warn("GET /services/{id}/availability - Service not found: service_id=%d", serviceID)
			handlers.RespondNotFound(w, msgServiceNotFound)

		case errors.Is(err, orchestrator.ErrInvalidDate):
			h.logger.Warn("GET /services/{id}/availability - Date out of window: service_id=%d, date=%s", serviceID, dateStr)
			handlers.RespondBadRequest(w, msgDateOutOfWindow)

		case errors.Is(err, orchestrator.ErrCatalogUnavailable), errors.Is(err, orchestrator.ErrLedgerUnavailable):
			h.logger.Warn("GET /services/{id}/availability - Dependency unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgServiceUnavailable)

		default:
			h.logger.Error("GET /services/{id}/availability - Failed to get availability: service_id=%d, error=%v",
				serviceID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /services/{id}/availability - Slots retrieved: service_id=%d, date=%s, count=%d",
		serviceID, dateStr, len(resp.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(serviceID, resp))
}
