package browse_services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

const (
	msgInvalidShelterID    = "некорректный ID приюта"
	msgCategoryNotFound    = "категория не найдена"
	msgCatalogUnavailable  = "каталог услуг временно недоступен"
	msgInvalidRequestInput = "некорректные параметры запроса"
)

type Handler struct {
	service ServiceBrowser
	logger  Logger
}

func NewHandler(service ServiceBrowser, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/shelters/{shelterId}/categories/{categoryId}/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	shelterID, err := strconv.ParseInt(vars["shelterId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /shelters/{id}/categories/{id}/services - Invalid shelter ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidShelterID)
		return
	}
	categoryID := vars["categoryId"]

	result, err := h.service.BrowseServices(r.Context(), shelterID, categoryID)
	if err != nil {
		switch {
		case errors.Is(err, orchestrator.ErrCategoryNotFound):
			h.logger.Warn("GET /shelters/{id}/categories/{id}/services - Category not found: %s", categoryID)
			handlers.RespondNotFound(w, msgCategoryNotFound)

		case errors.Is(err, orchestrator.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidRequestInput)

		case errors.Is(err, orchestrator.ErrCatalogUnavailable):
			h.logger.Warn("GET /shelters/{id}/categories/{id}/services - Catalog unavailable: %v", err)
			handlers.RespondServiceUnavailable(w, msgCatalogUnavailable)

		default:
			h.logger.Error("GET /shelters/{id}/categories/{id}/services - Failed to browse services: shelter_id=%d, error=%v",
				shelterID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shelters/{id}/categories/{id}/services - Services retrieved: shelter_id=%d, category=%s, count=%d, degraded=%t",
		shelterID, categoryID, len(result.Services), result.Degraded)
	handlers.RespondJSON(w, http.StatusOK, FromResult(result))
}
