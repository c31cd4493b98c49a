package list_categories

import (
	"net/http"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
)

type Handler struct {
	service CategoryLister
	logger  Logger
}

func NewHandler(service CategoryLister, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/categories
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	categories := h.service.ListCategories()

	h.logger.Info("GET /categories - Categories retrieved: count=%d", len(categories))
	handlers.RespondJSON(w, http.StatusOK, FromDomain(categories))
}
