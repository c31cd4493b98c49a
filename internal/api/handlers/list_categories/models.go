package list_categories

import "github.com/m04kA/shelter-booking/internal/domain"

// CategoryResponse HTTP модель категории
type CategoryResponse struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description,omitempty"`
	RequiresAppointment bool   `json:"requiresAppointment"`
	AdvanceBookingDays  int    `json:"advanceBookingDays"`
}

// ListCategoriesResponse HTTP ответ
type ListCategoriesResponse struct {
	Categories []CategoryResponse `json:"categories"`
}

// FromDomain конвертирует категории в HTTP ответ
func FromDomain(categories []domain.Category) *ListCategoriesResponse {
	result := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, CategoryResponse{
			ID:                  c.ID,
			Name:                c.Name,
			Description:         c.Description,
			RequiresAppointment: c.RequiresAppointment,
			AdvanceBookingDays:  c.AdvanceBookingDays,
		})
	}
	return &ListCategoriesResponse{Categories: result}
}
