package config

import (
	"fmt"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/pkg/types"
)

// DomainCategories возвращает категории из конфигурации
func (c *Config) DomainCategories() []domain.Category {
	result := make([]domain.Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		result = append(result, domain.Category{
			ID:                  cat.ID,
			Name:                cat.Name,
			Description:         cat.Description,
			RequiresAppointment: cat.RequiresAppointment,
			AdvanceBookingDays:  cat.AdvanceBookingDays,
		})
	}
	return result
}

// DomainFallbackServices возвращает резервный каталог услуг.
// Каждая услуга помечена как OriginFallback и проходит валидацию.
func (c *Config) DomainFallbackServices() ([]*domain.ServiceDefinition, error) {
	result := make([]*domain.ServiceDefinition, 0, len(c.FallbackServices))
	for _, fs := range c.FallbackServices {
		schedule := make([]domain.WeeklyWindow, 0, len(fs.Schedule))
		for _, w := range fs.Schedule {
			window := domain.WeeklyWindow{
				DayOfWeek: w.DayOfWeek,
				StartTime: types.TimeString(w.StartTime),
				EndTime:   types.TimeString(w.EndTime),
			}
			if w.BreakStart != "" || w.BreakEnd != "" {
				window.Break = &domain.BreakWindow{
					Start: types.TimeString(w.BreakStart),
					End:   types.TimeString(w.BreakEnd),
				}
			}
			schedule = append(schedule, window)
		}

		service := &domain.ServiceDefinition{
			ID:                   fs.ID,
			CategoryID:           fs.CategoryID,
			ShelterID:            fs.ShelterID,
			Name:                 fs.Name,
			Description:          fs.Description,
			Provider:             fs.Provider,
			Location:             fs.Location,
			DurationMinutes:      fs.DurationMinutes,
			Capacity:             fs.Capacity,
			Cost:                 fs.Cost,
			Requirements:         fs.Requirements,
			Active:               true,
			RequiresConfirmation: fs.RequiresConfirmation,
			Schedule:             schedule,
			Origin:               domain.OriginFallback,
		}
		if err := service.Validate(); err != nil {
			return nil, fmt.Errorf("%w: fallback_services: %v", ErrInvalidConfig, err)
		}
		result = append(result, service)
	}
	return result, nil
}
