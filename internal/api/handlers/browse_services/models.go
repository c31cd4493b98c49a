package browse_services

import (
	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

// BreakResponse перерыв в окне
type BreakResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WindowResponse недельное окно работы услуги
type WindowResponse struct {
	DayOfWeek int            `json:"dayOfWeek"`
	StartTime string         `json:"startTime"`
	EndTime   string         `json:"endTime"`
	Break     *BreakResponse `json:"break,omitempty"`
}

// ServiceResponse HTTP модель услуги
type ServiceResponse struct {
	ID                   int64            `json:"id"`
	CategoryID           string           `json:"categoryId"`
	ShelterID            int64            `json:"shelterId"`
	Name                 string           `json:"name"`
	Description          string           `json:"description,omitempty"`
	Provider             string           `json:"provider,omitempty"`
	Location             string           `json:"location,omitempty"`
	DurationMinutes      int              `json:"durationMinutes"`
	Capacity             int              `json:"capacity"`
	Cost                 float64          `json:"cost"`
	Requirements         []string         `json:"requirements"`
	RequiresConfirmation bool             `json:"requiresConfirmation"`
	Schedule             []WindowResponse `json:"schedule"`
	Origin               string           `json:"origin"`
}

// BrowseServicesResponse HTTP ответ
type BrowseServicesResponse struct {
	CategoryID string            `json:"categoryId"`
	Services   []ServiceResponse `json:"services"`
	Degraded   bool              `json:"degraded"`
}

// FromResult конвертирует результат оркестратора в HTTP ответ
func FromResult(result *orchestrator.ServicesResult) *BrowseServicesResponse {
	services := make([]ServiceResponse, 0, len(result.Services))
	for _, s := range result.Services {
		services = append(services, fromService(s))
	}
	return &BrowseServicesResponse{
		CategoryID: result.Category.ID,
		Services:   services,
		Degraded:   result.Degraded,
	}
}

func fromService(s *domain.ServiceDefinition) ServiceResponse {
	schedule := make([]WindowResponse, 0, len(s.Schedule))
	for _, w := range s.Schedule {
		window := WindowResponse{
			DayOfWeek: w.DayOfWeek,
			StartTime: w.StartTime.String(),
			EndTime:   w.EndTime.String(),
		}
		if w.Break != nil {
			window.Break = &BreakResponse{Start: w.Break.Start.String(), End: w.Break.End.String()}
		}
		schedule = append(schedule, window)
	}

	requirements := s.Requirements
	if requirements == nil {
		requirements = []string{}
	}

	return ServiceResponse{
		ID:                   s.ID,
		CategoryID:           s.CategoryID,
		ShelterID:            s.ShelterID,
		Name:                 s.Name,
		Description:          s.Description,
		Provider:             s.Provider,
		Location:             s.Location,
		DurationMinutes:      s.DurationMinutes,
		Capacity:             s.Capacity,
		Cost:                 s.Cost,
		Requirements:         requirements,
		RequiresConfirmation: s.RequiresConfirmation,
		Schedule:             schedule,
		Origin:               string(s.Origin),
	}
}
