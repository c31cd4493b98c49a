package get_availability

import (
	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/domain"
	getAvailability "github.com/m04kA/shelter-booking/internal/usecase/get_availability"
)

// AvailabilityResponse HTTP ответ со слотами на дату
type AvailabilityResponse struct {
	ServiceID int64                   `json:"serviceId"`
	Date      string                  `json:"date"`
	Slots     []handlers.SlotResponse `json:"slots"`
	Degraded  bool                    `json:"degraded"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(serviceID int64, resp *getAvailability.Response) *AvailabilityResponse {
	return &AvailabilityResponse{
		ServiceID: serviceID,
		Date:      resp.Date.Format(domain.DateFormat),
		Slots:     handlers.FromSlots(resp.Slots),
		Degraded:  resp.Degraded,
	}
}
