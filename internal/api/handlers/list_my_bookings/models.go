package list_my_bookings

import (
	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

// ListBookingsResponse HTTP ответ со списком бронирований
type ListBookingsResponse struct {
	Bookings []*handlers.BookingResponse `json:"bookings"`
	Degraded bool                        `json:"degraded"`
}

// FromResult конвертирует результат оркестратора в HTTP ответ
func FromResult(result *orchestrator.BookingsResult) *ListBookingsResponse {
	return &ListBookingsResponse{
		Bookings: handlers.FromBookings(result.Bookings),
		Degraded: result.Degraded,
	}
}
