package submit_booking

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/api/handlers"
	"github.com/m04kA/shelter-booking/internal/domain"
	submitBooking "github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP модель запроса
type SubmitBookingRequest struct {
	ServiceID int64                `json:"serviceId"`
	Datetime  string               `json:"datetime"` // "2025-10-15T10:00"
	Attendee  handlers.AttendeeDTO `json:"attendee"`
	Notes     *string              `json:"notes,omitempty"`
}

// SubmitBookingResponse HTTP ответ с созданным бронированием
type SubmitBookingResponse struct {
	Booking  *handlers.BookingResponse `json:"booking"`
	Degraded bool                      `json:"degraded"`
}

// CapacityExceededResponse ответ 409 с актуальными слотами на ту же дату
type CapacityExceededResponse struct {
	handlers.ErrorResponse
	Alternatives []handlers.SlotResponse `json:"alternatives"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(participantID, shelterID int64) (*submitBooking.Request, error) {
	datetime, err := time.Parse(domain.DatetimeFormat, r.Datetime)
	if err != nil {
		return nil, err
	}

	return &submitBooking.Request{
		ParticipantID: participantID,
		ShelterID:     shelterID,
		ServiceID:     r.ServiceID,
		Datetime:      datetime,
		Attendee:      r.Attendee.ToDomain(),
		Notes:         r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(resp *submitBooking.Response) *SubmitBookingResponse {
	return &SubmitBookingResponse{
		Booking:  handlers.FromBooking(resp.Booking),
		Degraded: resp.Degraded,
	}
}
