package handlers

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// AttendeeDTO посетитель приема
type AttendeeDTO struct {
	Name             string `json:"name"`
	Contact          string `json:"contact,omitempty"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
}

// ToDomain конвертирует DTO в доменную модель
func (a AttendeeDTO) ToDomain() domain.AttendeeInfo {
	return domain.AttendeeInfo{
		Name:             a.Name,
		Contact:          a.Contact,
		EmergencyContact: a.EmergencyContact,
	}
}

// BookingResponse HTTP модель бронирования
type BookingResponse struct {
	ID                  int64       `json:"id"`
	ConfirmationCode    string      `json:"confirmationCode"`
	ServiceID           int64       `json:"serviceId"`
	ParticipantID       int64       `json:"participantId"`
	ShelterID           int64       `json:"shelterId"`
	AppointmentDatetime string      `json:"appointmentDatetime"`
	DurationMinutes     int         `json:"durationMinutes"`
	Status              string      `json:"status"`
	Attendee            AttendeeDTO `json:"attendee"`
	Notes               *string     `json:"notes,omitempty"`
	ProviderNotes       *string     `json:"providerNotes,omitempty"`
	ReminderSent        bool        `json:"reminderSent"`
	Provisional         bool        `json:"provisional"`
	CreatedAt           string      `json:"createdAt"`
	UpdatedAt           string      `json:"updatedAt"`
}

// SlotResponse HTTP модель слота с доступностью
type SlotResponse struct {
	Datetime          string `json:"datetime"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	DurationMinutes   int    `json:"durationMinutes"`
	Capacity          int    `json:"capacity"`
	BookedCount       int    `json:"bookedCount"`
	RemainingCapacity int    `json:"remainingCapacity"`
	IsAvailable       bool   `json:"isAvailable"`
}

// FromBooking конвертирует бронирование в HTTP модель
func FromBooking(b *domain.Booking) *BookingResponse {
	return &BookingResponse{
		ID:                  b.ID,
		ConfirmationCode:    b.ConfirmationCode,
		ServiceID:           b.ServiceID,
		ParticipantID:       b.ParticipantID,
		ShelterID:           b.ShelterID,
		AppointmentDatetime: b.AppointmentDatetime.Format(domain.DatetimeFormat),
		DurationMinutes:     b.DurationMinutes,
		Status:              string(b.Status),
		Attendee: AttendeeDTO{
			Name:             b.Attendee.Name,
			Contact:          b.Attendee.Contact,
			EmergencyContact: b.Attendee.EmergencyContact,
		},
		Notes:         b.Notes,
		ProviderNotes: b.ProviderNotes,
		ReminderSent:  b.ReminderSent,
		Provisional:   b.Provisional,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromBookings конвертирует список бронирований
func FromBookings(bookings []*domain.Booking) []*BookingResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromBooking(b))
	}
	return result
}

// FromSlots конвертирует доступность слотов
func FromSlots(slots []domain.SlotAvailability) []SlotResponse {
	result := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		result = append(result, SlotResponse{
			Datetime:          s.Slot.Datetime.Format(domain.DatetimeFormat),
			StartTime:         s.Slot.Datetime.Format(domain.TimeFormat),
			EndTime:           s.Slot.End().Format(domain.TimeFormat),
			DurationMinutes:   s.Slot.DurationMinutes,
			Capacity:          s.Slot.Capacity,
			BookedCount:       s.BookedCount,
			RemainingCapacity: s.RemainingCapacity,
			IsAvailable:       s.IsAvailable,
		})
	}
	return result
}
