package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle state of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCompleted BookingStatus = "completed"
	StatusCancelled BookingStatus = "cancelled"
	StatusNoShow    BookingStatus = "no_show"
)

var transitions = map[BookingStatus][]BookingStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

// AllStatuses lists every known status
var AllStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses are the statuses that hold a seat in a slot
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}

// ParseBookingStatus converts a wire value into a known status
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllStatuses {
		if status == known {
			return status, nil
		}
	}
	return "", ErrInvalidStatus
}

// CanTransition reports whether a booking may move from one status to another
func CanTransition(from, to BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsActive returns true if the status occupies capacity
func (s BookingStatus) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

// IsTerminal returns true if no further transition is possible
func (s BookingStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// InitialStatus picks the status a new booking starts in
func InitialStatus(service *ServiceDefinition) BookingStatus {
	if service.RequiresConfirmation {
		return StatusPending
	}
	return StatusConfirmed
}

// AttendeeInfo describes the person who will attend the appointment
type AttendeeInfo struct {
	Name             string
	Contact          string
	EmergencyContact string
}

// Validate checks the attendee has a name
func (a AttendeeInfo) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyAttendee
	}
	return nil
}

// Booking is a reservation of one seat in a service slot
type Booking struct {
	ID                  int64
	ConfirmationCode    string
	ServiceID           int64
	ParticipantID       int64
	ShelterID           int64
	AppointmentDatetime time.Time
	DurationMinutes     int
	Status              BookingStatus
	Attendee            AttendeeInfo
	Notes               *string
	ProviderNotes       *string
	ReminderSent        bool
	// Provisional bookings were recorded locally while the ledger was unreachable
	Provisional bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking holds a seat
func (b *Booking) IsActive() bool {
	return b.Status.IsActive()
}

// BookingRequest is the input of a ledger write
type BookingRequest struct {
	ServiceID           int64
	ParticipantID       int64
	ShelterID           int64
	AppointmentDatetime time.Time
	Attendee            AttendeeInfo
	Notes               *string
}

// CountActive returns how many of the bookings still hold a seat
func CountActive(bookings []*Booking) int {
	n := 0
	for _, b := range bookings {
		if b.IsActive() {
			n++
		}
	}
	return n
}
