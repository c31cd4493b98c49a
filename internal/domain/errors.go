package domain

import "errors"

// Errors shared by every ledger and catalog implementation so callers can
// match on them regardless of the backing store.
var (
	ErrServiceNotFound   = errors.New("domain: service not found")
	ErrBookingNotFound   = errors.New("domain: booking not found")
	ErrCapacityExceeded  = errors.New("domain: slot capacity exceeded")
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")
	ErrInvalidStatus     = errors.New("domain: unknown booking status")

	ErrInvalidService  = errors.New("domain: invalid service definition")
	ErrInvalidSchedule = errors.New("domain: invalid weekly window")
	ErrEmptyAttendee   = errors.New("domain: attendee name is required")
)

// Booking window errors
var (
	ErrDateInPast    = errors.New("domain: date is in the past")
	ErrDateTooFar    = errors.New("domain: date is beyond the advance booking limit")
	ErrTooLateToBook = errors.New("domain: slot starts too soon to be booked")
)
