package domain

import (
	"fmt"
	"time"
)

// BookingWindow bounds which dates and start times may be booked.
// Now must already be in the shelter time zone.
type BookingWindow struct {
	Now                time.Time
	AdvanceBookingDays int // 0 = unlimited
	MinNoticeMinutes   int
}

// CheckDate accepts dates from today up to today + AdvanceBookingDays
func (w BookingWindow) CheckDate(date time.Time) error {
	day := DateOnly(date)
	today := DateOnly(w.Now)

	if day.Before(today) {
		return fmt.Errorf("%w: %s", ErrDateInPast, day.Format(DateFormat))
	}
	if w.AdvanceBookingDays == 0 {
		return nil
	}
	if limit := today.AddDate(0, 0, w.AdvanceBookingDays); day.After(limit) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFar, w.AdvanceBookingDays)
	}
	return nil
}

// EarliestStart is the first moment a slot may start to still be bookable
func (w BookingWindow) EarliestStart() time.Time {
	return w.Now.Add(time.Duration(w.MinNoticeMinutes) * time.Minute)
}

// CheckStart rejects slots starting before EarliestStart
func (w BookingWindow) CheckStart(start time.Time) error {
	if start.Before(w.EarliestStart()) {
		return fmt.Errorf("%w: must book at least %d minutes in advance", ErrTooLateToBook, w.MinNoticeMinutes)
	}
	return nil
}

// DateOnly drops the clock part keeping the location
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// InLocation reinterprets the wall clock of t in loc without shifting it
func InLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
