package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/shelter-booking/pkg/types"
)

// DataOrigin tells whether catalog data came from the system of record
// or from the static fallback set.
type DataOrigin string

const (
	OriginAuthoritative DataOrigin = "authoritative"
	OriginFallback      DataOrigin = "fallback"
)

// BreakWindow is a pause inside a weekly window when no slot may run
type BreakWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// WeeklyWindow is the recurring opening period of a service on one weekday
type WeeklyWindow struct {
	DayOfWeek int // 0 = Sunday .. 6 = Saturday
	StartTime types.TimeString
	EndTime   types.TimeString
	Break     *BreakWindow
}

// Validate checks window bounds and the optional break
func (w WeeklyWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week %d out of range", ErrInvalidSchedule, w.DayOfWeek)
	}
	if err := w.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: start time: %v", ErrInvalidSchedule, err)
	}
	if err := w.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: end time: %v", ErrInvalidSchedule, err)
	}
	if !w.StartTime.IsBefore(w.EndTime) {
		return fmt.Errorf("%w: start %s is not before end %s", ErrInvalidSchedule, w.StartTime, w.EndTime)
	}
	if w.Break == nil {
		return nil
	}
	if err := w.Break.Start.Validate(); err != nil {
		return fmt.Errorf("%w: break start: %v", ErrInvalidSchedule, err)
	}
	if err := w.Break.End.Validate(); err != nil {
		return fmt.Errorf("%w: break end: %v", ErrInvalidSchedule, err)
	}
	if !w.Break.Start.IsBefore(w.Break.End) {
		return fmt.Errorf("%w: break start %s is not before break end %s", ErrInvalidSchedule, w.Break.Start, w.Break.End)
	}
	if w.Break.Start.IsBefore(w.StartTime) || w.Break.End.IsAfter(w.EndTime) {
		return fmt.Errorf("%w: break %s-%s outside window %s-%s",
			ErrInvalidSchedule, w.Break.Start, w.Break.End, w.StartTime, w.EndTime)
	}
	return nil
}

// ServiceDefinition describes a bookable service offered at a shelter
type ServiceDefinition struct {
	ID                   int64
	CategoryID           string
	ShelterID            int64
	Name                 string
	Description          string
	Provider             string
	Location             string
	DurationMinutes      int
	Capacity             int
	Cost                 float64
	Requirements         []string
	Active               bool
	RequiresConfirmation bool
	Schedule             []WeeklyWindow
	Origin               DataOrigin
}

// Validate rejects definitions the slot generator cannot work with
func (s *ServiceDefinition) Validate() error {
	if s.DurationMinutes <= 0 {
		return fmt.Errorf("%w: service %d: duration must be positive, got %d", ErrInvalidService, s.ID, s.DurationMinutes)
	}
	if s.Capacity < 1 {
		return fmt.Errorf("%w: service %d: capacity must be at least 1, got %d", ErrInvalidService, s.ID, s.Capacity)
	}
	if s.Cost < 0 {
		return fmt.Errorf("%w: service %d: cost must not be negative", ErrInvalidService, s.ID)
	}
	for i, w := range s.Schedule {
		if err := w.Validate(); err != nil {
			return fmt.Errorf("%w: service %d: window %d: %v", ErrInvalidService, s.ID, i, err)
		}
	}
	return nil
}

// WindowFor returns the first window scheduled on the given weekday.
// Later windows for the same weekday are ignored.
func (s *ServiceDefinition) WindowFor(day time.Weekday) (WeeklyWindow, bool) {
	for _, w := range s.Schedule {
		if w.DayOfWeek == int(day) {
			return w, true
		}
	}
	return WeeklyWindow{}, false
}

// IsFallback reports whether the definition came from the static fallback set
func (s *ServiceDefinition) IsFallback() bool {
	return s.Origin == OriginFallback
}
