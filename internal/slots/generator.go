// Package slots turns a weekly schedule into concrete slots for one date.
package slots

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Generate returns the candidate slots of service on date in ascending order.
//
// Slots start at the window start and step by the service duration. A slot
// that would end after the window end is dropped, and a slot overlapping the
// break is skipped without shifting the grid. Only the first window for the
// weekday is used. Malformed definitions yield no slots.
func Generate(service *domain.ServiceDefinition, date time.Time) []domain.CandidateSlot {
	if service == nil || service.DurationMinutes <= 0 || service.Capacity < 1 {
		return nil
	}

	window, ok := service.WindowFor(date.Weekday())
	if !ok || window.Validate() != nil {
		return nil
	}

	start := window.StartTime.Minutes()
	end := window.EndTime.Minutes()
	step := service.DurationMinutes

	breakStart, breakEnd := -1, -1
	if window.Break != nil {
		breakStart = window.Break.Start.Minutes()
		breakEnd = window.Break.End.Minutes()
	}

	result := make([]domain.CandidateSlot, 0, (end-start)/step)
	for cur := start; cur+step <= end; cur += step {
		if breakStart >= 0 && cur < breakEnd && cur+step > breakStart {
			continue
		}
		result = append(result, domain.CandidateSlot{
			Datetime:        time.Date(date.Year(), date.Month(), date.Day(), cur/60, cur%60, 0, 0, date.Location()),
			DurationMinutes: step,
			Capacity:        service.Capacity,
		})
	}
	return result
}

// Find returns the slot starting at datetime. Comparison is by wall clock.
func Find(candidates []domain.CandidateSlot, datetime time.Time) (domain.CandidateSlot, bool) {
	want := datetime.Format(domain.DatetimeFormat)
	for _, c := range candidates {
		if c.Datetime.Format(domain.DatetimeFormat) == want {
			return c, true
		}
	}
	return domain.CandidateSlot{}, false
}
