package domain

import "time"

// CandidateSlot is a concrete bookable time derived from a weekly window.
// It is recomputed on every query and never stored.
type CandidateSlot struct {
	Datetime        time.Time
	DurationMinutes int
	Capacity        int
}

// End returns the moment the slot finishes
func (s CandidateSlot) End() time.Time {
	return s.Datetime.Add(time.Duration(s.DurationMinutes) * time.Minute)
}

// SlotAvailability is a candidate slot together with its current occupancy
type SlotAvailability struct {
	Slot              CandidateSlot
	BookedCount       int
	RemainingCapacity int
	IsAvailable       bool
}

// NewSlotAvailability computes remaining capacity from the active booking count
func NewSlotAvailability(slot CandidateSlot, booked int) SlotAvailability {
	remaining := slot.Capacity - booked
	if remaining < 0 {
		remaining = 0
	}
	return SlotAvailability{
		Slot:              slot,
		BookedCount:       booked,
		RemainingCapacity: remaining,
		IsAvailable:       remaining > 0,
	}
}
