package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validService() *ServiceDefinition {
	return &ServiceDefinition{
		ID:              1,
		DurationMinutes: 30,
		Capacity:        2,
		Schedule: []WeeklyWindow{
			{DayOfWeek: 1, StartTime: "09:00", EndTime: "12:00", Break: &BreakWindow{Start: "10:00", End: "10:30"}},
		},
	}
}

func TestServiceDefinition_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(s *ServiceDefinition)
		wantErr bool
	}{
		{name: "valid", mutate: func(s *ServiceDefinition) {}},
		{name: "zero capacity", mutate: func(s *ServiceDefinition) { s.Capacity = 0 }, wantErr: true},
		{name: "zero duration", mutate: func(s *ServiceDefinition) { s.DurationMinutes = 0 }, wantErr: true},
		{name: "negative cost", mutate: func(s *ServiceDefinition) { s.Cost = -1 }, wantErr: true},
		{name: "start equals end", mutate: func(s *ServiceDefinition) { s.Schedule[0].EndTime = "09:00" }, wantErr: true},
		{name: "day out of range", mutate: func(s *ServiceDefinition) { s.Schedule[0].DayOfWeek = 7 }, wantErr: true},
		{name: "malformed time", mutate: func(s *ServiceDefinition) { s.Schedule[0].StartTime = "9am" }, wantErr: true},
		{name: "inverted break", mutate: func(s *ServiceDefinition) {
			s.Schedule[0].Break = &BreakWindow{Start: "10:30", End: "10:00"}
		}, wantErr: true},
		{name: "break outside window", mutate: func(s *ServiceDefinition) {
			s.Schedule[0].Break = &BreakWindow{Start: "11:30", End: "12:30"}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validService()
			tt.mutate(s)
			err := s.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidService)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestServiceDefinition_WindowFor_FirstMatchWins(t *testing.T) {
	s := &ServiceDefinition{Schedule: []WeeklyWindow{
		{DayOfWeek: 2, StartTime: "09:00", EndTime: "10:00"},
		{DayOfWeek: 2, StartTime: "14:00", EndTime: "15:00"},
	}}

	w, ok := s.WindowFor(time.Tuesday)
	assert.True(t, ok)
	assert.Equal(t, "09:00", w.StartTime.String())

	_, ok = s.WindowFor(time.Wednesday)
	assert.False(t, ok)
}

func TestNewSlotAvailability(t *testing.T) {
	slot := CandidateSlot{Capacity: 2}

	a := NewSlotAvailability(slot, 1)
	assert.Equal(t, 1, a.RemainingCapacity)
	assert.True(t, a.IsAvailable)

	a = NewSlotAvailability(slot, 3)
	assert.Equal(t, 0, a.RemainingCapacity)
	assert.False(t, a.IsAvailable)
}
