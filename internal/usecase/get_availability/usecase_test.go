package get_availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/infra/storage/memory"
	"github.com/m04kA/shelter-booking/pkg/logger"
)

var monday = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func singleSeatService() *domain.ServiceDefinition {
	return &domain.ServiceDefinition{
		ID:              1,
		ShelterID:       1,
		CategoryID:      "medical",
		DurationMinutes: 30,
		Capacity:        1,
		Active:          true,
		Origin:          domain.OriginAuthoritative,
		Schedule:        []domain.WeeklyWindow{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
	}
}

func TestExecute_BookedSlotBecomesUnavailable(t *testing.T) {
	ctx := context.Background()
	service := singleSeatService()
	ledger := memory.NewLedger(memory.NewCatalog([]*domain.ServiceDefinition{service}, domain.OriginAuthoritative))
	uc := NewUseCase(ledger, nil, logger.NewNop())

	_, err := ledger.Create(ctx, &domain.BookingRequest{
		ServiceID:           1,
		ParticipantID:       1,
		AppointmentDatetime: time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		Attendee:            domain.AttendeeInfo{Name: "Sam"},
	})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, &Request{Service: service, Date: monday})
	require.NoError(t, err)
	require.Len(t, resp.Slots, 2)

	assert.Equal(t, "09:00", resp.Slots[0].Slot.Datetime.Format(domain.TimeFormat))
	assert.False(t, resp.Slots[0].IsAvailable)
	assert.Equal(t, 0, resp.Slots[0].RemainingCapacity)
	assert.Equal(t, 1, resp.Slots[0].BookedCount)

	assert.Equal(t, "09:30", resp.Slots[1].Slot.Datetime.Format(domain.TimeFormat))
	assert.True(t, resp.Slots[1].IsAvailable)
	assert.Equal(t, 1, resp.Slots[1].RemainingCapacity)
	assert.False(t, resp.Degraded)
}

func TestExecute_NotBeforeWithholdsEarlySlots(t *testing.T) {
	service := singleSeatService()
	ledger := memory.NewLedger(memory.NewCatalog(nil, domain.OriginAuthoritative))
	uc := NewUseCase(ledger, nil, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{
		Service:   service,
		Date:      monday,
		NotBefore: time.Date(2024, 6, 3, 9, 10, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, "09:30", resp.Slots[0].Slot.Datetime.Format(domain.TimeFormat))
}

func TestExecute_NoWindowIsEmptyNotError(t *testing.T) {
	service := singleSeatService()
	uc := NewUseCase(memory.NewLedger(memory.NewCatalog(nil, domain.OriginAuthoritative)), nil, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Service: service, Date: monday.AddDate(0, 0, 1)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_FallbackServiceUsesStubLedger(t *testing.T) {
	service := singleSeatService()
	service.Origin = domain.OriginFallback
	primary := failingLedger{}
	stub := memory.NewProvisionalLedger(memory.NewFallbackCatalog([]*domain.ServiceDefinition{service}))
	uc := NewUseCase(primary, stub, logger.NewNop())

	resp, err := uc.Execute(context.Background(), &Request{Service: service, Date: monday})

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_LedgerFailure(t *testing.T) {
	uc := NewUseCase(failingLedger{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Service: singleSeatService(), Date: monday})

	assert.ErrorIs(t, err, ErrLedgerUnavailable)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := NewUseCase(failingLedger{}, nil, logger.NewNop())

	_, err := uc.Execute(context.Background(), &Request{Date: monday})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{Service: singleSeatService()})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

type failingLedger struct{}

func (failingLedger) ListBySlot(context.Context, int64, time.Time) ([]*domain.Booking, error) {
	return nil, errors.New("connection refused")
}
