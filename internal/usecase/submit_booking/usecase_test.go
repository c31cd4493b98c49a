package submit_booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/infra/storage/memory"
	"github.com/m04kA/shelter-booking/internal/usecase/get_availability"
	"github.com/m04kA/shelter-booking/pkg/logger"
	"github.com/m04kA/shelter-booking/pkg/retry"
)

// понедельник, 08:00
var now = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

type fixedTime struct{ t time.Time }

func (f fixedTime) Now() time.Time { return f.t }

type categories map[string]domain.Category

func (c categories) Category(id string) (domain.Category, bool) {
	cat, ok := c[id]
	return cat, ok
}

type fakeMetrics struct {
	mu       sync.Mutex
	degraded []string
	created  []bool
}

func (m *fakeMetrics) IncDegraded(component string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.degraded = append(m.degraded, component)
}

func (m *fakeMetrics) IncBookingCreated(_ string, provisional bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, provisional)
}

type fixture struct {
	catalog *memory.Catalog
	ledger  *memory.Ledger
	stub    *memory.Ledger
	metrics *fakeMetrics
}

func testService() *domain.ServiceDefinition {
	return &domain.ServiceDefinition{
		ID:              1,
		ShelterID:       10,
		CategoryID:      "medical",
		Name:            "Checkup",
		DurationMinutes: 30,
		Capacity:        1,
		Active:          true,
		Origin:          domain.OriginAuthoritative,
		Schedule:        []domain.WeeklyWindow{{DayOfWeek: 1, StartTime: "09:00", EndTime: "10:00"}},
	}
}

func newFixture(services ...*domain.ServiceDefinition) *fixture {
	return newFixtureWithOrigin(domain.OriginAuthoritative, services...)
}

func newFixtureWithOrigin(origin domain.DataOrigin, services ...*domain.ServiceDefinition) *fixture {
	catalog := memory.NewCatalog(services, origin)
	return &fixture{
		catalog: catalog,
		ledger:  memory.NewLedger(catalog),
		stub:    memory.NewProvisionalLedger(catalog),
		metrics: &fakeMetrics{},
	}
}

func (f *fixture) useCase(ledger Ledger, settings Settings) *UseCase {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.Retry.MaxAttempts == 0 {
		settings.Retry = retry.Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}
	}
	availability := get_availability.NewUseCase(f.ledger, f.stub, logger.NewNop())
	cats := categories{"medical": {ID: "medical", Name: "Medical", AdvanceBookingDays: 7}}

	uc := NewUseCase(f.catalog, ledger, f.stub, availability, cats, f.metrics, settings, logger.NewNop())
	return uc.WithTimeProvider(fixedTime{t: now})
}

func requestAt(participantID int64, at time.Time) *Request {
	return &Request{
		ParticipantID: participantID,
		ShelterID:     10,
		ServiceID:     1,
		Datetime:      at,
		Attendee:      domain.AttendeeInfo{Name: "Alex"},
	}
}

func TestExecute_Success(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(f.ledger, Settings{})

	resp, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, err)
	assert.False(t, resp.Degraded)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, "2024-06-03T09:00", resp.Booking.AppointmentDatetime.Format(domain.DatetimeFormat))
	assert.Equal(t, "Checkup", resp.Service.Name)
	assert.Positive(t, resp.Booking.ID)
}

func TestExecute_CapacityExceededReturnsAlternatives(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(f.ledger, Settings{})
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), requestAt(1, at))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), requestAt(2, at))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityExceededError
	require.True(t, errors.As(err, &capErr))
	require.Len(t, capErr.Alternatives, 2)
	assert.False(t, capErr.Alternatives[0].IsAvailable)
	assert.Equal(t, "09:30", capErr.Alternatives[1].Slot.Datetime.Format(domain.TimeFormat))
	assert.True(t, capErr.Alternatives[1].IsAvailable)

	bookings, err := f.ledger.ListBySlot(context.Background(), 1, at)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(f.ledger, Settings{})
	at := time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(r *Request)
		wantErr error
	}{
		{"empty attendee", func(r *Request) { r.Attendee.Name = "   " }, ErrInvalidInput},
		{"no participant", func(r *Request) { r.ParticipantID = 0 }, ErrInvalidInput},
		{"no datetime", func(r *Request) { r.Datetime = time.Time{} }, ErrInvalidInput},
		{"unknown service", func(r *Request) { r.ServiceID = 99 }, ErrServiceNotFound},
		{"other shelter", func(r *Request) { r.ShelterID = 11 }, ErrServiceNotFound},
		{"date in past", func(r *Request) { r.Datetime = at.AddDate(0, 0, -7) }, ErrInvalidDate},
		{"date too far", func(r *Request) { r.Datetime = at.AddDate(0, 0, 14) }, ErrInvalidDate},
		{"not a slot", func(r *Request) { r.Datetime = at.Add(15 * time.Minute) }, ErrInvalidTimeSlot},
		{"outside window", func(r *Request) { r.Datetime = at.Add(time.Hour) }, ErrInvalidTimeSlot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestAt(1, at)
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InactiveService(t *testing.T) {
	service := testService()
	service.Active = false
	f := newFixture(service)
	uc := f.useCase(f.ledger, Settings{})

	_, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_TooLateToBook(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(f.ledger, Settings{MinBookingNoticeMinutes: 90})

	_, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrTooLateToBook)

	_, err = uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC)))
	assert.NoError(t, err)
}

func TestExecute_WallClockInShelterZone(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	f := newFixture(testService())
	uc := f.useCase(f.ledger, Settings{Location: loc})

	// 09:00 по часам приюта, даже если клиент прислал время в UTC
	resp, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, err)
	assert.Equal(t, "2024-06-10T09:00", resp.Booking.AppointmentDatetime.Format(domain.DatetimeFormat))
	assert.Equal(t, loc, resp.Booking.AppointmentDatetime.Location())
}

func TestExecute_LedgerTimeout(t *testing.T) {
	f := newFixture(testService())
	ledger := &blockingLedger{}
	uc := f.useCase(ledger, Settings{WriteTimeout: 10 * time.Millisecond})

	_, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, ErrLedgerTimeout)
	assert.Equal(t, 2, ledger.calls)
	assert.Empty(t, f.metrics.created)
}

func TestExecute_LedgerUnavailable(t *testing.T) {
	f := newFixture(testService())
	ledger := &failingLedger{err: errors.New("connection refused")}
	uc := f.useCase(ledger, Settings{})

	_, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	assert.Equal(t, 2, ledger.calls)
}

func TestExecute_PermanentLedgerErrorIsNotRetried(t *testing.T) {
	f := newFixture(testService())
	ledger := &failingLedger{err: domain.ErrServiceNotFound}
	uc := f.useCase(ledger, Settings{})

	_, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, ErrServiceNotFound)
	assert.Equal(t, 1, ledger.calls)
}

func TestExecute_DegradedProvisionalBooking(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(&blockingLedger{}, Settings{WriteTimeout: 10 * time.Millisecond, DegradedEnabled: true})

	resp, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.True(t, resp.Booking.Provisional)
	assert.Equal(t, domain.StatusPending, resp.Booking.Status)
	assert.Negative(t, resp.Booking.ID)
	assert.Equal(t, []string{"ledger"}, f.metrics.degraded)
	assert.Equal(t, []bool{true}, f.metrics.created)
}

func TestExecute_FallbackServiceBooksLocally(t *testing.T) {
	f := newFixtureWithOrigin(domain.OriginFallback, testService())
	primary := &failingLedger{err: errors.New("must not be called")}
	uc := f.useCase(primary, Settings{})

	resp, err := uc.Execute(context.Background(), requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	require.NoError(t, err)
	assert.True(t, resp.Degraded)
	assert.True(t, resp.Booking.Provisional)
	assert.Zero(t, primary.calls)

	_, err = uc.Execute(context.Background(), requestAt(2, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))
	assert.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestExecute_CancelledContext(t *testing.T) {
	f := newFixture(testService())
	uc := f.useCase(&blockingLedger{}, Settings{DegradedEnabled: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := uc.Execute(ctx, requestAt(1, time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC)))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.metrics.degraded)
}

type blockingLedger struct {
	mu    sync.Mutex
	calls int
}

func (l *blockingLedger) Create(ctx context.Context, _ *domain.BookingRequest) (*domain.Booking, error) {
	l.mu.Lock()
	l.calls++
	l.mu.Unlock()

	<-ctx.Done()
	return nil, ctx.Err()
}

type failingLedger struct {
	err   error
	calls int
}

func (l *failingLedger) Create(context.Context, *domain.BookingRequest) (*domain.Booking, error) {
	l.calls++
	return nil, l.err
}
