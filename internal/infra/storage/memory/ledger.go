package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

type slotKey struct {
	serviceID int64
	datetime  string
}

func keyOf(serviceID int64, datetime time.Time) slotKey {
	return slotKey{serviceID: serviceID, datetime: datetime.Format(domain.DatetimeFormat)}
}

// Ledger журнал бронирований в памяти с тем же контрактом, что и основной.
// Проверка вместимости и вставка сериализуются по ключу слота.
type Ledger struct {
	services    ServiceGetter
	provisional bool
	now         func() time.Time

	mu       sync.RWMutex
	nextID   int64
	bookings map[int64]*domain.Booking
	bySlot   map[slotKey][]int64

	keysMu sync.Mutex
	keys   map[slotKey]*sync.Mutex
}

// NewLedger создает журнал в памяти
func NewLedger(services ServiceGetter) *Ledger {
	return &Ledger{
		services: services,
		now:      time.Now,
		bookings: make(map[int64]*domain.Booking),
		bySlot:   make(map[slotKey][]int64),
		keys:     make(map[slotKey]*sync.Mutex),
	}
}

// NewProvisionalLedger создает журнал для псевдо-бронирований, сделанных
// при недоступном основном журнале. Все записи Provisional и в статусе pending,
// ID отрицательные, чтобы не пересекаться с ID основного журнала.
func NewProvisionalLedger(services ServiceGetter) *Ledger {
	l := NewLedger(services)
	l.provisional = true
	return l
}

func (l *Ledger) lockKey(key slotKey) *sync.Mutex {
	l.keysMu.Lock()
	defer l.keysMu.Unlock()

	m, ok := l.keys[key]
	if !ok {
		m = &sync.Mutex{}
		l.keys[key] = m
	}
	return m
}

// Create записывает бронирование, если в слоте есть место
func (l *Ledger) Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	if err := req.Attendee.Validate(); err != nil {
		return nil, err
	}

	service, err := l.services.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	key := keyOf(req.ServiceID, req.AppointmentDatetime)
	km := l.lockKey(key)
	km.Lock()
	defer km.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if l.countActive(key) >= service.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	status := domain.InitialStatus(service)
	if l.provisional {
		status = domain.StatusPending
	}

	now := l.now()
	booking := &domain.Booking{
		ConfirmationCode:    domain.NewConfirmationCode(),
		ServiceID:           req.ServiceID,
		ParticipantID:       req.ParticipantID,
		ShelterID:           req.ShelterID,
		AppointmentDatetime: req.AppointmentDatetime,
		DurationMinutes:     service.DurationMinutes,
		Status:              status,
		Attendee:            req.Attendee,
		Notes:               req.Notes,
		Provisional:         l.provisional,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	l.mu.Lock()
	l.nextID++
	booking.ID = l.nextID
	if l.provisional {
		booking.ID = -l.nextID
	}
	l.bookings[booking.ID] = booking
	l.bySlot[key] = append(l.bySlot[key], booking.ID)
	l.mu.Unlock()

	return cloneBooking(booking), nil
}

func (l *Ledger) countActive(key slotKey) int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	n := 0
	for _, id := range l.bySlot[key] {
		if l.bookings[id].IsActive() {
			n++
		}
	}
	return n
}

// GetByID возвращает бронирование по ID
func (l *Ledger) GetByID(_ context.Context, bookingID int64) (*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	b, ok := l.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

// ListByParticipant возвращает бронирования участника, новые первыми
func (l *Ledger) ListByParticipant(_ context.Context, participantID int64) ([]*domain.Booking, error) {
	l.mu.RLock()
	result := make([]*domain.Booking, 0)
	for _, b := range l.bookings {
		if b.ParticipantID == participantID {
			result = append(result, cloneBooking(b))
		}
	}
	l.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].AppointmentDatetime.Equal(result[j].AppointmentDatetime) {
			return result[i].AppointmentDatetime.After(result[j].AppointmentDatetime)
		}
		return seq(result[i].ID) > seq(result[j].ID)
	})
	return result, nil
}

// ListBySlot возвращает все бронирования слота в порядке создания
func (l *Ledger) ListBySlot(_ context.Context, serviceID int64, datetime time.Time) ([]*domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	ids := l.bySlot[keyOf(serviceID, datetime)]
	result := make([]*domain.Booking, 0, len(ids))
	for _, id := range ids {
		result = append(result, cloneBooking(l.bookings[id]))
	}
	return result, nil
}

// Transition меняет статус бронирования по таблице переходов.
// Псевдо-бронирование можно только отменить: подтверждать его некому.
func (l *Ledger) Transition(_ context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.bookings[bookingID]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	if !domain.CanTransition(b.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, status)
	}
	if l.provisional && status != domain.StatusCancelled {
		return nil, fmt.Errorf("%w: provisional booking can only be cancelled", domain.ErrInvalidTransition)
	}

	b.Status = status
	b.UpdatedAt = l.now()
	return cloneBooking(b), nil
}

// seq порядковый номер записи независимо от знака ID
func seq(id int64) int64 {
	if id < 0 {
		return -id
	}
	return id
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	cp := *b
	if b.Notes != nil {
		n := *b.Notes
		cp.Notes = &n
	}
	if b.ProviderNotes != nil {
		n := *b.ProviderNotes
		cp.ProviderNotes = &n
	}
	return &cp
}
