package ledger

import (
	"context"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	bookingRepo "github.com/m04kA/shelter-booking/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Booking, error)
	ListBySlot(ctx context.Context, filter bookingRepo.SlotFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, from, to domain.BookingStatus) (time.Time, error)
}

// ServiceRepository интерфейс чтения услуги из основного каталога
type ServiceRepository interface {
	GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// SlotLocker распределенная блокировка слота
type SlotLocker interface {
	WithLock(ctx context.Context, key string, fn func(ctx context.Context) error) error
}

// Metrics доменные метрики журнала
type Metrics interface {
	IncBookingCreated(status string, provisional bool)
	IncCapacityExceeded()
	IncStatusTransition(from, to string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
