package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/usecase/get_availability"
)

// Catalog источник определений услуг
type Catalog interface {
	GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error)
}

// Ledger журнал бронирований
type Ledger interface {
	Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error)
}

// Availability расчет доступности для подбора альтернатив
type Availability interface {
	Execute(ctx context.Context, req *get_availability.Request) (*get_availability.Response, error)
}

// Categories справочник категорий
type Categories interface {
	Category(id string) (domain.Category, bool)
}

// Metrics доменные метрики
type Metrics interface {
	IncDegraded(component string)
	IncBookingCreated(status string, provisional bool)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
