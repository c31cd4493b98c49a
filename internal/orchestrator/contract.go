package orchestrator

import (
	"context"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	catalogService "github.com/m04kA/shelter-booking/internal/service/catalog"
	"github.com/m04kA/shelter-booking/internal/usecase/get_availability"
	"github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

// Catalog каталог услуг с резервным источником
type Catalog interface {
	GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error)
	ListServicesByCategory(ctx context.Context, shelterID int64, categoryID string) (*catalogService.ListResult, error)
}

// Ledger журнал бронирований (основной или локальный)
type Ledger interface {
	GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Booking, error)
	Transition(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
}

// Availability расчет доступности слотов
type Availability interface {
	Execute(ctx context.Context, req *get_availability.Request) (*get_availability.Response, error)
}

// Submitter запись на слот
type Submitter interface {
	Execute(ctx context.Context, req *submit_booking.Request) (*submit_booking.Response, error)
}

// CategoryRegistry справочник категорий
type CategoryRegistry interface {
	List() []domain.Category
	Category(id string) (domain.Category, bool)
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
