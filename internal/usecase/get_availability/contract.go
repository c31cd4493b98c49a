package get_availability

import (
	"context"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Ledger источник занятости слотов
type Ledger interface {
	ListBySlot(ctx context.Context, serviceID int64, datetime time.Time) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
