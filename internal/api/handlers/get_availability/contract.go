package get_availability

import (
	"context"
	"time"

	getAvailability "github.com/m04kA/shelter-booking/internal/usecase/get_availability"
)

type AvailabilityService interface {
	GetAvailability(ctx context.Context, serviceID int64, date time.Time) (*getAvailability.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
