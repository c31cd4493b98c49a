package get_booking

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/domain"
)

type BookingGetter interface {
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
