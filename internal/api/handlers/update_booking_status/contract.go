package update_booking_status

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/domain"
)

type StatusUpdater interface {
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
