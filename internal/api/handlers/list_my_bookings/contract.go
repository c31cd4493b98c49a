package list_my_bookings

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

type BookingLister interface {
	ListMyBookings(ctx context.Context, participantID int64) (*orchestrator.BookingsResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
