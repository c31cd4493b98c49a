package submit_booking

import (
	"context"

	submitBooking "github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

type BookingSubmitter interface {
	SubmitBooking(ctx context.Context, req *submitBooking.Request) (*submitBooking.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
