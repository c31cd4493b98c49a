package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/pkg/ptr"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ParticipantID <= 0 {
		return fmt.Errorf("%w: participantID must be positive", ErrInvalidInput)
	}

	if req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}

	if req.Datetime.IsZero() {
		return fmt.Errorf("%w: datetime is required", ErrInvalidInput)
	}

	if err := req.Attendee.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if utf8.RuneCountInString(strings.TrimSpace(req.Attendee.Name)) > domain.MaxAttendeeNameLength {
		return fmt.Errorf("%w: attendee name is longer than %d characters", ErrInvalidInput, domain.MaxAttendeeNameLength)
	}

	if utf8.RuneCountInString(ptr.Deref(req.Notes, "")) > domain.MaxNotesLength {
		return fmt.Errorf("%w: notes are longer than %d characters", ErrInvalidInput, domain.MaxNotesLength)
	}

	return nil
}

// isPermanent ошибки журнала, которые повторять бессмысленно
func isPermanent(err error) bool {
	return errors.Is(err, domain.ErrCapacityExceeded) ||
		errors.Is(err, domain.ErrServiceNotFound) ||
		errors.Is(err, domain.ErrEmptyAttendee) ||
		errors.Is(err, context.Canceled)
}
