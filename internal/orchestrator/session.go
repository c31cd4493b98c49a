package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

// Step шаг пошаговой записи
type Step int

const (
	StepCategory Step = iota
	StepService
	StepDate
	StepSlot
	StepAttendee
	StepDone
)

var stepNames = map[Step]string{
	StepCategory: "category",
	StepService:  "service",
	StepDate:     "date",
	StepSlot:     "slot",
	StepAttendee: "attendee",
	StepDone:     "done",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Session пошаговая запись одного участника:
// категория -> услуга -> дата -> слот -> данные посетителя -> готово.
type Session struct {
	orchestrator  *Orchestrator
	participantID int64
	shelterID     int64

	mu       sync.Mutex
	step     Step
	category domain.Category
	services []*domain.ServiceDefinition
	service  *domain.ServiceDefinition
	slots    []domain.SlotAvailability
	slot     domain.SlotAvailability
	result   *submit_booking.Response
}

// Step возвращает текущий шаг
func (s *Session) Step() Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Slots возвращает последнюю загруженную доступность
func (s *Session) Slots() []domain.SlotAvailability {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]domain.SlotAvailability, len(s.slots))
	copy(result, s.slots)
	return result
}

// Result возвращает итог записи после шага attendee
func (s *Session) Result() *submit_booking.Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SelectCategory выбирает категорию и возвращает ее услуги
func (s *Session) SelectCategory(ctx context.Context, categoryID string) (*ServicesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(StepCategory); err != nil {
		return nil, err
	}

	result, err := s.orchestrator.BrowseServices(ctx, s.shelterID, categoryID)
	if err != nil {
		return nil, err
	}

	s.category = result.Category
	s.services = result.Services
	s.step = StepService
	return result, nil
}

// SelectService выбирает услугу из списка категории
func (s *Session) SelectService(serviceID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(StepService); err != nil {
		return err
	}

	for _, svc := range s.services {
		if svc.ID == serviceID {
			s.service = svc
			s.step = StepDate
			return nil
		}
	}
	return fmt.Errorf("%w: service id=%d is not in category %s", ErrServiceNotFound, serviceID, s.category.ID)
}

// SelectDate выбирает дату и возвращает слоты на нее.
// Пустой список слотов не ошибка, шаг все равно переходит к выбору слота.
func (s *Session) SelectDate(ctx context.Context, date time.Time) ([]domain.SlotAvailability, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(StepDate); err != nil {
		return nil, err
	}

	resp, err := s.orchestrator.availabilityFor(ctx, s.service, date)
	if err != nil {
		return nil, err
	}

	s.slots = resp.Slots
	s.step = StepSlot
	return s.slots, nil
}

// SelectSlot выбирает один из свободных слотов
func (s *Session) SelectSlot(datetime time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(StepSlot); err != nil {
		return err
	}

	want := datetime.Format(domain.DatetimeFormat)
	for _, slot := range s.slots {
		if slot.Slot.Datetime.Format(domain.DatetimeFormat) != want {
			continue
		}
		if !slot.IsAvailable {
			return fmt.Errorf("%w: %s", ErrSlotUnavailable, want)
		}
		s.slot = slot
		s.step = StepAttendee
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidTimeSlot, want)
}

// Submit отправляет запись. При нехватке мест сессия возвращается к выбору слота
// с обновленной доступностью.
func (s *Session) Submit(ctx context.Context, attendee domain.AttendeeInfo, notes *string) (*submit_booking.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.expect(StepAttendee); err != nil {
		return nil, err
	}

	resp, err := s.orchestrator.SubmitBooking(ctx, &submit_booking.Request{
		ParticipantID: s.participantID,
		ShelterID:     s.shelterID,
		ServiceID:     s.service.ID,
		Datetime:      s.slot.Slot.Datetime,
		Attendee:      attendee,
		Notes:         notes,
	})
	if err != nil {
		var capErr *submit_booking.CapacityExceededError
		if errors.As(err, &capErr) {
			s.slots = capErr.Alternatives
			s.slot = domain.SlotAvailability{}
			s.step = StepSlot
		}
		return nil, err
	}

	s.result = resp
	s.step = StepDone
	return resp, nil
}

// Back возвращает к предыдущему шагу. Завершенную сессию вернуть нельзя.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.step == StepCategory || s.step == StepDone {
		return fmt.Errorf("%w: cannot go back from %s", ErrWrongStep, s.step)
	}
	s.step--
	return nil
}

func (s *Session) expect(step Step) error {
	if s.step != step {
		return fmt.Errorf("%w: expected %s, session is at %s", ErrWrongStep, step, s.step)
	}
	return nil
}
