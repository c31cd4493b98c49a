package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	bookingRepo "github.com/m04kA/shelter-booking/internal/infra/storage/booking"
	catalogRepo "github.com/m04kA/shelter-booking/internal/infra/storage/catalog"
	"github.com/m04kA/shelter-booking/pkg/txmanager"
)

const maxCodeAttempts = 3

// Service журнал бронирований поверх PostgreSQL.
// Проверка вместимости и вставка выполняются в одной SERIALIZABLE транзакции.
type Service struct {
	bookings  BookingRepository
	services  ServiceRepository
	txManager TransactionManager
	locker    SlotLocker
	metrics   Metrics
	logger    Logger
	location  *time.Location
	newCode   func() string
}

// NewService создает журнал. locker может быть nil.
// location задает часовой пояс, в котором интерпретируется время приюта.
func NewService(
	bookings BookingRepository,
	services ServiceRepository,
	txManager TransactionManager,
	locker SlotLocker,
	metrics Metrics,
	logger Logger,
	location *time.Location,
) *Service {
	if location == nil {
		location = time.Local
	}
	return &Service{
		bookings:  bookings,
		services:  services,
		txManager: txManager,
		locker:    locker,
		metrics:   metrics,
		logger:    logger,
		location:  location,
		newCode:   domain.NewConfirmationCode,
	}
}

// Create создает бронирование, если в слоте есть место
func (s *Service) Create(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	if err := req.Attendee.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Booking
	write := func(ctx context.Context) error {
		for attempt := 1; attempt <= maxCodeAttempts; attempt++ {
			err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
				b, err := s.createInTx(ctx, req)
				if err != nil {
					return err
				}
				created = b
				return nil
			})
			if errors.Is(err, bookingRepo.ErrDuplicateCode) {
				s.logger.Warn("Create: confirmation code collision, attempt %d", attempt)
				continue
			}
			return err
		}
		return ErrCodeCollision
	}

	var err error
	if s.locker != nil {
		err = s.locker.WithLock(ctx, slotLockKey(req.ServiceID, req.AppointmentDatetime), write)
	} else {
		err = write(ctx)
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCapacityExceeded):
			s.metrics.IncCapacityExceeded()
			s.logger.Info("Create: slot service=%d at %s is full",
				req.ServiceID, req.AppointmentDatetime.Format(domain.DatetimeFormat))
			return nil, err
		case errors.Is(err, domain.ErrServiceNotFound):
			s.logger.Warn("Create: service id=%d not found", req.ServiceID)
			return nil, err
		case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
			return nil, err
		case txmanager.IsSerializationFailure(err):
			s.logger.Warn("Create: slot service=%d at %s is contended, retries exhausted",
				req.ServiceID, req.AppointmentDatetime.Format(domain.DatetimeFormat))
			return nil, fmt.Errorf("%w: Create - %w", ErrLedgerUnavailable, err)
		}
		s.logger.Error("Create: ledger write failed for service=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: Create - %v", ErrLedgerUnavailable, err)
	}

	s.metrics.IncBookingCreated(string(created.Status), false)
	s.logger.Info("Create: booking id=%d code=%s status=%s", created.ID, created.ConfirmationCode, created.Status)
	return s.localize(created), nil
}

func (s *Service) createInTx(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	service, err := s.services.GetService(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, catalogRepo.ErrServiceNotFound) {
			return nil, domain.ErrServiceNotFound
		}
		return nil, err
	}

	active, err := s.bookings.ListBySlot(ctx, bookingRepo.SlotFilter{
		ServiceID:  req.ServiceID,
		Datetime:   req.AppointmentDatetime,
		ActiveOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if len(active) >= service.Capacity {
		return nil, domain.ErrCapacityExceeded
	}

	return s.bookings.Create(ctx, &domain.Booking{
		ConfirmationCode:    s.newCode(),
		ServiceID:           req.ServiceID,
		ParticipantID:       req.ParticipantID,
		ShelterID:           req.ShelterID,
		AppointmentDatetime: req.AppointmentDatetime,
		DurationMinutes:     service.DurationMinutes,
		Status:              domain.InitialStatus(service),
		Attendee:            req.Attendee,
		Notes:               req.Notes,
	})
}

// GetByID получает бронирование по ID
func (s *Service) GetByID(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return nil, domain.ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", bookingID, err)
		return nil, fmt.Errorf("%w: GetByID - %v", ErrLedgerUnavailable, err)
	}
	return s.localize(b), nil
}

// ListByParticipant возвращает бронирования участника, новые первыми
func (s *Service) ListByParticipant(ctx context.Context, participantID int64) ([]*domain.Booking, error) {
	bookings, err := s.bookings.ListByParticipant(ctx, participantID)
	if err != nil {
		s.logger.Error("ListByParticipant: repository error for participant=%d: %v", participantID, err)
		return nil, fmt.Errorf("%w: ListByParticipant - %v", ErrLedgerUnavailable, err)
	}
	return s.localizeAll(bookings), nil
}

// ListBySlot возвращает все бронирования слота
func (s *Service) ListBySlot(ctx context.Context, serviceID int64, datetime time.Time) ([]*domain.Booking, error) {
	bookings, err := s.bookings.ListBySlot(ctx, bookingRepo.SlotFilter{ServiceID: serviceID, Datetime: datetime})
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - %v", ErrLedgerUnavailable, err)
	}
	return s.localizeAll(bookings), nil
}

// Transition меняет статус бронирования по таблице переходов
func (s *Service) Transition(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	var updated *domain.Booking
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		b, err := s.bookings.GetByID(ctx, bookingID)
		if err != nil {
			return err
		}
		if !domain.CanTransition(b.Status, status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, status)
		}

		updatedAt, err := s.bookings.UpdateStatus(ctx, bookingID, b.Status, status)
		if err != nil {
			return err
		}

		s.metrics.IncStatusTransition(string(b.Status), string(status))
		b.Status = status
		b.UpdatedAt = updatedAt
		updated = b
		return nil
	})

	switch {
	case err == nil:
		s.logger.Info("Transition: booking id=%d -> %s", bookingID, status)
		return s.localize(updated), nil
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		return nil, domain.ErrBookingNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		s.logger.Warn("Transition: booking id=%d: %v", bookingID, err)
		return nil, err
	case errors.Is(err, bookingRepo.ErrStatusChanged):
		return nil, fmt.Errorf("%w: booking id=%d changed concurrently", domain.ErrInvalidTransition, bookingID)
	}

	s.logger.Error("Transition: repository error for booking id=%d: %v", bookingID, err)
	return nil, fmt.Errorf("%w: Transition - %v", ErrLedgerUnavailable, err)
}

// localize переносит время записи в часовой пояс приюта без сдвига часов
func (s *Service) localize(b *domain.Booking) *domain.Booking {
	b.AppointmentDatetime = domain.InLocation(b.AppointmentDatetime, s.location)
	return b
}

func (s *Service) localizeAll(bookings []*domain.Booking) []*domain.Booking {
	for _, b := range bookings {
		s.localize(b)
	}
	return bookings
}

func slotLockKey(serviceID int64, datetime time.Time) string {
	return fmt.Sprintf("slot:%d:%s", serviceID, datetime.Format(domain.DatetimeFormat))
}
