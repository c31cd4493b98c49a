package submit_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	catalogService "github.com/m04kA/shelter-booking/internal/service/catalog"
	"github.com/m04kA/shelter-booking/internal/slots"
	"github.com/m04kA/shelter-booking/internal/usecase/get_availability"
)

const degradedComponent = "ledger"

// UseCase use case записи на слот
type UseCase struct {
	catalog      Catalog
	ledger       Ledger
	stubLedger   Ledger
	availability Availability
	categories   Categories
	metrics      Metrics
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// stubLedger принимает предварительные записи, когда основной журнал недоступен, и может быть nil.
func NewUseCase(
	catalog Catalog,
	ledger Ledger,
	stubLedger Ledger,
	availability Availability,
	categories Categories,
	metrics Metrics,
	settings Settings,
	logger Logger,
) *UseCase {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &UseCase{
		catalog:      catalog,
		ledger:       ledger,
		stubLedger:   stubLedger,
		availability: availability,
		categories:   categories,
		metrics:      metrics,
		settings:     settings,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute проверяет запрос и записывает бронирование с проверкой вместимости
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: participant=%d, service=%d, datetime=%s",
		req.ParticipantID, req.ServiceID, req.Datetime.Format(domain.DatetimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Текущее время и время слота в часовом поясе приюта
	now := uc.timeProvider.Now().In(uc.settings.Location)
	datetime := domain.InLocation(req.Datetime, uc.settings.Location)

	// 3. Получаем услугу
	service, err := uc.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrServiceNotFound):
			uc.logger.Warn("SubmitBooking: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		case errors.Is(err, domain.ErrInvalidService):
			return nil, fmt.Errorf("%w: service id=%d is misconfigured", ErrServiceNotFound, req.ServiceID)
		case errors.Is(err, catalogService.ErrCatalogUnavailable):
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}
		uc.logger.Error("SubmitBooking: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	if !service.Active || (req.ShelterID != 0 && service.ShelterID != req.ShelterID) {
		uc.logger.Warn("SubmitBooking: service id=%d is not bookable in shelter=%d", req.ServiceID, req.ShelterID)
		return nil, ErrServiceNotFound
	}

	// 4. Проверяем окно бронирования категории
	window := uc.bookingWindow(service, now)
	if err := window.CheckDate(datetime); err != nil {
		uc.logger.Warn("SubmitBooking: date validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	// 5. Время должно совпадать с одним из слотов на эту дату
	if _, ok := slots.Find(slots.Generate(service, domain.DateOnly(datetime)), datetime); !ok {
		uc.logger.Warn("SubmitBooking: %s is not a slot of service id=%d",
			datetime.Format(domain.DatetimeFormat), service.ID)
		return nil, ErrInvalidTimeSlot
	}

	// 6. Минимальный срок записи на сегодняшние слоты
	if err := window.CheckStart(datetime); err != nil {
		uc.logger.Warn("SubmitBooking: booking time validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrTooLateToBook, err)
	}

	bookingReq := &domain.BookingRequest{
		ServiceID:           service.ID,
		ParticipantID:       req.ParticipantID,
		ShelterID:           service.ShelterID,
		AppointmentDatetime: datetime,
		Attendee:            req.Attendee,
		Notes:               req.Notes,
	}

	// 7. Услуги из резервного каталога записываются только в локальный журнал
	if service.IsFallback() {
		if uc.stubLedger == nil {
			return nil, fmt.Errorf("%w: fallback service id=%d has no local ledger", ErrLedgerUnavailable, service.ID)
		}
		return uc.writeProvisional(ctx, service, bookingReq, window)
	}

	// 8. Запись в основной журнал с таймаутом и повторами
	booking, err := uc.writeWithRetry(ctx, bookingReq)
	switch {
	case err == nil:
		uc.logger.Info("SubmitBooking: booking id=%d code=%s created", booking.ID, booking.ConfirmationCode)
		return &Response{Booking: booking, Service: service}, nil
	case errors.Is(err, domain.ErrCapacityExceeded):
		return nil, uc.capacityExceeded(ctx, service, datetime, window)
	case errors.Is(err, domain.ErrServiceNotFound):
		return nil, ErrServiceNotFound
	case errors.Is(err, domain.ErrEmptyAttendee):
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	case ctx.Err() != nil:
		return nil, ctx.Err()
	}

	// 9. Журнал недоступен: предварительная запись или ошибка
	if uc.settings.DegradedEnabled && uc.stubLedger != nil {
		uc.logger.Warn("SubmitBooking: ledger unavailable, recording provisional booking: %v", err)
		return uc.writeProvisional(ctx, service, bookingReq, window)
	}

	uc.logger.Error("SubmitBooking: ledger write failed for service=%d: %v", service.ID, err)
	return nil, err
}

func (uc *UseCase) bookingWindow(service *domain.ServiceDefinition, now time.Time) domain.BookingWindow {
	window := domain.BookingWindow{
		Now:                now,
		AdvanceBookingDays: domain.DefaultAdvanceBookingDays,
		MinNoticeMinutes:   uc.settings.MinBookingNoticeMinutes,
	}
	if uc.categories != nil {
		if cat, ok := uc.categories.Category(service.CategoryID); ok {
			window.AdvanceBookingDays = cat.AdvanceBookingDays
		}
	}
	return window
}

// writeWithRetry пишет в основной журнал. Каждая попытка ограничена WriteTimeout.
func (uc *UseCase) writeWithRetry(ctx context.Context, req *domain.BookingRequest) (*domain.Booking, error) {
	var booking *domain.Booking
	err := uc.settings.Retry.Do(ctx, func(ctx context.Context) error {
		writeCtx := ctx
		if uc.settings.WriteTimeout > 0 {
			var cancel context.CancelFunc
			writeCtx, cancel = context.WithTimeout(ctx, uc.settings.WriteTimeout)
			defer cancel()
		}

		b, err := uc.ledger.Create(writeCtx, req)
		if err == nil {
			booking = b
			return nil
		}
		if isPermanent(err) || ctx.Err() != nil {
			return err
		}
		if errors.Is(writeCtx.Err(), context.DeadlineExceeded) {
			uc.logger.Warn("SubmitBooking: ledger write timed out after %s", uc.settings.WriteTimeout)
			return fmt.Errorf("%w: %v", ErrLedgerTimeout, err)
		}
		uc.logger.Warn("SubmitBooking: transient ledger error: %v", err)
		return fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}, func(err error) bool {
		return isPermanent(err) || ctx.Err() != nil
	})
	return booking, err
}

func (uc *UseCase) writeProvisional(
	ctx context.Context,
	service *domain.ServiceDefinition,
	req *domain.BookingRequest,
	window domain.BookingWindow,
) (*Response, error) {
	booking, err := uc.stubLedger.Create(ctx, req)
	if err != nil {
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return nil, uc.capacityExceeded(ctx, service, req.AppointmentDatetime, window)
		}
		uc.logger.Error("SubmitBooking: local ledger write failed: %v", err)
		return nil, fmt.Errorf("%w: local ledger: %v", ErrLedgerUnavailable, err)
	}

	uc.metrics.IncDegraded(degradedComponent)
	uc.metrics.IncBookingCreated(string(booking.Status), true)
	uc.logger.Warn("SubmitBooking: provisional booking id=%d code=%s recorded locally", booking.ID, booking.ConfirmationCode)
	return &Response{Booking: booking, Service: service, Degraded: true}, nil
}

// capacityExceeded собирает отказ с актуальной доступностью на ту же дату
func (uc *UseCase) capacityExceeded(
	ctx context.Context,
	service *domain.ServiceDefinition,
	datetime time.Time,
	window domain.BookingWindow,
) error {
	uc.logger.Info("SubmitBooking: slot %s of service id=%d is full", datetime.Format(domain.DatetimeFormat), service.ID)

	capErr := &CapacityExceededError{}
	resp, err := uc.availability.Execute(ctx, &get_availability.Request{
		Service:   service,
		Date:      domain.DateOnly(datetime),
		NotBefore: window.EarliestStart(),
	})
	if err != nil {
		uc.logger.Warn("SubmitBooking: failed to refresh availability: %v", err)
		return capErr
	}
	capErr.Alternatives = resp.Slots
	return capErr
}
