// Package orchestrator exposes the booking workflow to transports: catalog
// browsing, availability, submission and the booking lifecycle.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	catalogService "github.com/m04kA/shelter-booking/internal/service/catalog"
	"github.com/m04kA/shelter-booking/internal/usecase/get_availability"
	"github.com/m04kA/shelter-booking/internal/usecase/submit_booking"
)

// Orchestrator фасад операций бронирования
type Orchestrator struct {
	categories   CategoryRegistry
	catalog      Catalog
	ledger       Ledger
	stubLedger   Ledger
	availability Availability
	submitter    Submitter
	settings     Settings
	timeProvider TimeProvider
	logger       Logger
}

// New создает оркестратор. stubLedger хранит предварительные записи и может быть nil.
func New(
	categories CategoryRegistry,
	catalog Catalog,
	ledger Ledger,
	stubLedger Ledger,
	availability Availability,
	submitter Submitter,
	settings Settings,
	logger Logger,
) *Orchestrator {
	if settings.Location == nil {
		settings.Location = time.Local
	}
	return &Orchestrator{
		categories:   categories,
		catalog:      catalog,
		ledger:       ledger,
		stubLedger:   stubLedger,
		availability: availability,
		submitter:    submitter,
		settings:     settings,
		timeProvider: &submit_booking.RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы (для тестов)
func (o *Orchestrator) WithTimeProvider(tp TimeProvider) *Orchestrator {
	o.timeProvider = tp
	return o
}

// ListCategories возвращает категории услуг
func (o *Orchestrator) ListCategories() []domain.Category {
	return o.categories.List()
}

// BrowseServices возвращает активные услуги категории в приюте
func (o *Orchestrator) BrowseServices(ctx context.Context, shelterID int64, categoryID string) (*ServicesResult, error) {
	category, ok := o.categories.Category(categoryID)
	if !ok {
		o.logger.Warn("BrowseServices: unknown category %q", categoryID)
		return nil, fmt.Errorf("%w: %s", ErrCategoryNotFound, categoryID)
	}
	if shelterID <= 0 {
		return nil, fmt.Errorf("%w: shelterID must be positive", ErrInvalidInput)
	}

	result, err := o.catalog.ListServicesByCategory(ctx, shelterID, categoryID)
	if err != nil {
		return nil, o.catalogError("BrowseServices", err)
	}

	if len(result.Services) == 0 {
		o.logger.Info("BrowseServices: no services in category=%s for shelter=%d", categoryID, shelterID)
	}

	return &ServicesResult{
		Category: category,
		Services: result.Services,
		Degraded: result.Degraded,
	}, nil
}

// GetAvailability возвращает слоты услуги на дату.
// Уже начавшиеся сегодняшние слоты (с учетом минимального срока записи) не показываются.
func (o *Orchestrator) GetAvailability(ctx context.Context, serviceID int64, date time.Time) (*get_availability.Response, error) {
	if serviceID <= 0 {
		return nil, fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
	}
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	service, err := o.catalog.GetService(ctx, serviceID)
	if err != nil {
		return nil, o.catalogError("GetAvailability", err)
	}
	if !service.Active {
		return nil, ErrServiceNotFound
	}

	return o.availabilityFor(ctx, service, date)
}

// SubmitBooking записывает участника на слот
func (o *Orchestrator) SubmitBooking(ctx context.Context, req *submit_booking.Request) (*submit_booking.Response, error) {
	return o.submitter.Execute(ctx, req)
}

// ListMyBookings возвращает бронирования участника вместе с предварительными.
// Если основной журнал недоступен и деградация включена, отдаются только локальные записи.
func (o *Orchestrator) ListMyBookings(ctx context.Context, participantID int64) (*BookingsResult, error) {
	if participantID <= 0 {
		return nil, fmt.Errorf("%w: participantID must be positive", ErrInvalidInput)
	}

	result := &BookingsResult{}

	bookings, err := o.ledger.ListByParticipant(ctx, participantID)
	if err != nil {
		if !o.settings.DegradedEnabled || o.stubLedger == nil {
			o.logger.Error("ListMyBookings: ledger read failed for participant=%d: %v", participantID, err)
			return nil, fmt.Errorf("%w: ListMyBookings - %v", ErrLedgerUnavailable, err)
		}
		o.logger.Warn("ListMyBookings: ledger unavailable, showing local bookings only: %v", err)
		result.Degraded = true
	}
	result.Bookings = bookings

	if o.stubLedger != nil {
		provisional, err := o.stubLedger.ListByParticipant(ctx, participantID)
		if err != nil {
			return nil, fmt.Errorf("%w: ListMyBookings - local ledger: %v", ErrLedgerUnavailable, err)
		}
		result.Bookings = append(result.Bookings, provisional...)
	}

	sort.SliceStable(result.Bookings, func(i, j int) bool {
		return result.Bookings[i].AppointmentDatetime.After(result.Bookings[j].AppointmentDatetime)
	})

	if result.Bookings == nil {
		result.Bookings = []*domain.Booking{}
	}
	return result, nil
}

// GetBooking возвращает бронирование по ID
func (o *Orchestrator) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	ledger, err := o.ledgerFor(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := ledger.GetByID(ctx, bookingID)
	if err != nil {
		return nil, o.ledgerError("GetBooking", bookingID, err)
	}
	return booking, nil
}

// UpdateBookingStatus меняет статус бронирования по таблице переходов
func (o *Orchestrator) UpdateBookingStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) (*domain.Booking, error) {
	if _, err := domain.ParseBookingStatus(string(status)); err != nil {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	ledger, err := o.ledgerFor(bookingID)
	if err != nil {
		return nil, err
	}

	booking, err := ledger.Transition(ctx, bookingID, status)
	if err != nil {
		return nil, o.ledgerError("UpdateBookingStatus", bookingID, err)
	}

	o.logger.Info("UpdateBookingStatus: booking id=%d is now %s", bookingID, booking.Status)
	return booking, nil
}

// NewSession начинает пошаговую запись участника
func (o *Orchestrator) NewSession(participantID, shelterID int64) *Session {
	return &Session{
		orchestrator:  o,
		participantID: participantID,
		shelterID:     shelterID,
		step:          StepCategory,
	}
}

func (o *Orchestrator) availabilityFor(ctx context.Context, service *domain.ServiceDefinition, date time.Time) (*get_availability.Response, error) {
	window := o.bookingWindow(service)
	day := domain.DateOnly(domain.InLocation(date, o.settings.Location))

	if err := window.CheckDate(day); err != nil {
		o.logger.Warn("GetAvailability: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidDate, err)
	}

	resp, err := o.availability.Execute(ctx, &get_availability.Request{
		Service:   service,
		Date:      day,
		NotBefore: window.EarliestStart(),
	})
	if err != nil {
		if errors.Is(err, get_availability.ErrInvalidInput) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
	}
	return resp, nil
}

func (o *Orchestrator) bookingWindow(service *domain.ServiceDefinition) domain.BookingWindow {
	window := domain.BookingWindow{
		Now:                o.timeProvider.Now().In(o.settings.Location),
		AdvanceBookingDays: domain.DefaultAdvanceBookingDays,
		MinNoticeMinutes:   o.settings.MinBookingNoticeMinutes,
	}
	if cat, ok := o.categories.Category(service.CategoryID); ok {
		window.AdvanceBookingDays = cat.AdvanceBookingDays
	}
	return window
}

// ledgerFor выбирает журнал по знаку ID: отрицательные ID у предварительных записей
func (o *Orchestrator) ledgerFor(bookingID int64) (Ledger, error) {
	switch {
	case bookingID > 0:
		return o.ledger, nil
	case bookingID < 0 && o.stubLedger != nil:
		return o.stubLedger, nil
	case bookingID < 0:
		return nil, ErrBookingNotFound
	}
	return nil, fmt.Errorf("%w: bookingID must not be zero", ErrInvalidInput)
}

func (o *Orchestrator) catalogError(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrServiceNotFound), errors.Is(err, domain.ErrInvalidService):
		o.logger.Warn("%s: %v", op, err)
		return fmt.Errorf("%w: %v", ErrServiceNotFound, err)
	case errors.Is(err, catalogService.ErrCatalogUnavailable):
		return fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}
	o.logger.Error("%s: catalog error: %v", op, err)
	return fmt.Errorf("%w: %s - %v", ErrCatalogUnavailable, op, err)
}

func (o *Orchestrator) ledgerError(op string, bookingID int64, err error) error {
	switch {
	case errors.Is(err, domain.ErrBookingNotFound):
		o.logger.Warn("%s: booking id=%d not found", op, bookingID)
		return ErrBookingNotFound
	case errors.Is(err, domain.ErrInvalidTransition):
		o.logger.Warn("%s: booking id=%d: %v", op, bookingID, err)
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}
	o.logger.Error("%s: ledger error for booking id=%d: %v", op, bookingID, err)
	return fmt.Errorf("%w: %s - %v", ErrLedgerUnavailable, op, err)
}
