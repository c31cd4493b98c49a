package get_availability

import (
	"context"
	"fmt"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/internal/slots"
)

// UseCase use case расчета доступности слотов.
// Занятость всегда читается из журнала заново, кэша нет.
type UseCase struct {
	ledger     Ledger
	stubLedger Ledger
	logger     Logger
}

// NewUseCase создает use case. stubLedger используется для услуг из резервного
// каталога и может быть nil.
func NewUseCase(ledger, stubLedger Ledger, logger Logger) *UseCase {
	return &UseCase{
		ledger:     ledger,
		stubLedger: stubLedger,
		logger:     logger,
	}
}

// Execute возвращает слоты услуги на дату с оставшейся вместимостью
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if req == nil || req.Service == nil {
		return nil, fmt.Errorf("%w: service is required", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	ledger, degraded := uc.ledgerFor(req.Service)

	candidates := slots.Generate(req.Service, req.Date)
	result := make([]domain.SlotAvailability, 0, len(candidates))
	for _, slot := range candidates {
		if !req.NotBefore.IsZero() && slot.Datetime.Before(req.NotBefore) {
			continue
		}

		bookings, err := ledger.ListBySlot(ctx, req.Service.ID, slot.Datetime)
		if err != nil {
			uc.logger.Error("GetAvailability: ledger read failed for service=%d at %s: %v",
				req.Service.ID, slot.Datetime.Format(domain.DatetimeFormat), err)
			return nil, fmt.Errorf("%w: %v", ErrLedgerUnavailable, err)
		}

		result = append(result, domain.NewSlotAvailability(slot, domain.CountActive(bookings)))
	}

	if len(result) == 0 {
		uc.logger.Info("GetAvailability: no slots for service=%d on %s", req.Service.ID, req.Date.Format(domain.DateFormat))
	}

	return &Response{
		Date:     domain.DateOnly(req.Date),
		Slots:    result,
		Degraded: degraded,
	}, nil
}

func (uc *UseCase) ledgerFor(service *domain.ServiceDefinition) (Ledger, bool) {
	if service.IsFallback() && uc.stubLedger != nil {
		return uc.stubLedger, true
	}
	return uc.ledger, service.IsFallback()
}
