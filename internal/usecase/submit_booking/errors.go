package submit_booking

import (
	"errors"

	"github.com/m04kA/shelter-booking/internal/domain"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("submit_booking: invalid input data")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("submit_booking: service not found")

	// ErrCatalogUnavailable возвращается, когда каталог услуг недоступен
	ErrCatalogUnavailable = errors.New("submit_booking: catalog unavailable")

	// ErrInvalidDate возвращается, когда дата вне допустимого окна бронирования
	ErrInvalidDate = errors.New("submit_booking: date outside booking window")

	// ErrInvalidTimeSlot возвращается, когда время не совпадает ни с одним слотом услуги на эту дату
	ErrInvalidTimeSlot = errors.New("submit_booking: invalid time slot")

	// ErrTooLateToBook возвращается, когда слот начинается раньше минимального срока записи
	ErrTooLateToBook = errors.New("submit_booking: too late to book this slot")

	// ErrCapacityExceeded возвращается, когда в слоте не осталось мест
	ErrCapacityExceeded = errors.New("submit_booking: slot capacity exceeded")

	// ErrLedgerTimeout возвращается, когда запись в журнал не уложилась в таймаут
	ErrLedgerTimeout = errors.New("submit_booking: ledger write timed out")

	// ErrLedgerUnavailable возвращается, когда журнал недоступен и деградация выключена
	ErrLedgerUnavailable = errors.New("submit_booking: ledger unavailable")
)

// CapacityExceededError отказ по вместимости вместе с актуальной доступностью на ту же дату
type CapacityExceededError struct {
	Alternatives []domain.SlotAvailability
}

func (e *CapacityExceededError) Error() string {
	return ErrCapacityExceeded.Error()
}

func (e *CapacityExceededError) Unwrap() error {
	return ErrCapacityExceeded
}
