package orchestrator

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("orchestrator: invalid input data")

	// ErrCategoryNotFound возвращается для неизвестной категории
	ErrCategoryNotFound = errors.New("orchestrator: category not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена или неактивна
	ErrServiceNotFound = errors.New("orchestrator: service not found")

	// ErrCatalogUnavailable возвращается, когда каталог недоступен
	ErrCatalogUnavailable = errors.New("orchestrator: catalog unavailable")

	// ErrInvalidDate возвращается, когда дата вне окна бронирования
	ErrInvalidDate = errors.New("orchestrator: date outside booking window")

	// ErrInvalidTimeSlot возвращается, когда выбранное время не является слотом услуги
	ErrInvalidTimeSlot = errors.New("orchestrator: invalid time slot")

	// ErrSlotUnavailable возвращается при выборе слота без свободных мест
	ErrSlotUnavailable = errors.New("orchestrator: slot is fully booked")

	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("orchestrator: booking not found")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("orchestrator: invalid status transition")

	// ErrLedgerUnavailable возвращается, когда журнал бронирований недоступен
	ErrLedgerUnavailable = errors.New("orchestrator: ledger unavailable")

	// ErrWrongStep возвращается, когда шаг сессии вызван не по порядку
	ErrWrongStep = errors.New("orchestrator: wrong session step")
)
