package get_availability

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("get_availability: invalid input data")

	// ErrLedgerUnavailable возвращается, если занятость слотов прочитать не удалось
	ErrLedgerUnavailable = errors.New("get_availability: ledger unavailable")
)
