package ledger

import "errors"

var (
	// ErrLedgerUnavailable возвращается при ошибках хранилища, которые имеет смысл повторить
	ErrLedgerUnavailable = errors.New("ledger.service: ledger unavailable")

	// ErrCodeCollision возвращается, если не удалось подобрать уникальный код подтверждения
	ErrCodeCollision = errors.New("ledger.service: could not allocate confirmation code")
)
