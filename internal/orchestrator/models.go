package orchestrator

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Settings параметры оркестратора
type Settings struct {
	Location                *time.Location
	MinBookingNoticeMinutes int
	DegradedEnabled         bool
}

// ServicesResult услуги категории
type ServicesResult struct {
	Category domain.Category
	Services []*domain.ServiceDefinition
	Degraded bool // данные из резервного каталога
}

// BookingsResult бронирования участника, новые первыми
type BookingsResult struct {
	Bookings []*domain.Booking
	Degraded bool // основной журнал недоступен, показаны только локальные записи
}
