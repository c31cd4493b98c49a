package get_availability

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Request модель запроса занятости слотов услуги на дату
type Request struct {
	Service   *domain.ServiceDefinition // Услуга (уже прочитана из каталога)
	Date      time.Time                 // Дата в часовом поясе приюта
	NotBefore time.Time                 // Слоты, начинающиеся раньше, не отдаются (нулевое значение - без фильтра)
}

// Response модель ответа со слотами и их занятостью
type Response struct {
	Date     time.Time
	Slots    []domain.SlotAvailability
	Degraded bool // услуга из резервного каталога, занятость из локального журнала
}
