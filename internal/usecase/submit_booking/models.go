package submit_booking

import (
	"time"

	"github.com/m04kA/shelter-booking/internal/domain"
	"github.com/m04kA/shelter-booking/pkg/retry"
)

// Request модель запроса на запись
type Request struct {
	ParticipantID int64               // ID участника (из заголовка X-Participant-ID)
	ShelterID     int64               // ID приюта (из заголовка X-Shelter-ID), 0 - не проверять
	ServiceID     int64               // ID услуги
	Datetime      time.Time           // Начало слота, время приюта
	Attendee      domain.AttendeeInfo // Кто придет на прием
	Notes         *string             // Дополнительные заметки (опционально)
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	Service  *domain.ServiceDefinition
	Degraded bool // бронирование предварительное, записано локально
}

// Settings параметры записи
type Settings struct {
	Location                *time.Location
	MinBookingNoticeMinutes int
	WriteTimeout            time.Duration
	Retry                   retry.Policy
	DegradedEnabled         bool
}
