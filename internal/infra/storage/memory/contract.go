package memory

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// ServiceGetter источник определения услуги для проверки вместимости
type ServiceGetter interface {
	GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error)
}
