package catalog

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Repository источник определений услуг
type Repository interface {
	GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error)
	ListByCategory(ctx context.Context, shelterID int64, categoryID string) ([]*domain.ServiceDefinition, error)
}

// Metrics счетчик ответов из резервного каталога
type Metrics interface {
	IncDegraded(component string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
