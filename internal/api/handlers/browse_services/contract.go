package browse_services

import (
	"context"

	"github.com/m04kA/shelter-booking/internal/orchestrator"
)

type ServiceBrowser interface {
	BrowseServices(ctx context.Context, shelterID int64, categoryID string) (*orchestrator.ServicesResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
