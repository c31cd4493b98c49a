package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/shelter-booking/internal/domain"
	catalogRepo "github.com/m04kA/shelter-booking/internal/infra/storage/catalog"
	"github.com/m04kA/shelter-booking/pkg/retry"
)

const degradedComponent = "catalog"

// ListResult список услуг с признаком резервного источника
type ListResult struct {
	Services []*domain.ServiceDefinition
	Degraded bool
}

// Service каталог услуг: основной репозиторий с повторами и явным
// резервным каталогом. Данные источников никогда не смешиваются.
type Service struct {
	primary  Repository
	fallback Repository
	retry    retry.Policy
	metrics  Metrics
	logger   Logger
}

// NewService создает каталог. fallback может быть nil, тогда деградации нет.
func NewService(primary, fallback Repository, policy retry.Policy, metrics Metrics, logger Logger) *Service {
	return &Service{
		primary:  primary,
		fallback: fallback,
		retry:    policy,
		metrics:  metrics,
		logger:   logger,
	}
}

// GetService возвращает услугу по ID.
// Отсутствие услуги в основном каталоге окончательно и не повторяется.
func (s *Service) GetService(ctx context.Context, serviceID int64) (*domain.ServiceDefinition, error) {
	var service *domain.ServiceDefinition
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		service, err = s.primary.GetService(ctx, serviceID)
		return err
	}, isNotFound)

	switch {
	case err == nil:
		if vErr := service.Validate(); vErr != nil {
			s.logger.Error("GetService: malformed service id=%d: %v", serviceID, vErr)
			return nil, vErr
		}
		return service, nil
	case isNotFound(err):
		s.logger.Warn("GetService: service id=%d not found", serviceID)
		return nil, fmt.Errorf("%w: GetService - id=%d", domain.ErrServiceNotFound, serviceID)
	}

	s.logger.Warn("GetService: primary catalog failed for id=%d: %v", serviceID, err)
	if s.fallback == nil {
		return nil, fmt.Errorf("%w: GetService - %v", ErrCatalogUnavailable, err)
	}

	service, fbErr := s.fallback.GetService(ctx, serviceID)
	if fbErr != nil {
		s.logger.Warn("GetService: service id=%d not in fallback catalog", serviceID)
		return nil, fmt.Errorf("%w: GetService - %v", ErrCatalogUnavailable, err)
	}

	s.metrics.IncDegraded(degradedComponent)
	s.logger.Warn("GetService: serving service id=%d from fallback catalog", serviceID)
	service.Origin = domain.OriginFallback
	return service, nil
}

// ListServicesByCategory возвращает активные услуги категории.
// Если основной каталог недоступен или пуст, отдается резервный набор с Degraded = true.
func (s *Service) ListServicesByCategory(ctx context.Context, shelterID int64, categoryID string) (*ListResult, error) {
	var services []*domain.ServiceDefinition
	err := s.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		services, err = s.primary.ListByCategory(ctx, shelterID, categoryID)
		return err
	}, nil)

	if err == nil {
		valid := s.filterValid(services)
		if len(valid) > 0 || s.fallback == nil {
			return &ListResult{Services: valid}, nil
		}
		s.logger.Info("ListServicesByCategory: primary catalog empty for shelter=%d category=%s", shelterID, categoryID)
	} else {
		s.logger.Warn("ListServicesByCategory: primary catalog failed for shelter=%d category=%s: %v",
			shelterID, categoryID, err)
		if s.fallback == nil {
			return nil, fmt.Errorf("%w: ListServicesByCategory - %v", ErrCatalogUnavailable, err)
		}
	}

	fallback, fbErr := s.fallback.ListByCategory(ctx, shelterID, categoryID)
	if fbErr != nil {
		return nil, fmt.Errorf("%w: ListServicesByCategory - fallback: %v", ErrCatalogUnavailable, fbErr)
	}
	for _, svc := range fallback {
		svc.Origin = domain.OriginFallback
	}

	s.metrics.IncDegraded(degradedComponent)
	s.logger.Warn("ListServicesByCategory: serving %d fallback services for shelter=%d category=%s",
		len(fallback), shelterID, categoryID)
	return &ListResult{Services: s.filterValid(fallback), Degraded: true}, nil
}

func (s *Service) filterValid(services []*domain.ServiceDefinition) []*domain.ServiceDefinition {
	result := make([]*domain.ServiceDefinition, 0, len(services))
	for _, svc := range services {
		if err := svc.Validate(); err != nil {
			s.logger.Warn("filterValid: skipping malformed service id=%d: %v", svc.ID, err)
			continue
		}
		if !svc.Active {
			continue
		}
		result = append(result, svc)
	}
	return result
}

func isNotFound(err error) bool {
	return errors.Is(err, catalogRepo.ErrServiceNotFound) || errors.Is(err, domain.ErrServiceNotFound)
}
