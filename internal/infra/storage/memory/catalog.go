package memory

import (
	"context"
	"sort"

	"github.com/m04kA/shelter-booking/internal/domain"
)

// Catalog статический каталог услуг в памяти.
// Используется как резервный источник, когда основной каталог недоступен.
type Catalog struct {
	services map[int64]*domain.ServiceDefinition
	origin   domain.DataOrigin
}

// NewCatalog создает каталог. Все услуги помечаются origin.
func NewCatalog(services []*domain.ServiceDefinition, origin domain.DataOrigin) *Catalog {
	c := &Catalog{
		services: make(map[int64]*domain.ServiceDefinition, len(services)),
		origin:   origin,
	}
	for _, s := range services {
		cp := cloneService(s)
		cp.Origin = origin
		c.services[s.ID] = cp
	}
	return c
}

// NewFallbackCatalog создает резервный каталог (Origin = fallback)
func NewFallbackCatalog(services []*domain.ServiceDefinition) *Catalog {
	return NewCatalog(services, domain.OriginFallback)
}

// GetService возвращает копию услуги
func (c *Catalog) GetService(_ context.Context, serviceID int64) (*domain.ServiceDefinition, error) {
	s, ok := c.services[serviceID]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	return cloneService(s), nil
}

// ListByCategory возвращает активные услуги категории в приюте, упорядоченные по имени
func (c *Catalog) ListByCategory(_ context.Context, shelterID int64, categoryID string) ([]*domain.ServiceDefinition, error) {
	result := make([]*domain.ServiceDefinition, 0)
	for _, s := range c.services {
		if s.ShelterID == shelterID && s.CategoryID == categoryID && s.Active {
			result = append(result, cloneService(s))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Len количество услуг в каталоге
func (c *Catalog) Len() int {
	return len(c.services)
}

func cloneService(s *domain.ServiceDefinition) *domain.ServiceDefinition {
	cp := *s
	cp.Requirements = append([]string(nil), s.Requirements...)
	cp.Schedule = make([]domain.WeeklyWindow, len(s.Schedule))
	for i, w := range s.Schedule {
		cp.Schedule[i] = w
		if w.Break != nil {
			b := *w.Break
			cp.Schedule[i].Break = &b
		}
	}
	return &cp
}
