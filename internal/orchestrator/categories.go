package orchestrator

import "github.com/m04kA/shelter-booking/internal/domain"

// Registry статический справочник категорий в порядке конфигурации
type Registry struct {
	ordered []domain.Category
	index   map[string]int
}

// NewRegistry создает справочник. Повторный ID перекрывает предыдущий.
func NewRegistry(categories []domain.Category) *Registry {
	r := &Registry{
		ordered: make([]domain.Category, 0, len(categories)),
		index:   make(map[string]int, len(categories)),
	}
	for _, c := range categories {
		if i, ok := r.index[c.ID]; ok {
			r.ordered[i] = c
			continue
		}
		r.index[c.ID] = len(r.ordered)
		r.ordered = append(r.ordered, c)
	}
	return r
}

// List возвращает копию списка категорий
func (r *Registry) List() []domain.Category {
	result := make([]domain.Category, len(r.ordered))
	copy(result, r.ordered)
	return result
}

// Category ищет категорию по ID
func (r *Registry) Category(id string) (domain.Category, bool) {
	i, ok := r.index[id]
	if !ok {
		return domain.Category{}, false
	}
	return r.ordered[i], true
}
