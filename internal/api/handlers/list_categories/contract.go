package list_categories

import "github.com/m04kA/shelter-booking/internal/domain"

type CategoryLister interface {
	ListCategories() []domain.Category
}

type Logger interface {
	Info(format string, v ...interface{})
}
