package catalog

import "errors"

var (
	// ErrCatalogUnavailable возвращается, когда основной каталог недоступен,
	// а в резервном нужных данных нет
	ErrCatalogUnavailable = errors.New("catalog.service: catalog unavailable")
)
