package catalog

import "errors"

var (
	// ErrNotFound is returned when an id is not in the catalog.
	ErrNotFound = errors.New("catalog entry not found")
	// ErrInvalidCatalog is returned when a catalog fails validation.
	ErrInvalidCatalog = errors.New("invalid catalog")
	// ErrLoadCatalog is returned when a catalog file cannot be read or parsed.
	ErrLoadCatalog = errors.New("failed to load catalog")
)
