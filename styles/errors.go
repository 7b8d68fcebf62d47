package styles

import "errors"

// Sentinel errors for style catalog operations.
var (
	// ErrInvalidSource is returned when a lookup source is nil, either at the
	// top level or nested inside a Many.
	ErrInvalidSource = errors.New("styles: invalid style source")

	// ErrInvalidGroup is returned by NewCatalog for nil groups or groups
	// without a category.
	ErrInvalidGroup = errors.New("styles: invalid style group")

	// ErrDuplicateCategory is returned by NewCatalog when two groups share a category.
	ErrDuplicateCategory = errors.New("styles: duplicate style category")
)
