package nodes

import "errors"

// Sentinel errors for node execution.
var (
	// ErrUnknownCategory is returned when a category is not part of the
	// predefined catalog, typically a workflow saved by an older version.
	ErrUnknownCategory = errors.New("nodes: unknown style category")

	// ErrEncoderMissing is returned when the encoder node runs without a
	// text encoder.
	ErrEncoderMissing = errors.New("nodes: text encoder is missing")

	// ErrUnknownStyle is returned when a style name is valid but defined nowhere.
	ErrUnknownStyle = errors.New("nodes: unknown style")

	// ErrNilCatalog is returned by constructors given a nil catalog.
	ErrNilCatalog = errors.New("nodes: style catalog is nil")
)
