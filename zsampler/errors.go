package zsampler

import "errors"

// Sentinel errors for ZSampler operations.
var (
	// ErrInvalidStage is returned when a stage fails validation.
	ErrInvalidStage = errors.New("zsampler: invalid sampling stage")

	// ErrSamplerMissing is returned when no sampler is configured.
	ErrSamplerMissing = errors.New("zsampler: sampler is missing")

	// ErrStageFailed wraps an error returned by the sampler for one stage.
	ErrStageFailed = errors.New("zsampler: sampling stage failed")
)
