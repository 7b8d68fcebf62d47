package zsampler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Model, Conditioning and Latent are opaque host values.
type (
	Model        any
	Conditioning any
	Latent       any
)

// Sampler runs one custom sampling pass. It is implemented by the host.
type Sampler interface {
	SampleCustom(ctx context.Context, model Model, positive, negative Conditioning, latent Latent, stage Stage) (Latent, error)
}

// SamplerFunc adapts a function to the Sampler interface.
type SamplerFunc func(ctx context.Context, model Model, positive, negative Conditioning, latent Latent, stage Stage) (Latent, error)

// SampleCustom calls f.
func (f SamplerFunc) SampleCustom(ctx context.Context, model Model, positive, negative Conditioning, latent Latent, stage Stage) (Latent, error) {
	return f(ctx, model, positive, negative, latent, stage)
}

// Turbo chains the TurboPlan stages through a Sampler.
type Turbo struct {
	sampler Sampler
	logger  *zap.Logger
}

// NewTurbo creates a Turbo runner. A nil logger disables logging.
func NewTurbo(sampler Sampler, logger *zap.Logger) *Turbo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Turbo{sampler: sampler, logger: logger}
}

// Run samples latent through the three Turbo stages and returns the final
// latent. The positive conditioning is also used as the negative one, as
// CFG 1 ignores it. A seed of -1 picks a random seed.
//
// The context is checked before every stage.
func (t *Turbo) Run(ctx context.Context, model Model, positive Conditioning, latent Latent, seed int64) (Latent, error) {
	if t.sampler == nil {
		return nil, ErrSamplerMissing
	}

	seed = ResolveSeed(seed)
	for i, stage := range TurboPlan(seed) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := ValidateStage(stage); err != nil {
			return nil, err
		}

		start := time.Now()
		out, err := t.sampler.SampleCustom(ctx, model, positive, positive, latent, stage)
		if err != nil {
			return nil, fmt.Errorf("%w: stage %d (%s): %w", ErrStageFailed, i+1, stage.Name, err)
		}
		latent = out

		t.logger.Debug("turbo stage complete",
			zap.String("stage", stage.Name),
			zap.Int("steps", stage.Steps()),
			zap.Int64("seed", stage.Seed),
			zap.Duration("duration", time.Since(start)))
	}
	return latent, nil
}

// RunTurbo is a convenience for NewTurbo(s, nil).Run.
func RunTurbo(ctx context.Context, s Sampler, model Model, positive Conditioning, latent Latent, seed int64) (Latent, error) {
	return NewTurbo(s, nil).Run(ctx, model, positive, latent, seed)
}
