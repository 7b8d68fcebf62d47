package zsampler

import (
	"fmt"
	"slices"
)

// Sampling constants of the Turbo schedule.
const (
	SamplerName = "euler"
	CFG         = 1.0

	// DetailSeed is the fixed noise seed of the last stage.
	DetailSeed int64 = 696969
)

var (
	composeSigmas = []float64{0.991, 0.98, 0.92}
	refineSigmas  = []float64{0.935, 0.90, 0.875, 0.750, 0.0}
	detailSigmas  = []float64{0.6582, 0.4556, 0.2000, 0.0}
)

// Stage is one sampler pass.
type Stage struct {
	Name     string    `json:"name"`
	AddNoise bool      `json:"add_noise"`
	Seed     int64     `json:"seed"`
	CFG      float64   `json:"cfg"`
	Sampler  string    `json:"sampler"`
	Sigmas   []float64 `json:"sigmas"`
}

// Steps returns the number of sampler steps of the stage.
func (s Stage) Steps() int {
	return max(len(s.Sigmas)-1, 0)
}

// TurboPlan returns the three stages for seed.
// This is a pure function with no side effects.
func TurboPlan(seed int64) []Stage {
	return []Stage{
		{Name: "compose", AddNoise: true, Seed: seed, CFG: CFG, Sampler: SamplerName, Sigmas: slices.Clone(composeSigmas)},
		{Name: "refine", AddNoise: false, Seed: seed, CFG: CFG, Sampler: SamplerName, Sigmas: slices.Clone(refineSigmas)},
		{Name: "detail", AddNoise: true, Seed: DetailSeed, CFG: CFG, Sampler: SamplerName, Sigmas: slices.Clone(detailSigmas)},
	}
}

// ValidateStage checks that a stage can be handed to a sampler: at least
// two sigmas, all within [0, 1] and non-increasing.
// This is a pure function with no side effects.
func ValidateStage(s Stage) error {
	if len(s.Sigmas) < 2 {
		return fmt.Errorf("%w: %s needs at least 2 sigmas, got %d", ErrInvalidStage, s.Name, len(s.Sigmas))
	}
	for i, sigma := range s.Sigmas {
		if sigma < 0 || sigma > 1 {
			return fmt.Errorf("%w: %s sigma %d (%.4f) out of range", ErrInvalidStage, s.Name, i, sigma)
		}
		if i > 0 && sigma > s.Sigmas[i-1] {
			return fmt.Errorf("%w: %s sigmas must not increase (index %d)", ErrInvalidStage, s.Name, i)
		}
	}
	if s.CFG <= 0 {
		return fmt.Errorf("%w: %s cfg %.2f must be positive", ErrInvalidStage, s.Name, s.CFG)
	}
	return nil
}
