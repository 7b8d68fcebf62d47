package zsampler

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"
)

// recordingSampler appends the stage name to a string latent.
type recordingSampler struct {
	stages    []Stage
	negatives []Conditioning
	failAt    int
}

func (r *recordingSampler) SampleCustom(ctx context.Context, model Model, positive, negative Conditioning, latent Latent, stage Stage) (Latent, error) {
	r.stages = append(r.stages, stage)
	r.negatives = append(r.negatives, negative)
	if r.failAt == len(r.stages) {
		return nil, errors.New("out of memory")
	}
	return latent.(string) + "+" + stage.Name, nil
}

func TestTurbo_Run(t *testing.T) {
	s := &recordingSampler{}
	out, err := NewTurbo(s, zaptest.NewLogger(t)).Run(context.Background(), "model", "pos", "latent", 99)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if out != "latent+compose+refine+detail" {
		t.Errorf("Run() = %v", out)
	}
	if len(s.stages) != 3 {
		t.Fatalf("sampler called %d times, want 3", len(s.stages))
	}
	if s.stages[0].Seed != 99 || s.stages[2].Seed != DetailSeed {
		t.Errorf("seeds = %d, %d", s.stages[0].Seed, s.stages[2].Seed)
	}
	for i, neg := range s.negatives {
		if neg != "pos" {
			t.Errorf("stage %d negative = %v, want positive conditioning", i, neg)
		}
	}
}

func TestTurbo_RandomSeed(t *testing.T) {
	s := &recordingSampler{}
	if _, err := RunTurbo(context.Background(), s, nil, "pos", "l", RandomSeedValue); err != nil {
		t.Fatalf("RunTurbo() error = %v", err)
	}
	if s.stages[0].Seed < 0 || s.stages[0].Seed != s.stages[1].Seed {
		t.Errorf("seeds = %d, %d", s.stages[0].Seed, s.stages[1].Seed)
	}
}

func TestTurbo_StageError(t *testing.T) {
	s := &recordingSampler{failAt: 2}
	_, err := RunTurbo(context.Background(), s, nil, "pos", "l", 1)
	if !errors.Is(err, ErrStageFailed) {
		t.Errorf("expected ErrStageFailed, got %v", err)
	}
	if len(s.stages) != 2 {
		t.Errorf("sampler called %d times, want 2", len(s.stages))
	}
}

func TestTurbo_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &recordingSampler{}
	_, err := RunTurbo(ctx, s, nil, "pos", "l", 1)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(s.stages) != 0 {
		t.Errorf("sampler called %d times after cancel", len(s.stages))
	}
}

func TestTurbo_MissingSampler(t *testing.T) {
	if _, err := RunTurbo(context.Background(), nil, nil, "pos", "l", 1); !errors.Is(err, ErrSamplerMissing) {
		t.Errorf("expected ErrSamplerMissing, got %v", err)
	}
}

func TestTurbo_StageErrorKeepsCause(t *testing.T) {
	s := SamplerFunc(func(context.Context, Model, Conditioning, Conditioning, Latent, Stage) (Latent, error) {
		return nil, context.DeadlineExceeded
	})
	_, err := RunTurbo(context.Background(), s, nil, "pos", "l", 1)
	if !errors.Is(err, ErrStageFailed) || !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error chain lost: %v", err)
	}
}
