package sim

import (
	"context"
	"testing"
)

func TestEnsembleRun(t *testing.T) {
	base := newState(t)
	before := base.Vector()

	results, err := NewEnsemble(4, 1e-3).Run(context.Background(), base, Config{Dt: 0.05, Duration: 20})
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	if base.Vector().Distance(before) != 0 || base.Trail().Len() != 0 {
		t.Error("ensemble modified the base state")
	}

	spread := Spread(results)
	if spread[0] != 0 {
		t.Errorf("reference run should have zero spread, got %f", spread[0])
	}
	for i := 1; i < len(spread); i++ {
		if spread[i] <= 0 {
			t.Errorf("run %d: expected perturbed run to separate, got %f", i, spread[i])
		}
	}
}

func TestEnsembleInvalidConfig(t *testing.T) {
	if _, err := NewEnsemble(2, 1e-3).Run(context.Background(), newState(t), Config{}); err == nil {
		t.Error("expected error for zero config")
	}
}
