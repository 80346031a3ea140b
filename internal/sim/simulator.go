package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
)

// Simulator drives a pendulum with a fixed timestep and records every frame.
// It is not safe for concurrent use; see Ensemble.
type Simulator struct {
	metrics   []Metric
	observers []Observer
}

func New() *Simulator {
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances st in place for cfg.Duration. A non-finite state is recorded
// in the result rather than returned as an error; with cfg.ValidateState the
// run stops at that point. Metrics observe every state from the initial one
// to the final one.
func (s *Simulator) Run(ctx context.Context, st *pendulum.State, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		Frames:     make([]Frame, 0, steps+1),
		Metrics:    make(map[string]float64),
		DivergedAt: -1,
		Errors:     make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	t := 0.0
	result.Frames = append(result.Frames, NewFrame(st, t))
	initialEnergy := st.Energy()

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(st, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(st, t)
		}

		pendulum.Step(st, cfg.Dt)
		t += cfg.Dt
		result.StepsTaken++

		if !st.IsValid() && !result.Diverged() {
			result.DivergedAt = i + 1
			result.Errors = append(result.Errors, &dynamo.SimulationError{
				Step:    i + 1,
				Time:    t,
				State:   st.Vector(),
				Wrapped: dynamo.ErrUnstable,
			})
			if cfg.ValidateState {
				break
			}
		}

		result.Frames = append(result.Frames, NewFrame(st, t))
	}

	switch {
	case result.Diverged():
		result.EnergyDrift = math.NaN()
	case initialEnergy != 0:
		result.EnergyDrift = math.Abs(st.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}

	// Metrics also see the state the last step produced.
	for _, m := range s.metrics {
		m.Observe(st, t)
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("dt must be positive, got %f: %w", cfg.Dt, dynamo.ErrParameterBounds)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("duration must be positive, got %f: %w", cfg.Duration, dynamo.ErrParameterBounds)
	}
	return nil
}

// RunWithCallback steps st until cfg.Duration elapses or callback returns
// false. The callback sees the state before each step.
func (s *Simulator) RunWithCallback(ctx context.Context, st *pendulum.State, cfg Config, callback func(*pendulum.State, float64) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	steps := cfg.Steps()
	t := 0.0

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(st, t) {
			return nil
		}

		pendulum.Step(st, cfg.Dt)
		t += cfg.Dt

		if cfg.ValidateState && !st.IsValid() {
			return &dynamo.SimulationError{Step: i + 1, Time: t, State: st.Vector(), Wrapped: dynamo.ErrUnstable}
		}
	}

	return nil
}
