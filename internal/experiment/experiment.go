package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/dpsim/internal/config"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

// Experiment is one headless run of the pendulum described by a config.
type Experiment struct {
	cfg       *config.Config
	state     *pendulum.State
	simulator *sim.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(metrics []sim.Metric) error {
	st, err := e.cfg.NewState()
	if err != nil {
		return fmt.Errorf("setup: %w", err)
	}
	e.state = st
	e.simulator = sim.New()
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.state, e.cfg.SimConfig())
}

// State is the pendulum the experiment advances; nil before Setup.
func (e *Experiment) State() *pendulum.State {
	return e.state
}
