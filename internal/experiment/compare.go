package experiment

import (
	"context"
	"math"
	"time"

	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

// Trajectory is the outcome of integrating the pendulum's equations with one
// integrator.
type Trajectory struct {
	Integrator  string
	Final       dynamo.State
	// Bob is the final lower bob position; zero if the run diverged.
	Bob         pendulum.Point
	Theta1      []float64
	EnergyDrift float64
	Elapsed     time.Duration
	// DivergedAt is the first step with a non-finite state, or -1.
	DivergedAt int
}

// Integrate runs integ over the vector form of st for cfg.Duration. st is
// not modified.
func Integrate(ctx context.Context, name string, integ dynamo.Integrator, st *pendulum.State, cfg sim.Config) (*Trajectory, error) {
	dyn := st.Dynamics()
	x0 := st.Vector()
	x := x0.Clone()
	steps := cfg.Steps()

	tr := &Trajectory{
		Integrator: name,
		Theta1:     make([]float64, 0, steps+1),
		DivergedAt: -1,
	}
	tr.Theta1 = append(tr.Theta1, x[0])

	start := time.Now()
	t := 0.0
	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		x = integ.Step(dyn, x, t, cfg.Dt)
		t += cfg.Dt

		if !x.IsValid() {
			tr.DivergedAt = i + 1
			break
		}
		tr.Theta1 = append(tr.Theta1, x[0])
	}
	tr.Elapsed = time.Since(start)
	tr.Final = x

	if tr.DivergedAt >= 0 {
		tr.EnergyDrift = math.NaN()
		return tr, nil
	}

	end := st.Clone()
	if err := end.SetVector(x); err != nil {
		return nil, err
	}
	tr.Bob = end.Joint2()
	tr.EnergyDrift = energyDrift(dyn, x0, x)
	return tr, nil
}

// energyDrift is |E(x)-E(x0)|/|E(x0)|, or 0 when E(x0) is 0.
func energyDrift(h dynamo.Hamiltonian, x0, x dynamo.State) float64 {
	e0 := h.Energy(x0)
	if e0 == 0 {
		return 0
	}
	return math.Abs(h.Energy(x)-e0) / math.Abs(e0)
}

// Compare integrates st once per named integrator, in the order given.
func (r *Registry) Compare(ctx context.Context, names []string, st *pendulum.State, cfg sim.Config) ([]*Trajectory, error) {
	out := make([]*Trajectory, 0, len(names))
	for _, name := range names {
		integ, err := r.GetIntegrator(name)
		if err != nil {
			return nil, err
		}
		tr, err := Integrate(ctx, name, integ, st, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, nil
}
