package integrators

import "github.com/san-kum/dpsim/internal/dynamo"

var (
	rk4Nodes   = [4]float64{0, 0.5, 0.5, 1}
	rk4Weights = [4]float64{1, 2, 2, 1}
)

// RK4 is the classical fourth-order Runge-Kutta scheme. Stage slopes are
// copied into buffers kept between steps, so an RK4 value must not be
// shared across goroutines.
type RK4 struct {
	k     [4]dynamo.State
	stage dynamo.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) resize(n int) {
	if len(r.stage) == n {
		return
	}
	for s := range r.k {
		r.k[s] = make(dynamo.State, n)
	}
	r.stage = make(dynamo.State, n)
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	r.resize(len(x))

	for s := range r.k {
		in := x
		if s > 0 {
			h := rk4Nodes[s] * dt
			for i := range x {
				r.stage[i] = x[i] + h*r.k[s-1][i]
			}
			in = r.stage
		}
		copy(r.k[s], dyn.Derive(in, t+rk4Nodes[s]*dt))
	}

	out := make(dynamo.State, len(x))
	for i := range x {
		sum := 0.0
		for s, w := range rk4Weights {
			sum += w * r.k[s][i]
		}
		out[i] = x[i] + dt/6*sum
	}
	return out
}
