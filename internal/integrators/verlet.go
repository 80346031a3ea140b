package integrators

import "github.com/san-kum/dpsim/internal/dynamo"

// The second-order schemes below treat the first half of the state as
// angles and the second half as their rates, which is the layout of the
// pendulum's vector form.

// Verlet is velocity Verlet. The pendulum's accelerations depend on the
// rates, so the closing evaluation sees the new angles with the old rates
// and the scheme is only approximately symplectic here.
type Verlet struct {
	probe dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.probe) != n {
		v.probe = make(dynamo.State, n)
	}

	acc := dyn.Derive(x, t)
	next := make(dynamo.State, n)

	for i := 0; i < half; i++ {
		next[i] = x[i] + dt*x[half+i] + 0.5*dt*dt*acc[half+i]
		v.probe[i] = next[i]
		v.probe[half+i] = x[half+i]
	}

	accNext := dyn.Derive(v.probe, t+dt)
	for i := 0; i < half; i++ {
		next[half+i] = x[half+i] + 0.5*dt*(acc[half+i]+accNext[half+i])
	}

	return next
}

// Leapfrog is kick-drift-kick; the closing kick evaluates the
// accelerations at the new angles and the half-step rates.
type Leapfrog struct {
	mid dynamo.State
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(l.mid) != n {
		l.mid = make(dynamo.State, n)
	}

	acc := dyn.Derive(x, t)
	for i := 0; i < half; i++ {
		rate := x[half+i] + 0.5*dt*acc[half+i]
		l.mid[half+i] = rate
		l.mid[i] = x[i] + dt*rate
	}

	accNext := dyn.Derive(l.mid, t+dt)
	next := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		next[i] = l.mid[i]
		next[half+i] = l.mid[half+i] + 0.5*dt*accNext[half+i]
	}

	return next
}
