// Package dynamo provides vector primitives shared by the integrators and
// analysis tools.
//
// The package defines the small set of types every numerical scheme in the
// repository works against:
//
//   - [State]: flat vector of generalized coordinates followed by velocities
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Hamiltonian]: systems that can report their total energy
//   - [Integrator]: one-step numerical scheme
//
// The double pendulum core in package pendulum keeps its own struct state and
// stepping rule; it exposes a [System] adapter so the schemes here can be run
// against identical physics.
//
// # Example
//
//	dyn := st.Dynamics()
//	x := st.Vector()
//	x = integrators.NewRK4().Step(dyn, x, t, dt)
package dynamo
