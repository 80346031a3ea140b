package pendulum

// Step advances s by one explicit Euler step of dt: velocities first, then
// angles from the updated velocities. The joints are recomputed and the new
// bob position is pushed onto the trail.
//
// dt is a fixed logical increment chosen by the caller, not elapsed wall
// time, so a run is reproducible for a given sequence of dt values.
func Step(s *State, dt float64) {
	alpha1, alpha2 := Accelerations(s)

	s.Omega1 += alpha1 * dt
	s.Omega2 += alpha2 * dt

	s.Theta1 += s.Omega1 * dt
	s.Theta2 += s.Omega2 * dt

	s.RecomputeCoordinates()
	s.trail.Push(s.joint2)
}

// StepN calls Step n times.
func StepN(s *State, dt float64, n int) {
	for i := 0; i < n; i++ {
		Step(s, dt)
	}
}
