package pendulum

import (
	"fmt"
	"math"

	"github.com/san-kum/dpsim/internal/dynamo"
)

// Gravity is the fixed gravitational acceleration.
const Gravity = 9.8

// Accelerations returns the angular accelerations of both links for the
// current angles and velocities. It does not modify s.
func Accelerations(s *State) (alpha1, alpha2 float64) {
	return accelerations(s.M1, s.M2, s.L1, s.L2, s.Theta1, s.Theta2, s.Omega1, s.Omega2)
}

// accelerations evaluates the closed-form equations of motion. The shared
// denominator vanishes when (m1+m2) == m2*cos²(theta2-theta1); that cannot
// happen for positive masses, but rounding near it yields huge values, which
// are returned as is.
func accelerations(m1, m2, l1, l2, theta1, theta2, omega1, omega2 float64) (alpha1, alpha2 float64) {
	delta := theta2 - theta1
	sinD, cosD := math.Sin(delta), math.Cos(delta)
	sin1, sin2 := math.Sin(theta1), math.Sin(theta2)
	g := Gravity
	mt := m1 + m2

	den1 := mt*l1 - m2*l1*cosD*cosD
	den2 := (l2 / l1) * den1

	alpha1 = (m2*l2*omega2*omega2*sinD*cosD +
		m2*g*sin2*cosD +
		m2*l2*omega2*omega2*sinD -
		mt*g*sin1) / den1

	alpha2 = (-m2*l2*omega2*omega2*sinD*cosD +
		mt*g*sin1*cosD -
		mt*l1*omega1*omega1*sinD -
		mt*g*sin2) / den2

	return alpha1, alpha2
}

// Energy is kinetic plus potential energy, with the potential measured from
// the pivot.
func (s *State) Energy() float64 {
	return energy(s.M1, s.M2, s.L1, s.L2, s.Theta1, s.Theta2, s.Omega1, s.Omega2)
}

func energy(m1, m2, l1, l2, theta1, theta2, omega1, omega2 float64) float64 {
	v1sq := l1 * l1 * omega1 * omega1
	v2sq := l1*l1*omega1*omega1 + l2*l2*omega2*omega2 +
		2*l1*l2*omega1*omega2*math.Cos(theta1-theta2)

	ke := 0.5*m1*v1sq + 0.5*m2*v2sq
	y1 := -l1 * math.Cos(theta1)
	y2 := y1 - l2*math.Cos(theta2)
	pe := m1*Gravity*y1 + m2*Gravity*y2

	return ke + pe
}

// Dynamics exposes the pendulum equations as a dynamo.System over the vector
// [theta1, theta2, omega1, omega2].
type Dynamics struct {
	M1, M2 float64
	L1, L2 float64
}

// Dynamics snapshots the current masses and lengths.
func (s *State) Dynamics() *Dynamics {
	return &Dynamics{M1: s.M1, M2: s.M2, L1: s.L1, L2: s.L2}
}

func (d *Dynamics) StateDim() int { return 4 }

func (d *Dynamics) Derive(x dynamo.State, t float64) dynamo.State {
	theta1, theta2, omega1, omega2 := x[0], x[1], x[2], x[3]
	alpha1, alpha2 := accelerations(d.M1, d.M2, d.L1, d.L2, theta1, theta2, omega1, omega2)
	return dynamo.State{omega1, omega2, alpha1, alpha2}
}

func (d *Dynamics) Energy(x dynamo.State) float64 {
	return energy(d.M1, d.M2, d.L1, d.L2, x[0], x[1], x[2], x[3])
}

// Vector returns [theta1, theta2, omega1, omega2].
func (s *State) Vector() dynamo.State {
	return dynamo.State{s.Theta1, s.Theta2, s.Omega1, s.Omega2}
}

// SetVector loads angles and velocities from x and recomputes the joints.
// The trail is not touched. A non-finite x leaves s unchanged.
func (s *State) SetVector(x dynamo.State) error {
	if len(x) != 4 {
		return fmt.Errorf("pendulum state needs 4 values, got %d: %w", len(x), dynamo.ErrDimensionMismatch)
	}
	if !x.IsValid() {
		return fmt.Errorf("set %v: %w", x, dynamo.ErrInvalidState)
	}
	s.Theta1, s.Theta2, s.Omega1, s.Omega2 = x[0], x[1], x[2], x[3]
	s.RecomputeCoordinates()
	return nil
}
