package pendulum

import (
	"fmt"
	"math"

	"github.com/san-kum/dpsim/internal/dynamo"
)

const (
	DefaultOriginX = 400.0
	DefaultOriginY = 100.0
	DefaultLength  = 120.0
	DefaultMass    = 10.0
	DefaultTheta   = 120.0 // degrees
)

// Point is a position in screen units.
type Point struct {
	X, Y float64
}

func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

func (p Point) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// Params are the configured defaults a State is built from and reset to.
type Params struct {
	Origin         Point
	L1, L2         float64
	M1, M2         float64
	Theta1, Theta2 float64
}

// DefaultParams releases both links from a large displacement.
func DefaultParams() Params {
	return Params{
		Origin: Point{DefaultOriginX, DefaultOriginY},
		L1:     DefaultLength, L2: DefaultLength,
		M1: DefaultMass, M2: DefaultMass,
		Theta1: Radians(DefaultTheta),
		Theta2: Radians(DefaultTheta),
	}
}

// ManualParams starts at rest hanging straight down, for hosts that expect
// the user to drag the bob into position.
func ManualParams() Params {
	p := DefaultParams()
	p.Theta1, p.Theta2 = 0, 0
	return p
}

func (p Params) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"length1", p.L1},
		{"length2", p.L2},
		{"mass1", p.M1},
		{"mass2", p.M2},
	}
	for _, f := range positive {
		if !(f.v > 0) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%s must be positive and finite, got %v: %w", f.name, f.v, dynamo.ErrParameterBounds)
		}
	}
	if !p.Origin.IsValid() {
		return fmt.Errorf("origin must be finite, got %v: %w", p.Origin, dynamo.ErrParameterBounds)
	}
	if math.IsNaN(p.Theta1) || math.IsInf(p.Theta1, 0) || math.IsNaN(p.Theta2) || math.IsInf(p.Theta2, 0) {
		return fmt.Errorf("initial angles must be finite: %w", dynamo.ErrParameterBounds)
	}
	return nil
}

// State is the mutable double pendulum. Angles accumulate without
// wraparound. The joint positions are derived; read them through Joint1 and
// Joint2 and call RecomputeCoordinates after assigning any angle, length or
// origin field directly.
type State struct {
	Origin         Point
	L1, L2         float64
	M1, M2         float64
	Theta1, Theta2 float64
	Omega1, Omega2 float64

	joint1, joint2 Point
	trail          *Trail
	params         Params
}

// New builds a state at rest from p. trailLimit caps the bob history; zero
// keeps every position.
func New(p Params, trailLimit int) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if trailLimit < 0 {
		return nil, fmt.Errorf("trail limit must not be negative, got %d: %w", trailLimit, dynamo.ErrParameterBounds)
	}
	s := &State{
		trail:  NewTrail(trailLimit),
		params: p,
	}
	s.Reset()
	return s, nil
}

// RecomputeCoordinates derives both joints from the current origin, lengths
// and angles.
func (s *State) RecomputeCoordinates() {
	s.joint1 = Point{
		X: s.Origin.X + s.L1*math.Sin(s.Theta1),
		Y: s.Origin.Y + s.L1*math.Cos(s.Theta1),
	}
	s.joint2 = Point{
		X: s.joint1.X + s.L2*math.Sin(s.Theta2),
		Y: s.joint1.Y + s.L2*math.Cos(s.Theta2),
	}
}

// Joint1 is the end of the first rod.
func (s *State) Joint1() Point { return s.joint1 }

// Joint2 is the end of the second rod, the bob.
func (s *State) Joint2() Point { return s.joint2 }

func (s *State) Trail() *Trail { return s.trail }

func (s *State) Params() Params { return s.params }

// Reset restores geometry, masses and angles from the state's Params and
// stops both links. The trail is left alone; see ClearTrail.
func (s *State) Reset() {
	p := s.params
	s.Origin = p.Origin
	s.L1, s.L2 = p.L1, p.L2
	s.M1, s.M2 = p.M1, p.M2
	s.Theta1, s.Theta2 = p.Theta1, p.Theta2
	s.Omega1, s.Omega2 = 0, 0
	s.RecomputeCoordinates()
}

func (s *State) ClearTrail() {
	s.trail.Clear()
}

// Clone returns an independent copy, trail included.
func (s *State) Clone() *State {
	c := *s
	c.trail = s.trail.Clone()
	return &c
}

// IsValid reports whether every angle, velocity and joint is finite.
func (s *State) IsValid() bool {
	return dynamo.State{s.Theta1, s.Theta2, s.Omega1, s.Omega2}.IsValid() &&
		s.joint1.IsValid() && s.joint2.IsValid()
}

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

func Degrees(rad float64) float64 { return rad * 180 / math.Pi }
