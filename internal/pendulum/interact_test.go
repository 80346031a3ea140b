package pendulum

import (
	"math"
	"testing"
)

func TestReanglePreservesRadius(t *testing.T) {
	pointers := []Point{
		{0, 0},
		{800, 600},
		{400, 100},
		{-1000, 5000},
		{523.25, 331.5},
	}

	s := newDefault(t)
	StepN(s, 0.05, 5)

	for _, p := range pointers {
		s.Reangle(p)
		d := s.Joint1().Dist(s.Joint2())
		if math.Abs(d-s.L2) > 1e-9 {
			t.Errorf("pointer %v: rod length %f, want %f", p, d, s.L2)
		}
	}
}

func TestReangleOnlyTouchesTheta2(t *testing.T) {
	s := newDefault(t)
	StepN(s, 0.05, 5)
	theta1, omega1, omega2 := s.Theta1, s.Omega1, s.Omega2
	trailLen := s.Trail().Len()

	s.Reangle(Point{100, 100})

	if s.Theta1 != theta1 || s.Omega1 != omega1 || s.Omega2 != omega2 {
		t.Error("Reangle changed theta1 or velocities")
	}
	if s.Trail().Len() != trailLen {
		t.Error("Reangle must not touch the trail")
	}
}

func TestReangleDirection(t *testing.T) {
	tests := []struct {
		name   string
		offset Point
		want   float64
	}{
		{"right", Point{10, 0}, 0},
		{"above", Point{0, -10}, math.Pi / 2},
		{"left", Point{-10, 0}, math.Pi},
		{"below", Point{0, 10}, -math.Pi / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newDefault(t)
			bob := s.Joint2()
			s.Reangle(Point{bob.X + tt.offset.X, bob.Y + tt.offset.Y})
			// theta2 is only defined modulo 2π; left may come back as -π.
			if math.Abs(math.Cos(s.Theta2)-math.Cos(tt.want)) > 1e-12 ||
				math.Abs(math.Sin(s.Theta2)-math.Sin(tt.want)) > 1e-12 {
				t.Errorf("theta2 = %f, want %f (mod 2π)", s.Theta2, tt.want)
			}
		})
	}
}

func TestNearBob(t *testing.T) {
	s := newDefault(t)
	bob := s.Joint2()

	if !s.NearBob(bob, 0) {
		t.Error("bob should hit itself")
	}
	if !s.NearBob(Point{bob.X + 3, bob.Y + 4}, 5) {
		t.Error("expected hit at distance 5 with radius 5")
	}
	if s.NearBob(Point{bob.X + 6, bob.Y}, 5) {
		t.Error("expected miss at distance 6 with radius 5")
	}
}
