package pendulum

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/dpsim/internal/dynamo"
)

const tol = 1e-9

func newDefault(t *testing.T) *State {
	t.Helper()
	s, err := New(DefaultParams(), 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestNewStartsAtRest(t *testing.T) {
	s := newDefault(t)

	if s.Omega1 != 0 || s.Omega2 != 0 {
		t.Errorf("expected zero velocities, got %f, %f", s.Omega1, s.Omega2)
	}
	if math.Abs(s.Theta1-Radians(120)) > tol || math.Abs(s.Theta2-Radians(120)) > tol {
		t.Errorf("expected 120 degree start, got %f, %f", s.Theta1, s.Theta2)
	}
	if s.Trail().Len() != 0 {
		t.Errorf("expected empty trail, got %d", s.Trail().Len())
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	tests := []struct {
		name   string
		modify func(p *Params)
	}{
		{"zero length1", func(p *Params) { p.L1 = 0 }},
		{"negative length2", func(p *Params) { p.L2 = -1 }},
		{"zero mass1", func(p *Params) { p.M1 = 0 }},
		{"negative mass2", func(p *Params) { p.M2 = -10 }},
		{"NaN length", func(p *Params) { p.L1 = math.NaN() }},
		{"Inf mass", func(p *Params) { p.M1 = math.Inf(1) }},
		{"NaN origin", func(p *Params) { p.Origin.X = math.NaN() }},
		{"Inf angle", func(p *Params) { p.Theta2 = math.Inf(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.modify(&p)
			_, err := New(p, 0)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, dynamo.ErrParameterBounds) {
				t.Errorf("expected ErrParameterBounds, got %v", err)
			}
		})
	}

	if _, err := New(DefaultParams(), -1); !errors.Is(err, dynamo.ErrParameterBounds) {
		t.Errorf("expected ErrParameterBounds for negative trail limit, got %v", err)
	}
}

func TestRecomputeCoordinates(t *testing.T) {
	angles := []struct{ theta1, theta2 float64 }{
		{0, 0},
		{math.Pi / 2, 0},
		{Radians(120), Radians(-45)},
		{-3.5, 7.25},
		{100, -100},
	}

	s := newDefault(t)
	for _, a := range angles {
		s.Theta1, s.Theta2 = a.theta1, a.theta2
		s.RecomputeCoordinates()

		j1, j2 := s.Joint1(), s.Joint2()
		wantX1 := s.Origin.X + s.L1*math.Sin(a.theta1)
		wantY1 := s.Origin.Y + s.L1*math.Cos(a.theta1)
		if math.Abs(j1.X-wantX1) > tol || math.Abs(j1.Y-wantY1) > tol {
			t.Errorf("joint1 for %v: got %v, want (%f, %f)", a, j1, wantX1, wantY1)
		}

		wantX2 := j1.X + s.L2*math.Sin(a.theta2)
		wantY2 := j1.Y + s.L2*math.Cos(a.theta2)
		if math.Abs(j2.X-wantX2) > tol || math.Abs(j2.Y-wantY2) > tol {
			t.Errorf("joint2 for %v: got %v, want (%f, %f)", a, j2, wantX2, wantY2)
		}
	}
}

func TestHangingStraightDown(t *testing.T) {
	s, err := New(ManualParams(), 0)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	j1, j2 := s.Joint1(), s.Joint2()
	if math.Abs(j1.X-DefaultOriginX) > tol || math.Abs(j1.Y-(DefaultOriginY+DefaultLength)) > tol {
		t.Errorf("unexpected joint1 %v", j1)
	}
	if math.Abs(j2.X-DefaultOriginX) > tol || math.Abs(j2.Y-(DefaultOriginY+2*DefaultLength)) > tol {
		t.Errorf("unexpected joint2 %v", j2)
	}
}

func TestResetIdempotent(t *testing.T) {
	s := newDefault(t)
	StepN(s, 0.05, 25)

	s.Reset()
	once := *s
	s.Reset()

	if s.Origin != once.Origin || s.L1 != once.L1 || s.L2 != once.L2 ||
		s.M1 != once.M1 || s.M2 != once.M2 ||
		s.Theta1 != once.Theta1 || s.Theta2 != once.Theta2 ||
		s.Omega1 != once.Omega1 || s.Omega2 != once.Omega2 ||
		s.Joint1() != once.Joint1() || s.Joint2() != once.Joint2() {
		t.Error("second reset changed the state")
	}
}

func TestResetRestoresDefaultsAndKeepsTrail(t *testing.T) {
	s := newDefault(t)
	StepN(s, 0.05, 10)
	s.Origin = Point{0, 0}
	s.L1 = 50
	s.RecomputeCoordinates()

	s.Reset()

	p := DefaultParams()
	if s.Origin != p.Origin || s.L1 != p.L1 || s.Theta1 != p.Theta1 || s.Theta2 != p.Theta2 {
		t.Errorf("reset did not restore defaults: %+v", s)
	}
	if s.Omega1 != 0 || s.Omega2 != 0 {
		t.Errorf("reset did not zero velocities: %f, %f", s.Omega1, s.Omega2)
	}
	if s.Trail().Len() != 10 {
		t.Errorf("reset must not clear the trail, got len %d", s.Trail().Len())
	}

	s.ClearTrail()
	if s.Trail().Len() != 0 {
		t.Errorf("expected empty trail after ClearTrail, got %d", s.Trail().Len())
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newDefault(t)
	StepN(s, 0.05, 3)

	c := s.Clone()
	Step(c, 0.05)

	if s.Trail().Len() != 3 {
		t.Errorf("stepping the clone grew the original trail to %d", s.Trail().Len())
	}
	if s.Theta1 == c.Theta1 {
		t.Error("expected clone to diverge from original")
	}
}

func TestStateIsValid(t *testing.T) {
	s := newDefault(t)
	if !s.IsValid() {
		t.Fatal("fresh state should be valid")
	}

	s.Omega2 = math.NaN()
	if s.IsValid() {
		t.Error("expected NaN velocity to invalidate state")
	}
}
