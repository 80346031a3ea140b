package sim

import (
	"math"

	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
)

// Scheme names the integration scheme Simulator applies: pendulum.Step,
// which updates velocities before angles.
const Scheme = "semi_implicit"

type Metric interface {
	Name() string
	Observe(s *pendulum.State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *pendulum.State, t float64)
}

// Config controls a headless run. Dt is the fixed logical increment passed
// to every pendulum.Step call.
type Config struct {
	Dt            float64
	Duration      float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.05,
		Duration:      10.0,
		ValidateState: true,
	}
}

// Steps is the number of Step calls a run makes.
func (c Config) Steps() int {
	if c.Dt <= 0 {
		return 0
	}
	return int(math.Round(c.Duration / c.Dt))
}

// Frame is one recorded sample of a run.
type Frame struct {
	Time   float64
	State  dynamo.State // theta1, theta2, omega1, omega2
	Joint1 pendulum.Point
	Joint2 pendulum.Point
}

func NewFrame(s *pendulum.State, t float64) Frame {
	return Frame{
		Time:   t,
		State:  s.Vector(),
		Joint1: s.Joint1(),
		Joint2: s.Joint2(),
	}
}

type Result struct {
	Frames      []Frame
	Metrics map[string]float64
	// EnergyDrift is |E(final)-E(0)|/|E(0)|, or NaN if the run diverged.
	EnergyDrift float64
	StepsTaken  int
	// DivergedAt is the first step that produced a non-finite state, or -1.
	DivergedAt int
	Errors     []error
}

func (r *Result) Diverged() bool { return r.DivergedAt >= 0 }

// Final returns the last recorded frame.
func (r *Result) Final() Frame {
	if len(r.Frames) == 0 {
		return Frame{}
	}
	return r.Frames[len(r.Frames)-1]
}

// BobPath returns the recorded bob positions in time order.
func (r *Result) BobPath() []pendulum.Point {
	pts := make([]pendulum.Point, len(r.Frames))
	for i, f := range r.Frames {
		pts[i] = f.Joint2
	}
	return pts
}

// Series extracts component i of every recorded state vector.
func (r *Result) Series(i int) []float64 {
	out := make([]float64, 0, len(r.Frames))
	for _, f := range r.Frames {
		if i < len(f.State) {
			out = append(out, f.State[i])
		}
	}
	return out
}
