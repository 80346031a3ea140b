package metrics

import (
	"math"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Bounded is the fraction of observed steps where the state was finite and
// both angular velocities stayed within threshold.
type Bounded struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewBounded(threshold float64) *Bounded {
	return &Bounded{
		name:      "bounded",
		threshold: threshold,
	}
}

func (b *Bounded) Name() string {
	return b.name
}

func (b *Bounded) Observe(s *pendulum.State, t float64) {
	b.samples++
	if !s.IsValid() || math.Abs(s.Omega1) > b.threshold || math.Abs(s.Omega2) > b.threshold {
		b.violations++
	}
}

func (b *Bounded) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(b.violations)/float64(b.samples)
}

func (b *Bounded) Reset() {
	b.violations = 0
	b.samples = 0
}
