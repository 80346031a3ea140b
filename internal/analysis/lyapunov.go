package analysis

import (
	"math"

	"github.com/san-kum/dpsim/internal/dynamo"
)

// LyapunovExponent estimates the largest Lyapunov exponent by following two
// trajectories started perturbation apart in x0[0]. The separation is
// renormalized back to perturbation after every step, and
//
//	lambda ≈ (1/t) * sum ln(|dx| / d0)
//
// A positive value indicates chaos.
func LyapunovExponent(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) float64 {
	if len(x0) == 0 || perturbation <= 0 || dt <= 0 {
		return 0
	}

	x0p := x0.Clone()
	x0p[0] += perturbation

	return separationRate(dyn, integ, x0, x0p, dt, duration, perturbation)
}

// LyapunovSpectrum perturbs each state component independently and reports
// the separation rate for each.
func LyapunovSpectrum(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0 dynamo.State,
	dt, duration float64,
	perturbation float64,
) []float64 {
	n := len(x0)
	spectrum := make([]float64, n)
	if perturbation <= 0 || dt <= 0 {
		return spectrum
	}

	for i := 0; i < n; i++ {
		xp := x0.Clone()
		xp[i] += perturbation
		spectrum[i] = separationRate(dyn, integ, x0, xp, dt, duration, perturbation)
	}

	return spectrum
}

func separationRate(
	dyn dynamo.System,
	integ dynamo.Integrator,
	x0, x0p dynamo.State,
	dt, duration, d0 float64,
) float64 {
	x := x0.Clone()
	xp := x0p.Clone()
	t := 0.0

	sumLog := 0.0
	count := 0

	for t < duration {
		x = integ.Step(dyn, x, t, dt)
		xp = integ.Step(dyn, xp, t, dt)
		t += dt

		if !x.IsValid() || !xp.IsValid() {
			break
		}

		sep := xp.Distance(x)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)
		count++

		scale := d0 / sep
		for i := range xp {
			xp[i] = x[i] + (xp[i]-x[i])*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
