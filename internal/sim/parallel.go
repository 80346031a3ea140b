package sim

import (
	"context"
	"sync"

	"github.com/san-kum/dpsim/internal/pendulum"
)

// Ensemble runs copies of a pendulum whose first angle is offset by
// i*Perturbation, one goroutine per copy. Each goroutine owns its copy.
type Ensemble struct {
	NumRuns      int
	Perturbation float64
}

func NewEnsemble(numRuns int, perturbation float64) *Ensemble {
	return &Ensemble{NumRuns: numRuns, Perturbation: perturbation}
}

// Run leaves base untouched.
func (e *Ensemble) Run(ctx context.Context, base *pendulum.State, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.NumRuns)
	errs := make([]error, e.NumRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.NumRuns; i++ {
		st := base.Clone()
		st.Theta1 += float64(i) * e.Perturbation
		st.RecomputeCoordinates()
		st.ClearTrail()

		wg.Add(1)
		go func(idx int, st *pendulum.State) {
			defer wg.Done()
			results[idx], errs[idx] = New().Run(ctx, st, cfg)
		}(i, st)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}

// Spread returns, for each run, the distance between its final bob and the
// final bob of the first run.
func Spread(results []*Result) []float64 {
	if len(results) == 0 {
		return nil
	}
	ref := results[0].Final().Joint2
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.Final().Joint2.Dist(ref)
	}
	return out
}
