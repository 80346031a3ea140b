package integrators

import (
	"testing"

	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
)

func benchIntegrator(b *testing.B, integ dynamo.Integrator) {
	s, err := pendulum.New(pendulum.DefaultParams(), 0)
	if err != nil {
		b.Fatal(err)
	}
	dyn := s.Dynamics()
	x := s.Vector()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(dyn, x, 0, 0.01)
	}
}

func BenchmarkEuler(b *testing.B)             { benchIntegrator(b, NewEuler()) }
func BenchmarkSemiImplicitEuler(b *testing.B) { benchIntegrator(b, NewSemiImplicitEuler()) }
func BenchmarkRK4(b *testing.B)               { benchIntegrator(b, NewRK4()) }
func BenchmarkVerlet(b *testing.B)            { benchIntegrator(b, NewVerlet()) }
func BenchmarkLeapfrog(b *testing.B)          { benchIntegrator(b, NewLeapfrog()) }

func BenchmarkPendulumStep(b *testing.B) {
	s, err := pendulum.New(pendulum.DefaultParams(), 1024)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pendulum.Step(s, 0.01)
	}
}
