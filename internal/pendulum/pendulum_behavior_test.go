package pendulum_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dpsim/internal/pendulum"
)

var _ = Describe("Double pendulum", func() {
	var s *pendulum.State

	BeforeEach(func() {
		var err error
		s, err = pendulum.New(pendulum.DefaultParams(), 0)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("free swing from 120 degrees", func() {
		It("falls toward the vertical", func() {
			start := s.Joint2()
			pendulum.StepN(s, 0.05, 20)

			Expect(s.Omega1).To(BeNumerically("<", 0))
			Expect(s.Joint2()).NotTo(Equal(start))
			Expect(s.IsValid()).To(BeTrue())
		})

		It("keeps both rods at their lengths", func() {
			for i := 0; i < 500; i++ {
				pendulum.Step(s, 0.05)
				Expect(s.Origin.Dist(s.Joint1())).To(BeNumerically("~", s.L1, 1e-9))
				Expect(s.Joint1().Dist(s.Joint2())).To(BeNumerically("~", s.L2, 1e-9))
			}
		})

		It("records one trail point per step, newest first", func() {
			var bobs []pendulum.Point
			for i := 0; i < 30; i++ {
				pendulum.Step(s, 0.05)
				bobs = append(bobs, s.Joint2())
			}

			pts := s.Trail().Points()
			Expect(pts).To(HaveLen(30))
			Expect(pts[0]).To(Equal(bobs[29]))
			Expect(pts[29]).To(Equal(bobs[0]))
		})
	})

	Describe("reset", func() {
		BeforeEach(func() {
			pendulum.StepN(s, 0.05, 40)
		})

		It("restores the starting pose and stops the links", func() {
			s.Reset()

			Expect(s.Theta1).To(Equal(pendulum.Radians(120)))
			Expect(s.Theta2).To(Equal(pendulum.Radians(120)))
			Expect(s.Omega1).To(BeZero())
			Expect(s.Omega2).To(BeZero())
		})

		It("leaves clearing the trail to the caller", func() {
			s.Reset()
			Expect(s.Trail().Len()).To(Equal(40))

			s.ClearTrail()
			Expect(s.Trail().Len()).To(BeZero())
		})
	})

	Describe("dragging the bob", func() {
		It("holds the rod length wherever the pointer goes", func() {
			for _, p := range []pendulum.Point{{0, 0}, {10, 900}, {650, 120}} {
				s.Reangle(p)
				Expect(s.Joint1().Dist(s.Joint2())).To(BeNumerically("~", s.L2, 1e-9))
			}
		})

		It("resumes with the velocity it had before the drag", func() {
			pendulum.StepN(s, 0.05, 10)
			omega2 := s.Omega2

			s.Reangle(pendulum.Point{X: 200, Y: 50})
			Expect(s.Omega2).To(Equal(omega2))

			pendulum.Step(s, 0.05)
			Expect(s.Trail().At(0)).To(Equal(s.Joint2()))
		})
	})

	Describe("degenerate masses", func() {
		It("propagates blow-up into the coordinates instead of failing", func() {
			s.M1 = 1e-300
			s.Theta1, s.Theta2 = 0.2, 0.2
			s.Omega2 = 3
			s.RecomputeCoordinates()

			Expect(func() { pendulum.StepN(s, 0.05, 5) }).NotTo(Panic())

			// aligned links zero the denominator exactly
			Expect(s.IsValid()).To(BeFalse())
			j := s.Joint2()
			Expect(math.IsNaN(j.X) || math.IsInf(j.X, 0)).To(BeTrue())
		})
	})
})
