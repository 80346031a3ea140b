package pendulum

import "math"

// Reangle points the second link toward p as measured from the current bob
// position, the way a drag gesture pulls it. Only Theta2 changes; both
// angular velocities are kept, so releasing the bob resumes with the motion
// it had before the drag.
func (s *State) Reangle(p Point) {
	s.Theta2 = math.Atan2(-(p.Y - s.joint2.Y), p.X-s.joint2.X)
	s.RecomputeCoordinates()
}

// NearBob reports whether p lies within radius of the bob.
func (s *State) NearBob(p Point, radius float64) bool {
	return p.Dist(s.joint2) <= radius
}
