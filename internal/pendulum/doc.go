// Package pendulum models a planar double pendulum: two rigid, massless rods
// with point masses at their ends, hanging in series from a fixed pivot.
//
// A [State] holds the pivot, rod lengths, bob masses, the angle and angular
// velocity of each link and the Cartesian joint positions derived from them.
// Angles are measured clockwise from the downward vertical in screen
// coordinates (y grows downward), so a joint sits at
//
//	x = prevX + length*sin(theta)
//	y = prevY + length*cos(theta)
//
// [Step] advances a state by one explicit Euler step: velocities are updated
// from the closed-form angular accelerations, then angles from the new
// velocities. The scheme is first order and does not conserve energy.
//
// # Ownership
//
// A State is owned by exactly one loop. Nothing in this package blocks,
// allocates beyond a trail slot or keeps hidden bookkeeping, so a host may
// stop calling Step (for example while the user drags the bob) and resume
// later.
//
// # Degenerate geometry
//
// The acceleration denominators are not guarded. When they approach zero the
// angles blow up or become NaN and the joints follow; callers observe this
// through the state instead of through an error.
package pendulum
