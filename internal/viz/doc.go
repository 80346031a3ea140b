// Package viz is the terminal host for the double pendulum.
//
// It implements a Bubble Tea program that steps a [pendulum.State] with a
// fixed dt per frame and draws it on a braille [Canvas]:
//
//   - [Model]: the live view with trail, energy graph and θ/ω readout
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the configured angles
//	C     - Clear the trail
//	T     - Cycle color themes
//	E     - Toggle the energy graph
//	Q     - Quit
//
// # Mouse
//
// Pressing the left button near the lower bob grabs it. While grabbed the
// simulation is frozen and pointer motion re-angles the second link toward
// the pointer; releasing the button resumes stepping.
package viz
