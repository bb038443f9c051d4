// Package viz renders a running simulation in the terminal.
//
// The live view is a Bubble Tea program that steps a [sim.Simulator] on a
// fixed frame tick and draws it on a braille [Canvas] through the orbit
// camera. Mouse drags rotate the camera, arrow keys zoom and digit keys
// choose the focus body.
//
// # Key Bindings
//
//	Drag    - Rotate around the focus body
//	Up/Down - Zoom in/out (mouse wheel too)
//	0-9     - Focus body N
//	Space   - Pause/Resume
//	[ ]     - Halve/double ticks per frame
//	?       - Toggle help
//	Q       - Quit
package viz
