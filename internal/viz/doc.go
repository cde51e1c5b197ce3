// Package viz draws a running particle world in the terminal.
//
// The live view is a Bubble Tea program: every tick feeds the measured frame
// time to the world's fixed-step accumulator and redraws the interpolated
// particles on a Braille [Canvas]. Terminal resizes resize the world.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to the initial state
//	+/-   - Double/halve the time scale
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//
// # Recording
//
// Recordings are written to particles.gif in the current directory, one
// GIF frame per tick, coloured with the same palette as the terminal.
package viz
