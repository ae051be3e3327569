// Package viz draws the bubble clock in the terminal.
//
// The package implements a full-screen TUI using the Bubble Tea framework:
//
//   - [Model]: the clock view with a side panel of counts and a live chart
//   - [Canvas]: colored Braille canvas that doubles as the simulator's viewport
//   - Theme selection with 4 built-in color schemes
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Rebuild bubbles from the clock
//	P     - Toggle side panel
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
