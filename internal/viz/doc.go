// Package viz renders a running coverage search in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps a simulation on a timer and draws it
//   - [Canvas]: Braille-based pixel canvas for the area, trails and drones
//   - Heatmap mode shows the scan grid as shaded blocks instead
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Restart with the same seed
//	H     - Toggle heatmap
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Quit
package viz
