// Package viz provides the terminal player for sorting traces.
//
// The player is a Bubble Tea program that redraws engine snapshots as
// coloured bars, with a counter chart and the algorithm's reference card:
//
//   - [Model]: single or side by side (compare) playback
//   - [RenderBars]: bar chart coloured by highlight role
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Space   - Pause/Resume playback
//	S       - Start, continue after a stop, or retry after an error
//	X       - Stop, keeping frames; again to clear them
//	R       - Generate a new array
//	N/B     - Step forward/backward while paused
//	[]      - Scrub ten frames while paused
//	Up/Down - Change speed by 10ms
//	C       - Toggle compare mode
//	T       - Cycle color themes
//	?       - Show help overlay
package viz
