// Package ui provides the terminal interface for the Paddock console.
//
// # Architecture Overview
//
// The UI is built on Bubble Tea's Model/Update/View loop. The model itself is
// thin: it holds presentation state (cursor, inputs, theme, open prompt) and a
// read-only copy of the console view state. All domain behavior lives in the
// console.Controller; key handlers translate keystrokes into controller calls
// wrapped as tea.Cmd values so network round trips never block the event loop.
//
// # Package Structure
//
//   - app.go: Root model, key dispatch, messages, commands, and Run
//   - table.go: Collection table rendering
//   - header.go: Status bar and command bar
//   - modal.go: View, edit, delete-confirm, and summary modals
//   - mapview.go: ASCII track plot for recording geometry
//   - help.go: Help overlay
//   - theme.go: Color themes and lipgloss style construction
//   - keys.go: Key bindings
//
// # State Flow
//
//  1. A key handler dispatches a controller operation as a tea.Cmd
//  2. The controller mutates the shared state.Store
//  3. The command returns a fresh store snapshot as a stateMsg
//  4. A periodic tick also re-snapshots so busy flags render while a
//     call is still in flight
//  5. View renders purely from the snapshot, never from the store
//
// Exactly one modal can be open at a time because modal state is a single
// tagged value carried in the snapshot. The model never opens or closes a
// modal itself; it asks the controller and re-reads the result.
//
// # Key Bindings
//
//   - u: Upload a recording (prompts for a local path)
//   - v or Enter: View details for the selected record
//   - e: Edit metadata
//   - x: Delete (with confirmation)
//   - d: Download the recording file
//   - m: Track map
//   - s: Collection parse summary
//   - r: Refresh from mcapd
//   - /: Filter records, ESC clears
//   - T: Cycle theme (persisted to prefs)
//   - h or ?: Help overlay
//   - q or Ctrl+C: Quit
package ui
