// Package app wires the Paddock console together.
//
// # Startup Sequence
//
//  1. Load configuration (config.Load), falling back to defaults when the
//     file is missing
//  2. Load user preferences (theme, save mode) with graceful degradation
//  3. Build the mcapd HTTP client from the configured API base and timeout
//  4. Create the shared state.Store and fetch the three lookup collections
//  5. Run the initial collection refresh so the first frame shows data
//  6. Hand everything to ui.Run, which blocks until quit or cancellation
//
// The app package owns composition only. It holds no state of its own and
// contains no domain logic; everything it constructs is owned by the
// controller or the UI for the rest of the process lifetime.
package app
