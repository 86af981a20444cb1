// Package state provides thread-safe view-state management for Paddock.
//
// # Overview
//
// The Store is the coordination point between the console controller
// (which runs network actions on background goroutines) and the UI (which
// renders snapshots on its own schedule). It owns everything the screen is
// a function of: the log collection, per-operation busy flags, the single
// error slot, the current selection and edit draft, and the modal state.
//
// # Architecture
//
// The package follows a single-writer pattern:
//
//	Producer (console.Controller):     Consumer (UI):
//	┌──────────────────────┐          ┌─────────────────┐
//	│ Begin(op)            │          │                 │
//	│ client call          │          │                 │
//	│ ReplaceLogs / Error  │─────────→│ store.Snapshot() │
//	│ Finish(op)           │  (mutex) │ render           │
//	└──────────────────────┘          └─────────────────┘
//
// Only the controller mutates the collection field, and it does so
// exclusively by replacing it with a fresh server fetch.
//
// # Busy Flags
//
// Each operation kind (listing, uploading, fetching one record, saving,
// deleting, fetching geometry, downloading) has an independent flag.
// Downloads additionally record which record is in flight so per-row
// controls can disable individually while other rows stay interactive.
// Begin sets the flag and clears the error slot; Finish runs in a deferred
// cleanup, so a flag can never stay true after its request settles.
//
// # Modal State
//
// Modal visibility is a single tagged value (ModalKind plus payload), not
// a set of independent booleans, making "at most one modal open" a
// structural property instead of a UI convention.
//
// # Error Slot
//
// There is exactly one error message. A new failure overwrites the
// previous one; starting any action clears it. Failures never touch the
// displayed collection.
//
// # Defensive Copying
//
// Snapshot clones the log slice and the selected record so the UI can
// never mutate shared state, and ReplaceLogs clones its input so callers
// cannot alias the stored collection.
package state
