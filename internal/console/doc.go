// Package console implements the synchronization controller: the single
// writer of the view-state store. Every mutating action follows the same
// shape: mark busy, call the backend once, on failure record a message
// and leave everything else alone, on success close the relevant modal and
// refetch the full collection. That unconditional refetch is the only
// mechanism keeping local state consistent with the server.
//
// The search filter lives here too as a pure projection over the current
// collection, so both it and the controller are unit-testable without a
// rendering environment.
package console
