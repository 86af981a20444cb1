package state

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/pitwall/paddock/internal/mcapd"
)

// Op identifies one of the console's asynchronous operation kinds. Each op
// tracks its own busy flag so independent actions can overlap.
type Op int

const (
	OpListing Op = iota
	OpUploading
	OpFetchingLog
	OpSaving
	OpDeleting
	OpFetchingGeometry
	OpDownloading
	OpFetchingSummary

	numOps
)

// ModalKind tags the single modal variant.
type ModalKind int

const (
	ModalNone ModalKind = iota
	ModalView
	ModalEdit
	ModalConfirmDelete
	ModalMap
	ModalSummary
)

// Modal is the one-of modal state. At most one modal can be open because
// visibility is a single tagged value rather than independent booleans.
type Modal struct {
	Kind     ModalKind
	LogID    int64
	Geometry *mcapd.FeatureCollection
	Summary  json.RawMessage
}

// EditDraft is the transient, client-local edit form. Lookup references are
// held as stringified identifiers for form binding; the draft is discarded
// when the edit modal closes or a save succeeds.
type EditDraft struct {
	VehicleID   string
	OperatorID  string
	EventTypeID string
	Notes       string
}

// ViewState is everything the presentation layer renders from. The log
// collection stays in server order and is only ever replaced wholesale
// after a refetch.
type ViewState struct {
	Logs          []mcapd.LogRecord
	DownloadingID int64
	LastError     string
	LastSynced    time.Time
	Selected      *mcapd.LogRecord
	Draft         EditDraft
	Modal         Modal

	busy [numOps]bool
}

// Busy reports whether the given operation is in flight.
func (v ViewState) Busy(op Op) bool {
	if op < 0 || op >= numOps {
		return false
	}
	return v.busy[op]
}

// Store coordinates concurrent access to the view state. The console
// controller is the only writer; the UI reads snapshots.
type Store struct {
	mu   sync.RWMutex
	view ViewState
}

// Snapshot returns a copy of the current view state.
func (s *Store) Snapshot() ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.view
	snap.Logs = cloneLogs(s.view.Logs)
	if s.view.Selected != nil {
		selected := *s.view.Selected
		snap.Selected = &selected
	}
	return snap
}

// Begin marks an operation as in flight and clears the error slot. Every
// action starts by dismissing the previous error banner.
func (s *Store) Begin(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.busy[op] = true
	s.view.LastError = ""
}

// BeginDownload marks a per-record download as in flight so row controls
// can disable independently.
func (s *Store) BeginDownload(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.busy[OpDownloading] = true
	s.view.DownloadingID = id
	s.view.LastError = ""
}

// Finish clears an operation's busy flag. Called from a deferred cleanup so
// no flag outlives its request on either outcome.
func (s *Store) Finish(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.busy[op] = false
	if op == OpDownloading {
		s.view.DownloadingID = 0
	}
}

// SetError records a failure message in the single error slot, overwriting
// any previous one. The collection and modal state are left untouched.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.LastError = msg
}

// ReplaceLogs swaps in a freshly fetched collection. This is the only way
// the collection changes.
func (s *Store) ReplaceLogs(logs []mcapd.LogRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Logs = cloneLogs(logs)
	s.view.LastSynced = time.Now()
}

// OpenModal selects a record and opens a modal over it.
func (s *Store) OpenModal(modal Modal, selected *mcapd.LogRecord, draft EditDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Modal = modal
	s.view.Draft = draft
	if selected != nil {
		record := *selected
		s.view.Selected = &record
	} else {
		s.view.Selected = nil
	}
}

// CloseModal dismisses the current modal and discards the selection and
// draft that belonged to it.
func (s *Store) CloseModal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Modal = Modal{}
	s.view.Selected = nil
	s.view.Draft = EditDraft{}
}

// SetDraft replaces the edit form contents as the user types.
func (s *Store) SetDraft(draft EditDraft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Draft = draft
}

func cloneLogs(logs []mcapd.LogRecord) []mcapd.LogRecord {
	if len(logs) == 0 {
		return nil
	}
	dup := make([]mcapd.LogRecord, len(logs))
	copy(dup, logs)
	return dup
}
