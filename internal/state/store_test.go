package state

import (
	"testing"
	"time"

	"github.com/pitwall/paddock/internal/mcapd"
)

func TestStore_ReplaceLogsAndSnapshotClone(t *testing.T) {
	var s Store

	before := time.Now()
	s.ReplaceLogs([]mcapd.LogRecord{{ID: 1}, {ID: 2}})

	snap := s.Snapshot()
	if len(snap.Logs) != 2 || snap.Logs[0].ID != 1 {
		t.Fatalf("snapshot logs = %#v, want 2 records", snap.Logs)
	}
	if snap.LastSynced.Before(before) {
		t.Fatalf("LastSynced = %v, want >= %v", snap.LastSynced, before)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Logs[0].ID = 999
	snap2 := s.Snapshot()
	if snap2.Logs[0].ID != 1 {
		t.Fatalf("Snapshot should clone logs; got id %d want 1", snap2.Logs[0].ID)
	}
}

func TestStore_BusyFlagLifecycle(t *testing.T) {
	ops := []Op{OpListing, OpUploading, OpFetchingLog, OpSaving, OpDeleting, OpFetchingGeometry}

	for _, op := range ops {
		var s Store
		if s.Snapshot().Busy(op) {
			t.Fatalf("op %d busy before Begin", op)
		}
		s.Begin(op)
		if !s.Snapshot().Busy(op) {
			t.Fatalf("op %d not busy after Begin", op)
		}
		s.Finish(op)
		if s.Snapshot().Busy(op) {
			t.Fatalf("op %d busy after Finish", op)
		}
	}
}

func TestStore_BeginClearsErrorSlot(t *testing.T) {
	var s Store

	s.SetError("upload failed")
	if got := s.Snapshot().LastError; got != "upload failed" {
		t.Fatalf("LastError = %q", got)
	}

	s.SetError("delete failed")
	if got := s.Snapshot().LastError; got != "delete failed" {
		t.Fatalf("LastError = %q, want newest message to win", got)
	}

	s.Begin(OpListing)
	if got := s.Snapshot().LastError; got != "" {
		t.Fatalf("LastError = %q, want cleared on next action", got)
	}
	s.Finish(OpListing)
}

func TestStore_DownloadTracksRecordID(t *testing.T) {
	var s Store

	s.BeginDownload(42)
	snap := s.Snapshot()
	if !snap.Busy(OpDownloading) || snap.DownloadingID != 42 {
		t.Fatalf("download state = busy=%v id=%d, want busy id=42", snap.Busy(OpDownloading), snap.DownloadingID)
	}

	s.Finish(OpDownloading)
	snap = s.Snapshot()
	if snap.Busy(OpDownloading) || snap.DownloadingID != 0 {
		t.Fatalf("download state after Finish = busy=%v id=%d, want cleared", snap.Busy(OpDownloading), snap.DownloadingID)
	}
}

func TestStore_ModalLifecycle(t *testing.T) {
	var s Store

	record := mcapd.LogRecord{ID: 7, Notes: "stint 2"}
	draft := EditDraft{VehicleID: "3", Notes: "stint 2"}
	s.OpenModal(Modal{Kind: ModalEdit, LogID: 7}, &record, draft)

	snap := s.Snapshot()
	if snap.Modal.Kind != ModalEdit || snap.Modal.LogID != 7 {
		t.Fatalf("Modal = %#v, want edit over id 7", snap.Modal)
	}
	if snap.Selected == nil || snap.Selected.ID != 7 {
		t.Fatalf("Selected = %#v, want record 7", snap.Selected)
	}
	if snap.Draft != draft {
		t.Fatalf("Draft = %#v, want %#v", snap.Draft, draft)
	}

	// Selected is cloned, not shared.
	snap.Selected.Notes = "mutated"
	if s.Snapshot().Selected.Notes != "stint 2" {
		t.Fatal("Snapshot should clone the selected record")
	}

	s.CloseModal()
	snap = s.Snapshot()
	if snap.Modal.Kind != ModalNone || snap.Selected != nil || snap.Draft != (EditDraft{}) {
		t.Fatalf("state after CloseModal = %#v, want cleared", snap)
	}
}

func TestStore_ErrorLeavesCollectionUntouched(t *testing.T) {
	var s Store

	s.ReplaceLogs([]mcapd.LogRecord{{ID: 1}, {ID: 2}})
	s.OpenModal(Modal{Kind: ModalEdit, LogID: 1}, &mcapd.LogRecord{ID: 1}, EditDraft{})

	s.SetError("save failed")

	snap := s.Snapshot()
	if len(snap.Logs) != 2 {
		t.Fatalf("logs = %#v, want untouched by failure", snap.Logs)
	}
	if snap.Modal.Kind != ModalEdit {
		t.Fatalf("modal = %#v, want still open after failure", snap.Modal)
	}
}
