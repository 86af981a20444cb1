package console

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/state"
)

// fakeBackend is an in-memory stand-in for the mcapd API.
type fakeBackend struct {
	mu   sync.Mutex
	logs []mcapd.LogRecord

	listCalls   int
	uploadCalls int

	failList     error
	failGet      error
	failUpdate   error
	failDelete   error
	failGeometry error

	// When non-nil, mutating calls block until the channel closes.
	gate chan struct{}

	download mcapd.Download
}

var _ mcapd.Service = (*fakeBackend)(nil)

func (f *fakeBackend) ListLogs(context.Context) ([]mcapd.LogRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.failList != nil {
		return nil, f.failList
	}
	return append([]mcapd.LogRecord(nil), f.logs...), nil
}

func (f *fakeBackend) GetLog(_ context.Context, id int64) (*mcapd.LogRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	for _, record := range f.logs {
		if record.ID == id {
			r := record
			return &r, nil
		}
	}
	return nil, &mcapd.ServerError{Status: 404, StatusText: "Not Found"}
}

func (f *fakeBackend) UploadLog(_ context.Context, name string, file io.Reader) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploadCalls++
	_, _ = io.ReadAll(file)
	next := int64(1)
	for _, record := range f.logs {
		if record.ID >= next {
			next = record.ID + 1
		}
	}
	f.logs = append(f.logs, mcapd.LogRecord{ID: next, Notes: name})
	return nil
}

func (f *fakeBackend) UpdateLog(_ context.Context, id int64, payload mcapd.UpdatePayload, _ mcapd.UpdateMode) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate != nil {
		return f.failUpdate
	}
	for i := range f.logs {
		if f.logs[i].ID == id {
			f.logs[i].Notes = payload.Notes
			return nil
		}
	}
	return &mcapd.ServerError{Status: 404, StatusText: "Not Found"}
}

func (f *fakeBackend) DeleteLog(_ context.Context, id int64) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete != nil {
		return f.failDelete
	}
	kept := f.logs[:0]
	for _, record := range f.logs {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	f.logs = kept
	return nil
}

func (f *fakeBackend) FetchGeometry(context.Context, int64) (*mcapd.FeatureCollection, error) {
	if f.failGeometry != nil {
		return nil, f.failGeometry
	}
	return &mcapd.FeatureCollection{Type: "FeatureCollection"}, nil
}

func (f *fakeBackend) DownloadLog(context.Context, int64) (mcapd.Download, error) {
	f.wait()
	return f.download, nil
}

func (f *fakeBackend) FetchVehicles(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 1, Name: "GT3 #17"}}, nil
}

func (f *fakeBackend) FetchOperators(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 2, Name: "K. Tanaka"}}, nil
}

func (f *fakeBackend) FetchEventTypes(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 3, Name: "Endurance"}}, nil
}

func (f *fakeBackend) ParseSummary(context.Context) (json.RawMessage, error) {
	return json.RawMessage(`{"parsed": 2, "failed": 0}`), nil
}

func (f *fakeBackend) wait() {
	f.mu.Lock()
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
}

func newController(t *testing.T, backend *fakeBackend) *Controller {
	t.Helper()
	lookups := lookup.Load(context.Background(), backend)
	return New(backend, &state.Store{}, lookups, t.TempDir())
}

func TestRefresh_MirrorsServerTruth(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1}, {ID: 2}}}
	c := newController(t, backend)

	c.Refresh(context.Background())

	snap := c.Store().Snapshot()
	if len(snap.Logs) != 2 || snap.Logs[0].ID != 1 {
		t.Fatalf("logs = %#v, want server collection", snap.Logs)
	}
	if snap.LastError != "" {
		t.Fatalf("LastError = %q, want empty", snap.LastError)
	}
}

func TestUpload_RejectsWrongExtensionWithoutNetworkCall(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(t, backend)

	c.Upload(context.Background(), "/tmp/notes.txt")

	if backend.uploadCalls != 0 {
		t.Fatalf("uploadCalls = %d, want 0 for local rejection", backend.uploadCalls)
	}
	snap := c.Store().Snapshot()
	if snap.LastError == "" {
		t.Fatal("LastError empty, want local validation message")
	}
	if snap.Busy(state.OpUploading) {
		t.Fatal("uploading flag set for rejected file")
	}
}

func TestUpload_SuccessResyncsCollection(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(t, backend)

	path := filepath.Join(t.TempDir(), "stint1.mcap")
	if err := os.WriteFile(path, []byte("mcap-bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	c.Upload(context.Background(), path)

	snap := c.Store().Snapshot()
	if len(snap.Logs) != 1 || snap.Logs[0].Notes != "stint1.mcap" {
		t.Fatalf("logs = %#v, want uploaded record after resync", snap.Logs)
	}
	if snap.LastError != "" {
		t.Fatalf("LastError = %q, want empty", snap.LastError)
	}
}

func TestSave_FailureKeepsModalOpenAndCollectionUntouched(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1, Notes: "before"}}}
	c := newController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	c.Edit(ctx, 1)
	listCallsBefore := backend.listCalls

	backend.failUpdate = &mcapd.ValidationError{Status: 400, Message: "notes: too long"}
	c.UpdateDraft(state.EditDraft{Notes: "way too long"})
	c.Save(ctx, mcapd.UpdateMerge)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalEdit {
		t.Fatalf("modal = %#v, want edit modal still open after failure", snap.Modal)
	}
	if snap.LastError != "notes: too long" {
		t.Fatalf("LastError = %q, want classified message", snap.LastError)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].Notes != "before" {
		t.Fatalf("logs = %#v, want untouched collection", snap.Logs)
	}
	if backend.listCalls != listCallsBefore {
		t.Fatalf("listCalls = %d, want no refetch after failure", backend.listCalls)
	}
}

func TestSave_SuccessClosesModalAndResyncs(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1, Notes: "before"}}}
	c := newController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	c.Edit(ctx, 1)
	c.UpdateDraft(state.EditDraft{VehicleID: "1", Notes: "after"})
	c.Save(ctx, mcapd.UpdateMerge)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalNone || snap.Selected != nil {
		t.Fatalf("modal = %#v selected = %#v, want closed and cleared", snap.Modal, snap.Selected)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].Notes != "after" {
		t.Fatalf("logs = %#v, want resynced server truth", snap.Logs)
	}
}

func TestDelete_ConfirmFlowRemovesRecord(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1}, {ID: 2}}}
	c := newController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	c.ConfirmDelete(2)
	if got := c.Store().Snapshot().Modal; got.Kind != state.ModalConfirmDelete || got.LogID != 2 {
		t.Fatalf("modal = %#v, want delete confirmation for id 2", got)
	}

	c.Delete(ctx)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalNone {
		t.Fatalf("modal = %#v, want closed after delete", snap.Modal)
	}
	if len(snap.Logs) != 1 || snap.Logs[0].ID != 1 {
		t.Fatalf("logs = %#v, want record 2 gone", snap.Logs)
	}
}

func TestView_FailureLeavesModalClosed(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1}}}
	c := newController(t, backend)

	backend.failGet = &mcapd.ServerError{Status: 404, StatusText: "Not Found"}
	c.View(context.Background(), 1)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalNone {
		t.Fatalf("modal = %#v, want none after fetch failure", snap.Modal)
	}
	if snap.LastError == "" {
		t.Fatal("LastError empty, want surfaced fetch error")
	}
}

func TestEdit_SeedsDraftFromRecordAndLookups(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{
		ID:       1,
		Vehicle:  mcapd.EntityRef{ID: 1, Name: "GT3 #17"},
		Operator: mcapd.EntityRef{Name: "K. Tanaka", Inline: true},
		Notes:    "baseline setup",
	}}}
	c := newController(t, backend)

	c.Edit(context.Background(), 1)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalEdit {
		t.Fatalf("modal = %#v, want edit", snap.Modal)
	}
	want := state.EditDraft{VehicleID: "1", OperatorID: "2", Notes: "baseline setup"}
	if snap.Draft != want {
		t.Fatalf("draft = %#v, want %#v (inline operator resolved by name)", snap.Draft, want)
	}
}

func TestShowMap_GeometryFailureMeansNoGeometry(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1}}}
	c := newController(t, backend)

	backend.failGeometry = &mcapd.ServerError{Status: 500, StatusText: "Internal Server Error"}
	c.ShowMap(context.Background(), 1)

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalMap || snap.Modal.Geometry != nil {
		t.Fatalf("modal = %#v, want map modal with no geometry", snap.Modal)
	}
	if snap.LastError != "" {
		t.Fatalf("LastError = %q, want geometry failures not escalated", snap.LastError)
	}
}

func TestDownload_WritesServerSuggestedFilename(t *testing.T) {
	backend := &fakeBackend{download: mcapd.Download{Filename: "run42.mcap", Data: []byte("bytes")}}
	dir := t.TempDir()
	lookups := lookup.Load(context.Background(), backend)
	c := New(backend, &state.Store{}, lookups, dir)

	c.Download(context.Background(), 42)

	data, err := os.ReadFile(filepath.Join(dir, "run42.mcap"))
	if err != nil {
		t.Fatalf("downloaded file missing: %v", err)
	}
	if string(data) != "bytes" {
		t.Fatalf("file contents = %q", data)
	}
	snap := c.Store().Snapshot()
	if snap.Busy(state.OpDownloading) || snap.DownloadingID != 0 {
		t.Fatalf("download flags not cleared: %#v", snap)
	}
}

func TestSummary_OpensModalWithPayload(t *testing.T) {
	backend := &fakeBackend{}
	c := newController(t, backend)

	c.Summary(context.Background())

	snap := c.Store().Snapshot()
	if snap.Modal.Kind != state.ModalSummary {
		t.Fatalf("modal = %#v, want summary", snap.Modal)
	}
	if len(snap.Modal.Summary) == 0 {
		t.Fatal("summary payload empty")
	}
}

func TestBusyFlag_TrueStrictlyDuringPendingCall(t *testing.T) {
	backend := &fakeBackend{logs: []mcapd.LogRecord{{ID: 1}}}
	c := newController(t, backend)
	ctx := context.Background()

	c.Refresh(ctx)
	c.Edit(ctx, 1)

	if c.Store().Snapshot().Busy(state.OpSaving) {
		t.Fatal("saving busy before the action started")
	}

	gate := make(chan struct{})
	backend.mu.Lock()
	backend.gate = gate
	backend.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Save(ctx, mcapd.UpdateMerge)
	}()

	// The flag must be visible while the request is pending.
	deadline := time.After(2 * time.Second)
	for !c.Store().Snapshot().Busy(state.OpSaving) {
		select {
		case <-deadline:
			t.Fatal("saving flag never became true while request pending")
		case <-time.After(time.Millisecond):
		}
	}

	backend.mu.Lock()
	backend.gate = nil
	backend.mu.Unlock()
	close(gate)
	<-done

	if c.Store().Snapshot().Busy(state.OpSaving) {
		t.Fatal("saving flag still true after the request settled")
	}
}
