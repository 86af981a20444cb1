package console

import (
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/state"
)

// Controller orchestrates every user intent: it runs the backend call,
// records the outcome in the view-state store, and resynchronizes the log
// collection after each successful mutation. Refetching the full list is
// the console's only consistency mechanism.
type Controller struct {
	client      mcapd.Service
	store       *state.Store
	lookups     *lookup.Cache
	downloadDir string
}

// New wires a controller over its collaborators.
func New(client mcapd.Service, store *state.Store, lookups *lookup.Cache, downloadDir string) *Controller {
	return &Controller{
		client:      client,
		store:       store,
		lookups:     lookups,
		downloadDir: downloadDir,
	}
}

// Store exposes the view-state store for the presentation layer.
func (c *Controller) Store() *state.Store {
	return c.store
}

// Lookups exposes the lookup cache for name resolution in views.
func (c *Controller) Lookups() *lookup.Cache {
	return c.lookups
}

// Refresh refetches the log collection.
func (c *Controller) Refresh(ctx context.Context) {
	c.store.Begin(state.OpListing)
	defer c.store.Finish(state.OpListing)

	logs, err := c.client.ListLogs(ctx)
	if err != nil {
		c.store.SetError(actionError("fetch logs", err))
		return
	}
	c.store.ReplaceLogs(logs)
}

// Upload submits a local file as a new recording. Files without the .mcap
// extension are rejected before any network call.
func (c *Controller) Upload(ctx context.Context, path string) {
	if !strings.HasSuffix(strings.ToLower(path), ".mcap") {
		c.store.SetError("please select a .mcap file")
		return
	}

	c.store.Begin(state.OpUploading)
	defer c.store.Finish(state.OpUploading)

	file, err := os.Open(path)
	if err != nil {
		c.store.SetError("open file: " + err.Error())
		return
	}
	defer func() { _ = file.Close() }()

	if err := c.client.UploadLog(ctx, filepath.Base(path), file); err != nil {
		c.store.SetError(actionError("upload file", err))
		return
	}
	c.resync(ctx)
}

// View fetches one record and opens the detail modal. On failure the error
// is surfaced and no modal opens.
func (c *Controller) View(ctx context.Context, id int64) {
	c.store.Begin(state.OpFetchingLog)
	defer c.store.Finish(state.OpFetchingLog)

	record, err := c.client.GetLog(ctx, id)
	if err != nil {
		c.store.SetError(actionError("fetch log", err))
		return
	}
	c.store.OpenModal(state.Modal{Kind: state.ModalView, LogID: id}, record, state.EditDraft{})
}

// Edit fetches one record, seeds the draft form from it, and opens the
// edit modal.
func (c *Controller) Edit(ctx context.Context, id int64) {
	c.store.Begin(state.OpFetchingLog)
	defer c.store.Finish(state.OpFetchingLog)

	record, err := c.client.GetLog(ctx, id)
	if err != nil {
		c.store.SetError(actionError("fetch log", err))
		return
	}
	draft := state.EditDraft{
		VehicleID:   c.lookups.IDString(record.Vehicle),
		OperatorID:  c.lookups.IDString(record.Operator),
		EventTypeID: c.lookups.IDString(record.EventType),
		Notes:       record.Notes,
	}
	c.store.OpenModal(state.Modal{Kind: state.ModalEdit, LogID: id}, record, draft)
}

// UpdateDraft replaces the edit form contents as the user types.
func (c *Controller) UpdateDraft(draft state.EditDraft) {
	c.store.SetDraft(draft)
}

// Save submits the current draft for the record under edit. On failure the
// edit modal stays open with the error surfaced; on success the modal
// closes and the collection is resynced.
func (c *Controller) Save(ctx context.Context, mode mcapd.UpdateMode) {
	snap := c.store.Snapshot()
	if snap.Modal.Kind != state.ModalEdit {
		return
	}
	id := snap.Modal.LogID

	c.store.Begin(state.OpSaving)
	defer c.store.Finish(state.OpSaving)

	if err := c.client.UpdateLog(ctx, id, draftPayload(snap.Draft), mode); err != nil {
		c.store.SetError(actionError("update log", err))
		return
	}
	c.store.CloseModal()
	c.resync(ctx)
}

// ConfirmDelete opens the delete confirmation modal. No network call.
func (c *Controller) ConfirmDelete(id int64) {
	c.store.OpenModal(state.Modal{Kind: state.ModalConfirmDelete, LogID: id}, nil, state.EditDraft{})
}

// Delete removes the record pending confirmation. On failure the confirm
// modal stays open; on success it closes and the collection is resynced.
func (c *Controller) Delete(ctx context.Context) {
	snap := c.store.Snapshot()
	if snap.Modal.Kind != state.ModalConfirmDelete {
		return
	}
	id := snap.Modal.LogID

	c.store.Begin(state.OpDeleting)
	defer c.store.Finish(state.OpDeleting)

	if err := c.client.DeleteLog(ctx, id); err != nil {
		c.store.SetError(actionError("delete log", err))
		return
	}
	c.store.CloseModal()
	c.resync(ctx)
}

// ShowMap fetches a log's spatial track and opens the map modal. A failed
// geometry fetch means "no geometry", not an error banner.
func (c *Controller) ShowMap(ctx context.Context, id int64) {
	c.store.Begin(state.OpFetchingGeometry)
	defer c.store.Finish(state.OpFetchingGeometry)

	geometry, err := c.client.FetchGeometry(ctx, id)
	if err != nil {
		log.Printf("geometry fetch for log %d failed: %v", id, err)
		geometry = nil
	}
	c.store.OpenModal(state.Modal{Kind: state.ModalMap, LogID: id, Geometry: geometry}, nil, state.EditDraft{})
}

// Summary requests the backend's parse summary and opens the summary modal.
func (c *Controller) Summary(ctx context.Context) {
	c.store.Begin(state.OpFetchingSummary)
	defer c.store.Finish(state.OpFetchingSummary)

	raw, err := c.client.ParseSummary(ctx)
	if err != nil {
		c.store.SetError(actionError("fetch summary", err))
		return
	}
	c.store.OpenModal(state.Modal{Kind: state.ModalSummary, Summary: raw}, nil, state.EditDraft{})
}

// Download fetches a log's original bytes and writes them to the
// configured download directory under the server-suggested name.
func (c *Controller) Download(ctx context.Context, id int64) {
	c.store.BeginDownload(id)
	defer c.store.Finish(state.OpDownloading)

	dl, err := c.client.DownloadLog(ctx, id)
	if err != nil {
		c.store.SetError(actionError("download file", err))
		return
	}
	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		c.store.SetError("create download dir: " + err.Error())
		return
	}
	dest := filepath.Join(c.downloadDir, dl.Filename)
	if err := os.WriteFile(dest, dl.Data, 0o644); err != nil {
		c.store.SetError("write file: " + err.Error())
		return
	}
}

// CloseModal dismisses whatever modal is open.
func (c *Controller) CloseModal() {
	c.store.CloseModal()
}

// resync refetches the collection after a successful mutation. It runs
// unconditionally; a resync failure surfaces like any other listing error
// while the previous collection stays on screen.
func (c *Controller) resync(ctx context.Context) {
	logs, err := c.client.ListLogs(ctx)
	if err != nil {
		c.store.SetError(actionError("fetch logs", err))
		return
	}
	c.store.ReplaceLogs(logs)
}

// draftPayload converts the string-typed form draft into the wire payload.
// Unparsable or empty identifiers travel as null.
func draftPayload(draft state.EditDraft) mcapd.UpdatePayload {
	return mcapd.UpdatePayload{
		Vehicle:   parseRef(draft.VehicleID),
		Operator:  parseRef(draft.OperatorID),
		EventType: parseRef(draft.EventTypeID),
		Notes:     draft.Notes,
	}
}

func parseRef(value string) *int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}

// actionError prefers a classified error's own message and falls back to a
// generic string naming the failed action.
func actionError(action string, err error) string {
	var validation *mcapd.ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	var server *mcapd.ServerError
	if errors.As(err, &server) {
		return server.Error()
	}
	return "failed to " + action
}
