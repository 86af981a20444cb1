package ui

import (
	"context"
	"strings"
	"testing"

	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
	"github.com/pitwall/paddock/internal/state"
)

type stubSource struct{}

func (stubSource) FetchVehicles(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 1, Name: "GT3 #17"}}, nil
}

func (stubSource) FetchOperators(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 2, Name: "K. Tanaka"}}, nil
}

func (stubSource) FetchEventTypes(context.Context) ([]mcapd.LookupEntity, error) {
	return []mcapd.LookupEntity{{ID: 3, Name: "Endurance"}}, nil
}

func TestFormatLogRow_ResolvesNamesAndStatuses(t *testing.T) {
	lookups := lookup.Load(context.Background(), stubSource{})
	m := Model{width: 140}

	record := mcapd.LogRecord{
		ID:             42,
		RecoveryStatus: "success",
		ParseStatus:    "failed",
		CapturedAt:     "2026-03-14T09:26:53Z",
		Vehicle:        mcapd.EntityRef{ID: 1},
		Operator:       mcapd.EntityRef{ID: 2},
		EventType:      mcapd.EntityRef{Name: "Test Day", Inline: true},
		Notes:          "out lap only",
	}

	row := m.formatLogRow(record, lookups)

	for _, want := range []string{"#42", "GT3 #17", "K. Tanaka", "Test Day", "Success", "Failed", "out lap only"} {
		if !strings.Contains(row, want) {
			t.Fatalf("row %q missing %q", row, want)
		}
	}
}

func TestFormatLogRow_MissingEntitiesShowNA(t *testing.T) {
	lookups := lookup.Load(context.Background(), stubSource{})
	m := Model{width: 140}

	row := m.formatLogRow(mcapd.LogRecord{ID: 7}, lookups)
	if !strings.Contains(row, "N/A") {
		t.Fatalf("row %q missing N/A placeholder", row)
	}
}

func TestBusyLabel_PicksPendingOperation(t *testing.T) {
	store := &state.Store{}
	m := Model{}

	if got := m.busyLabel(); got != "" {
		t.Fatalf("busyLabel idle = %q, want empty", got)
	}

	store.Begin(state.OpUploading)
	m.view = store.Snapshot()
	if got := m.busyLabel(); got != "Uploading" {
		t.Fatalf("busyLabel = %q, want Uploading", got)
	}
	store.Finish(state.OpUploading)
}
