package console

import (
	"context"
	"testing"

	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
)

func filterFixture(t *testing.T) ([]mcapd.LogRecord, *lookup.Cache) {
	t.Helper()
	logs := []mcapd.LogRecord{
		{ID: 10, Notes: "Morning shakedown", RecoveryStatus: "success", ParseStatus: "success",
			Vehicle: mcapd.EntityRef{ID: 1}, CapturedAt: "2026-03-14T09:26:53Z"},
		{ID: 11, Notes: "Brake balance sweep", ParseStatus: "failed",
			Operator: mcapd.EntityRef{ID: 2}},
		{ID: 12, Notes: "", EventType: mcapd.EntityRef{Name: "Endurance", Inline: true}},
	}
	lookups := lookup.Load(context.Background(), &fakeBackend{})
	return logs, lookups
}

func TestFilter_EmptyQueryReturnsFullCollectionInOrder(t *testing.T) {
	logs, lookups := filterFixture(t)

	got := Filter(logs, lookups, "   ")
	if len(got) != 3 || got[0].ID != 10 || got[2].ID != 12 {
		t.Fatalf("Filter empty = %#v, want original order", got)
	}
}

func TestFilter_MatchesCaseInsensitively(t *testing.T) {
	logs, lookups := filterFixture(t)

	cases := []struct {
		name  string
		query string
		want  int64
	}{
		{"notes", "BRAKE", 11},
		{"identifier", "12", 12},
		{"vehicle_name", "gt3", 10},
		{"operator_name", "tanaka", 11},
		{"inline_event_name", "endurance", 12},
		{"parse_status", "failed", 11},
		{"captured_timestamp", "mar 14", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(logs, lookups, tc.query)
			if len(got) != 1 || got[0].ID != tc.want {
				t.Fatalf("Filter(%q) = %#v, want single record %d", tc.query, got, tc.want)
			}
		})
	}
}

func TestFilter_NoMatchesYieldsEmpty(t *testing.T) {
	logs, lookups := filterFixture(t)
	if got := Filter(logs, lookups, "zebra"); len(got) != 0 {
		t.Fatalf("Filter = %#v, want empty", got)
	}
}

func TestCapturedAtDisplay(t *testing.T) {
	record := mcapd.LogRecord{CapturedAt: "2026-03-14T09:26:53Z"}
	if got := CapturedAtDisplay(record); got == "N/A" || got == "" {
		t.Fatalf("CapturedAtDisplay = %q, want formatted timestamp", got)
	}
	if got := CapturedAtDisplay(mcapd.LogRecord{}); got != "N/A" {
		t.Fatalf("CapturedAtDisplay empty = %q, want N/A", got)
	}
}
