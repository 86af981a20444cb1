package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/pitwall/paddock/internal/mcapd"
)

type fakeSource struct {
	vehicles   []mcapd.LookupEntity
	operators  []mcapd.LookupEntity
	eventTypes []mcapd.LookupEntity
	opErr      error
}

func (f *fakeSource) FetchVehicles(context.Context) ([]mcapd.LookupEntity, error) {
	return f.vehicles, nil
}

func (f *fakeSource) FetchOperators(context.Context) ([]mcapd.LookupEntity, error) {
	if f.opErr != nil {
		return nil, f.opErr
	}
	return f.operators, nil
}

func (f *fakeSource) FetchEventTypes(context.Context) ([]mcapd.LookupEntity, error) {
	return f.eventTypes, nil
}

func testSource() *fakeSource {
	return &fakeSource{
		vehicles:   []mcapd.LookupEntity{{ID: 1, Name: "GT3 #17"}, {ID: 2, Name: "LMP2 #4"}},
		operators:  []mcapd.LookupEntity{{ID: 5, Name: "K. Tanaka"}},
		eventTypes: []mcapd.LookupEntity{{ID: 9, Name: "Endurance"}},
	}
}

func TestLoad_PopulatesAllCollections(t *testing.T) {
	cache := Load(context.Background(), testSource())

	if got := cache.Entities(Vehicles); len(got) != 2 || got[0].Name != "GT3 #17" {
		t.Fatalf("Vehicles = %#v", got)
	}
	if got := cache.Entities(Operators); len(got) != 1 || got[0].ID != 5 {
		t.Fatalf("Operators = %#v", got)
	}
	if got := cache.Entities(EventTypes); len(got) != 1 {
		t.Fatalf("EventTypes = %#v", got)
	}
}

func TestLoad_IsolatesCollectionFailures(t *testing.T) {
	src := testSource()
	src.opErr = errors.New("connection refused")

	cache := Load(context.Background(), src)

	if got := cache.Entities(Operators); len(got) != 0 {
		t.Fatalf("Operators = %#v, want empty on fetch failure", got)
	}
	if got := cache.Entities(Vehicles); len(got) != 2 {
		t.Fatalf("Vehicles = %#v, want populated despite operator failure", got)
	}
	if got := cache.Entities(EventTypes); len(got) != 1 {
		t.Fatalf("EventTypes = %#v, want populated despite operator failure", got)
	}
}

func TestName_ResolutionOrder(t *testing.T) {
	cache := Load(context.Background(), testSource())

	inline := mcapd.EntityRef{Name: "Custom Car", Inline: true}
	if got := cache.Name(Vehicles, inline); got != "Custom Car" {
		t.Fatalf("Name inline = %q", got)
	}

	byID := mcapd.EntityRef{ID: 2}
	if got := cache.Name(Vehicles, byID); got != "LMP2 #4" {
		t.Fatalf("Name by id = %q", got)
	}

	missing := mcapd.EntityRef{ID: 999}
	if got := cache.Name(Vehicles, missing); got != "N/A" {
		t.Fatalf("Name missing = %q, want N/A", got)
	}
	if got := cache.Name(Operators, mcapd.EntityRef{}); got != "N/A" {
		t.Fatalf("Name zero = %q, want N/A", got)
	}
}

func TestIDString_ReverseSearchAcrossCollections(t *testing.T) {
	cache := Load(context.Background(), testSource())

	if got := cache.IDString(mcapd.EntityRef{ID: 5, Name: "K. Tanaka"}); got != "5" {
		t.Fatalf("IDString object form = %q, want 5", got)
	}
	if got := cache.IDString(mcapd.EntityRef{Name: "Endurance", Inline: true}); got != "9" {
		t.Fatalf("IDString reverse search = %q, want 9", got)
	}
	if got := cache.IDString(mcapd.EntityRef{Name: "Unknown", Inline: true}); got != "" {
		t.Fatalf("IDString unresolvable = %q, want empty", got)
	}
	if got := cache.IDString(mcapd.EntityRef{}); got != "" {
		t.Fatalf("IDString zero = %q, want empty", got)
	}
}
