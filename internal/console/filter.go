package console

import (
	"strconv"
	"strings"

	"github.com/pitwall/paddock/internal/lookup"
	"github.com/pitwall/paddock/internal/mcapd"
)

// capturedAtLayout is how capture timestamps render in the table and how
// they are matched by the search filter.
const capturedAtLayout = "Jan 2, 2006 15:04:05"

// CapturedAtDisplay formats a record's capture timestamp for display,
// falling back to "N/A" when absent or unparsable.
func CapturedAtDisplay(record mcapd.LogRecord) string {
	t := record.ParsedCapturedAt()
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(capturedAtLayout)
}

// Filter is the client-local search projection: a case-insensitive
// substring match over a record's identifier, resolved lookup names,
// notes, status labels, and formatted capture timestamp. An empty query
// returns the collection unchanged, in server order. The projection is
// pure and recomputed per render; it is never persisted.
func Filter(logs []mcapd.LogRecord, lookups *lookup.Cache, query string) []mcapd.LogRecord {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return logs
	}

	var matched []mcapd.LogRecord
	for _, record := range logs {
		if recordMatches(record, lookups, query) {
			matched = append(matched, record)
		}
	}
	return matched
}

func recordMatches(record mcapd.LogRecord, lookups *lookup.Cache, query string) bool {
	fields := []string{
		strconv.FormatInt(record.ID, 10),
		lookups.Name(lookup.Vehicles, record.Vehicle),
		lookups.Name(lookup.Operators, record.Operator),
		lookups.Name(lookup.EventTypes, record.EventType),
		record.Notes,
		record.RecoveryStatus,
		record.ParseStatus,
		CapturedAtDisplay(record),
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
