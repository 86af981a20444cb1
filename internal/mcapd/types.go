package mcapd

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const mcapdTimestampLayout = "2006-01-02 15:04:05"

// LogRecord mirrors one uploaded recording's metadata as returned by the
// /mcap-logs/ endpoints. Records are server-owned: the console never
// constructs or mutates one outside of a round trip through the Client.
type LogRecord struct {
	ID              int64     `json:"id"`
	RecoveryStatus  string    `json:"recovery_status"`
	ParseStatus     string    `json:"parse_status"`
	CapturedAt      string    `json:"captured_at"`
	DurationSeconds float64   `json:"duration_seconds"`
	ChannelCount    int       `json:"channel_count"`
	Channels        []string  `json:"channels_summary"`
	RoughPoint      string    `json:"rough_point"`
	Vehicle         EntityRef `json:"car"`
	Operator        EntityRef `json:"driver"`
	EventType       EntityRef `json:"event_type"`
	Notes           string    `json:"notes"`
	CreatedAt       string    `json:"created_at"`
	UpdatedAt       string    `json:"updated_at"`
}

// ParsedCapturedAt returns the capture timestamp as time.Time when possible.
func (l LogRecord) ParsedCapturedAt() time.Time {
	return parseTime(l.CapturedAt)
}

// ParsedCreatedAt returns the parsed CreatedAt timestamp.
func (l LogRecord) ParsedCreatedAt() time.Time {
	return parseTime(l.CreatedAt)
}

// ParsedUpdatedAt returns the parsed UpdatedAt timestamp.
func (l LogRecord) ParsedUpdatedAt() time.Time {
	return parseTime(l.UpdatedAt)
}

// LookupEntity is a named reference object from one of the three lookup
// collections (vehicles, operators, event types). Read-only for the console.
type LookupEntity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// EntityRef is a reference to a lookup entity as it appears on a LogRecord.
// The backend's schema is still settling: older records carry a bare display
// string, newer ones a {id,name} object. The object form is canonical; the
// bare string is accepted on decode as a compatibility path.
type EntityRef struct {
	ID   int64
	Name string

	// Inline reports that the reference was decoded from a bare string and
	// therefore carries no identifier.
	Inline bool
}

// IsZero reports whether the reference is absent.
func (r EntityRef) IsZero() bool {
	return r.ID == 0 && r.Name == ""
}

// UnmarshalJSON accepts null, a bare name string, or a {id,name} object.
func (r *EntityRef) UnmarshalJSON(data []byte) error {
	*r = EntityRef{}
	if string(data) == "null" {
		return nil
	}
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		r.Name = name
		r.Inline = true
		return nil
	}
	var obj struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode entity ref: %w", err)
	}
	r.ID = obj.ID
	r.Name = obj.Name
	return nil
}

// MarshalJSON emits the canonical object form, or null when absent.
func (r EntityRef) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return []byte("null"), nil
	}
	if r.Inline {
		return json.Marshal(r.Name)
	}
	return json.Marshal(struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}{r.ID, r.Name})
}

// UpdateMode selects the transport-level semantics of an update.
type UpdateMode int

const (
	// UpdateMerge sends a PATCH with only the changed fields.
	UpdateMerge UpdateMode = iota
	// UpdateReplace sends a PUT replacing the editable fields wholesale.
	UpdateReplace
)

// UpdatePayload carries the editable fields of a log record. Lookup
// references travel as numeric identifiers; nil clears the reference.
type UpdatePayload struct {
	Vehicle   *int64 `json:"car"`
	Operator  *int64 `json:"driver"`
	EventType *int64 `json:"event_type"`
	Notes     string `json:"notes"`
}

// FeatureCollection mirrors the /mcap-logs/{id}/geojson payload: the
// spatial track recorded by a log, as a point or line-string feature.
type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

// Feature is a single GeoJSON feature.
type Feature struct {
	Type       string         `json:"type"`
	Geometry   Geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

// Geometry holds the feature's shape with coordinates left raw until the
// type is known.
type Geometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

// Coordinate is a lon/lat pair.
type Coordinate struct {
	Lon float64
	Lat float64
}

// Points flattens the geometry into its coordinate sequence. A Point yields
// one coordinate, a LineString yields all of them. Unknown types and
// malformed coordinates yield nil.
func (g Geometry) Points() []Coordinate {
	switch g.Type {
	case "Point":
		var c [2]float64
		if err := json.Unmarshal(g.Coordinates, &c); err != nil {
			return nil
		}
		return []Coordinate{{Lon: c[0], Lat: c[1]}}
	case "LineString":
		var cs [][2]float64
		if err := json.Unmarshal(g.Coordinates, &cs); err != nil {
			return nil
		}
		points := make([]Coordinate, 0, len(cs))
		for _, c := range cs {
			points = append(points, Coordinate{Lon: c[0], Lat: c[1]})
		}
		return points
	}
	return nil
}

// TrackPoints collects the coordinates of every feature in order.
func (fc FeatureCollection) TrackPoints() []Coordinate {
	var points []Coordinate
	for _, f := range fc.Features {
		points = append(points, f.Geometry.Points()...)
	}
	return points
}

// Download is the result of fetching a log's original file bytes.
type Download struct {
	Filename string
	Data     []byte
}

// DefaultDownloadName synthesizes a filename for a log whose
// Content-Disposition header was missing or unparsable.
func DefaultDownloadName(id int64) string {
	return "mcap-log-" + strconv.FormatInt(id, 10) + ".mcap"
}

func parseTime(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	if t, err := time.ParseInLocation(mcapdTimestampLayout, value, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
