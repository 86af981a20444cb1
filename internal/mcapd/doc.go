// Package mcapd provides an HTTP client for the mcapd recording backend.
//
// # Overview
//
// This package defines the API client Paddock uses to manage MCAP
// recording logs: listing and fetching records, uploading new recordings,
// editing metadata, deleting, downloading the original file bytes, and
// fetching the derived spatial track for a log. It also serves the three
// small lookup collections (vehicles, operators, event types) used to
// resolve identifiers to display names.
//
// # Architecture
//
// The package is split into three files:
//
//   - client.go: HTTP client implementation and request/response handling
//   - types.go: Data structures mirroring the mcapd API schema
//   - errors.go: Classification of non-success responses
//
// # Client Usage
//
// Create a client using the API base address from configuration:
//
//	client, err := mcapd.NewClient("127.0.0.1:8000", 0)
//	if err != nil {
//		log.Fatalf("failed to create client: %v", err)
//	}
//
//	logs, err := client.ListLogs(ctx)
//	if err != nil {
//		log.Printf("list failed: %v", err)
//	}
//
// The Service interface mirrors the client's method set and is what the
// console layer depends on, so tests can substitute a fake backend.
//
// # Request Handling
//
// All requests:
//   - Use context for cancellation and timeout control
//   - Set Accept: application/json and a paddock User-Agent
//   - Carry an X-Request-ID header (UUID) on mutating methods
//   - Are attempted exactly once; retry policy belongs to the user
//
// # Error Handling
//
// Non-success responses are classified into two typed errors:
//
//   - *ValidationError: the body carried a structured message. The
//     extraction order is a documented contract: top-level "detail", then
//     top-level "message", then a concatenation of per-field errors, each
//     rendered as "field: msg, msg".
//   - *ServerError: no usable body; carries status code and status text.
//
// Transport-level failures (connection refused, timeout, unreadable body)
// surface as wrapped stdlib errors in the usual
// fmt.Errorf("...: %w") form.
//
// # Schema Notes
//
// A record's vehicle, operator, and event-type fields arrive either as a
// bare display string (legacy) or a {id,name} object. EntityRef decodes
// both; the object form is canonical and the string form exists only as a
// compatibility path.
//
// A successful list response that is not a JSON array is normalized to an
// empty collection rather than treated as an error.
//
// # Design Rationale
//
// The client is intentionally minimal:
//   - No caching (the console refetches after every mutation)
//   - No retries (one network round trip per user action)
//   - No streaming or pagination (collections are small)
//
// This keeps the client simple and predictable while meeting all current
// needs of a single-operator console.
package mcapd
