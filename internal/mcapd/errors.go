package mcapd

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// ServerError reports a non-success response that carried no structured
// error body.
type ServerError struct {
	Status     int
	StatusText string
}

func (e *ServerError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("server returned status %d: %s", e.Status, e.StatusText)
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// ValidationError reports a non-success response whose body contained a
// structured error message.
type ValidationError struct {
	Status  int
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// classifyError converts a non-success response into the richest error the
// body supports. The fallback chain is a documented contract:
//
//  1. top-level "detail" string
//  2. top-level "message" string
//  3. remaining keys treated as field errors, rendered "field: msg, msg"
//  4. the bare status text
func classifyError(status int, statusText string, body []byte) error {
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil || len(fields) == 0 {
		return &ServerError{Status: status, StatusText: statusText}
	}

	for _, key := range []string{"detail", "message"} {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var msg string
		if err := json.Unmarshal(raw, &msg); err == nil && msg != "" {
			return &ValidationError{Status: status, Message: msg}
		}
		delete(fields, key)
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		if msgs := fieldMessages(fields[key]); len(msgs) > 0 {
			parts = append(parts, key+": "+strings.Join(msgs, ", "))
		}
	}
	if len(parts) > 0 {
		return &ValidationError{Status: status, Message: strings.Join(parts, "; ")}
	}
	return &ServerError{Status: status, StatusText: statusText}
}

// fieldMessages extracts per-field error strings, which arrive either as a
// single string or as a list of strings.
func fieldMessages(raw json.RawMessage) []string {
	var one string
	if err := json.Unmarshal(raw, &one); err == nil {
		if one == "" {
			return nil
		}
		return []string{one}
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		out := many[:0]
		for _, m := range many {
			if m != "" {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
