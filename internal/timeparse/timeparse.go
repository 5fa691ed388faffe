// Package timeparse converts the upstream API's inconsistent date-time
// strings into UTC instants. Parsing is tolerant: malformed input yields
// a nil result, never an error.
package timeparse

import (
	"strings"
	"time"
)

// Layouts observed in live-data payloads. The upstream mixes full RFC3339
// offsets, bare "Z" UTC suffixes, and zone-less local stamps.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Parse converts a timestamp string into a UTC instant.
// An empty string returns (nil, true): absent is not malformed.
// An unparseable string returns (nil, false) so the caller can warn once.
func Parse(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}

	// A trailing "Z" means UTC; time.RFC3339 already accepts it, but the
	// upstream also emits fractional-second variants RFC3339 rejects when
	// the offset is spelled "Z" without a colon form. Normalizing keeps
	// "...Z" and "...+00:00" byte-for-byte equivalent to the parser.
	normalized := s
	if strings.HasSuffix(normalized, "Z") {
		normalized = strings.TrimSuffix(normalized, "Z") + "+00:00"
	}

	for _, candidate := range []string{normalized, s} {
		for _, layout := range layouts {
			if t, err := time.Parse(layout, candidate); err == nil {
				u := t.UTC()
				return &u, true
			}
		}
	}
	return nil, false
}
