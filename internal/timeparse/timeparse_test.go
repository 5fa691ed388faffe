package timeparse

import (
	"testing"
	"time"
)

func TestParse_ZSuffixEqualsExplicitUTCOffset(t *testing.T) {
	t.Parallel()

	withZ, okZ := Parse("2025-05-22T14:30:00Z")
	withOffset, okOffset := Parse("2025-05-22T14:30:00+00:00")

	if !okZ || !okOffset {
		t.Fatalf("expected both forms to parse, got okZ=%v okOffset=%v", okZ, okOffset)
	}
	if withZ == nil || withOffset == nil {
		t.Fatalf("expected non-nil instants")
	}
	if !withZ.Equal(*withOffset) {
		t.Fatalf("Z-suffix and +00:00 must be equivalent: %v vs %v", withZ, withOffset)
	}
}

func TestParse_AcceptedLayouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{
			name:  "rfc3339 with offset",
			input: "2025-05-22T10:00:00+02:00",
			want:  time.Date(2025, 5, 22, 8, 0, 0, 0, time.UTC),
		},
		{
			name:  "zone-less datetime",
			input: "2025-05-22T10:00:00",
			want:  time.Date(2025, 5, 22, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "space separated",
			input: "2025-05-22 10:00:00",
			want:  time.Date(2025, 5, 22, 10, 0, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			input: "2025-05-22",
			want:  time.Date(2025, 5, 22, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse(tt.input)
			if !ok || got == nil {
				t.Fatalf("Parse(%q) failed, ok=%v", tt.input, ok)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_EmptyIsAbsentNotMalformed(t *testing.T) {
	t.Parallel()

	got, ok := Parse("")
	if !ok {
		t.Fatalf("empty input must not count as malformed")
	}
	if got != nil {
		t.Fatalf("expected nil instant for empty input, got %v", got)
	}

	got, ok = Parse("   ")
	if !ok || got != nil {
		t.Fatalf("whitespace-only input must behave like empty, got %v ok=%v", got, ok)
	}
}

func TestParse_MalformedReturnsNilAndFalse(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"not-a-date", "2025-13-45T99:99:99Z", "tomorrow"} {
		got, ok := Parse(input)
		if ok {
			t.Fatalf("Parse(%q) unexpectedly ok", input)
		}
		if got != nil {
			t.Fatalf("Parse(%q) expected nil instant, got %v", input, got)
		}
	}
}

func TestParse_ResultIsUTC(t *testing.T) {
	t.Parallel()

	got, ok := Parse("2025-05-22T10:00:00+02:00")
	if !ok || got == nil {
		t.Fatalf("parse failed")
	}
	if got.Location() != time.UTC {
		t.Fatalf("expected UTC location, got %v", got.Location())
	}
}
