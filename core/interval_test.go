package core

import (
	"testing"
	"time"
)

func TestDeriveInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		hours float64
		start string
		end   string
	}{
		{"whole hours", 8, "2024-01-01T00:00:00Z", "2024-01-01T08:00:00Z"},
		{"fractional hours", 7.5, "2024-01-01T22:00:00Z", "2024-01-02T05:30:00Z"},
		{"sub-hour", 0.25, "2024-06-15T01:00:00Z", "2024-06-15T01:15:00Z"},
		{"with offset", 6, "2024-03-10T23:30:00+05:30", "2024-03-11T05:30:00+05:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, err := deriveInterval(tt.hours, tt.start)
			if err != nil {
				t.Fatalf("deriveInterval error: %v", err)
			}
			wantEnd, err := time.Parse(time.RFC3339, tt.end)
			if err != nil {
				t.Fatalf("bad test fixture: %v", err)
			}
			if !end.Equal(wantEnd) {
				t.Fatalf("end mismatch: got %v want %v", end, wantEnd)
			}
			wantMillis := int64(tt.hours * 3600 * 1000)
			if got := end.Sub(start).Milliseconds(); got != wantMillis {
				t.Fatalf("interval length: got %d ms want %d ms", got, wantMillis)
			}
		})
	}
}

func TestDeriveIntervalRejectsNonPositiveHours(t *testing.T) {
	t.Parallel()

	for _, hours := range []float64{0, -1, -0.5} {
		_, _, err := deriveInterval(hours, "2024-01-01T00:00:00Z")
		app, ok := err.(*AppError)
		if !ok || app.Kind != KindValidation {
			t.Fatalf("hours=%v: expected validation failure, got %v", hours, err)
		}
		if app.Message != "Hours must be greater than 0" {
			t.Fatalf("hours=%v: unexpected message %q", hours, app.Message)
		}
	}
}

func TestDeriveIntervalRejectsBadTimestamps(t *testing.T) {
	t.Parallel()

	for _, start := range []string{"", "yesterday", "01/02/2024", "2024-13-40T99:00:00Z"} {
		_, _, err := deriveInterval(8, start)
		app, ok := err.(*AppError)
		if !ok || app.Kind != KindValidation {
			t.Fatalf("start=%q: expected validation failure, got %v", start, err)
		}
		if app.Message != "Invalid startTimestamp format. Timestamp needs to be in ISO 8601 format" {
			t.Fatalf("start=%q: unexpected message %q", start, app.Message)
		}
	}
}

func TestParseTimestampAcceptsDateOnly(t *testing.T) {
	t.Parallel()

	got, err := parseTimestamp("2024-01-01")
	if err != nil {
		t.Fatalf("parseTimestamp error: %v", err)
	}
	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("got %v want %v", got, want)
	}
}
