package core

import (
	"errors"
	"time"
)

// timestampLayouts are the accepted ISO 8601 shapes for startTimestamp.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// deriveInterval validates a record's duration and start instant and computes
// the end instant. The end is never supplied by the caller, only derived:
// end = start + hours * 3600000 ms, at millisecond precision.
func deriveInterval(hours float64, startTimestamp string) (time.Time, time.Time, error) {
	if hours <= 0 {
		return time.Time{}, time.Time{}, Validation("Hours must be greater than 0")
	}

	start, err := parseTimestamp(startTimestamp)
	if err != nil {
		return time.Time{}, time.Time{}, Validation("Invalid startTimestamp format. Timestamp needs to be in ISO 8601 format")
	}

	end := start.Add(time.Duration(hours*3600*1000) * time.Millisecond)
	return start, end, nil
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unparsable timestamp")
}
