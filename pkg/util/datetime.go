package util

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateTimeFormat = "2006-01-02 15:04:05"
	ISO8601Format  = "2006-01-02T15:04:05Z"
	// LocalDateTimeFormat is an ISO-8601 timestamp without zone, as emitted by
	// the ticket service. Fractional seconds are optional.
	LocalDateTimeFormat = "2006-01-02T15:04:05.999999999"
)

var timestampLayouts = []string{
	time.RFC3339Nano,
	LocalDateTimeFormat,
	DateTimeFormat,
}

func TimeToISO8601Str(t time.Time) string {
	return t.UTC().Format(ISO8601Format)
}

// ParseTimestamp accepts RFC 3339 and zone-less ISO-8601 timestamps. Zone-less
// values are read in loc, or UTC when loc is nil.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
