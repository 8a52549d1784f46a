package common

import (
	"fmt"
	"strings"
	"time"
)

// Timestamp layouts accepted from legacy exports. The prior data set mixed
// RFC 3339 with bare ISO timestamps lacking a zone suffix.
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseUTC parses a timestamp string and normalizes it to UTC.
// A trailing "Z" or "+00:00" zone suffix is accepted; naive timestamps
// are assumed to already be UTC.
func ParseUTC(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// ParseUTCOrZero parses a timestamp and returns the zero time on failure
func ParseUTCOrZero(s string) time.Time {
	t, err := ParseUTC(s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// NowUTC returns the current time in UTC truncated to second precision,
// matching the granularity of stored timestamps.
func NowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
