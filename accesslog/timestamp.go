package accesslog

import (
	"fmt"
	"strings"
	"time"
)

// parseTimestamp normalizes a combined-format timestamp token, e.g.
// "10/Oct/2023:13:55:36 -0700". The wall-clock fields are kept exactly as
// written and the UTC offset is attached as a fixed zone; the instant is
// never shifted to UTC.
func parseTimestamp(token string) (time.Time, error) {
	clock, offset, ok := strings.Cut(token, " ")
	if !ok {
		return time.Time{}, &TimestampFormatError{Token: token}
	}

	t, err := time.Parse(timestampLayout, clock)
	if err != nil {
		return time.Time{}, &TimestampFormatError{Token: token, Err: err}
	}

	minutes, ok := parseOffset(offset)
	if !ok {
		return time.Time{}, &TimestampFormatError{Token: token}
	}

	return time.Date(t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, fixedZone(minutes)), nil
}

// parseOffset converts a ±HHMM token into signed minutes east of UTC:
// sign × (hours×60 + minutes).
func parseOffset(token string) (int, bool) {
	if len(token) != 5 || (token[0] != '+' && token[0] != '-') {
		return 0, false
	}
	for i := 1; i < len(token); i++ {
		if token[i] < '0' || token[i] > '9' {
			return 0, false
		}
	}

	hh := int(token[1]-'0')*10 + int(token[2]-'0')
	mm := int(token[3]-'0')*10 + int(token[4]-'0')

	minutes := hh*60 + mm
	if token[0] == '-' {
		minutes = -minutes
	}
	return minutes, true
}

// fixedZone builds a fixed offset zone named after its ±HHMM rendering, so
// that formatting a parsed timestamp round-trips the original offset token.
func fixedZone(minutes int) *time.Location {
	sign, m := "+", minutes
	if m < 0 {
		sign, m = "-", -m
	}
	return time.FixedZone(fmt.Sprintf("%s%02d%02d", sign, m/60, m%60), minutes*60)
}
