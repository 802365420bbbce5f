package record

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CanonicalLayout is the ISO-8601 form timestamps are stored in: UTC with millisecond precision.
const CanonicalLayout = "2006-01-02T15:04:05.000Z07:00"

var ErrInvalidTimestamp = errors.New("invalid timestamp")

// Accepted source layouts. Values without an offset are read as UTC.
//
//nolint:gochecknoglobals
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
	time.RFC1123Z,
	time.RFC1123,
}

func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	for _, layout := range timestampLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(CanonicalLayout)
}

// NormalizeTimestamp parses value and re-serializes it in CanonicalLayout.
func NormalizeTimestamp(value string) (string, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}

	return FormatTimestamp(t), nil
}
