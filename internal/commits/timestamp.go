package commits

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTimestamp is returned when no supported layout accepts a value.
var ErrInvalidTimestamp = errors.New("invalid timestamp")

// WatermarkLayout is the normalized form written by FormatWatermark.
const WatermarkLayout = "2006-01-02T15:04:05.000000Z07:00"

// zonedLayouts accept a trailing Z or an explicit offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04Z07:00",
}

// naiveLayouts carry no zone; values are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// FormatWatermark renders t in the normalized UTC form, e.g.
// 2026-10-16T08:30:00.000000Z.
func FormatWatermark(t time.Time) string {
	return t.UTC().Format(WatermarkLayout)
}

// ParseWatermark parses a stored watermark into a UTC instant.
//
// Three encodings are accepted for compatibility with older state files:
// a trailing Z, an explicit offset, or a naive wall-clock value which is
// taken to be UTC. A zoned value that fails to parse is retried as naive
// with its zone suffix removed; only text no layout accepts is an error.
func ParseWatermark(value string) (time.Time, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing watermark: %w", err)
	}
	return t, nil
}

// ParseTimestamp parses a commit or watermark timestamp into UTC using the
// same rules as ParseWatermark.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidTimestamp)
	}

	if isZoned(value) {
		if t, ok := parseWith(zonedLayouts, value); ok {
			return t.UTC(), nil
		}
		// Retry as naive; the zone suffix is discarded.
		if t, ok := parseWith(naiveLayouts, stripZone(value)); ok {
			return t.UTC(), nil
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
	}

	if t, ok := parseWith(naiveLayouts, value); ok {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimestamp, value)
}

// isZoned reports whether value ends in Z or carries an offset after its
// time part.
func isZoned(value string) bool {
	if strings.HasSuffix(value, "Z") || strings.HasSuffix(value, "z") {
		return true
	}
	_, clock, ok := splitDateTime(value)
	return ok && strings.ContainsAny(clock, "+-")
}

// stripZone removes a trailing Z or offset from the time part.
func stripZone(value string) string {
	date, clock, ok := splitDateTime(value)
	if !ok {
		return strings.TrimRight(value, "Zz")
	}
	if idx := strings.IndexAny(clock, "Zz+-"); idx >= 0 {
		clock = clock[:idx]
	}
	return date + "T" + clock
}

// splitDateTime splits at the T or space separating date and time.
func splitDateTime(value string) (date, clock string, ok bool) {
	if idx := strings.IndexAny(value, "T "); idx > 0 {
		return value[:idx], value[idx+1:], true
	}
	return value, "", false
}

func parseWith(layouts []string, value string) (time.Time, bool) {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
