package main

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
)

// durationRegex matches relative values like "24h", "7d", "2w".
var durationRegex = regexp.MustCompile(`^(\d+)([hdw])$`)

// parseWatermarkValue parses a `watermark set` argument relative to now.
// Accepts:
//   - Durations: "24h", "7d", "2w" (that long before now)
//   - Timestamps: anything a stored watermark may hold, e.g.
//     "2026-10-15T08:00:00Z", "2026-10-15T10:00:00+02:00", "2026-10-15"
func parseWatermarkValue(value string, now time.Time) (time.Time, error) {
	if matches := durationRegex.FindStringSubmatch(value); len(matches) == 3 {
		return parseDuration(matches[1], matches[2], now)
	}

	t, err := commits.ParseTimestamp(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid watermark %q; use a duration (24h, 7d, 2w) or a timestamp (2026-10-15T08:00:00Z): %w", value, err)
	}
	return t, nil
}

// parseDuration converts a number and unit into an instant before now.
func parseDuration(numStr, unit string, now time.Time) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration number: %s", numStr)
	}

	switch unit {
	case "h":
		return now.Add(-time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, -num), nil
	case "w":
		return now.AddDate(0, 0, -num*7), nil
	default:
		return time.Time{}, fmt.Errorf("invalid duration unit: %s", unit)
	}
}
