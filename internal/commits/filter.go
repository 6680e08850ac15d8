package commits

import (
	"strings"
	"time"
)

// noisePrefix and noiseSubstring mark commits not worth posting about.
const (
	noisePrefix    = "chore:"
	noiseSubstring = "tests/"
)

// IsNoise reports whether a commit message is a chore or test-only change.
// Matching is case-insensitive.
func IsNoise(message string) bool {
	lower := strings.ToLower(message)
	return strings.HasPrefix(lower, noisePrefix) || strings.Contains(lower, noiseSubstring)
}

// FilterByContent drops noise commits, preserving order.
func FilterByContent(list []Commit) []Commit {
	var result []Commit
	for _, c := range list {
		if IsNoise(c.Message) {
			continue
		}
		result = append(result, c)
	}
	return result
}

// FilterAfter keeps commits authored strictly after cutoff, preserving order.
func FilterAfter(list []Commit, cutoff time.Time) []Commit {
	var result []Commit
	for _, c := range list {
		if c.AuthorDate.After(cutoff) {
			result = append(result, c)
		}
	}
	return result
}

// FilterSince applies the watermark stage. An empty watermark means nothing
// has been processed yet and every commit is returned unchanged.
func FilterSince(list []Commit, watermark string) ([]Commit, error) {
	if strings.TrimSpace(watermark) == "" {
		return list, nil
	}

	cutoff, err := ParseWatermark(watermark)
	if err != nil {
		return nil, err
	}
	return FilterAfter(list, cutoff), nil
}
