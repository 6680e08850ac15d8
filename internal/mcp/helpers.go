package mcp

import (
	"context"
	"errors"

	"github.com/gorewood/contentbot/internal/commits"
)

const shortSHALen = 7

func toCommitSummaries(list []commits.Commit) []CommitSummary {
	result := make([]CommitSummary, 0, len(list))
	for _, c := range list {
		short := c.SHA
		if len(short) > shortSHALen {
			short = short[:shortSHALen]
		}
		result = append(result, CommitSummary{
			SHA:   c.SHA,
			Short: short,
			Title: c.Title(),
			Date:  c.Day(),
			URL:   c.URL,
		})
	}
	return result
}

// noWatermark reports no previous run so a preview covers the whole window.
type noWatermark struct{}

func (noWatermark) Load(context.Context) (string, bool, error) { return "", false, nil }

func (noWatermark) Save(context.Context, string) error {
	return errors.New("watermark is read-only in previews")
}
