// Package watermark persists the timestamp of the last completed run.
//
// The watermark is read once before the watermark filter and written once
// at the end of every run, including runs that found nothing new, so
// repeated empty runs never reprocess the same window.
package watermark

import (
	"context"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
)

// Store loads and saves the raw watermark text. An empty value means no
// run has completed yet.
type Store interface {
	Load(ctx context.Context) (value string, ok bool, err error)
	Save(ctx context.Context, value string) error
}

// Mark saves now as the new watermark in normalized form.
func Mark(ctx context.Context, store Store, now time.Time) (string, error) {
	value := commits.FormatWatermark(now)
	if err := store.Save(ctx, value); err != nil {
		return "", err
	}
	return value, nil
}

// Describe names where store keeps the watermark, for display.
func Describe(store Store) string {
	switch s := store.(type) {
	case *FileStore:
		return "file " + s.Path()
	case *RedisStore:
		return "redis key " + s.Key()
	default:
		return "custom store"
	}
}
