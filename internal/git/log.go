package git

import (
	"context"
	"strings"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/output"
)

const (
	commitSeparator = "---COMMIT-BOUNDARY---"
	fieldSeparator  = "---FIELD---"
)

// logFormat prints SHA, author name, strict ISO author date and the raw
// message of each commit.
var logFormat = strings.Join([]string{"%H", "%an", "%aI", "%B"}, fieldSeparator) + commitSeparator

// runner executes git in a directory.
type runner func(ctx context.Context, dir string, args ...string) (string, error)

// LogSource lists commits from a local clone.
type LogSource struct {
	dir string
	run runner
}

// NewLogSource reads the clone at dir ("" for the current directory).
func NewLogSource(dir string) *LogSource {
	return &LogSource{dir: dir, run: RunIn}
}

// ListCommits returns commits authored after since on the checked-out
// branch, newest first. When repo is set, each commit links to GitHub.
func (s *LogSource) ListCommits(ctx context.Context, repo string, since time.Time) ([]commits.Commit, error) {
	out, err := s.run(ctx, s.dir, "log",
		"--since="+since.UTC().Format(time.RFC3339),
		"--pretty=format:"+logFormat,
	)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("failed to read git log", err)
	}
	return parseLog(out, repo)
}

// parseLog parses logFormat output.
func parseLog(out, repo string) ([]commits.Commit, error) {
	var list []commits.Commit
	for _, record := range strings.Split(out, commitSeparator) {
		record = strings.TrimSpace(record)
		if record == "" {
			continue
		}

		fields := strings.SplitN(record, fieldSeparator, 4)
		if len(fields) < 4 {
			continue
		}

		sha := strings.TrimSpace(fields[0])
		date, err := commits.ParseTimestamp(strings.TrimSpace(fields[2]))
		if err != nil {
			return nil, output.NewSystemErrorWithCause("commit "+sha+" has an invalid author date", err)
		}

		c := commits.Commit{
			SHA:        sha,
			Author:     strings.TrimSpace(fields[1]),
			AuthorDate: date,
			Message:    strings.TrimRight(fields[3], "\n"),
		}
		if repo != "" {
			c.URL = "https://github.com/" + repo + "/commit/" + sha
		}
		list = append(list, c)
	}
	return list, nil
}
