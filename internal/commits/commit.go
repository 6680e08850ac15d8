// Package commits holds the commit record shared by every commit source and
// the two pure filter stages that decide which commits a run writes about.
package commits

import (
	"strings"
	"time"
)

// Commit is a single commit as delivered by a commit source.
// Message is rewritten in place by the sanitizer before any downstream use.
type Commit struct {
	SHA        string    `json:"sha"`
	Message    string    `json:"message"`
	Author     string    `json:"author,omitempty"`
	AuthorDate time.Time `json:"author_date"`
	URL        string    `json:"url"`
}

// Title returns the first line of the message, trimmed.
func (c Commit) Title() string {
	title, _, _ := strings.Cut(c.Message, "\n")
	return strings.TrimSpace(title)
}

// Body returns everything after the first line, trimmed.
func (c Commit) Body() string {
	_, body, ok := strings.Cut(c.Message, "\n")
	if !ok {
		return ""
	}
	return strings.TrimSpace(body)
}

// Day returns the author date as YYYY-MM-DD in UTC.
func (c Commit) Day() string {
	return c.AuthorDate.UTC().Format("2006-01-02")
}

// Key identifies a commit for set membership. Falls back to URL and message
// for sources that do not report a SHA.
func (c Commit) Key() string {
	if c.SHA != "" {
		return c.SHA
	}
	return c.URL + "\x00" + c.Message
}

// SanitizeMessages rewrites every message in place with fn.
func SanitizeMessages(list []Commit, fn func(string) string) {
	for i := range list {
		list[i].Message = fn(list[i].Message)
	}
}

// Exclude returns the commits of all that are not in drop, in original order.
func Exclude(all, drop []Commit) []Commit {
	seen := make(map[string]struct{}, len(drop))
	for _, c := range drop {
		seen[c.Key()] = struct{}{}
	}

	var result []Commit
	for _, c := range all {
		if _, ok := seen[c.Key()]; !ok {
			result = append(result, c)
		}
	}
	return result
}
