package draft

import (
	"strings"
	"unicode/utf8"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/prompt"
)

const (
	// maxOlderContext is how many older commits are shown as background.
	maxOlderContext = 3
	// maxBodyPreview is how much of a new commit's body reaches the prompt.
	maxBodyPreview = 100
)

// OlderContext returns up to three commits from all that are not in
// newCommits, in their original order.
func OlderContext(newCommits, all []commits.Commit) []commits.Commit {
	older := commits.Exclude(all, newCommits)
	if len(older) > maxOlderContext {
		older = older[:maxOlderContext]
	}
	return older
}

// CommitsText renders the commit section of the prompt. New commits are
// listed with a body preview under a "focus" header; older commits follow
// with titles only.
func CommitsText(newCommits, older []commits.Commit) string {
	newLines := make([]string, 0, len(newCommits))
	for _, c := range newCommits {
		newLines = append(newLines, newCommitLine(c))
	}
	olderLines := make([]string, 0, len(older))
	for _, c := range older {
		olderLines = append(olderLines, "["+c.Day()+"] "+c.Title())
	}

	if len(newLines) == 0 {
		return strings.Join(olderLines, "\n")
	}

	text := "NEW COMMITS (focus on these):\n" + strings.Join(newLines, "\n")
	if len(olderLines) > 0 {
		text += "\n\nOLDER COMMITS (brief context only):\n" + strings.Join(olderLines, "\n")
	}
	return text
}

func newCommitLine(c commits.Commit) string {
	line := "[" + c.Day() + "] " + c.Title()
	body := c.Body()
	if body == "" {
		return line
	}
	if utf8.RuneCountInString(body) > maxBodyPreview {
		return line + " - " + truncate(body, maxBodyPreview) + "..."
	}
	return line + " - " + body
}

// BuildPrompt renders tmpl, or the built-in template when tmpl is nil, for
// the given new commits and content-filtered commits.
func BuildPrompt(tmpl *prompt.Template, newCommits, allFiltered []commits.Commit) string {
	if tmpl == nil {
		tmpl = prompt.Default()
	}
	older := OlderContext(newCommits, allFiltered)
	return tmpl.Render(map[string]string{
		"commits": CommitsText(newCommits, older),
	})
}
