package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/draft"
)

// Schema identifies the JSON draft record format.
const Schema = "contentbot.draft/v1"

// Generator names recorded on a draft.
const (
	GeneratorAI       = "ai"
	GeneratorTemplate = "template"
)

// maxSourceCommits caps the commit list in the markdown file.
const maxSourceCommits = 10

// Labels are applied to every draft issue.
var Labels = []string{"content-draft", "social-media"}

// Draft is a sanitized pair of posts plus the commits it was written from.
type Draft struct {
	Schema    string           `json:"schema" bson:"schema"`
	ID        string           `json:"id" bson:"_id"`
	CreatedAt time.Time        `json:"created_at" bson:"created_at"`
	Date      string           `json:"date" bson:"date"`
	Repo      string           `json:"repo" bson:"repo"`
	Generator string           `json:"generator" bson:"generator"`
	Model     string           `json:"model,omitempty" bson:"model,omitempty"`
	Short     string           `json:"short" bson:"short"`
	Long      string           `json:"long" bson:"long"`
	Commits   []commits.Commit `json:"commits" bson:"commits"`
}

// NewDraft assembles a draft. Date is now's local calendar day.
func NewDraft(repo string, now time.Time, content draft.Content, generator, model string, list []commits.Commit) Draft {
	return Draft{
		Schema:    Schema,
		ID:        uuid.NewString(),
		CreatedAt: now.UTC(),
		Date:      now.Format("2006-01-02"),
		Repo:      repo,
		Generator: generator,
		Model:     model,
		Short:     content.Short,
		Long:      content.Long,
		Commits:   list,
	}
}

// Title returns the issue and document title.
func (d Draft) Title() string {
	return "Social Media Draft - " + d.Date
}

// Markdown renders the draft file.
func (d Draft) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", d.Title())
	fmt.Fprintf(&b, "## Twitter/X Version\n%s\n\n", d.Short)
	fmt.Fprintf(&b, "## LinkedIn Version\n%s\n\n", d.Long)
	b.WriteString("---\n\n")
	fmt.Fprintf(&b, "## Source Commits (%d total)\n", len(d.Commits))

	for i, c := range d.Commits {
		if i == maxSourceCommits {
			break
		}
		fmt.Fprintf(&b, "- [%s] %s ([view](%s))\n", c.Day(), c.Title(), c.URL)
	}
	return b.String()
}

// IssueBody renders the body of the draft issue.
func (d Draft) IssueBody() string {
	return fmt.Sprintf("## Twitter/X Version\n%s\n\n## LinkedIn Version\n%s\n\n---\n*Generated from %d commits*",
		d.Short, d.Long, len(d.Commits))
}

// Publisher persists a draft somewhere and reports where.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, d Draft) (location string, err error)
}
