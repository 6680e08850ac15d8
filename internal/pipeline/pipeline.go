// Package pipeline runs one content bot pass: fetch commits, drop noise and
// already processed commits, sanitize, generate both posts, publish the
// draft and move the watermark.
//
// Every collaborator is injected through Deps so a run can be exercised
// without network, disk or credentials.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/draft"
	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/publish"
	"github.com/gorewood/contentbot/internal/redact"
	"github.com/gorewood/contentbot/internal/watermark"
)

// DefaultDays is the lookback window when none is configured.
const DefaultDays = 3

// CommitSource lists the commits of repo authored at or after since,
// newest first.
type CommitSource interface {
	ListCommits(ctx context.Context, repo string, since time.Time) ([]commits.Commit, error)
}

// Config holds per-run settings.
type Config struct {
	Repo string
	Days int
	// DryRun generates the draft but neither publishes it nor moves the
	// watermark.
	DryRun bool
}

// Deps are the collaborators of a run. Source and Store are required;
// Writer is required unless the run is a dry run.
type Deps struct {
	Source    CommitSource
	Generator *draft.Generator
	Store     watermark.Store
	// Writer is the primary publisher; its failure aborts the run.
	Writer publish.Publisher
	// Extras are best-effort publishers; failures are reported as warnings.
	Extras   []publish.Publisher
	Printer  *output.Printer
	Now      func() time.Time
	Sanitize func(string) string
}

// Pipeline is a configured run.
type Pipeline struct {
	cfg  Config
	deps Deps
}

// New validates cfg and fills in defaults for optional dependencies.
func New(cfg Config, deps Deps) (*Pipeline, error) {
	if cfg.Repo == "" {
		return nil, output.NewUserError("repository is required (owner/name)")
	}
	if cfg.Days == 0 {
		cfg.Days = DefaultDays
	}
	if cfg.Days < 0 {
		return nil, output.NewUserError(fmt.Sprintf("days must be positive, got %d", cfg.Days))
	}
	if deps.Source == nil || deps.Store == nil {
		return nil, errors.New("pipeline: source and store are required")
	}
	if deps.Writer == nil && !cfg.DryRun {
		return nil, errors.New("pipeline: writer is required")
	}

	if deps.Generator == nil {
		deps.Generator = draft.NewGenerator(nil)
	}
	if deps.Printer == nil {
		deps.Printer = output.NewPrinter(io.Discard, false, false)
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Sanitize == nil {
		deps.Sanitize = redact.Sanitize
	}
	return &Pipeline{cfg: cfg, deps: deps}, nil
}

// Publication records one publisher outcome.
type Publication struct {
	Publisher string `json:"publisher"`
	Location  string `json:"location,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Report summarizes a run.
type Report struct {
	Repo           string         `json:"repo"`
	Fetched        int            `json:"fetched"`
	Relevant       int            `json:"relevant"`
	New            int            `json:"new"`
	PrevWatermark  string         `json:"previous_watermark,omitempty"`
	Watermark      string         `json:"watermark,omitempty"`
	Generator      string         `json:"generator,omitempty"`
	Model          string         `json:"model,omitempty"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
	Draft          *publish.Draft `json:"draft,omitempty"`
	Published      []Publication  `json:"published,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
}

// Run executes one pass. The returned report is non-nil whenever err is nil.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	printer := p.deps.Printer
	now := p.deps.Now()
	report := &Report{Repo: p.cfg.Repo, DryRun: p.cfg.DryRun}

	since := now.Add(-time.Duration(p.cfg.Days) * 24 * time.Hour)
	fetched, err := p.deps.Source.ListCommits(ctx, p.cfg.Repo, since)
	if err != nil {
		return nil, fetchError(err)
	}
	report.Fetched = len(fetched)
	printer.Status("📥", "Found %d total commits", len(fetched))

	relevant := commits.FilterByContent(fetched)
	report.Relevant = len(relevant)

	prev, _, err := p.deps.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	report.PrevWatermark = prev

	newCommits, err := commits.FilterSince(relevant, prev)
	if err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid watermark %q; run 'contentbot watermark reset'", prev), err)
	}
	report.New = len(newCommits)
	printer.Status("🆕", "Found %d new commits since last run", len(newCommits))

	if len(newCommits) == 0 {
		printer.Status("✨", "No updates this run")
		if err := p.markRun(ctx, now, report); err != nil {
			return nil, err
		}
		return report, nil
	}

	commits.SanitizeMessages(relevant, p.deps.Sanitize)
	commits.SanitizeMessages(newCommits, p.deps.Sanitize)

	printer.Status("🎨", "Generating content...")
	content := p.generate(ctx, newCommits, relevant, report)
	content = content.Map(p.deps.Sanitize).Bounded()

	d := publish.NewDraft(p.cfg.Repo, now, content, report.Generator, report.Model, newCommits)
	report.Draft = &d

	if p.cfg.DryRun {
		printer.Status("🔍", "Dry run: draft not published, watermark unchanged")
		return report, nil
	}

	if err := p.publish(ctx, d, report); err != nil {
		return nil, err
	}
	if err := p.markRun(ctx, now, report); err != nil {
		return nil, err
	}

	printer.Status("✅", "Content bot completed successfully!")
	return report, nil
}

// generate tries the backed path and falls back to the template.
func (p *Pipeline) generate(ctx context.Context, newCommits, relevant []commits.Commit, report *Report) draft.Content {
	printer := p.deps.Printer
	result := p.deps.Generator.Generate(ctx, newCommits, relevant)

	switch result.Status {
	case draft.StatusSuccess:
		report.Generator = publish.GeneratorAI
		report.Model = result.Model
		printer.Status("🤖", "Generated content with %s", modelLabel(result.Model))
		return result.Content
	case draft.StatusUnavailable:
		printer.Status("📝", "Using template fallback (generation backend not available)")
	default:
		printer.Warn("generation failed: %s", result.Reason)
		printer.Status("📝", "Using template fallback")
	}

	report.Generator = publish.GeneratorTemplate
	report.FallbackReason = result.Reason
	return draft.Fallback(newCommits)
}

func modelLabel(model string) string {
	if model == "" {
		return "the generation backend"
	}
	return model
}

// publish runs the writer, then every extra publisher.
func (p *Pipeline) publish(ctx context.Context, d publish.Draft, report *Report) error {
	printer := p.deps.Printer

	loc, err := p.deps.Writer.Publish(ctx, d)
	if err != nil {
		return err
	}
	report.Published = append(report.Published, Publication{Publisher: p.deps.Writer.Name(), Location: loc})
	printer.Status("💾", "Saved draft to: %s", loc)

	for _, pub := range p.deps.Extras {
		loc, err := pub.Publish(ctx, d)
		if err != nil {
			report.Published = append(report.Published, Publication{Publisher: pub.Name(), Error: err.Error()})
			printer.Warn("failed to publish draft to %s: %v", pub.Name(), err)
			continue
		}
		report.Published = append(report.Published, Publication{Publisher: pub.Name(), Location: loc})
		printer.Status("✅", "Published draft to %s: %s", pub.Name(), loc)
	}
	return nil
}

// markRun moves the watermark unless this is a dry run.
func (p *Pipeline) markRun(ctx context.Context, now time.Time, report *Report) error {
	if p.cfg.DryRun {
		return nil
	}
	value, err := watermark.Mark(ctx, p.deps.Store, now)
	if err != nil {
		return err
	}
	report.Watermark = value
	return nil
}

// fetchError keeps classified source errors and marks the rest as system
// failures.
func fetchError(err error) error {
	var exitErr *output.ExitError
	if errors.As(err, &exitErr) {
		return err
	}
	return output.NewSystemErrorWithCause(fmt.Sprintf("failed to fetch commits: %v", err), err)
}
