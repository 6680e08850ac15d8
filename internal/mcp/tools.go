package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/pipeline"
	"github.com/gorewood/contentbot/internal/redact"
	"github.com/gorewood/contentbot/internal/watermark"
)

// CommitSummary is a simplified commit for output.
type CommitSummary struct {
	SHA   string `json:"sha"   jsonschema:"full commit SHA"`
	Short string `json:"short" jsonschema:"short SHA (7 chars)"`
	Title string `json:"title" jsonschema:"sanitized commit title"`
	Date  string `json:"date"  jsonschema:"author date as YYYY-MM-DD"`
	URL   string `json:"url"   jsonschema:"commit URL"`
}

// --- Preview tool ---

// PreviewInput is the input for the preview_draft tool.
type PreviewInput struct {
	Repo            string `json:"repo,omitempty"             jsonschema:"repository as owner/name (defaults to the configured repo)"`
	Days            int    `json:"days,omitempty"             jsonschema:"lookback window in days (default 3)"`
	IgnoreWatermark bool   `json:"ignore_watermark,omitempty" jsonschema:"treat every commit in the window as new"`
}

// PreviewOutput is the output for the preview_draft tool.
type PreviewOutput struct {
	Repo           string          `json:"repo"                      jsonschema:"repository the draft was built for"`
	Fetched        int             `json:"fetched"                   jsonschema:"commits returned by the source"`
	New            int             `json:"new"                       jsonschema:"commits newer than the watermark"`
	Generator      string          `json:"generator,omitempty"       jsonschema:"ai or template"`
	Model          string          `json:"model,omitempty"           jsonschema:"model that wrote the posts"`
	FallbackReason string          `json:"fallback_reason,omitempty" jsonschema:"why the template fallback was used"`
	Short          string          `json:"short,omitempty"           jsonschema:"Twitter/X version"`
	Long           string          `json:"long,omitempty"            jsonschema:"LinkedIn version"`
	Markdown       string          `json:"markdown,omitempty"        jsonschema:"the draft file as it would be written"`
	Commits        []CommitSummary `json:"commits,omitempty"         jsonschema:"commits the draft covers"`
}

func handlePreview(deps Deps) mcp.ToolHandlerFor[PreviewInput, PreviewOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input PreviewInput) (*mcp.CallToolResult, PreviewOutput, error) {
		repo := input.Repo
		if repo == "" {
			repo = deps.Repo
		}
		days := input.Days
		if days == 0 {
			days = deps.Days
		}

		store := deps.Store
		if input.IgnoreWatermark || store == nil {
			store = noWatermark{}
		}

		p, err := pipeline.New(pipeline.Config{Repo: repo, Days: days, DryRun: true}, pipeline.Deps{
			Source:    deps.Source,
			Store:     store,
			Generator: deps.Generator,
			Now:       deps.Now,
		})
		if err != nil {
			return nil, PreviewOutput{}, err
		}

		report, err := p.Run(ctx)
		if err != nil {
			return nil, PreviewOutput{}, fmt.Errorf("building preview: %w", err)
		}

		out := PreviewOutput{
			Repo:           report.Repo,
			Fetched:        report.Fetched,
			New:            report.New,
			Generator:      report.Generator,
			Model:          report.Model,
			FallbackReason: report.FallbackReason,
		}
		if report.Draft != nil {
			out.Short = report.Draft.Short
			out.Long = report.Draft.Long
			out.Markdown = report.Draft.Markdown()
			out.Commits = toCommitSummaries(report.Draft.Commits)
		}
		return nil, out, nil
	}
}

// --- Sanitize tool ---

// SanitizeInput is the input for the sanitize_text tool.
type SanitizeInput struct {
	Text string `json:"text" jsonschema:"text to sanitize"`
}

// SanitizeOutput is the output for the sanitize_text tool.
type SanitizeOutput struct {
	Text    string `json:"text"    jsonschema:"sanitized text"`
	Changed bool   `json:"changed" jsonschema:"whether anything was redacted or replaced"`
}

func handleSanitize() mcp.ToolHandlerFor[SanitizeInput, SanitizeOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input SanitizeInput) (*mcp.CallToolResult, SanitizeOutput, error) {
		clean := redact.Sanitize(input.Text)
		return nil, SanitizeOutput{Text: clean, Changed: clean != input.Text}, nil
	}
}

// --- Watermark tool ---

// WatermarkInput is the input for the watermark_status tool (no parameters needed).
type WatermarkInput struct{}

// WatermarkOutput is the output for the watermark_status tool.
type WatermarkOutput struct {
	Set    bool   `json:"set"              jsonschema:"whether a run has completed"`
	Raw    string `json:"raw,omitempty"    jsonschema:"stored value"`
	UTC    string `json:"utc,omitempty"    jsonschema:"stored value normalized to RFC3339 UTC"`
	Age    string `json:"age,omitempty"    jsonschema:"time since the last run"`
	Source string `json:"source,omitempty" jsonschema:"where the watermark is stored"`
}

func handleWatermark(deps Deps) mcp.ToolHandlerFor[WatermarkInput, WatermarkOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ WatermarkInput) (*mcp.CallToolResult, WatermarkOutput, error) {
		if deps.Store == nil {
			return nil, WatermarkOutput{}, errors.New("no watermark store configured")
		}

		out := WatermarkOutput{Source: watermark.Describe(deps.Store)}
		raw, ok, err := deps.Store.Load(ctx)
		if err != nil {
			return nil, WatermarkOutput{}, fmt.Errorf("loading watermark: %w", err)
		}
		if !ok {
			return nil, out, nil
		}

		out.Set = true
		out.Raw = raw
		at, err := commits.ParseWatermark(raw)
		if err != nil {
			return nil, WatermarkOutput{}, err
		}
		out.UTC = at.Format(time.RFC3339)
		out.Age = deps.Now().Sub(at).Round(time.Second).String()
		return nil, out, nil
	}
}
