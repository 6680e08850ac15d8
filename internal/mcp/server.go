// Package mcp provides a Model Context Protocol server for contentbot.
// It exposes draft previews, the sanitizer and the watermark as MCP tools.
package mcp

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/contentbot/internal/draft"
	"github.com/gorewood/contentbot/internal/pipeline"
	"github.com/gorewood/contentbot/internal/watermark"
)

// Deps are the collaborators shared by the tools.
type Deps struct {
	Source    pipeline.CommitSource
	Store     watermark.Store
	Generator *draft.Generator
	// Repo and Days are used when a preview request leaves them empty.
	Repo string
	Days int
	Now  func() time.Time
}

// NewServer creates an MCP server with all contentbot tools registered.
func NewServer(version string, deps Deps) *mcp.Server {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "contentbot",
		Version: version,
	}, nil)
	registerTools(server, deps)
	return server
}

func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for tools that touch nothing.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// previewAnnotations marks a read-only tool that calls external services.
func previewAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

func registerTools(server *mcp.Server, deps Deps) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "preview_draft",
		Description: "Generate the social draft for recent commits without publishing it or moving the watermark. Returns both post variants and the source commits.",
		Annotations: previewAnnotations(),
	}, handlePreview(deps))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "sanitize_text",
		Description: "Redact secret-like tokens and anonymize company names in a piece of text.",
		Annotations: readOnlyAnnotations(),
	}, handleSanitize())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "watermark_status",
		Description: "Show the timestamp of the last completed run. Commits authored after it count as new.",
		Annotations: readOnlyAnnotations(),
	}, handleWatermark(deps))
}
