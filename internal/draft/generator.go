package draft

import (
	"context"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/llm"
	"github.com/gorewood/contentbot/internal/prompt"
)

// Request parameters sent with every draft prompt.
const (
	MaxTokens   = 600
	Temperature = 0.8
)

// Completer is the generation backend. *llm.Client satisfies it.
type Completer interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Generator runs the backed generation path.
type Generator struct {
	backend  Completer
	template *prompt.Template
	timeout  time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithTemplate replaces the built-in prompt template.
func WithTemplate(tmpl *prompt.Template) Option {
	return func(g *Generator) { g.template = tmpl }
}

// WithTimeout bounds each backend call.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// NewGenerator returns a Generator. A nil backend is allowed and makes
// every Generate call report StatusUnavailable.
func NewGenerator(backend Completer, opts ...Option) *Generator {
	g := &Generator{backend: backend}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Available reports whether a backend is configured.
func (g *Generator) Available() bool {
	return g != nil && g.backend != nil
}

// Prompt renders the prompt Generate would send.
func (g *Generator) Prompt(newCommits, allFiltered []commits.Commit) string {
	var tmpl *prompt.Template
	if g != nil {
		tmpl = g.template
	}
	return BuildPrompt(tmpl, newCommits, allFiltered)
}

// Generate asks the backend for both posts. It never returns an error:
// a missing backend, a failed call, or a reply without two usable fields
// are reported through Result.Status.
func (g *Generator) Generate(ctx context.Context, newCommits, allFiltered []commits.Commit) Result {
	if !g.Available() {
		return Result{Status: StatusUnavailable, Reason: "no generation backend configured"}
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.backend.Complete(ctx, llm.Request{
		Prompt:      g.Prompt(newCommits, allFiltered),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	})
	if err != nil {
		return Result{Status: StatusFailed, Reason: err.Error()}
	}
	if resp == nil {
		return Result{Status: StatusFailed, Reason: "empty response from backend"}
	}

	content := ParseResponse(resp.Content)
	if content.Empty() {
		return Result{
			Status:  StatusFailed,
			Content: content,
			Model:   resp.Model,
			Reason:  "response did not contain both posts",
		}
	}

	return Result{Status: StatusSuccess, Content: content, Model: resp.Model}
}
