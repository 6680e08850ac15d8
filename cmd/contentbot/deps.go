package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorewood/contentbot/internal/draft"
	"github.com/gorewood/contentbot/internal/git"
	"github.com/gorewood/contentbot/internal/github"
	"github.com/gorewood/contentbot/internal/llm"
	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/pipeline"
	"github.com/gorewood/contentbot/internal/prompt"
	"github.com/gorewood/contentbot/internal/publish"
	"github.com/gorewood/contentbot/internal/watermark"
)

// closers collects cleanup funcs for connections opened during a command.
type closers []func() error

func (c closers) Close() error {
	var errs []error
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// resolveRepo fills in the repository from the origin remote when unset.
func resolveRepo(ctx context.Context, s *settings) error {
	if s.Repo == "" {
		if repo, err := git.DetectRepo(ctx, ""); err == nil {
			s.Repo = repo
		}
	}
	if s.Repo == "" {
		return output.NewUserError("--repo is required (owner/name) outside a clone with a GitHub origin")
	}
	return github.ValidateRepo(s.Repo)
}

// newGitHubClient builds the API client; it fails only without a token.
func newGitHubClient(s settings) (*github.Client, error) {
	return github.NewClient(github.Config{
		Token:      s.GitHubToken,
		APIURL:     s.GitHubAPI,
		HTTPClient: &http.Client{Timeout: s.Timeout},
	})
}

// buildSource picks the commit source. The GitHub source needs gh.
func buildSource(s settings, gh *github.Client, ghErr error) (pipeline.CommitSource, error) {
	if s.Source == sourceGit {
		return git.NewLogSource(""), nil
	}
	if gh == nil {
		return nil, ghErr
	}
	return gh, nil
}

// openStore returns the Redis store when an address is configured and the
// state file otherwise.
func openStore(ctx context.Context, s settings) (watermark.Store, func() error, error) {
	if s.Redis.Addr == "" {
		return watermark.NewFileStore(s.State), func() error { return nil }, nil
	}
	store, closeFn, err := watermark.NewRedisStore(ctx, watermark.RedisOptions{
		Addr:     s.Redis.Addr,
		Password: s.Redis.Password,
		DB:       s.Redis.DB,
		Key:      s.Redis.Key,
	})
	if err != nil {
		return nil, nil, err
	}
	return store, closeFn, nil
}

// buildGenerator loads the prompt template and the LLM backend. A missing
// API key leaves the generator without a backend so runs use the template
// fallback.
func buildGenerator(s settings, printer *output.Printer) (*draft.Generator, error) {
	tmpl, err := prompt.LoadTemplate(s.Template)
	if err != nil {
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("template %q not found", s.Template), err)
	}
	opts := []draft.Option{draft.WithTemplate(tmpl), draft.WithTimeout(s.Timeout)}

	client, err := llm.New(llm.Config{
		Provider: llm.Provider(s.Provider),
		Model:    s.Model,
		Keys:     s.Keys,
		LocalURL: s.LocalURL,
	})
	if err != nil {
		printer.Warn("%v; drafts will use the template fallback", err)
		return draft.NewGenerator(nil, opts...), nil
	}
	return draft.NewGenerator(client, opts...), nil
}

// buildExtras sets up the best-effort publishers. Setup failures are
// warnings, matching how their publish failures are treated.
func buildExtras(ctx context.Context, s settings, gh *github.Client, ghErr error, printer *output.Printer) ([]publish.Publisher, closers) {
	var extras []publish.Publisher
	var cleanup closers

	if s.Issue {
		if gh != nil {
			extras = append(extras, publish.NewIssuePublisher(gh))
		} else {
			printer.Warn("skipping GitHub issue: %v", ghErr)
		}
	}

	if s.Mongo.URI != "" {
		archive, closeFn, err := publish.NewMongoArchive(ctx, publish.MongoOptions{
			URI:        s.Mongo.URI,
			Database:   s.Mongo.Database,
			Collection: s.Mongo.Collection,
		})
		if err != nil {
			printer.Warn("skipping draft archive: %v", err)
		} else {
			extras = append(extras, archive)
			cleanup = append(cleanup, closeFn)
		}
	}
	return extras, cleanup
}
