package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/pipeline"
	"github.com/gorewood/contentbot/internal/publish"
)

// newRunCmd creates the run command.
func newRunCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate a social media draft from recent commits",
		Long: `Generate a social media draft from recent commits.

Commits newer than the last run are turned into a short (Twitter/X) and a
long (LinkedIn) post. The draft is saved to out/draft_YYYY-MM-DD.md and, when
a GitHub token is available, opened as an issue labeled content-draft.

Without an API key for the selected provider the posts are built from a
deterministic template instead.

Examples:
  contentbot run --repo acme/app                 # Last 3 days, OpenRouter
  contentbot run -r acme/app -d 7 --model haiku  # Last week, Claude Haiku via OpenRouter
  contentbot run --source git --no-issue         # Local clone, no GitHub issue
  contentbot run --dry-run                       # Print the draft, change nothing

Environment variables:
  TOKEN / GITHUB_TOKEN       GitHub API token (required for --source github)
  API / OPENROUTER_API_KEY   OpenRouter API key
  ANTHROPIC_API_KEY          Anthropic API key
  OPENAI_API_KEY             OpenAI API key
  GOOGLE_API_KEY             Google API key
  LOCAL_LLM_URL              Local server URL (default: http://localhost:1234/v1)
  CONTENTBOT_REDIS_ADDR      Keep the watermark in Redis instead of state.json
  CONTENTBOT_MONGO_URI       Archive every draft in MongoDB`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRun(cmd, flags)
		},
	}

	addSourceFlags(cmd, &flags)
	cmd.Flags().StringVarP(&flags.out, "out", "o", publish.DefaultDir, "Directory for draft files")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Print the draft without publishing or moving the watermark")
	cmd.Flags().BoolVar(&flags.noIssue, "no-issue", false, "Do not open a GitHub issue")

	return cmd
}

// runRun executes the run command.
func runRun(cmd *cobra.Command, flags runFlags) error {
	printer := newPrinter(cmd)
	ctx := cmd.Context()

	file, err := loadConfig()
	if err != nil {
		printer.Error(err)
		return err
	}
	s, err := resolveSettings(cmd, flags, file, os.Getenv)
	if err != nil {
		printer.Error(err)
		return err
	}
	if err := resolveRepo(ctx, &s); err != nil {
		printer.Error(err)
		return err
	}

	printer.Status("🤖", "Content Bot starting...")
	printer.Status("📊", "Analyzing %s for commits in the last %d days", s.Repo, s.Days)

	p, cleanup, err := buildPipeline(cmd, s, printer)
	defer func() { _ = cleanup.Close() }()
	if err != nil {
		printer.Error(err)
		return err
	}

	report, err := p.Run(ctx)
	if err != nil {
		printer.Error(err)
		return err
	}
	return printReport(printer, report)
}

// buildPipeline wires every collaborator for s. The returned closers must
// be closed even when err is non-nil.
func buildPipeline(cmd *cobra.Command, s settings, printer *output.Printer) (*pipeline.Pipeline, closers, error) {
	ctx := cmd.Context()
	var cleanup closers

	gh, ghErr := newGitHubClient(s)
	source, err := buildSource(s, gh, ghErr)
	if err != nil {
		return nil, cleanup, err
	}

	store, closeStore, err := openStore(ctx, s)
	if err != nil {
		return nil, cleanup, err
	}
	cleanup = append(cleanup, closeStore)

	generator, err := buildGenerator(s, printer)
	if err != nil {
		return nil, cleanup, err
	}

	deps := pipeline.Deps{
		Source:    source,
		Generator: generator,
		Store:     store,
		Printer:   printer,
	}
	if !s.DryRun {
		extras, closeExtras := buildExtras(ctx, s, gh, ghErr, printer)
		cleanup = append(cleanup, closeExtras...)
		deps.Writer = publish.NewFileWriter(s.Out)
		deps.Extras = extras
	}

	p, err := pipeline.New(pipeline.Config{Repo: s.Repo, Days: s.Days, DryRun: s.DryRun}, deps)
	if err != nil {
		return nil, cleanup, err
	}
	return p, cleanup, nil
}

// printReport writes the JSON summary, or shows the posts of a dry run.
func printReport(printer *output.Printer, report *pipeline.Report) error {
	if printer.IsJSON() {
		return printer.WriteJSON(report)
	}
	if report.DryRun && report.Draft != nil {
		printer.Box("Twitter/X Version", report.Draft.Short)
		printer.Box("LinkedIn Version", report.Draft.Long)
	}
	return nil
}
