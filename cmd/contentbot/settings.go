package main

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/contentbot/internal/config"
	"github.com/gorewood/contentbot/internal/llm"
	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/pipeline"
	"github.com/gorewood/contentbot/internal/prompt"
	"github.com/gorewood/contentbot/internal/publish"
	"github.com/gorewood/contentbot/internal/watermark"
)

// Commit sources accepted by --source.
const (
	sourceGitHub = "github"
	sourceGit    = "git"
)

const defaultTimeout = 120 * time.Second

// Environment variables read by the CLI. API keys are listed in llm.
const (
	envGitHubToken   = "TOKEN"
	envGitHubToken2  = "GITHUB_TOKEN"
	envLocalLLMURL   = "LOCAL_LLM_URL"
	envRedisAddr     = "CONTENTBOT_REDIS_ADDR"
	envMongoURI      = "CONTENTBOT_MONGO_URI"
	envGitHubAPIURL  = "GITHUB_API_URL"
	envRedisPassword = "CONTENTBOT_REDIS_PASSWORD"
)

// runFlags holds the flag values shared by run and serve.
type runFlags struct {
	repo     string
	days     int
	source   string
	provider string
	model    string
	template string
	out      string
	state    string
	timeout  int
	dryRun   bool
	noIssue  bool
}

// addSourceFlags registers the flags that select commits and generation.
func addSourceFlags(cmd *cobra.Command, flags *runFlags) {
	cmd.Flags().StringVarP(&flags.repo, "repo", "r", "", "GitHub repository (owner/name); detected from origin if omitted")
	cmd.Flags().IntVarP(&flags.days, "days", "d", pipeline.DefaultDays, "Number of days to look back for commits")
	cmd.Flags().StringVar(&flags.source, "source", sourceGitHub, "Commit source: github or git (local clone)")
	cmd.Flags().StringVarP(&flags.provider, "provider", "p", "", "LLM provider ("+strings.Join(llm.SupportedProviders(), ", ")+") - inferred if omitted")
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "Model name or alias (default "+llm.DefaultModel+")")
	cmd.Flags().StringVar(&flags.template, "template", prompt.DefaultName, "Prompt template name")
	cmd.Flags().StringVar(&flags.state, "state", watermark.DefaultStateFile, "Watermark state file")
	cmd.Flags().IntVar(&flags.timeout, "timeout", int(defaultTimeout/time.Second), "Per-request timeout in seconds")
}

// settings is the fully resolved configuration of a run.
type settings struct {
	Repo        string
	Days        int
	Source      string
	Provider    string
	Model       string
	Template    string
	Out         string
	State       string
	Timeout     time.Duration
	Issue       bool
	DryRun      bool
	GitHubToken string
	GitHubAPI   string
	Keys        llm.Keys
	LocalURL    string
	Redis       config.RedisSection
	Mongo       config.MongoSection
}

// resolveSettings applies flags, then environment, then the config file,
// then defaults. Only flags the user actually set override the file.
func resolveSettings(cmd *cobra.Command, flags runFlags, file config.File, getenv func(string) string) (settings, error) {
	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}

	s := settings{
		Repo:     pick(changed("repo"), flags.repo, file.Repo, ""),
		Source:   pick(changed("source"), flags.source, file.Source, sourceGitHub),
		Provider: pick(changed("provider"), flags.provider, file.Provider, ""),
		Model:    pick(changed("model"), flags.model, file.Model, ""),
		Template: pick(changed("template"), flags.template, file.Template, prompt.DefaultName),
		Out:      pick(changed("out"), flags.out, file.Out, publish.DefaultDir),
		State:    pick(changed("state"), flags.state, file.State, watermark.DefaultStateFile),
		DryRun:   flags.dryRun,
		Redis:    file.Redis,
		Mongo:    file.Mongo,
	}

	s.Days = pipeline.DefaultDays
	if changed("days") {
		s.Days = flags.days
	} else if file.Days != 0 {
		s.Days = file.Days
	}
	if s.Days <= 0 {
		return settings{}, output.NewUserError(fmt.Sprintf("days must be positive, got %d", s.Days))
	}

	s.Timeout = defaultTimeout
	if changed("timeout") {
		s.Timeout = time.Duration(flags.timeout) * time.Second
	} else if file.Timeout != 0 {
		s.Timeout = file.Timeout
	}
	if s.Timeout <= 0 {
		return settings{}, output.NewUserError(fmt.Sprintf("timeout must be positive, got %s", s.Timeout))
	}

	s.Source = strings.ToLower(s.Source)
	if s.Source != sourceGitHub && s.Source != sourceGit {
		return settings{}, output.NewUserError(fmt.Sprintf("unknown source %q: use github or git", s.Source))
	}
	if s.Provider != "" && !slices.Contains(llm.SupportedProviders(), strings.ToLower(s.Provider)) {
		return settings{}, output.NewUserError(fmt.Sprintf("unsupported provider %q: use one of %s",
			s.Provider, strings.Join(llm.SupportedProviders(), ", ")))
	}

	s.Issue = !flags.noIssue && (file.Issue == nil || *file.Issue)

	s.GitHubToken = firstEnv(getenv, envGitHubToken, envGitHubToken2)
	s.GitHubAPI = firstEnv(getenv, envGitHubAPIURL)
	s.Keys = llm.KeysFromEnv(getenv)
	s.LocalURL = firstEnv(getenv, envLocalLLMURL)
	if v := firstEnv(getenv, envRedisAddr); v != "" {
		s.Redis.Addr = v
	}
	if v := firstEnv(getenv, envRedisPassword); v != "" {
		s.Redis.Password = v
	}
	if v := firstEnv(getenv, envMongoURI); v != "" {
		s.Mongo.URI = v
	}
	return s, nil
}

// pick returns the flag value when set, else the file value, else def.
func pick(flagSet bool, flagValue, fileValue, def string) string {
	if flagSet {
		return flagValue
	}
	if fileValue != "" {
		return fileValue
	}
	return def
}

func firstEnv(getenv func(string) string, names ...string) string {
	for _, name := range names {
		if v := strings.TrimSpace(getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// loadConfig reads the layered config files as a user error on failure.
func loadConfig() (config.File, error) {
	file, err := config.Load()
	if err != nil {
		return config.File{}, output.NewUserErrorWithCause(err.Error(), err)
	}
	return file, nil
}
