package main

import (
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	botmcp "github.com/gorewood/contentbot/internal/mcp"
	"github.com/gorewood/contentbot/internal/output"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run contentbot as a Model Context Protocol (MCP) server over stdio.

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "contentbot": {
        "command": "contentbot",
        "args": ["serve", "--repo", "acme/app"]
      }
    }
  }

Available tools: preview_draft, sanitize_text, watermark_status.
Previews never publish and never move the watermark.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, flags)
		},
	}
	addSourceFlags(cmd, &flags)

	return cmd
}

func runServe(cmd *cobra.Command, flags runFlags) error {
	// stdout carries the protocol; diagnostics go to stderr only.
	printer := output.NewPrinter(cmd.ErrOrStderr(), false, false)
	ctx := cmd.Context()

	file, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := resolveSettings(cmd, flags, file, os.Getenv)
	if err != nil {
		return err
	}
	s.DryRun = true
	// A missing repo is allowed; preview requests can name one.
	_ = resolveRepo(ctx, &s)

	gh, ghErr := newGitHubClient(s)
	source, err := buildSource(s, gh, ghErr)
	if err != nil {
		return err
	}
	store, closeStore, err := openStore(ctx, s)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	generator, err := buildGenerator(s, printer)
	if err != nil {
		return err
	}

	server := botmcp.NewServer(buildVersion(), botmcp.Deps{
		Source:    source,
		Store:     store,
		Generator: generator,
		Repo:      s.Repo,
		Days:      s.Days,
	})
	return server.Run(ctx, &mcp.StdioTransport{})
}
