package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/contentbot/internal/output"
	"github.com/gorewood/contentbot/internal/redact"
)

// newSanitizeCmd creates the sanitize command.
func newSanitizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sanitize [text]",
		Short: "Redact secrets and company names from text",
		Long: `Run the sanitizer that every commit message and draft passes through.

Long alphanumeric runs, API-key and GitHub-token shapes, and password= or
token= assignments become [REDACTED]. Names ending in Corp become Client and
names ending in Inc become Customer.

Examples:
  contentbot sanitize "token=abc123 for AcmeCorp"
  git log -1 --format=%B | contentbot sanitize`,
		Args: cobra.MaximumNArgs(1),
		RunE: runSanitize,
	}
}

func runSanitize(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	text := ""
	if len(args) > 0 {
		text = args[0]
	} else {
		piped, err := readStdinIfPiped(cmd)
		if err != nil {
			printer.Error(err)
			return err
		}
		text = piped
	}
	if text == "" {
		err := output.NewUserError("no text provided. Pass an argument or pipe via stdin")
		printer.Error(err)
		return err
	}

	clean := redact.Sanitize(text)
	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"text":    clean,
			"changed": clean != text,
		})
	}
	printer.Print("%s\n", clean)
	return nil
}

// readStdinIfPiped reads stdin when it is not a terminal. Non-file readers
// set through cmd.SetIn are always read.
func readStdinIfPiped(cmd *cobra.Command) (string, error) {
	stdin := cmd.InOrStdin()
	if file, ok := stdin.(*os.File); ok {
		stat, err := file.Stat()
		if err != nil {
			return "", nil //nolint:nilerr // stat failure means stdin isn't usable, not an error
		}
		if (stat.Mode() & os.ModeCharDevice) != 0 {
			return "", nil
		}
	}

	content, err := io.ReadAll(stdin)
	if err != nil {
		return "", output.NewSystemErrorWithCause("failed to read stdin", err)
	}
	return strings.TrimSpace(string(content)), nil
}
