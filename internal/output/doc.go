// Package output provides the Printer and exit-coded errors used by every
// contentbot command.
//
// A run reports each pipeline stage as a short status line:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonMode, output.IsTTY(cmd.OutOrStdout())).
//		WithStderr(cmd.ErrOrStderr())
//	printer.Status("📥", "Found %d total commits", len(all))
//	printer.Warn("generation backend failed: %v", err)
//
// With --json, status lines are suppressed and the command writes a single
// JSON document at the end; errors become {"error": "...", "code": N}.
//
// Exit codes:
//
//	output.ExitSuccess     // 0
//	output.ExitUserError   // 1: bad flags, missing repo, unparseable watermark
//	output.ExitSystemError // 2: commit fetch failed, draft write failed
//	output.ExitConflict    // 3: watermark set into the future
package output
