package git

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"

	"github.com/gorewood/contentbot/internal/output"
)

// Run executes a git command in the current directory and returns its
// trimmed stdout.
func Run(args ...string) (string, error) {
	return RunContext(context.Background(), args...)
}

// RunContext executes a git command with the given context.
func RunContext(ctx context.Context, args ...string) (string, error) {
	return RunIn(ctx, "", args...)
}

// RunIn executes a git command in dir ("" for the current directory).
// Returns an *output.ExitError on failure.
func RunIn(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return "", output.NewSystemError("git not found: ensure git is installed and in PATH")
		}

		errMsg := strings.TrimSpace(stderr.String())
		if errMsg == "" {
			errMsg = err.Error()
		}
		return "", output.NewSystemErrorWithCause("git command failed: "+errMsg, err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// IsRepo reports whether dir is inside a git work tree.
func IsRepo(ctx context.Context, dir string) bool {
	_, err := RunIn(ctx, dir, "rev-parse", "--git-dir")
	return err == nil
}

// RemoteURL returns the fetch URL of the origin remote.
func RemoteURL(ctx context.Context, dir string) (string, error) {
	url, err := RunIn(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return "", output.NewUserErrorWithCause("no origin remote configured", err)
	}
	return url, nil
}

// githubRemote matches https and ssh GitHub remotes.
var githubRemote = regexp.MustCompile(`github\.com[:/]([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+?)(?:\.git)?/?$`)

// RepoFromRemote extracts "owner/name" from a GitHub remote URL. It
// returns "" for non-GitHub remotes.
func RepoFromRemote(url string) string {
	m := githubRemote.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return ""
	}
	return m[1] + "/" + m[2]
}

// DetectRepo returns the GitHub "owner/name" of the clone at dir.
func DetectRepo(ctx context.Context, dir string) (string, error) {
	url, err := RemoteURL(ctx, dir)
	if err != nil {
		return "", err
	}
	repo := RepoFromRemote(url)
	if repo == "" {
		return "", output.NewUserError("origin remote is not a GitHub repository: " + url)
	}
	return repo, nil
}
