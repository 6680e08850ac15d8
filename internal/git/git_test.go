package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/gorewood/contentbot/internal/output"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

// initRepo creates a repository with two commits at fixed dates.
func initRepo(t *testing.T) string {
	t.Helper()
	requireGit(t)
	dir := t.TempDir()

	gitEnv := func(date string, args ...string) {
		t.Helper()
		cmd := exec.CommandContext(context.Background(), "git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Ada", "GIT_AUTHOR_EMAIL=ada@example.com",
			"GIT_COMMITTER_NAME=Ada", "GIT_COMMITTER_EMAIL=ada@example.com",
			"GIT_AUTHOR_DATE="+date, "GIT_COMMITTER_DATE="+date,
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	gitEnv("", "init", "-q")
	gitEnv("", "remote", "add", "origin", "git@github.com:acme/app.git")

	write := func(name string) {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	write("a.txt")
	gitEnv("", "add", ".")
	gitEnv("2026-10-01T10:00:00Z", "commit", "-q", "-m", "feat: old work")
	write("b.txt")
	gitEnv("", "add", ".")
	gitEnv("2026-10-15T10:00:00Z", "commit", "-q", "-m", "feat: new work\n\nWith a body line.")
	return dir
}

func TestRun(t *testing.T) {
	requireGit(t)

	out, err := Run("version")
	if err != nil {
		t.Fatalf("Run(version) error = %v", err)
	}
	if out == "" {
		t.Error("Run(version) returned empty output")
	}

	_, err = Run("invalid-command-that-does-not-exist")
	var exitErr *output.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error should be *output.ExitError, got %T", err)
	}
	if exitErr.Code != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", exitErr.Code, output.ExitSystemError)
	}
}

func TestLogSource_ListCommits(t *testing.T) {
	dir := initRepo(t)
	src := NewLogSource(dir)

	list, err := src.ListCommits(context.Background(), "acme/app", time.Date(2026, 10, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("ListCommits() error = %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("ListCommits() returned %d commits, want 1", len(list))
	}

	c := list[0]
	if c.Message != "feat: new work\n\nWith a body line." {
		t.Errorf("Message = %q", c.Message)
	}
	if c.Author != "Ada" {
		t.Errorf("Author = %q", c.Author)
	}
	if !c.AuthorDate.Equal(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("AuthorDate = %v", c.AuthorDate)
	}
	if c.URL != "https://github.com/acme/app/commit/"+c.SHA || len(c.SHA) != 40 {
		t.Errorf("URL = %q SHA = %q", c.URL, c.SHA)
	}
}

func TestDetectRepo(t *testing.T) {
	dir := initRepo(t)

	repo, err := DetectRepo(context.Background(), dir)
	if err != nil {
		t.Fatalf("DetectRepo() error = %v", err)
	}
	if repo != "acme/app" {
		t.Errorf("DetectRepo() = %q, want acme/app", repo)
	}

	if !IsRepo(context.Background(), dir) {
		t.Error("IsRepo() = false inside a repository")
	}
	if IsRepo(context.Background(), t.TempDir()) {
		t.Error("IsRepo() = true outside a repository")
	}
}

func TestRepoFromRemote(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://github.com/acme/app.git", "acme/app"},
		{"https://github.com/acme/app", "acme/app"},
		{"git@github.com:acme/my.app.git", "acme/my.app"},
		{"ssh://git@github.com/acme/app.git/", "acme/app"},
		{"https://gitlab.com/acme/app.git", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := RepoFromRemote(tt.url); got != tt.want {
			t.Errorf("RepoFromRemote(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseLog(t *testing.T) {
	out := "abc" + fieldSeparator + "Ada" + fieldSeparator + "2026-10-15T12:00:00+02:00" + fieldSeparator +
		"fix: crash\n\nDetails\n" + commitSeparator + "\n" +
		"def" + fieldSeparator + "Bo" + fieldSeparator + "2026-10-14T08:00:00Z" + fieldSeparator +
		"chore: deps" + commitSeparator

	list, err := parseLog(out, "")
	if err != nil {
		t.Fatalf("parseLog() error = %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("parseLog() returned %d commits, want 2", len(list))
	}
	if list[0].Message != "fix: crash\n\nDetails" || list[0].URL != "" {
		t.Errorf("first = %+v", list[0])
	}
	if !list[0].AuthorDate.Equal(time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("AuthorDate = %v", list[0].AuthorDate)
	}
	if list[1].SHA != "def" {
		t.Errorf("second SHA = %q", list[1].SHA)
	}

	if _, err := parseLog("x"+fieldSeparator+"a"+fieldSeparator+"never"+fieldSeparator+"m", ""); err == nil {
		t.Error("parseLog() expected error for invalid date")
	}

	empty, err := parseLog("", "acme/app")
	if err != nil || len(empty) != 0 {
		t.Errorf("parseLog(empty) = %v, %v", empty, err)
	}
}

func TestLogSource_RunnerError(t *testing.T) {
	src := &LogSource{run: func(context.Context, string, ...string) (string, error) {
		return "", errors.New("fatal: not a git repository")
	}}

	_, err := src.ListCommits(context.Background(), "", time.Now())
	if output.GetExitCode(err) != output.ExitSystemError {
		t.Errorf("exit code = %d, want %d", output.GetExitCode(err), output.ExitSystemError)
	}
}
