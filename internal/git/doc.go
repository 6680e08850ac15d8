// Package git reads commit history from a local clone by shelling out to
// the git executable.
//
// LogSource is the offline counterpart of the GitHub commit source: it
// lists commits since a cutoff with git log and, when the repository is
// known, links each one to its page on GitHub.
//
//	src := git.NewLogSource("")
//	list, err := src.ListCommits(ctx, "acme/app", time.Now().AddDate(0, 0, -3))
//
// Failures are returned as *output.ExitError with ExitSystemError, except
// for missing repositories, which are user errors.
package git
