// Package github is a minimal GitHub REST client: it lists a repository's
// recent commits and opens issues holding social drafts.
//
// Requests use the v3 JSON media type and "token" authorization, so a
// classic personal access token or a GitHub App installation token both
// work.
package github
