package publish

import (
	"context"
	"slices"

	"github.com/gorewood/contentbot/internal/github"
)

// IssueCreator is the part of *github.Client used by IssuePublisher.
type IssueCreator interface {
	CreateIssue(ctx context.Context, repo string, issue github.IssueRequest) (*github.Issue, error)
}

// IssuePublisher opens one GitHub issue per draft in the draft's repo.
type IssuePublisher struct {
	creator IssueCreator
}

// NewIssuePublisher wraps creator.
func NewIssuePublisher(creator IssueCreator) *IssuePublisher {
	return &IssuePublisher{creator: creator}
}

// Name implements Publisher.
func (p *IssuePublisher) Name() string { return "issue" }

// Publish creates the issue and returns its HTML URL.
func (p *IssuePublisher) Publish(ctx context.Context, d Draft) (string, error) {
	issue, err := p.creator.CreateIssue(ctx, d.Repo, github.IssueRequest{
		Title:  d.Title(),
		Body:   d.IssueBody(),
		Labels: slices.Clone(Labels),
	})
	if err != nil {
		return "", err
	}
	return issue.HTMLURL, nil
}
