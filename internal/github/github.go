package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gorewood/contentbot/internal/commits"
	"github.com/gorewood/contentbot/internal/output"
)

// DefaultAPIURL is the public GitHub API.
const DefaultAPIURL = "https://api.github.com"

const (
	perPage = 100
	// defaultMaxPages caps pagination for very busy repositories.
	defaultMaxPages = 10
	maxErrorBody    = 500
)

// HTTPDoer defines the HTTP operations required by Client.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Config configures a Client.
type Config struct {
	Token string
	// APIURL defaults to DefaultAPIURL; set it for GitHub Enterprise.
	APIURL     string
	HTTPClient HTTPDoer
	// MaxPages bounds commit pagination; 0 uses the default of 10.
	MaxPages int
}

// Client provides access to the GitHub REST API.
type Client struct {
	token    string
	apiURL   string
	httpCli  HTTPDoer
	maxPages int
}

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// ValidateRepo checks that repo has the owner/name form.
func ValidateRepo(repo string) error {
	if !repoPattern.MatchString(repo) {
		return output.NewUserError(fmt.Sprintf("invalid repository %q: expected owner/name", repo))
	}
	return nil
}

// NewClient creates a client. A token is required.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, output.NewUserError("TOKEN or GITHUB_TOKEN environment variable not set")
	}

	apiURL := cfg.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	httpCli := cfg.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: 60 * time.Second}
	}

	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	return &Client{
		token:    strings.TrimSpace(cfg.Token),
		apiURL:   strings.TrimRight(apiURL, "/"),
		httpCli:  httpCli,
		maxPages: maxPages,
	}, nil
}

// apiCommit is the subset of GET /repos/{repo}/commits we read.
type apiCommit struct {
	SHA     string `json:"sha"`
	HTMLURL string `json:"html_url"`
	Commit  struct {
		Message string `json:"message"`
		Author  struct {
			Name string `json:"name"`
			Date string `json:"date"`
		} `json:"author"`
	} `json:"commit"`
}

// ListCommits returns commits on the default branch authored after since,
// newest first as GitHub returns them.
func (c *Client) ListCommits(ctx context.Context, repo string, since time.Time) ([]commits.Commit, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("since", since.UTC().Format(time.RFC3339))
	query.Set("per_page", strconv.Itoa(perPage))
	next := fmt.Sprintf("%s/repos/%s/commits?%s", c.apiURL, repo, query.Encode())

	var out []commits.Commit
	for page := 0; next != "" && page < c.maxPages; page++ {
		body, header, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, describe(err, repo)
		}

		var batch []apiCommit
		if err := json.Unmarshal(body, &batch); err != nil {
			return nil, output.NewSystemErrorWithCause("parsing commits response", err)
		}

		for _, ac := range batch {
			commit, err := toCommit(ac)
			if err != nil {
				return nil, err
			}
			out = append(out, commit)
		}

		next = nextLink(header.Get("Link"))
	}

	return out, nil
}

func toCommit(ac apiCommit) (commits.Commit, error) {
	date, err := commits.ParseTimestamp(ac.Commit.Author.Date)
	if err != nil {
		return commits.Commit{}, output.NewSystemErrorWithCause("commit "+ac.SHA+" has an invalid author date", err)
	}
	return commits.Commit{
		SHA:        ac.SHA,
		Message:    ac.Commit.Message,
		Author:     ac.Commit.Author.Name,
		AuthorDate: date,
		URL:        ac.HTMLURL,
	}, nil
}

// linkNext matches the rel="next" entry of a Link header.
var linkNext = regexp.MustCompile(`<([^>]+)>\s*;\s*rel="next"`)

func nextLink(header string) string {
	if m := linkNext.FindStringSubmatch(header); m != nil {
		return m[1]
	}
	return ""
}

// IssueRequest is the body of POST /repos/{repo}/issues.
type IssueRequest struct {
	Title  string   `json:"title"`
	Body   string   `json:"body"`
	Labels []string `json:"labels,omitempty"`
}

// Issue is the part of the created issue we report.
type Issue struct {
	Number  int    `json:"number"`
	HTMLURL string `json:"html_url"`
}

// CreateIssue opens an issue and returns it.
func (c *Client) CreateIssue(ctx context.Context, repo string, issue IssueRequest) (*Issue, error) {
	if err := ValidateRepo(repo); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(issue)
	if err != nil {
		return nil, output.NewSystemErrorWithCause("marshaling issue", err)
	}

	body, _, err := c.do(ctx, http.MethodPost, fmt.Sprintf("%s/repos/%s/issues", c.apiURL, repo), payload)
	if err != nil {
		return nil, describe(err, repo)
	}

	var created Issue
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, output.NewSystemErrorWithCause("parsing issue response", err)
	}
	return &created, nil
}

// statusError is a non-2xx response.
type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("GitHub API error (status %d): %s", e.status, e.body)
}

func (c *Client) do(ctx context.Context, method, target string, payload []byte) ([]byte, http.Header, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := string(body)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, nil, &statusError{status: resp.StatusCode, body: text}
	}

	return body, resp.Header, nil
}

// describe maps transport and status failures onto exit-coded errors.
func describe(err error, repo string) error {
	var se *statusError
	if !errors.As(err, &se) {
		return output.NewSystemErrorWithCause("GitHub request failed: "+err.Error(), err)
	}
	switch se.status {
	case http.StatusNotFound:
		return output.NewUserErrorWithCause("repository "+repo+" not found or not visible to this token", se)
	case http.StatusUnauthorized, http.StatusForbidden:
		return output.NewUserErrorWithCause("GitHub authentication failed: "+se.body, se)
	default:
		return output.NewSystemErrorWithCause(se.Error(), se)
	}
}
