// Package github manages the daily journal issue on a GitHub
// repository: one issue per day, titled with the date, collecting
// comments as journal entries.
package github

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/fyrsmithlabs/notesd/internal/config"
)

// issuePageSize is large enough that today's issue always lands on the
// first page (the API returns newest first).
const issuePageSize = 100

// Issue is the subset of issue data the journal tools use.
type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	State  string `json:"state"`
	URL    string `json:"url"`
}

// Comment is a posted issue comment.
type Comment struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
	URL  string `json:"url"`
}

// Client talks to the GitHub Issues API.
type Client struct {
	gh     *gh.Client
	label  string
	logger *zap.Logger
	retry  RetryConfig
	now    func() time.Time
}

// NewClient creates an authenticated GitHub client from configuration.
func NewClient(cfg config.GitHubConfig, logger *zap.Logger) (*Client, error) {
	if !cfg.Token.IsSet() {
		return nil, errors.New("github token not set")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token.Value()})
	tc := oauth2.NewClient(context.Background(), ts)
	if timeout := cfg.RequestTimeout.Duration(); timeout > 0 {
		tc.Timeout = timeout
	}

	client := gh.NewClient(tc)
	if cfg.APIBaseURL != "" && cfg.APIBaseURL != "https://api.github.com" {
		base, err := url.Parse(strings.TrimRight(cfg.APIBaseURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parse api base url: %w", err)
		}
		client.BaseURL = base
	}

	label := cfg.DailyLabel
	if label == "" {
		label = "daily"
	}

	retry := RetryConfig{}
	retry.ApplyDefaults()

	return &Client{
		gh:     client,
		label:  label,
		logger: logger,
		retry:  retry,
		now:    time.Now,
	}, nil
}

// TodayTitle returns the title of today's journal issue, for example
// "2026-01-06 (Tue) Daily Issue".
func (c *Client) TodayTitle() string {
	return c.now().Format("2006-01-02 (Mon)") + " Daily Issue"
}

// FindIssueByTitle returns the issue with exactly the given title, open
// or closed, or nil when no such issue exists.
func (c *Client) FindIssueByTitle(ctx context.Context, owner, repo, title string) (*Issue, error) {
	opts := &gh.IssueListByRepoOptions{
		State:       "all",
		ListOptions: gh.ListOptions{PerPage: issuePageSize},
	}

	var issues []*gh.Issue
	_, err := c.withRetry(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		issues, resp, err = c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}

	for _, issue := range issues {
		if issue.GetTitle() == title {
			return toIssue(issue), nil
		}
	}
	return nil, nil
}

// CreateIssue opens a new issue carrying the configured journal label.
func (c *Client) CreateIssue(ctx context.Context, owner, repo, title, body string) (*Issue, error) {
	req := &gh.IssueRequest{
		Title:  gh.String(title),
		Labels: &[]string{c.label},
	}
	if body != "" {
		req.Body = gh.String(body)
	}

	var created *gh.Issue
	_, err := c.withRetry(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		created, resp, err = c.gh.Issues.Create(ctx, owner, repo, req)
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create issue: %w", err)
	}

	c.logger.Info("created issue",
		zap.String("repo", owner+"/"+repo),
		zap.Int("number", created.GetNumber()),
		zap.String("title", created.GetTitle()))

	return toIssue(created), nil
}

// GetOrCreateTodayIssue returns today's journal issue, creating it when
// it does not exist yet. The second result reports whether the issue
// was created by this call.
func (c *Client) GetOrCreateTodayIssue(ctx context.Context, owner, repo string) (*Issue, bool, error) {
	title := c.TodayTitle()

	existing, err := c.FindIssueByTitle(ctx, owner, repo, title)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	created, err := c.CreateIssue(ctx, owner, repo, title, "")
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// AddComment posts a comment to an issue.
func (c *Client) AddComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	var created *gh.IssueComment
	_, err := c.withRetry(ctx, func() (*gh.Response, error) {
		var resp *gh.Response
		var err error
		created, resp, err = c.gh.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{
			Body: gh.String(body),
		})
		return resp, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return toComment(created), nil
}

// AddDailyComment appends a journal entry to today's issue, creating
// the issue first when needed.
func (c *Client) AddDailyComment(ctx context.Context, owner, repo, body string) (*Issue, *Comment, error) {
	issue, _, err := c.GetOrCreateTodayIssue(ctx, owner, repo)
	if err != nil {
		return nil, nil, err
	}

	comment, err := c.AddComment(ctx, owner, repo, issue.Number, body)
	if err != nil {
		return nil, nil, err
	}

	c.logger.Info("added daily comment",
		zap.String("repo", owner+"/"+repo),
		zap.Int("issue", issue.Number),
		zap.Int64("comment", comment.ID))

	return issue, comment, nil
}

func toIssue(issue *gh.Issue) *Issue {
	return &Issue{
		Number: issue.GetNumber(),
		Title:  issue.GetTitle(),
		State:  issue.GetState(),
		URL:    issue.GetHTMLURL(),
	}
}

func toComment(comment *gh.IssueComment) *Comment {
	return &Comment{
		ID:   comment.GetID(),
		Body: comment.GetBody(),
		URL:  comment.GetHTMLURL(),
	}
}
