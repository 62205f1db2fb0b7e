// Package github talks to the GitHub REST API and OAuth endpoints on behalf of
// a portal user.
package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/pkg/metrics"
	gh "github.com/google/go-github/v66/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const branchPageSize = 100

// Client performs repository reads with a caller-supplied bearer token. Every
// call is bounded by the configured timeout.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
	log        *zap.Logger
}

func NewClient(cfg *config.Config, log *zap.Logger) (*Client, error) {
	timeout := time.Duration(cfg.GitHub.RequestTimeoutSec) * time.Second
	return newClient(cfg.GitHub.APIBaseURL, timeout, &http.Client{}, log)
}

func newClient(apiBaseURL string, timeout time.Duration, hc *http.Client, log *zap.Logger) (*Client, error) {
	if !strings.HasSuffix(apiBaseURL, "/") {
		apiBaseURL += "/"
	}
	u, err := url.Parse(apiBaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse github api base url: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: u, httpClient: hc, timeout: timeout, log: log}, nil
}

func (c *Client) api(ctx context.Context, token string) *gh.Client {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	cl := gh.NewClient(hc)
	cl.BaseURL = c.baseURL
	return cl
}

// call runs fn under the per-call timeout and records its latency.
func (c *Client) call(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.RecordProviderCall(name, err, time.Since(start))
	if err != nil {
		c.log.Sugar().Debugw("github call failed", "call", name, "err", err)
		return fmt.Errorf("github %s: %w", name, err)
	}
	return nil
}

func (c *Client) GetRepository(ctx context.Context, token string, ref RepoRef) (*RepositoryInfo, error) {
	var out *RepositoryInfo
	err := c.call(ctx, "get_repository", func(ctx context.Context) error {
		r, _, err := c.api(ctx, token).Repositories.Get(ctx, ref.Owner, ref.Repo)
		if err != nil {
			return err
		}
		out = &RepositoryInfo{
			Name:          r.GetName(),
			FullName:      r.GetFullName(),
			Description:   r.GetDescription(),
			HTMLURL:       r.GetHTMLURL(),
			DefaultBranch: r.GetDefaultBranch(),
			Private:       r.GetPrivate(),
			Language:      r.GetLanguage(),
			Stars:         r.GetStargazersCount(),
			Forks:         r.GetForksCount(),
			OpenIssues:    r.GetOpenIssuesCount(),
			UpdatedAt:     r.GetUpdatedAt().Time,
		}
		return nil
	})
	return out, err
}

func (c *Client) ListCommits(ctx context.Context, token string, ref RepoRef, limit int) ([]Commit, error) {
	var out []Commit
	err := c.call(ctx, "list_commits", func(ctx context.Context) error {
		items, _, err := c.api(ctx, token).Repositories.ListCommits(ctx, ref.Owner, ref.Repo, &gh.CommitsListOptions{
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		if err != nil {
			return err
		}
		out = make([]Commit, 0, len(items))
		for _, it := range items {
			author := it.GetCommit().GetAuthor()
			out = append(out, Commit{
				SHA:     it.GetSHA(),
				Message: it.GetCommit().GetMessage(),
				Author:  author.GetName(),
				Date:    author.GetDate().Time,
				HTMLURL: it.GetHTMLURL(),
			})
		}
		return nil
	})
	return out, err
}

// ListOpenIssues returns open issues only. The issues endpoint also lists pull
// requests, which are dropped here.
func (c *Client) ListOpenIssues(ctx context.Context, token string, ref RepoRef, limit int) ([]Issue, error) {
	var out []Issue
	err := c.call(ctx, "list_issues", func(ctx context.Context) error {
		items, _, err := c.api(ctx, token).Issues.ListByRepo(ctx, ref.Owner, ref.Repo, &gh.IssueListByRepoOptions{
			State:       "open",
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		if err != nil {
			return err
		}
		out = make([]Issue, 0, len(items))
		for _, it := range items {
			if it.IsPullRequest() {
				continue
			}
			out = append(out, Issue{
				Number:    it.GetNumber(),
				Title:     it.GetTitle(),
				State:     it.GetState(),
				Author:    it.GetUser().GetLogin(),
				HTMLURL:   it.GetHTMLURL(),
				CreatedAt: it.GetCreatedAt().Time,
			})
		}
		return nil
	})
	return out, err
}

func (c *Client) ListOpenPullRequests(ctx context.Context, token string, ref RepoRef, limit int) ([]PullRequest, error) {
	var out []PullRequest
	err := c.call(ctx, "list_pulls", func(ctx context.Context) error {
		items, _, err := c.api(ctx, token).PullRequests.List(ctx, ref.Owner, ref.Repo, &gh.PullRequestListOptions{
			State:       "open",
			ListOptions: gh.ListOptions{PerPage: limit},
		})
		if err != nil {
			return err
		}
		out = make([]PullRequest, 0, len(items))
		for _, it := range items {
			out = append(out, PullRequest{
				Number:    it.GetNumber(),
				Title:     it.GetTitle(),
				State:     it.GetState(),
				Author:    it.GetUser().GetLogin(),
				Head:      it.GetHead().GetRef(),
				Base:      it.GetBase().GetRef(),
				Draft:     it.GetDraft(),
				HTMLURL:   it.GetHTMLURL(),
				CreatedAt: it.GetCreatedAt().Time,
			})
		}
		return nil
	})
	return out, err
}

// ListBranches follows pagination until every branch is read.
func (c *Client) ListBranches(ctx context.Context, token string, ref RepoRef) ([]Branch, error) {
	var out []Branch
	err := c.call(ctx, "list_branches", func(ctx context.Context) error {
		api := c.api(ctx, token)
		opt := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: branchPageSize}}
		for {
			items, resp, err := api.Repositories.ListBranches(ctx, ref.Owner, ref.Repo, opt)
			if err != nil {
				return err
			}
			for _, it := range items {
				out = append(out, Branch{
					Name:      it.GetName(),
					SHA:       it.GetCommit().GetSHA(),
					Protected: it.GetProtected(),
				})
			}
			if resp == nil || resp.NextPage == 0 {
				return nil
			}
			opt.Page = resp.NextPage
		}
	})
	return out, err
}
