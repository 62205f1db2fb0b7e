package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/infra/github"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/appforge/clientportal/internal/pkg/utils"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// bundleListLimit caps commits, issues and pull requests in a bundle.
const bundleListLimit = 10

// RepositoryProvider reads repository data with a user's bearer token.
type RepositoryProvider interface {
	GetRepository(ctx context.Context, token string, ref github.RepoRef) (*github.RepositoryInfo, error)
	ListCommits(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.Commit, error)
	ListOpenIssues(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.Issue, error)
	ListOpenPullRequests(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.PullRequest, error)
	ListBranches(ctx context.Context, token string, ref github.RepoRef) ([]github.Branch, error)
}

type OAuthExchanger interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// StateStore binds one-time OAuth state values to users.
type StateStore interface {
	Save(ctx context.Context, state string, userID uuid.UUID) error
	Consume(ctx context.Context, state string) (uuid.UUID, bool, error)
}

type RepositoryBundle struct {
	Repository   *github.RepositoryInfo `json:"repository"`
	Commits      []github.Commit        `json:"commits"`
	Issues       []github.Issue         `json:"issues"`
	PullRequests []github.PullRequest   `json:"pull_requests"`
	Branches     []github.Branch        `json:"branches"`
}

type TokenStatus struct {
	Connected bool       `json:"connected"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type RepositoryService interface {
	Connect(ctx context.Context, id model.Identity, projectID uuid.UUID, repoURL string) (*model.Project, error)
	Disconnect(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error)
	FetchBundle(ctx context.Context, id model.Identity, projectID uuid.UUID) (*RepositoryBundle, error)

	AuthorizeURL(ctx context.Context, id model.Identity) (string, error)
	ExchangeAuthorizationCode(ctx context.Context, id model.Identity, code, state string) error
	TokenStatus(ctx context.Context, id model.Identity) (*TokenStatus, error)
	RevokeToken(ctx context.Context, id model.Identity) error
}

type repositoryService struct {
	projects repo.ProjectRepo
	tokens   repo.RepositoryTokenRepo
	provider RepositoryProvider
	oauth    OAuthExchanger
	states   StateStore
	webHost  string
	views    ViewNotifier
	log      *zap.Logger
}

func NewRepositoryService(
	projects repo.ProjectRepo,
	tokens repo.RepositoryTokenRepo,
	provider RepositoryProvider,
	oauth OAuthExchanger,
	states StateStore,
	webHost string,
	views ViewNotifier,
	log *zap.Logger,
) RepositoryService {
	return &repositoryService{
		projects: projects,
		tokens:   tokens,
		provider: provider,
		oauth:    oauth,
		states:   states,
		webHost:  webHost,
		views:    views,
		log:      log,
	}
}

func (s *repositoryService) token(ctx context.Context, userID uuid.UUID) (string, error) {
	t, err := s.tokens.GetByUser(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", apperr.ErrTokenMissing
	}
	if err != nil {
		return "", err
	}
	return t.AccessToken, nil
}

// Connect verifies the repository with the provider before anything is
// written, so a failed call leaves the project untouched.
func (s *repositoryService) Connect(ctx context.Context, id model.Identity, projectID uuid.UUID, repoURL string) (*model.Project, error) {
	if _, err := authorizeProject(ctx, s.projects, id, projectID); err != nil {
		return nil, err
	}
	tok, err := s.token(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	repoURL = strings.TrimSpace(repoURL)
	ref, err := github.ParseRepositoryURL(repoURL, s.webHost)
	if err != nil {
		return nil, err
	}

	info, err := s.provider.GetRepository(ctx, tok, ref)
	if err != nil {
		return nil, apperr.Provider(err)
	}

	p, err := s.projects.Update(ctx, projectID, map[string]any{
		"repository_url":       repoURL,
		"repository_connected": true,
		"default_branch":       info.DefaultBranch,
		"updated_at":           now(),
	})
	if err != nil {
		return nil, denyMissing(err)
	}

	s.log.Sugar().Infow("repository connected", "project_id", projectID, "repo", ref.String())
	s.views.Invalidate(ctx, append(projectViews(projectID), ViewDashboardProjects)...)
	return p, nil
}

// Disconnect keeps repository_url so reconnecting can prefill it.
func (s *repositoryService) Disconnect(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	if _, err := authorizeProject(ctx, s.projects, id, projectID); err != nil {
		return nil, err
	}

	p, err := s.projects.Update(ctx, projectID, map[string]any{
		"repository_connected": false,
		"updated_at":           now(),
	})
	if err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx, append(projectViews(projectID), ViewDashboardProjects)...)
	return p, nil
}

// FetchBundle issues the five provider reads concurrently. The first failure
// cancels the rest and no partial bundle is returned.
func (s *repositoryService) FetchBundle(ctx context.Context, id model.Identity, projectID uuid.UUID) (*RepositoryBundle, error) {
	p, err := authorizeProject(ctx, s.projects, id, projectID)
	if err != nil {
		return nil, err
	}
	if !p.RepositoryConnected || p.RepositoryURL == nil {
		return nil, apperr.ErrNotConnected
	}
	tok, err := s.token(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	ref, err := github.ParseRepositoryURL(*p.RepositoryURL, s.webHost)
	if err != nil {
		return nil, err
	}

	var b RepositoryBundle
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		b.Repository, err = s.provider.GetRepository(gctx, tok, ref)
		return err
	})
	g.Go(func() (err error) {
		b.Commits, err = s.provider.ListCommits(gctx, tok, ref, bundleListLimit)
		return err
	})
	g.Go(func() (err error) {
		b.Issues, err = s.provider.ListOpenIssues(gctx, tok, ref, bundleListLimit)
		return err
	})
	g.Go(func() (err error) {
		b.PullRequests, err = s.provider.ListOpenPullRequests(gctx, tok, ref, bundleListLimit)
		return err
	})
	g.Go(func() (err error) {
		b.Branches, err = s.provider.ListBranches(gctx, tok, ref)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperr.Provider(err)
	}
	return &b, nil
}

func (s *repositoryService) AuthorizeURL(ctx context.Context, id model.Identity) (string, error) {
	if err := requireIdentity(id); err != nil {
		return "", err
	}
	state, err := utils.GenerateOAuthState()
	if err != nil {
		return "", err
	}
	if err := s.states.Save(ctx, state, id.UserID); err != nil {
		return "", err
	}
	return s.oauth.AuthCodeURL(state), nil
}

// ExchangeAuthorizationCode stores nothing unless the state matches the
// caller and the provider returns a token.
func (s *repositoryService) ExchangeAuthorizationCode(ctx context.Context, id model.Identity, code, state string) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if code == "" {
		return apperr.Invalid("authorization code is required")
	}
	if state == "" {
		return apperr.ErrInvalidState
	}
	owner, ok, err := s.states.Consume(ctx, state)
	if err != nil {
		return err
	}
	if !ok || owner != id.UserID {
		return apperr.ErrInvalidState
	}

	tok, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return err
	}
	if err := s.tokens.Upsert(ctx, id.UserID, tok, now()); err != nil {
		return err
	}

	s.log.Sugar().Infow("repository token stored", "user_id", id.UserID)
	s.views.Invalidate(ctx, ViewSettings, ViewDashboardProjects)
	return nil
}

func (s *repositoryService) TokenStatus(ctx context.Context, id model.Identity) (*TokenStatus, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	t, err := s.tokens.GetByUser(ctx, id.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &TokenStatus{Connected: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &TokenStatus{Connected: true, UpdatedAt: &t.UpdatedAt}, nil
}

func (s *repositoryService) RevokeToken(ctx context.Context, id model.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if err := s.tokens.DeleteByUser(ctx, id.UserID); err != nil {
		return err
	}
	s.views.Invalidate(ctx, ViewSettings, ViewDashboardProjects)
	return nil
}
