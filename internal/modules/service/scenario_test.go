package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/appforge/clientportal/internal/infra/cache"
	"github.com/appforge/clientportal/internal/infra/github"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/notify"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/glebarez/sqlite"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Project{},
		&model.Quote{},
		&model.ProjectUpdate{},
		&model.ProjectMilestone{},
		&model.Feedback{},
		&model.RepositoryToken{},
	))
	return db
}

type portal struct {
	db       *gorm.DB
	rdb      *redis.Client
	views    *notify.Notifier
	states   *cache.StateStore
	provider *MockProvider
	oauth    *MockOAuth

	projects ProjectService
	admin    AdminService
	repos    RepositoryService
}

func newPortal(t *testing.T) *portal {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := openTestDB(t)
	log := zap.NewNop()
	projectRepo := repo.NewProjectRepo(db)
	views := notify.New(rdb, nil, log)
	states := cache.NewStateStore(rdb, time.Minute)
	provider := &MockProvider{}
	oauth := &MockOAuth{}

	quotes := NewQuoteService(projectRepo, repo.NewQuoteRepo(db), views)
	updates := NewProjectUpdateService(projectRepo, repo.NewProjectUpdateRepo(db), views)
	milestones := NewMilestoneService(projectRepo, repo.NewMilestoneRepo(db), views)

	return &portal{
		db:       db,
		rdb:      rdb,
		views:    views,
		states:   states,
		provider: provider,
		oauth:    oauth,
		projects: NewProjectService(projectRepo, views, nil, time.Minute, log),
		admin: NewAdminService(projectRepo, repo.NewUserRepo(db), quotes, updates, milestones,
			nil, time.Minute, views, log),
		repos: NewRepositoryService(projectRepo, repo.NewRepositoryTokenRepo(db), provider, oauth, states,
			"github.com", views, log),
	}
}

func (p *portal) user(t *testing.T, email string, role model.Role) model.Identity {
	t.Helper()
	u := &model.User{Email: email, PasswordHash: "x", Role: role}
	require.NoError(t, repo.NewUserRepo(p.db).Create(context.Background(), u))
	return u.Identity()
}

func TestScenario_AdminProgressReachesClient(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	client := p.user(t, "client@example.com", model.RoleClient)
	other := p.user(t, "other@example.com", model.RoleClient)
	root := p.user(t, "root@example.com", model.RoleAdmin)

	created, err := p.projects.Create(ctx, client, CreateProjectInput{Name: "Mobile App"})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, created.Status)
	assert.Nil(t, created.LastUpdate)

	before := time.Now()
	status, progress := "In Progress", 40
	_, err = p.admin.UpdateProject(ctx, root, created.ID, AdminUpdateProjectInput{Status: &status, Progress: &progress})
	require.NoError(t, err)

	got, err := p.projects.Get(ctx, client, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, 40, got.Progress)
	require.NotNil(t, got.LastUpdate)
	assert.False(t, got.LastUpdate.Before(before.Add(-time.Second)))

	stale, _, err := p.views.StaleSince(ctx, ViewClientProject(created.ID), before.Add(-time.Millisecond))
	require.NoError(t, err)
	assert.True(t, stale)

	_, err = p.projects.Get(ctx, other, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
}

func TestScenario_ConnectRecordsDefaultBranch(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	client := p.user(t, "client@example.com", model.RoleClient)

	created, err := p.projects.Create(ctx, client, CreateProjectInput{Name: "Site"})
	require.NoError(t, err)
	require.NoError(t, repo.NewRepositoryTokenRepo(p.db).Upsert(ctx, client.UserID, "gho_client", time.Now()))

	p.provider.On("GetRepository", mock.Anything, "gho_client", github.RepoRef{Owner: "acme", Repo: "site"}).
		Return(&github.RepositoryInfo{FullName: "acme/site", DefaultBranch: "main"}, nil)

	_, err = p.repos.Connect(ctx, client, created.ID, "https://github.com/acme/site")
	require.NoError(t, err)

	got, err := p.projects.Get(ctx, client, created.ID)
	require.NoError(t, err)
	assert.True(t, got.RepositoryConnected)
	require.NotNil(t, got.DefaultBranch)
	assert.Equal(t, "main", *got.DefaultBranch)
	require.NotNil(t, got.RepositoryURL)
	assert.Equal(t, "https://github.com/acme/site", *got.RepositoryURL)
}

func TestScenario_BundleWithoutRepository(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	client := p.user(t, "client@example.com", model.RoleClient)

	created, err := p.projects.Create(ctx, client, CreateProjectInput{Name: "Site"})
	require.NoError(t, err)

	_, err = p.repos.FetchBundle(ctx, client, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotConnected)
	assert.Empty(t, p.provider.Calls)
}

func TestScenario_DeniedAuthorizationStoresNothing(t *testing.T) {
	p := newPortal(t)
	ctx := context.Background()
	client := p.user(t, "client@example.com", model.RoleClient)

	var state string
	p.oauth.On("AuthCodeURL", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { state = args.String(0) }).
		Return("https://github.com/login/oauth/authorize")
	p.oauth.On("Exchange", mock.Anything, "denied-code").
		Return("", &apperr.OAuthError{Code: "access_denied", Description: "The user has denied your application access."})

	_, err := p.repos.AuthorizeURL(ctx, client)
	require.NoError(t, err)
	require.NotEmpty(t, state)

	err = p.repos.ExchangeAuthorizationCode(ctx, client, "denied-code", state)
	assert.ErrorIs(t, err, apperr.ErrOAuthExchangeFailed)

	st, err := p.repos.TokenStatus(ctx, client)
	require.NoError(t, err)
	assert.False(t, st.Connected)

	// the state was spent on the failed attempt
	err = p.repos.ExchangeAuthorizationCode(ctx, client, "denied-code", state)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}
