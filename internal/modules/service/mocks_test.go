package service

import (
	"context"
	"mime/multipart"
	"sync"
	"time"

	"github.com/appforge/clientportal/internal/infra/blob"
	"github.com/appforge/clientportal/internal/infra/github"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) GetOwned(ctx context.Context, projectID uuid.UUID, clientID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, projectID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) GetDetail(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectRepo) Update(ctx context.Context, projectID uuid.UUID, fields map[string]any) (*model.Project, error) {
	args := m.Called(ctx, projectID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) Delete(ctx context.Context, projectID uuid.UUID) error {
	args := m.Called(ctx, projectID)
	return args.Error(0)
}

// MockQuoteRepo is a mock implementation of repo.QuoteRepo
type MockQuoteRepo struct {
	mock.Mock
}

func (m *MockQuoteRepo) Create(ctx context.Context, q *model.Quote) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuoteRepo) Get(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error) {
	args := m.Called(ctx, quoteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockQuoteRepo) Update(ctx context.Context, quoteID uuid.UUID, fields map[string]any) (*model.Quote, error) {
	args := m.Called(ctx, quoteID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

// MockProjectUpdateRepo is a mock implementation of repo.ProjectUpdateRepo
type MockProjectUpdateRepo struct {
	mock.Mock
}

func (m *MockProjectUpdateRepo) Create(ctx context.Context, u *model.ProjectUpdate, touchedAt time.Time) error {
	args := m.Called(ctx, u, touchedAt)
	return args.Error(0)
}

// MockMilestoneRepo is a mock implementation of repo.MilestoneRepo
type MockMilestoneRepo struct {
	mock.Mock
}

func (m *MockMilestoneRepo) Create(ctx context.Context, ms *model.ProjectMilestone) error {
	args := m.Called(ctx, ms)
	return args.Error(0)
}

func (m *MockMilestoneRepo) Get(ctx context.Context, milestoneID uuid.UUID) (*model.ProjectMilestone, error) {
	args := m.Called(ctx, milestoneID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMilestone), args.Error(1)
}

func (m *MockMilestoneRepo) Update(ctx context.Context, milestoneID uuid.UUID, fields map[string]any) (*model.ProjectMilestone, error) {
	args := m.Called(ctx, milestoneID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMilestone), args.Error(1)
}

// MockFeedbackRepo is a mock implementation of repo.FeedbackRepo
type MockFeedbackRepo struct {
	mock.Mock
}

func (m *MockFeedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	args := m.Called(ctx, f)
	return args.Error(0)
}

// MockRepositoryTokenRepo is a mock implementation of repo.RepositoryTokenRepo
type MockRepositoryTokenRepo struct {
	mock.Mock
}

func (m *MockRepositoryTokenRepo) Upsert(ctx context.Context, userID uuid.UUID, accessToken string, at time.Time) error {
	args := m.Called(ctx, userID, accessToken, at)
	return args.Error(0)
}

func (m *MockRepositoryTokenRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.RepositoryToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RepositoryToken), args.Error(1)
}

func (m *MockRepositoryTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockUserRepo is a mock implementation of repo.UserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepo) Get(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepo) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepo) UpdateRole(ctx context.Context, userID uuid.UUID, role model.Role) (*model.User, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockAttachmentStore is a mock implementation of AttachmentStore
type MockAttachmentStore struct {
	mock.Mock
}

func (m *MockAttachmentStore) UploadFormFile(ctx context.Context, keyPrefix string, fh *multipart.FileHeader) (*blob.UploadedMeta, error) {
	args := m.Called(ctx, keyPrefix, fh)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.UploadedMeta), args.Error(1)
}

func (m *MockAttachmentStore) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

// MockProvider is a mock implementation of RepositoryProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) GetRepository(ctx context.Context, token string, ref github.RepoRef) (*github.RepositoryInfo, error) {
	args := m.Called(ctx, token, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.RepositoryInfo), args.Error(1)
}

func (m *MockProvider) ListCommits(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.Commit, error) {
	args := m.Called(ctx, token, ref, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Commit), args.Error(1)
}

func (m *MockProvider) ListOpenIssues(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.Issue, error) {
	args := m.Called(ctx, token, ref, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Issue), args.Error(1)
}

func (m *MockProvider) ListOpenPullRequests(ctx context.Context, token string, ref github.RepoRef, limit int) ([]github.PullRequest, error) {
	args := m.Called(ctx, token, ref, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.PullRequest), args.Error(1)
}

func (m *MockProvider) ListBranches(ctx context.Context, token string, ref github.RepoRef) ([]github.Branch, error) {
	args := m.Called(ctx, token, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]github.Branch), args.Error(1)
}

// MockOAuth is a mock implementation of OAuthExchanger
type MockOAuth struct {
	mock.Mock
}

func (m *MockOAuth) AuthCodeURL(state string) string {
	args := m.Called(state)
	return args.String(0)
}

func (m *MockOAuth) Exchange(ctx context.Context, code string) (string, error) {
	args := m.Called(ctx, code)
	return args.String(0), args.Error(1)
}

// MockStateStore is a mock implementation of StateStore
type MockStateStore struct {
	mock.Mock
}

func (m *MockStateStore) Save(ctx context.Context, state string, userID uuid.UUID) error {
	args := m.Called(ctx, state, userID)
	return args.Error(0)
}

func (m *MockStateStore) Consume(ctx context.Context, state string) (uuid.UUID, bool, error) {
	args := m.Called(ctx, state)
	return args.Get(0).(uuid.UUID), args.Bool(1), args.Error(2)
}

// recordingNotifier collects invalidated paths.
type recordingNotifier struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNotifier) Invalidate(ctx context.Context, paths ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, paths...)
}

func (n *recordingNotifier) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

var (
	clientA = model.Identity{UserID: uuid.New(), Email: "a@example.com", Role: model.RoleClient}
	clientB = model.Identity{UserID: uuid.New(), Email: "b@example.com", Role: model.RoleClient}
	admin   = model.Identity{UserID: uuid.New(), Email: "root@example.com", Role: model.RoleAdmin}
	nobody  = model.Identity{}
)

func createTestProject(owner uuid.UUID) *model.Project {
	return &model.Project{
		ID:            uuid.New(),
		ClientID:      owner,
		Name:          "Mobile App",
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
}
