package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/appforge/clientportal/internal/middleware"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/service"
)

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	mock.Mock
}

func (m *MockProjectService) List(ctx context.Context, id model.Identity) ([]model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectService) Get(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Create(ctx context.Context, id model.Identity, in service.CreateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Update(ctx context.Context, id model.Identity, projectID uuid.UUID, in service.UpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, id, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectService) Delete(ctx context.Context, id model.Identity, projectID uuid.UUID) error {
	args := m.Called(ctx, id, projectID)
	return args.Error(0)
}

func (m *MockProjectService) Summary(ctx context.Context, id model.Identity) (*service.ProjectSummary, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProjectSummary), args.Error(1)
}

// MockFeedbackService is a mock implementation of FeedbackService
type MockFeedbackService struct {
	mock.Mock
}

func (m *MockFeedbackService) Create(ctx context.Context, id model.Identity, in service.CreateFeedbackInput) (*model.Feedback, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Feedback), args.Error(1)
}

// MockRepositoryService is a mock implementation of RepositoryService
type MockRepositoryService struct {
	mock.Mock
}

func (m *MockRepositoryService) Connect(ctx context.Context, id model.Identity, projectID uuid.UUID, repoURL string) (*model.Project, error) {
	args := m.Called(ctx, id, projectID, repoURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockRepositoryService) Disconnect(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockRepositoryService) FetchBundle(ctx context.Context, id model.Identity, projectID uuid.UUID) (*service.RepositoryBundle, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RepositoryBundle), args.Error(1)
}

func (m *MockRepositoryService) AuthorizeURL(ctx context.Context, id model.Identity) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockRepositoryService) ExchangeAuthorizationCode(ctx context.Context, id model.Identity, code, state string) error {
	args := m.Called(ctx, id, code, state)
	return args.Error(0)
}

func (m *MockRepositoryService) TokenStatus(ctx context.Context, id model.Identity) (*service.TokenStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TokenStatus), args.Error(1)
}

func (m *MockRepositoryService) RevokeToken(ctx context.Context, id model.Identity) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockAdminService is a mock implementation of AdminService
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListProjects(ctx context.Context, id model.Identity) ([]model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockAdminService) GetProject(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockAdminService) UpdateProject(ctx context.Context, id model.Identity, projectID uuid.UUID, in service.AdminUpdateProjectInput) (*model.Project, error) {
	args := m.Called(ctx, id, projectID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockAdminService) DeleteProject(ctx context.Context, id model.Identity, projectID uuid.UUID) error {
	args := m.Called(ctx, id, projectID)
	return args.Error(0)
}

func (m *MockAdminService) CreateQuote(ctx context.Context, id model.Identity, in service.CreateQuoteInput) (*model.Quote, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Quote), args.Error(1)
}

func (m *MockAdminService) CreateUpdate(ctx context.Context, id model.Identity, in service.CreateUpdateInput) (*model.ProjectUpdate, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectUpdate), args.Error(1)
}

func (m *MockAdminService) CreateMilestone(ctx context.Context, id model.Identity, in service.CreateMilestoneInput) (*model.ProjectMilestone, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMilestone), args.Error(1)
}

func (m *MockAdminService) UpdateMilestone(ctx context.Context, id model.Identity, milestoneID uuid.UUID, in service.UpdateMilestoneInput) (*model.ProjectMilestone, error) {
	args := m.Called(ctx, id, milestoneID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ProjectMilestone), args.Error(1)
}

func (m *MockAdminService) ListUsers(ctx context.Context, id model.Identity) ([]model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockAdminService) UpdateUserRole(ctx context.Context, id model.Identity, userID uuid.UUID, role string) (*model.User, error) {
	args := m.Called(ctx, id, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAdminService) Stats(ctx context.Context, id model.Identity) (*service.AdminStats, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AdminStats), args.Error(1)
}

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(ctx context.Context, in service.SignUpInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) SignIn(ctx context.Context, email, password string) (*service.SignInOutput, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SignInOutput), args.Error(1)
}

func (m *MockAuthService) Resolve(ctx context.Context, token string) (model.Identity, error) {
	args := m.Called(ctx, token)
	return args.Get(0).(model.Identity), args.Error(1)
}

// MockStaleChecker is a mock implementation of StaleChecker
type MockStaleChecker struct {
	mock.Mock
}

func (m *MockStaleChecker) StaleSince(ctx context.Context, path string, since time.Time) (bool, time.Time, error) {
	args := m.Called(ctx, path, since)
	return args.Bool(0), args.Get(1).(time.Time), args.Error(2)
}

var (
	testClient = model.Identity{UserID: uuid.New(), Email: "client@example.com", Role: model.RoleClient}
	testAdmin  = model.Identity{UserID: uuid.New(), Email: "admin@example.com", Role: model.RoleAdmin}
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as wraps h so it runs with id already resolved.
func as(id model.Identity, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.IdentityKey, id)
		h(c)
	}
}

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
