package service

import (
	"context"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	ListProjects(ctx context.Context, id model.Identity) ([]model.Project, error)
	GetProject(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error)
	UpdateProject(ctx context.Context, id model.Identity, projectID uuid.UUID, in AdminUpdateProjectInput) (*model.Project, error)
	DeleteProject(ctx context.Context, id model.Identity, projectID uuid.UUID) error

	CreateQuote(ctx context.Context, id model.Identity, in CreateQuoteInput) (*model.Quote, error)
	CreateUpdate(ctx context.Context, id model.Identity, in CreateUpdateInput) (*model.ProjectUpdate, error)
	CreateMilestone(ctx context.Context, id model.Identity, in CreateMilestoneInput) (*model.ProjectMilestone, error)
	UpdateMilestone(ctx context.Context, id model.Identity, milestoneID uuid.UUID, in UpdateMilestoneInput) (*model.ProjectMilestone, error)

	ListUsers(ctx context.Context, id model.Identity) ([]model.User, error)
	UpdateUserRole(ctx context.Context, id model.Identity, userID uuid.UUID, role string) (*model.User, error)

	Stats(ctx context.Context, id model.Identity) (*AdminStats, error)
}

// AdminUpdateProjectInput leaves a field unchanged when it is nil.
type AdminUpdateProjectInput struct {
	Name                *string
	Description         *string
	Status              *string
	Progress            *int
	PaymentStatus       *string
	StartDate           *time.Time
	EstimatedCompletion *time.Time
}

type AdminStats struct {
	TotalProjects int            `json:"total_projects"`
	ByStatus      map[string]int `json:"by_status"`
	Pending       int            `json:"pending"`
	InProgress    int            `json:"in_progress"`
	Completed     int            `json:"completed"`
	TotalQuoted   float64        `json:"total_quoted"`
	PaidAmount    float64        `json:"paid_amount"`
}

type adminService struct {
	projects   repo.ProjectRepo
	users      repo.UserRepo
	quotes     QuoteService
	updates    ProjectUpdateService
	milestones MilestoneService
	presign    attachmentPresigner
	views      ViewNotifier
}

// NewAdminService reuses the client services for child entities; they already
// let admins past the ownership check.
func NewAdminService(
	projects repo.ProjectRepo,
	users repo.UserRepo,
	quotes QuoteService,
	updates ProjectUpdateService,
	milestones MilestoneService,
	store AttachmentStore,
	presignExpire time.Duration,
	views ViewNotifier,
	log *zap.Logger,
) AdminService {
	return &adminService{
		projects:   projects,
		users:      users,
		quotes:     quotes,
		updates:    updates,
		milestones: milestones,
		presign:    attachmentPresigner{store: store, expire: presignExpire, log: log},
		views:      views,
	}
}

func (s *adminService) ListProjects(ctx context.Context, id model.Identity) ([]model.Project, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.projects.ListAll(ctx)
}

func (s *adminService) GetProject(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	p, err := s.projects.GetDetail(ctx, projectID)
	if err != nil {
		return nil, denyMissing(err)
	}
	s.presign.presign(ctx, p.Feedback)
	return p, nil
}

func (s *adminService) UpdateProject(ctx context.Context, id model.Identity, projectID uuid.UUID, in AdminUpdateProjectInput) (*model.Project, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}

	ts := now()
	fields := map[string]any{"updated_at": ts, "last_update": ts}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("project name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		st, err := model.ParseProjectStatus(*in.Status)
		if err != nil {
			return nil, apperr.Invalid("%v", err)
		}
		fields["status"] = st
	}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return nil, apperr.Invalid("progress must be between 0 and 100")
		}
		fields["progress"] = *in.Progress
	}
	if in.PaymentStatus != nil {
		ps, err := model.ParsePaymentStatus(*in.PaymentStatus)
		if err != nil {
			return nil, apperr.Invalid("%v", err)
		}
		fields["payment_status"] = ps
	}
	if in.StartDate != nil {
		fields["start_date"] = *in.StartDate
	}
	if in.EstimatedCompletion != nil {
		fields["estimated_completion"] = *in.EstimatedCompletion
	}

	p, err := s.projects.Update(ctx, projectID, fields)
	if err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx,
		ViewAdminProject(projectID), ViewAdminProjects, ViewAdmin,
		ViewClientProject(projectID), ViewDashboardProjects, ViewDashboard,
	)
	return p, nil
}

func (s *adminService) DeleteProject(ctx context.Context, id model.Identity, projectID uuid.UUID) error {
	if err := requireAdmin(id); err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, projectID); err != nil {
		return denyMissing(err)
	}

	s.views.Invalidate(ctx, ViewAdminProjects, ViewAdmin, ViewDashboardProjects, ViewDashboard)
	return nil
}

func (s *adminService) CreateQuote(ctx context.Context, id model.Identity, in CreateQuoteInput) (*model.Quote, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.quotes.Create(ctx, id, in)
}

func (s *adminService) CreateUpdate(ctx context.Context, id model.Identity, in CreateUpdateInput) (*model.ProjectUpdate, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.updates.Create(ctx, id, in)
}

func (s *adminService) CreateMilestone(ctx context.Context, id model.Identity, in CreateMilestoneInput) (*model.ProjectMilestone, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.milestones.Create(ctx, id, in)
}

func (s *adminService) UpdateMilestone(ctx context.Context, id model.Identity, milestoneID uuid.UUID, in UpdateMilestoneInput) (*model.ProjectMilestone, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.milestones.Update(ctx, id, milestoneID, in)
}

func (s *adminService) ListUsers(ctx context.Context, id model.Identity) ([]model.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *adminService) UpdateUserRole(ctx context.Context, id model.Identity, userID uuid.UUID, role string) (*model.User, error) {
	if err := requireAdmin(id); err != nil {
		return nil, err
	}
	r, err := model.ParseRole(role)
	if err != nil {
		return nil, apperr.Invalid("%v", err)
	}
	u, err := s.users.UpdateRole(ctx, userID, r)
	if err != nil {
		return nil, denyMissing(err)
	}
	return u, nil
}

func (s *adminService) Stats(ctx context.Context, id model.Identity) (*AdminStats, error) {
	items, err := s.ListProjects(ctx, id)
	if err != nil {
		return nil, err
	}

	out := &AdminStats{TotalProjects: len(items), ByStatus: map[string]int{}}
	for _, p := range items {
		out.ByStatus[string(p.Status)]++

		var quoted float64
		for _, q := range p.Quotes {
			quoted += q.Amount
		}
		out.TotalQuoted += quoted
		if p.PaymentStatus == model.PaymentPaid {
			out.PaidAmount += quoted
		}
	}
	out.Pending = out.ByStatus[string(model.StatusPending)]
	out.InProgress = out.ByStatus[string(model.StatusInProgress)]
	out.Completed = out.ByStatus[string(model.StatusCompleted)]
	return out, nil
}
