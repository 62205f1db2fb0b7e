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

type ProjectService interface {
	List(ctx context.Context, id model.Identity) ([]model.Project, error)
	Get(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error)
	Create(ctx context.Context, id model.Identity, in CreateProjectInput) (*model.Project, error)
	Update(ctx context.Context, id model.Identity, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id model.Identity, projectID uuid.UUID) error
	Summary(ctx context.Context, id model.Identity) (*ProjectSummary, error)
}

type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput is what a client may change on their own project.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

type ProjectSummary struct {
	Total         int `json:"total"`
	InProgress    int `json:"in_progress"`
	PendingReview int `json:"pending_review"`
	Completed     int `json:"completed"`
}

type projectService struct {
	r       repo.ProjectRepo
	views   ViewNotifier
	presign attachmentPresigner
	log     *zap.Logger
}

func NewProjectService(r repo.ProjectRepo, views ViewNotifier, store AttachmentStore, presignExpire time.Duration, log *zap.Logger) ProjectService {
	return &projectService{
		r:       r,
		views:   views,
		presign: attachmentPresigner{store: store, expire: presignExpire, log: log},
		log:     log,
	}
}

func (s *projectService) List(ctx context.Context, id model.Identity) ([]model.Project, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	return s.r.ListByClient(ctx, id.UserID)
}

func (s *projectService) Get(ctx context.Context, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	p, err := s.r.GetDetail(ctx, projectID)
	if err != nil {
		return nil, denyMissing(err)
	}
	if !p.OwnedBy(id) {
		return nil, apperr.ErrNotFoundOrDenied
	}
	s.presign.presign(ctx, p.Feedback)
	return p, nil
}

func (s *projectService) Create(ctx context.Context, id model.Identity, in CreateProjectInput) (*model.Project, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("project name is required")
	}

	p := &model.Project{
		ClientID:      id.UserID,
		Name:          name,
		Description:   strings.TrimSpace(in.Description),
		Status:        model.StatusPending,
		Progress:      0,
		PaymentStatus: model.PaymentUnpaid,
	}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, err
	}

	s.views.Invalidate(ctx, ViewDashboard, ViewDashboardProjects, ViewAdminProjects)
	return p, nil
}

func (s *projectService) Update(ctx context.Context, id model.Identity, projectID uuid.UUID, in UpdateProjectInput) (*model.Project, error) {
	if _, err := authorizeProject(ctx, s.r, id, projectID); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": now()}
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

	p, err := s.r.Update(ctx, projectID, fields)
	if err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx, ViewClientProject(projectID), ViewDashboardProjects, ViewDashboard)
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id model.Identity, projectID uuid.UUID) error {
	if _, err := authorizeProject(ctx, s.r, id, projectID); err != nil {
		return err
	}
	if err := s.r.Delete(ctx, projectID); err != nil {
		return denyMissing(err)
	}

	s.views.Invalidate(ctx, ViewDashboard, ViewDashboardProjects, ViewAdminProjects, ViewAdmin)
	return nil
}

func (s *projectService) Summary(ctx context.Context, id model.Identity) (*ProjectSummary, error) {
	items, err := s.List(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &ProjectSummary{Total: len(items)}
	for _, p := range items {
		switch p.Status {
		case model.StatusInProgress:
			out.InProgress++
		case model.StatusPendingReview:
			out.PendingReview++
		case model.StatusCompleted:
			out.Completed++
		}
	}
	return out, nil
}
