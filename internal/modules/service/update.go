package service

import (
	"context"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/google/uuid"
)

type ProjectUpdateService interface {
	Create(ctx context.Context, id model.Identity, in CreateUpdateInput) (*model.ProjectUpdate, error)
}

type CreateUpdateInput struct {
	ProjectID uuid.UUID
	Message   string
	// Date defaults to the time of the call.
	Date *time.Time
}

type projectUpdateService struct {
	projects repo.ProjectRepo
	updates  repo.ProjectUpdateRepo
	views    ViewNotifier
}

func NewProjectUpdateService(projects repo.ProjectRepo, updates repo.ProjectUpdateRepo, views ViewNotifier) ProjectUpdateService {
	return &projectUpdateService{projects: projects, updates: updates, views: views}
}

func (s *projectUpdateService) Create(ctx context.Context, id model.Identity, in CreateUpdateInput) (*model.ProjectUpdate, error) {
	if _, err := authorizeProject(ctx, s.projects, id, in.ProjectID); err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, apperr.Invalid("update message is required")
	}

	ts := now()
	u := &model.ProjectUpdate{
		ProjectID: in.ProjectID,
		Message:   msg,
		Date:      ts,
	}
	if in.Date != nil && !in.Date.IsZero() {
		u.Date = *in.Date
	}
	if err := s.updates.Create(ctx, u, ts); err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx, append(projectViews(in.ProjectID), ViewDashboard, ViewDashboardProjects)...)
	return u, nil
}
