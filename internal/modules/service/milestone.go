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

type MilestoneService interface {
	Create(ctx context.Context, id model.Identity, in CreateMilestoneInput) (*model.ProjectMilestone, error)
	Update(ctx context.Context, id model.Identity, milestoneID uuid.UUID, in UpdateMilestoneInput) (*model.ProjectMilestone, error)
}

type CreateMilestoneInput struct {
	ProjectID  uuid.UUID
	Name       string
	TargetDate time.Time
}

type UpdateMilestoneInput struct {
	Name       *string
	TargetDate *time.Time
	Completed  *bool
}

type milestoneService struct {
	projects   repo.ProjectRepo
	milestones repo.MilestoneRepo
	views      ViewNotifier
}

func NewMilestoneService(projects repo.ProjectRepo, milestones repo.MilestoneRepo, views ViewNotifier) MilestoneService {
	return &milestoneService{projects: projects, milestones: milestones, views: views}
}

func (s *milestoneService) Create(ctx context.Context, id model.Identity, in CreateMilestoneInput) (*model.ProjectMilestone, error) {
	if _, err := authorizeProject(ctx, s.projects, id, in.ProjectID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalid("milestone name is required")
	}
	if in.TargetDate.IsZero() {
		return nil, apperr.Invalid("milestone target date is required")
	}

	m := &model.ProjectMilestone{
		ProjectID:  in.ProjectID,
		Name:       name,
		TargetDate: in.TargetDate,
	}
	if err := s.milestones.Create(ctx, m); err != nil {
		return nil, err
	}

	s.views.Invalidate(ctx, projectViews(in.ProjectID)...)
	return m, nil
}

func (s *milestoneService) Update(ctx context.Context, id model.Identity, milestoneID uuid.UUID, in UpdateMilestoneInput) (*model.ProjectMilestone, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	m, err := s.milestones.Get(ctx, milestoneID)
	if err != nil {
		return nil, denyMissing(err)
	}
	if _, err := authorizeProject(ctx, s.projects, id, m.ProjectID); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": now()}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalid("milestone name cannot be empty")
		}
		fields["name"] = name
	}
	if in.TargetDate != nil {
		if in.TargetDate.IsZero() {
			return nil, apperr.Invalid("milestone target date cannot be empty")
		}
		fields["target_date"] = *in.TargetDate
	}
	if in.Completed != nil {
		fields["completed"] = *in.Completed
	}

	out, err := s.milestones.Update(ctx, milestoneID, fields)
	if err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx, projectViews(m.ProjectID)...)
	return out, nil
}
