package repo

import (
	"context"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MilestoneRepo interface {
	Create(ctx context.Context, m *model.ProjectMilestone) error
	Get(ctx context.Context, milestoneID uuid.UUID) (*model.ProjectMilestone, error)
	Update(ctx context.Context, milestoneID uuid.UUID, fields map[string]any) (*model.ProjectMilestone, error)
}

type milestoneRepo struct{ db *gorm.DB }

func NewMilestoneRepo(db *gorm.DB) MilestoneRepo {
	return &milestoneRepo{db: db}
}

func (r *milestoneRepo) Create(ctx context.Context, m *model.ProjectMilestone) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *milestoneRepo) Get(ctx context.Context, milestoneID uuid.UUID) (*model.ProjectMilestone, error) {
	var m model.ProjectMilestone
	if err := r.db.WithContext(ctx).Where("id = ?", milestoneID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *milestoneRepo) Update(ctx context.Context, milestoneID uuid.UUID, fields map[string]any) (*model.ProjectMilestone, error) {
	res := r.db.WithContext(ctx).Model(&model.ProjectMilestone{}).Where("id = ?", milestoneID).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, milestoneID)
}
