package repo

import (
	"context"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error)
	GetOwned(ctx context.Context, projectID uuid.UUID, clientID uuid.UUID) (*model.Project, error)
	GetDetail(ctx context.Context, projectID uuid.UUID) (*model.Project, error)
	ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error)
	ListAll(ctx context.Context) ([]model.Project, error)
	Update(ctx context.Context, projectID uuid.UUID, fields map[string]any) (*model.Project, error)
	Delete(ctx context.Context, projectID uuid.UUID) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) Get(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", projectID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetOwned(ctx context.Context, projectID uuid.UUID, clientID uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("id = ? AND client_id = ?", projectID, clientID).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetDetail(ctx context.Context, projectID uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).
		Preload("Quotes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Updates", func(db *gorm.DB) *gorm.DB { return db.Order("date DESC") }).
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("target_date ASC") }).
		Preload("Feedback", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Where("id = ?", projectID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) ListByClient(ctx context.Context, clientID uuid.UUID) ([]model.Project, error) {
	var items []model.Project
	return items, r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&items).Error
}

func (r *projectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	var items []model.Project
	return items, r.db.WithContext(ctx).
		Preload("Quotes").
		Preload("Updates").
		Preload("Milestones").
		Order("created_at DESC").
		Find(&items).Error
}

// Update applies fields in a single statement and returns the fresh row.
func (r *projectRepo) Update(ctx context.Context, projectID uuid.UUID, fields map[string]any) (*model.Project, error) {
	res := r.db.WithContext(ctx).Model(&model.Project{}).Where("id = ?", projectID).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, projectID)
}

// Delete relies on ON DELETE CASCADE for quotes, updates, milestones and feedback.
func (r *projectRepo) Delete(ctx context.Context, projectID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", projectID).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
