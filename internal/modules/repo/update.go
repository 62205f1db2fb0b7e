package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"gorm.io/gorm"
)

type ProjectUpdateRepo interface {
	Create(ctx context.Context, u *model.ProjectUpdate, touchedAt time.Time) error
}

type projectUpdateRepo struct{ db *gorm.DB }

func NewProjectUpdateRepo(db *gorm.DB) ProjectUpdateRepo {
	return &projectUpdateRepo{db: db}
}

// Create inserts the update and moves the parent project's last_update in the
// same transaction.
func (r *projectUpdateRepo) Create(ctx context.Context, u *model.ProjectUpdate, touchedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Project{}).Where("id = ?", u.ProjectID).Update("last_update", touchedAt)
		if res.Error != nil {
			return fmt.Errorf("touch project last_update: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
