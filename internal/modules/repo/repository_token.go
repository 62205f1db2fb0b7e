package repo

import (
	"context"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RepositoryTokenRepo interface {
	Upsert(ctx context.Context, userID uuid.UUID, accessToken string, at time.Time) error
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.RepositoryToken, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

type repositoryTokenRepo struct{ db *gorm.DB }

func NewRepositoryTokenRepo(db *gorm.DB) RepositoryTokenRepo {
	return &repositoryTokenRepo{db: db}
}

// Upsert stores the user's token with one INSERT ... ON CONFLICT (user_id)
// statement, so concurrent saves for the same user converge on one row.
func (r *repositoryTokenRepo) Upsert(ctx context.Context, userID uuid.UUID, accessToken string, at time.Time) error {
	tok := &model.RepositoryToken{
		UserID:      userID,
		AccessToken: accessToken,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"access_token", "updated_at"}),
	}).Create(tok).Error
}

func (r *repositoryTokenRepo) GetByUser(ctx context.Context, userID uuid.UUID) (*model.RepositoryToken, error) {
	var tok model.RepositoryToken
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&tok).Error; err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *repositoryTokenRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.RepositoryToken{}).Error
}
