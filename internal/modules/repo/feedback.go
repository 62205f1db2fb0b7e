package repo

import (
	"context"

	"github.com/appforge/clientportal/internal/modules/model"
	"gorm.io/gorm"
)

type FeedbackRepo interface {
	Create(ctx context.Context, f *model.Feedback) error
}

type feedbackRepo struct{ db *gorm.DB }

func NewFeedbackRepo(db *gorm.DB) FeedbackRepo {
	return &feedbackRepo{db: db}
}

func (r *feedbackRepo) Create(ctx context.Context, f *model.Feedback) error {
	return r.db.WithContext(ctx).Create(f).Error
}
