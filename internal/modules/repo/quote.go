package repo

import (
	"context"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuoteRepo interface {
	Create(ctx context.Context, q *model.Quote) error
	Get(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error)
	Update(ctx context.Context, quoteID uuid.UUID, fields map[string]any) (*model.Quote, error)
}

type quoteRepo struct{ db *gorm.DB }

func NewQuoteRepo(db *gorm.DB) QuoteRepo {
	return &quoteRepo{db: db}
}

func (r *quoteRepo) Create(ctx context.Context, q *model.Quote) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *quoteRepo) Get(ctx context.Context, quoteID uuid.UUID) (*model.Quote, error) {
	var q model.Quote
	if err := r.db.WithContext(ctx).Where("id = ?", quoteID).First(&q).Error; err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *quoteRepo) Update(ctx context.Context, quoteID uuid.UUID, fields map[string]any) (*model.Quote, error) {
	res := r.db.WithContext(ctx).Model(&model.Quote{}).Where("id = ?", quoteID).Updates(fields)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, quoteID)
}
