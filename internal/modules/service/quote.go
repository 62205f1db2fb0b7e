package service

import (
	"context"
	"math"
	"strings"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuoteService interface {
	Create(ctx context.Context, id model.Identity, in CreateQuoteInput) (*model.Quote, error)
	Update(ctx context.Context, id model.Identity, quoteID uuid.UUID, in UpdateQuoteInput) (*model.Quote, error)
}

type CreateQuoteInput struct {
	ProjectID uuid.UUID
	Amount    float64
	Items     []string
}

// UpdateQuoteInput leaves a field unchanged when it is nil.
type UpdateQuoteInput struct {
	Amount *float64
	Items  []string
}

type quoteService struct {
	projects repo.ProjectRepo
	quotes   repo.QuoteRepo
	views    ViewNotifier
}

func NewQuoteService(projects repo.ProjectRepo, quotes repo.QuoteRepo, views ViewNotifier) QuoteService {
	return &quoteService{projects: projects, quotes: quotes, views: views}
}

func validAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return apperr.Invalid("amount must be a non-negative number")
	}
	return nil
}

func cleanItems(items []string) datatypes.JSONSlice[string] {
	out := make(datatypes.JSONSlice[string], 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func (s *quoteService) Create(ctx context.Context, id model.Identity, in CreateQuoteInput) (*model.Quote, error) {
	if _, err := authorizeProject(ctx, s.projects, id, in.ProjectID); err != nil {
		return nil, err
	}
	if err := validAmount(in.Amount); err != nil {
		return nil, err
	}

	q := &model.Quote{
		ProjectID: in.ProjectID,
		Amount:    in.Amount,
		Items:     cleanItems(in.Items),
	}
	if err := s.quotes.Create(ctx, q); err != nil {
		return nil, err
	}

	s.views.Invalidate(ctx, projectViews(in.ProjectID)...)
	return q, nil
}

func (s *quoteService) Update(ctx context.Context, id model.Identity, quoteID uuid.UUID, in UpdateQuoteInput) (*model.Quote, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	q, err := s.quotes.Get(ctx, quoteID)
	if err != nil {
		return nil, denyMissing(err)
	}
	if _, err := authorizeProject(ctx, s.projects, id, q.ProjectID); err != nil {
		return nil, err
	}

	fields := map[string]any{"updated_at": now()}
	if in.Amount != nil {
		if err := validAmount(*in.Amount); err != nil {
			return nil, err
		}
		fields["amount"] = *in.Amount
	}
	if in.Items != nil {
		fields["items"] = cleanItems(in.Items)
	}

	out, err := s.quotes.Update(ctx, quoteID, fields)
	if err != nil {
		return nil, denyMissing(err)
	}

	s.views.Invalidate(ctx, projectViews(q.ProjectID)...)
	return out, nil
}
