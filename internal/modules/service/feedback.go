package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FeedbackService interface {
	Create(ctx context.Context, id model.Identity, in CreateFeedbackInput) (*model.Feedback, error)
}

type CreateFeedbackInput struct {
	ProjectID uuid.UUID
	Message   string
	File      *multipart.FileHeader
}

type feedbackService struct {
	projects repo.ProjectRepo
	feedback repo.FeedbackRepo
	store    AttachmentStore
	presign  attachmentPresigner
	views    ViewNotifier
	log      *zap.Logger
}

// NewFeedbackService accepts a nil store; uploads then fail with
// apperr.ErrAttachmentsDisabled.
func NewFeedbackService(projects repo.ProjectRepo, feedback repo.FeedbackRepo, store AttachmentStore, presignExpire time.Duration, views ViewNotifier, log *zap.Logger) FeedbackService {
	return &feedbackService{
		projects: projects,
		feedback: feedback,
		store:    store,
		presign:  attachmentPresigner{store: store, expire: presignExpire, log: log},
		views:    views,
		log:      log,
	}
}

func (s *feedbackService) Create(ctx context.Context, id model.Identity, in CreateFeedbackInput) (*model.Feedback, error) {
	if _, err := authorizeProject(ctx, s.projects, id, in.ProjectID); err != nil {
		return nil, err
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		return nil, apperr.Invalid("feedback message is required")
	}
	if in.File != nil && s.store == nil {
		return nil, apperr.ErrAttachmentsDisabled
	}

	f := &model.Feedback{ProjectID: in.ProjectID, Message: msg}
	if in.File != nil {
		meta, err := s.store.UploadFormFile(ctx, fmt.Sprintf("feedback/%s", in.ProjectID), in.File)
		if err != nil {
			return nil, fmt.Errorf("upload attachment: %w", err)
		}
		f.AttachmentKey = &meta.Key
		f.AttachmentName = &meta.Name
		f.AttachmentMIME = &meta.MIME
		f.AttachmentSize = &meta.SizeB
	}

	if err := s.feedback.Create(ctx, f); err != nil {
		// keys are content addressed and may be shared, so the object stays
		if f.AttachmentKey != nil {
			s.log.Sugar().Warnw("feedback insert failed, attachment left unreferenced",
				"project_id", in.ProjectID, "key", *f.AttachmentKey, "err", err)
		}
		return nil, err
	}

	s.presign.presignOne(ctx, f)

	s.views.Invalidate(ctx, projectViews(in.ProjectID)...)
	return f, nil
}
