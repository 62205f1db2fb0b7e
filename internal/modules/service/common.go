package service

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"github.com/appforge/clientportal/internal/infra/blob"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/repo"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// now is swapped in tests.
var now = time.Now

// ViewNotifier marks rendered views stale. Implementations swallow their own
// failures.
type ViewNotifier interface {
	Invalidate(ctx context.Context, paths ...string)
}

// AttachmentStore holds feedback attachments.
type AttachmentStore interface {
	UploadFormFile(ctx context.Context, keyPrefix string, fh *multipart.FileHeader) (*blob.UploadedMeta, error)
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

func requireIdentity(id model.Identity) error {
	if !id.Authenticated() {
		return apperr.ErrUnauthenticated
	}
	return nil
}

func requireAdmin(id model.Identity) error {
	if err := requireIdentity(id); err != nil {
		return err
	}
	if !id.IsAdmin() {
		return apperr.ErrForbidden
	}
	return nil
}

// denyMissing folds a missing row into ErrNotFoundOrDenied.
func denyMissing(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.ErrNotFoundOrDenied
	}
	return err
}

// authorizeProject loads the project if the identity may act on it. Clients
// only match rows they own; admins match any row.
func authorizeProject(ctx context.Context, projects repo.ProjectRepo, id model.Identity, projectID uuid.UUID) (*model.Project, error) {
	if err := requireIdentity(id); err != nil {
		return nil, err
	}
	var (
		p   *model.Project
		err error
	)
	if id.IsAdmin() {
		p, err = projects.Get(ctx, projectID)
	} else {
		p, err = projects.GetOwned(ctx, projectID, id.UserID)
	}
	if err != nil {
		return nil, denyMissing(err)
	}
	return p, nil
}

// attachmentPresigner fills Feedback.AttachmentURL on read.
type attachmentPresigner struct {
	store  AttachmentStore
	expire time.Duration
	log    *zap.Logger
}

func (a attachmentPresigner) presign(ctx context.Context, items []model.Feedback) {
	for i := range items {
		a.presignOne(ctx, &items[i])
	}
}

func (a attachmentPresigner) presignOne(ctx context.Context, f *model.Feedback) {
	if a.store == nil || f.AttachmentKey == nil || *f.AttachmentKey == "" {
		return
	}
	u, err := a.store.PresignGet(ctx, *f.AttachmentKey, a.expire)
	if err != nil {
		a.log.Sugar().Warnw("presign attachment", "feedback_id", f.ID, "err", err)
		return
	}
	f.AttachmentURL = u
}
