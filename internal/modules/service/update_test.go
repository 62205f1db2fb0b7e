package service

import (
	"context"
	"testing"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestProjectUpdateService_Create(t *testing.T) {
	p := createTestProject(clientA.UserID)
	fixed := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = time.Now })

	t.Run("date defaults to now and parent is touched", func(t *testing.T) {
		pr, ur := &MockProjectRepo{}, &MockProjectUpdateRepo{}
		pr.On("Get", mock.Anything, p.ID).Return(p, nil)
		ur.On("Create", mock.Anything, mock.MatchedBy(func(u *model.ProjectUpdate) bool {
			return u.ProjectID == p.ID && u.Message == "Design done" && u.Date.Equal(fixed)
		}), fixed).Return(nil)
		views := &recordingNotifier{}

		u, err := NewProjectUpdateService(pr, ur, views).Create(context.Background(), admin, CreateUpdateInput{ProjectID: p.ID, Message: "Design done"})
		require.NoError(t, err)
		assert.True(t, u.Date.Equal(fixed))
		assert.Contains(t, views.Paths(), ViewClientProject(p.ID))
		assert.Contains(t, views.Paths(), ViewAdminProject(p.ID))
		ur.AssertExpectations(t)
	})

	t.Run("explicit date kept", func(t *testing.T) {
		given := fixed.AddDate(0, 0, -3)
		pr, ur := &MockProjectRepo{}, &MockProjectUpdateRepo{}
		pr.On("GetOwned", mock.Anything, p.ID, clientA.UserID).Return(p, nil)
		ur.On("Create", mock.Anything, mock.MatchedBy(func(u *model.ProjectUpdate) bool {
			return u.Date.Equal(given)
		}), fixed).Return(nil)

		_, err := NewProjectUpdateService(pr, ur, &recordingNotifier{}).Create(context.Background(), clientA, CreateUpdateInput{ProjectID: p.ID, Message: "m", Date: &given})
		require.NoError(t, err)
	})

	t.Run("non-owner", func(t *testing.T) {
		pr, ur := &MockProjectRepo{}, &MockProjectUpdateRepo{}
		pr.On("GetOwned", mock.Anything, p.ID, clientB.UserID).Return(nil, gorm.ErrRecordNotFound)

		_, err := NewProjectUpdateService(pr, ur, &recordingNotifier{}).Create(context.Background(), clientB, CreateUpdateInput{ProjectID: p.ID, Message: "m"})
		assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
		ur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("empty message", func(t *testing.T) {
		pr := &MockProjectRepo{}
		pr.On("GetOwned", mock.Anything, p.ID, clientA.UserID).Return(p, nil)

		_, err := NewProjectUpdateService(pr, &MockProjectUpdateRepo{}, &recordingNotifier{}).Create(context.Background(), clientA, CreateUpdateInput{ProjectID: p.ID})
		assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	})

	t.Run("caller checked before message", func(t *testing.T) {
		pr, ur := &MockProjectRepo{}, &MockProjectUpdateRepo{}
		pr.On("GetOwned", mock.Anything, p.ID, clientB.UserID).Return(nil, gorm.ErrRecordNotFound)
		svc := NewProjectUpdateService(pr, ur, &recordingNotifier{})

		_, err := svc.Create(context.Background(), nobody, CreateUpdateInput{ProjectID: p.ID})
		assert.ErrorIs(t, err, apperr.ErrUnauthenticated)

		_, err = svc.Create(context.Background(), clientB, CreateUpdateInput{ProjectID: p.ID})
		assert.ErrorIs(t, err, apperr.ErrNotFoundOrDenied)
		ur.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}
