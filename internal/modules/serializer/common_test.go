package serializer

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/appforge/clientportal/internal/pkg/apperr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestFromErr(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"unauthenticated", apperr.ErrUnauthenticated, http.StatusUnauthorized},
		{"bad credentials", apperr.ErrInvalidCredentials, http.StatusUnauthorized},
		{"forbidden", apperr.ErrForbidden, http.StatusForbidden},
		{"not found", apperr.ErrNotFoundOrDenied, http.StatusNotFound},
		{"bad url", fmt.Errorf("%w: host", apperr.ErrInvalidRepositoryURL), http.StatusBadRequest},
		{"invalid input", apperr.Invalid("name is required"), http.StatusBadRequest},
		{"bad state", apperr.ErrInvalidState, http.StatusBadRequest},
		{"attachments off", apperr.ErrAttachmentsDisabled, http.StatusBadRequest},
		{"no token", apperr.ErrTokenMissing, http.StatusConflict},
		{"not connected", apperr.ErrNotConnected, http.StatusConflict},
		{"email taken", apperr.ErrEmailTaken, http.StatusConflict},
		{"provider", apperr.Provider(errors.New("502")), http.StatusBadGateway},
		{"oauth", &apperr.OAuthError{Code: "access_denied"}, http.StatusBadGateway},
		{"other", errors.New("connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, res := FromErr(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.status, res.Code)
			assert.NotEmpty(t, res.Msg)
		})
	}
}

func TestErrHidesDetailInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	t.Cleanup(func() { gin.SetMode(gin.TestMode) })

	res := DBErr("", errors.New("dsn=postgres://secret"))
	assert.Equal(t, "database error", res.Msg)
	assert.Empty(t, res.Error)
}
