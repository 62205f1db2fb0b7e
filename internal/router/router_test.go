package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/appforge/clientportal/internal/config"
	"github.com/appforge/clientportal/internal/modules/handler"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/pkg/apperr"
)

type staticResolver map[string]model.Identity

func (s staticResolver) Resolve(ctx context.Context, token string) (model.Identity, error) {
	id, ok := s[token]
	if !ok {
		return model.Identity{}, apperr.ErrUnauthenticated
	}
	return id, nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	cfg.Auth.CookieName = "session"
	cfg.App.PublicURL = "https://portal.example.com"

	log := zap.NewNop()
	return NewRouter(RouterDeps{
		Config: cfg,
		Log:    log,
		Auth: staticResolver{
			"client": {UserID: uuid.New(), Role: model.RoleClient},
		},
		AuthHandler:      handler.NewAuthHandler(nil, handler.CookieOptions{}),
		ProjectHandler:   handler.NewProjectHandler(nil),
		QuoteHandler:     handler.NewQuoteHandler(nil),
		UpdateHandler:    handler.NewUpdateHandler(nil),
		MilestoneHandler: handler.NewMilestoneHandler(nil),
		FeedbackHandler:  handler.NewFeedbackHandler(nil),
		GitHubHandler:    handler.NewGitHubHandler(nil, cfg.App.PublicURL, log),
		AdminHandler:     handler.NewAdminHandler(nil),
		ViewHandler:      handler.NewViewHandler(nil),
		SetupHandler:     handler.NewSetupHandler(cfg),
	})
}

func TestRouter_Guards(t *testing.T) {
	r := newTestRouter()

	tests := []struct {
		name           string
		method         string
		path           string
		token          string
		expectedStatus int
	}{
		{"health", "GET", "/health", "", http.StatusOK},
		{"metrics", "GET", "/metrics", "", http.StatusOK},
		{"setup status is public", "GET", "/api/v1/setup/status", "", http.StatusOK},
		{"signout is public", "POST", "/api/v1/auth/signout", "", http.StatusOK},
		{"projects need a session", "GET", "/api/v1/project", "", http.StatusUnauthorized},
		{"unknown session", "GET", "/api/v1/project", "forged", http.StatusUnauthorized},
		{"admin needs admin role", "GET", "/api/v1/admin/stats", "client", http.StatusForbidden},
		{"callback without session redirects", "GET", "/api/github/callback?code=x", "", http.StatusFound},
		{"callback with expired session redirects", "GET", "/api/github/callback?code=x", "forged", http.StatusFound},
		{"callback without code", "GET", "/api/github/callback", "client", http.StatusFound},
		{"me", "GET", "/api/v1/auth/me", "client", http.StatusOK},
		{"unknown route", "GET", "/api/v1/nope", "client", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}
