package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/modules/service"
	"github.com/appforge/clientportal/internal/pkg/apperr"
)

type GitHubHandler struct {
	svc       service.RepositoryService
	publicURL string
	log       *zap.Logger
}

// NewGitHubHandler redirects OAuth callbacks to the settings page under
// publicURL.
func NewGitHubHandler(s service.RepositoryService, publicURL string, log *zap.Logger) *GitHubHandler {
	return &GitHubHandler{svc: s, publicURL: strings.TrimRight(publicURL, "/"), log: log}
}

// GetBundle godoc
//
//	@Summary		Repository activity
//	@Description	Fetch repository info, recent commits, open issues, open pull requests and branches for a connected project
//	@Tags			github
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=service.RepositoryBundle}
//	@Router			/project/{project_id}/github [get]
func (h *GitHubHandler) GetBundle(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	b, err := h.svc.FetchBundle(c.Request.Context(), identity(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: b})
}

type ConnectRepositoryReq struct {
	RepositoryURL string `json:"repository_url" binding:"required" example:"https://github.com/acme/site"`
}

// ConnectRepository godoc
//
//	@Summary		Connect repository
//	@Description	Link a project to a repository after checking it is reachable with the caller's token
//	@Tags			github
//	@Accept			json
//	@Produce		json
//	@Param			project_id	path	string						true	"Project ID"	Format(uuid)
//	@Param			payload		body	handler.ConnectRepositoryReq	true	"ConnectRepository payload"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id}/github/connect [post]
func (h *GitHubHandler) ConnectRepository(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	req := ConnectRepositoryReq{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}

	p, err := h.svc.Connect(c.Request.Context(), identity(c), projectID, req.RepositoryURL)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

// DisconnectRepository godoc
//
//	@Summary		Disconnect repository
//	@Description	Unlink a project from its repository. The URL is kept.
//	@Tags			github
//	@Produce		json
//	@Param			project_id	path	string	true	"Project ID"	Format(uuid)
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=model.Project}
//	@Router			/project/{project_id}/github/disconnect [post]
func (h *GitHubHandler) DisconnectRepository(c *gin.Context) {
	projectID, ok := pathUUID(c, "project_id")
	if !ok {
		return
	}
	p, err := h.svc.Disconnect(c.Request.Context(), identity(c), projectID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: p})
}

type AuthorizeResp struct {
	URL string `json:"url" example:"https://github.com/login/oauth/authorize?client_id=...&state=..."`
}

// Authorize godoc
//
//	@Summary		Start GitHub authorization
//	@Description	Return the provider authorization URL bound to a one-time state for the caller
//	@Tags			github
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=handler.AuthorizeResp}
//	@Router			/github/authorize [get]
func (h *GitHubHandler) Authorize(c *gin.Context) {
	u, err := h.svc.AuthorizeURL(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: AuthorizeResp{URL: u}})
}

// GetTokenStatus godoc
//
//	@Summary		GitHub token status
//	@Description	Report whether the caller has a stored repository token
//	@Tags			github
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=service.TokenStatus}
//	@Router			/github/token [get]
func (h *GitHubHandler) GetTokenStatus(c *gin.Context) {
	st, err := h.svc.TokenStatus(c.Request.Context(), identity(c))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{Data: st})
}

// RevokeToken godoc
//
//	@Summary		Remove GitHub token
//	@Description	Delete the caller's stored repository token
//	@Tags			github
//	@Produce		json
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{}
//	@Router			/github/token [delete]
func (h *GitHubHandler) RevokeToken(c *gin.Context) {
	if err := h.svc.RevokeToken(c.Request.Context(), identity(c)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, serializer.Response{})
}

// Callback is served at /api/github/callback, outside the versioned API.
//
//	@Summary		GitHub OAuth callback
//	@Description	Exchange the authorization code for a token and redirect to the settings page
//	@Tags			github
//	@Param			code	query	string	false	"Authorization code"
//	@Param			state	query	string	false	"State issued by /github/authorize"
//	@Security		SessionAuth
//	@Success		302
func (h *GitHubHandler) Callback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.redirect(c, "error", "no_code")
		return
	}

	id := identity(c)
	if !id.Authenticated() {
		h.redirect(c, "error", "github_auth")
		return
	}

	err := h.svc.ExchangeAuthorizationCode(c.Request.Context(), id, code, c.Query("state"))
	switch {
	case err == nil:
		h.redirect(c, "github", "connected")
	case errors.Is(err, apperr.ErrInvalidState):
		h.redirect(c, "error", "invalid_state")
	default:
		h.log.Sugar().Warnw("github authorization failed", "err", err)
		h.redirect(c, "error", "github_auth")
	}
}

func (h *GitHubHandler) redirect(c *gin.Context, key, value string) {
	q := url.Values{}
	q.Set(key, value)
	c.Redirect(http.StatusFound, h.publicURL+"/dashboard/settings?"+q.Encode())
}
