package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/appforge/clientportal/internal/modules/serializer"
)

type StaleChecker interface {
	StaleSince(ctx context.Context, path string, since time.Time) (bool, time.Time, error)
}

type ViewHandler struct {
	views StaleChecker
}

func NewViewHandler(v StaleChecker) *ViewHandler {
	return &ViewHandler{views: v}
}

type StaleReq struct {
	Path  string `form:"path" binding:"required" example:"/dashboard/projects"`
	Since string `form:"since" example:"2026-03-01T12:00:00Z"`
}

type StaleResp struct {
	Stale         bool       `json:"stale"`
	InvalidatedAt *time.Time `json:"invalidated_at,omitempty"`
}

// GetStale godoc
//
//	@Summary		View staleness
//	@Description	Report whether a rendered view was invalidated after the given instant
//	@Tags			view
//	@Produce		json
//	@Param			path	query	string	true	"View path"
//	@Param			since	query	string	false	"RFC 3339 instant the view was rendered"
//	@Security		SessionAuth
//	@Success		200	{object}	serializer.Response{data=handler.StaleResp}
//	@Router			/view/stale [get]
func (h *ViewHandler) GetStale(c *gin.Context) {
	req := StaleReq{}
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
		return
	}
	since := time.Time{}
	if req.Since != "" {
		t, err := time.Parse(time.RFC3339Nano, req.Since)
		if err != nil {
			c.JSON(http.StatusBadRequest, serializer.ParamErr("", err))
			return
		}
		since = t
	}

	stale, at, err := h.views.StaleSince(c.Request.Context(), req.Path, since)
	if err != nil {
		fail(c, err)
		return
	}
	resp := StaleResp{Stale: stale}
	if !at.IsZero() {
		resp.InvalidatedAt = &at
	}
	c.JSON(http.StatusOK, serializer.Response{Data: resp})
}
