package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/appforge/clientportal/internal/middleware"
	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/serializer"
)

// identity returns the caller set by SessionAuth, or the zero Identity which
// every service rejects as unauthenticated.
func identity(c *gin.Context) model.Identity {
	v, ok := c.Get(middleware.IdentityKey)
	if !ok {
		return model.Identity{}
	}
	id, _ := v.(model.Identity)
	return id
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, serializer.ParamErr("", fmt.Errorf("%s: %w", name, err)))
		return uuid.Nil, false
	}
	return id, true
}

// parseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q", s)
}

func fail(c *gin.Context, err error) {
	status, res := serializer.FromErr(err)
	c.JSON(status, res)
}
