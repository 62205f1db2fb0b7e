package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/appforge/clientportal/internal/modules/serializer"
	"github.com/appforge/clientportal/internal/pkg/apperr"
)

// IdentityKey is the gin context key holding the caller's model.Identity.
const IdentityKey = "identity"

type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (model.Identity, error)
}

// SessionToken reads the session from the cookie, falling back to an
// Authorization bearer header.
func SessionToken(c *gin.Context, cookieName string) string {
	if v, err := c.Cookie(cookieName); err == nil && v != "" {
		return v
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// SessionAuth resolves the caller and sets it in the context. Requests without
// a valid session are rejected with 401.
// It also sets the user_id attribute on the current span for telemetry filtering.
func SessionAuth(auth IdentityResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := SessionToken(c, cookieName)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, serializer.CheckLogin())
			return
		}

		id, err := auth.Resolve(c.Request.Context(), raw)
		if err != nil {
			serializer.Abort(c, err)
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}

// OptionalSession resolves the caller when a valid session is present and
// otherwise continues with no identity set. Handlers that answer with
// redirects rather than JSON use it.
func OptionalSession(auth IdentityResolver, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := SessionToken(c, cookieName); raw != "" {
			if id, err := auth.Resolve(c.Request.Context(), raw); err == nil {
				setIdentity(c, id)
			}
		}
		c.Next()
	}
}

func setIdentity(c *gin.Context, id model.Identity) {
	span := trace.SpanFromContext(c.Request.Context())
	if span.SpanContext().IsValid() {
		span.SetAttributes(
			attribute.String("user_id", id.UserID.String()),
			attribute.String("user_role", string(id.Role)),
		)
	}
	c.Set(IdentityKey, id)
}

// RequireAdmin must run after SessionAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Get(IdentityKey)
		ident, _ := id.(model.Identity)
		if !ident.Authenticated() {
			serializer.Abort(c, apperr.ErrUnauthenticated)
			return
		}
		if !ident.IsAdmin() {
			serializer.Abort(c, apperr.ErrForbidden)
			return
		}
		c.Next()
	}
}
