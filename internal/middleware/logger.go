package middleware

import (
	"strings"
	"time"

	"github.com/appforge/clientportal/internal/modules/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ZapLogger logs one line per request. API calls are logged at info level
// with the route and, once SessionAuth ran, the caller; probes and docs at debug.
func ZapLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		dur := time.Since(start)

		path := c.Request.URL.Path
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", dur.String(),
			"clientIP", c.ClientIP(),
		}
		if v, ok := c.Get(IdentityKey); ok {
			if id, ok := v.(model.Identity); ok && id.Authenticated() {
				fields = append(fields, "user_id", id.UserID.String(), "role", string(id.Role))
			}
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		if !strings.HasPrefix(path, "/api/") {
			log.Sugar().Debugw("HTTP", fields...)
			return
		}
		if c.Writer.Status() >= 500 {
			log.Sugar().Warnw("HTTP", fields...)
			return
		}
		log.Sugar().Infow("HTTP", fields...)
	}
}
