package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"carelink-srv/pkg/encrypter"
	"carelink-srv/pkg/response"
)

// HeaderInternalKey carries the shared key for service-to-service calls
// from the detectors and the dashboard backend.
const HeaderInternalKey = "X-Internal-Key"

// Auth returns a middleware that validates the internal API key against
// its configured bcrypt hash.
func (m Middleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := strings.TrimSpace(c.GetHeader(HeaderInternalKey))
		if key == "" {
			m.l.Warnf(c.Request.Context(), "Missing %s header | Path: %s", HeaderInternalKey, c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}
		if !encrypter.CheckKey(key, m.internalKeyHash) {
			m.l.Warnf(c.Request.Context(), "Internal key rejected | Path: %s", c.Request.URL.Path)
			response.Unauthorized(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
