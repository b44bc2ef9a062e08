package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	pkgLog "carelink-srv/pkg/log"
	"carelink-srv/pkg/response"
	"carelink-srv/pkg/webhook"
)

// Recovery converts panics into 500 responses. Panics in the API surface
// are reported to the operator webhook so they surface even when nobody is
// tailing logs; notification is fire-and-forget.
func Recovery(logger pkgLog.Logger, ops webhook.INotifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				ctx := c.Request.Context()
				logger.Errorf(ctx, "Panic recovered: %v | Method: %s | Path: %s",
					err, c.Request.Method, c.Request.URL.Path)

				if ops != nil {
					method, path := c.Request.Method, c.Request.URL.Path
					go func() {
						_ = ops.Notify(context.Background(), webhook.Notification{
							Title:    "API panic recovered",
							Body:     fmt.Sprintf("%v", err),
							Severity: webhook.SeverityWarn,
							Fields:   map[string]string{"method": method, "path": path},
						})
					}()
				}

				c.AbortWithStatusJSON(http.StatusInternalServerError, response.Resp{
					ErrorCode: response.InternalServerErrorCode,
					Message:   response.DefaultErrorMessage,
				})
			}
		}()
		c.Next()
	}
}
