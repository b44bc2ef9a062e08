package httpserver

import (
	"github.com/gin-gonic/gin"

	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/response"
)

const serviceName = "carelink-srv"

// healthCheck reports overall service health.
// @Summary Health Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is healthy"
// @Router /health [get]
func (srv *HTTPServer) healthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.db != nil {
		if err := srv.db.PingContext(ctx); err != nil {
			response.Error(c, pkgErrors.NewHTTPError(503, "Audit store connection failed"))
			return
		}
	}

	redisState := "disabled"
	if srv.redis != nil {
		redisState = "connected"
		if !srv.redis.IsConnected(ctx) {
			redisState = "disconnected"
		}
	}

	response.OK(c, gin.H{
		"status":        "healthy",
		"service":       serviceName,
		"queue_depth":   srv.queueUC.Len(),
		"active_alerts": len(srv.dispatchUC.ActiveAlerts()),
		"links":         len(srv.monitorUC.Links()),
		"redis":         redisState,
	})
}

// readyCheck reports readiness to serve traffic.
// @Summary Readiness Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is ready"
// @Failure 503 {object} response.Resp "Service is not ready"
// @Router /ready [get]
func (srv *HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if srv.db != nil {
		if err := srv.db.PingContext(ctx); err != nil {
			response.Error(c, pkgErrors.NewHTTPError(503, "Audit store not available"))
			return
		}
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"service": serviceName,
	})
}

// liveCheck reports process liveness.
// @Summary Liveness Check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Resp "Service is alive"
// @Router /live [get]
func (srv *HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"service": serviceName,
	})
}
