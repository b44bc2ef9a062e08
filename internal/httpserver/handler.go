package httpserver

import (
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"carelink-srv/internal/middleware"
)

const Api = "/api/v1"

func (srv *HTTPServer) mapHandlers() {
	srv.gin.Use(middleware.Recovery(srv.logger, srv.ops))
	srv.gin.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	// Health check endpoints (no auth required)
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)

	// Swagger UI
	srv.gin.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	mw := middleware.New(srv.logger, srv.internalKeyHash)
	api := srv.gin.Group(Api)
	api.Use(mw.Auth())

	// Emergency ingest and alert lifecycle
	api.POST("/events", srv.ingestEvent)
	api.GET("/alerts", srv.listAlerts)
	api.GET("/alerts/active", srv.activeAlerts)
	api.GET("/alerts/:id", srv.getAlert)
	api.POST("/alerts/:id/response", srv.respondAlert)
	api.POST("/alerts/:id/resolve", srv.resolveAlert)

	// Escalation authority
	api.GET("/escalations", srv.listEscalations)
	api.GET("/escalations/unresolved", srv.unresolvedEscalations)
	api.POST("/escalations/:id/resolve", srv.resolveEscalation)

	// Caregiver link administration
	api.POST("/links", srv.createLink)
	api.DELETE("/links/:id", srv.removeLink)
	api.GET("/links/health", srv.linkHealth)
	api.GET("/links/:id/heartbeats", srv.linkHeartbeats)
	api.GET("/links/:id/syncs", srv.linkSyncs)
	api.POST("/links/:id/syncs", srv.scheduleSync)
	if srv.records != nil {
		api.POST("/links/:id/records", srv.addSyncRecord)
	}
}
