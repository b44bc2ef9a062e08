package httpserver

import (
	"github.com/gin-gonic/gin"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/model"
	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/paginator"
	"carelink-srv/pkg/response"
)

// ingestEvent accepts an emergency event from an upstream detector and
// queues an alert for dispatch.
// @Summary Ingest emergency event
// @Tags Alerts
// @Accept json
// @Produce json
// @Success 202 {object} response.Resp
// @Router /api/v1/events [post]
func (srv *HTTPServer) ingestEvent(c *gin.Context) {
	ctx := c.Request.Context()

	var req ingestEventReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	ev := model.EmergencyEvent{
		ID:        req.ID,
		UserID:    req.UserID,
		Type:      req.Type,
		Message:   req.Message,
		Priority:  req.Priority,
		Timestamp: req.Timestamp,
		Metadata:  req.Metadata,
	}

	alert, err := srv.dispatchUC.HandleEvent(ctx, ev)
	if err != nil {
		response.ErrorWithMap(c, err, alertErrMap)
		return
	}
	response.Accepted(c, alert)
}

// listAlerts returns the historical alert record, paginated.
// @Summary List alerts
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/alerts [get]
func (srv *HTTPServer) listAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	var pag paginator.PaginateQuery
	if err := c.ShouldBindQuery(&pag); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	var filter audit.AlertFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}

	alerts, page, err := srv.auditUC.Alerts(ctx, filter, pag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"alerts": alerts, "paginator": page})
}

// activeAlerts returns every alert still in flight, newest first.
// @Summary Active alerts
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/alerts/active [get]
func (srv *HTTPServer) activeAlerts(c *gin.Context) {
	response.OK(c, gin.H{"alerts": srv.dispatchUC.ActiveAlerts()})
}

// getAlert returns one in-flight alert.
// @Summary Get alert
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Resp
// @Failure 404 {object} response.Resp
// @Router /api/v1/alerts/{id} [get]
func (srv *HTTPServer) getAlert(c *gin.Context) {
	alert, err := srv.dispatchUC.Alert(c.Param("id"))
	if err != nil {
		response.ErrorWithMap(c, err, alertErrMap)
		return
	}
	response.OK(c, alert)
}

// respondAlert records a caregiver acknowledgment.
// @Summary Record caregiver response
// @Tags Alerts
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/alerts/{id}/response [post]
func (srv *HTTPServer) respondAlert(c *gin.Context) {
	ctx := c.Request.Context()

	var req respondAlertReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}

	alert, err := srv.dispatchUC.HandleResponse(ctx, c.Param("id"), req.Channel, req.Response)
	if err != nil {
		response.ErrorWithMap(c, err, alertErrMap)
		return
	}
	response.OK(c, alert)
}

// resolveAlert closes a responded alert.
// @Summary Resolve alert
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/alerts/{id}/resolve [post]
func (srv *HTTPServer) resolveAlert(c *gin.Context) {
	ctx := c.Request.Context()

	alert, err := srv.dispatchUC.ResolveAlert(ctx, c.Param("id"))
	if err != nil {
		response.ErrorWithMap(c, err, alertErrMap)
		return
	}
	response.OK(c, alert)
}
