package httpserver

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink-srv/internal/model"
	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/paginator"
	"carelink-srv/pkg/response"
)

// createLink registers a caregiver link and starts monitoring it.
// @Summary Create caregiver link
// @Tags Links
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/links [post]
func (srv *HTTPServer) createLink(c *gin.Context) {
	ctx := c.Request.Context()

	var req createLinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	link := model.CaregiverLink{
		ID:          req.ID,
		UserID:      req.UserID,
		CaregiverID: req.CaregiverID,
		Target:      req.Target,
		State:       model.LinkStateUnknown,
		Quality:     model.QualityUnknown,
		Policy:      req.Policy,
		CreatedAt:   time.Now(),
	}

	if err := srv.monitorUC.AddLink(ctx, link); err != nil {
		response.ErrorWithMap(c, err, linkErrMap)
		return
	}
	srv.auditUC.RecordLink(ctx, link)
	response.OK(c, link)
}

// removeLink stops monitoring a link and purges its queued sync work. Queued
// alerts are untouched: they target every link of their user, and delivery
// attempts skip links that are no longer monitored.
// @Summary Remove caregiver link
// @Tags Links
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/links/{id} [delete]
func (srv *HTTPServer) removeLink(c *gin.Context) {
	ctx := c.Request.Context()
	linkID := c.Param("id")

	if err := srv.monitorUC.RemoveLink(ctx, linkID); err != nil {
		response.ErrorWithMap(c, err, linkErrMap)
		return
	}
	purged := srv.queueUC.PurgeLink(ctx, linkID)
	response.OK(c, gin.H{"link_id": linkID, "purged_items": len(purged)})
}

// linkHealth returns the live health snapshot of every monitored link.
// @Summary Link health
// @Tags Links
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/links/health [get]
func (srv *HTTPServer) linkHealth(c *gin.Context) {
	response.OK(c, gin.H{"links": srv.monitorUC.HealthAll()})
}

// linkHeartbeats returns recent probe results for the link.
// @Summary Link heartbeat history
// @Tags Links
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/links/{id}/heartbeats [get]
func (srv *HTTPServer) linkHeartbeats(c *gin.Context) {
	ctx := c.Request.Context()
	limit, _ := strconv.Atoi(c.Query("limit"))

	hbs, err := srv.auditUC.Heartbeats(ctx, c.Param("id"), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"heartbeats": hbs})
}

// linkSyncs returns the sync operation history for the link.
// @Summary Link sync history
// @Tags Links
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/links/{id}/syncs [get]
func (srv *HTTPServer) linkSyncs(c *gin.Context) {
	ctx := c.Request.Context()

	var pag paginator.PaginateQuery
	if err := c.ShouldBindQuery(&pag); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}

	ops, page, err := srv.auditUC.SyncOperations(ctx, c.Param("id"), pag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"operations": ops, "paginator": page})
}

// scheduleSync queues a manual sync pass for the link.
// @Summary Schedule sync
// @Tags Links
// @Accept json
// @Produce json
// @Success 202 {object} response.Resp
// @Router /api/v1/links/{id}/syncs [post]
func (srv *HTTPServer) scheduleSync(c *gin.Context) {
	ctx := c.Request.Context()
	linkID := c.Param("id")

	var req scheduleSyncReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	if _, err := srv.monitorUC.Link(linkID); err != nil {
		response.ErrorWithMap(c, err, linkErrMap)
		return
	}
	prio := model.PriorityLow
	if req.Priority != "" {
		prio = model.ParsePriority(req.Priority)
	}
	// Sync traffic must never outrank alert traffic.
	if prio > model.PriorityMedium {
		prio = model.PriorityMedium
	}

	if err := srv.syncUC.ScheduleSync(ctx, linkID, req.Category, prio); err != nil {
		response.ErrorWithMap(c, err, alertErrMap)
		return
	}
	srv.dispatchUC.Wake()
	response.Accepted(c, gin.H{"link_id": linkID, "category": req.Category})
}

// addSyncRecord stores one device record for opportunistic sync.
// @Summary Add sync record
// @Tags Links
// @Accept json
// @Produce json
// @Success 202 {object} response.Resp
// @Router /api/v1/links/{id}/records [post]
func (srv *HTTPServer) addSyncRecord(c *gin.Context) {
	linkID := c.Param("id")

	var req addSyncRecordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	if _, err := srv.monitorUC.Link(linkID); err != nil {
		response.ErrorWithMap(c, err, linkErrMap)
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	srv.records.Add(linkID, model.SyncRecord{
		ID:       req.ID,
		Category: req.Category,
		Payload:  req.Payload,
	})
	response.Accepted(c, gin.H{"link_id": linkID, "record_id": req.ID, "pending": srv.records.PendingCount(linkID)})
}
