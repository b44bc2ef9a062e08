package httpserver

import (
	"strconv"

	"github.com/gin-gonic/gin"

	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/paginator"
	"carelink-srv/pkg/response"
)

// listEscalations returns the historical escalation record, paginated.
// @Summary List escalations
// @Tags Escalations
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/escalations [get]
func (srv *HTTPServer) listEscalations(c *gin.Context) {
	ctx := c.Request.Context()

	var pag paginator.PaginateQuery
	if err := c.ShouldBindQuery(&pag); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}
	onlyOpen, _ := strconv.ParseBool(c.Query("only_open"))

	recs, page, err := srv.auditUC.Escalations(ctx, onlyOpen, pag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"escalations": recs, "paginator": page})
}

// unresolvedEscalations returns live open records needing human attention.
// @Summary Unresolved escalations
// @Tags Escalations
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/escalations/unresolved [get]
func (srv *HTTPServer) unresolvedEscalations(c *gin.Context) {
	response.OK(c, gin.H{"escalations": srv.escalationUC.Unresolved()})
}

// resolveEscalation closes an escalation record on explicit human action.
// @Summary Resolve escalation
// @Tags Escalations
// @Accept json
// @Produce json
// @Success 200 {object} response.Resp
// @Router /api/v1/escalations/{id}/resolve [post]
func (srv *HTTPServer) resolveEscalation(c *gin.Context) {
	ctx := c.Request.Context()

	var req resolveEscalationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, pkgErrors.NewBadRequestHTTPError(err.Error()))
		return
	}

	rec, err := srv.escalationUC.Resolve(ctx, c.Param("id"), req.ResolvedBy)
	if err != nil {
		response.ErrorWithMap(c, err, escalationErrMap)
		return
	}
	response.OK(c, rec)
}
