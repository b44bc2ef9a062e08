package httpserver

import (
	"net/http"
	"time"

	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/escalation"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	pkgErrors "carelink-srv/pkg/errors"
	"carelink-srv/pkg/response"
)

// ingestEventReq is the emergency event payload from upstream detectors.
type ingestEventReq struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id" binding:"required"`
	Type      string            `json:"type" binding:"required"`
	Message   string            `json:"message" binding:"required"`
	Priority  string            `json:"priority"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata"`
}

type respondAlertReq struct {
	Channel  model.ChannelType `json:"channel" binding:"required"`
	Response string            `json:"response"`
}

type resolveEscalationReq struct {
	ResolvedBy string `json:"resolved_by" binding:"required"`
}

type createLinkReq struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id" binding:"required"`
	CaregiverID string              `json:"caregiver_id" binding:"required"`
	Target      string              `json:"target" binding:"required"`
	Policy      model.ChannelPolicy `json:"policy"`
}

type addSyncRecordReq struct {
	ID       string             `json:"id"`
	Category model.SyncCategory `json:"category" binding:"required"`
	Payload  []byte             `json:"payload"`
}

type scheduleSyncReq struct {
	Category model.SyncCategory `json:"category" binding:"required"`
	Priority string             `json:"priority"`
}

var alertErrMap = response.ErrorMapping{
	dispatch.ErrAlertNotFound:     pkgErrors.NewNotFoundHTTPError("Alert not found"),
	dispatch.ErrAlertTerminal:     pkgErrors.NewBadRequestHTTPError("Alert already resolved"),
	dispatch.ErrIllegalTransition: pkgErrors.NewBadRequestHTTPError("Alert state does not allow this operation"),
	dispatch.ErrNoTargetLinks:     pkgErrors.NewBadRequestHTTPError("No caregiver links configured for user"),
	queue.ErrQueueFull:            pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "Outbound queue is full"),
}

var escalationErrMap = response.ErrorMapping{
	escalation.ErrRecordNotFound:   pkgErrors.NewNotFoundHTTPError("Escalation record not found"),
	escalation.ErrAlreadyResolved:  pkgErrors.NewBadRequestHTTPError("Escalation record already resolved"),
	escalation.ErrResolverRequired: pkgErrors.NewBadRequestHTTPError("Resolver identity required"),
}

var linkErrMap = response.ErrorMapping{
	connectivity.ErrLinkNotFound: pkgErrors.NewNotFoundHTTPError("Caregiver link not found"),
	connectivity.ErrLinkExists:   pkgErrors.NewBadRequestHTTPError("Caregiver link already exists"),
}
