package httpserver

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"carelink-srv/internal/audit"
	"carelink-srv/internal/connectivity"
	"carelink-srv/internal/datasync"
	"carelink-srv/internal/dispatch"
	"carelink-srv/internal/escalation"
	"carelink-srv/internal/queue"
	pkgLog "carelink-srv/pkg/log"
	pkgRedis "carelink-srv/pkg/redis"
	"carelink-srv/pkg/webhook"
)

// HTTPServer is the dashboard and ingest API. New() only wires and
// validates dependencies; Run() starts serving.
type HTTPServer struct {
	gin    *gin.Engine
	logger pkgLog.Logger
	port   int
	mode   string

	// Core subsystems
	monitorUC    connectivity.UseCase
	queueUC      queue.UseCase
	dispatchUC   dispatch.UseCase
	syncUC       datasync.UseCase
	escalationUC escalation.UseCase
	auditUC      audit.UseCase
	records      *datasync.MemorySource

	// Auth & reporting
	internalKeyHash string
	ops             webhook.INotifier

	// Storage handles, for readiness checks only
	db    *sql.DB
	redis *pkgRedis.Client
}

// Config is the constructor input for HTTPServer.
type Config struct {
	Port int
	Mode string

	Monitor    connectivity.UseCase
	Queue      queue.UseCase
	Dispatch   dispatch.UseCase
	Sync       datasync.UseCase
	Escalation escalation.UseCase
	Audit      audit.UseCase
	// Records is the device-side sync store; nil disables record ingest.
	Records *datasync.MemorySource

	InternalKeyHash string
	Ops             webhook.INotifier

	DB    *sql.DB
	Redis *pkgRedis.Client
}

// New creates the HTTP server. It starts no goroutines.
func New(logger pkgLog.Logger, cfg Config) (*HTTPServer, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	srv := &HTTPServer{
		gin:             gin.New(),
		logger:          logger,
		port:            cfg.Port,
		mode:            cfg.Mode,
		monitorUC:       cfg.Monitor,
		queueUC:         cfg.Queue,
		dispatchUC:      cfg.Dispatch,
		syncUC:          cfg.Sync,
		escalationUC:    cfg.Escalation,
		auditUC:         cfg.Audit,
		records:         cfg.Records,
		internalKeyHash: cfg.InternalKeyHash,
		ops:             cfg.Ops,
		db:              cfg.DB,
		redis:           cfg.Redis,
	}
	if err := srv.validate(); err != nil {
		return nil, err
	}
	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.port <= 0 {
		return errors.New("httpserver: port required")
	}
	if srv.monitorUC == nil || srv.queueUC == nil || srv.dispatchUC == nil ||
		srv.syncUC == nil || srv.escalationUC == nil || srv.auditUC == nil {
		return errors.New("httpserver: all core use cases required")
	}
	if srv.internalKeyHash == "" {
		return errors.New("httpserver: internal key hash required")
	}
	return nil
}
