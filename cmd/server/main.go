package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"carelink-srv/config"
	configPostgre "carelink-srv/config/postgre"
	configRedis "carelink-srv/config/redis"
	"carelink-srv/internal/audit"
	auditPostgre "carelink-srv/internal/audit/repository/postgre"
	auditUC "carelink-srv/internal/audit/usecase"
	"carelink-srv/internal/channel"
	"carelink-srv/internal/connectivity"
	connectivityUC "carelink-srv/internal/connectivity/usecase"
	"carelink-srv/internal/datasync"
	datasyncUC "carelink-srv/internal/datasync/usecase"
	"carelink-srv/internal/dispatch"
	dispatchUC "carelink-srv/internal/dispatch/usecase"
	"carelink-srv/internal/escalation"
	escalationUC "carelink-srv/internal/escalation/usecase"
	"carelink-srv/internal/events"
	"carelink-srv/internal/httpserver"
	"carelink-srv/internal/model"
	"carelink-srv/internal/queue"
	queueUC "carelink-srv/internal/queue/usecase"
	"carelink-srv/pkg/encrypter"
	"carelink-srv/pkg/log"
	pkgPostgres "carelink-srv/pkg/postgre"
	pkgRedis "carelink-srv/pkg/redis"
	"carelink-srv/pkg/webhook"
)

const shutdownTimeout = 15 * time.Second

// @title       CareLink Connectivity Service
// @description Caregiver connectivity monitoring, emergency alert dispatch and opportunistic data sync
// @version     1.0
// @BasePath    /
//
// @securityDefinitions.apikey InternalKey
// @in header
// @name X-Internal-Key
// @description Shared key for service-to-service calls
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config:", err)
		return
	}

	// Initialize logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting CareLink Connectivity Service...")

	// PostgreSQL - audit store
	db, err := configPostgre.Connect(ctx, cfg.Postgres)
	if err != nil {
		logger.Errorf(ctx, "Failed to connect to PostgreSQL: %v", err)
		return
	}
	defer func() { _ = configPostgre.Disconnect(ctx, db) }()

	if err := pkgPostgres.MigrateUp(configPostgre.URL(cfg.Postgres), cfg.Postgres.MigrationsPath); err != nil {
		logger.Errorf(ctx, "Failed to apply migrations: %v", err)
		return
	}
	logger.Info(ctx, "PostgreSQL initialized, migrations applied")

	// Redis - realtime event feed (optional)
	var redisClient *pkgRedis.Client
	pub := events.NewNoop()
	if cfg.Redis.Enabled {
		redisClient, err = configRedis.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Errorf(ctx, "Failed to connect to Redis: %v", err)
			return
		}
		defer func() { _ = configRedis.Disconnect(redisClient) }()
		pub = events.NewRedisPublisher(logger, redisClient)
		logger.Info(ctx, "Redis event feed initialized")
	}

	// Escalation webhooks
	advocate, err := webhook.New(logger, cfg.Escalation.AdvocateWebhookURL)
	if err != nil {
		logger.Errorf(ctx, "Failed to initialize advocate webhook: %v", err)
		return
	}
	var ops webhook.INotifier
	if cfg.Escalation.OpsWebhookURL != "" {
		ops, err = webhook.New(logger, cfg.Escalation.OpsWebhookURL)
		if err != nil {
			logger.Warnf(ctx, "Ops webhook not configured (optional): %v", err)
			ops = nil
		}
	}

	// Contact encryption at rest (optional)
	var enc encrypter.Encrypter
	if cfg.Auth.EncryptionKey != "" {
		enc = encrypter.New(cfg.Auth.EncryptionKey)
	} else {
		logger.Warn(ctx, "auth.encryption_key not set, contact endpoints stored in plaintext")
	}

	// Audit surface
	auditRepo := auditPostgre.New(logger, db, enc)
	auditSvc := auditUC.New(logger, audit.Config{}, auditRepo)
	auditSvc.Run(ctx)

	// Channel transports
	channels := []channel.Channel{channel.NewLocalChannel(logger)}
	gateways := map[model.ChannelType]string{
		model.ChannelSMS:   cfg.Channels.SMSGatewayURL,
		model.ChannelVoice: cfg.Channels.VoiceGatewayURL,
		model.ChannelPush:  cfg.Channels.PushGatewayURL,
		model.ChannelEmail: cfg.Channels.EmailGatewayURL,
	}
	for typ, url := range gateways {
		if url == "" {
			continue
		}
		notifier, err := webhook.New(logger, url)
		if err != nil {
			logger.Errorf(ctx, "Failed to initialize %s gateway: %v", typ, err)
			return
		}
		channels = append(channels, channel.NewWebhookChannel(typ, notifier))
	}
	registry, err := channel.NewRegistry(channels...)
	if err != nil {
		logger.Errorf(ctx, "Failed to build channel registry: %v", err)
		return
	}
	logger.Infof(ctx, "Channel registry initialized: %v", registry.Types())

	// Connectivity monitor
	monitor := connectivityUC.New(logger, connectivity.Config{
		HeartbeatInterval: cfg.Monitor.HeartbeatInterval,
		ProbeTimeout:      cfg.Monitor.ProbeTimeout,
		OfflineThreshold:  cfg.Monitor.OfflineThreshold,
		OnlineThreshold:   cfg.Monitor.OnlineThreshold,
		HistorySize:       cfg.Monitor.HistorySize,
		QualityWindow:     cfg.Monitor.QualityWindow,
	}, connectivity.NewHTTPProber(), auditSvc)

	// Offline queue
	q := queueUC.New(logger, queue.Config{
		Capacity:       cfg.Queue.Capacity,
		BackoffBase:    cfg.Queue.BackoffBase,
		BackoffCap:     cfg.Queue.BackoffCap,
		DefaultTTL:     cfg.Queue.DefaultTTL,
		DefaultRetries: cfg.Queue.DefaultRetries,
	}, auditSvc)

	// Sync coordinator
	records := datasync.NewMemorySource()
	syncSvc := datasyncUC.New(logger, datasync.Config{
		BatchSize:    cfg.Sync.BatchSize,
		TickInterval: cfg.Sync.TickInterval,
	}, monitor, q, records, datasync.NewHTTPTransport(cfg.Dispatch.ChannelTimeout), auditSvc)

	// Escalation authority
	escSvc := escalationUC.New(logger, escalation.Config{
		CheckInterval: cfg.Escalation.CheckInterval,
	}, advocate, ops, pub, auditSvc)

	// Alert dispatcher
	dispatchSvc := dispatchUC.New(logger, dispatch.Config{
		ChannelTimeout:    cfg.Dispatch.ChannelTimeout,
		AlertTimeout:      cfg.Dispatch.AlertTimeout,
		ResponseDeadline:  cfg.Dispatch.ResponseDeadline,
		ScanInterval:      cfg.Queue.ScanInterval,
		DefaultMaxRetries: cfg.Queue.DefaultRetries,
	}, monitor, q, registry, escSvc, syncSvc, pub, auditSvc)
	escSvc.Bind(dispatchSvc)

	// Link transitions feed the queue drain, the sync triggers and the
	// realtime dashboard.
	monitor.Subscribe(func(tr connectivity.Transition) {
		pub.LinkStateChanged(ctx, tr.LinkID, tr.From, tr.To)
		if link, err := monitor.Link(tr.LinkID); err == nil {
			auditSvc.RecordLink(ctx, link)
		}
		if tr.To == model.LinkStateOnline {
			syncSvc.OnLinkOnline(ctx, tr.LinkID)
		}
		dispatchSvc.Wake()
	})

	// Start core subsystems
	monitor.Run(ctx)
	dispatchSvc.Run(ctx)
	syncSvc.Run(ctx)
	escSvc.Run(ctx)
	logger.Info(ctx, "Core subsystems started")

	// HTTP API
	srv, err := httpserver.New(logger, httpserver.Config{
		Port:            cfg.Server.Port,
		Mode:            cfg.Server.Mode,
		Monitor:         monitor,
		Queue:           q,
		Dispatch:        dispatchSvc,
		Sync:            syncSvc,
		Escalation:      escSvc,
		Audit:           auditSvc,
		Records:         records,
		InternalKeyHash: cfg.Auth.InternalKeyHash,
		Ops:             ops,
		DB:              db,
		Redis:           redisClient,
	})
	if err != nil {
		logger.Errorf(ctx, "Failed to build HTTP server: %v", err)
		return
	}

	if err := srv.Run(ctx); err != nil {
		logger.Errorf(ctx, "HTTP server stopped with error: %v", err)
	}

	// Graceful shutdown, reverse dependency order
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := monitor.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Connectivity monitor shutdown error: %v", err)
	}
	if err := dispatchSvc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Dispatcher shutdown error: %v", err)
	}
	if err := syncSvc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Sync coordinator shutdown error: %v", err)
	}
	if err := escSvc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Escalation authority shutdown error: %v", err)
	}
	if err := auditSvc.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(ctx, "Audit worker shutdown error: %v", err)
	}
	_ = advocate.Close()
	if ops != nil {
		_ = ops.Close()
	}
	logger.Info(ctx, "CareLink Connectivity Service stopped")
}
