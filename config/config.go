package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment Configuration
	Environment EnvironmentConfig

	// Server Configuration
	Server ServerConfig
	Logger LoggerConfig

	// Storage Configuration
	Postgres PostgresConfig
	Redis    RedisConfig

	// Core subsystem tuning
	Monitor    MonitorConfig
	Queue      QueueConfig
	Dispatch   DispatchConfig
	Sync       SyncConfig
	Escalation EscalationConfig
	Channels   ChannelsConfig

	// Security Configuration
	Auth AuthConfig
}

// EnvironmentConfig is the configuration for the deployment environment.
type EnvironmentConfig struct {
	Name string
}

// ServerConfig is the configuration for the HTTP API server.
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// LoggerConfig is the configuration for the logger.
type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

// PostgresConfig is the configuration for the audit store.
type PostgresConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MigrationsPath string
}

// RedisConfig is the configuration for the realtime event feed.
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
	UseTLS   bool

	// Connection pool settings
	MaxRetries      int
	MinIdleConns    int
	PoolSize        int
	PoolTimeout     time.Duration
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

// MonitorConfig tunes the connectivity monitor.
type MonitorConfig struct {
	HeartbeatInterval time.Duration
	ProbeTimeout      time.Duration
	// OfflineThreshold is the number of consecutive failed heartbeats before
	// a link is declared OFFLINE.
	OfflineThreshold int
	// OnlineThreshold is the number of consecutive successes before a
	// non-online link returns to ONLINE.
	OnlineThreshold int
	// HistorySize bounds the retained heartbeat history per link.
	HistorySize int
	// QualityWindow bounds how old a heartbeat may be and still inform the
	// quality estimate.
	QualityWindow time.Duration
}

// QueueConfig tunes the offline queue.
type QueueConfig struct {
	Capacity       int
	BackoffBase    time.Duration
	BackoffCap     time.Duration
	DefaultTTL     time.Duration
	DefaultRetries int
	ScanInterval   time.Duration
}

// DispatchConfig tunes the alert dispatcher.
type DispatchConfig struct {
	ChannelTimeout time.Duration
	AlertTimeout   time.Duration
	// ResponseDeadline is how long a CRITICAL/HIGH alert may stay
	// unresolved before the escalation authority steps in.
	ResponseDeadline time.Duration
}

// SyncConfig tunes the opportunistic sync coordinator.
type SyncConfig struct {
	BatchSize    int
	TickInterval time.Duration
}

// EscalationConfig points the escalation authority at its secondary paths.
type EscalationConfig struct {
	AdvocateWebhookURL string
	OpsWebhookURL      string
	CheckInterval      time.Duration
}

// ChannelsConfig points each communication transport at its gateway
// webhook. Empty URLs leave the channel unregistered; the on-device LOCAL
// channel is always available.
type ChannelsConfig struct {
	SMSGatewayURL   string
	VoiceGatewayURL string
	PushGatewayURL  string
	EmailGatewayURL string
}

// AuthConfig is the configuration for the internal service-to-service key.
type AuthConfig struct {
	// InternalKeyHash is the bcrypt hash of the key upstream detectors and
	// dashboard services present in X-Internal-Key.
	InternalKeyHash string
	// EncryptionKey protects caregiver contact endpoints at rest. Must be
	// 16, 24 or 32 bytes; empty disables encryption (development only).
	EncryptionKey string
}

// Load loads configuration using Viper: YAML file with environment override.
func Load() (*Config, error) {
	viper.SetConfigName("carelink-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/carelink/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables
	}

	cfg := &Config{}

	// Environment
	cfg.Environment.Name = viper.GetString("environment.name")

	// Server
	cfg.Server.Host = viper.GetString("server.host")
	cfg.Server.Port = viper.GetInt("server.port")
	cfg.Server.Mode = viper.GetString("server.mode")

	// Logger
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Postgres
	cfg.Postgres.Host = viper.GetString("postgres.host")
	cfg.Postgres.Port = viper.GetInt("postgres.port")
	cfg.Postgres.User = viper.GetString("postgres.user")
	cfg.Postgres.Password = viper.GetString("postgres.password")
	cfg.Postgres.DBName = viper.GetString("postgres.dbname")
	cfg.Postgres.SSLMode = viper.GetString("postgres.sslmode")
	cfg.Postgres.MigrationsPath = viper.GetString("postgres.migrations_path")

	// Redis
	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Host = viper.GetString("redis.host")
	cfg.Redis.Port = viper.GetInt("redis.port")
	cfg.Redis.Password = viper.GetString("redis.password")
	cfg.Redis.DB = viper.GetInt("redis.db")
	cfg.Redis.UseTLS = viper.GetBool("redis.use_tls")
	cfg.Redis.MaxRetries = viper.GetInt("redis.max_retries")
	cfg.Redis.MinIdleConns = viper.GetInt("redis.min_idle_conns")
	cfg.Redis.PoolSize = viper.GetInt("redis.pool_size")
	cfg.Redis.PoolTimeout = viper.GetDuration("redis.pool_timeout")
	cfg.Redis.ConnMaxIdleTime = viper.GetDuration("redis.conn_max_idle_time")
	cfg.Redis.ConnMaxLifetime = viper.GetDuration("redis.conn_max_lifetime")

	// Monitor
	cfg.Monitor.HeartbeatInterval = viper.GetDuration("monitor.heartbeat_interval")
	cfg.Monitor.ProbeTimeout = viper.GetDuration("monitor.probe_timeout")
	cfg.Monitor.OfflineThreshold = viper.GetInt("monitor.offline_threshold")
	cfg.Monitor.OnlineThreshold = viper.GetInt("monitor.online_threshold")
	cfg.Monitor.HistorySize = viper.GetInt("monitor.history_size")
	cfg.Monitor.QualityWindow = viper.GetDuration("monitor.quality_window")

	// Queue
	cfg.Queue.Capacity = viper.GetInt("queue.capacity")
	cfg.Queue.BackoffBase = viper.GetDuration("queue.backoff_base")
	cfg.Queue.BackoffCap = viper.GetDuration("queue.backoff_cap")
	cfg.Queue.DefaultTTL = viper.GetDuration("queue.default_ttl")
	cfg.Queue.DefaultRetries = viper.GetInt("queue.default_retries")
	cfg.Queue.ScanInterval = viper.GetDuration("queue.scan_interval")

	// Dispatch
	cfg.Dispatch.ChannelTimeout = viper.GetDuration("dispatch.channel_timeout")
	cfg.Dispatch.AlertTimeout = viper.GetDuration("dispatch.alert_timeout")
	cfg.Dispatch.ResponseDeadline = viper.GetDuration("dispatch.response_deadline")

	// Sync
	cfg.Sync.BatchSize = viper.GetInt("sync.batch_size")
	cfg.Sync.TickInterval = viper.GetDuration("sync.tick_interval")

	// Escalation
	cfg.Escalation.AdvocateWebhookURL = viper.GetString("escalation.advocate_webhook_url")
	cfg.Escalation.OpsWebhookURL = viper.GetString("escalation.ops_webhook_url")
	cfg.Escalation.CheckInterval = viper.GetDuration("escalation.check_interval")

	// Channels
	cfg.Channels.SMSGatewayURL = viper.GetString("channels.sms_gateway_url")
	cfg.Channels.VoiceGatewayURL = viper.GetString("channels.voice_gateway_url")
	cfg.Channels.PushGatewayURL = viper.GetString("channels.push_gateway_url")
	cfg.Channels.EmailGatewayURL = viper.GetString("channels.email_gateway_url")

	// Auth
	cfg.Auth.InternalKeyHash = viper.GetString("auth.internal_key_hash")
	cfg.Auth.EncryptionKey = viper.GetString("auth.encryption_key")

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults() {
	// Environment
	viper.SetDefault("environment.name", "production")

	// Server
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8082)
	viper.SetDefault("server.mode", "release")

	// Logger
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.mode", "production")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("logger.color_enabled", false)

	// Postgres
	viper.SetDefault("postgres.host", "localhost")
	viper.SetDefault("postgres.port", 5432)
	viper.SetDefault("postgres.user", "carelink")
	viper.SetDefault("postgres.dbname", "carelink")
	viper.SetDefault("postgres.sslmode", "disable")
	viper.SetDefault("postgres.migrations_path", "file://migrations")

	// Redis
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.max_retries", 3)
	viper.SetDefault("redis.min_idle_conns", 5)
	viper.SetDefault("redis.pool_size", 50)
	viper.SetDefault("redis.pool_timeout", "4s")
	viper.SetDefault("redis.conn_max_idle_time", "5m")
	viper.SetDefault("redis.conn_max_lifetime", "30m")

	// Monitor
	viper.SetDefault("monitor.heartbeat_interval", "30s")
	viper.SetDefault("monitor.probe_timeout", "10s")
	viper.SetDefault("monitor.offline_threshold", 3)
	viper.SetDefault("monitor.online_threshold", 2)
	viper.SetDefault("monitor.history_size", 50)
	viper.SetDefault("monitor.quality_window", "5m")

	// Queue
	viper.SetDefault("queue.capacity", 512)
	viper.SetDefault("queue.backoff_base", "30s")
	viper.SetDefault("queue.backoff_cap", "10m")
	viper.SetDefault("queue.default_ttl", "24h")
	viper.SetDefault("queue.default_retries", 3)
	viper.SetDefault("queue.scan_interval", "15s")

	// Dispatch
	viper.SetDefault("dispatch.channel_timeout", "15s")
	viper.SetDefault("dispatch.alert_timeout", "45s")
	viper.SetDefault("dispatch.response_deadline", "15m")

	// Sync
	viper.SetDefault("sync.batch_size", 100)
	viper.SetDefault("sync.tick_interval", "1m")

	// Escalation
	viper.SetDefault("escalation.check_interval", "30s")
}

func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	if cfg.Monitor.OfflineThreshold < 1 {
		return fmt.Errorf("monitor.offline_threshold must be >= 1")
	}
	if cfg.Monitor.OnlineThreshold < 1 {
		return fmt.Errorf("monitor.online_threshold must be >= 1")
	}
	if cfg.Queue.Capacity < 1 {
		return fmt.Errorf("queue.capacity must be >= 1")
	}
	if cfg.Queue.BackoffBase <= 0 || cfg.Queue.BackoffCap < cfg.Queue.BackoffBase {
		return fmt.Errorf("queue backoff must satisfy 0 < base <= cap")
	}
	if cfg.Escalation.AdvocateWebhookURL == "" {
		return fmt.Errorf("escalation.advocate_webhook_url is required")
	}
	if cfg.Auth.InternalKeyHash == "" {
		return fmt.Errorf("auth.internal_key_hash is required")
	}
	if n := len(cfg.Auth.EncryptionKey); n != 0 && n != 16 && n != 24 && n != 32 {
		return fmt.Errorf("auth.encryption_key must be 16, 24 or 32 bytes")
	}
	return nil
}
