package buildCFG

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type ServerConfig struct {
	Port          string
	GinMode       string
	SecureCookies bool
	CORSOrigins   []string
}

type RabbitConfig struct {
	Enabled  bool
	Url      string
	Exchange string
	Queue    string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	BaseURL  string
}

type MigrationConfig struct {
	Dir                string
	RollbackOnShutdown bool
}

func stringOr(cfg *config.Config, key, def string) string {
	if v := strings.TrimSpace(cfg.GetString(key)); v != "" {
		return v
	}
	return def
}

func intOr(cfg *config.Config, key string, def int) int {
	if v := cfg.GetInt(key); v > 0 {
		return v
	}
	return def
}

func BuildServerConfig(cfg *config.Config, log *zerolog.Logger) ServerConfig {
	sc := ServerConfig{
		Port:          stringOr(cfg, "server.port", "8080"),
		GinMode:       stringOr(cfg, "server.gin_mode", "release"),
		SecureCookies: cfg.GetBool("server.secure_cookies"),
		CORSOrigins:   cfg.GetStringSlice("server.cors_origins"),
	}
	log.Info().
		Str("port", sc.Port).
		Str("gin_mode", sc.GinMode).
		Bool("secure_cookies", sc.SecureCookies).
		Msg("Server config loaded")
	return sc
}

// BuildStorageDriver returns the repository backend, postgres unless configured otherwise.
func BuildStorageDriver(cfg *config.Config) (string, error) {
	driver := strings.ToLower(stringOr(cfg, "storage.driver", StoragePostgres))
	switch driver {
	case StorageMemory, StoragePostgres:
		return driver, nil
	default:
		return "", fmt.Errorf("unknown storage.driver %q", driver)
	}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	masterDSN := cfg.GetString("db.master_dsn")
	if masterDSN == "" {
		return "", nil, nil, fmt.Errorf("db.master_dsn is required")
	}
	slaveDSNs := cfg.GetStringSlice("db.slave_dsns")

	opts := &dbpg.Options{
		MaxOpenConns:    intOr(cfg, "db.max_open_conns", 10),
		MaxIdleConns:    intOr(cfg, "db.max_idle_conns", 5),
		ConnMaxLifetime: cfg.GetDuration("db.conn_max_lifetime"),
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = 30 * time.Minute
	}

	log.Info().
		Int("slaves", len(slaveDSNs)).
		Int("max_open_conns", opts.MaxOpenConns).
		Int("max_idle_conns", opts.MaxIdleConns).
		Dur("conn_max_lifetime", opts.ConnMaxLifetime).
		Msg("DB config loaded")
	return masterDSN, slaveDSNs, opts, nil
}

func BuildMigrationConfig(cfg *config.Config) MigrationConfig {
	return MigrationConfig{
		Dir:                stringOr(cfg, "db.migrations_dir", "migrations/postgres"),
		RollbackOnShutdown: cfg.GetBool("db.rollback_on_shutdown"),
	}
}

func BuildRabbitConfig(cfg *config.Config, log *zerolog.Logger) (RabbitConfig, error) {
	rc := RabbitConfig{
		Enabled:  cfg.GetBool("rabbit.enabled"),
		Url:      cfg.GetString("rabbit.url"),
		Exchange: stringOr(cfg, "rabbit.exchange", "rsvp.activity"),
		Queue:    stringOr(cfg, "rabbit.queue", "rsvp.activity.mail"),
	}
	if !rc.Enabled {
		log.Info().Msg("RabbitMQ disabled, organizer notifications are off")
		return rc, nil
	}
	if rc.Url == "" {
		return rc, fmt.Errorf("rabbit.url is required when rabbit.enabled is true")
	}
	log.Info().Str("exchange", rc.Exchange).Str("queue", rc.Queue).Msg("RabbitMQ config loaded")
	return rc, nil
}

func BuildMailConfig(cfg *config.Config, log *zerolog.Logger) (MailConfig, error) {
	mc := MailConfig{
		Host:     cfg.GetString("mail.host"),
		Port:     intOr(cfg, "mail.port", 587),
		User:     cfg.GetString("mail.user"),
		Password: cfg.GetString("mail.password"),
		From:     cfg.GetString("mail.from"),
		BaseURL:  strings.TrimRight(stringOr(cfg, "mail.base_url", "http://localhost:8080"), "/"),
	}
	if mc.Host == "" || mc.From == "" {
		return mc, fmt.Errorf("mail.host and mail.from are required for notifications")
	}
	log.Info().Str("host", mc.Host).Int("port", mc.Port).Str("from", mc.From).Msg("Mail config loaded")
	return mc, nil
}
