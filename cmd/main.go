package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/config"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/zlog"

	"atsumeru/cmd/buildCFG"
	"atsumeru/internal/api/api"
	"atsumeru/internal/api/handler"
	rabbitReader "atsumeru/internal/consumerWorker"
	"atsumeru/internal/mailer"
	"atsumeru/internal/rabbit"
	"atsumeru/internal/repo"
	"atsumeru/internal/service"
)

func main() {
	zlog.Init()
	log := zlog.Logger

	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, using environment and config.yaml")
	}

	cfg := config.New()
	if err := cfg.Load("config.yaml", "", "RSVP"); err != nil {
		log.Fatal().Msgf("failed to load configuration: %v", err)
	}
	serverCfg := buildCFG.BuildServerConfig(cfg, &log)

	driver, err := buildCFG.BuildStorageDriver(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid storage config")
	}
	migrations := buildCFG.BuildMigrationConfig(cfg)
	migrationPath := migrations.Dir
	if !filepath.IsAbs(migrationPath) {
		cwd, err := os.Getwd()
		if err != nil {
			log.Fatal().Err(err).Msg("cannot get working directory")
		}
		migrationPath = filepath.Join(cwd, migrationPath)
	}

	var repository repo.Repository
	if driver == buildCFG.StorageMemory {
		repository = repo.NewMemory()
		log.Warn().Msg("Using in-memory storage, data is lost on restart")
	} else {
		repository = connectPostgres(cfg, &log, migrationPath)
	}

	rabbitCfg, err := buildCFG.BuildRabbitConfig(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load RabbitMQ config")
	}

	var publisher service.ActivityPublisher
	var reader *rabbitReader.Reader
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()

	if rabbitCfg.Enabled {
		mailCfg, err := buildCFG.BuildMailConfig(cfg, &log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load mail config")
		}
		rmq, err := rabbit.NewRabbit(rabbitCfg.Url, rabbitCfg.Exchange, rabbitCfg.Queue, &log)
		if err != nil {
			log.Fatal().Msgf("Failed to connect to RabbitMQ: %v", err)
		}
		defer rmq.Close()
		publisher = rmq

		m := mailer.New(mailer.Config{
			Host:     mailCfg.Host,
			Port:     mailCfg.Port,
			User:     mailCfg.User,
			Password: mailCfg.Password,
			From:     mailCfg.From,
			BaseURL:  mailCfg.BaseURL,
		}, &log)
		reader = rabbitReader.NewReader(rmq, repository, m, &log)
		reader.Start(workerCtx)
	}

	serviceInstance := service.NewService(repository, &log, publisher)
	app := api.NewRouters(&api.Routers{
		Handler:     handler.NewHandler(serviceInstance, &log, serverCfg.SecureCookies),
		Log:         &log,
		GinMode:     serverCfg.GinMode,
		CORSOrigins: serverCfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + serverCfg.Port,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting server on %s", serverCfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrChan <- fmt.Errorf("failed to start server: %w", err)
		}
	}()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-signalChan:
		log.Info().Msgf("Received signal %s. Initiating shutdown...", sig)
	case err := <-serverErrChan:
		log.Error().Msgf("Server error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Msgf("Error shutting down server: %v", err)
	}

	cancelWorkers()
	if reader != nil {
		reader.Stop()
	}

	if migrations.RollbackOnShutdown {
		log.Info().Msg("Rolling back migrations...")
		if err := repository.MigrateDown(migrationPath); err != nil {
			log.Error().Msgf("failed to rollback migrations: %v", err)
		} else {
			log.Info().Msg("Migrations rolled back successfully")
		}
	}
	log.Info().Msg("Shutdown complete")
}

func connectPostgres(cfg *config.Config, log *zerolog.Logger, migrationPath string) repo.Repository {
	masterDSN, slaveDSNs, poolOptions, err := buildCFG.BuildDBConfig(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build DB config")
	}
	db, err := dbpg.New(masterDSN, slaveDSNs, poolOptions)
	if err != nil {
		log.Fatal().Msgf("failed to connect to DB: %v", err)
	}
	if err := db.Master.Ping(); err != nil {
		log.Fatal().Msgf("DB ping failed: %v", err)
	}
	log.Info().Msg("Database connected successfully")

	repository, err := repo.NewRepository(db, log)
	if err != nil {
		log.Fatal().Msgf("failed to initialize repository: %v", err)
	}
	if err := repository.MigrateUp(migrationPath); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}
	log.Info().Msg("Migrations applied successfully")
	return repository
}
