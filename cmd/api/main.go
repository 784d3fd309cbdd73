// Command api serves the field task HTTP API.
//
// @title                       Field task API
// @version                     1.0
// @description                 Plans, completes and reports on field work tasks.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/tekblok/fieldtask/docs"
	"github.com/tekblok/fieldtask/internal/api"
	"github.com/tekblok/fieldtask/internal/core/ports"
	"github.com/tekblok/fieldtask/internal/core/service"
	mongostore "github.com/tekblok/fieldtask/internal/infrastructure/db/mongo"
	redisstore "github.com/tekblok/fieldtask/internal/infrastructure/db/redis"
	"github.com/tekblok/fieldtask/internal/infrastructure/geo"
	"github.com/tekblok/fieldtask/internal/infrastructure/http/handlers"
	"github.com/tekblok/fieldtask/internal/infrastructure/report"
	"github.com/tekblok/fieldtask/internal/infrastructure/storage"
	"github.com/tekblok/fieldtask/internal/pkg/config"
	"github.com/tekblok/fieldtask/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.PrettyLogs(),
		Service: "fieldtask",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Storage ---
	client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()
	if err := mongostore.Migrate(ctx, db); err != nil {
		return err
	}

	checks := map[string]handlers.Check{"mongodb": handlers.MongoCheck(db)}

	// --- Tokens ---
	tokenOpts := []service.TokenOption{service.WithTokenLogger(log)}
	if cfg.Auth.Revocation {
		rdb, err := redisstore.Connect(ctx, redisstore.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer rdb.Close()

		tokenOpts = append(tokenOpts, service.WithRevoker(redisstore.NewRevocationList(rdb, cfg.Auth.RefreshTokenTTL)))
		checks["redis"] = handlers.RedisCheck(rdb)
	} else {
		log.Warn().Msg("token revocation disabled")
	}

	tokens, err := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL, cfg.Auth.RefreshTokenTTL, tokenOpts...)
	if err != nil {
		return err
	}

	// --- Photos ---
	var photos ports.PhotoStore
	if cfg.S3.Bucket != "" {
		store, err := storage.NewS3PhotoStore(ctx, storage.S3Config{
			Bucket:          cfg.S3.Bucket,
			Region:          cfg.S3.Region,
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			PublicURL:       cfg.S3.PublicURL,
		})
		if err != nil {
			return err
		}
		photos = store
	} else {
		log.Warn().Msg("S3_BUCKET not set, photo upload disabled")
	}

	extractor := geo.New(
		geo.WithFetchTimeout(cfg.Geo.FetchTimeout),
		geo.WithLogger(log.With().Str("component", "geo").Logger()),
	)

	// --- Services ---
	users := mongostore.NewUserRepository(db)
	authService := service.NewAuthService(users, tokens, log)
	taskService := service.NewTaskService(mongostore.NewTaskRepository(db), users, extractor, photos, report.NewWorkbook(), log)
	catalogService := service.NewCatalogService(mongostore.NewCatalogRepository(db), log)

	e := api.NewRouter(api.Deps{
		Logger:   log,
		Tokens:   tokens,
		Users:    users,
		Auth:     authService,
		Tasks:    taskService,
		Catalogs: catalogService,
		Checks:   checks,
	})

	// --- Serve until signalled ---
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
