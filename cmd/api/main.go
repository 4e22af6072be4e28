package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baharkarakas/shelfhub/internal/api"
	"github.com/baharkarakas/shelfhub/internal/auth"
	"github.com/baharkarakas/shelfhub/internal/config"
	"github.com/baharkarakas/shelfhub/internal/db"
	"github.com/baharkarakas/shelfhub/internal/logger"
	"github.com/baharkarakas/shelfhub/internal/metrics"
	"github.com/baharkarakas/shelfhub/internal/repository/postgres"
	"github.com/baharkarakas/shelfhub/internal/services"
	"github.com/baharkarakas/shelfhub/internal/session"
	"github.com/baharkarakas/shelfhub/internal/storage"
)

const pruneEvery = time.Hour

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, dbPool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	sessions, err := session.Open(cfg.SessionDBPath)
	if err != nil {
		log.Error("session store", "err", err)
		os.Exit(1)
	}
	defer sessions.Close()
	go pruneSessions(ctx, sessions)

	files, err := openStorage(ctx, cfg)
	if err != nil {
		log.Error("storage", "driver", cfg.StorageDriver, "err", err)
		os.Exit(1)
	}

	repos := postgres.NewRepositories(dbPool)
	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.SessionTTL)

	metrics.Init()
	r := api.NewRouter(api.RouterDeps{
		Cfg:         cfg,
		UserSvc:     services.NewUserService(repos.Users, tm, sessions, files),
		CatalogSvc:  services.NewCatalogService(repos.Books, repos.Categories, repos.Engagement, files, services.DefaultBookHooks()...),
		RequestsSvc: services.NewRequestService(repos.Requests, files),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env, "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func openStorage(ctx context.Context, cfg config.Config) (storage.Files, error) {
	if cfg.StorageDriver == "b2" {
		return storage.NewB2(ctx, cfg.B2AccountID, cfg.B2AppKey, cfg.B2Bucket)
	}
	return storage.NewDisk(cfg.StorageDir)
}

// pruneSessions drops expired revocations until ctx ends.
func pruneSessions(ctx context.Context, s *session.Store) {
	t := time.NewTicker(pruneEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := s.Prune(); err != nil {
				slog.Warn("prune sessions", "err", err)
			}
		}
	}
}
