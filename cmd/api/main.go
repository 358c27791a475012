package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"consolenav/internal/config"
	httpx "consolenav/internal/http"
	"consolenav/internal/logging"
	"consolenav/internal/services/data"
	"consolenav/internal/services/warmer"
	"consolenav/internal/services/workspace"
	"consolenav/internal/store/memory"
	"consolenav/internal/store/postgres"
	"consolenav/internal/store/rediscache"
	"consolenav/internal/store/repositories"

	"github.com/rs/zerolog/log"
)

type store interface {
	Apps() repositories.AppRepository
	Datasets() repositories.DatasetRepository
	Workspaces() repositories.WorkspaceRepository
	Ping(ctx context.Context) error
}

type pgStore struct{ *postgres.Repo }

func (s pgStore) Ping(ctx context.Context) error { return s.DB().Ping(ctx) }

func main() {
	cfg := config.Load()
	logCfg, err := logging.ParseConfig(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid logging configuration")
	}
	logger := logging.Setup(logCfg, "api")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init store
	var st store
	switch cfg.DB.Driver {
	case "memory":
		st = memory.New()
		log.Warn().Msg("using in-memory store; data is lost on restart")
	default:
		pool := postgres.MustOpen(ctx, cfg.DB.DSN)
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("schema migration failed")
		}
		st = pgStore{postgres.NewRepo(pool)}
	}

	// Page cache is optional
	var cache data.PageCache
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Open(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable")
		}
		defer rdb.Close()
		cache = rediscache.New(rdb, cfg.Redis.PageTTL)
	}

	workspaceService := workspace.NewService(st.Workspaces())
	dataService := data.NewService(st.Apps(), st.Datasets(), cache)

	if cfg.Warmer.Enabled && cache != nil {
		w := warmer.NewWorker(workspaceService, dataService, cfg.Warmer.Every, cfg.Warmer.PageLimit)
		go w.Run(ctx)
	}

	r := httpx.NewRouter(httpx.RouterDependencies{
		Config:           cfg,
		Logger:           logger,
		WorkspaceService: workspaceService,
		DataService:      dataService,
		DB:               st,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Str("driver", cfg.DB.Driver).Msgf("console API listening on :%s", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	cancel()
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	log.Info().Msg("server stopped")
}
