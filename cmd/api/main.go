package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "steam_reviews/internal/adapters/http_server"
	"steam_reviews/internal/adapters/observability"
	redisad "steam_reviews/internal/adapters/redis"
	"steam_reviews/internal/adapters/steam"
	"steam_reviews/internal/app"
	"steam_reviews/internal/shared"
	mysqlrepo "steam_reviews/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	policy, err := shared.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.PolicyFile).Msg("load sampling policy failed")
	}

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()
	if err := cache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Msg("redis unreachable, requests will bypass the cache")
	}

	client, err := steam.New(cfg.SteamBase, cfg.SteamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Steam client")
	}

	// deps
	reports := app.NewReportService(steam.NewSource(client, policy), cache, policy, cfg.CacheTTL)
	snapshots := app.NewSnapshotService(reports, mysqlrepo.New(db))

	// http
	srv := server.New(90 * time.Second)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{Reports: reports, Snapshots: snapshots})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("API stopped")
}
