package main

import (
	"context"
	"database/sql"
	"sync"
	"sync/atomic"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"steam_reviews/internal/adapters/observability"
	redisad "steam_reviews/internal/adapters/redis"
	"steam_reviews/internal/adapters/steam"
	"steam_reviews/internal/app"
	"steam_reviews/internal/shared"
	mysqlrepo "steam_reviews/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	if len(cfg.Apps) == 0 {
		log.Fatal().Msg("SNAPSHOT_APPS is empty, nothing to do")
	}
	log.Info().
		Str("base", cfg.SteamBase).
		Int("workers", cfg.Workers).
		Int("reviews", cfg.ReviewCount).
		Int("apps", len(cfg.Apps)).
		Msg("snapshotter starting")

	policy, err := shared.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		log.Fatal().Err(err).Str("file", cfg.PolicyFile).Msg("load sampling policy failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	client, err := steam.New(cfg.SteamBase, cfg.SteamRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Steam client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cache.Close()

	reports := app.NewReportService(steam.NewSource(client, policy), cache, policy, cfg.CacheTTL)
	snaps := app.NewSnapshotService(reports, mysqlrepo.New(db))

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var wg sync.WaitGroup
	var failed atomic.Int32

	for _, q := range cfg.Apps {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(query string) {
			defer wg.Done()
			defer sem.Release(1)

			s, err := snaps.Snapshot(ctx, query, cfg.ReviewCount)
			if err != nil {
				failed.Add(1)
				log.Warn().Str("query", query).Err(err).Msg("snapshot failed")
				return
			}
			log.Info().Str("query", query).Int64("app_id", s.AppID).Str("id", s.ID).Msg("snapshot ok")
		}(q)
	}

	wg.Wait()
	log.Info().Int("total", len(cfg.Apps)).Int32("failed", failed.Load()).Msg("snapshots completed")
}
