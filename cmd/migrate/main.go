package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"food_explorer/internal/adapters/observability"
	redisad "food_explorer/internal/adapters/redis"
	"food_explorer/internal/adapters/sanity"
	"food_explorer/internal/app"
	"food_explorer/internal/domain"
	"food_explorer/internal/seed"
	"food_explorer/internal/shared"
	"food_explorer/internal/storage/filestore"
	mysqlrepo "food_explorer/internal/storage/mysql"
)

func main() {
	source := flag.String("source", "mock", "where to take restaurants from: mock|content")
	force := flag.Bool("force", false, "overwrite a store that already holds restaurants")
	flag.Parse()

	cfg := shared.Load()
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("source", *source).
		Str("backend", cfg.Backend).
		Int("workers", cfg.MigrateWorkers).
		Msg("migrate starting")

	store, closeFn := openStore(ctx, cfg)
	defer closeFn()

	var (
		rs  []domain.Restaurant
		err error
	)
	switch *source {
	case "mock":
		rs, err = seed.Records(time.Now(), app.NewID)
	case "content":
		rs, err = fromContent(ctx, cfg)
	default:
		log.Fatal().Str("source", *source).Msg("unknown source")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("load restaurants failed")
	}

	cache, closeCache := openCache(ctx, cfg)
	defer closeCache()

	// a successful seed drops cached lists so a running API sees the new data
	n, err := app.NewRestaurantService(store, cache).Seed(ctx, rs, *force)
	if errors.Is(err, domain.ErrConflict) {
		log.Fatal().Err(err).Msg("store is not empty, rerun with -force to overwrite")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed failed")
	}
	log.Info().Int("count", n).Msg("migration completed")
}

func openStore(ctx context.Context, cfg shared.Config) (domain.RestaurantStore, func()) {
	switch cfg.Backend {
	case shared.BackendFile:
		return filestore.New(cfg.DataFile), func() {}
	case shared.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		return repo, func() { _ = db.Close() }
	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("migrate needs a writable backend (file or mysql)")
		return nil, nil
	}
}

// openCache returns nil when REDIS_ADDR is unset or the server does not answer.
func openCache(ctx context.Context, cfg shared.Config) (domain.Cache, func()) {
	if cfg.RedisAddr == "" {
		return nil, func() {}
	}
	rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := rc.Ping(ctx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, cached lists expire after CACHE_TTL_SECONDS")
		_ = rc.Close()
		return nil, func() {}
	}
	return rc, func() { _ = rc.Close() }
}

func fromContent(ctx context.Context, cfg shared.Config) ([]domain.Restaurant, error) {
	base := sanity.BaseURL(cfg.SanityProjectID, cfg.SanityAPIVersion, cfg.SanityUseCDN)
	cl, err := sanity.New(base, cfg.SanityDataset, cfg.SanityToken, cfg.SanityRPS)
	if err != nil {
		return nil, err
	}
	rs, failed, err := app.CollectByArea(ctx, app.NewContentGateway(cl), domain.Areas, cfg.MigrateWorkers)
	if err != nil {
		return nil, err
	}
	if failed > 0 {
		log.Warn().Int("failed_areas", failed).Msg("some areas could not be fetched")
	}
	return rs, nil
}
