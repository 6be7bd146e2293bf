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
	"golang.org/x/sync/errgroup"

	server "food_explorer/internal/adapters/http_server"
	"food_explorer/internal/adapters/observability"
	redisad "food_explorer/internal/adapters/redis"
	"food_explorer/internal/adapters/sanity"
	"food_explorer/internal/app"
	"food_explorer/internal/domain"
	"food_explorer/internal/shared"
	"food_explorer/internal/storage/filestore"
	mysqlrepo "food_explorer/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// cache stays a nil interface when redis is not configured
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unavailable, serving without cache")
			_ = rc.Close()
		} else {
			defer rc.Close()
			cache = rc
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis cache ok")
		}
	}

	h, closeFn := buildHandlers(ctx, cfg, cache)
	defer closeFn()

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(h)

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", cfg.HTTPAddr).Str("backend", cfg.Backend).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info().Msg("shutting down")
		return httpSrv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// buildHandlers wires the configured backend. The content backend is read-only.
func buildHandlers(ctx context.Context, cfg shared.Config, cache domain.Cache) (*server.Handlers, func()) {
	switch cfg.Backend {
	case shared.BackendFile:
		store := filestore.New(cfg.DataFile)
		log.Info().Str("path", store.Path()).Msg("file store ready")
		return &server.Handlers{
			Q: app.NewQueryService(app.StoreSource{Store: store}, nil, cache, cfg.CacheTTL),
			C: app.NewRestaurantService(store, cache),
		}, func() {}

	case shared.BackendMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		repo := mysqlrepo.New(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure schema failed")
		}
		return &server.Handlers{
			Q: app.NewQueryService(app.StoreSource{Store: repo}, nil, cache, cfg.CacheTTL),
			C: app.NewRestaurantService(repo, cache),
		}, func() { _ = db.Close() }

	case shared.BackendContent:
		base := sanity.BaseURL(cfg.SanityProjectID, cfg.SanityAPIVersion, cfg.SanityUseCDN)
		cl, err := sanity.New(base, cfg.SanityDataset, cfg.SanityToken, cfg.SanityRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize content client")
		}
		gw := app.NewContentGateway(cl)
		return &server.Handlers{Q: app.NewQueryService(gw, gw, cache, cfg.CacheTTL)}, func() {}

	default:
		log.Fatal().Str("backend", cfg.Backend).Msg("unknown DATA_BACKEND")
		return nil, nil
	}
}
