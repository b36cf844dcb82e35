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

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/actuallystonmai/travel-recommender/internal/catalog"
	"github.com/actuallystonmai/travel-recommender/internal/config"
	"github.com/actuallystonmai/travel-recommender/internal/domain"
	"github.com/actuallystonmai/travel-recommender/internal/handler"
	"github.com/actuallystonmai/travel-recommender/internal/llm"
	"github.com/actuallystonmai/travel-recommender/internal/logging"
	"github.com/actuallystonmai/travel-recommender/internal/metrics"
	"github.com/actuallystonmai/travel-recommender/internal/model"
	"github.com/actuallystonmai/travel-recommender/internal/repository"
	"github.com/actuallystonmai/travel-recommender/internal/router"
	"github.com/actuallystonmai/travel-recommender/internal/service"
	"github.com/actuallystonmai/travel-recommender/internal/stats"
	"github.com/actuallystonmai/travel-recommender/seeds"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------ CLI subcommands ---------------
	if len(os.Args) > 1 {
		if err := runCommand(ctx, cfg, os.Args[1]); err != nil {
			logging.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
		}
		return
	}

	// ------------ Catalog ---------------
	cat, closeDB := buildCatalog(ctx, cfg)
	defer closeDB()
	metrics.CatalogSize.Set(float64(cat.Len()))

	// ------------ Redis (optional) ---------------
	var store *stats.Store
	if cfg.Redis.URL != "" {
		client, err := stats.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, stats disabled")
		} else {
			defer client.Close()
			store = stats.NewStore(client)
			logging.Info().Msg("connected to Redis")
		}
	}

	// ------------ Service ---------------
	svc, err := buildService(cfg, cat, store)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build service")
	}

	var statsReader handler.StatsReader
	if store != nil {
		statsReader = store
	}
	h := handler.NewHandler(svc, statsReader)

	// ---------------- Server --------------------
	routes := router.Setup(h, router.Options{
		RequestTimeout:    cfg.Server.RequestTimeout,
		CORSOrigins:       cfg.Security.CORSOrigins,
		RateLimitRequests: cfg.Security.RateLimitRequests,
		RateLimitWindow:   cfg.Security.RateLimitWindow,
		RateLimitDisabled: cfg.Security.RateLimitDisabled,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      routes,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("server running")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logging.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func runCommand(ctx context.Context, cfg *config.Config, cmd string) error {
	switch cmd {
	case "migrate-down", "migrate-up", "seed":
	default:
		return fmt.Errorf("unknown command %q (want migrate-up, migrate-down or seed)", cmd)
	}

	pool, err := connectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	switch cmd {
	case "migrate-down":
		return migrateDown(ctx, pool)
	case "migrate-up":
		return migrateUp(ctx, pool)
	default:
		if err := migrateUp(ctx, pool); err != nil {
			return err
		}
		return seeds.Setup(ctx, repository.NewRepository(pool), cfg.Catalog.DataPath)
	}
}

// buildCatalog loads the fallback rows once. A missing or unreadable source
// is logged and yields an empty catalog so the server still starts.
func buildCatalog(ctx context.Context, cfg *config.Config) (*catalog.Catalog, func()) {
	enricher := model.DefaultEnricher()
	noop := func() {}

	if cfg.Catalog.Source == config.CatalogSourcePostgres {
		pool, err := connectDB(ctx, cfg.Database)
		if err != nil {
			logging.Error().Err(err).Msg("catalog database unavailable, serving empty catalog")
			return catalog.New(nil), noop
		}
		rows, err := loadFromDB(ctx, pool, cfg.Catalog.DataPath)
		if err != nil {
			logging.Error().Err(err).Msg("failed to load catalog from database, serving empty catalog")
			return catalog.New(nil), pool.Close
		}
		logging.Info().Int("destinations", len(rows)).Msg("catalog loaded from PostgreSQL")
		return catalog.New(enricher.EnrichAll(rows)), pool.Close
	}

	rows, err := catalog.LoadFile(cfg.Catalog.DataPath)
	if err != nil {
		if catalog.IsMissing(err) {
			logging.Warn().Str("path", cfg.Catalog.DataPath).Msg("fallback file not found, serving empty catalog")
		} else {
			logging.Error().Err(err).Msg("failed to load fallback file, serving empty catalog")
		}
		return catalog.New(nil), noop
	}
	logging.Info().Int("destinations", len(rows)).Str("path", cfg.Catalog.DataPath).Msg("catalog loaded")
	return catalog.New(enricher.EnrichAll(rows)), noop
}

func loadFromDB(ctx context.Context, pool *pgxpool.Pool, seedPath string) ([]domain.DestinationRow, error) {
	if err := migrateUp(ctx, pool); err != nil {
		return nil, err
	}
	repo := repository.NewRepository(pool)
	if err := checkSeed(ctx, repo, seedPath); err != nil {
		return nil, err
	}
	return repo.ListDestinations(ctx)
}

func buildService(cfg *config.Config, cat *catalog.Catalog, store *stats.Store) (*service.Service, error) {
	live, err := model.NewScorer(cfg.Scoring.LiveStrategy)
	if err != nil {
		return nil, err
	}
	catScorer, err := model.NewScorer(cfg.Scoring.CatalogStrategy)
	if err != nil {
		return nil, err
	}

	deps := service.Deps{
		Parser:        llm.NewLineParser(),
		Enricher:      model.DefaultEnricher(),
		Catalog:       cat,
		LiveScorer:    live,
		CatalogScorer: catScorer,
	}

	if cfg.LLM.Enabled() {
		client := llm.NewClient(llm.ClientConfig{
			Endpoint:    cfg.LLM.Endpoint(),
			Token:       cfg.LLM.APIToken,
			MaxTokens:   cfg.LLM.MaxTokens,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		})
		deps.Completer = llm.NewBreakerClient(client, llm.BreakerConfig{
			Name:         "cloudflare-ai",
			MinRequests:  cfg.LLM.BreakerMinRequests,
			FailureRatio: cfg.LLM.BreakerFailureRatio,
			OpenTimeout:  cfg.LLM.BreakerOpenTimeout,
		})
		logging.Info().Str("model", cfg.LLM.Model).Msg("llm enabled")
	} else {
		logging.Warn().Msg("llm credentials missing, every request uses the fallback dataset")
	}

	if store != nil {
		deps.Recorder = store
	}

	return service.NewService(deps)
}

func connectDB(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database config: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.PoolSize)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := waitForDB(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	logging.Info().Msg("connected to PostgreSQL")
	return pool, nil
}

func waitForDB(ctx context.Context, pool *pgxpool.Pool) error {
	for i := 0; i < 30; i++ {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		logging.Info().Msgf("waiting for database... (%d/30)", i+1)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
		}
	}
	return fmt.Errorf("database connection timeout after 30s")
}

func migrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.down.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations dropped successfully")
	return nil
}

func migrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	sql, err := os.ReadFile("migrations/create_tables.up.sql")
	if err != nil {
		return fmt.Errorf("read migration file: %w", err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("execute migration: %w", err)
	}
	logging.Info().Msg("migrations applied successfully")
	return nil
}

func checkSeed(ctx context.Context, repo *repository.Repository, path string) error {
	count, err := repo.CountDestinations(ctx)
	if err != nil {
		return fmt.Errorf("check destinations count: %w", err)
	}
	if count > 0 {
		logging.Info().Msgf("database already seeded (%d destinations), skipping", count)
		return nil
	}
	return seeds.Setup(ctx, repo, path)
}
