package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"triarb/internal/arbitrage"
	"triarb/internal/config"
	"triarb/internal/database"
	"triarb/internal/exchange"
	"triarb/internal/metrics"
	"triarb/internal/notify"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("cannot load config: %v", err)
	}

	logger := newLogger(cfg.Logging.Level)

	reg := metrics.Init(logger)
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler(reg))
		server := &http.Server{Addr: cfg.Metrics.Addr, Handler: mux, ReadHeaderTimeout: 2 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancelShutdown()
			_ = server.Shutdown(shutdownCtx)
		}()
	}

	notifiers := notify.Multi{notify.NewLog(logger)}

	if cfg.Database.Enabled {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatalf("cannot connect to database: %v", err)
		}
		defer pool.Close()
		repo := database.NewPostgresRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			log.Fatalf("cannot migrate database: %v", err)
		}
		notifiers = append(notifiers, notify.NewRecorder(repo, logger))
	}

	if cfg.Redis.Enabled {
		publisher := notify.NewRedis(cfg.Redis, logger)
		defer publisher.Close()
		notifiers = append(notifiers, publisher)
	}

	client, err := exchange.NewClient(&cfg, logger)
	if err != nil {
		log.Fatalf("cannot create exchange client: %v", err)
	}

	logger.Info("starting triangular arbitrage engine",
		"venue", client.Name(), "fiat", cfg.Trading.FiatSymbol,
		"profitThreshold", cfg.Trading.ProfitThreshold, "dryRun", cfg.Trading.DryRun)

	engine := arbitrage.NewEngine(logger, &cfg, client, notifiers)
	if err := engine.Run(ctx); err != nil {
		logger.Error("engine stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
