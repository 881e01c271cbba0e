package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtding233/luck-curve/internal/analysis"
	"github.com/xtding233/luck-curve/internal/config"
	"github.com/xtding233/luck-curve/internal/handler"
	"github.com/xtding233/luck-curve/internal/logger"
	"github.com/xtding233/luck-curve/internal/metrics"
	"github.com/xtding233/luck-curve/internal/scenario"
	"github.com/xtding233/luck-curve/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Init(cfg.Logger("luck-curve-server"))

	store, err := scenario.NewStore(scenario.NewLoader(cfg.ConfigDir), cfg.Profile)
	if err != nil {
		slog.Error("Failed to load scenario", "dir", cfg.ConfigDir, "profile", cfg.Profile, "error", err)
		os.Exit(1)
	}
	metrics.ScenarioFormulas.Set(float64(len(store.Current().Formulas)))

	cache := analysis.NewCache(cfg.CacheSize, cfg.CacheTTL)
	store.OnReload(func(sc *scenario.Scenario, err error) {
		metrics.RecordReload(err)
		if err != nil {
			return
		}
		cache.Purge()
		metrics.ScenarioFormulas.Set(float64(len(sc.Formulas)))
	})

	if cfg.WatchInterval > 0 {
		w := store.Watch(cfg.WatchInterval)
		defer w.Stop()
		slog.Info("Watching scenario files", "interval", cfg.WatchInterval)
	}

	srv := server.NewServer(cfg.Port, handler.New(store, cache))

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Stop(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
}
