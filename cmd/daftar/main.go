package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"daftar/internal/cache"
	"daftar/internal/config"
	"daftar/internal/gate"
	apphttp "daftar/internal/http"
	applog "daftar/internal/log"
	"daftar/internal/services"
	"daftar/internal/store"
	"daftar/internal/store/memory"
	"daftar/internal/store/sqlite"
)

func main() {
	// .env is optional, real deployments use environment variables.
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: applog.ComponentApp,
	})
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	var st store.Store
	switch cfg.DataBackend {
	case "sqlite":
		s, err := sqlite.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open SQLite store",
				applog.FieldError, err.Error(), "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		st = s
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath)
	default:
		st = memory.New()
		logger.Info("Initialized memory backend")
	}
	defer st.Close()

	settings, err := st.Settings(context.Background())
	if err != nil {
		logger.Error("Failed to load settings", applog.FieldError, err.Error())
		os.Exit(1)
	}

	g := gate.New(settings, gate.Policy{
		MaxAttempts: cfg.PinMaxAttempts,
		LockBase:    cfg.PinLockBase,
		LockCap:     cfg.PinLockCap,
	})

	ledger := services.NewLedgerService(st)
	stats := services.NewStatsService(st, cfg.StatsCacheSize, cfg.StatsCacheTTL)
	ledger.SetInvalidator(stats)

	caches := cache.NewManager()
	caches.Register(stats.Cache())
	caches.StartCleanup(time.Minute)
	defer caches.Stop()

	srv := apphttp.NewServer(":"+cfg.Port,
		ledger, stats,
		services.NewSearchService(st),
		services.NewStatementService(st),
		g, logger)
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		cancel()
	}()

	logger.Info("Starting daftar server", "port", cfg.Port, "backend", cfg.DataBackend,
		"pin_enabled", settings.PinEnabled)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
