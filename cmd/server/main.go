package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sekolahkita/school-content/pkg/schoolcontent/api"
	"github.com/sekolahkita/school-content/pkg/schoolcontent/config"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	svc, repo, err := cfg.BuildService(ctx)
	if err != nil {
		logger.Error("failed to build service", "error", err)
		os.Exit(1)
	}

	store, err := cfg.BuildBlobStore()
	if err != nil {
		logger.Error("failed to build blob store", "error", err)
		os.Exit(1)
	}

	notifier, err := cfg.BuildNotifier(repo, logger)
	if err != nil {
		logger.Error("failed to build push notifier", "error", err)
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterConfig{
		Service:        svc,
		Store:          store,
		Notifier:       notifier,
		AdminAuth:      api.NewAdminAuth(cfg.AdminSessionSecret),
		VAPIDPublicKey: cfg.VAPIDPublicKey,
		Development:    !cfg.IsProduction(),
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		logger.Info("school content server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"storage", cfg.StorageURL,
			"push_enabled", cfg.PushEnabled())

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server exiting")
}
