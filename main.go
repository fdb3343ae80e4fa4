package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cafe-directory/app"
	"cafe-directory/config"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	logger, err := app.NewLogger(cfg)
	if err != nil {
		log.Fatal("Failed to configure logging:", err)
	}

	gin.SetMode(cfg.GinMode)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to start application")
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.WithError(err).Error("failed to close database")
		}
	}()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("server running on http://localhost%s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("graceful shutdown failed")
	}
	logger.Info("server stopped")
}
