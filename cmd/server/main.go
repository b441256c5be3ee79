package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"legaldraft-analyzer/internal/bootstrap"
	"legaldraft-analyzer/internal/pkg/logger"
	httptransport "legaldraft-analyzer/internal/transport/http"
)

func main() {
	ctx := context.Background()

	// A missing .env is fine; real deployments use the environment.
	_ = godotenv.Load()

	app, err := bootstrap.New(ctx)
	if err != nil {
		fallback, _ := logger.New("dev", "info")
		if fallback == nil {
			fallback = logger.Nop()
		}
		fallback.Fatal("bootstrap failed", "error", err)
	}
	log := app.Logger
	defer func() {
		if err := app.Close(); err != nil {
			log.Warn("close resources failed", "error", err)
		}
	}()

	router := httptransport.NewRouter(app)
	server := &http.Server{
		Addr:              app.Config.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", "error", err)
		}
	}()

	waitForShutdown(server, log)
}

func waitForShutdown(server *http.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("server shutting down")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}
}
