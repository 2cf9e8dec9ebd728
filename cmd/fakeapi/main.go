// fakeapi - local stand-in for the prepdesk backend
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"

	"github.com/upscprep/prepdesk/internal/config"
	"github.com/upscprep/prepdesk/internal/fakeapi"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.LoadServer()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	printStartUpBanner()
	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment())

	api, err := fakeapi.New(cfg, logger)
	if err != nil {
		slog.Error("Failed to initialize API", "error", err)
		os.Exit(1)
	}
	slog.Info("Demo account ready", "email", fakeapi.DemoEmail, "user_id", api.Demo().ID)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped successfully")
}

func printStartUpBanner() {
	figure.NewFigure("FAKEAPI", "", true).Print()
	fmt.Println("======================================================")
	fmt.Printf("prepdesk fixture API, demo login %s / %s\n\n", fakeapi.DemoEmail, fakeapi.DemoPassword)
}
