// prepdesk - UPSC preparation client
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/upscprep/prepdesk/internal/apiclient"
	"github.com/upscprep/prepdesk/internal/attempt"
	"github.com/upscprep/prepdesk/internal/config"
	"github.com/upscprep/prepdesk/internal/logging"
	"github.com/upscprep/prepdesk/internal/session"
	"github.com/upscprep/prepdesk/internal/storage"
	"github.com/upscprep/prepdesk/internal/uploads"
	"github.com/upscprep/prepdesk/internal/views"
)

func main() {
	if err := run(); err != nil {
		if !errors.Is(err, errHelp) {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal; the environment is used as is.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog.Close()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Error("Failed to close storage", "error", closeErr)
		}
	}()

	creds := session.NewCredentials(store)
	sessions := session.NewStore(store, creds, logger)
	sessions.Initialize(ctx)

	router := views.NewRouter(views.Route{Name: views.RouteDashboard})

	opts := []apiclient.Option{
		apiclient.WithLogger(logger),
		apiclient.WithAuthLostHandler(views.AuthLostHandler(router, sessions, logger)),
	}
	if cfg.HTTPTimeout > 0 {
		opts = append(opts, apiclient.WithTimeout(cfg.HTTPTimeout))
	}
	client := apiclient.New(cfg.APIBaseURL, creds, opts...)

	uploader, err := newUploader(cfg)
	if err != nil {
		return err
	}

	app := views.New(views.Deps{
		Client:   client,
		Session:  sessions,
		Creds:    creds,
		Attempt:  attempt.New(),
		Router:   router,
		Uploader: uploader,
		Prompter: views.NewPrompter(os.Stdin, os.Stdout),
		Out:      os.Stdout,
		Logger:   logger,
	})

	logger.Debug("Starting", "api", client.BaseURL(), "storage", cfg.StorageDriver)

	cli := commandLine{
		out:      os.Stdout,
		sessions: sessions,
		router:   router,
		app:      app,
	}
	return cli.run(ctx, os.Args)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func newLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if cfg.LogFile == "-" {
		return logging.NewText(os.Stderr, level), nopCloser{}, nil
	}
	return logging.NewFile(cfg.LogFile, level)
}

func openStorage(cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case storage.DriverSQLite:
		return storage.Open(cfg.StorageDriver, storage.WithSQLitePath(cfg.SQLitePath()))
	case storage.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		return storage.Open(cfg.StorageDriver,
			storage.WithRedisClient(client),
			storage.WithRedisPrefix(cfg.Redis.Prefix),
			storage.WithRedisTTL(cfg.Redis.TTL),
		)
	default:
		return storage.Open(cfg.StorageDriver)
	}
}

func newUploader(cfg *config.Config) (uploads.Uploader, error) {
	if cfg.Uploads != config.UploadsSupabase {
		return uploads.DataURL{}, nil
	}
	s, err := uploads.NewSupabase(uploads.SupabaseConfig{
		URL:    cfg.Supabase.URL,
		APIKey: cfg.Supabase.AnonKey,
		Bucket: cfg.Supabase.Bucket,
	})
	if err != nil {
		return nil, fmt.Errorf("configure uploads: %w", err)
	}
	return s, nil
}
