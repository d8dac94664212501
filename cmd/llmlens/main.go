package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/earthboundkid/versioninfo/v2"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/riverqueue/river"
	"golang.org/x/sync/errgroup"

	"github.com/llmlens/llmlens/internal/background"
	"github.com/llmlens/llmlens/internal/background/digest_worker"
	"github.com/llmlens/llmlens/internal/background/report_worker"
	"github.com/llmlens/llmlens/internal/storage"
)

type Config struct {
	DevMode bool `split_words:"true" default:"true"`

	// Database configuration
	Database storage.DatabaseConfig

	// Sentry configuration
	SentryDSN string `split_words:"true"`

	// HTTP configuration
	HTTPAddr string `split_words:"true" default:"127.0.0.1:5920"`
}

func main() {
	help := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *help {
		envconfig.Usage("llmlens", &Config{})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg, ctx := errgroup.WithContext(ctx)

	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			slog.Error("loading .env file", "error", err)
			os.Exit(1)
		}
	}

	var c Config
	if err := envconfig.Process("llmlens", &c); err != nil {
		slog.Error("loading configuration", "error", err)
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if c.DevMode {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level: logLevel,
	})))
	slog.Info("starting llmlens report engine", "version", versioninfo.Short())

	if c.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:     c.SentryDSN,
			Release: versioninfo.Short(),
		}); err != nil {
			slog.Error("initializing sentry", "error", err)
			os.Exit(1)
		}
	}

	// Database setup
	db, err := storage.New(ctx, c.Database.URL())
	if err != nil {
		slog.Error("setting up database", "error", err)
		os.Exit(1)
	}
	store := storage.NewStore(db)

	// Background job setup
	workers := river.NewWorkers()
	river.AddWorker(workers, report_worker.New(store))
	river.AddWorker(workers, digest_worker.New(store))

	periodicJobs, err := background.WeeklyDigests()
	if err != nil {
		slog.Error("setting up weekly digests", "error", err)
		os.Exit(1)
	}

	riverClient, err := background.New(db, workers, periodicJobs)
	if err != nil {
		slog.Error("setting up background worker", "error", err)
		os.Exit(1)
	}

	// HTTP server setup
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	server := &http.Server{
		BaseContext: func(listener net.Listener) context.Context { return ctx },
		Addr:        c.HTTPAddr,
		Handler:     mux,
	}

	wg.Go(func() error {
		slog.Info("starting river client")
		return riverClient.Start(ctx)
	})
	wg.Go(func() error {
		slog.Info("starting HTTP server", "addr", c.HTTPAddr)
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		return nil
	})
	wg.Go(func() error {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

		select {
		case <-ctx.Done():
		case <-ch:
			slog.Info("shutting down")
			cancel()

			if err := server.Shutdown(context.Background()); err != nil {
				return err
			}
		}

		return nil
	})

	if err := wg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("running server", "error", err)
		os.Exit(1)
	}
}
