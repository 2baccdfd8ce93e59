// Package main implements the stream tuner CLI and HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/savid/stream-tuner/config"
	"github.com/savid/stream-tuner/handlers"
	"github.com/savid/stream-tuner/internal/data"
	"github.com/savid/stream-tuner/internal/transcode"
	"github.com/savid/stream-tuner/internal/types"
	"github.com/sirupsen/logrus"
)

func main() {
	// Configure logrus
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logrus.SetOutput(os.Stderr)

	cfg, err := config.New(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to parse log level")
	}
	logrus.SetLevel(level)

	logger := logrus.StandardLogger()

	store := data.NewStore()
	loader := data.NewLoader(cfg.PresetsFile, logger)
	refresher := data.NewRefresher(store, loader, cfg.ReloadInterval, logger)

	// Initial load is blocking; a broken preset file is fatal at startup
	if err := refresher.Refresh(); err != nil {
		logger.WithError(err).Fatal("Failed to load presets")
	}

	if !cfg.Serve {
		if err := printArgs(cfg, store, logger); err != nil {
			logger.WithError(err).Fatal("Failed to build ffmpeg arguments")
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.PresetsFile != "" && cfg.ReloadInterval > 0 {
		go refresher.Start(ctx)
	}

	serve(ctx, cancel, cfg, store, logger)
}

func printArgs(cfg *config.Config, store *data.Store, logger *logrus.Logger) error {
	table, _ := store.Table()
	builder := transcode.NewBuilder(table, cfg.StreamDefaults(), logger)

	result, err := builder.Build(transcode.Request{
		Source:  cfg.Source,
		Quality: types.QualityPreset(cfg.Quality),
		Seek:    cfg.Seek,
		Profile: transcode.OutputProfile(cfg.Profile),
		Filters: cfg.Filters,
		Output:  cfg.Output,
	})
	if err != nil {
		return err
	}

	logger.WithFields(logrus.Fields{
		"source":  result.Source,
		"quality": result.Quality,
		"fps":     result.Options.FrameRate,
		"bitrate": result.Options.BitrateVideo,
	}).Info("Resolved stream settings")

	_, err = fmt.Fprintln(os.Stdout, result.Command)
	return err
}

func serve(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, store *data.Store, logger *logrus.Logger) {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handlers.NewRouter(store, cfg.StreamDefaults(), logger),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutting down server...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.WithError(err).Error("Failed to gracefully shutdown")
		}
	}()

	logger.WithField("port", cfg.Port).Info("Starting stream tuner API")
	logger.WithField("presets", store.Source()).Info("Preset table loaded")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Fatal("Failed to start server")
	}

	<-ctx.Done()
	logger.Info("Server stopped")
}
