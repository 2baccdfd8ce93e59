package data

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Refresher reloads the preset table on an interval in the background.
type Refresher struct {
	store    *Store
	loader   *Loader
	interval time.Duration
	logger   *logrus.Logger
}

// NewRefresher creates a new refresh manager.
func NewRefresher(store *Store, loader *Loader, interval time.Duration, logger *logrus.Logger) *Refresher {
	return &Refresher{
		store:    store,
		loader:   loader,
		interval: interval,
		logger:   logger,
	}
}

// Start runs the reload cycle, stopping when the context is cancelled.
func (r *Refresher) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Preset refresher shutting down")
			return
		case <-ticker.C:
			err := r.Refresh()
			ticker.Reset(r.scheduleNextRefresh(err))
		}
	}
}

// Refresh loads the table once. The store keeps the previous table on failure.
func (r *Refresher) Refresh() error {
	r.logger.Debug("Reloading presets")

	table, err := r.loader.Load()
	if err != nil {
		r.logger.WithError(err).WithField("source", r.loader.Source()).Error("Failed to reload presets")
		return err
	}

	r.store.SetTable(table, r.loader.Source())

	r.logger.WithField("source", r.loader.Source()).Debug("Presets reloaded")
	return nil
}

func (r *Refresher) scheduleNextRefresh(lastError error) time.Duration {
	if lastError == nil {
		return r.interval
	}

	// Retry sooner after a failure, at most every 5 minutes.
	backoffDuration := r.interval / 2
	if backoffDuration > 5*time.Minute {
		backoffDuration = 5 * time.Minute
	}

	r.logger.WithField("interval", backoffDuration).Warn("Using backoff interval due to reload error")
	return backoffDuration
}
