// Package reaper runs the periodic job that ends conversation sessions
// left idle past the configured timeout.
package reaper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// SessionExpirer ends idle sessions and reports how many were ended.
type SessionExpirer interface {
	ExpireIdle(ctx context.Context) (int64, error)
}

// Reaper schedules idle-session expiry on a cron spec.
type Reaper struct {
	cron    *cron.Cron
	expirer SessionExpirer
	logger  *slog.Logger
}

// New creates a reaper that runs expiry per cronSpec (e.g. "@every 5m").
func New(expirer SessionExpirer, cronSpec string, logger *slog.Logger) (*Reaper, error) {
	if expirer == nil {
		panic("expirer cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Reaper{
		cron:    cron.New(),
		expirer: expirer,
		logger:  logger.With(slog.String("component", "session_reaper")),
	}

	if _, err := r.cron.AddFunc(cronSpec, r.run); err != nil {
		return nil, fmt.Errorf("invalid reaper cron spec %q: %w", cronSpec, err)
	}

	return r, nil
}

// Start begins scheduling. It returns immediately; jobs run on the
// cron's own goroutine.
func (r *Reaper) Start() {
	r.cron.Start()
	r.logger.Info("session reaper started")
}

// Stop halts scheduling and waits for a running job to finish.
func (r *Reaper) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("session reaper stopped")
}

func (r *Reaper) run() {
	expired, err := r.expirer.ExpireIdle(context.Background())
	if err != nil {
		r.logger.Error("idle session expiry failed", slog.String("error", err.Error()))
		return
	}
	if expired > 0 {
		r.logger.Info("ended idle sessions", slog.Int64("count", expired))
	}
}
