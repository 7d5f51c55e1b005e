// Package schedule takes the daily snapshot on a cron schedule.
package schedule

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/rustyeddy/papertrade/config"
	"github.com/rustyeddy/papertrade/snapshot"
)

// Snapshotter is the part of the engine the job needs.
type Snapshotter interface {
	TakeDailySnapshot() (snapshot.DailySnapshot, error)
}

type Runner struct {
	cron   *cron.Cron
	entry  cron.EntryID
	target Snapshotter
	logger *zap.Logger
}

// New validates the cron expression and timezone and registers the snapshot job. The
// job does not fire until Start is called.
func New(cfg config.ScheduleConfig, target Snapshotter, logger *zap.Logger) (*Runner, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := time.Local
	if cfg.Timezone != "" {
		l, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("schedule timezone %q: %w", cfg.Timezone, err)
		}
		loc = l
	}

	r := &Runner{
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		target: target,
		logger: logger,
	}
	id, err := r.cron.AddFunc(cfg.SnapshotSpec, r.Run)
	if err != nil {
		return nil, fmt.Errorf("schedule spec %q: %w", cfg.SnapshotSpec, err)
	}
	r.entry = id
	return r, nil
}

// Run takes one snapshot now. Failures are logged; the next tick retries.
func (r *Runner) Run() {
	snap, err := r.target.TakeDailySnapshot()
	if err != nil {
		r.logger.Error("scheduled snapshot failed", zap.Error(err))
		return
	}
	r.logger.Info("scheduled snapshot taken",
		zap.String("date", snap.Date),
		zap.String("total_assets", snap.TotalAssets.StringFixed(2)),
		zap.String("daily_return_pct", snap.DailyReturnPct.StringFixed(2)))
}

// Next reports when the job fires after t.
func (r *Runner) Next(t time.Time) time.Time {
	return r.cron.Entry(r.entry).Schedule.Next(t)
}

func (r *Runner) Start() {
	r.logger.Info("snapshot schedule started")
	r.cron.Start()
}

// Stop waits for a running job to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	r.logger.Info("snapshot schedule stopped")
}
