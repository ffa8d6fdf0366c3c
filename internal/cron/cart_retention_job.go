package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"go.uber.org/multierr"
)

const (
	cartRetentionJobName      = "cart-retention"
	defaultCartRetention      = 30 * 24 * time.Hour
	defaultRetentionBatch     = 500
	maxRetentionBatchesPerRun = 200
	maxConsecutiveFailures    = 3
)

type idleCartDeleter interface {
	DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error)
}

type CartRetentionJobParams struct {
	Logger     *logger.Logger
	Repository idleCartDeleter
	Metrics    *metrics.CronJobMetrics
	Retention  time.Duration
	BatchSize  int
}

// NewCartRetentionJob deletes persisted carts idle for longer than Retention.
func NewCartRetentionJob(params CartRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultCartRetention
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultRetentionBatch
	}
	return &cartRetentionJob{
		logg:      params.Logger,
		repo:      params.Repository,
		metrics:   params.Metrics,
		retention: retention,
		batch:     batch,
		now:       time.Now,
	}, nil
}

type cartRetentionJob struct {
	logg      *logger.Logger
	repo      idleCartDeleter
	metrics   *metrics.CronJobMetrics
	retention time.Duration
	batch     int
	now       func() time.Time
}

func (j *cartRetentionJob) Name() string { return cartRetentionJobName }

func (j *cartRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var (
		deleted  int64
		errs     error
		failures int
	)
	for i := 0; i < maxRetentionBatchesPerRun; i++ {
		if err := ctx.Err(); err != nil {
			errs = multierr.Append(errs, err)
			break
		}
		n, err := j.repo.DeleteIdleBefore(ctx, cutoff, j.batch)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("batch %d: %w", i, err))
			failures++
			if failures >= maxConsecutiveFailures {
				break
			}
			continue
		}
		failures = 0
		deleted += n
		if n < int64(j.batch) {
			break
		}
	}
	j.metrics.AddRemoved(j.Name(), deleted)

	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":        cutoff,
		"retention":     j.retention.String(),
		"carts_deleted": deleted,
	})
	if errs != nil {
		j.logg.Warn(logCtx, "cart retention incomplete")
		return fmt.Errorf("cart retention: %w", errs)
	}
	j.logg.Info(logCtx, "cart retention complete")
	return nil
}
