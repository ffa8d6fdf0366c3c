package cron

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

type fakeIdleDeleter struct {
	results []int64
	errs    []error
	calls   int
	cutoffs []time.Time
	limits  []int
}

func (f *fakeIdleDeleter) DeleteIdleBefore(ctx context.Context, cutoff time.Time, limit int) (int64, error) {
	i := f.calls
	f.calls++
	f.cutoffs = append(f.cutoffs, cutoff)
	f.limits = append(f.limits, limit)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return 0, err
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return 0, nil
}

func newRetentionJob(t *testing.T, repo idleCartDeleter, m *metrics.CronJobMetrics) *cartRetentionJob {
	t.Helper()
	job, err := NewCartRetentionJob(CartRetentionJobParams{
		Logger:     newTestLogger(&bytes.Buffer{}),
		Repository: repo,
		Metrics:    m,
		Retention:  48 * time.Hour,
		BatchSize:  10,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job.(*cartRetentionJob)
}

func TestCartRetentionJobRequiresDeps(t *testing.T) {
	if _, err := NewCartRetentionJob(CartRetentionJobParams{Repository: &fakeIdleDeleter{}}); err == nil {
		t.Fatal("expected error without logger")
	}
	if _, err := NewCartRetentionJob(CartRetentionJobParams{Logger: newTestLogger(&bytes.Buffer{})}); err == nil {
		t.Fatal("expected error without repository")
	}
	job, err := NewCartRetentionJob(CartRetentionJobParams{Logger: newTestLogger(&bytes.Buffer{}), Repository: &fakeIdleDeleter{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	j := job.(*cartRetentionJob)
	if j.retention != defaultCartRetention || j.batch != defaultRetentionBatch || j.Name() != "cart-retention" {
		t.Fatalf("unexpected defaults %+v", j)
	}
}

func TestCartRetentionJobDrainsBatches(t *testing.T) {
	repo := &fakeIdleDeleter{results: []int64{10, 10, 3}}
	reg := prometheus.NewRegistry()
	job := newRetentionJob(t, repo, metrics.NewCronJobMetrics(reg))
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if repo.calls != 3 {
		t.Fatalf("expected 3 batches, got %d", repo.calls)
	}
	wantCutoff := now.Add(-48 * time.Hour)
	for i, c := range repo.cutoffs {
		if !c.Equal(wantCutoff) || repo.limits[i] != 10 {
			t.Fatalf("batch %d: cutoff %s limit %d", i, c, repo.limits[i])
		}
	}

	mfs, _ := reg.Gather()
	var removed float64
	for _, mf := range mfs {
		if mf.GetName() == "storefront_cron_rows_removed_total" {
			removed = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	if removed != 23 {
		t.Fatalf("expected 23 removed, got %f", removed)
	}
}

func TestCartRetentionJobCombinesErrors(t *testing.T) {
	repo := &fakeIdleDeleter{
		errs: []error{errors.New("deadlock"), errors.New("timeout"), errors.New("conn reset")},
	}
	job := newRetentionJob(t, repo, nil)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if repo.calls != maxConsecutiveFailures {
		t.Fatalf("expected to stop after %d failures, got %d calls", maxConsecutiveFailures, repo.calls)
	}
	if got := len(multierr.Errors(errors.Unwrap(err))); got != 3 {
		t.Fatalf("expected 3 combined errors, got %d (%v)", got, err)
	}
	if !strings.Contains(err.Error(), "batch 1: timeout") {
		t.Fatalf("expected batch context in error, got %v", err)
	}
}

func TestCartRetentionJobRecoversAfterTransientFailure(t *testing.T) {
	repo := &fakeIdleDeleter{
		errs:    []error{errors.New("deadlock")},
		results: []int64{0, 4},
	}
	job := newRetentionJob(t, repo, nil)
	err := job.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "deadlock") {
		t.Fatalf("transient failure should still be reported, got %v", err)
	}
	if repo.calls != 2 {
		t.Fatalf("expected a retry after the failed batch, got %d calls", repo.calls)
	}
}

func TestCartRetentionJobHonoursCancel(t *testing.T) {
	repo := &fakeIdleDeleter{results: []int64{10, 10, 10}}
	job := newRetentionJob(t, repo, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := job.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("no batches should run after cancel, got %d", repo.calls)
	}
}
