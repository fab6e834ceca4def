package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"loan-origination.backend/internal/infrastructure/metrics"
	"loan-origination.backend/pkg/logger"
)

const staleCheckReason = "Credit bureau did not respond before the check expired"

// StaleCheckRepository closes credit checks left PENDING
type StaleCheckRepository interface {
	FailStale(ctx context.Context, requestedBefore time.Time, reason string) (int64, error)
}

// StaleCreditCheckJob fails credit checks that never completed, e.g. after a crash
// between the audit insert and the bureau reply.
type StaleCreditCheckJob struct {
	repo       StaleCheckRepository
	interval   time.Duration
	staleAfter time.Duration
	metrics    *metrics.Metrics
	stop       chan struct{}
	stopOnce   sync.Once
}

func NewStaleCreditCheckJob(repo StaleCheckRepository, interval, staleAfter time.Duration, m *metrics.Metrics) *StaleCreditCheckJob {
	if interval <= 0 {
		interval = time.Minute
	}
	if staleAfter <= 0 {
		staleAfter = 10 * time.Minute
	}
	return &StaleCreditCheckJob{
		repo:       repo,
		interval:   interval,
		staleAfter: staleAfter,
		metrics:    m,
		stop:       make(chan struct{}),
	}
}

func (j *StaleCreditCheckJob) Start(ctx context.Context) {
	logger.Info(ctx, "Starting stale credit check job",
		zap.Duration("interval", j.interval),
		zap.Duration("stale_after", j.staleAfter),
	)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Stale credit check job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "Stale credit check job stopped")
			return
		case <-ticker.C:
			j.sweep(ctx)
		}
	}
}

func (j *StaleCreditCheckJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}

func (j *StaleCreditCheckJob) sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.staleAfter)
	n, err := j.repo.FailStale(ctx, cutoff, staleCheckReason)
	if err != nil {
		logger.Error(ctx, "Failed to close stale credit checks", zap.Error(err))
		return
	}
	if n == 0 {
		return
	}

	j.metrics.AddStaleChecksFailed(n)
	logger.Warn(ctx, "Closed stale credit checks", zap.Int64("count", n), zap.Time("requested_before", cutoff))
}
