package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"loan-origination.backend/internal/infrastructure/metrics"
)

type staleCheckRepoStub struct {
	affected int64
	err      error
	calls    int
	before   time.Time
	reason   string
}

func (s *staleCheckRepoStub) FailStale(_ context.Context, before time.Time, reason string) (int64, error) {
	s.calls++
	s.before = before
	s.reason = reason
	return s.affected, s.err
}

func newTestJob(repo *staleCheckRepoStub, m *metrics.Metrics) *StaleCreditCheckJob {
	return NewStaleCreditCheckJob(repo, time.Millisecond, 10*time.Minute, m)
}

func TestNewStaleCreditCheckJob_Defaults(t *testing.T) {
	job := NewStaleCreditCheckJob(&staleCheckRepoStub{}, 0, 0, nil)
	require.Equal(t, time.Minute, job.interval)
	require.Equal(t, 10*time.Minute, job.staleAfter)
}

func TestSweep_ClosesStaleChecks(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	repo := &staleCheckRepoStub{affected: 3}
	job := newTestJob(repo, m)

	start := time.Now()
	job.sweep(context.Background())

	require.Equal(t, 1, repo.calls)
	require.Equal(t, staleCheckReason, repo.reason)
	require.WithinDuration(t, start.Add(-10*time.Minute), repo.before, time.Second)
	require.Equal(t, float64(3), testutil.ToFloat64(m.StaleChecksFailed))
}

func TestSweep_NothingStale(t *testing.T) {
	m := metrics.NewWithRegistry(prometheus.NewRegistry())
	repo := &staleCheckRepoStub{}
	job := newTestJob(repo, m)

	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)
	require.Equal(t, float64(0), testutil.ToFloat64(m.StaleChecksFailed))
}

func TestSweep_RepoError(t *testing.T) {
	repo := &staleCheckRepoStub{affected: 5, err: errors.New("db down")}
	job := newTestJob(repo, nil)

	job.sweep(context.Background())
	require.Equal(t, 1, repo.calls)
}

func TestStartStop_StopsByContext(t *testing.T) {
	job := newTestJob(&staleCheckRepoStub{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on context cancel")
	}
}

func TestStartStop_StopsByStopChannel(t *testing.T) {
	job := newTestJob(&staleCheckRepoStub{}, nil)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()
	job.Stop()
	job.Stop()

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("job did not stop on Stop()")
	}
}
