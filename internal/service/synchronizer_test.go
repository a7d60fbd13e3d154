package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

type recordingPublisher struct {
	mu    sync.Mutex
	snaps []PollSnapshot
	err   error
}

func (p *recordingPublisher) PublishSnapshot(_ context.Context, snap PollSnapshot) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snaps = append(p.snaps, snap)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.snaps)
}

func newTestSynchronizer(cli *fakeClient, logs LogAggregator, pub SnapshotPublisher, onHealth func(bool)) StatusSynchronizer {
	return NewStatusSynchronizer(cli, logs, pub, logger.InitializeTestZapLogger(), SynchronizerConfig{
		PollInterval:   testUnit,
		OnHealthChange: onHealth,
	})
}

func TestSynchronizerReplacesStatusWholesale(t *testing.T) {
	cli := newFakeClient()
	cli.set(func(f *fakeClient) {
		f.status = models.TicketStatus{AvailableTickets: 5, SoldTickets: 1, RemainingTickets: 94, TotalTickets: 6}
		f.logs = sampleLogs()[:2]
	})
	logs := NewLogAggregator(false)
	pub := &recordingPublisher{}
	s := newTestSynchronizer(cli, logs, pub, nil)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool {
		st, ok := s.TicketStatus()
		return ok && st.TotalTickets == 6
	}, time.Second, testUnit)
	assert.Equal(t, 2, logs.View().Total)

	cli.set(func(f *fakeClient) {
		f.status = models.TicketStatus{AvailableTickets: 0, SoldTickets: 10}
		f.logs = sampleLogs()
	})
	require.Eventually(t, func() bool {
		st, _ := s.TicketStatus()
		return st == models.TicketStatus{AvailableTickets: 0, SoldTickets: 10}
	}, time.Second, testUnit)
	require.Eventually(t, func() bool { return logs.View().Total == 5 }, time.Second, testUnit)
	assert.Positive(t, pub.count())
}

func TestSynchronizerKeepsPollingThroughFailures(t *testing.T) {
	cli := newFakeClient()
	boom := &dbErrors.RemoteError{Op: "GET /tickets/status", Err: errors.New("connection refused")}
	cli.set(func(f *fakeClient) {
		f.statusErr = boom
		f.logsErr = boom
	})

	var flips atomic.Int32
	s := newTestSynchronizer(cli, NewLogAggregator(false), nil, func(bool) { flips.Add(1) })
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool { return s.Health().ConsecutiveFailures >= 5 }, time.Second, testUnit)
	h := s.Health()
	assert.True(t, h.IsRunning)
	assert.False(t, h.Healthy())
	assert.Contains(t, h.LastError, "connection refused")
	_, ok := s.TicketStatus()
	assert.False(t, ok)

	cli.set(func(f *fakeClient) {
		f.statusErr = nil
		f.logsErr = nil
		f.status = models.TicketStatus{TotalTickets: 3}
	})

	require.Eventually(t, func() bool { return s.Health().Healthy() }, time.Second, testUnit)
	h = s.Health()
	assert.GreaterOrEqual(t, h.TotalFailures, int64(5))
	assert.Empty(t, h.LastError)
	assert.Equal(t, int32(1), flips.Load())
}

func TestSynchronizerPartialFailure(t *testing.T) {
	cli := newFakeClient()
	cli.set(func(f *fakeClient) {
		f.status = models.TicketStatus{TotalTickets: 9}
		f.logsErr = errors.New("logs unavailable")
	})
	pub := &recordingPublisher{}
	s := newTestSynchronizer(cli, NewLogAggregator(false), pub, nil)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)

	require.Eventually(t, func() bool {
		st, ok := s.TicketStatus()
		return ok && st.TotalTickets == 9
	}, time.Second, testUnit)
	require.Eventually(t, func() bool {
		h := s.Health()
		return !h.Healthy() && h.ConsecutiveFailures > 1
	}, time.Second, testUnit)
	assert.Contains(t, s.Health().LastError, "logs unavailable")
	assert.Zero(t, pub.count())
}

func TestSynchronizerStartStop(t *testing.T) {
	cli := newFakeClient()
	s := newTestSynchronizer(cli, NewLogAggregator(false), nil, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.ErrorIs(t, s.Start(context.Background()), dbErrors.ErrSynchronizerRunning)

	require.Eventually(t, func() bool { return s.Health().Polls >= 2 }, time.Second, testUnit)
	s.Stop()
	s.Stop()

	polls := s.Health().Polls
	time.Sleep(5 * testUnit)
	assert.Equal(t, polls, s.Health().Polls)
	assert.False(t, s.Health().IsRunning)
}

func TestSynchronizerStopsWithParentContext(t *testing.T) {
	cli := newFakeClient()
	s := newTestSynchronizer(cli, NewLogAggregator(false), nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	require.Eventually(t, func() bool { return s.Health().Polls >= 1 }, time.Second, testUnit)

	cancel()
	time.Sleep(2 * testUnit)
	polls := s.Health().Polls
	time.Sleep(5 * testUnit)
	assert.Equal(t, polls, s.Health().Polls)

	s.Stop()
}

func TestSynchronizerHangingStatusDoesNotStallPolling(t *testing.T) {
	cli := newFakeClient()
	cli.set(func(f *fakeClient) {
		f.hangStatus = true
		f.logs = sampleLogs()
	})
	logs := NewLogAggregator(false)
	s := newTestSynchronizer(cli, logs, nil, nil)
	require.NoError(t, s.Start(context.Background()))

	// Every tick issues a fresh status call and a log fetch, even though no
	// status call ever answers.
	require.Eventually(t, func() bool {
		status, logCalls := cli.fetchCalls()
		return status >= 5 && logCalls >= 5
	}, time.Second, testUnit)
	assert.Equal(t, 5, logs.View().Total)
	_, ok := s.TicketStatus()
	assert.False(t, ok)

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on hanging status calls")
	}
}
