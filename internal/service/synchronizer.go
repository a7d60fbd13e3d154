package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

type SynchronizerConfig struct {
	PollInterval time.Duration
	// OnHealthChange is called from the poll loop whenever Healthy() flips.
	OnHealthChange func(healthy bool)
}

type statusSynchronizer struct {
	// Dependencies
	cli  remote.Client
	logs LogAggregator
	pub  SnapshotPublisher
	l    logger.Logger

	config SynchronizerConfig

	// State management
	mu        sync.RWMutex
	isRunning bool
	stopCh    chan struct{}
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	// seq numbers the ticks; statusSeq and logsSeq are the newest applied results.
	seq       uint64
	statusSeq uint64
	logsSeq   uint64

	status    models.TicketStatus
	hasStatus bool
	statusErr string
	logsErr   string
	health    SyncHealth
}

// NewStatusSynchronizer polls the service for ticket counts and log snapshots.
// pub may be nil.
func NewStatusSynchronizer(
	cli remote.Client,
	logs LogAggregator,
	pub SnapshotPublisher,
	l logger.Logger,
	cfg SynchronizerConfig,
) StatusSynchronizer {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	return &statusSynchronizer{
		cli:    cli,
		logs:   logs,
		pub:    pub,
		l:      l,
		config: cfg,
	}
}

func (s *statusSynchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return dbErrors.ErrSynchronizerRunning
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.isRunning = true
	s.cancel = cancel
	s.stopCh = make(chan struct{})
	s.health.IsRunning = true

	s.wg.Add(1)
	go s.pollLoop(loopCtx, s.stopCh)

	s.l.Infof(ctx, "Status synchronizer started, interval=%s", s.config.PollInterval)
	return nil
}

func (s *statusSynchronizer) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	s.health.IsRunning = false
	close(s.stopCh)
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.l.Info(context.Background(), "Status synchronizer stopped")
}

func (s *statusSynchronizer) TicketStatus() (models.TicketStatus, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status, s.hasStatus
}

func (s *statusSynchronizer) Health() SyncHealth {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

func (s *statusSynchronizer) pollLoop(ctx context.Context, stopCh <-chan struct{}) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	s.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-stopCh:
			return
		case <-ticker.C:
			s.poll(ctx)
		}
	}
}

// poll starts one status fetch and one log fetch and returns without waiting
// for either. A call that hangs never delays its sibling or the next tick.
func (s *statusSynchronizer) poll(ctx context.Context) {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.wg.Add(2)
	go s.fetchStatus(ctx, seq)
	go s.fetchLogs(ctx, seq)
}

func (s *statusSynchronizer) fetchStatus(ctx context.Context, seq uint64) {
	defer s.wg.Done()

	st, err := s.cli.GetTicketStatus(ctx)

	s.mu.Lock()
	if !s.accept(ctx, &s.statusSeq, seq) {
		s.mu.Unlock()
		return
	}
	if err == nil {
		s.status = *st
		s.hasStatus = true
	}
	t := s.record(&s.statusErr, "ticket status", err)
	s.mu.Unlock()

	s.afterFetch(ctx, t)
}

func (s *statusSynchronizer) fetchLogs(ctx context.Context, seq uint64) {
	defer s.wg.Done()

	entries, err := s.cli.GetLogs(ctx)

	s.mu.Lock()
	if !s.accept(ctx, &s.logsSeq, seq) {
		s.mu.Unlock()
		return
	}
	var scrolled bool
	if err == nil {
		scrolled = s.logs.Replace(entries)
	}
	t := s.record(&s.logsErr, "logs", err)
	status := s.status
	s.mu.Unlock()

	if scrolled {
		s.l.Debugf(ctx, "service.statusSynchronizer.fetchLogs: log grew to %d entries, auto-scroll", len(entries))
	}

	s.afterFetch(ctx, t)

	if s.pub != nil && err == nil {
		snap := PollSnapshot{
			TicketStatus: status,
			LogCount:     len(entries),
			Healthy:      t.health.Healthy(),
			PolledAt:     t.at,
		}
		if err := s.pub.PublishSnapshot(ctx, snap); err != nil {
			s.l.Warnf(ctx, "service.statusSynchronizer.fetchLogs: publish snapshot: %v", err)
		}
	}
}

// accept reports whether a result from poll seq may be applied. Results that
// arrive after Stop, or after a newer result of the same kind, are dropped.
// Must be called with s.mu held.
func (s *statusSynchronizer) accept(ctx context.Context, last *uint64, seq uint64) bool {
	if !s.isRunning || ctx.Err() != nil || seq <= *last {
		return false
	}
	*last = seq
	return true
}

type fetchOutcome struct {
	health     SyncHealth
	wasHealthy bool
	failed     bool
	at         time.Time
}

// record folds one fetch result into the health counters. The synchronizer is
// healthy again only once the latest status and log fetches both succeeded.
// Must be called with s.mu held.
func (s *statusSynchronizer) record(slot *string, what string, err error) fetchOutcome {
	out := fetchOutcome{wasHealthy: s.health.Healthy(), at: time.Now()}

	s.health.Polls++
	s.health.LastPollAt = out.at

	if err != nil {
		*slot = fmt.Sprintf("%s: %v", what, err)
		s.health.ConsecutiveFailures++
		s.health.TotalFailures++
		out.failed = true
	} else {
		*slot = ""
		if s.statusErr == "" && s.logsErr == "" {
			s.health.ConsecutiveFailures = 0
			s.health.LastSuccessAt = out.at
		}
	}

	var errs []string
	for _, e := range []string{s.statusErr, s.logsErr} {
		if e != "" {
			errs = append(errs, e)
		}
	}
	s.health.LastError = strings.Join(errs, "; ")

	out.health = s.health
	return out
}

func (s *statusSynchronizer) afterFetch(ctx context.Context, out fetchOutcome) {
	if out.failed {
		s.l.Warnf(ctx, "service.statusSynchronizer.poll: %s (consecutive failures: %d)",
			out.health.LastError, out.health.ConsecutiveFailures)
	}

	if out.wasHealthy != out.health.Healthy() && s.config.OnHealthChange != nil {
		s.config.OnHealthChange(out.health.Healthy())
	}
}
