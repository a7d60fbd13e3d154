package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

type SchedulerConfig struct {
	TimeUnit      time.Duration
	VendorCount   int
	CustomerCount int
}

// AgentTimerSet is the live agent population of one run. It is owned by the
// scheduler and is either fully running or fully stopped.
type AgentTimerSet struct {
	ID        string
	StartedAt time.Time

	timers []*agentTimer
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	stopped  bool
	inFlight atomic.Int64
}

type agentTimer struct {
	agent    models.Agent
	interval time.Duration
	ticker   *time.Ticker

	dispatched atomic.Int64
	succeeded  atomic.Int64
	failed     atomic.Int64

	mu      sync.Mutex
	lastErr string
}

// Agents lists the scheduled agents and their intervals.
func (set *AgentTimerSet) Agents() []AgentPlan {
	out := make([]AgentPlan, 0, len(set.timers))
	for _, t := range set.timers {
		out = append(out, AgentPlan{Agent: t.agent, Interval: t.interval})
	}
	return out
}

func (set *AgentTimerSet) Len() int {
	return len(set.timers)
}

func (set *AgentTimerSet) isStopped() bool {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.stopped
}

type operationScheduler struct {
	cli remote.Client
	l   logger.Logger
	cfg SchedulerConfig

	mu  sync.Mutex
	set *AgentTimerSet
}

func NewOperationScheduler(cli remote.Client, l logger.Logger, cfg SchedulerConfig) OperationScheduler {
	if cfg.TimeUnit <= 0 {
		cfg.TimeUnit = time.Second
	}
	return &operationScheduler{
		cli: cli,
		l:   l,
		cfg: cfg,
	}
}

func (s *operationScheduler) Plan(cfg models.Configuration) []AgentPlan {
	plan := make([]AgentPlan, 0, s.cfg.VendorCount+s.cfg.CustomerCount)
	for i := 1; i <= s.cfg.VendorCount; i++ {
		plan = append(plan, AgentPlan{
			Agent:    models.Agent{Kind: models.AgentKindVendor, ID: i},
			Interval: cfg.ReleaseInterval(s.cfg.TimeUnit),
		})
	}
	for i := 1; i <= s.cfg.CustomerCount; i++ {
		plan = append(plan, AgentPlan{
			Agent:    models.Agent{Kind: models.AgentKindCustomer, ID: i},
			Interval: cfg.RetrievalInterval(s.cfg.TimeUnit),
		})
	}
	return plan
}

func (s *operationScheduler) Start(ctx context.Context, cfg models.Configuration) (*AgentTimerSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set != nil {
		return nil, dbErrors.ErrSchedulerRunning
	}

	if cfg.TicketReleaseRate <= 0 || cfg.CustomerRetrievalRate <= 0 {
		return nil, dbErrors.NewValidationError("ticketReleaseRate and customerRetrievalRate must be greater than 0")
	}

	set := &AgentTimerSet{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		stopCh:    make(chan struct{}),
	}

	// Calls outlive the request that started the run; only Stop ends the schedule.
	runCtx := s.l.With(context.WithoutCancel(ctx), "run_id", set.ID)

	plan := s.Plan(cfg)
	for _, p := range plan {
		set.timers = append(set.timers, &agentTimer{
			agent:    p.Agent,
			interval: p.Interval,
		})
	}
	for _, t := range set.timers {
		t.ticker = time.NewTicker(t.interval)
	}

	set.wg.Add(len(set.timers))
	for _, t := range set.timers {
		go s.run(runCtx, set, t)
	}
	s.set = set

	s.l.Infow(runCtx, "Agent population started",
		"vendors", s.cfg.VendorCount,
		"customers", s.cfg.CustomerCount,
		"release_interval", cfg.ReleaseInterval(s.cfg.TimeUnit),
		"retrieval_interval", cfg.RetrievalInterval(s.cfg.TimeUnit),
	)

	return set, nil
}

// Stop cancels every timer of the current set. When it returns no agent will
// dispatch another call. Calls already in flight are left to finish and their
// results are dropped.
func (s *operationScheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set := s.set
	if set == nil {
		return
	}
	s.set = nil

	set.mu.Lock()
	set.stopped = true
	close(set.stopCh)
	set.mu.Unlock()

	for _, t := range set.timers {
		t.ticker.Stop()
	}
	set.wg.Wait()

	var dispatched, failed int64
	for _, t := range set.timers {
		dispatched += t.dispatched.Load()
		failed += t.failed.Load()
	}

	s.l.Infow(ctx, "Agent population stopped",
		"run_id", set.ID,
		"uptime", time.Since(set.StartedAt).Round(time.Millisecond),
		"dispatched", dispatched,
		"failed", failed,
		"in_flight", set.inFlight.Load(),
	)
}

func (s *operationScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set != nil
}

func (s *operationScheduler) LiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.set == nil {
		return 0
	}
	return s.set.Len()
}

func (s *operationScheduler) Stats() SchedulerStats {
	s.mu.Lock()
	set := s.set
	s.mu.Unlock()

	if set == nil {
		return SchedulerStats{}
	}

	stats := SchedulerStats{
		IsRunning:  true,
		RunID:      set.ID,
		StartedAt:  set.StartedAt,
		LiveTimers: set.Len(),
		InFlight:   set.inFlight.Load(),
		Agents:     make([]AgentStats, 0, set.Len()),
	}
	for _, t := range set.timers {
		t.mu.Lock()
		lastErr := t.lastErr
		t.mu.Unlock()

		stats.Agents = append(stats.Agents, AgentStats{
			Agent:      t.agent,
			Interval:   t.interval,
			Dispatched: t.dispatched.Load(),
			Succeeded:  t.succeeded.Load(),
			Failed:     t.failed.Load(),
			LastError:  lastErr,
		})
	}
	return stats
}

func (s *operationScheduler) run(ctx context.Context, set *AgentTimerSet, t *agentTimer) {
	defer set.wg.Done()

	for {
		select {
		case <-set.stopCh:
			return
		case <-t.ticker.C:
			s.dispatch(ctx, set, t)
		}
	}
}

// dispatch issues one agent action without blocking the agent's ticker.
func (s *operationScheduler) dispatch(ctx context.Context, set *AgentTimerSet, t *agentTimer) {
	set.mu.Lock()
	if set.stopped {
		set.mu.Unlock()
		return
	}
	set.inFlight.Add(1)
	t.dispatched.Add(1)
	set.mu.Unlock()

	go func() {
		defer set.inFlight.Add(-1)

		err := s.act(ctx, t.agent)
		if set.isStopped() {
			s.l.Debugf(ctx, "service.operationScheduler.dispatch: discarding %s result after stop", t.agent)
			return
		}

		if err != nil {
			t.failed.Add(1)
			t.mu.Lock()
			t.lastErr = err.Error()
			t.mu.Unlock()
			s.l.Warnf(ctx, "service.operationScheduler.dispatch: %s: %v", t.agent, err)
			return
		}

		t.succeeded.Add(1)
	}()
}

func (s *operationScheduler) act(ctx context.Context, a models.Agent) error {
	switch a.Kind {
	case models.AgentKindVendor:
		return s.cli.ReleaseTicket(ctx, a.ID)
	case models.AgentKindCustomer:
		return s.cli.PurchaseTicket(ctx, a.ID)
	default:
		return nil
	}
}
