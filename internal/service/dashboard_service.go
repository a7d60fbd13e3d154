package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/delivery/kafka/producer"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
	pkgLog "github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

type dashboardService struct {
	store ConfigurationStore
	sched OperationScheduler
	sync  StatusSynchronizer
	logs  LogAggregator
	cli   remote.Client
	prod  producer.Producer
	l     pkgLog.Logger

	// mu serialises the lifecycle actions; status is written only under it.
	mu     sync.Mutex
	status models.SystemStatus
	runID  string
}

func NewDashboardService(
	store ConfigurationStore,
	sched OperationScheduler,
	syncer StatusSynchronizer,
	logs LogAggregator,
	cli remote.Client,
	prod producer.Producer,
	l pkgLog.Logger,
) DashboardService {
	if prod == nil {
		prod = producer.NewNoopProducer()
	}
	s := &dashboardService{
		store:  store,
		sched:  sched,
		sync:   syncer,
		logs:   logs,
		cli:    cli,
		prod:   prod,
		l:      l,
		status: models.SystemStatusStopped,
	}
	store.OnSave(s.handleConfigurationSaved)
	return s
}

// Init loads the stored configuration and starts polling. A missing or
// unreachable configuration is not fatal; the operator can save one later.
func (s *dashboardService) Init(ctx context.Context) error {
	if _, err := s.store.Load(ctx); err != nil && !errors.Is(err, dbErrors.ErrConfigurationNotFound) {
		s.l.Warnf(ctx, "service.dashboardService.Init: %v", err)
	}

	return s.sync.Start(ctx)
}

func (s *dashboardService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == models.SystemStatusRunning {
		s.l.Warnf(ctx, "service.dashboardService.Start: %v", dbErrors.ErrAlreadyRunning)
		return dbErrors.ErrAlreadyRunning
	}

	cfg, ok := s.store.Current()
	if !ok {
		s.l.Warnf(ctx, "service.dashboardService.Start: %v", dbErrors.ErrConfigurationMissing)
		return dbErrors.ErrConfigurationMissing
	}

	set, err := s.sched.Start(ctx, cfg)
	if err != nil {
		s.l.Errorf(ctx, "service.dashboardService.Start: %v", err)
		return err
	}

	s.status = models.SystemStatusRunning
	s.runID = set.ID
	s.l.Infof(ctx, "System started, run_id=%s", set.ID)

	if err := s.prod.PublishSystemStarted(ctx, kafka.SystemStartedEvent{
		RunID:                 set.ID,
		TotalTickets:          cfg.TotalTickets,
		MaxTicketCapacity:     cfg.MaxTicketCapacity,
		TicketReleaseRate:     cfg.TicketReleaseRate,
		CustomerRetrievalRate: cfg.CustomerRetrievalRate,
		Agents:                set.Len(),
		StartedAt:             set.StartedAt,
	}); err != nil {
		s.l.Warnf(ctx, "service.dashboardService.Start: publish started event: %v", err)
	}

	return nil
}

// Stop always leaves the system stopped with no live agent timers.
func (s *dashboardService) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked(ctx)
}

func (s *dashboardService) stopLocked(ctx context.Context) {
	stats := s.sched.Stats()
	s.sched.Stop(ctx)

	if s.status != models.SystemStatusRunning {
		return
	}
	s.status = models.SystemStatusStopped

	ev := kafka.SystemStoppedEvent{RunID: s.runID, StoppedAt: time.Now()}
	for _, a := range stats.Agents {
		ev.Dispatched += a.Dispatched
		ev.Failed += a.Failed
	}
	s.runID = ""
	s.l.Infof(ctx, "System stopped, run_id=%s", ev.RunID)

	if err := s.prod.PublishSystemStopped(ctx, ev); err != nil {
		s.l.Warnf(ctx, "service.dashboardService.Stop: publish stopped event: %v", err)
	}
}

func (s *dashboardService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == models.SystemStatusRunning {
		return dbErrors.ErrConfigurationLocked
	}

	if err := s.cli.Reset(ctx); err != nil {
		s.l.Errorf(ctx, "service.dashboardService.Reset: %v", err)
		return err
	}

	if err := s.prod.PublishSystemReset(ctx, kafka.SystemResetEvent{ResetAt: time.Now()}); err != nil {
		s.l.Warnf(ctx, "service.dashboardService.Reset: publish reset event: %v", err)
	}
	return nil
}

// Close tears the dashboard down. Agents are stopped even if the operator left
// the system running.
func (s *dashboardService) Close(ctx context.Context) {
	s.Stop(ctx)
	s.sync.Stop()
}

func (s *dashboardService) Status() models.SystemStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *dashboardService) Configuration() (models.Configuration, bool) {
	return s.store.Current()
}

func (s *dashboardService) SaveConfiguration(ctx context.Context, cfg models.Configuration) (models.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status == models.SystemStatusRunning {
		return models.Configuration{}, dbErrors.ErrConfigurationLocked
	}

	return s.store.Save(ctx, cfg)
}

func (s *dashboardService) TicketStatus() models.TicketStatus {
	st, _ := s.sync.TicketStatus()
	return st
}

func (s *dashboardService) Logs() LogView {
	return s.logs.View()
}

// LogsByType asks the service for one event type. If the service cannot answer,
// the last polled snapshot is filtered instead.
func (s *dashboardService) LogsByType(ctx context.Context, f models.LogFilter) ([]models.LogEntry, error) {
	if f == "" || f == models.LogFilterAll {
		return s.logs.FilterBy(models.LogFilterAll), nil
	}

	entries, err := s.cli.GetLogsByType(ctx, models.EventType(f))
	if err != nil {
		s.l.Warnf(ctx, "service.dashboardService.LogsByType: %v, serving last snapshot", err)
		return s.logs.FilterBy(f), nil
	}
	return entries, nil
}

func (s *dashboardService) SetLogFilter(f models.LogFilter) {
	s.logs.SetFilter(f)
}

func (s *dashboardService) SetAutoScroll(enabled bool) {
	s.logs.SetAutoScroll(enabled)
}

func (s *dashboardService) Snapshot() DashboardSnapshot {
	snap := DashboardSnapshot{
		SystemStatus: s.Status(),
		TicketStatus: s.TicketStatus(),
		Logs:         s.logs.View(),
		Scheduler:    s.sched.Stats(),
		Sync:         s.sync.Health(),
	}
	if cfg, ok := s.store.Current(); ok {
		snap.Configuration = &cfg
		snap.Plan = s.sched.Plan(cfg)
	}
	return snap
}

func (s *dashboardService) handleConfigurationSaved(ctx context.Context, cfg models.Configuration) {
	plan := s.sched.Plan(cfg)
	if len(plan) > 0 {
		s.l.Infow(ctx, "Agent intervals recomputed for next start",
			"vendor_interval", plan[0].Interval,
			"customer_interval", plan[len(plan)-1].Interval,
		)
	}

	if err := s.prod.PublishConfigurationSaved(ctx, kafka.ConfigurationSavedEvent{
		ConfigurationID:       cfg.ID,
		TotalTickets:          cfg.TotalTickets,
		MaxTicketCapacity:     cfg.MaxTicketCapacity,
		TicketReleaseRate:     cfg.TicketReleaseRate,
		CustomerRetrievalRate: cfg.CustomerRetrievalRate,
		SavedAt:               time.Now(),
	}); err != nil {
		s.l.Warnf(ctx, "service.dashboardService.handleConfigurationSaved: publish: %v", err)
	}
}
