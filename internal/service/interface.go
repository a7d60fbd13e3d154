package service

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
)

type ConfigurationStore interface {
	Load(ctx context.Context) (models.Configuration, error)
	Save(ctx context.Context, candidate models.Configuration) (models.Configuration, error)
	Current() (models.Configuration, bool)
	OnSave(fn func(ctx context.Context, cfg models.Configuration))
}

type OperationScheduler interface {
	Start(ctx context.Context, cfg models.Configuration) (*AgentTimerSet, error)
	Stop(ctx context.Context)
	Running() bool
	LiveTimers() int
	Plan(cfg models.Configuration) []AgentPlan
	Stats() SchedulerStats
}

type StatusSynchronizer interface {
	Start(ctx context.Context) error
	Stop()
	TicketStatus() (models.TicketStatus, bool)
	Health() SyncHealth
}

type LogAggregator interface {
	Replace(entries []models.LogEntry) (autoScroll bool)
	SetFilter(f models.LogFilter)
	SetAutoScroll(enabled bool)
	Filtered() []models.LogEntry
	FilterBy(f models.LogFilter) []models.LogEntry
	View() LogView
}

type DashboardService interface {
	Init(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Reset(ctx context.Context) error
	Close(ctx context.Context)

	Status() models.SystemStatus
	Configuration() (models.Configuration, bool)
	SaveConfiguration(ctx context.Context, cfg models.Configuration) (models.Configuration, error)
	TicketStatus() models.TicketStatus
	Logs() LogView
	LogsByType(ctx context.Context, f models.LogFilter) ([]models.LogEntry, error)
	SetLogFilter(f models.LogFilter)
	SetAutoScroll(enabled bool)
	Snapshot() DashboardSnapshot
}

// SnapshotPublisher fans poll results out to other viewers. Implementations must not block for long.
type SnapshotPublisher interface {
	PublishSnapshot(ctx context.Context, snap PollSnapshot) error
}
