package service

import (
	"time"

	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
)

type AgentPlan struct {
	Agent    models.Agent  `json:"agent"`
	Interval time.Duration `json:"interval"`
}

type AgentStats struct {
	Agent      models.Agent  `json:"agent"`
	Interval   time.Duration `json:"interval"`
	Dispatched int64         `json:"dispatched"`
	Succeeded  int64         `json:"succeeded"`
	Failed     int64         `json:"failed"`
	LastError  string        `json:"last_error,omitempty"`
}

type SchedulerStats struct {
	IsRunning  bool         `json:"is_running"`
	RunID      string       `json:"run_id,omitempty"`
	StartedAt  time.Time    `json:"started_at,omitempty"`
	LiveTimers int          `json:"live_timers"`
	InFlight   int64        `json:"in_flight"`
	Agents     []AgentStats `json:"agents,omitempty"`
}

type SyncHealth struct {
	IsRunning bool `json:"is_running"`
	// Polls counts applied fetch results, status and logs alike.
	Polls               int64     `json:"polls"`
	LastPollAt          time.Time `json:"last_poll_at,omitempty"`
	LastSuccessAt       time.Time `json:"last_success_at,omitempty"`
	ConsecutiveFailures int64     `json:"consecutive_failures"`
	TotalFailures       int64     `json:"total_failures"`
	LastError           string    `json:"last_error,omitempty"`
}

// Healthy reports whether the latest status and log fetches both succeeded.
func (h SyncHealth) Healthy() bool {
	return h.Polls > 0 && h.ConsecutiveFailures == 0
}

type LogView struct {
	Filter     models.LogFilter `json:"filter"`
	AutoScroll bool             `json:"auto_scroll"`
	// ScrollSeq increases every time an auto-scroll is triggered.
	ScrollSeq uint64            `json:"scroll_seq"`
	Total     int               `json:"total"`
	Entries   []models.LogEntry `json:"entries"`
}

type PollSnapshot struct {
	TicketStatus models.TicketStatus `json:"ticket_status"`
	LogCount     int                 `json:"log_count"`
	Healthy      bool                `json:"healthy"`
	PolledAt     time.Time           `json:"polled_at"`
}

type DashboardSnapshot struct {
	SystemStatus  models.SystemStatus   `json:"system_status"`
	Configuration *models.Configuration `json:"configuration,omitempty"`
	Plan          []AgentPlan           `json:"plan,omitempty"`
	TicketStatus  models.TicketStatus   `json:"ticket_status"`
	Logs          LogView               `json:"logs"`
	Scheduler     SchedulerStats        `json:"scheduler"`
	Sync          SyncHealth            `json:"sync"`
}
