package kafka

import "time"

// Events published BY the dashboard

type SystemStartedEvent struct {
	RunID                 string    `json:"run_id"`
	TotalTickets          int       `json:"total_tickets"`
	MaxTicketCapacity     int       `json:"max_ticket_capacity"`
	TicketReleaseRate     int       `json:"ticket_release_rate"`
	CustomerRetrievalRate int       `json:"customer_retrieval_rate"`
	Agents                int       `json:"agents"`
	StartedAt             time.Time `json:"started_at"`
	Timestamp             time.Time `json:"timestamp"`
}

type SystemStoppedEvent struct {
	RunID      string    `json:"run_id"`
	Dispatched int64     `json:"dispatched"`
	Failed     int64     `json:"failed"`
	StoppedAt  time.Time `json:"stopped_at"`
	Timestamp  time.Time `json:"timestamp"`
}

type SystemResetEvent struct {
	ResetAt   time.Time `json:"reset_at"`
	Timestamp time.Time `json:"timestamp"`
}

type ConfigurationSavedEvent struct {
	ConfigurationID       int64     `json:"configuration_id,omitempty"`
	TotalTickets          int       `json:"total_tickets"`
	MaxTicketCapacity     int       `json:"max_ticket_capacity"`
	TicketReleaseRate     int       `json:"ticket_release_rate"`
	CustomerRetrievalRate int       `json:"customer_retrieval_rate"`
	SavedAt               time.Time `json:"saved_at"`
	Timestamp             time.Time `json:"timestamp"`
}
