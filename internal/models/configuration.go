package models

import "time"

// Configuration is the rate/capacity configuration the ticket service runs with.
// Rates are expressed in seconds.
type Configuration struct {
	ID                    int64 `json:"id,omitempty"`
	TotalTickets          int   `json:"totalTickets" validate:"gt=0"`
	TicketReleaseRate     int   `json:"ticketReleaseRate" validate:"gt=0"`
	CustomerRetrievalRate int   `json:"customerRetrievalRate" validate:"gt=0"`
	MaxTicketCapacity     int   `json:"maxTicketCapacity" validate:"gt=0,ltefield=TotalTickets"`
}

func (c Configuration) ReleaseInterval(unit time.Duration) time.Duration {
	return time.Duration(c.TicketReleaseRate) * unit
}

func (c Configuration) RetrievalInterval(unit time.Duration) time.Duration {
	return time.Duration(c.CustomerRetrievalRate) * unit
}
