package models

// TicketStatus mirrors the ticket pool counters reported by the service.
type TicketStatus struct {
	AvailableTickets int64 `json:"availableTickets"`
	SoldTickets      int64 `json:"soldTickets"`
	RemainingTickets int64 `json:"remainingTickets"`
	TotalTickets     int64 `json:"totalTickets"`
}
