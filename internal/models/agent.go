package models

import "fmt"

type AgentKind string

const (
	AgentKindVendor   AgentKind = "vendor"
	AgentKindCustomer AgentKind = "customer"
)

// Agent is one simulated vendor or customer. IDs start at 1 within each kind.
type Agent struct {
	Kind AgentKind `json:"kind"`
	ID   int       `json:"id"`
}

func (a Agent) String() string {
	return fmt.Sprintf("%s-%d", a.Kind, a.ID)
}
