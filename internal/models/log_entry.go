package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/util"
)

type EventType string

const (
	EventTypeSystem   EventType = "SYSTEM"
	EventTypeVendor   EventType = "VENDOR"
	EventTypeCustomer EventType = "CUSTOMER"
)

type LogEntry struct {
	ID        int64     `json:"id,omitempty"`
	EventType EventType `json:"eventType"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	ActorID   *int      `json:"actorId,omitempty"`
}

// UnmarshalJSON accepts the zone-less timestamps the ticket service writes.
func (e *LogEntry) UnmarshalJSON(data []byte) error {
	type Alias LogEntry
	aux := struct {
		*Alias
		Timestamp string `json:"timestamp"`
	}{Alias: (*Alias)(e)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Timestamp == "" {
		e.Timestamp = time.Time{}
		return nil
	}

	ts, err := util.ParseTimestamp(aux.Timestamp, time.Local)
	if err != nil {
		return fmt.Errorf("log entry %d: %w", e.ID, err)
	}
	e.Timestamp = ts
	return nil
}

// LogFilter selects which entries of the log stream are shown. The zero value is LogFilterAll.
type LogFilter string

const (
	LogFilterAll      LogFilter = "ALL"
	LogFilterSystem   LogFilter = LogFilter(EventTypeSystem)
	LogFilterVendor   LogFilter = LogFilter(EventTypeVendor)
	LogFilterCustomer LogFilter = LogFilter(EventTypeCustomer)
)

func ParseLogFilter(s string) (LogFilter, error) {
	switch f := LogFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case "", LogFilterAll:
		return LogFilterAll, nil
	case LogFilterSystem, LogFilterVendor, LogFilterCustomer:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log filter %q", s)
	}
}

func (f LogFilter) Match(e LogEntry) bool {
	return f == "" || f == LogFilterAll || EventType(f) == e.EventType
}
