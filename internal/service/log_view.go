package service

import (
	"sync"

	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
)

// logAggregator holds the latest log snapshot from the service. Growth is
// measured between consecutive snapshots, which assumes the service never
// truncates or reorders the stream it returns.
type logAggregator struct {
	mu         sync.RWMutex
	entries    []models.LogEntry
	prevLen    int
	filter     models.LogFilter
	autoScroll bool
	scrollSeq  uint64
}

func NewLogAggregator(autoScroll bool) LogAggregator {
	return &logAggregator{
		filter:     models.LogFilterAll,
		autoScroll: autoScroll,
	}
}

func (a *logAggregator) Replace(entries []models.LogEntry) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	grew := len(entries) > a.prevLen
	a.prevLen = len(entries)
	a.entries = append(make([]models.LogEntry, 0, len(entries)), entries...)

	if a.autoScroll && grew {
		a.scrollSeq++
		return true
	}
	return false
}

func (a *logAggregator) SetFilter(f models.LogFilter) {
	if f == "" {
		f = models.LogFilterAll
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.filter = f
}

func (a *logAggregator) SetAutoScroll(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.autoScroll = enabled
}

func (a *logAggregator) Filtered() []models.LogEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return filterEntries(a.entries, a.filter)
}

func (a *logAggregator) FilterBy(f models.LogFilter) []models.LogEntry {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return filterEntries(a.entries, f)
}

func (a *logAggregator) View() LogView {
	a.mu.RLock()
	defer a.mu.RUnlock()

	return LogView{
		Filter:     a.filter,
		AutoScroll: a.autoScroll,
		ScrollSeq:  a.scrollSeq,
		Total:      len(a.entries),
		Entries:    filterEntries(a.entries, a.filter),
	}
}

func filterEntries(entries []models.LogEntry, f models.LogFilter) []models.LogEntry {
	out := make([]models.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}
