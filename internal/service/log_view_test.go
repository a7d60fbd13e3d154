package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
)

func sampleLogs() []models.LogEntry {
	base := time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC)
	return []models.LogEntry{
		{ID: 1, EventType: models.EventTypeSystem, Message: "New configuration saved", Timestamp: base},
		{ID: 2, EventType: models.EventTypeVendor, Message: "Added ticket: Ticket-1", Timestamp: base.Add(time.Second)},
		{ID: 3, EventType: models.EventTypeCustomer, Message: "Purchased Ticket-1", Timestamp: base.Add(2 * time.Second)},
		{ID: 4, EventType: models.EventTypeVendor, Message: "Added ticket: Ticket-2", Timestamp: base.Add(3 * time.Second)},
		{ID: 5, EventType: models.EventTypeSystem, Message: "All tickets have been sold", Timestamp: base.Add(4 * time.Second)},
	}
}

func ids(entries []models.LogEntry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func TestLogAggregatorFilterPreservesOrder(t *testing.T) {
	a := NewLogAggregator(false)
	a.Replace(sampleLogs())

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, ids(a.FilterBy(models.LogFilterAll)))
	assert.Equal(t, []int64{2, 4}, ids(a.FilterBy(models.LogFilterVendor)))
	assert.Equal(t, []int64{3}, ids(a.FilterBy(models.LogFilterCustomer)))
	assert.Equal(t, []int64{1, 5}, ids(a.FilterBy(models.LogFilterSystem)))

	a.SetFilter(models.LogFilterVendor)
	assert.Equal(t, []int64{2, 4}, ids(a.Filtered()))

	view := a.View()
	assert.Equal(t, models.LogFilterVendor, view.Filter)
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, []int64{2, 4}, ids(view.Entries))

	a.SetFilter("")
	assert.Len(t, a.Filtered(), 5)
}

func TestLogAggregatorAutoScroll(t *testing.T) {
	logs := sampleLogs()

	cases := []struct {
		name       string
		autoScroll bool
		prev, next int
		want       bool
	}{
		{"enabled and grew", true, 2, 3, true},
		{"enabled same length", true, 3, 3, false},
		{"enabled shrank", true, 4, 2, false},
		{"disabled and grew", false, 2, 5, false},
		{"enabled first snapshot", true, 0, 1, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := NewLogAggregator(false)
			a.Replace(logs[:tc.prev])
			a.SetAutoScroll(tc.autoScroll)

			before := a.View().ScrollSeq
			got := a.Replace(logs[:tc.next])
			assert.Equal(t, tc.want, got)

			if tc.want {
				assert.Equal(t, before+1, a.View().ScrollSeq)
			} else {
				assert.Equal(t, before, a.View().ScrollSeq)
			}
		})
	}
}

func TestLogAggregatorGrowthTrackedWhileDisabled(t *testing.T) {
	a := NewLogAggregator(false)
	logs := sampleLogs()

	a.Replace(logs[:3])
	a.SetAutoScroll(true)
	// Growth is measured against the previous snapshot even when it was taken with auto-scroll off.
	assert.False(t, a.Replace(logs[:3]))
	assert.True(t, a.Replace(logs[:4]))
}

func TestLogAggregatorReplaceCopies(t *testing.T) {
	a := NewLogAggregator(false)
	logs := sampleLogs()
	a.Replace(logs)

	logs[0].Message = "mutated"
	assert.Equal(t, "New configuration saved", a.Filtered()[0].Message)
}
