package service

import (
	"context"
	"sync"

	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/remote"
)

// fakeClient is an in-memory ticket service used by the service tests.
type fakeClient struct {
	mu sync.Mutex

	config    *models.Configuration
	status    models.TicketStatus
	logs      []models.LogEntry
	saveCalls int
	resets    int
	saveErr   error
	statusErr error
	logsErr   error
	// hangStatus makes status calls block until their context is done.
	hangStatus  bool
	statusCalls int
	logsCalls   int

	vendorCalls   map[int]int
	customerCalls map[int]int
	failVendor    map[int]error
	// blockCustomers makes customer calls hang until release is closed.
	blockCustomers bool
	release        chan struct{}
}

var _ remote.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{
		vendorCalls:   map[int]int{},
		customerCalls: map[int]int{},
		failVendor:    map[int]error{},
		release:       make(chan struct{}),
	}
}

func (f *fakeClient) GetConfiguration(context.Context) (*models.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.config == nil {
		return nil, dbErrors.ErrConfigurationNotFound
	}
	c := *f.config
	return &c, nil
}

func (f *fakeClient) SaveConfiguration(_ context.Context, cfg models.Configuration) (*models.Configuration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	cfg.ID = int64(f.saveCalls)
	f.config = &cfg
	c := cfg
	return &c, nil
}

func (f *fakeClient) GetTicketStatus(ctx context.Context) (*models.TicketStatus, error) {
	f.mu.Lock()
	f.statusCalls++
	if f.hangStatus {
		f.mu.Unlock()
		<-ctx.Done()
		return nil, ctx.Err()
	}
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	st := f.status
	return &st, nil
}

func (f *fakeClient) ReleaseTicket(_ context.Context, vendorID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vendorCalls[vendorID]++
	return f.failVendor[vendorID]
}

func (f *fakeClient) PurchaseTicket(_ context.Context, customerID int) error {
	f.mu.Lock()
	f.customerCalls[customerID]++
	block := f.blockCustomers
	f.mu.Unlock()

	if block {
		<-f.release
	}
	return nil
}

func (f *fakeClient) GetLogs(context.Context) ([]models.LogEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logsCalls++
	if f.logsErr != nil {
		return nil, f.logsErr
	}
	return append([]models.LogEntry(nil), f.logs...), nil
}

func (f *fakeClient) GetLogsByType(_ context.Context, t models.EventType) ([]models.LogEntry, error) {
	logs, err := f.GetLogs(context.Background())
	if err != nil {
		return nil, err
	}
	return filterEntries(logs, models.LogFilter(t)), nil
}

func (f *fakeClient) GetHealth(context.Context) (*remote.Health, error) {
	return &remote.Health{Status: "UP"}, nil
}

func (f *fakeClient) Reset(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resets++
	return nil
}

func (f *fakeClient) totalAgentCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.vendorCalls {
		n += c
	}
	for _, c := range f.customerCalls {
		n += c
	}
	return n
}

func (f *fakeClient) vendorCount(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.vendorCalls[id]
}

func (f *fakeClient) customerCount(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.customerCalls[id]
}

func (f *fakeClient) fetchCalls() (status, logs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statusCalls, f.logsCalls
}

func (f *fakeClient) set(fn func(f *fakeClient)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}
