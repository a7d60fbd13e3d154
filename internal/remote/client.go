package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vogiaan1904/ticketbottle-dashboard/config"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

const maxErrorBody = 512

// Client is the contract of the external ticket-issuance service.
type Client interface {
	GetConfiguration(ctx context.Context) (*models.Configuration, error)
	SaveConfiguration(ctx context.Context, cfg models.Configuration) (*models.Configuration, error)
	GetTicketStatus(ctx context.Context) (*models.TicketStatus, error)
	ReleaseTicket(ctx context.Context, vendorID int) error
	PurchaseTicket(ctx context.Context, customerID int) error
	GetLogs(ctx context.Context) ([]models.LogEntry, error)
	GetLogsByType(ctx context.Context, eventType models.EventType) ([]models.LogEntry, error)
	GetHealth(ctx context.Context) (*Health, error)
	Reset(ctx context.Context) error
}

type Health struct {
	Status             string `json:"status"`
	DatabaseConnection string `json:"databaseConnection,omitempty"`
	Timestamp          int64  `json:"timestamp,omitempty"`
}

type httpClient struct {
	baseURL string
	hc      *http.Client
	l       logger.Logger
}

func NewHTTPClient(cfg config.RemoteConfig, l logger.Logger) Client {
	return &httpClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		hc:      &http.Client{Timeout: cfg.RequestTimeout},
		l:       l,
	}
}

func (c *httpClient) GetConfiguration(ctx context.Context) (*models.Configuration, error) {
	var out models.Configuration
	err := c.do(ctx, http.MethodGet, "/configuration", nil, &out)
	if err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, dbErrors.ErrConfigurationNotFound
		}
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) SaveConfiguration(ctx context.Context, cfg models.Configuration) (*models.Configuration, error) {
	var out models.Configuration
	if err := c.do(ctx, http.MethodPost, "/configuration", cfg, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) GetTicketStatus(ctx context.Context) (*models.TicketStatus, error) {
	var out models.TicketStatus
	if err := c.do(ctx, http.MethodGet, "/tickets/status", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) ReleaseTicket(ctx context.Context, vendorID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tickets/vendor/%d", vendorID), nil, nil)
}

func (c *httpClient) PurchaseTicket(ctx context.Context, customerID int) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/tickets/customer/%d", customerID), nil, nil)
}

func (c *httpClient) GetLogs(ctx context.Context) ([]models.LogEntry, error) {
	out := make([]models.LogEntry, 0)
	if err := c.do(ctx, http.MethodGet, "/logs", nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *httpClient) GetLogsByType(ctx context.Context, eventType models.EventType) ([]models.LogEntry, error) {
	out := make([]models.LogEntry, 0)
	if err := c.do(ctx, http.MethodGet, "/logs/"+string(eventType), nil, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *httpClient) GetHealth(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.do(ctx, http.MethodGet, "/system/health", nil, &out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *httpClient) Reset(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/system/reset", nil, nil)
}

func (c *httpClient) do(ctx context.Context, method, path string, in, out any) error {
	op := method + " " + path

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("remote %s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &dbErrors.RemoteError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		return &dbErrors.RemoteError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.l.Debugf(ctx, "remote.httpClient.do: %s -> %d in %s", op, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &dbErrors.RemoteError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(msg)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &dbErrors.RemoteError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	return nil
}

func isStatus(err error, code int) bool {
	re, ok := err.(*dbErrors.RemoteError)
	return ok && re.StatusCode == code
}
