package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	dbErrors "github.com/vogiaan1904/ticketbottle-dashboard/internal/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/service"
	pkgErrors "github.com/vogiaan1904/ticketbottle-dashboard/pkg/errors"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/response"
)

const serviceName = "ticketbottle-dashboard"

type Handler struct {
	svc       service.DashboardService
	l         logger.Logger
	validator *validator.Validate
}

func NewHandler(svc service.DashboardService, l logger.Logger) *Handler {
	return &Handler{
		svc:       svc,
		l:         l,
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// HealthCheck reports the dashboard process as healthy and includes the
// synchronizer's view of the ticket service.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	h.respondJSON(w, r, http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: serviceName,
		Sync:    snap.Sync,
	})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, r, h.svc.Snapshot())
}

func (h *Handler) GetConfiguration(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.svc.Configuration()
	if !ok {
		h.respondError(w, r, dbErrors.ErrConfigurationNotFound)
		return
	}
	h.respondOK(w, r, cfg)
}

func (h *Handler) SaveConfiguration(w http.ResponseWriter, r *http.Request) {
	var req models.Configuration
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, r, errInvalidBody.WithDetails(err.Error()))
		return
	}
	req.ID = 0

	saved, err := h.svc.SaveConfiguration(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r, saved)
}

func (h *Handler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, r, h.systemStatus())
}

func (h *Handler) StartSystem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Start(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r, h.systemStatus())
}

func (h *Handler) StopSystem(w http.ResponseWriter, r *http.Request) {
	h.svc.Stop(r.Context())
	h.respondOK(w, r, h.systemStatus())
}

func (h *Handler) ResetSystem(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Reset(r.Context()); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r, h.systemStatus())
}

func (h *Handler) GetTicketStatus(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, r, h.svc.TicketStatus())
}

func (h *Handler) GetLogs(w http.ResponseWriter, r *http.Request) {
	h.respondOK(w, r, h.svc.Logs())
}

func (h *Handler) GetLogsByType(w http.ResponseWriter, r *http.Request) {
	f, err := models.ParseLogFilter(chi.URLParam(r, "eventType"))
	if err != nil {
		h.respondError(w, r, dbErrors.NewValidationError(err.Error()))
		return
	}

	entries, err := h.svc.LogsByType(r.Context(), f)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r, entries)
}

func (h *Handler) SetLogFilter(w http.ResponseWriter, r *http.Request) {
	var req setLogFilterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	f, err := models.ParseLogFilter(req.Filter)
	if err != nil {
		h.respondError(w, r, dbErrors.NewValidationError(err.Error()))
		return
	}

	h.svc.SetLogFilter(f)
	h.respondOK(w, r, h.svc.Logs())
}

func (h *Handler) SetAutoScroll(w http.ResponseWriter, r *http.Request) {
	var req setAutoScrollRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.svc.SetAutoScroll(*req.Enabled)
	h.respondOK(w, r, h.svc.Logs())
}

// Helper functions

func (h *Handler) systemStatus() systemStatusResponse {
	snap := h.svc.Snapshot()
	return systemStatusResponse{
		Status:    snap.SystemStatus,
		Scheduler: snap.Scheduler,
	}
}

func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.respondError(w, r, errInvalidBody.WithDetails(err.Error()))
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		h.respondError(w, r, err)
		return false
	}
	return true
}

func (h *Handler) respondOK(w http.ResponseWriter, r *http.Request, data any) {
	if err := response.OK(w, data); err != nil {
		h.l.Errorf(r.Context(), "delivery.http.Handler.respondOK: %v", err)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, statusCode int, data any) {
	if err := response.JSON(w, statusCode, data); err != nil {
		h.l.Errorf(r.Context(), "delivery.http.Handler.respondJSON: %v", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	mapped := mapError(err)

	var httpErr *pkgErrors.HTTPError
	if errors.As(mapped, &httpErr) && httpErr.StatusCode < http.StatusInternalServerError {
		h.l.Debugf(r.Context(), "delivery.http.Handler: %s %s: %v", r.Method, r.URL.Path, err)
	} else {
		h.l.Errorf(r.Context(), "delivery.http.Handler: %s %s: %v", r.Method, r.URL.Path, err)
	}

	if rerr := response.Error(w, mapped); rerr != nil {
		h.l.Errorf(r.Context(), "delivery.http.Handler.respondError: %v", rerr)
	}
}
