package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
)

func NewRouter(h *Handler, l logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(l))
	r.Use(middleware.Recoverer)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)

		r.Get("/configuration", h.GetConfiguration)
		r.Post("/configuration", h.SaveConfiguration)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", h.GetSystemStatus)
			r.Post("/start", h.StartSystem)
			r.Post("/stop", h.StopSystem)
			r.Post("/reset", h.ResetSystem)
		})

		r.Get("/tickets/status", h.GetTicketStatus)

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", h.GetLogs)
			r.Get("/{eventType}", h.GetLogsByType)
			r.Put("/filter", h.SetLogFilter)
			r.Put("/autoscroll", h.SetAutoScroll)
		})
	})

	return r
}
