package grpc

import (
	"context"

	"github.com/vogiaan1904/ticketbottle-dashboard/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health-check service that tracks the ticket service
// as seen by the status synchronizer. The empty name reports the process itself.
const ServiceName = "ticketbottle.dashboard.Sync"

type HealthService struct {
	srv *health.Server
	l   logger.Logger
}

func NewHealthService(l logger.Logger) *HealthService {
	srv := health.NewServer()
	srv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	srv.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)

	return &HealthService{
		srv: srv,
		l:   l,
	}
}

func (h *HealthService) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.srv)
}

// SetSyncHealthy is meant to be used as the synchronizer's health-change hook.
func (h *HealthService) SetSyncHealthy(healthy bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if healthy {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.srv.SetServingStatus(ServiceName, st)
	h.l.Infof(context.Background(), "Ticket service health changed: %s", st)
}

// Shutdown flips every service to NOT_SERVING and ignores later updates.
func (h *HealthService) Shutdown() {
	h.srv.Shutdown()
}
