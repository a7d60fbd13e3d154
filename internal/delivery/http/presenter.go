package http

import (
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/models"
	"github.com/vogiaan1904/ticketbottle-dashboard/internal/service"
)

type setLogFilterRequest struct {
	Filter string `json:"filter" validate:"required"`
}

type setAutoScrollRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type systemStatusResponse struct {
	Status    models.SystemStatus    `json:"status"`
	Scheduler service.SchedulerStats `json:"scheduler"`
}

type healthResponse struct {
	Status  string             `json:"status"`
	Service string             `json:"service"`
	Sync    service.SyncHealth `json:"sync"`
}
