package models

type SystemStatus string

const (
	SystemStatusStopped SystemStatus = "stopped"
	SystemStatusRunning SystemStatus = "running"
)
