package errors

import "errors"

var (
	ErrConfigurationMissing = errors.New("configuration missing: please configure the system first")
	ErrAlreadyRunning       = errors.New("system is already running")
	ErrConfigurationLocked  = errors.New("configuration cannot be changed while the system is running")
	ErrSchedulerRunning     = errors.New("operation scheduler is already running")
	ErrSynchronizerRunning  = errors.New("status synchronizer is already running")
)
