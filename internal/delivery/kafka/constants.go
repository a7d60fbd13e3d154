package kafka

const (
	TopicSystemStarted      = "dashboard.system.started"
	TopicSystemStopped      = "dashboard.system.stopped"
	TopicSystemReset        = "dashboard.system.reset"
	TopicConfigurationSaved = "dashboard.configuration.saved"
)
