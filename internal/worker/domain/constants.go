package domain

// Processing outcomes reported to metrics and logs
const (
	OutcomeRecorded  = "recorded"
	OutcomeDuplicate = "duplicate"
)

// ConsumerTagPrefix prefixes the RabbitMQ consumer tag of every worker instance
const ConsumerTagPrefix = "jobster-worker"
