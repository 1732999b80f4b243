package types

import "time"

// Notifier defines the interface for sending run summaries to external
// notification services.
type Notifier interface {
	// GetNames returns the configured service names (e.g. "telegram", "slack").
	GetNames() []string
	// SendSummary delivers a summary of the run's report. Elapsed is the total
	// run duration included in the message.
	SendSummary(report Report, elapsed time.Duration)
	// Close releases any resources held by the notifier.
	Close()
}
