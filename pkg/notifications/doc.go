// Package notifications delivers run summaries to external services via
// Shoutrrr service URLs.
package notifications
