// Package metrics exposes refresh-run statistics as Prometheus metrics for
// the scheduled mode's HTTP endpoint.
package metrics
