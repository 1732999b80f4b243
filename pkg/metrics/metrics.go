package metrics

import (
	"errors"
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

var defaultHandler *Metrics

// Metric holds data points from a single refresh run.
type Metric struct {
	Scanned      int // Number of images processed after exclusion.
	Updated      int // Number of images whose digest changed.
	Unchanged    int // Number of images already current.
	Failed       int // Number of images that failed.
	SkippedLocal int // Number of images skipped as local builds.
}

// Metrics handles processing and exposing refresh-run metrics.
type Metrics struct {
	channel      chan *Metric       // Channel for queuing metrics.
	scanned      prometheus.Gauge   // Gauge for processed images.
	updated      prometheus.Gauge   // Gauge for updated images.
	unchanged    prometheus.Gauge   // Gauge for unchanged images.
	failed       prometheus.Gauge   // Gauge for failed images.
	skippedLocal prometheus.Gauge   // Gauge for skipped local builds.
	total        prometheus.Counter // Counter for total runs.
	dropped      prometheus.Counter // Counter for dropped metrics.
	stopCh       chan struct{}      // Channel for shutdown signaling.
	shutdownOnce sync.Once          // Ensures shutdown runs only once.
}

// NewWithRegistry creates a new Metrics handler with a custom Prometheus
// registry.
//
// Parameters:
//   - registry: Prometheus registerer to use for metric registration.
//
// Returns:
//   - (*Metrics, error): Metrics handler with its processing goroutine
//     started, or an error if registration fails.
func NewWithRegistry(registry prometheus.Registerer) (*Metrics, error) {
	// channelBufferSize sets the metrics channel capacity.
	const channelBufferSize = 10

	handler := &Metrics{
		scanned: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagerefresh_images_scanned",
			Help: "Number of images processed during the last refresh run",
		}),
		updated: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagerefresh_images_updated",
			Help: "Number of images whose digest changed during the last refresh run",
		}),
		unchanged: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagerefresh_images_unchanged",
			Help: "Number of images already current during the last refresh run",
		}),
		failed: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagerefresh_images_failed",
			Help: "Number of images whose refresh failed during the last run",
		}),
		skippedLocal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "imagerefresh_images_skipped_local",
			Help: "Number of images skipped as local builds during the last refresh run",
		}),
		total: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imagerefresh_runs_total",
			Help: "Number of refresh runs since imagerefresh started",
		}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "imagerefresh_metrics_dropped_total",
			Help: "Number of metrics dropped due to full channel",
		}),
		channel: make(chan *Metric, channelBufferSize),
		stopCh:  make(chan struct{}),
	}

	collectors := []prometheus.Collector{
		handler.scanned,
		handler.updated,
		handler.unchanged,
		handler.failed,
		handler.skippedLocal,
		handler.total,
		handler.dropped,
	}
	for _, collector := range collectors {
		if err := registry.Register(collector); err != nil {
			alreadyRegistered := &prometheus.AlreadyRegisteredError{}
			if errors.As(err, &alreadyRegistered) {
				return nil, fmt.Errorf("failed to register metric: %w", err)
			}
		}
	}

	go handler.HandleUpdate()

	return handler, nil
}

// NewMetric creates a Metric from a refresh report.
//
// Parameters:
//   - report: Refresh report from types.Report.
//
// Returns:
//   - *Metric: New metric instance.
func NewMetric(report types.Report) *Metric {
	if report == nil {
		panic("NewMetric: report is nil")
	}

	return &Metric{
		Scanned:      len(report.All()),
		Updated:      len(report.Updated()),
		Unchanged:    len(report.Unchanged()),
		Failed:       len(report.Failed()),
		SkippedLocal: len(report.SkippedLocal()),
	}
}

// QueueIsEmpty checks if the metrics channel is empty.
//
// Returns:
//   - bool: True if empty, false otherwise.
func (m *Metrics) QueueIsEmpty() bool {
	return len(m.channel) == 0
}

// Register attempts to enqueue a metric for processing.
// If the channel is full, the metric is dropped and the dropped counter is
// incremented.
//
// Parameters:
//   - metric: Metric to register.
func (m *Metrics) Register(metric *Metric) {
	select {
	case m.channel <- metric:
	default:
		m.dropped.Inc()
	}
}

// Default initializes or returns the singleton Metrics handler. It panics on
// registration failure against the default registry.
//
// Returns:
//   - *Metrics: Metrics handler bound to the default Prometheus registry.
func Default() *Metrics {
	if defaultHandler != nil {
		return defaultHandler
	}

	var err error

	defaultHandler, err = NewWithRegistry(prometheus.DefaultRegisterer)
	if err != nil {
		panic(err)
	}

	return defaultHandler
}

// Shutdown gracefully stops the metrics processing goroutine.
// This method is idempotent and can be called multiple times safely.
func (m *Metrics) Shutdown() {
	m.shutdownOnce.Do(func() {
		close(m.stopCh)
	})
}

// HandleUpdate processes metrics from the channel.
func (m *Metrics) HandleUpdate() {
	for {
		select {
		case change, ok := <-m.channel:
			if !ok {
				return
			}

			m.total.Inc()
			m.scanned.Set(float64(change.Scanned))
			m.updated.Set(float64(change.Updated))
			m.unchanged.Set(float64(change.Unchanged))
			m.failed.Set(float64(change.Failed))
			m.skippedLocal.Set(float64(change.SkippedLocal))
		case <-m.stopCh:
			return
		}
	}
}
