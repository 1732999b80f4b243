package notifications

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	shoutrrrTypes "github.com/nicholas-fedor/shoutrrr/pkg/types"
	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

// sender defines the interface for sending Shoutrrr notifications.
// It abstracts the underlying service router.
type sender interface {
	Send(message string, params *shoutrrrTypes.Params) []error
}

// shoutrrrNotifier implements the types.Notifier interface on top of a
// Shoutrrr service router.
type shoutrrrNotifier struct {
	urls   []string
	router sender
	params *shoutrrrTypes.Params
	delay  time.Duration
}

// Config carries the notification settings read from flags.
type Config struct {
	URLs     []string      // Shoutrrr service URLs; empty disables notifications.
	Hostname string        // Optional custom hostname for the title.
	Delay    time.Duration // Delay applied before each send.
}

// GetScheme extracts the scheme part of a Shoutrrr URL.
// It returns "invalid" if no scheme is found.
func GetScheme(url string) string {
	schemeEnd := strings.Index(url, ":")
	if schemeEnd <= 0 {
		return "invalid"
	}

	return url[:schemeEnd]
}

// NewNotifier creates a notifier for the configured service URLs.
//
// Parameters:
//   - config: Notification settings; an empty URL list yields a nil notifier.
//
// Returns:
//   - types.Notifier: Ready notifier, or nil when notifications are disabled.
func NewNotifier(config Config) types.Notifier {
	if len(config.URLs) == 0 {
		return nil
	}

	logger := log.New(logrus.StandardLogger().WriterLevel(logrus.TraceLevel), "Shoutrrr: ", 0)

	router, err := shoutrrr.NewSender(logger, config.URLs...)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize Shoutrrr notifications")
	}

	return newNotifierWithSender(config, router)
}

// newNotifierWithSender wires a notifier to an arbitrary sender, allowing
// tests to inject a fake router.
func newNotifierWithSender(config Config, router sender) types.Notifier {
	hostname := config.Hostname
	if hostname == "" {
		hostname, _ = os.Hostname()
	}

	params := &shoutrrrTypes.Params{}
	params.SetTitle("imagerefresh run on " + hostname)

	return &shoutrrrNotifier{
		urls:   config.URLs,
		router: router,
		params: params,
		delay:  config.Delay,
	}
}

// GetNames returns a list of notification service names derived from URLs.
// It extracts the scheme from each URL as the service name.
func (n *shoutrrrNotifier) GetNames() []string {
	names := make([]string, len(n.urls))
	for i, url := range n.urls {
		names[i] = GetScheme(url)
	}

	return names
}

// SendSummary renders the run summary and sends it to every configured
// service. Send failures are logged and otherwise ignored.
//
// Parameters:
//   - report: Refresh report to summarize.
//   - elapsed: Wall-clock duration of the run.
func (n *shoutrrrNotifier) SendSummary(report types.Report, elapsed time.Duration) {
	if report == nil {
		return
	}

	time.Sleep(n.delay)

	message := RenderSummary(report, elapsed)

	for _, err := range n.router.Send(message, n.params) {
		if err != nil {
			logrus.WithError(err).Error("Failed to send notification")
		}
	}
}

// Close releases notifier resources. The service router holds none, so this
// exists to satisfy the interface.
func (n *shoutrrrNotifier) Close() {}
