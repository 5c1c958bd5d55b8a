package notify

import (
	"context"
	"fmt"

	"wahoowatch/models"

	log "github.com/sirupsen/logrus"
)

// Notifier is a single notification sink.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, version models.Version) error
}

// Set fans a newly recorded version out to every configured sink. Sink
// failures are logged and swallowed so one sink can neither abort the run nor
// starve the others.
type Set struct {
	notifiers []Notifier
}

func NewSet(notifiers ...Notifier) *Set {
	return &Set{notifiers: notifiers}
}

// Enabled reports whether at least one sink is configured.
func (set *Set) Enabled() bool {
	return len(set.notifiers) > 0
}

// Announce sends the version to all sinks, one record at a time.
func (set *Set) Announce(ctx context.Context, version models.Version) {
	for _, notifier := range set.notifiers {
		if err := notifier.Notify(ctx, version); err != nil {
			log.WithFields(log.Fields{
				"notifier": notifier.Name(),
				"device":   version.Device,
				"version":  version.Version,
				"error":    err,
			}).Error("Notification failed")
			continue
		}

		log.WithFields(log.Fields{
			"notifier": notifier.Name(),
			"device":   version.Device,
			"version":  version.Version,
		}).Info("Notification sent")
	}
}

// Message is the human readable announcement text shared by all sinks.
func Message(version models.Version) string {
	return fmt.Sprintf("New %s firmware: version %s (%s)\n%s", version.Device, version.Version, version.ReleaseType, version.Url)
}
