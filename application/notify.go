package application

import (
	"context"

	"github.com/sirupsen/logrus"

	"nrro-site/domain"
)

// Dispatcher delivers a notification, either by sending it or by queueing it.
type Dispatcher interface {
	Dispatch(ctx context.Context, n domain.Notification) error
}

// notifyAll sends every notification and only logs failures; the record that
// triggered them is already stored.
func notifyAll(ctx context.Context, d Dispatcher, log logrus.FieldLogger, ns ...domain.Notification) {
	for _, n := range ns {
		if len(n.To) == 0 {
			continue
		}
		if err := d.Dispatch(ctx, n); err != nil {
			log.WithError(err).WithField("template", n.Template).Warn("notification failed")
		}
	}
}
