package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go"
)

const subjectPrefix = "notifications.expense."

// Publisher is the subset of *nats.Conn used here.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes events as JSON on notifications.expense.<event_type>.
type NATSPublisher struct {
	conn Publisher
}

func NewNATSPublisher(conn Publisher) *NATSPublisher {
	return &NATSPublisher{conn: conn}
}

// Connect opens a NATS connection that keeps reconnecting in the background.
func Connect(url string) (*nats.Conn, error) {
	nc, err := nats.Connect(url,
		nats.Name("outlay"),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				slog.Warn("nats disconnected", "error", err)
			}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to nats: %w", err)
	}

	return nc, nil
}

func (p *NATSPublisher) Notify(_ context.Context, events ...Event) error {
	var errs []error

	for _, e := range events {
		if len(e.Recipients) == 0 {
			continue
		}

		data, err := json.Marshal(e)
		if err != nil {
			errs = append(errs, fmt.Errorf("marshalling %s event: %w", e.Type, err))
			continue
		}

		subject := subjectPrefix + string(e.Type)
		if err := p.conn.Publish(subject, data); err != nil {
			errs = append(errs, fmt.Errorf("publishing %s: %w", subject, err))
			continue
		}

		slog.Debug("notification published", "subject", subject, "recipients", len(e.Recipients))
	}

	return errors.Join(errs...)
}
