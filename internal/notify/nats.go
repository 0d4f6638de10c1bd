package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	ferrors "git.home.luguber.info/inful/bookpress/internal/foundation/errors"
	"git.home.luguber.info/inful/bookpress/internal/logfields"
)

const flushTimeout = 5 * time.Second

// Conn is the subset of *nats.Conn used for publication.
type Conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// Publisher sends events to a single subject.
type Publisher struct {
	conn    Conn
	subject string
}

// Connect dials the NATS server at url.
func Connect(url, subject string) (*Publisher, error) {
	conn, err := nats.Connect(url,
		nats.Name("bookpress"),
		nats.Timeout(flushTimeout),
		nats.MaxReconnects(2),
	)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNotify, "failed to connect to NATS").
			WithContext(logfields.KeyURL, url).
			Warning().
			Build()
	}
	slog.Debug("NATS client connected", logfields.URL(url), logfields.Subject(subject))
	return NewPublisher(conn, subject), nil
}

// NewPublisher wraps an existing connection.
func NewPublisher(conn Conn, subject string) *Publisher {
	return &Publisher{conn: conn, subject: subject}
}

// Subject returns the subject events are published to.
func (p *Publisher) Subject() string { return p.subject }

// Publish marshals ev and waits until the server has acknowledged it.
func (p *Publisher) Publish(ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to publish event").
			WithContext("subject", p.subject).
			Build()
	}
	if err := p.conn.FlushTimeout(flushTimeout); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNotify, "failed to flush event").
			WithContext("subject", p.subject).
			Build()
	}
	return nil
}

// Close releases the connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
