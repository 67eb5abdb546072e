package notify

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"shiftclose/internal/errs"
	"shiftclose/internal/ports"
)

// publisher is the part of *nats.Conn the notifier uses.
type publisher interface {
	Publish(subject string, data []byte) error
	FlushWithContext(ctx context.Context) error
}

// NATSNotifier publishes shift notices as JSON on
// "{prefix}.{kind}", e.g. "shiftclose.shift.finished".
type NATSNotifier struct {
	conn   *nats.Conn
	pub    publisher
	prefix string
}

var _ ports.ShiftNotifier = (*NATSNotifier)(nil)

func NewNATSNotifier(url string, subjectPrefix string) (*NATSNotifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("nats url is required")
	}

	conn, err := nats.Connect(url,
		nats.Name("shiftclose"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(10),
	)
	if err != nil {
		return nil, errs.Wrap(err, "connect nats")
	}
	return &NATSNotifier{conn: conn, pub: conn, prefix: normalizePrefix(subjectPrefix)}, nil
}

func newNotifierWithPublisher(pub publisher, subjectPrefix string) *NATSNotifier {
	return &NATSNotifier{pub: pub, prefix: normalizePrefix(subjectPrefix)}
}

func (n *NATSNotifier) Publish(ctx context.Context, notice ports.ShiftNotice) error {
	if err := errs.RequireContext(ctx); err != nil {
		return err
	}
	if strings.TrimSpace(notice.Kind) == "" {
		return errors.New("notice kind is required")
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		return errs.Wrap(err, "encode shift notice")
	}

	subject := n.Subject(notice.Kind)
	if err := n.pub.Publish(subject, payload); err != nil {
		return errs.Wrapf(err, "publish %s", subject)
	}
	if err := n.pub.FlushWithContext(ctx); err != nil {
		return errs.Wrapf(err, "flush %s", subject)
	}
	return nil
}

func (n *NATSNotifier) Subject(kind string) string {
	if n.prefix == "" {
		return kind
	}
	return n.prefix + "." + kind
}

func (n *NATSNotifier) Close() error {
	if n.conn == nil {
		return nil
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
		return errs.Wrap(err, "drain nats")
	}
	return nil
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), ".")
}

// NoopNotifier drops every notice. Used when no broker is configured.
type NoopNotifier struct{}

var _ ports.ShiftNotifier = NoopNotifier{}

func (NoopNotifier) Publish(context.Context, ports.ShiftNotice) error { return nil }
