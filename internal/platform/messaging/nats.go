package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"ijus/internal/shared/events"

	"github.com/nats-io/nats.go"
)

// NATS publishes envelopes as JSON messages on subjects named after topics.
type NATS struct {
	conn   *nats.Conn
	logger *slog.Logger
}

func ConnectNATS(url string, name string, logger *slog.Logger) (*NATS, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	if logger != nil {
		logger.Info("nats connected",
			"event", "nats_connected",
			"module", "internal/platform/messaging",
			"layer", "platform",
			"url", conn.ConnectedUrlRedacted(),
		)
	}
	return &NATS{conn: conn, logger: logger}, nil
}

func (n *NATS) Publish(ctx context.Context, topic string, event events.Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventID, err)
	}
	msg := nats.NewMsg(topic)
	msg.Data = data
	msg.Header.Set("Nats-Msg-Id", event.EventID)
	msg.Header.Set("Event-Type", event.EventType)
	if err := n.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	return nil
}

// Close flushes pending messages before closing the connection.
func (n *NATS) Close() {
	if n == nil || n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}
