package eventsadapter

import (
	"context"
	"strings"

	"ijus/contexts/legal-research/progression-service/ports"
	"ijus/internal/shared/events"
)

const sourceService = "progression-service"

type Publisher interface {
	Publish(ctx context.Context, topic string, event events.Envelope) error
}

// Notifier turns progression notifications into bus envelopes.
type Notifier struct {
	Publisher Publisher
	Topic     string
	IDGen     ports.IDGenerator
}

func (n Notifier) Notify(ctx context.Context, notification ports.Notification) error {
	if n.Publisher == nil {
		return nil
	}
	eventID := ""
	if n.IDGen != nil {
		id, err := n.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		eventID = id
	}
	entityID := strings.TrimSpace(notification.EntityID)
	if entityID == "" {
		entityID = notification.SessionID
	}
	return n.Publisher.Publish(ctx, n.topic(), events.Envelope{
		EventID:        eventID,
		EventType:      "progression." + notification.Type,
		SourceService:  sourceService,
		OccurredAtUTC:  notification.OccurredAt.UTC(),
		CorrelationID:  notification.SessionID,
		EntityType:     entityType(notification.Type),
		EntityID:       entityID,
		PayloadVersion: 1,
		Payload:        notification,
	})
}

func (n Notifier) topic() string {
	if topic := strings.TrimSpace(n.Topic); topic != "" {
		return topic
	}
	return "ijus.progression.notifications"
}

func entityType(notificationType string) string {
	switch notificationType {
	case ports.NotificationMissionCompleted:
		return "mission"
	case ports.NotificationBadgeUnlocked:
		return "badge"
	default:
		return "session"
	}
}
