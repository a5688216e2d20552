package eventsadapter

import (
	"context"
	"testing"
	"time"

	"ijus/contexts/legal-research/progression-service/ports"
	"ijus/internal/shared/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	topic string
	event events.Envelope
}

func (p *capturePublisher) Publish(_ context.Context, topic string, event events.Envelope) error {
	p.topic = topic
	p.event = event
	return nil
}

type staticID string

func (s staticID) NewID(context.Context) (string, error) {
	return string(s), nil
}

func TestNotifierWrapsNotificationInEnvelope(t *testing.T) {
	publisher := &capturePublisher{}
	notifier := Notifier{Publisher: publisher, IDGen: staticID("evt-1")}
	occurred := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	err := notifier.Notify(context.Background(), ports.Notification{
		Type:       ports.NotificationMissionCompleted,
		SessionID:  "session-1",
		EntityID:   "abrir-decisoes",
		OccurredAt: occurred,
	})
	require.NoError(t, err)

	assert.Equal(t, "ijus.progression.notifications", publisher.topic)
	assert.Equal(t, "evt-1", publisher.event.EventID)
	assert.Equal(t, "progression.mission_completed", publisher.event.EventType)
	assert.Equal(t, "mission", publisher.event.EntityType)
	assert.Equal(t, "abrir-decisoes", publisher.event.EntityID)
	assert.Equal(t, "session-1", publisher.event.CorrelationID)
	assert.True(t, publisher.event.OccurredAtUTC.Equal(occurred))
}

func TestNotifierFallsBackToSessionEntity(t *testing.T) {
	publisher := &capturePublisher{}
	notifier := Notifier{Publisher: publisher, Topic: "custom"}

	require.NoError(t, notifier.Notify(context.Background(), ports.Notification{
		Type:      ports.NotificationLevelUp,
		SessionID: "session-2",
	}))
	assert.Equal(t, "custom", publisher.topic)
	assert.Equal(t, "session", publisher.event.EntityType)
	assert.Equal(t, "session-2", publisher.event.EntityID)
}

func TestNotifierWithoutPublisherIsNoop(t *testing.T) {
	assert.NoError(t, Notifier{}.Notify(context.Background(), ports.Notification{}))
}
