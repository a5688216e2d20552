package ports

import (
	"context"
	"time"

	"ijus/contexts/legal-research/progression-service/domain/entities"
	"ijus/contexts/legal-research/progression-service/domain/leveling"
)

const (
	NotificationLevelUp          = "level_up"
	NotificationMissionCompleted = "mission_completed"
	NotificationBadgeUnlocked    = "badge_unlocked"
)

type Notification struct {
	Type        string    `json:"type"`
	SessionID   string    `json:"session_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	XP          int       `json:"xp,omitempty"`
	Level       int       `json:"level,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

type Snapshot struct {
	Progress      entities.Progress `json:"progress"`
	LevelProgress leveling.Progress `json:"level_progress"`
	NextLevelXP   int               `json:"next_level_xp"`
}

type LeaderboardEntry struct {
	Rank      int    `json:"rank"`
	UserAlias string `json:"user_alias"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

type StartSessionInput struct {
	UserAlias string
}

type AddXPInput struct {
	Action       string
	CustomAmount int
}

type MissionProgressInput struct {
	MissionID string
	Increment int
}

// Mutation changes a progress aggregate in place. Returning an error
// discards the change.
type Mutation func(progress *entities.Progress) error

type Repository interface {
	CreateProgress(ctx context.Context, progress entities.Progress) error
	GetProgress(ctx context.Context, sessionID string) (entities.Progress, error)
	UpdateProgress(ctx context.Context, sessionID string, mutate Mutation) (entities.Progress, error)
	ListLeaderboard(ctx context.Context, limit int, offset int) ([]LeaderboardEntry, error)
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

// Catalog supplies the seed a new session starts from.
type Catalog interface {
	Seed() entities.Progress
}

type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

type Metrics interface {
	ObserveXP(action string, amount int)
	ObserveLevelUp(level int)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
