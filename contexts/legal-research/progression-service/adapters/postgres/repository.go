package postgresadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ijus/contexts/legal-research/progression-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"
	"ijus/contexts/legal-research/progression-service/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates the progression tables when they are missing.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&progressModel{}, &idempotencyModel{})
}

func (r *Repository) CreateProgress(ctx context.Context, progress entities.Progress) error {
	row, err := progressModelFromEntity(progress)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrSessionConflict
		}
		return err
	}
	return nil
}

func (r *Repository) GetProgress(ctx context.Context, sessionID string) (entities.Progress, error) {
	var row progressModel
	err := r.db.WithContext(ctx).
		Where("session_id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Progress{}, domainerrors.ErrSessionNotFound
		}
		return entities.Progress{}, err
	}
	return row.toEntity()
}

// UpdateProgress locks the session row for the lifetime of mutate so
// concurrent XP grants serialize per session.
func (r *Repository) UpdateProgress(ctx context.Context, sessionID string, mutate ports.Mutation) (entities.Progress, error) {
	var updated entities.Progress
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row progressModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("session_id = ?", strings.TrimSpace(sessionID)).
			First(&row).
			Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrSessionNotFound
			}
			return err
		}

		progress, err := row.toEntity()
		if err != nil {
			return err
		}
		if err := mutate(&progress); err != nil {
			return err
		}

		next, err := progressModelFromEntity(progress)
		if err != nil {
			return err
		}
		if err := tx.Model(&progressModel{}).
			Where("session_id = ?", row.SessionID).
			Updates(map[string]any{
				"user_alias":         next.UserAlias,
				"xp":                 next.XP,
				"level":              next.Level,
				"opt_in_leaderboard": next.OptInLeaderboard,
				"state":              next.State,
				"updated_at":         next.UpdatedAt,
			}).
			Error; err != nil {
			return err
		}
		updated = progress
		return nil
	})
	if err != nil {
		return entities.Progress{}, err
	}
	return updated, nil
}

func (r *Repository) ListLeaderboard(ctx context.Context, limit int, offset int) ([]ports.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var rows []progressModel
	if err := r.db.WithContext(ctx).
		Select("user_alias", "xp", "level").
		Where("opt_in_leaderboard = ?", true).
		Order("xp DESC").
		Order("user_alias ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		items = append(items, ports.LeaderboardEntry{
			Rank:      offset + i + 1,
			UserAlias: row.UserAlias,
			XP:        row.XP,
			Level:     row.Level,
		})
	}
	return items, nil
}

func (r *Repository) GetRecord(ctx context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	var row idempotencyModel
	err := r.db.WithContext(ctx).
		Where("key = ?", strings.TrimSpace(key)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.IdempotencyRecord{}, false, nil
		}
		return ports.IdempotencyRecord{}, false, err
	}

	if !row.ExpiresAt.IsZero() && now.UTC().After(row.ExpiresAt.UTC()) {
		if err := r.db.WithContext(ctx).
			Where("key = ?", strings.TrimSpace(key)).
			Delete(&idempotencyModel{}).
			Error; err != nil {
			return ports.IdempotencyRecord{}, false, err
		}
		return ports.IdempotencyRecord{}, false, nil
	}

	return ports.IdempotencyRecord{
		Key:             row.Key,
		RequestHash:     row.RequestHash,
		ResponsePayload: append([]byte(nil), row.ResponsePayload...),
		ExpiresAt:       row.ExpiresAt.UTC(),
	}, true, nil
}

func (r *Repository) PutRecord(ctx context.Context, record ports.IdempotencyRecord) error {
	row := idempotencyModel{
		Key:             strings.TrimSpace(record.Key),
		RequestHash:     record.RequestHash,
		ResponsePayload: append([]byte(nil), record.ResponsePayload...),
		ExpiresAt:       record.ExpiresAt.UTC(),
	}
	createResult := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoNothing: true,
		}).
		Create(&row)
	if createResult.Error != nil {
		return createResult.Error
	}
	if createResult.RowsAffected > 0 {
		return nil
	}

	var existing idempotencyModel
	if err := r.db.WithContext(ctx).
		Where("key = ?", row.Key).
		First(&existing).
		Error; err != nil {
		return err
	}
	if existing.RequestHash != row.RequestHash || !bytes.Equal(existing.ResponsePayload, row.ResponsePayload) {
		r.logger.Warn("idempotency record collision",
			"event", "progression_idempotency_collision",
			"module", "legal-research/progression-service",
			"layer", "adapter",
			"key", row.Key,
		)
		return domainerrors.ErrIdempotencyConflict
	}
	return nil
}

// SystemClock implements ports.Clock using wall-clock UTC time.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// UUIDGenerator hands out session ids.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

// progressModel keeps the queryable columns flat and stores stats, missions
// and badges as one JSONB document.
type progressModel struct {
	SessionID        string         `gorm:"column:session_id;primaryKey"`
	UserAlias        string         `gorm:"column:user_alias"`
	XP               int            `gorm:"column:xp;index:idx_progression_leaderboard,priority:2,sort:desc"`
	Level            int            `gorm:"column:level"`
	OptInLeaderboard bool           `gorm:"column:opt_in_leaderboard;index:idx_progression_leaderboard,priority:1"`
	State            datatypes.JSON `gorm:"column:state;type:jsonb"`
	CreatedAt        time.Time      `gorm:"column:created_at"`
	UpdatedAt        time.Time      `gorm:"column:updated_at"`
}

func (progressModel) TableName() string {
	return "progression_sessions"
}

type progressState struct {
	Stats    entities.Stats     `json:"stats"`
	Missions []entities.Mission `json:"missions"`
	Badges   []entities.Badge   `json:"badges"`
}

func progressModelFromEntity(item entities.Progress) (progressModel, error) {
	raw, err := json.Marshal(progressState{
		Stats:    item.Stats,
		Missions: item.Missions,
		Badges:   item.Badges,
	})
	if err != nil {
		return progressModel{}, fmt.Errorf("encode progression state: %w", err)
	}
	return progressModel{
		SessionID:        strings.TrimSpace(item.SessionID),
		UserAlias:        strings.TrimSpace(item.UserAlias),
		XP:               item.XP,
		Level:            item.Level,
		OptInLeaderboard: item.OptInLeaderboard,
		State:            datatypes.JSON(raw),
		CreatedAt:        item.CreatedAt.UTC(),
		UpdatedAt:        item.UpdatedAt.UTC(),
	}, nil
}

func (m progressModel) toEntity() (entities.Progress, error) {
	var state progressState
	if len(m.State) > 0 {
		if err := json.Unmarshal(m.State, &state); err != nil {
			return entities.Progress{}, fmt.Errorf("decode progression state %s: %w", m.SessionID, err)
		}
	}
	return entities.Progress{
		SessionID:        m.SessionID,
		UserAlias:        m.UserAlias,
		XP:               m.XP,
		Level:            m.Level,
		Stats:            state.Stats,
		Missions:         state.Missions,
		Badges:           state.Badges,
		OptInLeaderboard: m.OptInLeaderboard,
		CreatedAt:        m.CreatedAt.UTC(),
		UpdatedAt:        m.UpdatedAt.UTC(),
	}, nil
}

type idempotencyModel struct {
	Key             string    `gorm:"column:key;primaryKey"`
	RequestHash     string    `gorm:"column:request_hash"`
	ResponsePayload []byte    `gorm:"column:response_payload"`
	ExpiresAt       time.Time `gorm:"column:expires_at"`
}

func (idempotencyModel) TableName() string {
	return "progression_idempotency"
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
