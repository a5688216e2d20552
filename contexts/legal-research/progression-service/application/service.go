package application

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ijus/contexts/legal-research/progression-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"
	"ijus/contexts/legal-research/progression-service/domain/leveling"
	"ijus/contexts/legal-research/progression-service/ports"
)

const defaultUserAlias = "Pesquisador"

type Service struct {
	Repo           ports.Repository
	Idempotency    ports.IdempotencyStore
	Catalog        ports.Catalog
	Notifier       ports.Notifier
	Metrics        ports.Metrics
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration

	// KeyLocks makes lookup, mutation and record storage one step per
	// idempotency key. Nil disables it.
	KeyLocks *KeyLocks
	Logger   *slog.Logger
}

// ActionResult is returned by every XP-bearing mutation. Changed is false
// when the call was an idempotent no-op (already completed, already earned).
type ActionResult struct {
	Snapshot      ports.Snapshot       `json:"snapshot"`
	Gains         []entities.XPGain    `json:"gains"`
	Notifications []ports.Notification `json:"notifications"`
	Changed       bool                 `json:"changed"`
	Replayed      bool                 `json:"-"`
}

func (s Service) StartSession(ctx context.Context, input ports.StartSessionInput) (ports.Snapshot, error) {
	if s.Catalog == nil {
		return ports.Snapshot{}, domainerrors.ErrInvalidInput
	}
	sessionID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Snapshot{}, err
	}
	now := s.now()

	progress := s.Catalog.Seed().Clone()
	progress.SessionID = strings.TrimSpace(sessionID)
	if alias := strings.TrimSpace(input.UserAlias); alias != "" {
		progress.UserAlias = alias
	}
	if progress.UserAlias == "" {
		progress.UserAlias = defaultUserAlias
	}
	progress.Level = leveling.LevelForXP(progress.XP)
	progress.CreatedAt = now
	progress.UpdatedAt = now

	if err := s.Repo.CreateProgress(ctx, progress); err != nil {
		return ports.Snapshot{}, err
	}

	s.logger().Info("progress session started",
		"event", "progression_session_started",
		"module", "legal-research/progression-service",
		"layer", "application",
		"session_id", progress.SessionID,
		"xp", progress.XP,
		"level", progress.Level,
	)
	return snapshotOf(progress), nil
}

func (s Service) GetProgress(ctx context.Context, sessionID string) (ports.Snapshot, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ports.Snapshot{}, domainerrors.ErrInvalidInput
	}
	progress, err := s.Repo.GetProgress(ctx, sessionID)
	if err != nil {
		return ports.Snapshot{}, err
	}
	return snapshotOf(progress), nil
}

func (s Service) AddXP(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	input ports.AddXPInput,
) (ActionResult, error) {
	action, err := entities.ParseAction(input.Action)
	if err != nil {
		return ActionResult{}, err
	}
	if input.CustomAmount < 0 || input.CustomAmount > entities.MaxXPAward {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	payload := map[string]any{
		"action":        string(action),
		"custom_amount": input.CustomAmount,
	}
	return s.mutate(ctx, idempotencyKey, "add_xp", sessionID, payload, func(p *entities.Progress, o *outcome) error {
		return o.addXP(p, action, input.CustomAmount)
	})
}

// UpdateMissionProgress advances a mission. Reaching the target completes the
// mission in the same mutation, so its reward is granted exactly once.
func (s Service) UpdateMissionProgress(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	input ports.MissionProgressInput,
) (ActionResult, error) {
	missionID := strings.TrimSpace(input.MissionID)
	increment := input.Increment
	if increment == 0 {
		increment = 1
	}
	if missionID == "" || increment < 0 || increment > entities.MaxMissionIncrement {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	payload := map[string]any{
		"mission_id": missionID,
		"increment":  increment,
	}
	return s.mutate(ctx, idempotencyKey, "update_mission_progress", sessionID, payload, func(p *entities.Progress, o *outcome) error {
		return o.advanceMission(p, missionID, increment)
	})
}

func (s Service) CompleteMission(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	missionID string,
) (ActionResult, error) {
	missionID = strings.TrimSpace(missionID)
	if missionID == "" {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	payload := map[string]any{"mission_id": missionID}
	return s.mutate(ctx, idempotencyKey, "complete_mission", sessionID, payload, func(p *entities.Progress, o *outcome) error {
		return o.completeMission(p, missionID)
	})
}

func (s Service) UnlockBadge(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	badgeID string,
) (ActionResult, error) {
	badgeID = strings.TrimSpace(badgeID)
	if badgeID == "" {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	payload := map[string]any{"badge_id": badgeID}
	return s.mutate(ctx, idempotencyKey, "unlock_badge", sessionID, payload, func(p *entities.Progress, o *outcome) error {
		return o.unlockBadge(p, badgeID)
	})
}

// RecordActivity is the entrypoint for user actions: it awards the action XP,
// advances missions triggered by the action and unlocks badges whose rules
// now hold.
func (s Service) RecordActivity(
	ctx context.Context,
	idempotencyKey string,
	sessionID string,
	rawAction string,
) (ActionResult, error) {
	action, err := entities.ParseAction(rawAction)
	if err != nil {
		return ActionResult{}, err
	}
	if action == entities.ActionMissionComplete {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	payload := map[string]any{"action": string(action)}
	return s.mutate(ctx, idempotencyKey, "record_activity", sessionID, payload, func(p *entities.Progress, o *outcome) error {
		if err := o.addXP(p, action, 0); err != nil {
			return err
		}
		p.RecordMode(action)
		for _, missionID := range p.MissionsTriggeredBy(action) {
			if err := o.advanceMission(p, missionID, 1); err != nil {
				return err
			}
		}
		for _, badgeID := range p.PendingBadges() {
			if err := o.unlockBadge(p, badgeID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s Service) ToggleLeaderboardOptIn(ctx context.Context, sessionID string) (ports.Snapshot, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ports.Snapshot{}, domainerrors.ErrInvalidInput
	}
	now := s.now()
	progress, err := s.Repo.UpdateProgress(ctx, sessionID, func(p *entities.Progress) error {
		p.OptInLeaderboard = !p.OptInLeaderboard
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return ports.Snapshot{}, err
	}
	return snapshotOf(progress), nil
}

func (s Service) GetLeaderboard(ctx context.Context, limit int, offset int) ([]ports.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.Repo.ListLeaderboard(ctx, limit, offset)
}

func (s Service) mutate(
	ctx context.Context,
	idempotencyKey string,
	requestType string,
	sessionID string,
	payload map[string]any,
	apply func(p *entities.Progress, o *outcome) error,
) (ActionResult, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ActionResult{}, domainerrors.ErrInvalidInput
	}
	idempotencyKey = strings.TrimSpace(idempotencyKey)
	now := s.now()

	payload["session_id"] = sessionID
	payload["request_type"] = requestType
	requestHash := hashPayload(payload)

	if idempotencyKey != "" && s.Idempotency != nil && s.KeyLocks != nil {
		unlock := s.KeyLocks.Lock(idempotencyKey)
		defer unlock()
	}

	if idempotencyKey != "" && s.Idempotency != nil {
		record, found, err := s.Idempotency.GetRecord(ctx, idempotencyKey, now)
		if err != nil {
			return ActionResult{}, err
		}
		if found {
			if record.RequestHash != requestHash {
				return ActionResult{}, domainerrors.ErrIdempotencyConflict
			}
			var replayed ActionResult
			if err := json.Unmarshal(record.ResponsePayload, &replayed); err != nil {
				return ActionResult{}, err
			}
			replayed.Replayed = true
			return replayed, nil
		}
	}

	var out outcome
	progress, err := s.Repo.UpdateProgress(ctx, sessionID, func(p *entities.Progress) error {
		out = outcome{sessionID: sessionID, now: now}
		return apply(p, &out)
	})
	if err != nil {
		return ActionResult{}, err
	}

	result := ActionResult{
		Snapshot:      snapshotOf(progress),
		Gains:         out.gains,
		Notifications: out.notifications,
		Changed:       out.changed,
	}
	if result.Gains == nil {
		result.Gains = []entities.XPGain{}
	}
	if result.Notifications == nil {
		result.Notifications = []ports.Notification{}
	}

	if idempotencyKey != "" && s.Idempotency != nil {
		raw, err := json.Marshal(result)
		if err != nil {
			return ActionResult{}, err
		}
		if err := s.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
			Key:             idempotencyKey,
			RequestHash:     requestHash,
			ResponsePayload: raw,
			ExpiresAt:       now.Add(s.idempotencyTTL()),
		}); err != nil {
			return ActionResult{}, err
		}
	}

	s.observe(ctx, requestType, progress, out)
	return result, nil
}

func (s Service) observe(ctx context.Context, requestType string, progress entities.Progress, out outcome) {
	logger := s.logger()
	for _, gain := range out.gains {
		if s.Metrics != nil {
			s.Metrics.ObserveXP(string(gain.Action), gain.Amount)
			if gain.LeveledUp() {
				s.Metrics.ObserveLevelUp(gain.Level)
			}
		}
	}
	for _, notification := range out.notifications {
		if s.Notifier == nil {
			break
		}
		if err := s.Notifier.Notify(ctx, notification); err != nil {
			logger.Warn("progress notification publish failed",
				"event", "progression_notification_failed",
				"module", "legal-research/progression-service",
				"layer", "application",
				"session_id", progress.SessionID,
				"notification_type", notification.Type,
				"error", err.Error(),
			)
		}
	}
	logger.Info("progress updated",
		"event", "progression_progress_updated",
		"module", "legal-research/progression-service",
		"layer", "application",
		"request_type", requestType,
		"session_id", progress.SessionID,
		"changed", out.changed,
		"xp", progress.XP,
		"level", progress.Level,
		"notifications", len(out.notifications),
	)
}

// outcome collects what a mutation produced while it runs inside the
// repository's atomic update.
type outcome struct {
	sessionID     string
	now           time.Time
	gains         []entities.XPGain
	notifications []ports.Notification
	changed       bool
}

func (o *outcome) addXP(p *entities.Progress, action entities.Action, customAmount int) error {
	gain, err := p.AddXP(action, customAmount, o.now)
	if err != nil {
		return err
	}
	o.changed = true
	o.gains = append(o.gains, gain)
	if gain.LeveledUp() {
		o.notifications = append(o.notifications, ports.Notification{
			Type:        ports.NotificationLevelUp,
			SessionID:   o.sessionID,
			Title:       fmt.Sprintf("Você subiu para o Nível %d!", gain.Level),
			Description: fmt.Sprintf("Faltam %d XP para o próximo nível.", leveling.XPForNextLevel(gain.Level)-gain.XP),
			XP:          gain.XP,
			Level:       gain.Level,
			OccurredAt:  o.now,
		})
	}
	return nil
}

func (o *outcome) advanceMission(p *entities.Progress, missionID string, increment int) error {
	before, ok := p.Mission(missionID)
	if !ok {
		return domainerrors.ErrMissionNotFound
	}
	mission, err := p.AdvanceMission(missionID, increment)
	if err != nil {
		return err
	}
	if mission.Progress != before.Progress {
		o.changed = true
	}
	if mission.ReachedTarget() && !mission.Completed {
		return o.completeMission(p, missionID)
	}
	return nil
}

func (o *outcome) completeMission(p *entities.Progress, missionID string) error {
	mission, gain, changed, err := p.CompleteMission(missionID, o.now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	o.changed = true
	o.gains = append(o.gains, gain)
	o.notifications = append(o.notifications, ports.Notification{
		Type:        ports.NotificationMissionCompleted,
		SessionID:   o.sessionID,
		Title:       "Missão completa!",
		Description: fmt.Sprintf("%s • +%d XP", mission.Name, gain.Amount),
		XP:          gain.Amount,
		EntityID:    mission.ID,
		OccurredAt:  o.now,
	})
	if gain.LeveledUp() {
		o.notifications = append(o.notifications, ports.Notification{
			Type:        ports.NotificationLevelUp,
			SessionID:   o.sessionID,
			Title:       fmt.Sprintf("Você subiu para o Nível %d!", gain.Level),
			Description: fmt.Sprintf("Faltam %d XP para o próximo nível.", leveling.XPForNextLevel(gain.Level)-gain.XP),
			XP:          gain.XP,
			Level:       gain.Level,
			OccurredAt:  o.now,
		})
	}
	return nil
}

func (o *outcome) unlockBadge(p *entities.Progress, badgeID string) error {
	badge, changed, err := p.UnlockBadge(badgeID, o.now)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	o.changed = true
	o.notifications = append(o.notifications, ports.Notification{
		Type:        ports.NotificationBadgeUnlocked,
		SessionID:   o.sessionID,
		Title:       fmt.Sprintf("Novo badge: %s!", badge.Name),
		Description: badge.Description,
		EntityID:    badge.ID,
		OccurredAt:  o.now,
	})
	return nil
}

func snapshotOf(progress entities.Progress) ports.Snapshot {
	return ports.Snapshot{
		Progress:      progress,
		LevelProgress: leveling.XPProgress(progress.XP, progress.Level),
		NextLevelXP:   leveling.XPForNextLevel(progress.Level),
	}
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) idempotencyTTL() time.Duration {
	if s.IdempotencyTTL <= 0 {
		return 24 * time.Hour
	}
	return s.IdempotencyTTL
}

func (s Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func hashPayload(payload map[string]any) string {
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
