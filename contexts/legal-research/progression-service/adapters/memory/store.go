package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"ijus/contexts/legal-research/progression-service/domain/entities"
	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"
	"ijus/contexts/legal-research/progression-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu sync.RWMutex

	progress    map[string]entities.Progress
	idempotency map[string]ports.IdempotencyRecord
}

func NewStore() *Store {
	return &Store{
		progress:    make(map[string]entities.Progress),
		idempotency: make(map[string]ports.IdempotencyRecord),
	}
}

func (s *Store) CreateProgress(_ context.Context, progress entities.Progress) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessionID := strings.TrimSpace(progress.SessionID)
	if sessionID == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, ok := s.progress[sessionID]; ok {
		return domainerrors.ErrSessionConflict
	}
	s.progress[sessionID] = progress.Clone()
	return nil
}

func (s *Store) GetProgress(_ context.Context, sessionID string) (entities.Progress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.progress[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.Progress{}, domainerrors.ErrSessionNotFound
	}
	return item.Clone(), nil
}

// UpdateProgress runs mutate on a private copy and stores it only when mutate
// succeeds, so a failed mutation leaves the session untouched.
func (s *Store) UpdateProgress(_ context.Context, sessionID string, mutate ports.Mutation) (entities.Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(sessionID)
	item, ok := s.progress[key]
	if !ok {
		return entities.Progress{}, domainerrors.ErrSessionNotFound
	}
	working := item.Clone()
	if err := mutate(&working); err != nil {
		return entities.Progress{}, err
	}
	s.progress[key] = working.Clone()
	return working, nil
}

func (s *Store) ListLeaderboard(_ context.Context, limit int, offset int) ([]ports.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	items := make([]ports.LeaderboardEntry, 0, len(s.progress))
	for _, item := range s.progress {
		if !item.OptInLeaderboard {
			continue
		}
		items = append(items, ports.LeaderboardEntry{
			UserAlias: item.UserAlias,
			XP:        item.XP,
			Level:     item.Level,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].XP == items[j].XP {
			return items[i].UserAlias < items[j].UserAlias
		}
		return items[i].XP > items[j].XP
	})
	for i := range items {
		items[i].Rank = i + 1
	}
	if offset >= len(items) {
		return []ports.LeaderboardEntry{}, nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return append([]ports.LeaderboardEntry(nil), items[offset:end]...), nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.idempotency[strings.TrimSpace(key)]
	if !ok {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now.UTC()) {
		delete(s.idempotency, strings.TrimSpace(key))
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.TrimSpace(record.Key)
	if key == "" {
		return domainerrors.ErrInvalidInput
	}
	if existing, ok := s.idempotency[key]; ok {
		if existing.RequestHash != record.RequestHash {
			return domainerrors.ErrIdempotencyConflict
		}
		if !bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyConflict
		}
		return nil
	}
	s.idempotency[key] = record
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
