// Package cache keeps resolved documents so repeated opens skip the probe.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"ijus/contexts/legal-research/jurisprudence-service/domain/entities"

	goredis "github.com/redis/go-redis/v9"
)

// Redis stores documents as JSON values with a per-key expiry.
type Redis struct {
	Client goredis.Cmdable
}

func (r Redis) GetDocument(ctx context.Context, key string) (entities.DocumentPayload, bool, error) {
	raw, err := r.Client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return entities.DocumentPayload{}, false, nil
	}
	if err != nil {
		return entities.DocumentPayload{}, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	var entry cachedDocument
	if err := json.Unmarshal(raw, &entry); err != nil {
		return entities.DocumentPayload{}, false, fmt.Errorf("decode cached document: %w", err)
	}
	return entry.payload(), true, nil
}

func (r Redis) PutDocument(ctx context.Context, key string, document entities.DocumentPayload, ttl time.Duration) error {
	raw, err := json.Marshal(newCachedDocument(document))
	if err != nil {
		return fmt.Errorf("encode cached document: %w", err)
	}
	if err := r.Client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Memory is a process-local cache for single instance deployments and tests.
type Memory struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

type memoryEntry struct {
	document  entities.DocumentPayload
	expiresAt time.Time
}

func NewMemory() *Memory {
	return &Memory{entries: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) GetDocument(_ context.Context, key string) (entities.DocumentPayload, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.entries[key]
	if !ok {
		return entities.DocumentPayload{}, false, nil
	}
	if !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return entities.DocumentPayload{}, false, nil
	}
	document := entry.document
	document.Tags = append([]string(nil), document.Tags...)
	return document, true, nil
}

func (m *Memory) PutDocument(_ context.Context, key string, document entities.DocumentPayload, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := memoryEntry{document: document}
	entry.document.Tags = append([]string(nil), document.Tags...)
	if ttl > 0 {
		entry.expiresAt = m.now().Add(ttl)
	}
	m.entries[key] = entry
	return nil
}

// cachedDocument mirrors DocumentPayload with plain string fields so the
// normalizing decoders of the payload types are not applied twice.
type cachedDocument struct {
	ID                   string          `json:"id"`
	DocumentType         string          `json:"document_type"`
	Titulo               string          `json:"titulo"`
	Ementa               string          `json:"ementa"`
	TribunalName         string          `json:"tribunal_name"`
	TribunalAcronym      string          `json:"tribunal_acronym"`
	Relator              string          `json:"relator"`
	DataJulgamento       string          `json:"data_julgamento"`
	DataDisponibilizacao string          `json:"data_disponibilizacao"`
	NumeroProcesso       string          `json:"numero_processo"`
	OrgaoJulgador        string          `json:"orgao_julgador"`
	Origem               string          `json:"origem"`
	Tags                 []string        `json:"tags"`
	Conteudo             string          `json:"conteudo"`
	Raw                  json.RawMessage `json:"raw,omitempty"`
}

func newCachedDocument(d entities.DocumentPayload) cachedDocument {
	return cachedDocument{
		ID:                   string(d.ID),
		DocumentType:         d.DocumentType,
		Titulo:               d.Titulo,
		Ementa:               string(d.Ementa),
		TribunalName:         d.Tribunal.Name,
		TribunalAcronym:      d.Tribunal.Acronym,
		Relator:              d.Relator,
		DataJulgamento:       d.DataJulgamento,
		DataDisponibilizacao: d.DataDisponibilizacao,
		NumeroProcesso:       d.NumeroProcesso,
		OrgaoJulgador:        d.OrgaoJulgador,
		Origem:               d.Origem,
		Tags:                 d.Tags,
		Conteudo:             string(d.Conteudo),
		Raw:                  d.Raw,
	}
}

func (c cachedDocument) payload() entities.DocumentPayload {
	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	return entities.DocumentPayload{
		ID:                   entities.ID(c.ID),
		DocumentType:         c.DocumentType,
		Titulo:               c.Titulo,
		Ementa:               entities.Text(c.Ementa),
		Tribunal:             entities.Court{Name: c.TribunalName, Acronym: c.TribunalAcronym},
		Relator:              c.Relator,
		DataJulgamento:       c.DataJulgamento,
		DataDisponibilizacao: c.DataDisponibilizacao,
		NumeroProcesso:       c.NumeroProcesso,
		OrgaoJulgador:        c.OrgaoJulgador,
		Origem:               c.Origem,
		Tags:                 tags,
		Conteudo:             entities.Text(c.Conteudo),
		Raw:                  c.Raw,
	}
}
