package entities

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of results requested from the backend when the
// caller does not choose one.
const DefaultPageSize = 20

// MaxPageSize bounds how many results one search may request.
const MaxPageSize = 100

type SearchResultItem struct {
	ID             ID       `json:"id"`
	Titulo         string   `json:"titulo"`
	Ementa         Text     `json:"ementa"`
	Tribunal       Court    `json:"tribunal"`
	OrgaoJulgador  string   `json:"orgao_julgador,omitempty"`
	Relator        string   `json:"relator"`
	DataJulgamento string   `json:"data_julgamento"`
	NumeroProcesso string   `json:"numero_processo"`
	Tags           []string `json:"tags"`
	Score          *float64 `json:"score,omitempty"`
	TipoDocumento  string   `json:"tipo_documento"`
}

// UnmarshalJSON keeps an item whose score is not a number. Scores sent as
// numeric strings are parsed; anything else leaves the item without a score.
func (r *SearchResultItem) UnmarshalJSON(data []byte) error {
	type plain SearchResultItem
	var aux struct {
		plain
		Score json.RawMessage `json:"score"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = SearchResultItem(aux.plain)
	r.Score = parseScore(aux.Score)
	return nil
}

func parseScore(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var value float64
	if raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		if err != nil {
			return nil
		}
		value = parsed
	} else if err := json.Unmarshal(raw, &value); err != nil {
		return nil
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return nil
	}
	return &value
}

// RelevancePercent is the score shown as a percentage badge. Items without a
// score have no badge.
func (r SearchResultItem) RelevancePercent() (int, bool) {
	if r.Score == nil {
		return 0, false
	}
	percent := int(math.Round(*r.Score * 100))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return percent, true
}

// Matches reports whether query occurs, ignoring case, in the title, the
// summary or any tag.
func (r SearchResultItem) Matches(query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(r.Titulo), needle) ||
		strings.Contains(strings.ToLower(string(r.Ementa)), needle) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

type SearchFilters struct {
	Tribunal      string
	TipoDocumento string
	Relator       string
	DeData        string
	AteData       string
	OrdenaPor     string
	Size          int
}

type FilterOption struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// DynamicFilter is a refinement facet surfaced by the backend.
type DynamicFilter struct {
	Name    string         `json:"name"`
	Options []FilterOption `json:"options"`
}

// SearchPage is one backend answer.
type SearchPage struct {
	Items   []SearchResultItem
	Filters []DynamicFilter
	Total   int
}

type ResultSource string

const (
	SourceBackend ResultSource = "backend"
	SourceSample  ResultSource = "sample"
	SourceCache   ResultSource = "cache"
)

type SearchResult struct {
	Query          string
	Strategy       ExpansionStrategy
	Results        []SearchResultItem
	DynamicFilters []DynamicFilter
	Total          int
	Source         ResultSource
}

type ExpansionStrategy string

const (
	StrategyBoolean  ExpansionStrategy = "boolean"
	StrategySynonyms ExpansionStrategy = "synonyms"
	StrategyOriginal ExpansionStrategy = "original"
)

type Expansion struct {
	Query    string            `json:"query"`
	Strategy ExpansionStrategy `json:"strategy"`
}
