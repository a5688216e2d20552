// Package catalog loads the mission and badge definitions a new session is
// seeded with.
package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"ijus/contexts/legal-research/progression-service/domain/entities"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

type document struct {
	UserAlias string          `yaml:"user_alias"`
	XP        int             `yaml:"xp"`
	Stats     statsDocument   `yaml:"stats"`
	Missions  []missionRecord `yaml:"missions"`
	Badges    []badgeRecord   `yaml:"badges"`
}

type statsDocument struct {
	TotalSearches        int      `yaml:"total_searches"`
	TotalDocumentsOpened int      `yaml:"total_documents_opened"`
	TotalCopies          int      `yaml:"total_copies"`
	TotalShares          int      `yaml:"total_shares"`
	AverageRelevance     int      `yaml:"average_relevance"`
	TimeSavedMinutes     int      `yaml:"time_saved_minutes"`
	Streak               int      `yaml:"streak"`
	AreasExplored        []string `yaml:"areas_explored"`
}

type missionRecord struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Type        string `yaml:"type"`
	Target      int    `yaml:"target"`
	Progress    int    `yaml:"progress"`
	XP          int    `yaml:"xp"`
	Icon        string `yaml:"icon"`
	Trigger     string `yaml:"trigger"`
}

type badgeRecord struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Icon        string     `yaml:"icon"`
	Category    string     `yaml:"category"`
	Earned      bool       `yaml:"earned"`
	EarnedAt    *time.Time `yaml:"earned_at"`
	Rule        struct {
		Kind    string   `yaml:"kind"`
		Stat    string   `yaml:"stat"`
		AtLeast int      `yaml:"at_least"`
		Modes   []string `yaml:"modes"`
	} `yaml:"rule"`
}

type Catalog struct {
	seed entities.Progress
}

// Default returns the catalog shipped with the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

func Parse(raw []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode progression catalog: %w", err)
	}
	seed, err := doc.progress()
	if err != nil {
		return nil, err
	}
	return &Catalog{seed: seed}, nil
}

func (c *Catalog) Seed() entities.Progress {
	return c.seed.Clone()
}

func (d document) progress() (entities.Progress, error) {
	progress := entities.Progress{
		UserAlias: d.UserAlias,
		XP:        d.XP,
		Stats: entities.Stats{
			TotalSearches:        d.Stats.TotalSearches,
			TotalDocumentsOpened: d.Stats.TotalDocumentsOpened,
			TotalCopies:          d.Stats.TotalCopies,
			TotalShares:          d.Stats.TotalShares,
			AverageRelevance:     d.Stats.AverageRelevance,
			TimeSavedMinutes:     d.Stats.TimeSavedMinutes,
			Streak:               d.Stats.Streak,
			AreasExplored:        append([]string{}, d.Stats.AreasExplored...),
			ModesUsed:            []string{},
		},
		Missions: make([]entities.Mission, 0, len(d.Missions)),
		Badges:   make([]entities.Badge, 0, len(d.Badges)),
	}

	seen := make(map[string]struct{}, len(d.Missions)+len(d.Badges))
	for _, item := range d.Missions {
		if item.ID == "" || item.Target < 1 {
			return entities.Progress{}, fmt.Errorf("progression catalog: invalid mission %q", item.ID)
		}
		if _, dup := seen["mission:"+item.ID]; dup {
			return entities.Progress{}, fmt.Errorf("progression catalog: duplicate mission %q", item.ID)
		}
		seen["mission:"+item.ID] = struct{}{}

		mission := entities.Mission{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Type:        entities.MissionType(item.Type),
			Target:      item.Target,
			Progress:    item.Progress,
			XP:          item.XP,
			Icon:        item.Icon,
		}
		if item.Trigger != "" {
			trigger, err := entities.ParseAction(item.Trigger)
			if err != nil {
				return entities.Progress{}, fmt.Errorf("progression catalog: mission %q: %w", item.ID, err)
			}
			mission.Trigger = trigger
		}
		if mission.Progress > mission.Target {
			mission.Progress = mission.Target
		}
		progress.Missions = append(progress.Missions, mission)
	}

	for _, item := range d.Badges {
		if item.ID == "" {
			return entities.Progress{}, fmt.Errorf("progression catalog: badge without id")
		}
		if _, dup := seen["badge:"+item.ID]; dup {
			return entities.Progress{}, fmt.Errorf("progression catalog: duplicate badge %q", item.ID)
		}
		seen["badge:"+item.ID] = struct{}{}

		badge := entities.Badge{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Icon:        item.Icon,
			Category:    entities.BadgeCategory(item.Category),
			Earned:      item.Earned,
			Rule: entities.BadgeRule{
				Kind:    item.Rule.Kind,
				Stat:    item.Rule.Stat,
				AtLeast: item.Rule.AtLeast,
				Modes:   append([]string(nil), item.Rule.Modes...),
			},
		}
		if item.Earned && item.EarnedAt != nil {
			earnedAt := item.EarnedAt.UTC()
			badge.EarnedAt = &earnedAt
		}
		progress.Badges = append(progress.Badges, badge)
	}
	return progress, nil
}
