package entities

import "time"

type BadgeCategory string

const (
	BadgeUsage       BadgeCategory = "usage"
	BadgeExploration BadgeCategory = "exploration"
	BadgeStreak      BadgeCategory = "streak"
	BadgeSpecial     BadgeCategory = "special"
)

const (
	RuleStatAtLeast = "stat_at_least"
	RuleModesUsed   = "modes_used"
)

// BadgeRule describes when a badge unlocks on its own. A zero rule never
// fires; such badges are only unlocked explicitly.
type BadgeRule struct {
	Kind    string   `json:"kind,omitempty"`
	Stat    string   `json:"stat,omitempty"`
	AtLeast int      `json:"at_least,omitempty"`
	Modes   []string `json:"modes,omitempty"`
}

type Badge struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon,omitempty"`
	Category    BadgeCategory `json:"category"`
	Earned      bool          `json:"earned"`
	EarnedAt    *time.Time    `json:"earned_at,omitempty"`
	Rule        BadgeRule     `json:"rule"`
}

// Satisfied reports whether the badge rule holds for stats.
func (r BadgeRule) Satisfied(stats Stats) bool {
	switch r.Kind {
	case RuleStatAtLeast:
		value, ok := stats.Value(r.Stat)
		return ok && r.AtLeast > 0 && value >= r.AtLeast
	case RuleModesUsed:
		if len(r.Modes) == 0 {
			return false
		}
		for _, mode := range r.Modes {
			if !stats.UsedMode(mode) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
