package entities

import (
	"math"
	"strings"
	"time"

	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"
	"ijus/contexts/legal-research/progression-service/domain/leveling"
)

const (
	StatTotalSearches        = "total_searches"
	StatTotalDocumentsOpened = "total_documents_opened"
	StatTotalCopies          = "total_copies"
	StatTotalShares          = "total_shares"
	StatCopiesToday          = "copies_today"
)

type Stats struct {
	TotalSearches        int      `json:"total_searches"`
	TotalDocumentsOpened int      `json:"total_documents_opened"`
	TotalCopies          int      `json:"total_copies"`
	TotalShares          int      `json:"total_shares"`
	AverageRelevance     int      `json:"average_relevance"`
	TimeSavedMinutes     int      `json:"time_saved_minutes"`
	Streak               int      `json:"streak"`
	AreasExplored        []string `json:"areas_explored"`
	ModesUsed            []string `json:"modes_used"`
	CopiesToday          int      `json:"copies_today"`
	CopiesDay            string   `json:"copies_day,omitempty"`
}

func (s Stats) Value(stat string) (int, bool) {
	switch stat {
	case StatTotalSearches:
		return s.TotalSearches, true
	case StatTotalDocumentsOpened:
		return s.TotalDocumentsOpened, true
	case StatTotalCopies:
		return s.TotalCopies, true
	case StatTotalShares:
		return s.TotalShares, true
	case StatCopiesToday:
		return s.CopiesToday, true
	default:
		return 0, false
	}
}

func (s Stats) UsedMode(mode string) bool {
	for _, item := range s.ModesUsed {
		if item == mode {
			return true
		}
	}
	return false
}

// Ceilings for caller-supplied amounts. Anything above is rejected as
// invalid input so sums stay far from int overflow.
const (
	MaxXPAward          = 100_000
	MaxMissionIncrement = 100_000
)

// Progress is the per-session aggregate. Level is derived from XP and is
// rewritten on every XP change.
type Progress struct {
	SessionID        string    `json:"session_id"`
	UserAlias        string    `json:"user_alias"`
	XP               int       `json:"xp"`
	Level            int       `json:"level"`
	Stats            Stats     `json:"stats"`
	Missions         []Mission `json:"missions"`
	Badges           []Badge   `json:"badges"`
	OptInLeaderboard bool      `json:"opt_in_leaderboard"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type XPGain struct {
	Action        Action `json:"action"`
	Amount        int    `json:"amount"`
	XP            int    `json:"xp"`
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
}

func (g XPGain) LeveledUp() bool {
	return g.Level > g.PreviousLevel
}

// AddXP applies the reward for action. A positive customAmount replaces the
// table value; zero means "use the table".
func (p *Progress) AddXP(action Action, customAmount int, now time.Time) (XPGain, error) {
	base, ok := action.BaseXP()
	if !ok {
		return XPGain{}, domainerrors.ErrUnknownAction
	}
	if customAmount < 0 || customAmount > MaxXPAward {
		return XPGain{}, domainerrors.ErrInvalidInput
	}
	amount := base
	if customAmount > 0 {
		amount = customAmount
	}

	previous := leveling.LevelForXP(p.XP)
	if amount > math.MaxInt-p.XP {
		p.XP = math.MaxInt
	} else {
		p.XP += amount
	}
	p.Level = leveling.LevelForXP(p.XP)
	p.countAction(action, now)
	p.UpdatedAt = now

	return XPGain{
		Action:        action,
		Amount:        amount,
		XP:            p.XP,
		PreviousLevel: previous,
		Level:         p.Level,
	}, nil
}

func (p *Progress) countAction(action Action, now time.Time) {
	switch action {
	case ActionSearch:
		p.Stats.TotalSearches++
	case ActionOpen:
		p.Stats.TotalDocumentsOpened++
	case ActionCopy:
		p.Stats.TotalCopies++
		day := now.UTC().Format("2006-01-02")
		if p.Stats.CopiesDay != day {
			p.Stats.CopiesDay = day
			p.Stats.CopiesToday = 0
		}
		p.Stats.CopiesToday++
	case ActionShare:
		p.Stats.TotalShares++
	}
}

// RecordMode remembers the research mode behind action. It reports whether
// the mode was new.
func (p *Progress) RecordMode(action Action) bool {
	mode, ok := action.SearchMode()
	if !ok || p.Stats.UsedMode(mode) {
		return false
	}
	p.Stats.ModesUsed = append(p.Stats.ModesUsed, mode)
	return true
}

// AdvanceMission adds increment to the mission progress, capped at target.
// It does not award XP.
func (p *Progress) AdvanceMission(missionID string, increment int) (Mission, error) {
	if increment < 1 || increment > MaxMissionIncrement {
		return Mission{}, domainerrors.ErrInvalidInput
	}
	idx := p.missionIndex(missionID)
	if idx < 0 {
		return Mission{}, domainerrors.ErrMissionNotFound
	}
	mission := &p.Missions[idx]
	if !mission.Completed {
		mission.advance(increment)
	}
	return *mission, nil
}

// CompleteMission marks a ready mission completed and awards its XP.
// Completing an already completed mission changes nothing and reports false.
func (p *Progress) CompleteMission(missionID string, now time.Time) (Mission, XPGain, bool, error) {
	idx := p.missionIndex(missionID)
	if idx < 0 {
		return Mission{}, XPGain{}, false, domainerrors.ErrMissionNotFound
	}
	mission := &p.Missions[idx]
	if mission.Completed {
		return *mission, XPGain{}, false, nil
	}
	if !mission.ReachedTarget() {
		return *mission, XPGain{}, false, domainerrors.ErrMissionNotReady
	}
	mission.Completed = true
	gain, err := p.AddXP(ActionMissionComplete, mission.XP, now)
	if err != nil {
		mission.Completed = false
		return Mission{}, XPGain{}, false, err
	}
	return *mission, gain, true, nil
}

// UnlockBadge flips a badge to earned once. Earned badges keep their
// original EarnedAt.
func (p *Progress) UnlockBadge(badgeID string, now time.Time) (Badge, bool, error) {
	idx := p.badgeIndex(badgeID)
	if idx < 0 {
		return Badge{}, false, domainerrors.ErrBadgeNotFound
	}
	badge := &p.Badges[idx]
	if badge.Earned {
		return *badge, false, nil
	}
	earnedAt := now.UTC()
	badge.Earned = true
	badge.EarnedAt = &earnedAt
	p.UpdatedAt = now
	return *badge, true, nil
}

// PendingBadges lists unearned badges whose rule now holds.
func (p Progress) PendingBadges() []string {
	var ids []string
	for _, badge := range p.Badges {
		if !badge.Earned && badge.Rule.Satisfied(p.Stats) {
			ids = append(ids, badge.ID)
		}
	}
	return ids
}

// MissionsTriggeredBy lists open missions advanced by action.
func (p Progress) MissionsTriggeredBy(action Action) []string {
	var ids []string
	for _, mission := range p.Missions {
		if mission.Trigger == action && !mission.Completed {
			ids = append(ids, mission.ID)
		}
	}
	return ids
}

func (p Progress) Mission(missionID string) (Mission, bool) {
	idx := p.missionIndex(missionID)
	if idx < 0 {
		return Mission{}, false
	}
	return p.Missions[idx], true
}

func (p Progress) Badge(badgeID string) (Badge, bool) {
	idx := p.badgeIndex(badgeID)
	if idx < 0 {
		return Badge{}, false
	}
	return p.Badges[idx], true
}

// Clone returns a deep copy so stores never share slices with callers.
func (p Progress) Clone() Progress {
	out := p
	out.Stats.AreasExplored = append([]string(nil), p.Stats.AreasExplored...)
	out.Stats.ModesUsed = append([]string(nil), p.Stats.ModesUsed...)
	out.Missions = append([]Mission(nil), p.Missions...)
	out.Badges = make([]Badge, len(p.Badges))
	for i, badge := range p.Badges {
		if badge.EarnedAt != nil {
			earnedAt := *badge.EarnedAt
			badge.EarnedAt = &earnedAt
		}
		badge.Rule.Modes = append([]string(nil), badge.Rule.Modes...)
		out.Badges[i] = badge
	}
	return out
}

func (p Progress) missionIndex(missionID string) int {
	missionID = strings.TrimSpace(missionID)
	for i := range p.Missions {
		if p.Missions[i].ID == missionID {
			return i
		}
	}
	return -1
}

func (p Progress) badgeIndex(badgeID string) int {
	badgeID = strings.TrimSpace(badgeID)
	for i := range p.Badges {
		if p.Badges[i].ID == badgeID {
			return i
		}
	}
	return -1
}
