package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type StartSessionRequest struct {
	UserAlias string `json:"user_alias,omitempty"`
}

type AddXPRequest struct {
	Action       string `json:"action"`
	CustomAmount int    `json:"custom_amount,omitempty"`
}

type RecordActivityRequest struct {
	Action string `json:"action"`
}

type MissionProgressRequest struct {
	Increment int `json:"increment"`
}

type StatsDTO struct {
	TotalSearches        int      `json:"total_searches"`
	TotalDocumentsOpened int      `json:"total_documents_opened"`
	TotalCopies          int      `json:"total_copies"`
	TotalShares          int      `json:"total_shares"`
	AverageRelevance     int      `json:"average_relevance"`
	TimeSavedMinutes     int      `json:"time_saved_minutes"`
	Streak               int      `json:"streak"`
	AreasExplored        []string `json:"areas_explored"`
	ModesUsed            []string `json:"modes_used"`
}

type MissionDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Target      int    `json:"target"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
	State       string `json:"state"`
	XP          int    `json:"xp"`
	Icon        string `json:"icon,omitempty"`
}

type BadgeDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
	Category    string `json:"category"`
	Earned      bool   `json:"earned"`
	EarnedAt    string `json:"earned_at,omitempty"`
}

type ProgressDTO struct {
	SessionID        string       `json:"session_id"`
	UserAlias        string       `json:"user_alias"`
	XP               int          `json:"xp"`
	Level            int          `json:"level"`
	NextLevelXP      int          `json:"next_level_xp"`
	LevelCurrent     int          `json:"level_current"`
	LevelTarget      int          `json:"level_target"`
	LevelPercentage  float64      `json:"level_percentage"`
	OptInLeaderboard bool         `json:"opt_in_leaderboard"`
	Stats            StatsDTO     `json:"stats"`
	Missions         []MissionDTO `json:"missions"`
	Badges           []BadgeDTO   `json:"badges"`
	UpdatedAt        string       `json:"updated_at"`
}

type ProgressResponse struct {
	Status string      `json:"status"`
	Data   ProgressDTO `json:"data"`
}

type XPGainDTO struct {
	Action        string `json:"action"`
	Amount        int    `json:"amount"`
	XP            int    `json:"xp"`
	PreviousLevel int    `json:"previous_level"`
	Level         int    `json:"level"`
	LeveledUp     bool   `json:"leveled_up"`
}

type NotificationDTO struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	XP          int    `json:"xp,omitempty"`
	Level       int    `json:"level,omitempty"`
	EntityID    string `json:"entity_id,omitempty"`
}

type ActionResponse struct {
	Status   string `json:"status"`
	Replayed bool   `json:"replayed,omitempty"`
	Data     struct {
		Changed       bool              `json:"changed"`
		Progress      ProgressDTO       `json:"progress"`
		Gains         []XPGainDTO       `json:"gains"`
		Notifications []NotificationDTO `json:"notifications"`
	} `json:"data"`
}

type LeaderboardEntryDTO struct {
	Rank      int    `json:"rank"`
	UserAlias string `json:"user_alias"`
	XP        int    `json:"xp"`
	Level     int    `json:"level"`
}

type LeaderboardResponse struct {
	Status string                `json:"status"`
	Data   []LeaderboardEntryDTO `json:"data"`
}
