package entities

type MissionType string

const (
	MissionDaily  MissionType = "daily"
	MissionWeekly MissionType = "weekly"
)

type MissionState string

const (
	MissionNotStarted MissionState = "not_started"
	MissionInProgress MissionState = "in_progress"
	MissionReady      MissionState = "ready"
	MissionCompleted  MissionState = "completed"
)

type Mission struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Type        MissionType `json:"type"`
	Target      int         `json:"target"`
	Progress    int         `json:"progress"`
	Completed   bool        `json:"completed"`
	XP          int         `json:"xp"`
	Icon        string      `json:"icon,omitempty"`
	Trigger     Action      `json:"trigger,omitempty"`
}

func (m Mission) State() MissionState {
	switch {
	case m.Completed:
		return MissionCompleted
	case m.Progress >= m.Target:
		return MissionReady
	case m.Progress > 0:
		return MissionInProgress
	default:
		return MissionNotStarted
	}
}

func (m Mission) ReachedTarget() bool {
	return m.Progress >= m.Target
}

// advance moves progress forward, capped at the target.
func (m *Mission) advance(increment int) {
	if increment <= 0 {
		return
	}
	if increment >= m.Target-m.Progress {
		m.Progress = max(m.Progress, m.Target)
		return
	}
	m.Progress += increment
}
