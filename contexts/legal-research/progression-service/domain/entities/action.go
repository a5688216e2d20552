package entities

import (
	"strings"

	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"
)

// Action is a user action that earns XP.
type Action string

const (
	ActionSearch          Action = "search"
	ActionOpen            Action = "open"
	ActionCopy            Action = "copy"
	ActionSave            Action = "save"
	ActionShare           Action = "share"
	ActionContext         Action = "context"
	ActionPetition        Action = "petition"
	ActionSentence        Action = "sentence"
	ActionRaioX           Action = "raiox"
	ActionMissionComplete Action = "mission_complete"
)

var xpByAction = map[Action]int{
	ActionSearch:          1,
	ActionOpen:            2,
	ActionCopy:            4,
	ActionSave:            2,
	ActionShare:           3,
	ActionContext:         6,
	ActionPetition:        6,
	ActionSentence:        6,
	ActionRaioX:           6,
	ActionMissionComplete: 8,
}

// SearchModes are the four research modes tracked for exploration badges.
var SearchModes = []string{"search", "context", "petition", "raiox"}

func ParseAction(raw string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := xpByAction[action]; !ok {
		return "", domainerrors.ErrUnknownAction
	}
	return action, nil
}

// BaseXP is the reward table entry for the action.
func (a Action) BaseXP() (int, bool) {
	amount, ok := xpByAction[a]
	return amount, ok
}

// SearchMode reports the research mode an action belongs to. Sentence
// analysis runs on the petition page, so it counts as the petition mode.
func (a Action) SearchMode() (string, bool) {
	switch a {
	case ActionSearch:
		return "search", true
	case ActionContext:
		return "context", true
	case ActionPetition, ActionSentence:
		return "petition", true
	case ActionRaioX:
		return "raiox", true
	default:
		return "", false
	}
}
