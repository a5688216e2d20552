package entities

import (
	"math"
	"testing"
	"time"

	domainerrors "ijus/contexts/legal-research/progression-service/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

func newTestProgress() Progress {
	earned := time.Date(2024, 1, 10, 10, 0, 0, 0, time.UTC)
	return Progress{
		SessionID: "session-1",
		UserAlias: "Ana",
		XP:        48,
		Level:     0,
		Missions: []Mission{
			{ID: "abrir-decisoes", Type: MissionDaily, Target: 5, Progress: 2, XP: 8, Trigger: ActionOpen},
			{ID: "usar-contexto", Type: MissionDaily, Target: 1, XP: 8, Trigger: ActionContext},
		},
		Badges: []Badge{
			{ID: "primeira-copia", Earned: true, EarnedAt: &earned, Rule: BadgeRule{Kind: RuleStatAtLeast, Stat: StatTotalCopies, AtLeast: 1}},
			{ID: "cirurgico", Rule: BadgeRule{Kind: RuleStatAtLeast, Stat: StatCopiesToday, AtLeast: 2}},
			{ID: "explorador", Rule: BadgeRule{Kind: RuleModesUsed, Modes: SearchModes}},
		},
	}
}

func TestAddXPCrossesLevelOnce(t *testing.T) {
	progress := newTestProgress()

	gain, err := progress.AddXP(ActionCopy, 0, testNow)
	require.NoError(t, err)

	assert.Equal(t, 4, gain.Amount)
	assert.Equal(t, 52, progress.XP)
	assert.Equal(t, 1, progress.Level)
	assert.True(t, gain.LeveledUp())
	assert.Equal(t, 1, progress.Stats.TotalCopies)
	assert.Equal(t, 1, progress.Stats.CopiesToday)

	gain, err = progress.AddXP(ActionSearch, 0, testNow)
	require.NoError(t, err)
	assert.False(t, gain.LeveledUp())
	assert.Equal(t, 1, progress.Stats.TotalSearches)
	assert.Equal(t, 0, progress.Stats.TotalShares)
}

func TestAddXPCustomAmountAndValidation(t *testing.T) {
	progress := newTestProgress()

	gain, err := progress.AddXP(ActionShare, 30, testNow)
	require.NoError(t, err)
	assert.Equal(t, 30, gain.Amount)
	assert.Equal(t, 78, progress.XP)

	_, err = progress.AddXP(ActionShare, -1, testNow)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)

	_, err = progress.AddXP(Action("dance"), 0, testNow)
	assert.ErrorIs(t, err, domainerrors.ErrUnknownAction)
	assert.Equal(t, 78, progress.XP)
}

func TestAddXPRejectsAmountAboveCeiling(t *testing.T) {
	progress := newTestProgress()

	_, err := progress.AddXP(ActionShare, math.MaxInt, testNow)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	assert.Equal(t, 48, progress.XP)

	gain, err := progress.AddXP(ActionShare, MaxXPAward, testNow)
	require.NoError(t, err)
	assert.Equal(t, 48+MaxXPAward, gain.XP)
}

func TestAddXPSaturatesNearMaxInt(t *testing.T) {
	progress := newTestProgress()
	progress.XP = math.MaxInt - 2

	gain, err := progress.AddXP(ActionShare, 0, testNow)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, progress.XP)
	assert.Equal(t, math.MaxInt, gain.XP)
	assert.GreaterOrEqual(t, progress.Level, gain.PreviousLevel)
}

func TestCopiesTodayResetsOnNewDay(t *testing.T) {
	progress := newTestProgress()
	_, _ = progress.AddXP(ActionCopy, 0, testNow)
	_, _ = progress.AddXP(ActionCopy, 0, testNow)
	assert.Equal(t, 2, progress.Stats.CopiesToday)

	_, _ = progress.AddXP(ActionCopy, 0, testNow.Add(24*time.Hour))
	assert.Equal(t, 1, progress.Stats.CopiesToday)
	assert.Equal(t, 3, progress.Stats.TotalCopies)
}

func TestAdvanceMissionCapsAtTarget(t *testing.T) {
	progress := newTestProgress()

	mission, err := progress.AdvanceMission("abrir-decisoes", 10)
	require.NoError(t, err)
	assert.Equal(t, 5, mission.Progress)
	assert.Equal(t, MissionReady, mission.State())
	assert.Equal(t, 48, progress.XP, "advancing must not award xp")

	_, err = progress.AdvanceMission("abrir-decisoes", 0)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	_, err = progress.AdvanceMission("missing", 1)
	assert.ErrorIs(t, err, domainerrors.ErrMissionNotFound)
}

func TestAdvanceMissionHugeIncrement(t *testing.T) {
	progress := newTestProgress()

	_, err := progress.AdvanceMission("abrir-decisoes", math.MaxInt)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidInput)
	mission, _ := progress.Mission("abrir-decisoes")
	assert.Equal(t, 2, mission.Progress)
	assert.Equal(t, MissionInProgress, mission.State())

	mission, err = progress.AdvanceMission("abrir-decisoes", MaxMissionIncrement)
	require.NoError(t, err)
	assert.Equal(t, 5, mission.Progress)
	assert.Equal(t, MissionReady, mission.State())
}

func TestMissionAdvanceSaturatesAtTarget(t *testing.T) {
	mission := Mission{Target: 5, Progress: 2}
	mission.advance(math.MaxInt)
	assert.Equal(t, 5, mission.Progress)

	mission.advance(1)
	assert.Equal(t, 5, mission.Progress)
}

func TestCompleteMissionAwardsOnce(t *testing.T) {
	progress := newTestProgress()

	_, _, _, err := progress.CompleteMission("abrir-decisoes", testNow)
	assert.ErrorIs(t, err, domainerrors.ErrMissionNotReady)

	_, err = progress.AdvanceMission("abrir-decisoes", 3)
	require.NoError(t, err)

	mission, gain, changed, err := progress.CompleteMission("abrir-decisoes", testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, mission.Completed)
	assert.Equal(t, 8, gain.Amount)
	assert.Equal(t, 56, progress.XP)

	_, _, changed, err = progress.CompleteMission("abrir-decisoes", testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, 56, progress.XP)
}

func TestUnlockBadgeKeepsOriginalTimestamp(t *testing.T) {
	progress := newTestProgress()
	original := *progress.Badges[0].EarnedAt

	badge, changed, err := progress.UnlockBadge("primeira-copia", testNow)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.True(t, badge.EarnedAt.Equal(original))

	badge, changed, err = progress.UnlockBadge("cirurgico", testNow)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, badge.EarnedAt)
	assert.True(t, badge.EarnedAt.Equal(testNow))

	_, _, err = progress.UnlockBadge("missing", testNow)
	assert.ErrorIs(t, err, domainerrors.ErrBadgeNotFound)
}

func TestPendingBadgesFollowRules(t *testing.T) {
	progress := newTestProgress()
	assert.Empty(t, progress.PendingBadges())

	_, _ = progress.AddXP(ActionCopy, 0, testNow)
	_, _ = progress.AddXP(ActionCopy, 0, testNow)
	assert.Equal(t, []string{"cirurgico"}, progress.PendingBadges())

	for _, action := range []Action{ActionSearch, ActionContext, ActionSentence, ActionRaioX} {
		progress.RecordMode(action)
	}
	assert.ElementsMatch(t, []string{"cirurgico", "explorador"}, progress.PendingBadges())
	assert.False(t, progress.RecordMode(ActionPetition), "petition shares the sentence mode")
}

func TestMissionsTriggeredBySkipsCompleted(t *testing.T) {
	progress := newTestProgress()
	assert.Equal(t, []string{"abrir-decisoes"}, progress.MissionsTriggeredBy(ActionOpen))

	progress.Missions[0].Progress = 5
	progress.Missions[0].Completed = true
	assert.Empty(t, progress.MissionsTriggeredBy(ActionOpen))
}

func TestCloneIsDeep(t *testing.T) {
	progress := newTestProgress()
	clone := progress.Clone()

	clone.Missions[0].Progress = 99
	*clone.Badges[0].EarnedAt = testNow
	clone.Badges[2].Rule.Modes[0] = "changed"

	assert.Equal(t, 2, progress.Missions[0].Progress)
	assert.False(t, progress.Badges[0].EarnedAt.Equal(testNow))
	assert.Equal(t, "search", SearchModes[0])
}

func TestParseAction(t *testing.T) {
	action, err := ParseAction("  Copy ")
	require.NoError(t, err)
	assert.Equal(t, ActionCopy, action)

	_, err = ParseAction("")
	assert.ErrorIs(t, err, domainerrors.ErrUnknownAction)
}
