// Package leveling maps accumulated XP to levels.
//
// Levels start at 0. The table below lists the XP needed to reach each level;
// past the last entry every level costs a flat StepBeyondTable.
package leveling

// StepBeyondTable is the XP needed for each level after the last table entry.
const StepBeyondTable = 300

var thresholds = []int{0, 50, 120, 240, 420, 680, 980, 1320, 1700, 2120, 2580}

// Thresholds returns a copy of the fixed threshold table.
func Thresholds() []int {
	return append([]int(nil), thresholds...)
}

// Threshold returns the XP needed to reach level.
func Threshold(level int) int {
	if level <= 0 {
		return 0
	}
	last := len(thresholds) - 1
	if level <= last {
		return thresholds[level]
	}
	return thresholds[last] + (level-last)*StepBeyondTable
}

// LevelForXP returns the highest level whose threshold is <= xp.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 0
	}
	last := len(thresholds) - 1
	if xp >= thresholds[last] {
		return last + (xp-thresholds[last])/StepBeyondTable
	}
	level := 0
	for i, threshold := range thresholds {
		if threshold > xp {
			break
		}
		level = i
	}
	return level
}

// XPForNextLevel returns the XP needed to reach level+1.
func XPForNextLevel(level int) int {
	if level < 0 {
		level = 0
	}
	return Threshold(level + 1)
}

// Progress is the progress-bar view of the XP earned inside the current level.
type Progress struct {
	Current    int     `json:"current"`
	Target     int     `json:"target"`
	Percentage float64 `json:"percentage"`
}

// XPProgress reports how far currentXP is through level. Percentage is
// clamped to [0, 100].
func XPProgress(currentXP int, level int) Progress {
	if level < 0 {
		level = 0
	}
	base := Threshold(level)
	target := XPForNextLevel(level) - base
	current := currentXP - base

	percentage := 0.0
	if target > 0 {
		percentage = float64(current) / float64(target) * 100
	}
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}
	return Progress{
		Current:    current,
		Target:     target,
		Percentage: percentage,
	}
}
