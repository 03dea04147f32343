// Package mastery scores practice attempts and schedules the next review of a
// flashcard. All functions are pure; the current time is always passed in.
package mastery

import (
	"strings"
	"time"
)

const (
	MinLevel = 0
	MaxLevel = 100

	// MasteredLevel is the level at which a card counts as mastered in stats.
	MasteredLevel = 80

	correctGain      = 5
	incorrectPenalty = 10
)

// intervalSteps maps the lower bound of a mastery band to the number of days
// until the next review after a correct answer. Ordered from highest band down.
var intervalSteps = []struct {
	minLevel int
	days     int
}{
	{90, 30},
	{70, 14},
	{50, 7},
	{30, 3},
	{MinLevel, 1},
}

// Clamp bounds a mastery level to [MinLevel, MaxLevel].
func Clamp(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// UpdateMastery returns the new mastery level after an attempt.
func UpdateMastery(level int, correct bool) int {
	level = Clamp(level)
	if correct {
		return Clamp(level + correctGain)
	}
	return Clamp(level - incorrectPenalty)
}

// NextReviewInterval returns the number of days until a card is due again.
// Wrong answers are always reviewed the next day.
func NextReviewInterval(level int, correct bool) int {
	if !correct {
		return 1
	}
	level = Clamp(level)
	for _, step := range intervalSteps {
		if level >= step.minLevel {
			return step.days
		}
	}
	return 1
}

// NextReviewAt adds whole calendar days to now in now's location, so DST
// transitions keep the wall-clock time.
func NextReviewAt(now time.Time, days int) time.Time {
	return now.AddDate(0, 0, days)
}

// CheckAnswer compares answers case-insensitively after trimming whitespace.
// Either string containing the other counts as correct; an empty answer never does.
func CheckAnswer(given, expected string) bool {
	g := strings.ToLower(strings.TrimSpace(given))
	e := strings.ToLower(strings.TrimSpace(expected))
	if g == "" || e == "" {
		return false
	}
	return g == e || strings.Contains(e, g) || strings.Contains(g, e)
}
