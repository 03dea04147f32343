package mastery_test

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/mastery"
)

func TestUpdateMastery_Correct(t *testing.T) {
	for level := 0; level <= 100; level++ {
		got := mastery.UpdateMastery(level, true)
		assert.GreaterOrEqual(t, got, level, "level %d", level)
		assert.LessOrEqual(t, got, 100, "level %d", level)
	}
	assert.Equal(t, 100, mastery.UpdateMastery(98, true))
	assert.Equal(t, 100, mastery.UpdateMastery(100, true))
	assert.Equal(t, 5, mastery.UpdateMastery(0, true))
}

func TestUpdateMastery_Incorrect(t *testing.T) {
	for level := 0; level <= 100; level++ {
		got := mastery.UpdateMastery(level, false)
		assert.GreaterOrEqual(t, got, 0, "level %d", level)
		assert.LessOrEqual(t, got, level, "level %d", level)
	}
	assert.Equal(t, 0, mastery.UpdateMastery(5, false))
	assert.Equal(t, 40, mastery.UpdateMastery(50, false))
}

func TestUpdateMastery_ClampsOutOfRangeInput(t *testing.T) {
	assert.Equal(t, 100, mastery.UpdateMastery(250, true))
	assert.Equal(t, 90, mastery.UpdateMastery(250, false))
	assert.Equal(t, 5, mastery.UpdateMastery(-40, true))
	assert.Equal(t, 0, mastery.UpdateMastery(-40, false))
}

func TestNextReviewInterval(t *testing.T) {
	tests := []struct {
		name    string
		level   int
		correct bool
		want    int
	}{
		{"lowest band", 0, true, 1},
		{"just below 30", 29, true, 1},
		{"lower edge of 30", 30, true, 3},
		{"mid 30s", 45, true, 3},
		{"top of 30s", 49, true, 3},
		{"lower edge of 50", 50, true, 7},
		{"top of 50s", 69, true, 7},
		{"lower edge of 70", 70, true, 14},
		{"top of 70s", 89, true, 14},
		{"lower edge of 90", 90, true, 30},
		{"ninety five", 95, true, 30},
		{"full mastery", 100, true, 30},
		{"wrong at zero", 0, false, 1},
		{"wrong at 95", 95, false, 1},
		{"wrong at 100", 100, false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mastery.NextReviewInterval(tt.level, tt.correct))
		})
	}
}

func TestNextReviewAt_UsesCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// 2024-03-31 is the spring-forward day in Berlin, so 24h later is 21:30.
	now := time.Date(2024, time.March, 30, 20, 30, 0, 0, loc)
	next := mastery.NextReviewAt(now, 1)

	assert.Equal(t, 31, next.Day())
	assert.Equal(t, 20, next.Hour())
	assert.Equal(t, 30, next.Minute())
	assert.Equal(t, 23*time.Hour, next.Sub(now))
}

func TestCheckAnswer(t *testing.T) {
	tests := []struct {
		name     string
		given    string
		expected string
		want     bool
	}{
		{"exact", "Hund", "Hund", true},
		{"case and space", "  hUNd ", "Hund", true},
		{"given inside expected", "Hund", "der Hund", true},
		{"expected inside given", "der Hund", "Hund", true},
		{"unrelated", "xyz", "Hund", false},
		{"empty answer", "", "Hund", false},
		{"blank answer", "   ", "Hund", false},
		{"empty expected", "Hund", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mastery.CheckAnswer(tt.given, tt.expected))
		})
	}
}

func TestScore_ThreeCorrectFromZero(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	level := 0
	streak := 0
	var last *time.Time

	for _, want := range []int{5, 10, 15} {
		out := mastery.Score(mastery.Input{
			CardID:           "card-1",
			CurrentLevel:     level,
			Correct:          true,
			CurrentStreak:    streak,
			LastPracticeDate: last,
			Now:              now,
		})

		assert.Equal(t, want, out.Level)
		assert.Equal(t, 1, out.IntervalDays)
		assert.Equal(t, now.AddDate(0, 0, 1), out.NextReviewAt)
		assert.Equal(t, 1, out.Streak)
		assert.Equal(t, "card-1", out.CardID)

		level = out.Level
		streak = out.Streak
		day := out.LastPracticeDate
		last = &day
	}
}

func TestScore_IncorrectAnswer(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	yesterday := now.AddDate(0, 0, -1)

	out := mastery.Score(mastery.Input{
		CurrentLevel:     72,
		Correct:          false,
		CurrentStreak:    4,
		LastPracticeDate: &yesterday,
		Now:              now,
	})

	assert.Equal(t, 62, out.Level)
	assert.Equal(t, 1, out.IntervalDays)
	assert.Equal(t, 5, out.Streak)
	assert.Equal(t, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), out.LastPracticeDate)
}
