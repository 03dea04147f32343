package mastery

import "time"

// Input is everything needed to score one practice result.
type Input struct {
	CardID           string
	CurrentLevel     int
	Correct          bool
	CurrentStreak    int
	LastPracticeDate *time.Time
	Now              time.Time
}

// Outcome is the new scheduling and streak state for a scored result.
type Outcome struct {
	CardID           string
	Level            int
	IntervalDays     int
	NextReviewAt     time.Time
	Streak           int
	LastPracticeDate time.Time
}

// Score applies one practice result to a card and its owner's streak.
func Score(in Input) Outcome {
	level := UpdateMastery(in.CurrentLevel, in.Correct)
	days := NextReviewInterval(level, in.Correct)
	return Outcome{
		CardID:           in.CardID,
		Level:            level,
		IntervalDays:     days,
		NextReviewAt:     NextReviewAt(in.Now, days),
		Streak:           UpdateStreak(in.CurrentStreak, in.LastPracticeDate, in.Now),
		LastPracticeDate: StartOfDay(in.Now),
	}
}
