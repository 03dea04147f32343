package models

import "time"

// PracticeSession is one stored practice attempt on a card.
type PracticeSession struct {
	ID             string    `json:"id" db:"id"`
	UserID         string    `json:"user_id" db:"user_id"`
	FlashcardID    string    `json:"flashcard_id" db:"flashcard_id"`
	Correct        bool      `json:"correct" db:"correct"`
	Attempts       int       `json:"attempts" db:"attempts"`
	ResponseTimeMS int64     `json:"response_time_ms" db:"response_time_ms"`
	PracticeDate   string    `json:"practice_date" db:"practice_date"`
	PracticedAt    time.Time `json:"practiced_at" db:"practiced_at"`
}

// WeeklyStat is the per-day practice aggregate for one user.
type WeeklyStat struct {
	UserID              string  `json:"user_id" db:"user_id"`
	PracticeDate        string  `json:"practice_date" db:"practice_date"`
	TotalCardsPracticed int     `json:"total_cards_practiced" db:"total_cards_practiced"`
	AccuracyRate        float64 `json:"accuracy_rate" db:"accuracy_rate"`
	AvgResponseTimeMS   float64 `json:"avg_response_time_ms" db:"avg_response_time_ms"`
}

type DayCount struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Value int    `json:"value"`
}

type DueCard struct {
	ID           string    `json:"id"`
	Prompt       string    `json:"prompt"`
	Answer       string    `json:"answer"`
	Direction    Direction `json:"direction"`
	MasteryLevel int       `json:"mastery_level"`
}

// Dashboard is the practice overview for one user.
type Dashboard struct {
	TotalCards      int        `json:"total_cards"`
	MasteredCards   int        `json:"mastered_cards"`
	Streak          int        `json:"streak"`
	AccuracyRate    int        `json:"accuracy_rate"`
	AvgResponseTime float64    `json:"avg_response_time"`
	WeeklyReviewed  int        `json:"weekly_reviewed"`
	WeeklyData      []DayCount `json:"weekly_data"`
	DueCards        []DueCard  `json:"due_cards"`
}
