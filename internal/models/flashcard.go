package models

import (
	"strings"
	"time"
)

// Direction chooses which side of a card is shown as the prompt.
type Direction string

const (
	// ForeignToNative prompts with the foreign word and expects the native one.
	ForeignToNative Direction = "foreign-native"
	// NativeToForeign prompts with the native word and expects the foreign one.
	NativeToForeign Direction = "native-foreign"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == ForeignToNative || d == NativeToForeign
}

type Flashcard struct {
	ID              string     `json:"id" db:"id"`
	UserID          string     `json:"user_id" db:"user_id"`
	Foreign         string     `json:"foreign" db:"foreign_text"`
	Native          string     `json:"native" db:"native_text"`
	Direction       Direction  `json:"direction" db:"direction"`
	MasteryLevel    int        `json:"mastery_level" db:"mastery_level"`
	LastPracticedAt *time.Time `json:"last_practiced_at" db:"last_practiced_at"`
	NextReviewAt    time.Time  `json:"next_review_at" db:"next_review_at"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// Prompt is the side shown to the user.
func (c Flashcard) Prompt() string {
	if c.Direction == NativeToForeign {
		return c.Native
	}
	return c.Foreign
}

// MatchKey identifies a word pair regardless of case. Two cards with the same
// key are duplicates.
func MatchKey(foreign, native string) string {
	return strings.ToLower(strings.TrimSpace(foreign)) + "|" + strings.ToLower(strings.TrimSpace(native))
}

// Answer is the side the user must type.
func (c Flashcard) Answer() string {
	if c.Direction == NativeToForeign {
		return c.Foreign
	}
	return c.Native
}

type FlashcardFilter struct {
	UserID     string
	Search     string
	Direction  Direction
	MinMastery *int
	MaxMastery *int
	DueBefore  *time.Time
	// DueOnly restricts the listing to cards due now by the service clock.
	DueOnly    bool
	OrderBy    string
	OrderDir   string
	Limit      int
	Offset     int
}

// PracticeResult is one scored practice attempt ready to be stored.
type PracticeResult struct {
	SessionID        string
	UserID           string
	FlashcardID      string
	Correct          bool
	Attempts         int
	ResponseTimeMS   int64
	MasteryLevel     int
	NextReviewAt     time.Time
	PracticedAt      time.Time
	Streak           int
	LastPracticeDate string
}
