package models

import "time"

type User struct {
	ID               string    `json:"id" db:"id"`
	Username         string    `json:"username" db:"username"`
	Streak           int       `json:"streak" db:"streak"`
	LastPracticeDate *string   `json:"last_practice_date" db:"last_practice_date"`
	TelegramChatID   *int64    `json:"telegram_chat_id,omitempty" db:"telegram_chat_id"`
	RemindersEnabled bool      `json:"reminders_enabled" db:"reminders_enabled"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
