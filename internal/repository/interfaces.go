package repository

import (
	"context"
	"errors"
	"time"

	"github.com/wordflash/wordflash/internal/models"
)

// ErrNotFound is returned by writes whose target row does not exist.
var ErrNotFound = errors.New("repository: not found")

// UserRepository handles user data access. Lookups return nil, nil when the
// user does not exist.
type UserRepository interface {
	Get(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Upsert(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListReminderRecipients(ctx context.Context) ([]models.User, error)
	SetTelegramChat(ctx context.Context, id string, chatID *int64, enabled bool) error
	Delete(ctx context.Context, id string) error
}

// FlashcardRepository handles flashcard data access. Get returns nil, nil
// when the card does not exist or belongs to another user.
type FlashcardRepository interface {
	Insert(ctx context.Context, card models.Flashcard) error
	InsertBatch(ctx context.Context, cards []models.Flashcard) error
	Get(ctx context.Context, id, userID string) (*models.Flashcard, error)
	List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error)
	Count(ctx context.Context, filter models.FlashcardFilter) (int, error)
	Due(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error)
	Random(ctx context.Context, userID string, limit int) ([]models.Flashcard, error)
	Exists(ctx context.Context, userID, foreign, native string) (bool, error)
	Delete(ctx context.Context, id, userID string) error
}

// ReviewRepository stores scored practice results.
type ReviewRepository interface {
	// SaveResult updates the card, appends the practice session and updates
	// the user's streak in one transaction.
	SaveResult(ctx context.Context, result models.PracticeResult) error
}

// StatsRepository handles practice aggregates.
type StatsRepository interface {
	WeeklyStats(ctx context.Context, userID string, fromDate string) ([]models.WeeklyStat, error)
	RollupDay(ctx context.Context, practiceDate string) (int64, error)
	DueCounts(ctx context.Context, now time.Time) (map[string]int, error)
}
