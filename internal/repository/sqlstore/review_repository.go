package sqlstore

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

type reviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository creates a new ReviewRepository implementation
func NewReviewRepository(db *sqlx.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) SaveResult(ctx context.Context, result models.PracticeResult) error {
	log := logger.FromContext(ctx).WithPrefix("review_repo")
	log.Debug("saving result: flashcard_id=%s, correct=%t, mastery=%d", result.FlashcardID, result.Correct, result.MasteryLevel)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, tx.Rebind(`
UPDATE flashcards
SET mastery_level = ?, last_practiced_at = ?, next_review_at = ?
WHERE id = ? AND user_id = ?
`), result.MasteryLevel, utc(result.PracticedAt), utc(result.NextReviewAt), result.FlashcardID, result.UserID)
		if err != nil {
			log.Error("failed to update flashcard: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return repository.ErrNotFound
		}

		var sessionID *string
		if result.SessionID != "" {
			sessionID = &result.SessionID
		}
		attempts := result.Attempts
		if attempts < 1 {
			attempts = 1
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
INSERT INTO practice_sessions (id, user_id, flashcard_id, session_id, correct, attempts, response_time_ms, practice_date, practiced_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`), uuid.NewString(), result.UserID, result.FlashcardID, sessionID, result.Correct, attempts,
			result.ResponseTimeMS, result.LastPracticeDate, utc(result.PracticedAt)); err != nil {
			log.Error("failed to insert practice session: %v", err)
			return err
		}

		if _, err := tx.ExecContext(ctx, tx.Rebind(`UPDATE users SET streak = ?, last_practice_date = ? WHERE id = ?`),
			result.Streak, result.LastPracticeDate, result.UserID); err != nil {
			log.Error("failed to update user streak: %v", err)
			return err
		}

		log.Debug("result saved: flashcard_id=%s, streak=%d", result.FlashcardID, result.Streak)
		return nil
	})
}
