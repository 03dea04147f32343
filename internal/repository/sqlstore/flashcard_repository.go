package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

var flashcardColumns = []string{
	"id", "user_id", "foreign_text", "native_text", "direction",
	"mastery_level", "last_practiced_at", "next_review_at", "created_at",
}

var flashcardOrderColumns = map[string]string{
	"created_at":     "created_at",
	"mastery_level":  "mastery_level",
	"next_review_at": "next_review_at",
}

type flashcardRepository struct {
	db *sqlx.DB
}

// NewFlashcardRepository creates a new FlashcardRepository implementation
func NewFlashcardRepository(db *sqlx.DB) repository.FlashcardRepository {
	return &flashcardRepository{db: db}
}

const insertFlashcardSQL = `
INSERT INTO flashcards (id, user_id, foreign_text, native_text, match_key, direction, mastery_level, last_practiced_at, next_review_at, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func flashcardArgs(card models.Flashcard) []any {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now()
	}
	return []any{
		card.ID, card.UserID, card.Foreign, card.Native, models.MatchKey(card.Foreign, card.Native), string(card.Direction),
		card.MasteryLevel, utcPtr(card.LastPracticedAt), utc(card.NextReviewAt), utc(card.CreatedAt),
	}
}

func (r *flashcardRepository) Insert(ctx context.Context, card models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("inserting flashcard: user_id=%s, foreign=%s", card.UserID, card.Foreign)

	if _, err := r.db.ExecContext(ctx, r.db.Rebind(insertFlashcardSQL), flashcardArgs(card)...); err != nil {
		log.Error("failed to insert flashcard: %v", err)
		return err
	}
	return nil
}

func (r *flashcardRepository) InsertBatch(ctx context.Context, cards []models.Flashcard) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	if len(cards) == 0 {
		return nil
	}
	log.Debug("inserting %d flashcards in batch", len(cards))

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		stmt, err := tx.PreparexContext(ctx, tx.Rebind(insertFlashcardSQL))
		if err != nil {
			log.Error("failed to prepare insert statement: %v", err)
			return err
		}
		defer stmt.Close()

		for i, card := range cards {
			if _, err := stmt.ExecContext(ctx, flashcardArgs(card)...); err != nil {
				log.Error("failed to insert flashcard %d/%d: %v", i+1, len(cards), err)
				return err
			}
		}
		log.Info("batch insert completed: %d flashcards", len(cards))
		return nil
	})
}

func (r *flashcardRepository) Get(ctx context.Context, id, userID string) (*models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting flashcard: id=%s", id)

	query, args, err := builder(r.db).
		Select(flashcardColumns...).
		From("flashcards").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var card models.Flashcard
	err = r.db.GetContext(ctx, &card, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("flashcard not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get flashcard: %v", err)
		return nil, err
	}
	return &card, nil
}

func applyFlashcardFilter(q squirrel.SelectBuilder, filter models.FlashcardFilter) squirrel.SelectBuilder {
	q = q.Where(squirrel.Eq{"user_id": filter.UserID})
	if s := strings.ToLower(strings.TrimSpace(filter.Search)); s != "" {
		like := "%" + s + "%"
		q = q.Where(squirrel.Or{
			squirrel.Expr("LOWER(foreign_text) LIKE ?", like),
			squirrel.Expr("LOWER(native_text) LIKE ?", like),
		})
	}
	if filter.Direction != "" {
		q = q.Where(squirrel.Eq{"direction": string(filter.Direction)})
	}
	if filter.MinMastery != nil {
		q = q.Where(squirrel.GtOrEq{"mastery_level": *filter.MinMastery})
	}
	if filter.MaxMastery != nil {
		q = q.Where(squirrel.LtOrEq{"mastery_level": *filter.MaxMastery})
	}
	if filter.DueBefore != nil {
		q = q.Where(squirrel.LtOrEq{"next_review_at": utc(*filter.DueBefore)})
	}
	return q
}

func (r *flashcardRepository) List(ctx context.Context, filter models.FlashcardFilter) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("listing flashcards: user_id=%s, search=%q, limit=%d, offset=%d", filter.UserID, filter.Search, filter.Limit, filter.Offset)

	q := applyFlashcardFilter(builder(r.db).Select(flashcardColumns...).From("flashcards"), filter)

	orderBy, ok := flashcardOrderColumns[filter.OrderBy]
	if !ok {
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	q = q.OrderBy(orderBy+" "+orderDir, "id ASC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	var cards []models.Flashcard
	if err := r.db.SelectContext(ctx, &cards, query, args...); err != nil {
		log.Error("failed to list flashcards: %v", err)
		return nil, err
	}
	log.Debug("found %d flashcards", len(cards))
	return cards, nil
}

func (r *flashcardRepository) Count(ctx context.Context, filter models.FlashcardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	query, args, err := applyFlashcardFilter(builder(r.db).Select("COUNT(*)").From("flashcards"), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		log.Error("failed to count flashcards: %v", err)
		return 0, err
	}
	log.Debug("flashcard count: %d", count)
	return count, nil
}

func (r *flashcardRepository) Due(ctx context.Context, userID string, now time.Time, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting due flashcards: user_id=%s, limit=%d", userID, limit)

	var cards []models.Flashcard
	err := r.db.SelectContext(ctx, &cards, r.db.Rebind(`
SELECT `+strings.Join(flashcardColumns, ", ")+`
FROM flashcards
WHERE user_id = ? AND next_review_at <= ?
ORDER BY next_review_at ASC, id ASC
LIMIT ?
`), userID, utc(now), limit)
	if err != nil {
		log.Error("failed to get due flashcards: %v", err)
		return nil, err
	}
	log.Debug("found %d due flashcards", len(cards))
	return cards, nil
}

func (r *flashcardRepository) Random(ctx context.Context, userID string, limit int) ([]models.Flashcard, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("getting random flashcards: user_id=%s, limit=%d", userID, limit)

	var cards []models.Flashcard
	err := r.db.SelectContext(ctx, &cards, r.db.Rebind(`
SELECT `+strings.Join(flashcardColumns, ", ")+`
FROM flashcards
WHERE user_id = ?
ORDER BY RANDOM()
LIMIT ?
`), userID, limit)
	if err != nil {
		log.Error("failed to get random flashcards: %v", err)
		return nil, err
	}
	return cards, nil
}

func (r *flashcardRepository) Exists(ctx context.Context, userID, foreign, native string) (bool, error) {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")

	var count int
	err := r.db.GetContext(ctx, &count, r.db.Rebind(`
SELECT COUNT(*) FROM flashcards
WHERE user_id = ? AND match_key = ?
`), userID, models.MatchKey(foreign, native))
	if err != nil {
		log.Error("failed to check flashcard existence: %v", err)
		return false, err
	}
	return count > 0, nil
}

func (r *flashcardRepository) Delete(ctx context.Context, id, userID string) error {
	log := logger.FromContext(ctx).WithPrefix("flashcard_repo")
	log.Debug("deleting flashcard: id=%s", id)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM practice_sessions WHERE flashcard_id = ? AND user_id = ?`), id, userID); err != nil {
			log.Error("failed to delete practice sessions: %v", err)
			return err
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM flashcards WHERE id = ? AND user_id = ?`), id, userID)
		if err != nil {
			log.Error("failed to delete flashcard: %v", err)
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}
