package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/wordflash/wordflash/internal/logger"
	"github.com/wordflash/wordflash/internal/models"
	"github.com/wordflash/wordflash/internal/repository"
)

const userColumns = `id, username, streak, last_practice_date, telegram_chat_id, reminders_enabled, created_at`

type userRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Upsert(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("upserting user: username=%s", username)

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
INSERT INTO users (id, username, created_at)
VALUES (?, ?, ?)
ON CONFLICT(username) DO NOTHING
`), uuid.NewString(), username, utc(time.Now()))
	if err != nil {
		log.Error("failed to upsert user: %v", err)
		return nil, err
	}

	u, err := r.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, repository.ErrNotFound
	}
	log.Debug("user upserted: id=%s", u.ID)
	return u, nil
}

func (r *userRepository) Get(ctx context.Context, id string) (*models.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: %s=%s", column, value)

	var u models.User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`), value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("user not found: %s=%s", column, value)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) List(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("listing users")

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY created_at ASC, username ASC`); err != nil {
		log.Error("failed to list users: %v", err)
		return nil, err
	}
	log.Debug("found %d users", len(users))
	return users, nil
}

func (r *userRepository) ListReminderRecipients(ctx context.Context) ([]models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")

	var users []models.User
	err := r.db.SelectContext(ctx, &users, r.db.Rebind(`
SELECT `+userColumns+`
FROM users
WHERE reminders_enabled = ? AND telegram_chat_id IS NOT NULL
ORDER BY username ASC
`), true)
	if err != nil {
		log.Error("failed to list reminder recipients: %v", err)
		return nil, err
	}
	log.Debug("found %d reminder recipients", len(users))
	return users, nil
}

func (r *userRepository) SetTelegramChat(ctx context.Context, id string, chatID *int64, enabled bool) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("updating telegram chat: user_id=%s, enabled=%t", id, enabled)

	res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE users SET telegram_chat_id = ?, reminders_enabled = ? WHERE id = ?`), chatID, enabled, id)
	if err != nil {
		log.Error("failed to update telegram chat: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("deleting user and related data: id=%s", id)

	return tx(ctx, r.db, func(tx *sqlx.Tx) error {
		// Children first so drivers without ON DELETE CASCADE enforcement behave the same.
		for _, q := range []string{
			`DELETE FROM weekly_stats WHERE user_id = ?`,
			`DELETE FROM practice_sessions WHERE user_id = ?`,
			`DELETE FROM flashcards WHERE user_id = ?`,
			`DELETE FROM users WHERE id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, tx.Rebind(q), id); err != nil {
				log.Error("failed to delete user %s: %v", id, err)
				return err
			}
		}
		log.Debug("user %s deleted with cascading data", id)
		return nil
	})
}
