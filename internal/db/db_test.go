package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wordflash/wordflash/internal/db"
)

func TestOpen_AppliesMigrations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordflash.db")

	database, err := db.Open(db.DriverSQLite, "file:"+path)
	require.NoError(t, err)
	defer database.Close()

	var count int
	require.NoError(t, database.Get(&count, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, 5, count)

	for _, table := range []string{"users", "flashcards", "practice_sessions", "weekly_stats"} {
		var name string
		err := database.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		assert.NoError(t, err, "table %s", table)
	}

	require.NoError(t, database.Ping(context.Background()))
}

func TestMigrate_IsIdempotent(t *testing.T) {
	conn, err := sqlx.Open(db.DriverSQLite, ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	defer conn.Close()

	ctx := context.Background()
	require.NoError(t, db.Migrate(ctx, conn))
	require.NoError(t, db.Migrate(ctx, conn))

	var count int
	require.NoError(t, conn.Get(&count, `SELECT COUNT(*) FROM schema_migrations`))
	assert.Equal(t, 5, count)
}

func TestOpen_EnforcesMasteryRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "check.db")
	database, err := db.Open(db.DriverSQLite, "file:"+path)
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(`INSERT INTO users (id, username) VALUES ('u1', 'anna')`)
	require.NoError(t, err)

	_, err = database.Exec(`INSERT INTO flashcards (id, user_id, foreign_text, native_text, direction, mastery_level, next_review_at)
VALUES ('c1', 'u1', 'der Hund', 'dog', 'foreign-native', 101, CURRENT_TIMESTAMP)`)
	assert.Error(t, err)
}
