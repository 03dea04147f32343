package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wordflash/wordflash/internal/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type DB struct {
	*sqlx.DB
	log *logger.Logger
}

// Open connects to the store and applies pending migrations.
func Open(driver, dsn string) (*DB, error) {
	log := logger.Default().WithPrefix("db")
	log.Info("opening database: driver=%s", driver)

	if driver == DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	conn, err := sqlx.Open(driver, dsn)
	if err != nil {
		log.Error("failed to open database: %v", err)
		return nil, err
	}
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1) // single writer
	}

	db := &DB{DB: conn, log: log}

	log.Debug("applying migrations")
	if err := Migrate(context.Background(), conn); err != nil {
		log.Error("failed to apply migrations: %v", err)
		_ = conn.Close()
		return nil, err
	}

	log.Info("database ready")
	return db, nil
}

func sqliteDSN(dsn string) string {
	params := "_busy_timeout=5000&_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// Migrate applies every embedded migration not yet recorded in schema_migrations.
func Migrate(ctx context.Context, conn *sqlx.DB) error {
	log := logger.FromContext(ctx).WithPrefix("migrate")

	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY, applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP)`); err != nil {
		return err
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		version := entry.Name()
		applied, err := isMigrationApplied(ctx, conn, version)
		if err != nil {
			return err
		}
		if applied {
			log.Debug("migration %s already applied, skipping", version)
			continue
		}
		sqlBytes, err := migrationsFS.ReadFile("migrations/" + version)
		if err != nil {
			return err
		}
		log.Info("applying migration: %s", version)
		if _, err := conn.ExecContext(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("apply migration %s: %w", version, err)
		}
		if _, err := conn.ExecContext(ctx, conn.Rebind(`INSERT INTO schema_migrations (version) VALUES (?)`), version); err != nil {
			return err
		}
	}
	return nil
}

func isMigrationApplied(ctx context.Context, conn *sqlx.DB, version string) (bool, error) {
	var v string
	err := conn.QueryRowxContext(ctx, conn.Rebind(`SELECT version FROM schema_migrations WHERE version = ?`), version).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// Ping checks connectivity for the readiness endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.PingContext(ctx)
}
