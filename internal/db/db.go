package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"tradeoffer-engine/internal/logger"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	sql *sql.DB
}

func dbPath() string {
	// Prefer working directory so the DB is stable across go run / go build.
	// Fall back to executable directory for deployed builds.
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, "tradeoffer-engine.db")
	}
	exe, _ := os.Executable()
	return filepath.Join(filepath.Dir(exe), "tradeoffer-engine.db")
}

// Open opens (or creates) the SQLite database and runs migrations.
func Open() (*DB, error) {
	path := dbPath()
	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}
	d := &DB{sql: sqlDB}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	logger.Success("DB", fmt.Sprintf("Opened %s", path))
	return d, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	version := 0
	d.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := d.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS config (
				user_id TEXT NOT NULL,
				key     TEXT NOT NULL,
				value   TEXT NOT NULL,
				PRIMARY KEY (user_id, key)
			);

			CREATE TABLE IF NOT EXISTS bot_account (
				steam_id64 INTEGER PRIMARY KEY,
				name       TEXT NOT NULL,
				is_master  INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS blacklist_entry (
				steam_id64 INTEGER PRIMARY KEY,
				reason     TEXT NOT NULL DEFAULT '',
				added_at   TEXT NOT NULL
			);

			CREATE TABLE IF NOT EXISTS decision_audit (
				id                   INTEGER PRIMARY KEY AUTOINCREMENT,
				trade_offer_id       INTEGER NOT NULL,
				other_steam_id64     INTEGER NOT NULL,
				result               TEXT NOT NULL,
				pre_upgrade_result   TEXT NOT NULL,
				needs_mobile_confirm INTEGER NOT NULL DEFAULT 0,
				decided_at           TEXT NOT NULL,
				pass_id              TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_decision_audit_decided_at ON decision_audit(decided_at DESC);
			CREATE INDEX IF NOT EXISTS idx_decision_audit_pass ON decision_audit(pass_id);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
		logger.Info("DB", "Applied migration v1 (config/bot_account/blacklist_entry/decision_audit)")
	}

	return nil
}

// SqlDB returns the underlying *sql.DB for use by other packages (e.g. the
// status/control API).
func (d *DB) SqlDB() *sql.DB {
	return d.sql
}
