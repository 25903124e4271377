package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver
)

// New opens the SQLite database at path, creating its directory if needed.
func New(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("empty database path")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", path+dsnOptions)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// dsnOptions are applied by the driver to every new connection, so a
// connection replaced by the pool keeps foreign keys enforced.
const dsnOptions = "?_time_format=sqlite" +
	"&_pragma=foreign_keys(1)" +
	"&_pragma=busy_timeout(5000)" +
	"&_pragma=journal_mode(WAL)"

// Migrate runs the SQL statements to set up the database schema.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT,
			email TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			is_admin BOOLEAN NOT NULL DEFAULT 0,
			date_joined DATETIME NOT NULL,
			date_modified DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS boards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE,
			sort_order INTEGER NOT NULL DEFAULT 0 CHECK (sort_order >= 0),
			date_created DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_id INTEGER REFERENCES boards(id) ON DELETE SET NULL,
			author_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			is_notice BOOLEAN NOT NULL DEFAULT 0,
			views INTEGER NOT NULL DEFAULT 0 CHECK (views >= 0),
			date_created DATETIME NOT NULL,
			date_modified DATETIME NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_board ON posts(board_id);`,
		`CREATE INDEX IF NOT EXISTS idx_posts_listing ON posts(is_notice DESC, date_created DESC);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT NOT NULL PRIMARY KEY,
			type TEXT NOT NULL,
			level TEXT NOT NULL,
			message TEXT NOT NULL,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
