package sqlite

import (
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL UNIQUE,
    embedding     TEXT NOT NULL DEFAULT '',
    password_hash TEXT NOT NULL DEFAULT '',
    auth_mode     TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS command_log (
    id         TEXT PRIMARY KEY,
    username   TEXT NOT NULL,
    transcript TEXT NOT NULL,
    category   TEXT NOT NULL,
    intent     TEXT NOT NULL,
    success    INTEGER NOT NULL,
    message    TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);
`

// New opens (and bootstraps) the local database. Path comes from DB_PATH,
// defaulting to config/echoos.db next to the other config files.
func New() (*sqlx.DB, error) {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "config/echoos.db"
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single desktop process; one writer avoids SQLITE_BUSY churn.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
