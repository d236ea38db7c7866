package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	// registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archived_games (
    id          TEXT PRIMARY KEY,
    player_one  TEXT NOT NULL,
    player_two  TEXT NOT NULL,
    status      TEXT NOT NULL,
    winner      TEXT NOT NULL DEFAULT '',
    turn        INTEGER NOT NULL,
    snapshot    TEXT NOT NULL,
    finished_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS archived_games_player_one ON archived_games (player_one);
CREATE INDEX IF NOT EXISTS archived_games_player_two ON archived_games (player_two);
`

type Storage struct {
	Connection *sql.DB
}

// NewSQLiteStorage opens the database file at path.
func NewSQLiteStorage(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("can't open database: %w", err)
	}

	if err = conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("can't connect to database: %w", err)
	}

	return &Storage{Connection: conn}, nil
}

// Init creates the archive schema if it does not exist yet.
func (that *Storage) Init(ctx context.Context) error {
	if _, err := that.Connection.ExecContext(ctx, archiveSchema); err != nil {
		return fmt.Errorf("can't create tables: %w", err)
	}

	return nil
}

func (that *Storage) Close() error {
	if that == nil || that.Connection == nil {
		return nil
	}
	return that.Connection.Close()
}
