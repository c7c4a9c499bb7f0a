package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS classification_journal (
		id TEXT PRIMARY KEY,
		backend TEXT NOT NULL,
		text_digest TEXT NOT NULL,
		text_length INTEGER NOT NULL,
		label TEXT NOT NULL,
		score REAL NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		skipped BOOLEAN NOT NULL DEFAULT 0,
		elapsed_ns INTEGER NOT NULL,
		recorded_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_expires_at ON classification_journal(expires_at)`,
	`CREATE INDEX IF NOT EXISTS idx_journal_recorded_at ON classification_journal(recorded_at)`,
}

// SQLiteJournal is a SQLite implementation of the Journal interface
type SQLiteJournal struct {
	*sqlJournal
}

// NewSQLiteJournal opens or creates the journal database at dbPath
func NewSQLiteJournal(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// SQLite serializes writers
	db.SetMaxOpenConns(1)

	j, err := newSQLJournal(db, "sqlite3", sqliteSchema, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return &SQLiteJournal{sqlJournal: j}, nil
}
