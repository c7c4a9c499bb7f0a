package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS classification_journal (
		id VARCHAR(36) PRIMARY KEY,
		backend VARCHAR(32) NOT NULL,
		text_digest CHAR(64) NOT NULL,
		text_length INT NOT NULL,
		label VARCHAR(16) NOT NULL,
		score DOUBLE NOT NULL,
		error TEXT NOT NULL,
		skipped BOOLEAN NOT NULL DEFAULT FALSE,
		elapsed_ns BIGINT NOT NULL,
		recorded_at BIGINT NOT NULL,
		expires_at BIGINT NOT NULL,
		INDEX idx_journal_expires_at (expires_at),
		INDEX idx_journal_recorded_at (recorded_at)
	)`,
}

// MySQLJournal is a MySQL implementation of the Journal interface
type MySQLJournal struct {
	*sqlJournal
}

// NewMySQLJournal connects to MySQL and ensures the journal table exists
func NewMySQLJournal(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLJournal, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	j, err := newSQLJournal(db, "mysql", mysqlSchema, logger, cleanupFreq)
	if err != nil {
		return nil, err
	}
	return &MySQLJournal{sqlJournal: j}, nil
}
