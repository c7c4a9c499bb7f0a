package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mikey/llm-sentiment/internal/core"
	"go.uber.org/zap"
)

// Timestamps are stored as Unix nanoseconds so both dialects compare them
// the same way.
const (
	insertEntrySQL = `
		INSERT INTO classification_journal
			(id, backend, text_digest, text_length, label, score, error, skipped, elapsed_ns, recorded_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectRecentSQL = `
		SELECT id, backend, text_digest, text_length, label, score, error, skipped, elapsed_ns, recorded_at, expires_at
		FROM classification_journal
		WHERE expires_at > ?
		ORDER BY recorded_at DESC
		LIMIT ?`

	deleteExpiredSQL = `
		DELETE FROM classification_journal
		WHERE expires_at <= ?`
)

// sqlJournal holds the database/sql logic shared by the SQLite and MySQL
// journals
type sqlJournal struct {
	db     *sql.DB
	name   string
	logger *zap.Logger
	now    func() time.Time
	task   *cleanupTask
}

func newSQLJournal(db *sql.DB, name string, schema []string, logger *zap.Logger, cleanupFreq time.Duration) (*sqlJournal, error) {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create %s schema: %w", name, err)
		}
	}

	j := &sqlJournal{
		db:     db,
		name:   name,
		logger: logger,
		now:    time.Now,
	}

	// Start background cleanup
	j.task = startCleanupTask(cleanupFreq, logger, j.Cleanup)

	return j, nil
}

// Record stores an entry
func (j *sqlJournal) Record(ctx context.Context, entry *core.JournalEntry) error {
	_, err := j.db.ExecContext(ctx, insertEntrySQL,
		entry.ID,
		entry.Backend,
		entry.TextDigest,
		entry.TextLength,
		entry.Label,
		entry.Score,
		entry.Error,
		entry.Skipped,
		entry.Elapsed.Nanoseconds(),
		entry.RecordedAt.UnixNano(),
		entry.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}
	return nil
}

// Recent returns up to limit unexpired entries, newest first
func (j *sqlJournal) Recent(ctx context.Context, limit int) ([]*core.JournalEntry, error) {
	rows, err := j.db.QueryContext(ctx, selectRecentSQL, j.now().UnixNano(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*core.JournalEntry
	for rows.Next() {
		var (
			e                               core.JournalEntry
			elapsed, recordedAt, expiresAt int64
		)
		if err := rows.Scan(&e.ID, &e.Backend, &e.TextDigest, &e.TextLength, &e.Label, &e.Score,
			&e.Error, &e.Skipped, &elapsed, &recordedAt, &expiresAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Elapsed = time.Duration(elapsed)
		e.RecordedAt = time.Unix(0, recordedAt)
		e.ExpiresAt = time.Unix(0, expiresAt)
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read journal: %w", err)
	}
	return entries, nil
}

// Cleanup removes expired entries
func (j *sqlJournal) Cleanup(ctx context.Context) error {
	result, err := j.db.ExecContext(ctx, deleteExpiredSQL, j.now().UnixNano())
	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		j.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		j.logger.Debug("Cleaned up expired journal entries", zap.Int64("expired_count", rowsAffected))
	}
	return nil
}

// Ping checks the database connection
func (j *sqlJournal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Stop stops the background cleanup task and closes the database connection
func (j *sqlJournal) Stop() {
	j.task.stop()
	if err := j.db.Close(); err != nil {
		j.logger.Error("Failed to close journal database", zap.String("driver", j.name), zap.Error(err))
	}
}
