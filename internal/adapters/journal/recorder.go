package journal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

// Recorder writes every finished classification to a journal
type Recorder struct {
	journal   ports.Journal
	retention time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

// NewRecorder creates a recorder that keeps entries for retention
func NewRecorder(journal ports.Journal, retention time.Duration, logger *zap.Logger) *Recorder {
	return &Recorder{
		journal:   journal,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// Observe implements core.Observer. Storage errors are logged, never
// returned to the classification path.
func (r *Recorder) Observe(ctx context.Context, c *core.Classification) {
	entry := r.Entry(c)
	if err := r.journal.Record(ctx, entry); err != nil {
		r.logger.Warn("Failed to record classification", zap.String("id", entry.ID), zap.Error(err))
	}
}

// Entry builds the journal entry for c
func (r *Recorder) Entry(c *core.Classification) *core.JournalEntry {
	now := r.now()
	return &core.JournalEntry{
		ID:         uuid.NewString(),
		Backend:    c.Backend.String(),
		TextDigest: Digest(c.Text),
		TextLength: len([]rune(c.Text)),
		Label:      c.Result.Label,
		Score:      c.Result.Score,
		Error:      c.Result.Error,
		Skipped:    c.Skipped,
		Elapsed:    c.Elapsed,
		RecordedAt: now,
		ExpiresAt:  now.Add(r.retention),
	}
}

// Digest returns the hex SHA-256 of text
func Digest(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
