package journal

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mikey/llm-sentiment/internal/core"
	"go.uber.org/zap"
)

// MemoryJournal is an in-memory implementation of the Journal interface
type MemoryJournal struct {
	entries []*core.JournalEntry
	mu      sync.RWMutex
	logger  *zap.Logger
	now     func() time.Time
	task    *cleanupTask
}

// NewMemoryJournal creates a new in-memory journal
func NewMemoryJournal(logger *zap.Logger, cleanupFreq time.Duration) *MemoryJournal {
	j := &MemoryJournal{
		logger: logger,
		now:    time.Now,
	}

	// Start background cleanup
	j.task = startCleanupTask(cleanupFreq, logger, j.Cleanup)

	return j
}

// Record stores an entry
func (j *MemoryJournal) Record(ctx context.Context, entry *core.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	copied := *entry
	j.entries = append(j.entries, &copied)
	return nil
}

// Recent returns up to limit unexpired entries, newest first
func (j *MemoryJournal) Recent(ctx context.Context, limit int) ([]*core.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	now := j.now()
	out := make([]*core.JournalEntry, 0, len(j.entries))
	for _, e := range j.entries {
		if now.Before(e.ExpiresAt) {
			copied := *e
			out = append(out, &copied)
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		return out[a].RecordedAt.After(out[b].RecordedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Cleanup removes expired entries
func (j *MemoryJournal) Cleanup(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.now()
	kept := j.entries[:0]
	for _, e := range j.entries {
		if now.Before(e.ExpiresAt) {
			kept = append(kept, e)
		}
	}
	expiredCount := len(j.entries) - len(kept)
	for i := len(kept); i < len(j.entries); i++ {
		j.entries[i] = nil
	}
	j.entries = kept

	j.logger.Debug("Cleaned up expired journal entries", zap.Int("expired_count", expiredCount))
	return nil
}

// Ping implements ports.Journal
func (j *MemoryJournal) Ping(ctx context.Context) error {
	return nil
}

// Stop stops the background cleanup task
func (j *MemoryJournal) Stop() {
	j.task.stop()
}
