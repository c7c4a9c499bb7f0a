package ports

import (
	"context"

	"github.com/mikey/llm-sentiment/internal/core"
)

// Journal defines the interface for storing recent classifications
type Journal interface {
	// Record stores an entry
	Record(ctx context.Context, entry *core.JournalEntry) error

	// Recent returns up to limit unexpired entries, newest first
	Recent(ctx context.Context, limit int) ([]*core.JournalEntry, error)

	// Cleanup removes expired entries
	Cleanup(ctx context.Context) error

	// Ping checks that the backing store is reachable
	Ping(ctx context.Context) error

	// Stop stops background work and releases the store
	Stop()
}
