package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mikey/llm-sentiment/internal/adapters/journal"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

// JournalFactory creates classification journals based on configuration
type JournalFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewJournalFactory creates a new journal factory
func NewJournalFactory(cfg *config.Config, logger *zap.Logger) *JournalFactory {
	return &JournalFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateJournal creates a journal based on the configuration. It returns nil
// when the journal is disabled.
func (f *JournalFactory) CreateJournal() (ports.Journal, error) {
	journalCfg, err := f.cfg.GetJournal()
	if err != nil {
		return nil, err
	}
	if !journalCfg.Enabled {
		f.logger.Info("Classification journal disabled")
		return nil, nil
	}

	switch journalCfg.Type {
	case "memory":
		return journal.NewMemoryJournal(f.logger, journalCfg.CleanupFrequency), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(journalCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create SQLite directory: %w", err)
		}
		return journal.NewSQLiteJournal(journalCfg.SQLitePath, f.logger, journalCfg.CleanupFrequency)
	case "mysql":
		return journal.NewMySQLJournal(journalCfg.MySQLDSN, f.logger, journalCfg.CleanupFrequency)
	case "redis":
		return journal.NewRedisJournal(
			journalCfg.RedisAddress,
			journalCfg.RedisPassword,
			journalCfg.RedisDB,
			f.logger,
			journalCfg.CleanupFrequency,
		)
	default:
		return nil, fmt.Errorf("unsupported journal type: %s", journalCfg.Type)
	}
}

// CreateRecorder wraps j in an observer, or returns nil for a nil journal
func (f *JournalFactory) CreateRecorder(j ports.Journal) (*journal.Recorder, error) {
	if j == nil {
		return nil, nil
	}
	journalCfg, err := f.cfg.GetJournal()
	if err != nil {
		return nil, err
	}
	return journal.NewRecorder(j, journalCfg.Retention, f.logger), nil
}
