package local

import (
	"context"
	"sync"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// Provider owns the process-wide local model. The model is built on the
// first successful Acquire and kept for the life of the process; a failed
// load is not cached, so a later Acquire tries again.
type Provider struct {
	modelPath     string
	maxTextSize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor

	mu    sync.Mutex
	model *Model
}

// NewProvider creates a provider. An empty modelPath selects the built-in
// lexicon.
func NewProvider(modelPath string, maxTextSize int, logger *zap.Logger, textProcessor *utils.TextProcessor) *Provider {
	return &Provider{
		modelPath:     modelPath,
		maxTextSize:   maxTextSize,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// Acquire implements core.ModelProvider
func (p *Provider) Acquire(ctx context.Context) (core.LocalClassifier, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.model != nil {
		return p.model, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		lex *Lexicon
		err error
	)
	if p.modelPath == "" {
		lex, err = DefaultLexicon()
	} else {
		lex, err = LoadLexicon(p.modelPath)
	}
	if err != nil {
		p.logger.Error("Failed to load local model", zap.String("path", p.modelPath), zap.Error(err))
		return nil, err
	}

	p.model = NewModel(lex, p.textProcessor, p.maxTextSize)
	p.logger.Info("Loaded local model",
		zap.String("name", lex.Name),
		zap.Int("weights", len(lex.Weights)),
		zap.String("path", p.modelPath))

	return p.model, nil
}
