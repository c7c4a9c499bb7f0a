package factory

import (
	"github.com/mikey/llm-sentiment/internal/adapters/local"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// ModelFactory creates the local model provider
type ModelFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewModelFactory creates a new model factory
func NewModelFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *ModelFactory {
	return &ModelFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateModelProvider creates the provider for the in-process model. The
// model itself is loaded on first use.
func (f *ModelFactory) CreateModelProvider() core.ModelProvider {
	localCfg := f.cfg.GetLocal()
	return local.NewProvider(localCfg.ModelPath, localCfg.MaxTextSize, f.logger, f.textProcessor)
}
