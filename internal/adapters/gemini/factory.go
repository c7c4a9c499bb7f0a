package gemini

import (
	"context"

	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of GeminiClient
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for GeminiClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTransport creates a new GeminiClient
func (f *Factory) CreateTransport() (core.RemoteTransport, error) {
	geminiCfg := f.cfg.GetGemini()
	remoteCfg, err := f.cfg.GetRemote()
	if err != nil {
		return nil, err
	}

	if geminiCfg.APIKey == "" {
		f.logger.Warn("No Gemini API key configured, remote classification will report an error")
	}

	return NewGeminiClient(
		context.Background(),
		geminiCfg.APIKey,
		geminiCfg.ModelName,
		remoteCfg.Timeout,
		geminiCfg.MaxTokens,
		geminiCfg.Temperature,
		remoteCfg.MaxTextSize,
		remoteCfg.ErrorBodyLimit,
		f.logger,
		f.textProcessor,
	)
}
