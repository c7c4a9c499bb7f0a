package openai

import (
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of OpenAIClient
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for OpenAIClient instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTransport creates a new OpenAIClient
func (f *Factory) CreateTransport() (core.RemoteTransport, error) {
	openaiCfg := f.cfg.GetOpenAI()
	remoteCfg, err := f.cfg.GetRemote()
	if err != nil {
		return nil, err
	}

	if openaiCfg.APIKey == "" {
		f.logger.Warn("No OpenAI API key configured, remote classification will report an error")
	}

	return NewOpenAIClient(
		openaiCfg.APIKey,
		openaiCfg.BaseURL,
		remoteCfg.Timeout,
		openaiCfg.ModelName,
		openaiCfg.MaxTokens,
		openaiCfg.Temperature,
		remoteCfg.MaxTextSize,
		remoteCfg.ErrorBodyLimit,
		f.logger,
		f.textProcessor,
	), nil
}
