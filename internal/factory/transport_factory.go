package factory

import (
	"fmt"

	"github.com/mikey/llm-sentiment/internal/adapters/bedrock"
	"github.com/mikey/llm-sentiment/internal/adapters/gemini"
	"github.com/mikey/llm-sentiment/internal/adapters/huggingface"
	"github.com/mikey/llm-sentiment/internal/adapters/openai"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// TransportFactory creates remote transports
type TransportFactory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewTransportFactory creates a new transport factory
func NewTransportFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *TransportFactory {
	return &TransportFactory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTransport creates a remote transport based on the configuration
func (f *TransportFactory) CreateTransport() (core.RemoteTransport, error) {
	provider := f.cfg.GetString("remote.provider")
	f.logger.Debug("Creating remote transport", zap.String("provider", provider))

	switch provider {
	case "huggingface", "":
		return huggingface.NewFactory(f.cfg, f.logger, f.textProcessor).CreateTransport()
	case "openai":
		return openai.NewFactory(f.cfg, f.logger, f.textProcessor).CreateTransport()
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger, f.textProcessor).CreateTransport()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger, f.textProcessor).CreateTransport()
	default:
		return nil, fmt.Errorf("unsupported remote provider: %s", provider)
	}
}
