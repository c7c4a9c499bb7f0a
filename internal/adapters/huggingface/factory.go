package huggingface

import (
	"net/http"

	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// Factory creates new instances of Client
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new factory for Client instances
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTransport creates a new Client from the remote configuration. A
// missing token is not an error here; it is reported per call.
func (f *Factory) CreateTransport() (core.RemoteTransport, error) {
	remoteCfg, err := f.cfg.GetRemote()
	if err != nil {
		return nil, err
	}

	if remoteCfg.APIToken == "" {
		f.logger.Warn("No inference API token configured, remote classification will report an error")
	}

	return NewClient(
		&http.Client{Timeout: remoteCfg.Timeout},
		remoteCfg.APIURL,
		remoteCfg.APIToken,
		remoteCfg.ErrorBodyLimit,
		remoteCfg.MaxTextSize,
		f.logger,
		f.textProcessor,
	), nil
}
