package bedrock

import (
	"context"
	"fmt"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// Factory creates Bedrock clients
type Factory struct {
	cfg           *config.Config
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
}

// NewFactory creates a new Bedrock factory
func NewFactory(cfg *config.Config, logger *zap.Logger, textProcessor *utils.TextProcessor) *Factory {
	return &Factory{
		cfg:           cfg,
		logger:        logger,
		textProcessor: textProcessor,
	}
}

// CreateTransport creates a new Bedrock client
func (f *Factory) CreateTransport() (core.RemoteTransport, error) {
	bedrockCfg := f.cfg.GetBedrock()
	remoteCfg, err := f.cfg.GetRemote()
	if err != nil {
		return nil, err
	}

	// Load AWS configuration
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(bedrockCfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.HTTPClient = awshttp.NewBuildableClient().WithTimeout(remoteCfg.Timeout)
	})

	return NewBedrockClient(
		client,
		bedrockCfg.ModelID,
		bedrockCfg.MaxTokens,
		bedrockCfg.Temperature,
		remoteCfg.MaxTextSize,
		remoteCfg.ErrorBodyLimit,
		f.logger,
		f.textProcessor,
	), nil
}
