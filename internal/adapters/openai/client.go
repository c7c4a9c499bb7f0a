package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mikey/llm-sentiment/internal/adapters/wire"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// CredentialMissing is the error reported when no API key is configured
const CredentialMissing = "OPENAI_API_KEY missing"

// OpenAIClient is an implementation of the RemoteTransport interface using
// the OpenAI chat completion API
type OpenAIClient struct {
	client         *openai.Client
	hasKey         bool
	modelName      string
	maxTokens      int
	temperature    float32
	maxTextSize    int
	errorBodyLimit int
	logger         *zap.Logger
	textProcessor  *utils.TextProcessor
}

// NewOpenAIClient creates a new OpenAI client. An empty baseURL selects the
// public API.
func NewOpenAIClient(
	apiKey string,
	baseURL string,
	timeout time.Duration,
	modelName string,
	maxTokens int,
	temperature float32,
	maxTextSize int,
	errorBodyLimit int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *OpenAIClient {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return &OpenAIClient{
		client:         openai.NewClientWithConfig(clientCfg),
		hasKey:         apiKey != "",
		modelName:      modelName,
		maxTokens:      maxTokens,
		temperature:    temperature,
		maxTextSize:    maxTextSize,
		errorBodyLimit: errorBodyLimit,
		logger:         logger,
		textProcessor:  textProcessor,
	}
}

// Name implements core.RemoteTransport
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Infer asks the model for a label distribution covering every text
func (c *OpenAIClient) Infer(ctx context.Context, texts []string) core.Outcome {
	if !c.hasKey {
		return core.Fail(core.FailureCredentials, CredentialMissing)
	}
	if len(texts) == 0 {
		return core.Success([][]core.RawItem{})
	}

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: wire.SystemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: wire.BuildPrompt(texts, c.textProcessor, c.maxTextSize),
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		c.logger.Debug("OpenAI chat completion failed", zap.String("model", c.modelName), zap.Error(err))
		return c.failure(err)
	}

	if len(resp.Choices) == 0 {
		return core.Fail(core.FailureMalformed, "empty response from OpenAI")
	}

	predictions, err := wire.DecodeCompletion(resp.Choices[0].Message.Content, len(texts))
	if err != nil {
		c.logger.Debug("OpenAI returned an unusable completion", zap.String("id", resp.ID), zap.Error(err))
		return core.Fail(core.FailureMalformed, err.Error())
	}

	return core.Success(predictions)
}

// failure maps a client error onto the failure taxonomy
func (c *OpenAIClient) failure(err error) core.Outcome {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return core.FailStatus(apiErr.HTTPStatusCode, c.textProcessor.Clip(apiErr.Message, c.errorBodyLimit))
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return core.FailStatus(reqErr.HTTPStatusCode, c.textProcessor.Clip(fmt.Sprint(reqErr.Err), c.errorBodyLimit))
	}
	return core.Fail(core.FailureTransport, err.Error())
}
