package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/llm-sentiment/internal/adapters/wire"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// CredentialMissing is the error reported when no API key is configured
const CredentialMissing = "GEMINI_API_KEY missing"

// GeminiClient is an implementation of the RemoteTransport interface using
// Google Gemini
type GeminiClient struct {
	client         *genai.Client
	model          *genai.GenerativeModel
	modelName      string
	timeout        time.Duration
	maxTextSize    int
	errorBodyLimit int
	logger         *zap.Logger
	textProcessor  *utils.TextProcessor
}

// NewGeminiClient creates a new Gemini client. Without an API key no SDK
// client is built and every call reports missing credentials. Every call is
// bounded by timeout.
func NewGeminiClient(
	ctx context.Context,
	apiKey string,
	modelName string,
	timeout time.Duration,
	maxTokens int,
	temperature float32,
	maxTextSize int,
	errorBodyLimit int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
	opts ...option.ClientOption,
) (*GeminiClient, error) {
	c := &GeminiClient{
		modelName:      modelName,
		timeout:        timeout,
		maxTextSize:    maxTextSize,
		errorBodyLimit: errorBodyLimit,
		logger:         logger,
		textProcessor:  textProcessor,
	}
	if apiKey == "" {
		return c, nil
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.SystemInstruction = genai.NewUserContent(genai.Text(wire.SystemPrompt))
	model.ResponseMIMEType = "application/json"

	c.client = client
	c.model = model
	return c, nil
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Name implements core.RemoteTransport
func (c *GeminiClient) Name() string {
	return "gemini"
}

// Infer asks the model for a label distribution covering every text
func (c *GeminiClient) Infer(ctx context.Context, texts []string) core.Outcome {
	if c.model == nil {
		return core.Fail(core.FailureCredentials, CredentialMissing)
	}
	if len(texts) == 0 {
		return core.Success([][]core.RawItem{})
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	prompt := wire.BuildPrompt(texts, c.textProcessor, c.maxTextSize)
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		c.logger.Debug("Gemini content generation failed", zap.String("model", c.modelName), zap.Error(err))
		return c.failure(err)
	}

	text, ok := completionText(resp)
	if !ok {
		return core.Fail(core.FailureMalformed, "empty response from Gemini")
	}

	predictions, err := wire.DecodeCompletion(text, len(texts))
	if err != nil {
		c.logger.Debug("Gemini returned an unusable completion", zap.Error(err))
		return core.Fail(core.FailureMalformed, err.Error())
	}
	return core.Success(predictions)
}

// completionText concatenates the text parts of the first candidate
func completionText(resp *genai.GenerateContentResponse) (string, bool) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", false
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	if b.Len() == 0 {
		return "", false
	}
	return b.String(), true
}

// failure maps a client error onto the failure taxonomy. A deadline hit is a
// transport failure.
func (c *GeminiClient) failure(err error) core.Outcome {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return core.FailStatus(apiErr.Code, c.textProcessor.Clip(apiErr.Message, c.errorBodyLimit))
	}
	return core.Fail(core.FailureTransport, err.Error())
}
