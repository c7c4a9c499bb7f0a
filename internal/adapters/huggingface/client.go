package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mikey/llm-sentiment/internal/adapters/wire"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// CredentialMissing is the error reported when no API token is configured
const CredentialMissing = "HF_API_TOKEN missing"

// Client is an implementation of the RemoteTransport interface for the
// Hugging Face inference API
type Client struct {
	httpClient     *http.Client
	apiURL         string
	apiToken       string
	errorBodyLimit int
	maxTextSize    int
	logger         *zap.Logger
	textProcessor  *utils.TextProcessor
}

// NewClient creates a new inference API client. The request timeout is
// carried by httpClient.
func NewClient(
	httpClient *http.Client,
	apiURL string,
	apiToken string,
	errorBodyLimit int,
	maxTextSize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Client {
	return &Client{
		httpClient:     httpClient,
		apiURL:         apiURL,
		apiToken:       apiToken,
		errorBodyLimit: errorBodyLimit,
		maxTextSize:    maxTextSize,
		logger:         logger,
		textProcessor:  textProcessor,
	}
}

// Name implements core.RemoteTransport
func (c *Client) Name() string {
	return "huggingface"
}

// Infer sends all texts in a single request and decodes the returned label
// distribution
func (c *Client) Infer(ctx context.Context, texts []string) core.Outcome {
	if c.apiToken == "" {
		return core.Fail(core.FailureCredentials, CredentialMissing)
	}
	if len(texts) == 0 {
		return core.Success([][]core.RawItem{})
	}

	inputs := make([]string, len(texts))
	for i, text := range texts {
		inputs[i] = c.textProcessor.ProcessText(text, c.maxTextSize)
	}
	payload, err := json.Marshal(wire.Request{Inputs: inputs})
	if err != nil {
		return core.Fail(core.FailureMalformed, fmt.Sprintf("failed to encode request: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return core.Fail(core.FailureTransport, err.Error())
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("Inference request failed", zap.String("url", c.apiURL), zap.Error(err))
		return core.Fail(core.FailureTransport, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return core.Fail(core.FailureTransport, fmt.Sprintf("failed to read response: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("Inference API returned an error status",
			zap.Int("status", resp.StatusCode),
			zap.Int("body_size", len(body)))
		return core.FailStatus(resp.StatusCode, c.textProcessor.Clip(string(body), c.errorBodyLimit))
	}

	predictions, err := wire.DecodeDistribution(body)
	if err != nil {
		c.logger.Debug("Inference API returned a malformed body", zap.Error(err))
		return core.Fail(core.FailureMalformed, err.Error())
	}

	c.logger.Debug("Inference completed",
		zap.Int("texts", len(texts)),
		zap.Int("predictions", len(predictions)))

	return core.Success(predictions)
}
