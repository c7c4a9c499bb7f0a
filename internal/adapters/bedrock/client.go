package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/mikey/llm-sentiment/internal/adapters/wire"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
	"go.uber.org/zap"
)

// ModelInvoker is the subset of the Bedrock runtime API the client uses
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockClient is an implementation of the RemoteTransport interface using
// Amazon Bedrock
type BedrockClient struct {
	client         ModelInvoker
	modelID        string
	maxTokens      int
	temperature    float32
	maxTextSize    int
	errorBodyLimit int
	logger         *zap.Logger
	textProcessor  *utils.TextProcessor
}

// NewBedrockClient creates a new Bedrock client
func NewBedrockClient(
	client ModelInvoker,
	modelID string,
	maxTokens int,
	temperature float32,
	maxTextSize int,
	errorBodyLimit int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *BedrockClient {
	return &BedrockClient{
		client:         client,
		modelID:        modelID,
		maxTokens:      maxTokens,
		temperature:    temperature,
		maxTextSize:    maxTextSize,
		errorBodyLimit: errorBodyLimit,
		logger:         logger,
		textProcessor:  textProcessor,
	}
}

// Name implements core.RemoteTransport
func (c *BedrockClient) Name() string {
	return "bedrock"
}

// Infer asks the model for a label distribution covering every text
func (c *BedrockClient) Infer(ctx context.Context, texts []string) core.Outcome {
	if len(texts) == 0 {
		return core.Success([][]core.RawItem{})
	}

	prompt := wire.BuildPrompt(texts, c.textProcessor, c.maxTextSize)
	payload, err := c.buildPayload(prompt)
	if err != nil {
		return core.Fail(core.FailureMalformed, fmt.Sprintf("failed to encode request: %v", err))
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		c.logger.Debug("Bedrock invocation failed", zap.String("model", c.modelID), zap.Error(err))
		return c.failure(err)
	}

	completion, err := c.parseCompletion(resp.Body)
	if err != nil {
		return core.Fail(core.FailureMalformed, err.Error())
	}

	predictions, err := wire.DecodeCompletion(completion, len(texts))
	if err != nil {
		c.logger.Debug("Bedrock returned an unusable completion", zap.Error(err))
		return core.Fail(core.FailureMalformed, err.Error())
	}
	return core.Success(predictions)
}

// buildPayload renders the request body for the model family
func (c *BedrockClient) buildPayload(prompt string) ([]byte, error) {
	switch {
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n%s\n\nAssistant:", wire.SystemPrompt, prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": wire.SystemPrompt + "\n" + prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      wire.SystemPrompt + "\n" + prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
		})
	}
}

// parseCompletion extracts the generated text from a model response
func (c *BedrockClient) parseCompletion(body []byte) (string, error) {
	switch {
	case c.isAnthropicModel():
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	case c.isAmazonTitanModel():
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", errors.New("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	default:
		var genericResp struct {
			Output     string `json:"output"`
			Text       string `json:"text"`
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(body, &genericResp); err != nil {
			// Some models answer with the bare distribution
			return string(body), nil
		}
		for _, s := range []string{genericResp.Output, genericResp.Text, genericResp.Completion} {
			if s != "" {
				return s, nil
			}
		}
		return string(body), nil
	}
}

// isAnthropicModel checks if the model is an Anthropic Claude model
func (c *BedrockClient) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

// isAmazonTitanModel checks if the model is an Amazon Titan model
func (c *BedrockClient) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

func (c *BedrockClient) failure(err error) core.Outcome {
	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) && respErr.HTTPStatusCode() > 0 {
		return core.FailStatus(respErr.HTTPStatusCode(), c.textProcessor.Clip(respErr.Err.Error(), c.errorBodyLimit))
	}
	return core.Fail(core.FailureTransport, err.Error())
}
