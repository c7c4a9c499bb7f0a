package frontend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

// CliFrontend implements a command-line interface for sentiment classification
type CliFrontend struct {
	service    ports.Classifier
	out        io.Writer
	logger     *zap.Logger
	verbose    bool
	jsonOutput bool
}

var _ ports.Frontend = (*CliFrontend)(nil)

// NewCliFrontend creates a new CLI frontend writing to out
func NewCliFrontend(service ports.Classifier, out io.Writer, logger *zap.Logger, verbose, jsonOutput bool) *CliFrontend {
	return &CliFrontend{
		service:    service,
		out:        out,
		logger:     logger,
		verbose:    verbose,
		jsonOutput: jsonOutput,
	}
}

// Submit classifies a request and prints the result
func (f *CliFrontend) Submit(ctx context.Context, req *core.ClassificationRequest) (*core.Classification, error) {
	f.logger.Debug("Classifying text",
		zap.Int("length", len(req.Text)),
		zap.Stringer("backend", req.Backend))

	if f.verbose && !f.jsonOutput {
		preview := []rune(req.Text)
		if len(preview) > 200 {
			preview = append(preview[:200], []rune("...")...)
		}
		fmt.Fprintf(f.out, "\n=== Input ===\n%s\n", string(preview))
		fmt.Fprintf(f.out, "Backend: %s, neutral margin: %.2f\n", req.Backend, req.NeutralMargin)
	}

	result, err := f.service.Classify(ctx, req)
	if err != nil {
		f.logger.Error("Failed to classify text", zap.Error(err))
		return nil, err
	}

	if f.jsonOutput {
		return result, f.printJSON(result)
	}

	fmt.Fprintf(f.out, "\n=== Result ===\n%s\n", Summarize(result))
	if f.verbose && req.Backend == core.BackendRemote {
		fmt.Fprintf(f.out, "Provider: %s\n", f.service.RemoteProvider())
	}
	return result, nil
}

func (f *CliFrontend) printJSON(c *core.Classification) error {
	line := struct {
		Label     string                 `json:"label"`
		Score     float64                `json:"score"`
		Error     string                 `json:"error,omitempty"`
		Advisory  string                 `json:"advisory,omitempty"`
		Backend   string                 `json:"backend"`
		LatencyMS float64                `json:"latency_ms"`
		Results   []core.SentimentResult `json:"results"`
	}{
		Label:     c.Result.Label,
		Score:     c.Result.Score,
		Error:     c.Result.Error,
		Advisory:  c.Advisory,
		Backend:   c.Backend.String(),
		LatencyMS: latencyMS(c),
		Results:   c.Results,
	}
	return json.NewEncoder(f.out).Encode(line)
}

// Start is a no-op for the CLI frontend
func (f *CliFrontend) Start() error {
	return nil
}

// Stop is a no-op for the CLI frontend
func (f *CliFrontend) Stop() error {
	return nil
}
