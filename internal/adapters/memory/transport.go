package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/mikey/llm-sentiment/internal/core"
)

// Transport is a remote transport that answers with a predetermined outcome
type Transport struct {
	mu      sync.Mutex
	outcome core.Outcome
	calls   int
	batches [][]string
}

// NewTransport creates a transport that always returns outcome
func NewTransport(outcome core.Outcome) *Transport {
	return &Transport{outcome: outcome}
}

// Infer implements core.RemoteTransport
func (t *Transport) Infer(_ context.Context, texts []string) core.Outcome {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	t.batches = append(t.batches, append([]string(nil), texts...))
	return t.outcome
}

// Name implements core.RemoteTransport
func (t *Transport) Name() string {
	return "memory"
}

// Calls returns how many times Infer was called
func (t *Transport) Calls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.calls
}

// Batches returns the texts received by each Infer call
func (t *Transport) Batches() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([][]string(nil), t.batches...)
}

// Classifier is a local classifier returning the same item for every text
type Classifier struct {
	item  core.RawItem
	calls int
	mu    sync.Mutex
}

// NewClassifier creates a classifier that labels every text with item
func NewClassifier(item core.RawItem) *Classifier {
	return &Classifier{item: item}
}

// Predict implements core.LocalClassifier
func (c *Classifier) Predict(_ context.Context, texts []string) ([]core.RawItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	items := make([]core.RawItem, len(texts))
	for i := range texts {
		items[i] = c.item
	}
	return items, nil
}

// Calls returns how many times Predict was called
func (c *Classifier) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

// ErrUnavailable is returned by a Provider built without a classifier
var ErrUnavailable = errors.New("model not loaded")

// Provider hands out a fixed classifier, or fails when it has none
type Provider struct {
	classifier core.LocalClassifier
}

// NewProvider creates a provider for classifier. A nil classifier makes every
// Acquire fail.
func NewProvider(classifier core.LocalClassifier) *Provider {
	return &Provider{classifier: classifier}
}

// Acquire implements core.ModelProvider
func (p *Provider) Acquire(_ context.Context) (core.LocalClassifier, error) {
	if p.classifier == nil {
		return nil, ErrUnavailable
	}
	return p.classifier, nil
}
