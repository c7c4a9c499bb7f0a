package ports

import (
	"context"

	"github.com/mikey/llm-sentiment/internal/core"
)

// Classifier is the part of the sentiment service a frontend drives
type Classifier interface {
	Classify(ctx context.Context, req *core.ClassificationRequest) (*core.Classification, error)
	Ready(ctx context.Context) error
	RemoteProvider() string
}

// Frontend defines the interface for a way of submitting classifications
type Frontend interface {
	// Submit classifies a single request
	Submit(ctx context.Context, req *core.ClassificationRequest) (*core.Classification, error)

	// Start starts the frontend
	Start() error

	// Stop stops the frontend
	Stop() error
}
