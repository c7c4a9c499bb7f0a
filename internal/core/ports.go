package core

import (
	"context"
)

// LocalClassifier defines the interface for an in-process sentiment model
type LocalClassifier interface {
	// Predict returns exactly one RawItem per input text
	Predict(ctx context.Context, texts []string) ([]RawItem, error)
}

// ModelProvider hands out the process-wide local model. The first successful
// Acquire constructs the model, later calls return the same instance.
type ModelProvider interface {
	Acquire(ctx context.Context) (LocalClassifier, error)
}

// RemoteTransport defines the interface for a networked inference backend.
// Implementations never return Go errors; every failure is encoded in the
// Outcome.
type RemoteTransport interface {
	// Infer returns one candidate list per input text
	Infer(ctx context.Context, texts []string) Outcome

	// Name identifies the provider behind the transport
	Name() string
}

// Observer receives every finished classification. It is the hook for the
// metrics and journal collaborators.
type Observer interface {
	Observe(ctx context.Context, c *Classification)
}

// Observers fans a classification out to several observers in order
type Observers []Observer

// Observe implements Observer
func (o Observers) Observe(ctx context.Context, c *Classification) {
	for _, obs := range o {
		if obs != nil {
			obs.Observe(ctx, c)
		}
	}
}
