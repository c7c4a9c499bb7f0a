package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// SentimentService is the core service for sentiment classification
type SentimentService struct {
	models    ModelProvider
	transport RemoteTransport
	observer  Observer
	now       func() time.Time
}

// NewSentimentService creates a new sentiment service. observer may be nil.
func NewSentimentService(
	models ModelProvider,
	transport RemoteTransport,
	observer Observer,
) *SentimentService {
	return &SentimentService{
		models:    models,
		transport: transport,
		observer:  observer,
		now:       time.Now,
	}
}

// AnalyzeLocal classifies texts with the in-process model. A model that
// cannot be acquired is fatal for this backend and returned as an error.
func (s *SentimentService) AnalyzeLocal(ctx context.Context, texts []string, margin float64) ([]SentimentResult, error) {
	model, err := s.models.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}

	items, err := model.Predict(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("local inference failed: %w", err)
	}
	if len(items) != len(texts) {
		return nil, fmt.Errorf("local inference returned %d items for %d texts", len(items), len(texts))
	}

	return Normalize(items, margin), nil
}

// AnalyzeRemote classifies texts with the remote transport. Failures never
// propagate; they come back as a single NEUTRAL result with Error set.
func (s *SentimentService) AnalyzeRemote(ctx context.Context, texts []string, margin float64) []SentimentResult {
	outcome := s.transport.Infer(ctx, texts)
	return Resolve(outcome, margin)
}

// Classify classifies a single text with the requested backend. Whitespace
// only text short-circuits to NEUTRAL/1.0 with an advisory and no backend
// call, before the request is validated. An invalid request or an unusable
// local model is returned as error; the latter is still observed as a failed
// classification.
func (s *SentimentService) Classify(ctx context.Context, req *ClassificationRequest) (*Classification, error) {
	if strings.TrimSpace(req.Text) == "" {
		result := SentimentResult{Label: LabelNeutral, Score: 1.0}
		c := &Classification{
			Result:   result,
			Results:  []SentimentResult{result},
			Advisory: EmptyTextAdvisory,
			Backend:  req.Backend,
			Skipped:  true,
			Text:     req.Text,
		}
		s.observe(ctx, c)
		return c, nil
	}

	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := s.now()

	var results []SentimentResult
	switch req.Backend {
	case BackendLocal:
		var err error
		results, err = s.AnalyzeLocal(ctx, []string{req.Text}, req.NeutralMargin)
		if err != nil {
			result := SentimentResult{Label: LabelNeutral, Score: 0.0, Error: err.Error()}
			s.observe(ctx, &Classification{
				Result:  result,
				Results: []SentimentResult{result},
				Backend: req.Backend,
				Elapsed: s.now().Sub(start),
				Text:    req.Text,
			})
			return nil, err
		}
	case BackendRemote:
		results = s.AnalyzeRemote(ctx, []string{req.Text}, req.NeutralMargin)
	}

	c := &Classification{
		Results: results,
		Backend: req.Backend,
		Elapsed: s.now().Sub(start),
		Text:    req.Text,
	}
	if len(results) > 0 {
		c.Result = results[0]
	} else {
		c.Result = SentimentResult{Label: LabelNeutral, Score: 0.0}
	}

	s.observe(ctx, c)
	return c, nil
}

// Ready reports whether the local model can be acquired
func (s *SentimentService) Ready(ctx context.Context) error {
	if _, err := s.models.Acquire(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	return nil
}

// RemoteProvider returns the name of the configured remote transport
func (s *SentimentService) RemoteProvider() string {
	return s.transport.Name()
}

func (s *SentimentService) observe(ctx context.Context, c *Classification) {
	if s.observer != nil {
		s.observer.Observe(ctx, c)
	}
}
