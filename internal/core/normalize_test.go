package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Run("upper-cases labels at or above the margin", func(t *testing.T) {
		results := Normalize([]RawItem{
			{Label: "positive", Score: 0.91},
			{Label: "Negative", Score: 0.15},
		}, 0.15)

		assert.Equal(t, []SentimentResult{
			{Label: LabelPositive, Score: 0.91},
			{Label: LabelNegative, Score: 0.15},
		}, results)
	})

	t.Run("coerces scores below the margin to neutral", func(t *testing.T) {
		results := Normalize([]RawItem{{Label: "POSITIVE", Score: 0.10}}, 0.15)

		assert.Equal(t, []SentimentResult{{Label: LabelNeutral, Score: 0.10}}, results)
	})

	t.Run("missing label and score degenerate to neutral zero", func(t *testing.T) {
		for _, margin := range []float64{0, 0.15, 0.5} {
			results := Normalize([]RawItem{{}}, margin)
			assert.Equal(t, []SentimentResult{{Label: LabelNeutral, Score: 0}}, results)
		}
	})

	t.Run("unknown labels are reported as neutral", func(t *testing.T) {
		results := Normalize([]RawItem{{Label: "LABEL_1", Score: 0.99}}, 0.15)

		assert.Equal(t, LabelNeutral, results[0].Label)
		assert.Equal(t, 0.99, results[0].Score)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Normalize(nil, 0.15))
	})
}

func TestNormalize_ThresholdLaw(t *testing.T) {
	margins := []float64{0, 0.05, 0.15, 0.25, 0.5}
	scores := []float64{0, 0.04, 0.05, 0.149, 0.15, 0.3, 0.5, 0.51, 1}

	for _, m := range margins {
		for _, s := range scores {
			got := Normalize([]RawItem{{Label: "negative", Score: s}}, m)[0]
			if s < m {
				assert.Equal(t, LabelNeutral, got.Label, "margin=%v score=%v", m, s)
			} else {
				assert.Equal(t, LabelNegative, got.Label, "margin=%v score=%v", m, s)
			}
			assert.Equal(t, s, got.Score)
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	items := []RawItem{
		{Label: "positive", Score: 0.91},
		{Label: "negative", Score: 0.12},
		{Label: "neutral", Score: 0.6},
	}

	for _, m := range []float64{0, 0.15, 0.5} {
		first := Normalize(items, m)

		again := make([]RawItem, len(first))
		for i, r := range first {
			again[i] = r.Raw()
		}

		assert.Equal(t, first, Normalize(again, m))
	}
}

func TestTop(t *testing.T) {
	t.Run("picks the highest score", func(t *testing.T) {
		best, ok := Top([]RawItem{
			{Label: "NEGATIVE", Score: 0.09},
			{Label: "POSITIVE", Score: 0.91},
		})

		assert.True(t, ok)
		assert.Equal(t, RawItem{Label: "POSITIVE", Score: 0.91}, best)
	})

	t.Run("ties keep the first seen", func(t *testing.T) {
		best, ok := Top([]RawItem{
			{Label: "NEGATIVE", Score: 0.5},
			{Label: "POSITIVE", Score: 0.5},
		})

		assert.True(t, ok)
		assert.Equal(t, "NEGATIVE", best.Label)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := Top(nil)
		assert.False(t, ok)
	})
}

func TestResolve(t *testing.T) {
	t.Run("selects the top candidate per text before thresholding", func(t *testing.T) {
		results := Resolve(Success([][]RawItem{
			{{Label: "POSITIVE", Score: 0.91}, {Label: "NEGATIVE", Score: 0.09}},
			{{Label: "POSITIVE", Score: 0.10}},
		}), 0.15)

		assert.Equal(t, []SentimentResult{
			{Label: LabelPositive, Score: 0.91},
			{Label: LabelNeutral, Score: 0.10},
		}, results)
	})

	t.Run("empty prediction is neutral zero without error", func(t *testing.T) {
		results := Resolve(Success([][]RawItem{{}}), 0)

		assert.Equal(t, []SentimentResult{{Label: LabelNeutral, Score: 0}}, results)
	})

	t.Run("status failure collapses to one result", func(t *testing.T) {
		results := Resolve(FailStatus(503, "overloaded"), 0.15)

		assert.Equal(t, []SentimentResult{
			{Label: LabelNeutral, Score: 0, Error: "HTTP 503: overloaded"},
		}, results)
	})

	t.Run("transport failure carries its description", func(t *testing.T) {
		results := Resolve(Fail(FailureTransport, "context deadline exceeded"), 0.15)

		assert.Len(t, results, 1)
		assert.Equal(t, "context deadline exceeded", results[0].Error)
		assert.True(t, results[0].Failed())
	})
}
