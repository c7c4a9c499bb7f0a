package local

import (
	"context"
	"math"
	"sync"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
)

// Model is the in-process sentiment classifier. It mirrors a binary
// POSITIVE/NEGATIVE model: every text gets exactly one label, scored with
// the probability of that label.
type Model struct {
	lexicon       *Lexicon
	textProcessor *utils.TextProcessor
	maxTextSize   int

	// Inference is not reentrant; callers take turns
	mu sync.Mutex
}

// NewModel creates a model around a parsed lexicon
func NewModel(lexicon *Lexicon, textProcessor *utils.TextProcessor, maxTextSize int) *Model {
	return &Model{
		lexicon:       lexicon,
		textProcessor: textProcessor,
		maxTextSize:   maxTextSize,
	}
}

// Name returns the lexicon name
func (m *Model) Name() string {
	return m.lexicon.Name
}

// Predict implements core.LocalClassifier
func (m *Model) Predict(ctx context.Context, texts []string) ([]core.RawItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := make([]core.RawItem, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := m.probability(m.textProcessor.ProcessText(text, m.maxTextSize))
		if p >= 0.5 {
			items[i] = core.RawItem{Label: core.LabelPositive, Score: p}
		} else {
			items[i] = core.RawItem{Label: core.LabelNegative, Score: 1 - p}
		}
	}
	return items, nil
}

// probability returns P(positive) for text
func (m *Model) probability(text string) float64 {
	lex := m.lexicon
	logit := lex.Bias

	negate := 0
	boost := 1.0
	for _, tok := range Tokenize(text) {
		if lex.isNegator(tok) {
			negate = lex.NegationWindow
			continue
		}
		if f, ok := lex.Intensifiers[tok]; ok {
			boost *= f
			continue
		}

		if w, ok := lex.Weights[tok]; ok {
			if negate > 0 {
				w = -w
			}
			logit += w * boost * lex.Scale
		}
		boost = 1.0
		if negate > 0 {
			negate--
		}
	}

	return 1 / (1 + math.Exp(-logit))
}
