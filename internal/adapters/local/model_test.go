package local

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	lex, err := DefaultLexicon()
	require.NoError(t, err)
	return NewModel(lex, utils.NewTextProcessor(zap.NewNop()), 4096)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"don't", "stop", "it's", "great"}, Tokenize("Don’t STOP, it's GREAT!!"))
	assert.Empty(t, Tokenize("  ... "))
	assert.Equal(t, []string{"full", "width"}, Tokenize("ＦＵＬＬ width"))
}

func TestModel_Predict(t *testing.T) {
	model := newTestModel(t)
	ctx := context.Background()

	t.Run("one item per text", func(t *testing.T) {
		items, err := model.Predict(ctx, []string{"I love this product", "This is terrible", "the table"})

		require.NoError(t, err)
		require.Len(t, items, 3)
		assert.Equal(t, core.LabelPositive, items[0].Label)
		assert.Greater(t, items[0].Score, 0.9)
		assert.Equal(t, core.LabelNegative, items[1].Label)
		assert.Greater(t, items[1].Score, 0.9)
		assert.Equal(t, core.RawItem{Label: core.LabelPositive, Score: 0.5}, items[2])
	})

	t.Run("negation flips polarity", func(t *testing.T) {
		items, err := model.Predict(ctx, []string{"not good", "I don't like it"})

		require.NoError(t, err)
		assert.Equal(t, core.LabelNegative, items[0].Label)
		assert.Equal(t, core.LabelNegative, items[1].Label)
	})

	t.Run("intensifiers strengthen the next word", func(t *testing.T) {
		items, err := model.Predict(ctx, []string{"good", "very good"})

		require.NoError(t, err)
		assert.Greater(t, items[1].Score, items[0].Score)
	})

	t.Run("scores stay within [0.5, 1]", func(t *testing.T) {
		items, err := model.Predict(ctx, []string{"awful awful awful awful", "great great great"})

		require.NoError(t, err)
		for _, item := range items {
			assert.GreaterOrEqual(t, item.Score, 0.5)
			assert.LessOrEqual(t, item.Score, 1.0)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := model.Predict(cctx, []string{"good"})
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("safe for concurrent use", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				items, err := model.Predict(ctx, []string{"great service"})
				assert.NoError(t, err)
				assert.Equal(t, core.LabelPositive, items[0].Label)
			}()
		}
		wg.Wait()
	})
}

func TestParseLexicon(t *testing.T) {
	t.Run("folds keys", func(t *testing.T) {
		lex, err := ParseLexicon([]byte("weights:\n  Superb: 2\nnegators: [NEVER]\n"))

		require.NoError(t, err)
		assert.Equal(t, 2.0, lex.Weights["superb"])
		assert.True(t, lex.isNegator("never"))
		assert.Equal(t, 1.0, lex.Scale)
	})

	t.Run("requires weights", func(t *testing.T) {
		_, err := ParseLexicon([]byte("name: empty\n"))
		assert.Error(t, err)
	})

	t.Run("rejects invalid yaml", func(t *testing.T) {
		_, err := ParseLexicon([]byte("weights: [unterminated"))
		assert.Error(t, err)
	})
}

func TestProvider_Acquire(t *testing.T) {
	ctx := context.Background()
	tp := utils.NewTextProcessor(zap.NewNop())

	t.Run("constructs once and caches", func(t *testing.T) {
		p := NewProvider("", 4096, zap.NewNop(), tp)

		first, err := p.Acquire(ctx)
		require.NoError(t, err)
		second, err := p.Acquire(ctx)
		require.NoError(t, err)

		assert.Same(t, first, second)
	})

	t.Run("missing model file fails and is retried later", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lexicon.yaml")
		p := NewProvider(path, 4096, zap.NewNop(), tp)

		_, err := p.Acquire(ctx)
		require.Error(t, err)

		require.NoError(t, os.WriteFile(path, []byte("name: custom\nweights:\n  meh: -0.5\n"), 0o600))

		classifier, err := p.Acquire(ctx)
		require.NoError(t, err)
		assert.Equal(t, "custom", classifier.(*Model).Name())
	})
}
