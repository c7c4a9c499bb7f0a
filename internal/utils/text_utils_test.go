package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestTextProcessor_TruncateText(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("keeps short text", func(t *testing.T) {
		assert.Equal(t, "hello", tp.TruncateText("hello", 10))
		assert.Equal(t, "hello", tp.TruncateText("hello", 0))
	})

	t.Run("never splits a rune", func(t *testing.T) {
		got := tp.TruncateText("héllo", 2)

		assert.Equal(t, "h", got)
		assert.True(t, utf8.ValidString(got))
	})

	t.Run("cut text is a prefix of the input", func(t *testing.T) {
		text := strings.Repeat("good ", 100)
		got := tp.ProcessText(text, 12)

		assert.Len(t, got, 12)
		assert.True(t, strings.HasPrefix(text, got))
	})
}

func TestTextProcessor_Clip(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	t.Run("counts characters not bytes", func(t *testing.T) {
		assert.Equal(t, "日本", tp.Clip("日本語", 2))
	})

	t.Run("long body clipped to limit", func(t *testing.T) {
		got := tp.Clip(strings.Repeat("x", 500), 200)
		assert.Len(t, got, 200)
	})

	t.Run("short body untouched", func(t *testing.T) {
		assert.Equal(t, "overloaded", tp.Clip("overloaded", 200))
	})
}

func TestTextProcessor_SanitizeUTF8(t *testing.T) {
	tp := NewTextProcessor(zap.NewNop())

	assert.Equal(t, "ab", tp.SanitizeUTF8("a\xffb"))
	assert.Equal(t, "ok", tp.ProcessText("ok", 100))
}
