package di

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/ports"
)

func TestParseFlags(t *testing.T) {
	flags, err := ParseFlags("sentiment-cli", []string{"-text", "great", "-backend", "api", "-margin", "0.2"}, io.Discard)
	require.NoError(t, err)

	assert.Equal(t, "great", flags.Text)
	assert.Equal(t, "api", flags.Backend)
	assert.Equal(t, 0.2, flags.Margin)
	assert.True(t, flags.set["backend"])
	assert.False(t, flags.set["provider"])

	_, err = ParseFlags("sentiment-cli", []string{"-margin", "lots"}, io.Discard)
	assert.Error(t, err)
}

func TestApplyFlags(t *testing.T) {
	flags, err := ParseFlags("sentiment-cli", []string{"-backend", "remote", "-openai-model", "gpt-4o"}, io.Discard)
	require.NoError(t, err)

	cfg := config.NewFromViper(config.NewEmptyViper())
	cfg.GetViper().Set("remote.provider", "bedrock")
	applyFlags(cfg, flags)

	classify, err := cfg.GetClassify()
	require.NoError(t, err)
	assert.Equal(t, core.BackendRemote, classify.Backend)
	assert.Equal(t, "gpt-4o", cfg.GetOpenAI().ModelName)
	// Flags left at their defaults do not override configuration
	assert.Equal(t, "bedrock", cfg.GetString("remote.provider"))
}

func TestBuildCLIContainer(t *testing.T) {
	flags, err := ParseFlags("sentiment-cli", []string{"-json"}, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	container, err := BuildCLIContainer(flags, &out)
	require.NoError(t, err)

	err = container.Invoke(func(cli ports.Frontend) error {
		_, err := cli.Submit(context.Background(), &core.ClassificationRequest{
			Text:          "This is excellent",
			NeutralMargin: 0.15,
		})
		return err
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `"label":"POSITIVE"`)
}
