package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
)

func newTestClient(t *testing.T, apiKey string, timeout time.Duration, opts ...option.ClientOption) *GeminiClient {
	t.Helper()
	client, err := NewGeminiClient(context.Background(), apiKey, "gemini-1.5-flash", timeout, 256, 0, 4096, 200,
		zap.NewNop(), utils.NewTextProcessor(zap.NewNop()), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

// completionBody renders a generateContent response holding text
func completionBody(text string) string {
	return fmt.Sprintf(`{"candidates":[{"content":{"role":"model","parts":[{"text":%q}]},"finishReason":"STOP","index":0}]}`, text)
}

func TestGeminiClient_MissingKey(t *testing.T) {
	client := newTestClient(t, "", time.Second)

	outcome := client.Infer(context.Background(), []string{"a", "b"})

	require.True(t, outcome.Failed())
	assert.Equal(t, core.FailureCredentials, outcome.Failure.Kind)
	assert.Equal(t, CredentialMissing, outcome.Failure.Message())
	assert.Equal(t, "gemini", client.Name())
}

func TestGeminiClient_Infer(t *testing.T) {
	ctx := context.Background()

	t.Run("decodes the completion", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Contains(t, r.URL.Path, "gemini-1.5-flash:generateContent")
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completionBody("```json\n[[{\"label\":\"POSITIVE\",\"score\":0.93}],[{\"label\":\"NEGATIVE\",\"score\":0.8}]]\n```"))
		}))
		defer srv.Close()
		client := newTestClient(t, "test-key", 5*time.Second, option.WithEndpoint(srv.URL))

		outcome := client.Infer(ctx, []string{"lovely", "dreadful"})

		require.False(t, outcome.Failed(), "%v", outcome.Failure)
		assert.Equal(t, [][]core.RawItem{
			{{Label: "POSITIVE", Score: 0.93}},
			{{Label: "NEGATIVE", Score: 0.8}},
		}, outcome.Predictions)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("error status is clipped", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, `{"error":{"code":400,"message":%q,"status":"INVALID_ARGUMENT"}}`, strings.Repeat("x", 500))
		}))
		defer srv.Close()
		client := newTestClient(t, "test-key", 5*time.Second, option.WithEndpoint(srv.URL))

		outcome := client.Infer(ctx, []string{"hello"})

		require.True(t, outcome.Failed())
		assert.Equal(t, core.FailureStatus, outcome.Failure.Kind)
		assert.Equal(t, http.StatusBadRequest, outcome.Failure.Status)
		assert.Len(t, outcome.Failure.Detail, 200)
	})

	t.Run("stalled endpoint hits the deadline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		}))
		defer srv.Close()
		client := newTestClient(t, "test-key", 100*time.Millisecond, option.WithEndpoint(srv.URL))

		start := time.Now()
		outcome := client.Infer(ctx, []string{"hello"})

		require.True(t, outcome.Failed())
		assert.Equal(t, core.FailureTransport, outcome.Failure.Kind)
		assert.Less(t, time.Since(start), 3*time.Second)
	})

	t.Run("wrong prediction count is malformed", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, completionBody(`[[{"label":"POSITIVE","score":0.9}]]`))
		}))
		defer srv.Close()
		client := newTestClient(t, "test-key", 5*time.Second, option.WithEndpoint(srv.URL))

		outcome := client.Infer(ctx, []string{"a", "b"})

		require.True(t, outcome.Failed())
		assert.Equal(t, core.FailureMalformed, outcome.Failure.Kind)
	})
}

func TestCompletionText(t *testing.T) {
	t.Run("joins text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text(`[[{"label":"POSITIVE",`), genai.Text(`"score":0.9}]]`)}},
			}},
		}

		text, ok := completionText(resp)

		require.True(t, ok)
		assert.Equal(t, `[[{"label":"POSITIVE","score":0.9}]]`, text)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, ok := completionText(&genai.GenerateContentResponse{})
		assert.False(t, ok)

		_, ok = completionText(nil)
		assert.False(t, ok)
	})
}

func TestGeminiClient_Failure(t *testing.T) {
	client := newTestClient(t, "", time.Second)

	outcome := client.failure(&googleapi.Error{Code: 429, Message: "quota exceeded"})
	require.True(t, outcome.Failed())
	assert.Equal(t, "HTTP 429: quota exceeded", outcome.Failure.Message())

	outcome = client.failure(errors.New("connection reset"))
	assert.Equal(t, core.FailureTransport, outcome.Failure.Kind)
	assert.Equal(t, "connection reset", outcome.Failure.Message())

	outcome = client.failure(fmt.Errorf("generate: %w", context.DeadlineExceeded))
	assert.Equal(t, core.FailureTransport, outcome.Failure.Kind)
}
