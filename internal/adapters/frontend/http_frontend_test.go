package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mikey/llm-sentiment/internal/adapters/journal"
	"github.com/mikey/llm-sentiment/internal/adapters/memory"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var defaults = config.ClassifyConfig{Backend: core.BackendLocal, NeutralMargin: 0.15}

type fixture struct {
	frontend  *HTTPFrontend
	journal   *journal.MemoryJournal
	transport *memory.Transport
}

func newFixture(t *testing.T, classifier core.LocalClassifier, withJournal bool) *fixture {
	t.Helper()

	transport := memory.NewTransport(core.FailStatus(503, "overloaded"))
	fx := &fixture{transport: transport}

	var (
		j        ports.Journal
		observer core.Observer
	)
	if withJournal {
		fx.journal = journal.NewMemoryJournal(zap.NewNop(), 0)
		t.Cleanup(fx.journal.Stop)
		j = fx.journal
		observer = journal.NewRecorder(fx.journal, time.Hour, zap.NewNop())
	}

	service := core.NewSentimentService(memory.NewProvider(classifier), transport, observer)
	fx.frontend = NewHTTPFrontend(service, j, defaults, ":0", zap.NewNop())
	return fx
}

func (fx *fixture) do(method, path, body string) (*httptest.ResponseRecorder, Response) {
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	fx.frontend.Handler().ServeHTTP(w, req)

	var resp Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func decodeData(t *testing.T, resp Response, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestHTTPFrontend_Classify(t *testing.T) {
	t.Run("local backend with defaults", func(t *testing.T) {
		fx := newFixture(t, memory.NewClassifier(core.RawItem{Label: "POSITIVE", Score: 0.97}), false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"I love it"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), resp.Meta.RequestID)

		var data ClassifyResponse
		decodeData(t, resp, &data)
		assert.Equal(t, core.LabelPositive, data.Label)
		assert.Equal(t, 0.97, data.Score)
		assert.Equal(t, "local", data.Backend)
		assert.Empty(t, data.Provider)
		assert.Len(t, data.Results, 1)
		assert.Contains(t, data.Summary, "Result: POSITIVE")
	})

	t.Run("margin from the request", func(t *testing.T) {
		fx := newFixture(t, memory.NewClassifier(core.RawItem{Label: "NEGATIVE", Score: 0.4}), false)

		_, resp := fx.do("POST", "/api/v1/classify", `{"text":"hm","neutral_margin":0.5}`)

		var data ClassifyResponse
		decodeData(t, resp, &data)
		assert.Equal(t, core.LabelNeutral, data.Label)
		assert.Equal(t, 0.4, data.Score)
	})

	t.Run("remote failure is data, not an HTTP error", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"great","backend":"API"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var data ClassifyResponse
		decodeData(t, resp, &data)
		assert.Equal(t, core.LabelNeutral, data.Label)
		assert.Equal(t, 0.0, data.Score)
		assert.Equal(t, "HTTP 503: overloaded", data.Error)
		assert.Equal(t, "remote", data.Backend)
		assert.Equal(t, "memory", data.Provider)
		assert.Equal(t, 1, fx.transport.Calls())
	})

	t.Run("blank text returns the advisory", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"   ","backend":"remote"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var data ClassifyResponse
		decodeData(t, resp, &data)
		assert.Equal(t, core.LabelNeutral, data.Label)
		assert.Equal(t, 1.0, data.Score)
		assert.Equal(t, core.EmptyTextAdvisory, data.Advisory)
		assert.Equal(t, core.EmptyTextAdvisory, data.Summary)
		assert.True(t, data.Skipped)
		assert.Zero(t, fx.transport.Calls())
	})

	t.Run("invalid margin", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"x","neutral_margin":0.9}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
		assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	})

	t.Run("unknown backend", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"x","backend":"gpu"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, CodeInvalidRequest, resp.Error.Code)
	})

	t.Run("invalid json", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, _ := fx.do("POST", "/api/v1/classify", `{"text": 12}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("model unavailable", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("POST", "/api/v1/classify", `{"text":"x"}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, CodeModelUnavailable, resp.Error.Code)
	})
}

func TestHTTPFrontend_History(t *testing.T) {
	t.Run("returns recorded classifications newest first", func(t *testing.T) {
		fx := newFixture(t, memory.NewClassifier(core.RawItem{Label: "POSITIVE", Score: 0.97}), true)

		fx.do("POST", "/api/v1/classify", `{"text":"first"}`)
		time.Sleep(2 * time.Millisecond)
		fx.do("POST", "/api/v1/classify", `{"text":"second","backend":"remote"}`)

		w, resp := fx.do("GET", "/api/v1/history?limit=5", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var data HistoryResponse
		decodeData(t, resp, &data)
		require.Equal(t, 2, data.Count)
		assert.Equal(t, "remote", data.Entries[0].Backend)
		assert.Equal(t, "HTTP 503: overloaded", data.Entries[0].Error)
		assert.Equal(t, journal.Digest("first"), data.Entries[1].TextDigest)
		assert.NotContains(t, w.Body.String(), "second")
	})

	t.Run("limit is clamped", func(t *testing.T) {
		fx := newFixture(t, memory.NewClassifier(core.RawItem{Label: "POSITIVE", Score: 0.97}), true)
		for i := 0; i < 3; i++ {
			fx.do("POST", "/api/v1/classify", `{"text":"x"}`)
		}

		_, resp := fx.do("GET", "/api/v1/history?limit=-4", "")

		var data HistoryResponse
		decodeData(t, resp, &data)
		assert.Equal(t, 3, data.Count)
	})

	t.Run("journal disabled", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, resp := fx.do("GET", "/api/v1/history", "")

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, CodeJournalDisabled, resp.Error.Code)
	})
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Record(ctx context.Context, entry *core.JournalEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockJournal) Recent(ctx context.Context, limit int) ([]*core.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*core.JournalEntry), args.Error(1)
}

func (m *MockJournal) Cleanup(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockJournal) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockJournal) Stop() {
	m.Called()
}

func TestHTTPFrontend_HealthAndReady(t *testing.T) {
	t.Run("healthy without a journal", func(t *testing.T) {
		fx := newFixture(t, nil, false)

		w, _ := fx.do("GET", "/health", "")

		assert.Equal(t, http.StatusOK, w.Code)
		var status HealthStatus
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
		assert.Equal(t, "healthy", status.Status)
		assert.Equal(t, "not configured", status.Components["journal"])
		assert.Equal(t, "memory", status.Components["remote_provider"])
	})

	t.Run("unhealthy when the journal is unreachable", func(t *testing.T) {
		j := new(MockJournal)
		j.On("Ping", mock.Anything).Return(errors.New("connection refused"))
		service := core.NewSentimentService(memory.NewProvider(nil), memory.NewTransport(core.Success(nil)), nil)
		f := NewHTTPFrontend(service, j, defaults, ":0", zap.NewNop())

		req, _ := http.NewRequest("GET", "/health", http.NoBody)
		w := httptest.NewRecorder()
		f.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "connection refused")
	})

	t.Run("history read failure", func(t *testing.T) {
		j := new(MockJournal)
		j.On("Recent", mock.Anything, DefaultHistoryLimit).Return(nil, errors.New("db gone"))
		service := core.NewSentimentService(memory.NewProvider(nil), memory.NewTransport(core.Success(nil)), nil)
		f := NewHTTPFrontend(service, j, defaults, ":0", zap.NewNop())

		req, _ := http.NewRequest("GET", "/api/v1/history", http.NoBody)
		w := httptest.NewRecorder()
		f.Handler().ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		j.AssertExpectations(t)
	})

	t.Run("ready reflects the local model", func(t *testing.T) {
		fx := newFixture(t, memory.NewClassifier(core.RawItem{Label: "POSITIVE", Score: 1}), false)
		w, _ := fx.do("GET", "/ready", "")
		assert.Equal(t, http.StatusOK, w.Code)

		fx = newFixture(t, nil, false)
		w, _ = fx.do("GET", "/ready", "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), "not ready")
	})
}

func TestMiddleware(t *testing.T) {
	logger := zap.NewNop()

	t.Run("uses provided request ID", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.GET("/test", func(c *gin.Context) {
			c.String(http.StatusOK, c.GetString("request_id"))
		})

		req, _ := http.NewRequest("GET", "/test", nil)
		req.Header.Set("X-Request-ID", "custom-request-id-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "custom-request-id-123", w.Body.String())
		assert.Equal(t, "custom-request-id-123", w.Header().Get("X-Request-ID"))
	})

	t.Run("recovers from panic", func(t *testing.T) {
		router := gin.New()
		router.Use(RequestID())
		router.Use(Logger(logger))
		router.Use(Recovery(logger))
		router.GET("/test", func(c *gin.Context) {
			panic("test panic")
		})

		req, _ := http.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), CodeInternal)
	})
}
