package frontend

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

// History pagination limits
const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// ClassifyRequest is the body of POST /api/v1/classify
type ClassifyRequest struct {
	Text          string   `json:"text"`
	NeutralMargin *float64 `json:"neutral_margin,omitempty"`
	Backend       string   `json:"backend,omitempty"`
}

// ClassifyResponse is the data of a successful classification
type ClassifyResponse struct {
	Label     string                 `json:"label"`
	Score     float64                `json:"score"`
	Error     string                 `json:"error,omitempty"`
	Advisory  string                 `json:"advisory,omitempty"`
	Backend   string                 `json:"backend"`
	Provider  string                 `json:"provider,omitempty"`
	Skipped   bool                   `json:"skipped"`
	LatencyMS float64                `json:"latency_ms"`
	Results   []core.SentimentResult `json:"results"`
	Summary   string                 `json:"summary"`
}

// HistoryEntry is one journal entry as returned by GET /api/v1/history
type HistoryEntry struct {
	ID         string  `json:"id"`
	Backend    string  `json:"backend"`
	TextDigest string  `json:"text_digest"`
	TextLength int     `json:"text_length"`
	Label      string  `json:"label"`
	Score      float64 `json:"score"`
	Error      string  `json:"error,omitempty"`
	Skipped    bool    `json:"skipped"`
	LatencyMS  float64 `json:"latency_ms"`
	RecordedAt string  `json:"recorded_at"`
}

// HistoryResponse is the data of GET /api/v1/history
type HistoryResponse struct {
	Entries []HistoryEntry `json:"entries"`
	Count   int            `json:"count"`
}

// HealthStatus represents the health check response
type HealthStatus struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
}

// HTTPFrontend serves the classification API over HTTP
type HTTPFrontend struct {
	service  ports.Classifier
	journal  ports.Journal
	defaults config.ClassifyConfig
	logger   *zap.Logger
	router   *gin.Engine
	server   *http.Server
}

var _ ports.Frontend = (*HTTPFrontend)(nil)

// NewHTTPFrontend creates the HTTP API. journal may be nil when the journal
// is disabled.
func NewHTTPFrontend(
	service ports.Classifier,
	journal ports.Journal,
	defaults config.ClassifyConfig,
	listenAddr string,
	logger *zap.Logger,
) *HTTPFrontend {
	f := &HTTPFrontend{
		service:  service,
		journal:  journal,
		defaults: defaults,
		logger:   logger,
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(logger))
	router.Use(Recovery(logger))

	router.GET("/health", f.Health)
	router.GET("/ready", f.Ready)

	v1 := router.Group("/api/v1")
	{
		v1.POST("/classify", f.Classify)
		v1.GET("/history", f.History)
	}

	f.router = router
	f.server = &http.Server{
		Addr:              listenAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return f
}

// Handler returns the HTTP handler
func (f *HTTPFrontend) Handler() http.Handler {
	return f.router
}

// Submit implements ports.Frontend
func (f *HTTPFrontend) Submit(ctx context.Context, req *core.ClassificationRequest) (*core.Classification, error) {
	return f.service.Classify(ctx, req)
}

// Start starts the HTTP server in the background
func (f *HTTPFrontend) Start() error {
	go func() {
		if err := f.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			f.logger.Error("HTTP server failed", zap.Error(err))
		}
	}()

	f.logger.Info("HTTP frontend started", zap.String("address", f.server.Addr))
	return nil
}

// Stop gracefully shuts the HTTP server down
func (f *HTTPFrontend) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.server.Shutdown(ctx)
}

// Classify handles POST /api/v1/classify
func (f *HTTPFrontend) Classify(c *gin.Context) {
	var body ClassifyRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, "invalid request body")
		return
	}

	req := &core.ClassificationRequest{
		Text:          body.Text,
		NeutralMargin: f.defaults.NeutralMargin,
		Backend:       f.defaults.Backend,
	}
	if body.NeutralMargin != nil {
		req.NeutralMargin = *body.NeutralMargin
	}
	if body.Backend != "" {
		backend, err := core.ParseBackend(body.Backend)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
			return
		}
		req.Backend = backend
	}

	result, err := f.Submit(c.Request.Context(), req)
	if err != nil {
		f.handleClassifyError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, f.toResponse(result))
}

func (f *HTTPFrontend) handleClassifyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidMargin), errors.Is(err, core.ErrInvalidBackend):
		respondError(c, http.StatusBadRequest, CodeInvalidRequest, err.Error())
	case errors.Is(err, core.ErrModelUnavailable):
		respondError(c, http.StatusServiceUnavailable, CodeModelUnavailable, "local model unavailable")
	default:
		f.logger.Error("Classification failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "internal server error")
	}
}

func (f *HTTPFrontend) toResponse(c *core.Classification) ClassifyResponse {
	resp := ClassifyResponse{
		Label:     c.Result.Label,
		Score:     c.Result.Score,
		Error:     c.Result.Error,
		Advisory:  c.Advisory,
		Backend:   c.Backend.String(),
		Skipped:   c.Skipped,
		LatencyMS: latencyMS(c),
		Results:   c.Results,
		Summary:   Summarize(c),
	}
	if c.Backend == core.BackendRemote {
		resp.Provider = f.service.RemoteProvider()
	}
	return resp
}

// History handles GET /api/v1/history
func (f *HTTPFrontend) History(c *gin.Context) {
	if f.journal == nil {
		respondError(c, http.StatusNotFound, CodeJournalDisabled, "classification journal is disabled")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultHistoryLimit)))
	if err != nil || limit < 1 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	entries, err := f.journal.Recent(c.Request.Context(), limit)
	if err != nil {
		f.logger.Error("Failed to read journal", zap.Error(err))
		respondError(c, http.StatusInternalServerError, CodeInternal, "failed to read history")
		return
	}

	out := make([]HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = HistoryEntry{
			ID:         e.ID,
			Backend:    e.Backend,
			TextDigest: e.TextDigest,
			TextLength: e.TextLength,
			Label:      e.Label,
			Score:      e.Score,
			Error:      e.Error,
			Skipped:    e.Skipped,
			LatencyMS:  float64(e.Elapsed.Microseconds()) / 1000,
			RecordedAt: e.RecordedAt.UTC().Format(time.RFC3339Nano),
		}
	}
	respondSuccess(c, http.StatusOK, HistoryResponse{Entries: out, Count: len(out)})
}

// Health handles GET /health
func (f *HTTPFrontend) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := map[string]string{
		"remote_provider": f.service.RemoteProvider(),
	}
	healthy := true

	if f.journal != nil {
		if err := f.journal.Ping(ctx); err != nil {
			components["journal"] = "error: " + err.Error()
			healthy = false
		} else {
			components["journal"] = "ok"
		}
	} else {
		components["journal"] = "not configured"
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if !healthy {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, HealthStatus{
		Status:     status,
		Components: components,
	})
}

// Ready handles GET /ready
func (f *HTTPFrontend) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	if err := f.service.Ready(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
