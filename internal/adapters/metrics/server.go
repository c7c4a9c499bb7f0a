package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server exposes the collector on its own listen address
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewServer creates a metrics server for collector
func NewServer(listenAddr string, collector *Collector, logger *zap.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/metrics", gin.WrapH(collector.Handler()))

	return &Server{
		server: &http.Server{
			Addr:              listenAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Start starts serving in the background
func (s *Server) Start() error {
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	s.logger.Info("Metrics server started", zap.String("address", s.server.Addr))
	return nil
}

// Stop shuts the server down
func (s *Server) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Handler returns the server's HTTP handler
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
