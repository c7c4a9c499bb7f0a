package factory

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/mikey/llm-sentiment/internal/adapters/frontend"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

// FrontendFactory creates frontends based on configuration
type FrontendFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service ports.Classifier
}

// NewFrontendFactory creates a new frontend factory
func NewFrontendFactory(cfg *config.Config, logger *zap.Logger, service ports.Classifier) *FrontendFactory {
	return &FrontendFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateHTTPFrontend creates the HTTP API and applies the configured gin
// mode. journal may be nil.
func (f *FrontendFactory) CreateHTTPFrontend(journal ports.Journal) (*frontend.HTTPFrontend, error) {
	defaults, err := f.cfg.GetClassify()
	if err != nil {
		return nil, fmt.Errorf("invalid classification defaults: %w", err)
	}
	serverCfg := f.cfg.GetServer()

	switch serverCfg.Mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(serverCfg.Mode)
	default:
		return nil, fmt.Errorf("unsupported server mode: %q", serverCfg.Mode)
	}

	return frontend.NewHTTPFrontend(f.service, journal, defaults, serverCfg.Address(), f.logger), nil
}

// CreateCliFrontend creates the command-line frontend writing to out
func (f *FrontendFactory) CreateCliFrontend(out io.Writer) *frontend.CliFrontend {
	return frontend.NewCliFrontend(
		f.service,
		out,
		f.logger,
		f.cfg.GetBool("cli.verbose"),
		f.cfg.GetBool("cli.json_output"),
	)
}
