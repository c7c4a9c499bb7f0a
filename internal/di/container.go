package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-sentiment/internal/adapters/frontend"
	"github.com/mikey/llm-sentiment/internal/adapters/journal"
	"github.com/mikey/llm-sentiment/internal/adapters/metrics"
	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/factory"
	"github.com/mikey/llm-sentiment/internal/logging"
	"github.com/mikey/llm-sentiment/internal/ports"
	"github.com/mikey/llm-sentiment/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
// for the HTTP server
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register journal
	if err := container.Provide(factory.NewJournalFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.JournalFactory) (ports.Journal, error) {
		return f.CreateJournal()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.JournalFactory, j ports.Journal) (*journal.Recorder, error) {
		return f.CreateRecorder(j)
	}); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(metrics.NewCollector); err != nil {
		return nil, err
	}

	// Register the observers fed by every classification
	if err := container.Provide(func(collector *metrics.Collector, recorder *journal.Recorder) core.Observer {
		observers := core.Observers{collector}
		if recorder != nil {
			observers = append(observers, recorder)
		}
		return observers
	}); err != nil {
		return nil, err
	}

	// Register sentiment service
	if err := container.Provide(core.NewSentimentService); err != nil {
		return nil, err
	}
	if err := container.Provide(func(s *core.SentimentService) ports.Classifier {
		return s
	}); err != nil {
		return nil, err
	}

	// Register frontend
	if err := container.Provide(factory.NewFrontendFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.FrontendFactory, j ports.Journal) (*frontend.HTTPFrontend, error) {
		return f.CreateHTTPFrontend(j)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *frontend.HTTPFrontend) ports.Frontend {
		return f
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// provideCore registers the text processor, local model and remote
// transport shared by both containers
func provideCore(container *dig.Container) error {
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return err
	}

	// Register local model provider
	if err := container.Provide(factory.NewModelFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.ModelFactory) core.ModelProvider {
		return f.CreateModelProvider()
	}); err != nil {
		return err
	}

	// Register remote transport
	if err := container.Provide(factory.NewTransportFactory); err != nil {
		return err
	}
	if err := container.Provide(func(f *factory.TransportFactory, logger *zap.Logger) (core.RemoteTransport, error) {
		transport, err := f.CreateTransport()
		if err != nil {
			return nil, err
		}
		logger.Info("Remote transport ready", zap.String("provider", transport.Name()))
		return transport, nil
	}); err != nil {
		return err
	}

	return nil
}
