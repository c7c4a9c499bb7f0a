package di

import (
	"flag"
	"io"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/factory"
	"github.com/mikey/llm-sentiment/internal/logging"
	"github.com/mikey/llm-sentiment/internal/ports"
)

// CLIFlags contains all command line flags for the CLI application
type CLIFlags struct {
	// Classification flags
	Backend string
	Margin  float64

	// Remote provider flags
	Provider        string
	APIURL          string
	OpenAIAPIKey    string
	OpenAIModelName string
	GeminiAPIKey    string
	GeminiModelName string
	BedrockRegion   string
	BedrockModelID  string

	// Local model flags
	ModelPath string

	// Input flags
	Text       string
	InputFile  string
	Verbose    bool
	JSONLog    bool
	JSONOutput bool
	ConfigFile string

	// set records the flags given on the command line
	set map[string]bool
}

// overrides maps flag names to the configuration keys they replace
var overrides = map[string]string{
	"backend":        "classify.backend",
	"margin":         "classify.neutral_margin",
	"provider":       "remote.provider",
	"api-url":        "remote.api_url",
	"openai-api-key": "openai.api_key",
	"openai-model":   "openai.model_name",
	"gemini-api-key": "gemini.api_key",
	"gemini-model":   "gemini.model_name",
	"bedrock-region": "bedrock.region",
	"bedrock-model":  "bedrock.model_id",
	"model-path":     "local.model_path",
}

// ParseFlags parses command line arguments into a CLIFlags struct
func ParseFlags(name string, args []string, output io.Writer) (*CLIFlags, error) {
	flags := &CLIFlags{set: make(map[string]bool)}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)

	// Classification flags
	fs.StringVar(&flags.Backend, "backend", "local", "Backend (local, remote)")
	fs.Float64Var(&flags.Margin, "margin", 0.15, "Neutral margin in [0, 0.5]")

	// Remote provider flags
	fs.StringVar(&flags.Provider, "provider", "huggingface", "Remote provider (huggingface, openai, gemini, bedrock)")
	fs.StringVar(&flags.APIURL, "api-url", "", "Inference API endpoint")
	fs.StringVar(&flags.OpenAIAPIKey, "openai-api-key", "", "API key for OpenAI")
	fs.StringVar(&flags.OpenAIModelName, "openai-model", "gpt-4o-mini", "OpenAI model name")
	fs.StringVar(&flags.GeminiAPIKey, "gemini-api-key", "", "API key for Google Gemini")
	fs.StringVar(&flags.GeminiModelName, "gemini-model", "gemini-1.5-flash", "Gemini model name")
	fs.StringVar(&flags.BedrockRegion, "bedrock-region", "us-east-1", "AWS region for Bedrock")
	fs.StringVar(&flags.BedrockModelID, "bedrock-model", "anthropic.claude-v2", "Bedrock model ID")

	// Local model flags
	fs.StringVar(&flags.ModelPath, "model-path", "", "Lexicon file for the local model (built-in if empty)")

	// Input flags
	fs.StringVar(&flags.Text, "text", "", "Text to classify")
	fs.StringVar(&flags.InputFile, "file", "", "Input file, one text per line (use stdin if neither -text nor -file is given)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&flags.JSONLog, "json-log", false, "Output logs in JSON format")
	fs.BoolVar(&flags.JSONOutput, "json", false, "Print results as JSON lines")
	fs.StringVar(&flags.ConfigFile, "config", "", "Path to config file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		flags.set[f.Name] = true
	})
	return flags, nil
}

// BuildCLIContainer creates and configures a dependency injection container for the CLI application
func BuildCLIContainer(flags *CLIFlags, out io.Writer) (*dig.Container, error) {
	container := dig.New()

	// Register flags
	if err := container.Provide(func() *CLIFlags { return flags }); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(func(flags *CLIFlags) (*zap.Logger, error) {
		return logging.InitConsoleLogger(flags.Verbose, flags.JSONLog)
	}); err != nil {
		return nil, err
	}

	// Register configuration
	if err := container.Provide(func(flags *CLIFlags, logger *zap.Logger) (*config.Config, error) {
		cfg, err := config.NewWithFile(flags.ConfigFile)
		if err != nil {
			return nil, err
		}
		if used := cfg.GetViper().ConfigFileUsed(); used != "" {
			logger.Info("Loaded configuration from file", zap.String("file", used))
		}
		applyFlags(cfg, flags)
		return cfg, nil
	}); err != nil {
		return nil, err
	}

	if err := provideCore(container); err != nil {
		return nil, err
	}

	// Register sentiment service without observers
	if err := container.Provide(func(models core.ModelProvider, transport core.RemoteTransport) *core.SentimentService {
		return core.NewSentimentService(models, transport, nil)
	}); err != nil {
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
	if err := container.Provide(func(f *factory.FrontendFactory) ports.Frontend {
		return f.CreateCliFrontend(out)
	}); err != nil {
		return nil, err
	}

	return container, nil
}

// applyFlags overrides configuration values with flags given on the command
// line
func applyFlags(cfg *config.Config, flags *CLIFlags) {
	v := cfg.GetViper()
	values := map[string]interface{}{
		"backend":        flags.Backend,
		"margin":         flags.Margin,
		"provider":       flags.Provider,
		"api-url":        flags.APIURL,
		"openai-api-key": flags.OpenAIAPIKey,
		"openai-model":   flags.OpenAIModelName,
		"gemini-api-key": flags.GeminiAPIKey,
		"gemini-model":   flags.GeminiModelName,
		"bedrock-region": flags.BedrockRegion,
		"bedrock-model":  flags.BedrockModelID,
		"model-path":     flags.ModelPath,
	}
	for name, key := range overrides {
		if flags.set[name] {
			v.Set(key, values[name])
		}
	}

	v.Set("cli.verbose", flags.Verbose)
	v.Set("cli.json_output", flags.JSONOutput)
}
