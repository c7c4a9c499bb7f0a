package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mikey/llm-sentiment/internal/config"
	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/di"
	"github.com/mikey/llm-sentiment/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	flags, err := di.ParseFlags(os.Args[0], os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	// Build the dependency injection container
	container, err := di.BuildCLIContainer(flags, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	err = container.Invoke(func(cfg *config.Config, logger *zap.Logger, cli ports.Frontend) error {
		defer logger.Sync()
		return run(context.Background(), flags, cfg, logger, cli)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run classifies every input text and fails if any request fails
func run(ctx context.Context, flags *di.CLIFlags, cfg *config.Config, logger *zap.Logger, cli ports.Frontend) error {
	defaults, err := cfg.GetClassify()
	if err != nil {
		return err
	}

	texts, err := readTexts(flags)
	if err != nil {
		return err
	}

	failed := 0
	for _, text := range texts {
		result, err := cli.Submit(ctx, &core.ClassificationRequest{
			Text:          text,
			NeutralMargin: defaults.NeutralMargin,
			Backend:       defaults.Backend,
		})
		if err != nil {
			return err
		}
		if result.Result.Error != "" {
			failed++
		}
	}

	if failed > 0 {
		logger.Warn("Some texts could not be classified", zap.Int("failed", failed), zap.Int("total", len(texts)))
		return fmt.Errorf("%d of %d texts failed", failed, len(texts))
	}
	return nil
}

// readTexts returns the -text flag, or one text per line of the input file
// or stdin
func readTexts(flags *di.CLIFlags) ([]string, error) {
	if flags.Text != "" {
		return []string{flags.Text}, nil
	}

	var r io.Reader = os.Stdin
	if flags.InputFile != "" {
		file, err := os.Open(flags.InputFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %w", err)
		}
		defer file.Close()
		r = file
	}

	return scanLines(r)
}

func scanLines(r io.Reader) ([]string, error) {
	var texts []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			texts = append(texts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}
	return texts, nil
}
