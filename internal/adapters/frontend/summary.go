package frontend

import (
	"fmt"
	"strings"

	"github.com/mikey/llm-sentiment/internal/core"
)

// Summarize renders a classification for people to read
func Summarize(c *core.Classification) string {
	if c.Skipped {
		return c.Advisory
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Result: %s\n", c.Result.Label)
	fmt.Fprintf(&b, "Confidence: %.3f\n", c.Result.Score)
	if c.Result.Failed() {
		fmt.Fprintf(&b, "Error: %s\n", c.Result.Error)
	}
	fmt.Fprintf(&b, "Latency: %.1f ms", latencyMS(c))
	return b.String()
}

func latencyMS(c *core.Classification) float64 {
	return float64(c.Elapsed.Microseconds()) / 1000
}
