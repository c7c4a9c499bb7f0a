package wire

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mikey/llm-sentiment/internal/core"
	"github.com/mikey/llm-sentiment/internal/utils"
)

// SystemPrompt is sent as the system message to chat-style LLM backends
const SystemPrompt = "You are a sentiment classification system. Respond only with JSON."

const promptFormat = `Classify the sentiment of each numbered text below.
For every text, return a list of candidates, each a JSON object with:
- label: one of "POSITIVE", "NEGATIVE", "NEUTRAL"
- score: number between 0 and 1 (probability of that label)

Respond with a JSON array containing exactly %d lists, one per text, in the same order.
Example for two texts: [[{"label":"POSITIVE","score":0.93},{"label":"NEGATIVE","score":0.07}],[{"label":"NEUTRAL","score":0.8}]]

Texts:
%s
Respond only with the JSON array and nothing else.`

// BuildPrompt renders the classification prompt for texts. Each text is
// truncated to maxSize bytes and cleaned of invalid UTF-8.
func BuildPrompt(texts []string, tp *utils.TextProcessor, maxSize int) string {
	var b strings.Builder
	for i, text := range texts {
		// Quote each text so embedded newlines cannot break the numbering
		quoted, _ := json.Marshal(tp.ProcessText(text, maxSize))
		fmt.Fprintf(&b, "%d. %s\n", i+1, quoted)
	}
	return fmt.Sprintf(promptFormat, len(texts), b.String())
}

// ExtractJSONArray returns the outermost [...] span of text, or text itself
// when no brackets are found
func ExtractJSONArray(text string) string {
	start := strings.IndexByte(text, '[')
	end := strings.LastIndexByte(text, ']')
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}

// DecodeCompletion decodes an LLM completion holding a label distribution
// for want texts. Surrounding prose or code fences are tolerated.
func DecodeCompletion(completion string, want int) ([][]core.RawItem, error) {
	predictions, err := DecodeDistribution([]byte(completion))
	if err != nil {
		predictions, err = DecodeDistribution([]byte(ExtractJSONArray(completion)))
		if err != nil {
			return nil, err
		}
	}

	if len(predictions) != want {
		return nil, fmt.Errorf("%w: expected %d predictions, got %d", ErrMalformed, want, len(predictions))
	}
	return predictions, nil
}
