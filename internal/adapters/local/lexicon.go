package local

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_lexicon.yaml
var defaultLexicon []byte

// Lexicon is a logistic bag-of-words sentiment model
type Lexicon struct {
	Name           string             `yaml:"name"`
	Bias           float64            `yaml:"bias"`
	Scale          float64            `yaml:"scale"`
	NegationWindow int                `yaml:"negation_window"`
	Negators       []string           `yaml:"negators"`
	Intensifiers   map[string]float64 `yaml:"intensifiers"`
	Weights        map[string]float64 `yaml:"weights"`

	negators map[string]struct{}
}

// DefaultLexicon parses the lexicon built into the binary
func DefaultLexicon() (*Lexicon, error) {
	return ParseLexicon(defaultLexicon)
}

// LoadLexicon reads a lexicon from a YAML file
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes and validates a YAML lexicon
func ParseLexicon(data []byte) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	if len(lex.Weights) == 0 {
		return nil, errors.New("lexicon has no weights")
	}
	if lex.Scale == 0 {
		lex.Scale = 1
	}
	if lex.NegationWindow < 0 {
		return nil, fmt.Errorf("negation_window must not be negative, got %d", lex.NegationWindow)
	}

	// Keys are folded the same way input tokens are
	weights := make(map[string]float64, len(lex.Weights))
	for k, w := range lex.Weights {
		weights[foldToken(k)] = w
	}
	lex.Weights = weights

	intensifiers := make(map[string]float64, len(lex.Intensifiers))
	for k, f := range lex.Intensifiers {
		intensifiers[foldToken(k)] = f
	}
	lex.Intensifiers = intensifiers

	lex.negators = make(map[string]struct{}, len(lex.Negators))
	for _, n := range lex.Negators {
		lex.negators[foldToken(n)] = struct{}{}
	}

	return &lex, nil
}

func (l *Lexicon) isNegator(token string) bool {
	if _, ok := l.negators[token]; ok {
		return true
	}
	// don't, isn't, wasn't, ...
	return len(token) > 3 && token[len(token)-3:] == "n't"
}
