package local

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var apostrophe = strings.NewReplacer("’", "'", "ʼ", "'", "`", "'")

// A Caser holds state, so every call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func foldToken(s string) string {
	return fold(norm.NFKC.String(strings.TrimSpace(s)))
}

// Tokenize splits text into case-folded, NFKC-normalized word tokens.
// Apostrophes inside words are kept so contractions stay whole.
func Tokenize(text string) []string {
	text = apostrophe.Replace(norm.NFKC.String(text))
	text = fold(text)

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})

	tokens := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}
