// Package wire validates the label distribution returned by remote
// inference backends: a JSON list, one entry per input text, where each entry
// is a list of {label, score} candidates.
package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mikey/llm-sentiment/internal/core"
)

// ErrMalformed is returned when a payload does not match the expected shape
var ErrMalformed = errors.New("malformed response")

// Candidate is one label/score pair on the wire. Missing fields decode as nil.
type Candidate struct {
	Label *string  `json:"label"`
	Score *float64 `json:"score"`
}

// Request is the request body of the inference API
type Request struct {
	Inputs []string `json:"inputs"`
}

// DecodeDistribution validates and decodes a nested label distribution.
//
// The outer value must be a JSON list. An entry that is not a list, or an
// empty list, becomes an empty prediction. Candidates missing a label or a
// score decode with the zero value for the missing field.
func DecodeDistribution(data []byte) ([][]core.RawItem, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: expected a list of predictions: %v", ErrMalformed, err)
	}
	if entries == nil {
		return nil, fmt.Errorf("%w: expected a list of predictions, got null", ErrMalformed)
	}

	predictions := make([][]core.RawItem, len(entries))
	for i, entry := range entries {
		candidates, err := decodeEntry(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: prediction %d: %v", ErrMalformed, i, err)
		}
		predictions[i] = candidates
	}
	return predictions, nil
}

func decodeEntry(entry json.RawMessage) ([]core.RawItem, error) {
	trimmed := bytes.TrimSpace(entry)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, err
	}

	items := make([]core.RawItem, 0, len(raw))
	for j, r := range raw {
		var c Candidate
		if err := json.Unmarshal(r, &c); err != nil {
			return nil, fmt.Errorf("candidate %d: %v", j, err)
		}
		items = append(items, c.RawItem())
	}
	return items, nil
}

// RawItem converts a wire candidate into a RawItem
func (c Candidate) RawItem() core.RawItem {
	var item core.RawItem
	if c.Label != nil {
		item.Label = *c.Label
	}
	if c.Score != nil {
		item.Score = *c.Score
	}
	return item
}
