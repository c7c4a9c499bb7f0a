package core

import "strings"

// Normalize applies the neutral margin to one RawItem per text. Labels are
// upper-cased; any item scoring strictly below margin becomes NEUTRAL with its
// score unchanged. Labels outside the known set are reported as NEUTRAL.
func Normalize(items []RawItem, margin float64) []SentimentResult {
	results := make([]SentimentResult, len(items))
	for i, item := range items {
		results[i] = normalizeItem(item, margin)
	}
	return results
}

func normalizeItem(item RawItem, margin float64) SentimentResult {
	label := strings.ToUpper(strings.TrimSpace(item.Label))
	if item.Score < margin || !knownLabel(label) {
		label = LabelNeutral
	}
	return SentimentResult{Label: label, Score: item.Score}
}

func knownLabel(label string) bool {
	switch label {
	case LabelPositive, LabelNegative, LabelNeutral:
		return true
	}
	return false
}

// Top returns the highest scoring candidate. Ties keep the first one seen.
// ok is false when there are no candidates.
func Top(candidates []RawItem) (best RawItem, ok bool) {
	for i, c := range candidates {
		if i == 0 || c.Score > best.Score {
			best = c
		}
	}
	return best, len(candidates) > 0
}

// Resolve turns a backend outcome into the caller-visible result list. A
// failure collapses into a single NEUTRAL/0.0 result carrying the error,
// regardless of how many texts were submitted.
func Resolve(outcome Outcome, margin float64) []SentimentResult {
	if outcome.Failed() {
		return []SentimentResult{{
			Label: LabelNeutral,
			Score: 0.0,
			Error: outcome.Failure.Message(),
		}}
	}

	results := make([]SentimentResult, len(outcome.Predictions))
	for i, candidates := range outcome.Predictions {
		best, ok := Top(candidates)
		if !ok {
			results[i] = SentimentResult{Label: LabelNeutral, Score: 0.0}
			continue
		}
		results[i] = normalizeItem(best, margin)
	}
	return results
}
