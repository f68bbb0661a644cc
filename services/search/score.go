package search

import "strings"

const (
	exactMatchScore    = 1.0
	occurrenceBonus    = 0.1
	partialMatchWeight = 0.5
)

// Score rates text against query, ignoring case. Texts containing the whole
// query score 1.0 plus 0.1 per non-overlapping occurrence. Otherwise the share
// of query words found in text is scaled into (0, 0.5]. No match scores 0.
func Score(query string, text string) float64 {
	query = strings.ToLower(query)
	text = strings.ToLower(text)

	if strings.Contains(text, query) {
		return exactMatchScore + float64(strings.Count(text, query))*occurrenceBonus
	}

	words := strings.Fields(query)
	matched := 0
	for _, word := range words {
		if strings.Contains(text, word) {
			matched++
		}
	}
	if matched > 0 {
		return float64(matched) / float64(len(words)) * partialMatchWeight
	}

	return 0
}
