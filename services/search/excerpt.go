package search

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultContextChars = 100

	// Length of the excerpt when neither the query nor any of its words occur.
	maxUnmatchedExcerptChars = 200
)

// Excerpt returns the part of text around the first case-insensitive match of
// query, or of its first matching word, padded by contextChars characters on
// each side. Offsets count characters, not bytes.
func Excerpt(text string, query string, contextChars int) string {
	contextChars = max(0, contextChars)
	runes := []rune(text)
	loweredText := strings.ToLower(text)
	loweredQuery := strings.ToLower(query)

	position := runeIndex(loweredText, loweredQuery)
	if position < 0 {
		for _, word := range strings.Fields(loweredQuery) {
			if position = runeIndex(loweredText, word); position >= 0 {
				break
			}
		}
	}
	if position < 0 {
		return string(runes[:min(len(runes), maxUnmatchedExcerptChars)])
	}

	excerptStart := max(0, position-contextChars)
	excerptEnd := min(len(runes), position+utf8.RuneCountInString(query)+contextChars)

	return formatExcerpt(string(runes[excerptStart:excerptEnd]), excerptStart, excerptEnd, len(runes))
}

func formatExcerpt(excerpt string, excerptStart int, excerptEnd int, textLength int) string {
	if excerptStart > 0 {
		excerpt = "..." + excerpt
	}
	if excerptEnd < textLength {
		excerpt = excerpt + "..."
	}

	return excerpt
}

// runeIndex is strings.Index measured in runes.
func runeIndex(s string, substr string) int {
	i := strings.Index(s, substr)
	if i < 0 {
		return -1
	}

	return utf8.RuneCountInString(s[:i])
}
