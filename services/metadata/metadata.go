// Package metadata derives book metadata from the naming convention used for
// scanned book directories: "<title> <author> <pages>p_<isbn>".
package metadata

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Book is the metadata encoded in a book directory name.
type Book struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Pages     int    `json:"pages"`
	ISBN      string `json:"isbn"`
	Directory string `json:"directory"`
}

// Authors are written either as one token or as family and given name
// separated by a space ("坂井 豊貴"), never more.
const maxAuthorTokens = 2

var pagesAndISBNSuffix = regexp.MustCompile(`[\s\p{Z}]+([0-9]+)p_([0-9]+)$`)

type token struct {
	start int
	text  string
}

// Extract parses the base name of directory. Names that do not follow the
// convention are returned whole as the title with every other field empty.
// Pages and ISBN must be ASCII digits; full-width digits fall back.
func Extract(directory string) Book {
	name := directory
	if len(directory) > 0 {
		name = filepath.Base(directory)
	}

	suffix := pagesAndISBNSuffix.FindStringSubmatchIndex(name)
	if suffix == nil {
		return fallback(name, directory)
	}

	pages, err := strconv.Atoi(name[suffix[2]:suffix[3]])
	if err != nil {
		return fallback(name, directory)
	}
	isbn := name[suffix[4]:suffix[5]]

	tokens := splitTokens(name[:suffix[0]])
	authorStart, ok := findAuthorStart(tokens)
	if !ok {
		return fallback(name, directory)
	}

	prefix := name[:suffix[0]]
	return Book{
		Title:     strings.TrimSpace(prefix[:tokens[authorStart].start]),
		Author:    strings.TrimSpace(prefix[tokens[authorStart].start:]),
		Pages:     pages,
		ISBN:      isbn,
		Directory: directory,
	}
}

// findAuthorStart returns the index of the first author token. At least one
// token is always left for the title.
func findAuthorStart(tokens []token) (int, bool) {
	if len(tokens) < 2 {
		return 0, false
	}

	last := len(tokens) - 1
	if containsDigit(tokens[last].text) {
		return 0, false
	}

	authorStart := last
	for authorStart > 1 && last-authorStart+1 < maxAuthorTokens {
		if !isNamePart(tokens[authorStart].text) || !isNamePart(tokens[authorStart-1].text) {
			break
		}
		authorStart--
	}

	return authorStart, true
}

func splitTokens(s string) []token {
	var tokens []token
	start := -1
	for i, r := range s {
		if isSeparator(r) {
			if start >= 0 {
				tokens = append(tokens, token{start: start, text: s[start:i]})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		tokens = append(tokens, token{start: start, text: s[start:]})
	}

	return tokens
}

func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r)
}

func containsDigit(s string) bool {
	return strings.IndexFunc(s, unicode.IsDigit) >= 0
}

// isNamePart reports whether s looks like one part of a personal name:
// letters only, optionally with the punctuation used in romanised names.
func isNamePart(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsMark(r) {
			continue
		}
		if r == '.' || r == '-' || r == '\'' {
			continue
		}
		return false
	}

	return len(s) > 0
}

func fallback(name string, directory string) Book {
	return Book{
		Title:     name,
		Directory: directory,
	}
}
