package suggest

import (
	"sort"
	"unicode/utf8"

	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// DefaultMaxDistance is the edit distance accepted for a suggestion.
const DefaultMaxDistance = 1

// Suggester scans a word source for entries near a query word.
type Suggester struct {
	source      WordSource
	maxDistance int
}

// NewSuggester creates a suggester over source. A maxDistance below 1
// falls back to DefaultMaxDistance.
func NewSuggester(source WordSource, maxDistance int) *Suggester {
	if maxDistance < 1 {
		maxDistance = DefaultMaxDistance
	}
	return &Suggester{source: source, maxDistance: maxDistance}
}

// MaxDistance returns the largest accepted edit distance.
func (s *Suggester) MaxDistance() int {
	return s.maxDistance
}

// Suggest returns every dictionary word within MaxDistance of word, sorted
// lexicographically. The query is lower-cased first. An empty query has no
// suggestions.
func (s *Suggester) Suggest(word string) []string {
	query, err := dictionary.Normalize(word)
	if err != nil {
		return nil
	}
	queryLen := utf8.RuneCountInString(query)

	var suggestions []string
	scanned := 0
	for _, entry := range s.source.Words() {
		scanned++
		// Cheap bound first: rune count gap never exceeds the distance.
		if lengthGap(queryLen, utf8.RuneCountInString(entry)) > s.maxDistance {
			continue
		}
		if Distance(query, entry) <= s.maxDistance {
			suggestions = append(suggestions, entry)
		}
	}
	sort.Strings(suggestions)
	log.Debugf("Suggest %q: %d candidates from %d entries", query, len(suggestions), scanned)
	return suggestions
}

// Suggest is the one-shot form of Suggester.Suggest with the default distance.
func Suggest(word string, source WordSource) []string {
	return NewSuggester(source, DefaultMaxDistance).Suggest(word)
}
