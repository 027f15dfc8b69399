// Package suggest finds dictionary words close to a misspelled word and completes prefixes.
package suggest

// WordSource is the read-only view of a dictionary the suggester scans.
type WordSource interface {
	Words() []string
}

// PrefixSource walks dictionary entries that start with a prefix.
type PrefixSource interface {
	VisitPrefix(prefix string, fn func(word string) error) error
}

// ISuggester defines the interface for correction engines
type ISuggester interface {
	// Suggest returns dictionary words within the max edit distance of word
	Suggest(word string) []string

	// MaxDistance returns the largest accepted edit distance
	MaxDistance() int
}
