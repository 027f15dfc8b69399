package suggest

import (
	"sort"
	"strings"

	"github.com/bastiangx/wordguard/internal/utils"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/charmbracelet/log"
)

// Completer returns dictionary words that extend a prefix.
type Completer struct {
	source PrefixSource
}

// NewCompleter creates a completer over source.
func NewCompleter(source PrefixSource) *Completer {
	return &Completer{source: source}
}

// Complete returns up to limit words starting with prefix, sorted.
// The exact prefix itself is skipped. The capitalization of prefix is
// carried over to each result ("Hel" -> "Hello"). limit <= 0 means no limit.
func (c *Completer) Complete(prefix string, limit int) []string {
	if !utils.IsValidInput(prefix) {
		return nil
	}
	capitalPositions := utils.CapitalPositions(strings.TrimSpace(prefix))

	lowerPrefix, err := dictionary.Normalize(prefix)
	if err != nil {
		return nil
	}

	var words []string
	err = c.source.VisitPrefix(lowerPrefix, func(word string) error {
		// Skip exact matches to avoid echoing the input
		if word == lowerPrefix {
			return nil
		}
		words = append(words, word)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting prefix %q: %v", prefix, err)
		return nil
	}

	sort.Strings(words)
	if limit > 0 && len(words) > limit {
		words = words[:limit]
	}
	for i, w := range words {
		words[i] = utils.ApplyCapitalization(w, capitalPositions)
	}
	return words
}
