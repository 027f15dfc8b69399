package rewrite

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/bastiangx/wordguard/pkg/suggest"
	"github.com/charmbracelet/log"
	mapset "github.com/deckarep/golang-set/v2"
)

// Dictionary is what the checker needs from a spelling word set.
type Dictionary interface {
	Lexicon
	suggest.WordSource
}

// Checker corrects spelling against a dictionary.
type Checker struct {
	dict      Lexicon
	suggester suggest.ISuggester
}

// NewChecker creates a checker. A nil suggester uses edit distance 1 over dict.
func NewChecker(dict Dictionary, suggester suggest.ISuggester) *Checker {
	if suggester == nil {
		suggester = suggest.NewSuggester(dict, suggest.DefaultMaxDistance)
	}
	return &Checker{dict: dict, suggester: suggester}
}

// Correct reads a document from r, resolves each misspelling through rv and
// writes the corrected document to w. Nothing is written if reading or
// reviewing fails.
func (c *Checker) Correct(r io.Reader, w io.Writer, rv Reviewer) (Stats, error) {
	var stats Stats
	declineRest := false

	out, err := transform(r, &stats, func(word string, at Position) (string, error) {
		if c.dict.Contains(word) {
			return word, nil
		}
		stats.Misspelled++
		m := Misspelling{Word: word, Suggestions: c.suggester.Suggest(word), Pos: at}
		rv.Misspelled(m)
		if len(m.Suggestions) == 0 || declineRest {
			return word, nil
		}

		d, err := rv.Resolve(m)
		if errors.Is(err, io.EOF) {
			log.Debugf("Reviewer reached end of input at line %d, declining the rest", at.Line)
			declineRest = true
			return word, nil
		}
		if err != nil {
			return "", fmt.Errorf("%w at line %d: %w", ErrReview, at.Line, err)
		}

		replaced := d.apply(word, m.Suggestions[0])
		if replaced != word {
			stats.Corrected++
		}
		return replaced, nil
	})
	if err != nil {
		return stats, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return stats, err
	}
	return stats, nil
}

// CorrectFile corrects the file at in and writes the result to out.
func (c *Checker) CorrectFile(in, out string, rv Reviewer) (Stats, error) {
	var stats Stats
	err := transformFile(in, out, func(r io.Reader, w io.Writer) error {
		var err error
		stats, err = c.Correct(r, w, rv)
		return err
	})
	if err == nil {
		log.Debugf("Corrected %s -> %s: %+v", in, out, stats)
	}
	return stats, err
}

// ScanResult is the detection half of a two-phase correction.
type ScanResult struct {
	Misspellings []Misspelling
	Stats        Stats
	unknown      mapset.Set[string]
}

// Unknown returns the distinct misspelled words, lower-cased and sorted.
func (s *ScanResult) Unknown() []string {
	if s.unknown == nil {
		return nil
	}
	words := s.unknown.ToSlice()
	sort.Strings(words)
	return words
}

// Scan reports every misspelling in r without changing anything.
func (c *Checker) Scan(r io.Reader) (*ScanResult, error) {
	result := &ScanResult{unknown: mapset.NewThreadUnsafeSet[string]()}
	rec := &recorder{result: result}
	stats, err := c.Correct(r, io.Discard, rec)
	result.Stats = stats
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Apply rewrites r using directives keyed by the positions Scan reported.
// Misspellings without a directive are kept.
func (c *Checker) Apply(r io.Reader, w io.Writer, directives map[Position]Directive) (Stats, error) {
	return c.Correct(r, w, plan(directives))
}

type recorder struct {
	result *ScanResult
}

func (rec *recorder) Misspelled(m Misspelling) {
	rec.result.Misspellings = append(rec.result.Misspellings, m)
	rec.result.unknown.Add(lowerWord(m.Word))
}

func (rec *recorder) Resolve(Misspelling) (Directive, error) {
	return Keep(), nil
}

func lowerWord(word string) string {
	if w, err := dictionary.Normalize(word); err == nil {
		return w
	}
	return word
}
