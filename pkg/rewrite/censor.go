package rewrite

import (
	"io"
	"strings"

	"github.com/bastiangx/wordguard/pkg/tokenize"
	"github.com/charmbracelet/log"
)

// DefaultMarker replaces every forbidden word.
const DefaultMarker = "[CENSORED]"

// Censor redacts forbidden words. It never asks the caller anything.
type Censor struct {
	terms  Lexicon
	marker string
}

// NewCensor creates a censor over terms. An empty marker uses DefaultMarker.
func NewCensor(terms Lexicon, marker string) *Censor {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Censor{terms: terms, marker: marker}
}

// Marker returns the redaction text.
func (c *Censor) Marker() string {
	return c.marker
}

// Line censors a single line. No line break is added.
func (c *Censor) Line(line string) string {
	var b strings.Builder
	for tok := range tokenize.All(line) {
		if tok.IsWord() && c.terms.Contains(tok.Text) {
			b.WriteString(c.marker)
			continue
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// Censor reads a document from r and writes it to w with forbidden words
// replaced by the marker.
func (c *Censor) Censor(r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	out, err := transform(r, &stats, func(word string, _ Position) (string, error) {
		if c.terms.Contains(word) {
			stats.Censored++
			return c.marker, nil
		}
		return word, nil
	})
	if err != nil {
		return stats, err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return stats, err
	}
	return stats, nil
}

// CensorFile censors the file at in and writes the result to out.
func (c *Censor) CensorFile(in, out string) (Stats, error) {
	var stats Stats
	err := transformFile(in, out, func(r io.Reader, w io.Writer) error {
		var err error
		stats, err = c.Censor(r, w)
		return err
	})
	if err == nil {
		log.Debugf("Censored %s -> %s: %d words replaced", in, out, stats.Censored)
	}
	return stats, err
}
