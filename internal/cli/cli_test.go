package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/bastiangx/wordguard/internal/logger"
	"github.com/bastiangx/wordguard/pkg/rewrite"
	"github.com/bastiangx/wordguard/pkg/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var qick = rewrite.Misspelling{
	Word:        "qick",
	Suggestions: []string{"quick", "quirk"},
	Pos:         rewrite.Position{Line: 3, Column: 4},
}

func TestReviewerAnswers(t *testing.T) {
	testCases := []struct {
		input       string
		expected    rewrite.Directive
		description string
	}{
		{"y\n", rewrite.AcceptSuggestion(), "Accept"},
		{"  Y \n", rewrite.AcceptSuggestion(), "Accept is case-insensitive"},
		{"n\n", rewrite.Keep(), "Decline"},
		{"maybe\n", rewrite.Keep(), "Anything else declines"},
		{"\n", rewrite.Keep(), "Empty answer declines"},
		{"c\nspeedy\n", rewrite.Replace("speedy"), "Custom replacement"},
		{"c\r\nfast  \r\n", rewrite.Replace("fast  "), "Custom replacement kept verbatim"},
		{"c\n\n", rewrite.Replace(""), "Empty custom replacement deletes the word"},
		{"y", rewrite.AcceptSuggestion(), "Answer without newline"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			rv := NewReviewer(strings.NewReader(tc.input), io.Discard, false, false)
			d, err := rv.Resolve(qick)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, d)
		})
	}
}

func TestReviewerEOF(t *testing.T) {
	rv := NewReviewer(strings.NewReader(""), io.Discard, false, false)
	_, err := rv.Resolve(qick)
	assert.ErrorIs(t, err, io.EOF)

	rv = NewReviewer(strings.NewReader("c\n"), io.Discard, false, false)
	_, err = rv.Resolve(qick)
	assert.ErrorIs(t, err, io.EOF, "custom text missing")
}

func TestReviewerPrompts(t *testing.T) {
	var out bytes.Buffer
	rv := NewReviewer(strings.NewReader("c\nquack\n"), &out, true, false)

	rv.Misspelled(qick)
	_, err := rv.Resolve(qick)
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Misspelled: 'qick' (line 3, col 5)")
	assert.Contains(t, text, "Suggestions: quick, quirk")
	assert.Contains(t, text, "Use 'quick'? (y/n/c): ")
	assert.Contains(t, text, "Enter replacement: ")
}

func TestReviewerQuietWhenNotInteractive(t *testing.T) {
	var out bytes.Buffer
	rv := NewReviewer(strings.NewReader("y\n"), &out, false, false)

	_, err := rv.Resolve(qick)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestReviewerNoSuggestions(t *testing.T) {
	var out bytes.Buffer
	rv := NewReviewer(strings.NewReader(""), &out, true, false)
	rv.Misspelled(rewrite.Misspelling{Word: "zzz", Pos: rewrite.Position{Line: 1}})
	assert.NotContains(t, out.String(), "Suggestions")
}

func TestReviewerDrivesChecker(t *testing.T) {
	dict := staticDict{"the": true, "quick": true, "brown": true, "fox": true}
	c := rewrite.NewChecker(dict, nil)
	rv := NewReviewer(strings.NewReader("y\nc\nBrown\n"), io.Discard, false, false)

	var out bytes.Buffer
	_, err := c.Correct(strings.NewReader("the qick brwn fox\nthe foz"), &out, rv)
	require.NoError(t, err)
	assert.Equal(t, "the quick Brown fox\nthe foz\n", out.String(), "input ran out before foz")
}

func TestReviewerEmptyCustomDeletesWord(t *testing.T) {
	dict := staticDict{"the": true, "quick": true, "fox": true}
	c := rewrite.NewChecker(dict, nil)
	rv := NewReviewer(strings.NewReader("c\n\n"), io.Discard, false, false)

	var out bytes.Buffer
	_, err := c.Correct(strings.NewReader("the qick fox"), &out, rv)
	require.NoError(t, err)
	assert.Equal(t, "the  fox\n", out.String())
}

func TestInputHandler(t *testing.T) {
	dict := staticDict{"help": true, "hello": true, "helm": true, "world": true}
	var out bytes.Buffer
	h := NewInputHandler(suggest.NewCompleter(dict), suggest.NewSuggester(dict, 1), logger.NewPlain(&out), 8, 64)

	require.NoError(t, h.Start(strings.NewReader("hel\nwrld\n1234\nqqxz"), false))

	text := out.String()
	assert.Contains(t, text, "Completions for 'hel': hello, helm, help")
	assert.Contains(t, text, "Suggestions for 'hel': helm, help")
	assert.Contains(t, text, "Suggestions for 'wrld': world")
	assert.Contains(t, text, "Nothing to look up for '1234'")
	assert.Contains(t, text, "No matches for 'qqxz'")
	assert.NotRegexp(t, `\d{4}/\d{2}/\d{2}`, text, "command output carries no timestamps")
}

// staticDict is an in-memory word list.
type staticDict map[string]bool

func (d staticDict) Contains(word string) bool { return d[strings.ToLower(word)] }

func (d staticDict) Words() []string {
	words := make([]string, 0, len(d))
	for w := range d {
		words = append(words, w)
	}
	return words
}

func (d staticDict) VisitPrefix(prefix string, fn func(string) error) error {
	for w := range d {
		if strings.HasPrefix(w, prefix) {
			if err := fn(w); err != nil {
				return err
			}
		}
	}
	return nil
}
