package rewrite

import "github.com/bastiangx/wordguard/internal/utils"

// Action is the caller's resolution of one misspelling.
type Action uint8

const (
	// Decline keeps the original word.
	Decline Action = iota
	// Accept replaces the word with the first suggestion, case-matched.
	Accept
	// Custom replaces the word with Directive.Text verbatim.
	Custom
)

func (a Action) String() string {
	switch a {
	case Accept:
		return "accept"
	case Custom:
		return "custom"
	default:
		return "decline"
	}
}

// Directive tells the checker what to do with one misspelled word.
type Directive struct {
	Action Action
	Text   string
}

// AcceptSuggestion applies the first suggestion.
func AcceptSuggestion() Directive { return Directive{Action: Accept} }

// Replace substitutes text verbatim.
func Replace(text string) Directive { return Directive{Action: Custom, Text: text} }

// Keep leaves the word unchanged.
func Keep() Directive { return Directive{Action: Decline} }

// apply returns the text that replaces original.
func (d Directive) apply(original, suggestion string) string {
	switch d.Action {
	case Accept:
		return utils.MatchFirstCase(original, suggestion)
	case Custom:
		return d.Text
	default:
		return original
	}
}

// Position locates a word in a document: Line is 1-based,
// Column is the 0-based byte offset within the line.
type Position struct {
	Line   int
	Column int
}

// Misspelling is one unknown word reported to the caller.
type Misspelling struct {
	Word        string
	Suggestions []string
	Pos         Position
}

// Reviewer is the interactive side of spelling correction.
//
// Misspelled is called for every unknown word. Resolve is called only when
// the word has suggestions; returning io.EOF declines this word and every
// later one without asking again.
type Reviewer interface {
	Misspelled(m Misspelling)
	Resolve(m Misspelling) (Directive, error)
}

// DeclineAll never changes a word. Useful for report-only runs.
type DeclineAll struct{}

func (DeclineAll) Misspelled(Misspelling) {}

func (DeclineAll) Resolve(Misspelling) (Directive, error) { return Keep(), nil }

// plan resolves misspellings from directives chosen ahead of time.
type plan map[Position]Directive

func (plan) Misspelled(Misspelling) {}

func (p plan) Resolve(m Misspelling) (Directive, error) {
	if d, ok := p[m.Pos]; ok {
		return d, nil
	}
	return Keep(), nil
}
