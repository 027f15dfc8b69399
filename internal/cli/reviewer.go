// Package cli holds the interactive terminal pieces of wordguard: the
// misspelling reviewer used by the check command and a prefix lookup loop.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordguard/pkg/rewrite"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Reviewer answers misspellings from a line-oriented reader.
//
// "y" accepts the first suggestion, "c" reads a replacement from the next
// line, and anything else declines. End of input is reported as io.EOF so
// the checker stops asking.
type Reviewer struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	word        lipgloss.Style
	hint        lipgloss.Style
}

// NewReviewer creates a reviewer reading answers from in and printing
// reports to out. Prompts are only printed when interactive is set.
func NewReviewer(in io.Reader, out io.Writer, interactive, color bool) *Reviewer {
	r := &Reviewer{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
		word:        lipgloss.NewStyle(),
		hint:        lipgloss.NewStyle(),
	}
	if color {
		r.word = r.word.Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#b4637a", Dark: "#eb6f92"})
		r.hint = r.hint.Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	}
	return r
}

// IsInteractive reports whether f is attached to a terminal.
func IsInteractive(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Misspelled prints the word, its position and the suggestions.
func (r *Reviewer) Misspelled(m rewrite.Misspelling) {
	fmt.Fprintf(r.out, "Misspelled: '%s' (line %d, col %d)\n", r.word.Render(m.Word), m.Pos.Line, m.Pos.Column+1)
	if len(m.Suggestions) > 0 {
		fmt.Fprintf(r.out, "Suggestions: %s\n", r.hint.Render(strings.Join(m.Suggestions, ", ")))
	}
}

// Resolve asks whether to take the first suggestion.
func (r *Reviewer) Resolve(m rewrite.Misspelling) (rewrite.Directive, error) {
	r.prompt(fmt.Sprintf("Use '%s'? (y/n/c): ", m.Suggestions[0]))
	answer, err := r.readLine()
	if err != nil {
		return rewrite.Directive{}, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y":
		return rewrite.AcceptSuggestion(), nil
	case "c":
		r.prompt("Enter replacement: ")
		custom, err := r.readLine()
		if err != nil {
			return rewrite.Directive{}, err
		}
		return rewrite.Replace(custom), nil
	default:
		return rewrite.Keep(), nil
	}
}

func (r *Reviewer) prompt(s string) {
	if r.interactive {
		fmt.Fprint(r.out, s)
	}
}

// readLine returns the next line without its terminator. A final line
// without "\n" is still returned; io.EOF only comes back once nothing is left.
func (r *Reviewer) readLine() (string, error) {
	line, err := r.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r"), nil
}
