/*
Package rewrite drives the tokenizer over a document and rewrites word tokens.

Two policies share one skeleton. The Checker looks each word up in a
spelling dictionary and asks a Reviewer what to do with unknown words that
have suggestions. The Censor replaces words found in a forbidden-term list
with a marker. Non-word tokens always pass through untouched, and every input
line is followed by a single "\n" in the output.

Output is assembled in memory and only written once the whole input has
been read, so an I/O failure never leaves partial output behind.
*/
package rewrite

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/bastiangx/wordguard/internal/utils"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/bastiangx/wordguard/pkg/tokenize"
)

// Lexicon is a case-insensitive word membership test.
type Lexicon interface {
	Contains(word string) bool
}

// Stats counts what a run did.
type Stats struct {
	Lines      int
	Words      int
	Misspelled int
	Corrected  int
	Censored   int
}

// ErrReview wraps a failure reported by a Reviewer other than io.EOF.
var ErrReview = errors.New("review failed")

// wordPolicy returns the replacement text for one word token.
type wordPolicy func(word string, at Position) (string, error)

// forEachLine calls fn with every line of r, without its terminator.
// A trailing "\r" is dropped so CRLF input behaves like LF input.
func forEachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if line == "" && err != nil {
			return nil
		}
		lineNo++
		line = strings.TrimSuffix(line, "\n")
		line = strings.TrimSuffix(line, "\r")
		if fnErr := fn(lineNo, line); fnErr != nil {
			return fnErr
		}
		if err != nil {
			return nil
		}
	}
}

// transform rewrites every word token of r with policy and returns the
// reassembled document.
func transform(r io.Reader, stats *Stats, policy wordPolicy) (string, error) {
	var out strings.Builder
	err := forEachLine(r, func(lineNo int, line string) error {
		stats.Lines++
		tk := tokenize.NewTokenizer(line)
		for {
			col := tk.Offset()
			tok, ok := tk.Next()
			if !ok {
				break
			}
			if !tok.IsWord() {
				out.WriteString(tok.Text)
				continue
			}
			stats.Words++
			text, err := policy(tok.Text, Position{Line: lineNo, Column: col})
			if err != nil {
				return err
			}
			out.WriteString(text)
		}
		out.WriteByte('\n')
		return nil
	})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

// transformFile runs fn over the input file and atomically writes the
// result to the output path.
func transformFile(in, out string, fn func(r io.Reader, w io.Writer) error) error {
	src, err := os.Open(in)
	if err != nil {
		return &dictionary.IOError{Op: "open", Path: in, Err: err}
	}
	defer src.Close()

	var result strings.Builder
	if err := fn(src, &result); err != nil {
		if errors.Is(err, ErrReview) {
			return err
		}
		return &dictionary.IOError{Op: "read", Path: in, Err: err}
	}

	err = utils.WriteFileAtomic(out, 0644, func(w io.Writer) error {
		_, err := io.WriteString(w, result.String())
		return err
	})
	if err != nil {
		return &dictionary.IOError{Op: "write", Path: out, Err: err}
	}
	return nil
}
