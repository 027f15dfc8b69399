/*
Package tokenize splits a line of text into alternating word and non-word runs.

A word is a maximal run of letters, combining marks, digits and underscores.
Everything between words (spaces, punctuation, symbols) forms non-word tokens.
No character is dropped or reordered, so joining the tokens gives back the line:

	tokens := tokenize.Tokenize("Hello, world!")
	// [Word "Hello"] [NonWord ", "] [Word "world"] [NonWord "!"]
	tokenize.Join(tokens) == "Hello, world!"
*/
package tokenize

import (
	"iter"
	"regexp"
	"strings"
)

// Kind classifies a token.
type Kind uint8

const (
	// NonWord is a run of characters that are not word characters.
	NonWord Kind = iota
	// Word is a run of letters, marks, digits or underscores.
	Word
)

func (k Kind) String() string {
	if k == Word {
		return "Word"
	}
	return "NonWord"
}

// Token is one run of a line.
type Token struct {
	Kind Kind
	Text string
}

// IsWord reports whether the token is a word run.
func (t Token) IsWord() bool {
	return t.Kind == Word
}

// The first alternative wins at each position, and each class is the
// complement of the other, so every match is the longest run of one kind.
var tokenPattern = regexp.MustCompile(`([\p{L}\p{M}\p{N}_]+)|([^\p{L}\p{M}\p{N}_]+)`)

// Tokenizer lazily walks the tokens of a single line.
type Tokenizer struct {
	line string
	pos  int
}

// NewTokenizer returns a tokenizer positioned at the start of line.
func NewTokenizer(line string) *Tokenizer {
	return &Tokenizer{line: line}
}

// Next returns the next token and true, or a zero Token and false once
// the line is exhausted.
func (t *Tokenizer) Next() (Token, bool) {
	if t.pos >= len(t.line) {
		return Token{}, false
	}
	rest := t.line[t.pos:]
	loc := tokenPattern.FindStringSubmatchIndex(rest)
	if loc == nil || loc[0] != 0 {
		// The two classes cover every rune, so only invalid UTF-8
		// could get here; hand the remainder back untouched.
		t.pos = len(t.line)
		return Token{Kind: NonWord, Text: rest}, true
	}
	kind := NonWord
	if loc[2] >= 0 {
		kind = Word
	}
	t.pos += loc[1]
	return Token{Kind: kind, Text: rest[:loc[1]]}, true
}

// Offset returns the byte offset of the next token within the line.
func (t *Tokenizer) Offset() int {
	return t.pos
}

// All returns the tokens of line as a sequence. Each iteration
// starts from the beginning of the line.
func All(line string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		tk := NewTokenizer(line)
		for {
			tok, ok := tk.Next()
			if !ok || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize returns all tokens of line. An empty line has no tokens.
func Tokenize(line string) []Token {
	var tokens []Token
	for tok := range All(line) {
		tokens = append(tokens, tok)
	}
	return tokens
}

// Join concatenates the token texts in order.
func Join(tokens []Token) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(tok.Text)
	}
	return b.String()
}
