package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	encunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single dictionary line.
const maxLineSize = 1 << 20

// ReadWords parses a newline-delimited word list.
// Lines are trimmed and lower-cased, blank lines are skipped.
// A byte order mark is honoured (UTF-16 files are decoded to UTF-8);
// any line that is not valid UTF-8 afterwards fails with ErrDecode.
func ReadWords(r io.Reader) ([]string, error) {
	decoded := transform.NewReader(r, encunicode.BOMOverride(transform.Nop))
	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)

	var words []string
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !utf8.ValidString(line) {
			return nil, fmt.Errorf("line %d: %w", lineNo, ErrDecode)
		}
		word := strings.TrimSpace(line)
		if word == "" {
			continue
		}
		words = append(words, lower(word))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// WriteWords writes one word per line in the given order.
func WriteWords(w io.Writer, words []string) error {
	for _, word := range words {
		if _, err := io.WriteString(w, word); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}
