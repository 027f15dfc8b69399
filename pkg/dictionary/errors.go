package dictionary

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyWord is returned when a word is empty after trimming.
	ErrEmptyWord = errors.New("empty word")
	// ErrInvalidWord is returned for words that cannot be stored one per line.
	ErrInvalidWord = errors.New("word contains a line break")
	// ErrDecode marks a dictionary file that is not valid UTF-8.
	ErrDecode = errors.New("undecodable bytes")
)

// IOError reports a failed file operation on a dictionary backing file or
// a document being rewritten. The in-memory set is unchanged when an IOError
// is returned from a mutation.
type IOError struct {
	Op   string // "create", "open", "read", "lock", "write"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// IsDecodeError reports whether err was caused by undecodable file content.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}
