/*
Package dictionary implements the file-backed word sets used for spelling
and censoring.

A WordSet holds lower-cased words in a patricia trie and mirrors them into a
plain text file, one word per line. Every mutation that changes membership
rewrites the whole file before it returns, so the file always reflects the
in-memory set:

	ws, err := dictionary.Open("dictionary.txt")
	added, err := ws.Add("Apple") // file now contains "apple"
	ws.Contains("APPLE")          // true

Rewrites go through a temp file and a rename under an exclusive lock on
<path>.lock, so a crash or a concurrent writer never leaves a truncated file.
*/
package dictionary

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bastiangx/wordguard/internal/utils"
	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
	"github.com/tchap/go-patricia/v2/patricia"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// filePerm is used for newly created and rewritten dictionary files.
const filePerm = 0644

// present is the trie item for every stored word; patricia skips nil items.
var present = struct{}{}

// WordSet is a set of lower-case words persisted to a flat text file.
type WordSet struct {
	path  string
	trie  *patricia.Trie
	count int
	lock  *flock.Flock
	mu    sync.RWMutex
}

// Option configures a WordSet.
type Option func(*WordSet)

// WithoutLock disables the <path>.lock file taken during rewrites.
func WithoutLock() Option {
	return func(ws *WordSet) { ws.lock = nil }
}

// Open loads the word set stored at path. A missing file is created empty.
func Open(path string, opts ...Option) (*WordSet, error) {
	ws := &WordSet{
		path: path,
		trie: patricia.NewTrie(),
		lock: flock.New(path + ".lock"),
	}
	for _, opt := range opts {
		opt(ws)
	}
	if err := ws.Reload(); err != nil {
		return nil, err
	}
	return ws, nil
}

// Reload replaces the in-memory set with the current file content.
// On error the previous content is kept. The file is read under the write
// lock so a concurrent Add or Remove cannot be overwritten by older content.
func (ws *WordSet) Reload() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	trie, count, err := loadFile(ws.path)
	if err != nil {
		return err
	}
	ws.trie, ws.count = trie, count
	log.Debugf("Loaded %d words from %s", count, ws.path)
	return nil
}

func loadFile(path string) (*patricia.Trie, int, error) {
	trie := patricia.NewTrie()

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		created, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, filePerm)
		if err != nil {
			return nil, 0, &IOError{Op: "create", Path: path, Err: err}
		}
		if err := created.Close(); err != nil {
			return nil, 0, &IOError{Op: "create", Path: path, Err: err}
		}
		log.Debugf("Created empty dictionary file at %s", path)
		return trie, 0, nil
	}
	if err != nil {
		return nil, 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer file.Close()

	words, err := ReadWords(file)
	if err != nil {
		return nil, 0, &IOError{Op: "read", Path: path, Err: err}
	}

	count := 0
	for _, w := range words {
		if trie.Insert(patricia.Prefix(w), present) {
			count++
		}
	}
	return trie, count, nil
}

// Path returns the backing file path.
func (ws *WordSet) Path() string {
	return ws.path
}

// Len returns the number of stored words.
func (ws *WordSet) Len() int {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.count
}

// Contains reports whether word is in the set, ignoring case.
func (ws *WordSet) Contains(word string) bool {
	w, err := normalize(word)
	if err != nil {
		return false
	}
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.trie.Match(patricia.Prefix(w))
}

// Add inserts word and rewrites the backing file.
// It returns false without touching the file if the word is already present.
func (ws *WordSet) Add(word string) (bool, error) {
	w, err := normalize(word)
	if err != nil {
		return false, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.trie.Insert(patricia.Prefix(w), present) {
		return false, nil
	}
	if err := ws.persistLocked(); err != nil {
		ws.trie.Delete(patricia.Prefix(w))
		return false, err
	}
	ws.count++
	log.Debugf("Added %q to %s", w, ws.path)
	return true, nil
}

// Remove deletes word and rewrites the backing file.
// It returns false without touching the file if the word is absent.
func (ws *WordSet) Remove(word string) (bool, error) {
	w, err := normalize(word)
	if err != nil {
		return false, err
	}

	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.trie.Delete(patricia.Prefix(w)) {
		return false, nil
	}
	if err := ws.persistLocked(); err != nil {
		ws.trie.Insert(patricia.Prefix(w), present)
		return false, err
	}
	ws.count--
	log.Debugf("Removed %q from %s", w, ws.path)
	return true, nil
}

// Words returns all entries in lexicographic order.
func (ws *WordSet) Words() []string {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.wordsLocked()
}

// VisitPrefix calls fn for every entry starting with prefix (case-insensitive).
// fn runs under the read lock and must not mutate the set.
// Visiting stops at the first error returned by fn.
func (ws *WordSet) VisitPrefix(prefix string, fn func(word string) error) error {
	p := lower(strings.TrimSpace(prefix))
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.trie.VisitSubtree(patricia.Prefix(p), func(key patricia.Prefix, _ patricia.Item) error {
		return fn(string(key))
	})
}

func (ws *WordSet) wordsLocked() []string {
	words := make([]string, 0, ws.count)
	_ = ws.trie.Visit(func(key patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(key))
		return nil
	})
	sort.Strings(words)
	return words
}

// persistLocked rewrites the backing file from the trie. Caller holds mu.
func (ws *WordSet) persistLocked() error {
	if ws.lock != nil {
		if err := ws.lock.Lock(); err != nil {
			return &IOError{Op: "lock", Path: ws.lock.Path(), Err: err}
		}
		defer func() {
			if err := ws.lock.Unlock(); err != nil {
				log.Warnf("Failed to release lock %s: %v", ws.lock.Path(), err)
			}
		}()
	}

	words := ws.wordsLocked()
	err := utils.WriteFileAtomic(ws.path, filePerm, func(w io.Writer) error {
		return WriteWords(w, words)
	})
	if err != nil {
		return &IOError{Op: "write", Path: ws.path, Err: err}
	}
	return nil
}

// Normalize returns the stored form of word: trimmed and lower-cased.
func Normalize(word string) (string, error) {
	return normalize(word)
}

func normalize(word string) (string, error) {
	w := strings.TrimSpace(word)
	if w == "" {
		return "", ErrEmptyWord
	}
	if strings.ContainsAny(w, "\r\n") {
		return "", ErrInvalidWord
	}
	return lower(w), nil
}

// lower folds s to lower case. A Caser is not safe for concurrent use,
// so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
