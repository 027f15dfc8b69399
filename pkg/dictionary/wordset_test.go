package dictionary

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	encunicode "golang.org/x/text/encoding/unicode"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestOpenCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")

	ws, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, 0, ws.Len())
	assert.FileExists(t, path)
	assert.Empty(t, readFile(t, path))
}

func TestOpenNormalizesEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, "Hello\n\n  WORLD  \r\nhello\n   \nÉté\n")

	ws, err := Open(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"hello", "world", "été"}, ws.Words())
	assert.Equal(t, 3, ws.Len())
	assert.True(t, ws.Contains("HELLO"))
	assert.True(t, ws.Contains("ÉTÉ"))
}

func TestOpenDecodesUTF16WithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	enc := encunicode.UTF16(encunicode.LittleEndian, encunicode.UseBOM).NewEncoder()
	content, err := enc.String("apple\nBanana\n")
	require.NoError(t, err)
	writeFile(t, path, content)

	ws, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana"}, ws.Words())
}

func TestOpenStripsUTF8BOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, "\xef\xbb\xbfapple\n")

	ws, err := Open(path)
	require.NoError(t, err)
	assert.True(t, ws.Contains("apple"))
}

func TestOpenRejectsUndecodableBytes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, "good\nb\xffd\n")

	_, err := Open(path)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
	assert.True(t, IsDecodeError(err))
}

func TestOpenMissingParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "dictionary.txt")

	_, err := Open(path)
	require.Error(t, err)

	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "create", ioErr.Op)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestAddPersistsLowercase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	ws, err := Open(path)
	require.NoError(t, err)

	added, err := ws.Add("Apple")
	require.NoError(t, err)
	assert.True(t, added)
	assert.True(t, ws.Contains("apple"))
	assert.Equal(t, "apple\n", readFile(t, path))
}

func TestAddExistingSkipsRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	ws, err := Open(path)
	require.NoError(t, err)

	_, err = ws.Add("apple")
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	added, err := ws.Add("APPLE")
	require.NoError(t, err)
	assert.False(t, added)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "file was rewritten")
	assert.Equal(t, "apple\n", readFile(t, path))
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, "apple\nbanana\n")
	ws, err := Open(path)
	require.NoError(t, err)

	past := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, past, past))

	removed, err := ws.Remove("cherry")
	require.NoError(t, err)
	assert.False(t, removed)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(past), "file was rewritten")

	removed, err = ws.Remove("Banana")
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, 1, ws.Len())

	reloaded, err := Open(path)
	require.NoError(t, err)
	assert.False(t, reloaded.Contains("banana"))
	assert.Equal(t, []string{"apple"}, reloaded.Words())
}

func TestRewriteIsCanonical(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, "Zebra\n\nAPPLE\n")
	ws, err := Open(path)
	require.NoError(t, err)

	_, err = ws.Add("mango")
	require.NoError(t, err)
	assert.Equal(t, "apple\nmango\nzebra\n", readFile(t, path))
}

func TestInvalidWords(t *testing.T) {
	ws, err := Open(filepath.Join(t.TempDir(), "dictionary.txt"), WithoutLock())
	require.NoError(t, err)

	testCases := []struct {
		input       string
		expectedErr error
		description string
	}{
		{"", ErrEmptyWord, "Empty word"},
		{"   \t", ErrEmptyWord, "Whitespace only"},
		{"two\nlines", ErrInvalidWord, "Embedded newline"},
		{"cr\rword", ErrInvalidWord, "Embedded carriage return"},
	}

	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			_, err := ws.Add(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			_, err = ws.Remove(tc.input)
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.False(t, ws.Contains(tc.input))
		})
	}
	assert.Equal(t, 0, ws.Len())
}

func TestFailedWriteRollsBack(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dicts")
	require.NoError(t, os.Mkdir(dir, 0755))
	path := filepath.Join(dir, "dictionary.txt")
	writeFile(t, path, "apple\n")

	ws, err := Open(path, WithoutLock())
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(dir))

	added, err := ws.Add("banana")
	assert.False(t, added)
	var ioErr *IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "write", ioErr.Op)
	assert.False(t, ws.Contains("banana"))
	assert.Equal(t, 1, ws.Len())

	removed, err := ws.Remove("apple")
	assert.False(t, removed)
	require.Error(t, err)
	assert.True(t, ws.Contains("apple"))
	assert.Equal(t, 1, ws.Len())
}

func TestReloadPicksUpExternalEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	ws, err := Open(path)
	require.NoError(t, err)

	writeFile(t, path, "Fresh\nwords\n")
	require.NoError(t, ws.Reload())
	assert.Equal(t, []string{"fresh", "words"}, ws.Words())
}

func TestReloadDuringAddsKeepsEveryWord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	ws, err := Open(path)
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	done := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				assert.NoError(t, ws.Reload())
			}
		}
	}()

	for i := 0; i < n; i++ {
		_, err := ws.Add(fmt.Sprintf("word%d", i))
		require.NoError(t, err)
	}
	close(done)
	wg.Wait()

	for i := 0; i < n; i++ {
		assert.True(t, ws.Contains(fmt.Sprintf("word%d", i)), "word%d lost to a reload", i)
	}
	assert.Equal(t, n, ws.Len())
}

func TestVisitPrefix(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	writeFile(t, path, strings.Join([]string{"help", "hello", "helm", "world"}, "\n"))
	ws, err := Open(path)
	require.NoError(t, err)

	var got []string
	require.NoError(t, ws.VisitPrefix("HEL", func(word string) error {
		got = append(got, word)
		return nil
	}))
	assert.ElementsMatch(t, []string{"help", "hello", "helm"}, got)

	stop := errors.New("stop")
	calls := 0
	err = ws.VisitPrefix("", func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}

func TestLockFileUsedDuringRewrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	ws, err := Open(path)
	require.NoError(t, err)

	_, err = ws.Add("word")
	require.NoError(t, err)
	assert.FileExists(t, path+".lock")
}
