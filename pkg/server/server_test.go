package server

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bastiangx/wordguard/pkg/config"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

type fixture struct {
	dir      string
	spelling *dictionary.WordSet
	banned   *dictionary.WordSet
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "dictionary.txt"), []byte("hello\nhelp\nheld\nworld\nwell\nit\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expletives.txt"), []byte("dam\n"), 0644))

	spelling, err := dictionary.Open(filepath.Join(dir, "dictionary.txt"))
	require.NoError(t, err)
	banned, err := dictionary.Open(filepath.Join(dir, "expletives.txt"))
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	cfg.Server.Watch = false
	return &fixture{dir: dir, spelling: spelling, banned: banned, cfg: cfg}
}

// run feeds msgs to a fresh server and returns a decoder over its output,
// positioned after the ready message.
func (f *fixture) run(t *testing.T, msgs ...any) *msgpack.Decoder {
	t.Helper()
	var in, out bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, m := range msgs {
		require.NoError(t, enc.Encode(m))
	}

	srv := NewServer(f.spelling, f.banned, f.cfg, &in, &out)
	require.NoError(t, srv.Start(context.Background()))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	assert.Equal(t, "ready", ready["status"])
	return dec
}

func TestCheck(t *testing.T) {
	f := newFixture(t)
	dec := f.run(t,
		Request{ID: "1", Op: OpCheck, Word: "Helo"},
		Request{ID: "2", Op: OpCheck, Word: "World"},
	)

	var r1, r2 CheckResponse
	require.NoError(t, dec.Decode(&r1))
	require.NoError(t, dec.Decode(&r2))

	assert.Equal(t, "1", r1.ID)
	assert.False(t, r1.Known)
	assert.Equal(t, []string{"held", "hello", "help"}, r1.Suggestions)
	assert.True(t, r2.Known)
	assert.Empty(t, r2.Suggestions)
}

func TestSuggestAndComplete(t *testing.T) {
	f := newFixture(t)
	dec := f.run(t,
		Request{ID: "s", Op: OpSuggest, Word: "wrld"},
		Request{ID: "n", Op: OpSuggest, Word: "qqqxz"},
		Request{ID: "c", Op: OpComplete, Word: "Hel", Limit: 2},
	)

	var sg, none SuggestResponse
	require.NoError(t, dec.Decode(&sg))
	require.NoError(t, dec.Decode(&none))
	assert.Equal(t, []string{"world"}, sg.Suggestions)
	assert.Equal(t, 1, sg.Count)
	assert.Zero(t, none.Count)

	var cp CompletionResponse
	require.NoError(t, dec.Decode(&cp))
	assert.Equal(t, []CompletionSuggestion{{Word: "Held", Rank: 1}, {Word: "Hello", Rank: 2}}, cp.Suggestions)
	assert.Equal(t, 2, cp.Count)
}

func TestCensor(t *testing.T) {
	f := newFixture(t)
	dec := f.run(t,
		Request{ID: "a", Op: OpCensor, Text: "well Dam it"},
		Request{ID: "b", Op: OpCensor, Text: "dam\ndam\n"},
	)

	var a, b CensorResponse
	require.NoError(t, dec.Decode(&a))
	require.NoError(t, dec.Decode(&b))
	assert.Equal(t, "well [CENSORED] it", a.Text)
	assert.Equal(t, 1, a.Censored)
	assert.Equal(t, "[CENSORED]\n[CENSORED]\n", b.Text)
	assert.Equal(t, 2, b.Censored)
}

func TestEditOps(t *testing.T) {
	f := newFixture(t)
	dec := f.run(t,
		Request{ID: "1", Op: OpAdd, Word: "Kubernetes"},
		Request{ID: "2", Op: OpAdd, Word: "kubernetes"},
		Request{ID: "3", Op: OpRemove, Word: "it"},
		Request{ID: "4", Op: OpBan, Word: "heck"},
		Request{ID: "5", Op: OpUnban, Word: "dam"},
		Request{ID: "6", Op: OpStats},
	)

	expected := []DictionaryResponse{
		{ID: "1", Status: "ok", Changed: true, Count: 7},
		{ID: "2", Status: "ok", Changed: false, Count: 7},
		{ID: "3", Status: "ok", Changed: true, Count: 6},
		{ID: "4", Status: "ok", Changed: true, Count: 2},
		{ID: "5", Status: "ok", Changed: true, Count: 1},
	}
	for _, want := range expected {
		var got DictionaryResponse
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, StatsResponse{ID: "6", Words: 6, Expletives: 1, Requests: 6}, stats)

	data, err := os.ReadFile(filepath.Join(f.dir, "expletives.txt"))
	require.NoError(t, err)
	assert.Equal(t, "heck\n", string(data))
	assert.True(t, f.spelling.Contains("KUBERNETES"))
}

func TestErrors(t *testing.T) {
	f := newFixture(t)
	f.cfg.Server.MaxWordLen = 10
	dec := f.run(t,
		Request{ID: "1", Op: "spell", Word: "x"},
		Request{ID: "2", Op: OpCheck},
		Request{ID: "3", Op: OpSuggest, Word: "extraordinary"},
		Request{ID: "4", Op: OpAdd, Word: "two\nlines"},
		"not a map",
		Request{ID: "5", Op: OpCheck, Word: "it"},
	)

	expected := []ErrorResponse{
		{ID: "1", Error: "unknown op: spell", Code: CodeBadRequest},
		{ID: "2", Error: "missing 'w' parameter", Code: CodeBadRequest},
		{ID: "3", Error: "word exceeds maximum length of 10 bytes", Code: CodeBadRequest},
		{ID: "4", Error: dictionary.ErrInvalidWord.Error(), Code: CodeBadRequest},
		{ID: "", Error: "invalid request", Code: CodeBadRequest},
	}
	for _, want := range expected {
		var got ErrorResponse
		require.NoError(t, dec.Decode(&got))
		assert.Equal(t, want, got)
	}

	var ok CheckResponse
	require.NoError(t, dec.Decode(&ok))
	assert.True(t, ok.Known, "server keeps going after bad requests")
}

func TestStopsOnCancelledContext(t *testing.T) {
	f := newFixture(t)
	var in bytes.Buffer
	require.NoError(t, msgpack.NewEncoder(&in).Encode(Request{ID: "1", Op: OpStats}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	require.NoError(t, NewServer(f.spelling, f.banned, f.cfg, &in, &out).Start(ctx))

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	require.NoError(t, dec.Decode(&ready))
	var next map[string]any
	assert.ErrorIs(t, dec.Decode(&next), io.EOF, "no request served")
}

func TestReloadsOnExternalWrite(t *testing.T) {
	f := newFixture(t)
	f.cfg.Server.Watch = true

	pr, pw := io.Pipe()
	srv := NewServer(f.spelling, f.banned, f.cfg, pr, io.Discard)
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(context.Background()) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, "dictionary.txt"), []byte("hello\nzebra\n"), 0644))

	assert.Eventually(t, func() bool {
		return f.spelling.Contains("zebra") && !f.spelling.Contains("world")
	}, 3*time.Second, 20*time.Millisecond)
	assert.GreaterOrEqual(t, srv.reloads.Load(), int64(1))

	require.NoError(t, pw.Close())
	require.NoError(t, <-errc)
}
