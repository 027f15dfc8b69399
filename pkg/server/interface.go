/*
Package server implements msgpack IPC for spell checking and censoring.

The server reads a stream of msgpack maps from stdin and writes one msgpack
map per request to stdout. Nothing else is written to stdout; logs go to
stderr.

# IPC

Every request carries an ID and an op. The remaining fields depend on the op:

	{"id": "r1", "op": "check", "w": "Helo"}
	{"id": "r2", "op": "suggest", "w": "helo"}
	{"id": "r3", "op": "complete", "w": "hel", "l": 5}
	{"id": "r4", "op": "censor", "t": "well dam it"}
	{"id": "r5", "op": "add", "w": "kubernetes"}
	{"id": "r6", "op": "ban", "w": "dam"}
	{"id": "r7", "op": "stats"}

Responses echo the ID:

	{"id": "r1", "w": "Helo", "k": false, "s": ["hello", "help"], "t": 12}
	{"id": "r3", "s": [{"w": "held", "r": 1}, {"w": "hello", "r": 2}], "c": 2, "t": 30}
	{"id": "r4", "t": "well [CENSORED] it", "n": 1}
	{"id": "r5", "status": "ok", "changed": true, "count": 10231}

Failed requests get an error response instead:

	{"id": "r9", "e": "unknown op: spell", "c": 400}

Times are in microseconds. The op set mirrors the CLI: add/remove edit the
spelling dictionary, ban/unban edit the forbidden-term list, and both files
are rewritten atomically before the response is sent.

When watching is enabled the server reloads a dictionary whenever its file
is replaced or written by another process.
*/
package server

// Ops understood by the server.
const (
	OpCheck    = "check"
	OpSuggest  = "suggest"
	OpComplete = "complete"
	OpCensor   = "censor"
	OpAdd      = "add"
	OpRemove   = "remove"
	OpBan      = "ban"
	OpUnban    = "unban"
	OpStats    = "stats"
)

// Error codes sent in ErrorResponse.Code.
const (
	CodeBadRequest = 400
	CodeInternal   = 500
)

// Request is the envelope for every op.
type Request struct {
	ID    string `msgpack:"id"`
	Op    string `msgpack:"op"`
	Word  string `msgpack:"w,omitempty"`
	Text  string `msgpack:"t,omitempty"`
	Limit int    `msgpack:"l,omitempty"`
}

// CheckResponse answers OpCheck. Suggestions are only filled for unknown words.
type CheckResponse struct {
	ID          string   `msgpack:"id"`
	Word        string   `msgpack:"w"`
	Known       bool     `msgpack:"k"`
	Suggestions []string `msgpack:"s,omitempty"`
	TimeTaken   int64    `msgpack:"t"`
}

// SuggestResponse answers OpSuggest.
type SuggestResponse struct {
	ID          string   `msgpack:"id"`
	Suggestions []string `msgpack:"s"`
	Count       int      `msgpack:"c"`
	TimeTaken   int64    `msgpack:"t"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse answers OpComplete.
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// CensorResponse answers OpCensor.
type CensorResponse struct {
	ID       string `msgpack:"id"`
	Text     string `msgpack:"t"`
	Censored int    `msgpack:"n"`
}

// DictionaryResponse answers the dictionary editing ops.
type DictionaryResponse struct {
	ID      string `msgpack:"id"`
	Status  string `msgpack:"status"`
	Changed bool   `msgpack:"changed"`
	Count   int    `msgpack:"count"`
}

// StatsResponse answers OpStats.
type StatsResponse struct {
	ID         string `msgpack:"id"`
	Words      int    `msgpack:"words"`
	Expletives int    `msgpack:"expletives"`
	Requests   int    `msgpack:"requests"`
	Reloads    int    `msgpack:"reloads"`
}

// ErrorResponse holds basic error information for a failed request
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
