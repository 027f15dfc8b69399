package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bastiangx/wordguard/internal/logger"
	"github.com/bastiangx/wordguard/pkg/config"
	"github.com/bastiangx/wordguard/pkg/dictionary"
	"github.com/bastiangx/wordguard/pkg/rewrite"
	"github.com/bastiangx/wordguard/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for spelling and censoring requests
type Server struct {
	spelling  *dictionary.WordSet
	banned    *dictionary.WordSet
	suggester suggest.ISuggester
	completer *suggest.Completer
	censor    *rewrite.Censor
	config    *config.Config
	logger    *log.Logger

	reader   io.Reader
	encoder  *msgpack.Encoder
	requests int
	reloads  atomic.Int64
}

// NewServer creates a server over the two word sets. Requests are read
// from in and responses written to out.
func NewServer(spelling, banned *dictionary.WordSet, cfg *config.Config, in io.Reader, out io.Writer) *Server {
	return &Server{
		spelling:  spelling,
		banned:    banned,
		suggester: suggest.NewSuggester(spelling, cfg.Suggest.MaxDistance),
		completer: suggest.NewCompleter(spelling),
		censor:    rewrite.NewCensor(banned, cfg.Censor.Marker),
		config:    cfg,
		logger:    logger.New("server"),
		reader:    in,
		encoder:   msgpack.NewEncoder(out),
	}
}

// Start serves requests until the input ends or ctx is done.
// Cancellation is noticed between requests.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Debug("Starting Server.")
	if s.config.Server.Watch {
		stop, err := s.watch(ctx)
		if err != nil {
			s.logger.Warnf("Dictionary watching disabled: %v", err)
		} else {
			defer stop()
		}
	}

	if err := s.encoder.Encode(map[string]string{"status": "ready"}); err != nil {
		return fmt.Errorf("writing ready message: %w", err)
	}

	dec := msgpack.NewDecoder(s.reader)
	for ctx.Err() == nil {
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			return fmt.Errorf("reading request: %w", err)
		}
		if err := s.handleRaw(raw); err != nil {
			return fmt.Errorf("writing response: %w", err)
		}
	}
	return nil
}

// handleRaw decodes one message and dispatches it. Only write failures are
// returned; request problems become error responses.
func (s *Server) handleRaw(raw msgpack.RawMessage) error {
	s.requests++
	var req Request
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.logger.Errorf("Unmarshaling request: %v", err)
		return s.sendError("", "invalid request", CodeBadRequest)
	}
	return s.handleRequest(req)
}

func (s *Server) handleRequest(req Request) error {
	switch req.Op {
	case OpCheck:
		return s.handleCheck(req)
	case OpSuggest:
		return s.handleSuggest(req)
	case OpComplete:
		return s.handleComplete(req)
	case OpCensor:
		return s.handleCensor(req)
	case OpAdd:
		return s.handleEdit(req, s.spelling, (*dictionary.WordSet).Add)
	case OpRemove:
		return s.handleEdit(req, s.spelling, (*dictionary.WordSet).Remove)
	case OpBan:
		return s.handleEdit(req, s.banned, (*dictionary.WordSet).Add)
	case OpUnban:
		return s.handleEdit(req, s.banned, (*dictionary.WordSet).Remove)
	case OpStats:
		return s.encoder.Encode(StatsResponse{
			ID:         req.ID,
			Words:      s.spelling.Len(),
			Expletives: s.banned.Len(),
			Requests:   s.requests,
			Reloads:    int(s.reloads.Load()),
		})
	default:
		return s.sendError(req.ID, fmt.Sprintf("unknown op: %s", req.Op), CodeBadRequest)
	}
}

// validWord rejects empty and oversized words, sending the error itself.
func (s *Server) validWord(req Request) (bool, error) {
	word := strings.TrimSpace(req.Word)
	if word == "" {
		return false, s.sendError(req.ID, "missing 'w' parameter", CodeBadRequest)
	}
	if len(word) > s.config.Server.MaxWordLen {
		return false, s.sendError(req.ID, fmt.Sprintf("word exceeds maximum length of %d bytes", s.config.Server.MaxWordLen), CodeBadRequest)
	}
	return true, nil
}

func (s *Server) handleCheck(req Request) error {
	if ok, err := s.validWord(req); !ok {
		return err
	}
	start := time.Now()
	resp := CheckResponse{ID: req.ID, Word: req.Word, Known: s.spelling.Contains(req.Word)}
	if !resp.Known {
		resp.Suggestions = s.suggester.Suggest(req.Word)
	}
	resp.TimeTaken = time.Since(start).Microseconds()
	return s.encoder.Encode(resp)
}

func (s *Server) handleSuggest(req Request) error {
	if ok, err := s.validWord(req); !ok {
		return err
	}
	start := time.Now()
	suggestions := s.suggester.Suggest(req.Word)
	if suggestions == nil {
		suggestions = []string{}
	}
	return s.encoder.Encode(SuggestResponse{
		ID:          req.ID,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

func (s *Server) handleComplete(req Request) error {
	if ok, err := s.validWord(req); !ok {
		return err
	}
	limit := req.Limit
	if limit < 1 {
		limit = s.config.Suggest.Limit
	}

	start := time.Now()
	words := s.completer.Complete(req.Word, limit)
	ranked := rankList(words)
	return s.encoder.Encode(CompletionResponse{
		ID:          req.ID,
		Suggestions: ranked,
		Count:       len(ranked),
		TimeTaken:   time.Since(start).Microseconds(),
	})
}

// rankList numbers words from 1 in the order given.
func rankList(words []string) []CompletionSuggestion {
	ranked := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		ranked[i] = CompletionSuggestion{Word: w, Rank: uint16(i + 1)}
	}
	return ranked
}

func (s *Server) handleCensor(req Request) error {
	var out strings.Builder
	stats, err := s.censor.Censor(strings.NewReader(req.Text), &out)
	if err != nil {
		s.logger.Errorf("Censoring request %s: %v", req.ID, err)
		return s.sendError(req.ID, "censor failed", CodeInternal)
	}
	text := out.String()
	if !strings.HasSuffix(req.Text, "\n") {
		text = strings.TrimSuffix(text, "\n")
	}
	return s.encoder.Encode(CensorResponse{ID: req.ID, Text: text, Censored: stats.Censored})
}

func (s *Server) handleEdit(req Request, ws *dictionary.WordSet, edit func(*dictionary.WordSet, string) (bool, error)) error {
	if ok, err := s.validWord(req); !ok {
		return err
	}
	changed, err := edit(ws, req.Word)
	if err != nil {
		if errors.Is(err, dictionary.ErrEmptyWord) || errors.Is(err, dictionary.ErrInvalidWord) {
			return s.sendError(req.ID, err.Error(), CodeBadRequest)
		}
		s.logger.Errorf("%s %q: %v", req.Op, req.Word, err)
		return s.sendError(req.ID, err.Error(), CodeInternal)
	}
	s.logger.Debugf("%s %q on %s: changed=%v", req.Op, req.Word, ws.Path(), changed)
	return s.encoder.Encode(DictionaryResponse{ID: req.ID, Status: "ok", Changed: changed, Count: ws.Len()})
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) error {
	return s.encoder.Encode(ErrorResponse{ID: id, Error: message, Code: code})
}
