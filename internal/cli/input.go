package cli

import (
	"bufio"
	"io"
	"strings"
	"time"

	"github.com/bastiangx/wordguard/internal/utils"
	"github.com/bastiangx/wordguard/pkg/suggest"
	"github.com/charmbracelet/log"
)

// InputHandler reads words from a stream and prints prefix completions
// and spelling suggestions for each. Useful for poking at a dictionary.
type InputHandler struct {
	completer *suggest.Completer
	suggester suggest.ISuggester
	logger    *log.Logger
	limit     int
	maxLen    int
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer *suggest.Completer, suggester suggest.ISuggester, logger *log.Logger, limit, maxLen int) *InputHandler {
	return &InputHandler{
		completer: completer,
		suggester: suggester,
		logger:    logger,
		limit:     limit,
		maxLen:    maxLen,
	}
}

// Start loops over the lines of in until it is exhausted.
func (h *InputHandler) Start(in io.Reader, prompt bool) error {
	reader := bufio.NewReader(in)
	if prompt {
		h.logger.Print("type a word or prefix and press Enter (Ctrl+D to exit):")
	}
	for {
		if prompt {
			h.logger.Print("> ")
		}
		line, err := reader.ReadString('\n')
		if word := strings.TrimSpace(line); word != "" {
			h.handleInput(word)
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (h *InputHandler) handleInput(word string) {
	if len(word) > h.maxLen {
		h.logger.Errorf("Input too long: %s", word)
		return
	}
	if !utils.IsValidInput(word) {
		h.logger.Warnf("Nothing to look up for '%s'", word)
		return
	}

	start := time.Now()
	completions := h.completer.Complete(word, h.limit)
	suggestions := h.suggester.Suggest(word)
	h.logger.Debugf("Took [ %v ] for '%s'", time.Since(start), word)

	if len(completions) == 0 && len(suggestions) == 0 {
		h.logger.Warnf("No matches for '%s'", word)
		return
	}
	if len(completions) > 0 {
		h.logger.Printf("Completions for '%s': %s", word, strings.Join(completions, ", "))
	}
	if len(suggestions) > 0 {
		h.logger.Printf("Suggestions for '%s': %s", word, strings.Join(suggestions, ", "))
	}
}
