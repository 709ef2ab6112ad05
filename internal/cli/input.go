// Package cli handles cmd line input and suggestions for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/softkb/tapserve/internal/logger"
	"github.com/softkb/tapserve/internal/utils"
	"github.com/softkb/tapserve/pkg/keyboard"
	"github.com/softkb/tapserve/pkg/suggest"
)

// InputHandler processes user input from stdin, providing suggestions.
// Typed words are mapped to touch points at each key's center on the
// active layout, so the full proximity search runs exactly as it would
// for real taps.
type InputHandler struct {
	engine       *suggest.Engine
	layout       keyboard.Layout
	log          *log.Logger
	suggestLimit int
	requestCount int
	noFilter     bool
	// jitter shifts each synthesized touch point by up to this many pixels
	// per axis, to exercise the proximity search with sloppy input.
	jitter   int
	prevWord string
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(engine *suggest.Engine, layout keyboard.Layout, limit int, noFilter bool, jitter int) *InputHandler {
	return &InputHandler{
		engine:       engine,
		layout:       layout,
		log:          logger.Default("cli"),
		suggestLimit: limit,
		noFilter:     noFilter,
		jitter:       jitter,
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("TapServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type something and press Enter to see the suggestions (Ctrl+C to exit):")

	for {
		h.log.Print("> ")
		word, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		h.handleInput(word)
	}
}

// handleInput processes a single typed word to generate suggestions.
// It validates the input, synthesizes touch coordinates from the layout,
// and asks the engine for suggestions. Results are formatted and printed
// to the log. The accepted top result feeds the next request's bigram
// context.
func (h *InputHandler) handleInput(word string) {
	h.requestCount++

	// input filtering by default (unless --no-filter flag is used)
	if !h.noFilter {
		if !utils.IsValidInput(word) {
			h.log.Infof("No results found for input: '%s'", word)
			return
		}
	} else {
		h.log.Debug("Input filtering disabled - accepting all input")
	}

	codes, xs, ys := h.synthesizeTouches(word)

	start := time.Now()
	h.log.Debug("Processing request for", "input", word)

	suggestions, err := h.engine.GetSuggestions(suggest.Request{
		XCoordinates:  xs,
		YCoordinates:  ys,
		Codes:         codes,
		BigramContext: h.engine.BigramContextFor(h.prevWord),
		Limit:         h.suggestLimit,
	})
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for input '%s'", elapsed, word)

	if err != nil {
		h.log.Errorf("Suggestion request failed: %v", err)
		return
	}
	if len(suggestions) == 0 {
		h.log.Warnf("No suggestions found for input: '%s'", word)
		return
	}

	h.log.Printf("Found %d suggestions for input '%s':", len(suggestions), word)
	for i, s := range suggestions {
		clWord := fmt.Sprintf("\033[38;5;75m%s\033[0m", s.Word)
		h.log.Printf("%2d. %-40s (score: %8d)", i+1, clWord, s.Frequency)
	}
	h.prevWord = suggestions[0].Word
}

// synthesizeTouches maps each typed rune to the center of its key on the
// layout. Runes without a key get off-screen coordinates, which limits
// them to exact matching.
func (h *InputHandler) synthesizeTouches(word string) (codes []int32, xs, ys []int) {
	for _, r := range word {
		code := keyboard.BaseLowerCode(int32(r))
		x, y := h.layout.KeyCenter(code)
		if h.jitter > 0 && x >= 0 && y >= 0 {
			x += rand.Intn(2*h.jitter+1) - h.jitter
			y += rand.Intn(2*h.jitter+1) - h.jitter
		}
		codes = append(codes, code)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return codes, xs, ys
}
