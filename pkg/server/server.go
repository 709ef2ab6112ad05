package server

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/softkb/tapserve/pkg/config"
	"github.com/softkb/tapserve/pkg/suggest"
)

// Server handles the IPC for touch suggestions
type Server struct {
	engine     *suggest.Engine
	user       *suggest.UserDict
	config     *config.Config
	configPath string
	dec        *msgpack.Decoder
	enc        *msgpack.Encoder
	out        *bufio.Writer
}

// NewServer creates a new suggestion server using stdin/stdout for IPC
func NewServer(engine *suggest.Engine, cfg *config.Config, configPath string) *Server {
	return newServer(engine, cfg, configPath, os.Stdin, os.Stdout)
}

func newServer(engine *suggest.Engine, cfg *config.Config, configPath string, in io.Reader, w io.Writer) *Server {
	user := suggest.NewUserDict()
	engine.SetUserDict(user)
	out := bufio.NewWriter(w)
	return &Server{
		engine:     engine,
		user:       user,
		config:     cfg,
		configPath: configPath,
		dec:        msgpack.NewDecoder(bufio.NewReader(in)),
		enc:        msgpack.NewEncoder(out),
		out:        out,
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	log.Debug("Starting Server.")

	// Signal that the server is ready
	s.sendResponse(StatusResponse{Status: "ready"})

	// incoming requests stdin
	for {
		var request SuggestRequest
		if err := s.dec.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			log.Errorf("Decoding from stdin: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest dispatches an incoming request
func (s *Server) handleRequest(request SuggestRequest) {
	switch request.Op {
	case "", "suggest":
		s.handleSuggest(request)
	case "health":
		s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
	case "user_add":
		s.handleUserAdd(request)
	case "user_remove":
		s.handleUserRemove(request)
	case "config_update":
		s.handleConfigUpdate(request)
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown op: %s", request.Op), 400)
	}
}

// sendResponse encodes the given response as msgpack and flushes it to the client.
func (s *Server) sendResponse(response interface{}) {
	if err := s.enc.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.out.Flush(); err != nil {
		log.Errorf("Flushing response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(RequestError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// handleSuggest processes a suggestion request. It validates the parallel
// arrays, fills in off-screen coordinates for typed input, runs the
// engine, and sends the ranked results with timing info.
func (s *Server) handleSuggest(request SuggestRequest) {
	if len(request.Keys) == 0 {
		s.sendError(request.ID, "Missing 'k' parameter", 400)
		log.Debug("Key codes are empty in request")
		return
	}

	xs, ys := request.XCoords, request.YCoords
	if len(xs) == 0 && len(ys) == 0 {
		// Typed input: no touch points available.
		xs = make([]int, len(request.Keys))
		ys = make([]int, len(request.Keys))
		for i := range xs {
			xs[i], ys[i] = -1, -1
		}
	}
	if len(xs) != len(request.Keys) || len(ys) != len(request.Keys) {
		s.sendError(request.ID, "Coordinate arrays must match 'k' length", 400)
		return
	}

	limit := request.Limit
	if limit < 1 {
		limit = s.config.Server.DefaultLimit
	}
	if max := s.config.Server.MaxLimit; max > 0 && limit > max {
		limit = max
	}

	start := time.Now()
	suggestions, err := s.engine.GetSuggestions(suggest.Request{
		XCoordinates:  xs,
		YCoordinates:  ys,
		Codes:         request.Keys,
		BigramContext: s.engine.BigramContextFor(request.PrevWord),
		Limit:         limit,
	})
	elapsed := time.Since(start)
	if err != nil {
		s.sendError(request.ID, err.Error(), 400)
		log.Debugf("Suggestion request failed: %v", err)
		return
	}

	entries := make([]SuggestionEntry, len(suggestions))
	for i, sg := range suggestions {
		entries[i] = SuggestionEntry{Word: sg.Word, Frequency: sg.Frequency}
	}

	s.sendResponse(SuggestResponse{
		ID:          request.ID,
		Suggestions: entries,
		Count:       len(entries),
		TimeTaken:   elapsed.Milliseconds(),
	})
}

// handleConfigUpdate persists engine settings to the active config file.
// The running engine keeps its current tuning; changes apply on restart.
func (s *Server) handleConfigUpdate(request SuggestRequest) {
	err := s.config.Update(s.configPath, request.MaxErrors, request.MaxWords,
		request.EnableSplit, request.EnableCompletion)
	if err != nil {
		s.sendError(request.ID, err.Error(), 500)
		return
	}
	log.Debugf("Config updated at %s", config.GetActiveConfigPath(s.configPath))
	s.sendResponse(StatusResponse{ID: request.ID, Status: "ok"})
}

// handleUserAdd inserts a word into the runtime user dictionary
func (s *Server) handleUserAdd(request SuggestRequest) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	s.user.AddWord(request.Word, request.Frequency)
	s.sendResponse(StatusResponse{
		ID:     request.ID,
		Status: "ok",
		Words:  s.user.Size(),
	})
}

// handleUserRemove deletes a word from the runtime user dictionary
func (s *Server) handleUserRemove(request SuggestRequest) {
	if request.Word == "" {
		s.sendError(request.ID, "Missing 'w' parameter", 400)
		return
	}
	s.user.RemoveWord(request.Word)
	s.sendResponse(StatusResponse{
		ID:     request.ID,
		Status: "ok",
		Words:  s.user.Size(),
	})
}
