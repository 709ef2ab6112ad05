/*
Package server implements msgpack IPC for touch suggestion services.

The server package provides a minimal interface for fuzzy word suggestion using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports suggestion requests, user dictionary ops, and health checks.
Messages are processed synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send structured messages via stdin and receive responses through stdout.
Each message contains an ID field and other fields based on the operation type.

Suggestion requests carry the touch sequence as parallel arrays:

	{"id": "req_001", "k": [99, 97, 116], "x": [135, 45, 285], "y": [40, 120, 40], "l": 10}

A position typed without a usable touch point sends -1 for both coordinates.
The optional "prev" field names the previously committed word and enables
bigram reranking of its known successors.

The server responds with suggestions ranked by score:

	{"id": "req_001", "s": [{"w": "cat", "f": 160}, {"w": "rat", "f": 40}], "c": 2, "t": 1}

User dictionary ops adjust the runtime word set:

	{"id": "user_001", "op": "user_add", "w": "tapserve", "f": 128}
	{"id": "user_002", "op": "user_remove", "w": "tapserve"}

Config updates persist engine settings to the active config file; they take
effect on the next start:

	{"id": "cfg_001", "op": "config_update", "max_errors": 1, "split": false}

Response structures include status information and error details when an op fails.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and reducing latency by ~40 to 70% in most cases.
*/
package server

// SuggestRequest - minimal suggestion request. Op selects the operation;
// an empty Op means "suggest".
type SuggestRequest struct {
	ID        string  `msgpack:"id"`
	Op        string  `msgpack:"op,omitempty"` // "", "suggest", "health", "user_add", "user_remove", "config_update"
	Keys      []int32 `msgpack:"k,omitempty"`
	XCoords   []int   `msgpack:"x,omitempty"`
	YCoords   []int   `msgpack:"y,omitempty"`
	PrevWord  string  `msgpack:"prev,omitempty"`
	Limit     int     `msgpack:"l,omitempty"`
	Word      string  `msgpack:"w,omitempty"` // for user dictionary ops
	Frequency int     `msgpack:"f,omitempty"` // for "user_add"

	// Engine settings for "config_update"; nil fields stay unchanged.
	// Changes persist to the config file and apply on the next start.
	MaxErrors        *int  `msgpack:"max_errors,omitempty"`
	MaxWords         *int  `msgpack:"max_words,omitempty"`
	EnableSplit      *bool `msgpack:"split,omitempty"`
	EnableCompletion *bool `msgpack:"completion,omitempty"`
}

// SuggestionEntry - minimal suggestion response
type SuggestionEntry struct {
	Word      string `msgpack:"w"`
	Frequency int    `msgpack:"f"`
}

// SuggestResponse - suggestion response
type SuggestResponse struct {
	ID          string            `msgpack:"id"`
	Suggestions []SuggestionEntry `msgpack:"s"`
	Count       int               `msgpack:"c"`
	TimeTaken   int64             `msgpack:"t"`
}

// StatusResponse - status of health checks and user dictionary ops
type StatusResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Error  string `msgpack:"error,omitempty"`
	Words  int    `msgpack:"words,omitempty"`
}

// RequestError holds basic error information for failed requests
type RequestError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
