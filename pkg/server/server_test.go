package server

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/softkb/tapserve/pkg/config"
	"github.com/softkb/tapserve/pkg/dictionary"
	"github.com/softkb/tapserve/pkg/keyboard"
	"github.com/softkb/tapserve/pkg/suggest"
)

func newTestEngine(t *testing.T) *suggest.Engine {
	t.Helper()
	bd := dictionary.NewBuilder()
	bd.AddWord("cat", 10)
	bd.AddWord("car", 20)
	blob, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	prox, err := keyboard.NewProximityInfo(keyboard.Qwerty("en"), keyboard.DefaultAdditionalProximityChars(), false)
	if err != nil {
		t.Fatalf("NewProximityInfo: %v", err)
	}
	return suggest.NewEngine(blob, prox, suggest.DefaultOptions())
}

// runRequests feeds encoded requests to a server over in-memory pipes and
// returns a decoder positioned after the ready status.
func runRequests(t *testing.T, cfg *config.Config, cfgPath string, reqs ...SuggestRequest) *msgpack.Decoder {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for i := range reqs {
		if err := enc.Encode(&reqs[i]); err != nil {
			t.Fatalf("encode request: %v", err)
		}
	}

	var out bytes.Buffer
	s := newServer(newTestEngine(t), cfg, cfgPath, &in, &out)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(bytes.NewReader(out.Bytes()))
	var ready StatusResponse
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decode ready status: %v", err)
	}
	if ready.Status != "ready" {
		t.Fatalf("ready status = %q", ready.Status)
	}
	return dec
}

func TestServerSuggest(t *testing.T) {
	dec := runRequests(t, config.DefaultConfig(), "", SuggestRequest{
		ID:   "req-1",
		Keys: []int32{'c', 'a', 't'},
	})

	var resp SuggestResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ID != "req-1" {
		t.Errorf("response id = %q, want req-1", resp.ID)
	}
	if resp.Count == 0 || len(resp.Suggestions) == 0 {
		t.Fatalf("no suggestions in %+v", resp)
	}
	if resp.Suggestions[0].Word != "cat" {
		t.Errorf("top suggestion = %q, want cat", resp.Suggestions[0].Word)
	}
}

func TestServerSuggestMissingKeys(t *testing.T) {
	dec := runRequests(t, config.DefaultConfig(), "", SuggestRequest{ID: "req-2"})

	var errResp RequestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != 400 || errResp.ID != "req-2" {
		t.Errorf("error response = %+v, want code 400 for req-2", errResp)
	}
}

func TestServerHealthAndUnknownOp(t *testing.T) {
	dec := runRequests(t, config.DefaultConfig(), "",
		SuggestRequest{ID: "h-1", Op: "health"},
		SuggestRequest{ID: "h-2", Op: "bogus"},
	)

	var health StatusResponse
	if err := dec.Decode(&health); err != nil {
		t.Fatalf("decode health: %v", err)
	}
	if health.Status != "ok" || health.ID != "h-1" {
		t.Errorf("health = %+v", health)
	}

	var errResp RequestError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("decode unknown-op error: %v", err)
	}
	if errResp.Code != 400 {
		t.Errorf("unknown op code = %d, want 400", errResp.Code)
	}
}

func TestServerUserDictOps(t *testing.T) {
	dec := runRequests(t, config.DefaultConfig(), "",
		SuggestRequest{ID: "u-1", Op: "user_add", Word: "tapserve", Frequency: 128},
		SuggestRequest{ID: "u-2", Op: "user_remove", Word: "tapserve"},
	)

	var added, removed StatusResponse
	if err := dec.Decode(&added); err != nil {
		t.Fatalf("decode add response: %v", err)
	}
	if added.Status != "ok" || added.Words != 1 {
		t.Errorf("add response = %+v, want ok with 1 word", added)
	}
	if err := dec.Decode(&removed); err != nil {
		t.Fatalf("decode remove response: %v", err)
	}
	if removed.Status != "ok" || removed.Words != 0 {
		t.Errorf("remove response = %+v, want ok with 0 words", removed)
	}
}

func TestServerConfigUpdate(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	maxErrors := 1
	split := false

	dec := runRequests(t, config.DefaultConfig(), cfgPath, SuggestRequest{
		ID:          "cfg-1",
		Op:          "config_update",
		MaxErrors:   &maxErrors,
		EnableSplit: &split,
	})

	var resp StatusResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("config update response = %+v", resp)
	}

	persisted, err := config.LoadConfig(cfgPath)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if persisted.Engine.MaxErrors != 1 || persisted.Engine.EnableSplit {
		t.Errorf("persisted engine config = %+v", persisted.Engine)
	}
}
