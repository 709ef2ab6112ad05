package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"

	"github.com/softkb/tapserve/pkg/keyboard"
)

// UserDict holds words added at runtime, outside the packed dictionary.
// Entries are keyed by their case-folded form and merged into every
// request's results by typed-prefix match. Safe for concurrent use.
type UserDict struct {
	mu   sync.RWMutex
	trie *patricia.Trie
}

// NewUserDict returns an empty user dictionary.
func NewUserDict() *UserDict {
	return &UserDict{trie: patricia.NewTrie()}
}

// AddWord inserts or updates a word. Frequency is clamped to 1..255 so
// user entries score on the same scale as packed dictionary words.
func (u *UserDict) AddWord(word string, frequency int) {
	if word == "" {
		return
	}
	if frequency < 1 {
		frequency = 1
	}
	if frequency > 255 {
		frequency = 255
	}
	key := foldWord(word)
	u.mu.Lock()
	u.trie.Set(patricia.Prefix(key), frequency)
	u.mu.Unlock()
	log.Debugf("user dict: added %q freq=%d", word, frequency)
}

// RemoveWord deletes a word. Removing an absent word is a no-op.
func (u *UserDict) RemoveWord(word string) {
	key := foldWord(word)
	u.mu.Lock()
	u.trie.Delete(patricia.Prefix(key))
	u.mu.Unlock()
}

// Size reports the number of stored words.
func (u *UserDict) Size() int {
	n := 0
	u.mu.RLock()
	u.trie.Visit(func(patricia.Prefix, patricia.Item) error {
		n++
		return nil
	})
	u.mu.RUnlock()
	return n
}

// mergeInto pushes every user word that extends the typed primary codes
// into the queue, scored like a dictionary hit with no edits.
func (u *UserDict) mergeInto(c *Correction, q *Queue) {
	prefix := make([]rune, c.inputLen)
	for i := 0; i < c.inputLen; i++ {
		prefix[i] = rune(keyboard.BaseLowerCode(c.primary(i)))
	}
	key := string(prefix)

	u.mu.RLock()
	defer u.mu.RUnlock()
	err := u.trie.VisitSubtree(patricia.Prefix(key), func(p patricia.Prefix, item patricia.Item) error {
		freq, ok := item.(int)
		if !ok {
			log.Errorf("user dict: unexpected item type %T for %q", item, p)
			return nil
		}
		word := []rune(string(p))
		codes := make([]int32, len(word))
		for i, r := range word {
			codes[i] = int32(r)
		}
		score := c.score(freq, c.inputLen, 0, len(word), len(word) > c.inputLen)
		if score > 0 {
			q.Push(codes, score, 0)
		}
		return nil
	})
	if err != nil {
		log.Errorf("user dict: subtree visit failed: %v", err)
	}
}

// foldWord lowercases a word the way candidate matching does.
func foldWord(word string) string {
	rs := []rune(word)
	for i, r := range rs {
		rs[i] = rune(keyboard.BaseLowerCode(int32(r)))
	}
	return string(rs)
}
