/*
Package suggest implements the fuzzy suggestion search: a depth-first walk
of the packed dictionary trie guided by proximity-resolved candidate code
lists, tracking edit operations against a bounded budget and collecting
the best-scoring words in fixed-capacity queues.

One Engine serves a dictionary/keyboard pair and is safe for concurrent
requests; all mutable search state lives in per-request values.
*/
package suggest

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/softkb/tapserve/pkg/dictionary"
	"github.com/softkb/tapserve/pkg/keyboard"
)

// Default engine parameters, overridable through Options.
const (
	// DefaultMaxWordLength bounds suggested word length.
	DefaultMaxWordLength = 48
	// DefaultMaxWords bounds how many suggestions a request returns.
	DefaultMaxWords = 18
	// DefaultTypedLetterMultiplier boosts each exactly-typed character.
	DefaultTypedLetterMultiplier = 2
	// DefaultFullWordMultiplier boosts a perfect whole-word match.
	DefaultFullWordMultiplier = 2
	// DefaultMaxErrors is the edit budget for single-word matches.
	DefaultMaxErrors = 2
	// MaxErrorsForTwoWords is the shared edit budget for two-word splits.
	MaxErrorsForTwoWords = 1
)

// Suggestion is one ranked result.
type Suggestion struct {
	Word      string
	Frequency int
}

// Options tune the engine. Zero fields take the package defaults.
type Options struct {
	MaxWordLength         int
	MaxWords              int
	TypedLetterMultiplier int
	FullWordMultiplier    int
	MaxErrors             int
	TwoWordsMaxErrors     int

	// EnableCompletion admits strict prefixes of dictionary words.
	EnableCompletion bool
	// EnableSplit explores two-word interpretations at space-adjacent
	// touch points.
	EnableSplit bool

	// DebugDict raises branch-local decode faults from debug to warn.
	DebugDict bool
}

// DefaultOptions returns the standard engine tuning with completion and
// split search enabled.
func DefaultOptions() Options {
	return Options{
		MaxWordLength:         DefaultMaxWordLength,
		MaxWords:              DefaultMaxWords,
		TypedLetterMultiplier: DefaultTypedLetterMultiplier,
		FullWordMultiplier:    DefaultFullWordMultiplier,
		MaxErrors:             DefaultMaxErrors,
		TwoWordsMaxErrors:     MaxErrorsForTwoWords,
		EnableCompletion:      true,
		EnableSplit:           true,
	}
}

func (o Options) withDefaults() Options {
	if o.MaxWordLength <= 0 {
		o.MaxWordLength = DefaultMaxWordLength
	}
	if o.MaxWords <= 0 {
		o.MaxWords = DefaultMaxWords
	}
	if o.TypedLetterMultiplier <= 0 {
		o.TypedLetterMultiplier = DefaultTypedLetterMultiplier
	}
	if o.FullWordMultiplier <= 0 {
		o.FullWordMultiplier = DefaultFullWordMultiplier
	}
	if o.MaxErrors <= 0 {
		o.MaxErrors = DefaultMaxErrors
	}
	if o.TwoWordsMaxErrors <= 0 {
		o.TwoWordsMaxErrors = MaxErrorsForTwoWords
	}
	return o
}

// Engine binds a dictionary blob to a keyboard proximity model. Both are
// read-only; rebuild the engine when the layout changes.
type Engine struct {
	blob *dictionary.Blob
	prox *keyboard.ProximityInfo
	opts Options
	user *UserDict
}

// NewEngine builds an engine over a dictionary and a proximity model.
func NewEngine(blob *dictionary.Blob, prox *keyboard.ProximityInfo, opts Options) *Engine {
	return &Engine{blob: blob, prox: prox, opts: opts.withDefaults()}
}

// SetUserDict attaches a runtime user dictionary whose words are merged
// into every request's results.
func (e *Engine) SetUserDict(u *UserDict) { e.user = u }

// BigramContextFor looks up the previous word and returns its successor
// map for Request.BigramContext. Unknown words yield nil.
func (e *Engine) BigramContextFor(prev string) map[int]uint8 {
	if prev == "" {
		return nil
	}
	codes := make([]int32, 0, len(prev))
	for _, r := range prev {
		codes = append(codes, int32(r))
	}
	ctx, err := e.blob.BigramContext(codes)
	if err != nil {
		log.Debugf("bigram context for %q: %v", prev, err)
		return nil
	}
	return ctx
}

// Request carries one suggestion query. XCoordinates/YCoordinates and
// Codes are parallel; a negative coordinate pair marks a position without
// a usable touch point (typed input). BigramContext optionally boosts
// successors of the previous word, keyed by terminal group offset as
// produced by dictionary.BigramContext.
type Request struct {
	XCoordinates        []int
	YCoordinates        []int
	Codes               []int32
	BigramContext       map[int]uint8
	UseFullEditDistance bool
	Limit               int
}

// searchState is the per-branch walk state, passed by value down the
// depth-first recursion.
type searchState struct {
	inputIndex int
	edits      int
	exact      int
	wordLen    int
	// pending holds the earlier input code of a transposition whose
	// second half must match the next trie character.
	pending int32
	// completing marks the strict-prefix extension phase after the input
	// is consumed.
	completing bool
}

// searcher runs one depth-first walk feeding one queue.
type searcher struct {
	e                *Engine
	c                *Correction
	q                *Queue
	bigrams          map[int]uint8
	word             []int32
	completionOn     bool
	hasFullMatch     bool
	lastDecodeFaults int
}

func (s *searcher) fault(err error) {
	s.lastDecodeFaults++
	if s.e.opts.DebugDict {
		log.Warnf("aborting search branch: %v", err)
	} else {
		log.Debugf("aborting search branch: %v", err)
	}
}

// GetSuggestions resolves the touch sequence into candidate code lists,
// walks the dictionary under the edit budget, and returns the merged
// single-word and split-word results, best first, at most Limit (capped
// by MaxWords) entries.
func (e *Engine) GetSuggestions(req Request) ([]Suggestion, error) {
	n := len(req.Codes)
	if n == 0 {
		return nil, nil
	}
	if len(req.XCoordinates) != n || len(req.YCoordinates) != n {
		return nil, fmt.Errorf("suggest: %d codes with %d/%d coordinates",
			n, len(req.XCoordinates), len(req.YCoordinates))
	}
	if n > e.opts.MaxWordLength {
		return nil, fmt.Errorf("suggest: input of %d codes exceeds the %d maximum", n, e.opts.MaxWordLength)
	}

	pool := NewQueuePool(e.opts.MaxWords)
	mult, full := e.opts.TypedLetterMultiplier, e.opts.FullWordMultiplier

	var base *Correction
	hasFullMatch := false
	expandDigraphs(req.Codes, req.XCoordinates, req.YCoordinates,
		digraphsForLocale(e.prox.Locale()), func(v inputVariant) {
			c := newCorrection(e.resolveCandidates(v), e.opts.MaxErrors, req.UseFullEditDistance, mult, full)
			if len(v.codes) == n {
				base = c
			}
			s := &searcher{
				e:            e,
				c:            c,
				q:            pool.Master,
				bigrams:      req.BigramContext,
				word:         make([]int32, e.opts.MaxWordLength),
				completionOn: e.opts.EnableCompletion,
			}
			s.expandList(0, searchState{pending: keyboard.NotACode})
			hasFullMatch = hasFullMatch || s.hasFullMatch
		})

	if e.opts.EnableSplit && n >= 2 && base != nil {
		e.splitTwoWords(base, req, pool, hasFullMatch)
	}
	if e.user != nil && base != nil {
		e.user.mergeInto(base, pool.Master)
	}

	limit := req.Limit
	if limit <= 0 || limit > e.opts.MaxWords {
		limit = e.opts.MaxWords
	}
	out := mergeByScore(pool.Master.ExtractSorted(), pool.MultiWord.ExtractSorted())
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// resolveCandidates builds the per-position candidate code lists for one
// input variant.
func (e *Engine) resolveCandidates(v inputVariant) [][]int32 {
	width := e.prox.MaxProximityCharsSize()
	cands := make([][]int32, len(v.codes))
	backing := make([]int32, width*len(v.codes))
	for i, code := range v.codes {
		cands[i] = backing[i*width : (i+1)*width]
		e.prox.CalculateNearbyKeyCodes(v.xs[i], v.ys[i], code, cands[i])
	}
	return cands
}

// expandList walks every sibling group of the list at listPos.
func (s *searcher) expandList(listPos int, st searchState) {
	count, pos, err := s.e.blob.ReadGroupCount(listPos)
	if err != nil {
		s.fault(err)
		return
	}
	var g dictionary.NodeGroup
	for i := 0; i < count; i++ {
		if err := s.e.blob.DecodeGroup(pos, &g); err != nil {
			s.fault(err)
			return
		}
		next := g.NextSiblingPos
		s.matchChars(&g, 0, st)
		pos = next
	}
}

// matchChars advances through a group's character run, branching on the
// edit operations the budget still allows at each step.
func (s *searcher) matchChars(g *dictionary.NodeGroup, ci int, st searchState) {
	if ci == g.CharCount {
		s.groupDone(g, st)
		return
	}
	if st.wordLen >= len(s.word) {
		return
	}
	ch := g.Chars[ci]

	// A pending transposition pins the next trie character.
	if st.pending != keyboard.NotACode {
		if keyboard.BaseLowerCode(ch) == keyboard.BaseLowerCode(st.pending) {
			st2 := st
			st2.pending = keyboard.NotACode
			s.word[st2.wordLen] = ch
			st2.wordLen++
			s.matchChars(g, ci+1, st2)
		}
		return
	}

	// The input can run out in the middle of a character run.
	if !st.completing && st.inputIndex == s.c.inputLen && s.completionOn {
		st.completing = true
	}

	if st.completing {
		st2 := st
		s.word[st2.wordLen] = ch
		st2.wordLen++
		s.matchChars(g, ci+1, st2)
		return
	}

	budget := s.c.maxErrors
	if st.inputIndex < s.c.inputLen {
		switch s.c.classify(st.inputIndex, ch) {
		case matchExact:
			st2 := st
			st2.inputIndex++
			st2.exact++
			s.word[st2.wordLen] = ch
			st2.wordLen++
			s.matchChars(g, ci+1, st2)
		case matchProximity:
			st2 := st
			st2.inputIndex++
			s.word[st2.wordLen] = ch
			st2.wordLen++
			s.matchChars(g, ci+1, st2)
		default:
			// Substitution: the trie character replaces a mistyped one.
			if st.edits < budget {
				st2 := st
				st2.inputIndex++
				st2.edits++
				s.word[st2.wordLen] = ch
				st2.wordLen++
				s.matchChars(g, ci+1, st2)
			}
		}

		// Transposition: two adjacent input codes arrived swapped.
		if st.edits < budget && st.inputIndex+1 < s.c.inputLen &&
			!s.c.primaryMatches(st.inputIndex, ch) &&
			s.c.primaryMatches(st.inputIndex+1, ch) {
			st2 := st
			st2.pending = s.c.primary(st.inputIndex)
			st2.inputIndex += 2
			st2.edits++
			s.word[st2.wordLen] = ch
			st2.wordLen++
			s.matchChars(g, ci+1, st2)
		}

		// Excessive input character: skip it, retry this trie character.
		if st.edits < budget && s.c.inputLen-st.inputIndex > 1 {
			st2 := st
			st2.inputIndex++
			st2.edits++
			s.matchChars(g, ci, st2)
		}
	}

	// Missing input character: take the trie character unmatched.
	if st.edits < budget {
		st2 := st
		st2.edits++
		s.word[st2.wordLen] = ch
		st2.wordLen++
		s.matchChars(g, ci+1, st2)
	}
}

// groupDone scores a terminal and descends into children.
func (s *searcher) groupDone(g *dictionary.NodeGroup, st searchState) {
	if g.Terminal() && st.pending == keyboard.NotACode {
		switch {
		case st.completing:
			s.push(g, st, s.c.score(g.Frequency, st.exact, st.edits, st.wordLen, true))
		case st.inputIndex == s.c.inputLen:
			s.push(g, st, s.c.score(g.Frequency, st.exact, st.edits, st.wordLen, false))
			if st.edits == 0 && st.exact == s.c.inputLen {
				s.hasFullMatch = true
			}
		default:
			// The word ended early; the rest of the input is excessive.
			if remaining := s.c.inputLen - st.inputIndex; st.edits+remaining <= s.c.maxErrors {
				st2 := st
				st2.edits += remaining
				st2.inputIndex = s.c.inputLen
				s.push(g, st2, s.c.score(g.Frequency, st2.exact, st2.edits, st2.wordLen, false))
			}
		}
	}

	if g.ChildrenPos == dictionary.NoChildren {
		return
	}
	if !st.completing && st.pending == keyboard.NotACode && st.inputIndex == s.c.inputLen {
		if s.completionOn {
			st2 := st
			st2.completing = true
			s.expandList(g.ChildrenPos, st2)
		} else if st.edits < s.c.maxErrors {
			// Completion off: longer words are reachable only by paying
			// for the missing characters.
			s.expandList(g.ChildrenPos, st)
		}
		return
	}
	s.expandList(g.ChildrenPos, st)
}

// push offers the current word buffer to the queue, applying the bigram
// context boost when the terminal group is a known successor of the
// previous word.
func (s *searcher) push(g *dictionary.NodeGroup, st searchState, score int) {
	if score <= 0 {
		return
	}
	if bf, ok := s.bigrams[g.Pos]; ok {
		score = score * (16 + int(bf)) / 16
	}
	s.q.Push(s.word[:st.wordLen], score, st.edits)
}

// splitTwoWords explores two-word interpretations: at every boundary
// whose touch point lies near the space key, the best dictionary match
// for each side is combined under the shared two-word edit budget.
// Combined results are demoted when a clean single-word match exists.
func (e *Engine) splitTwoWords(base *Correction, req Request, pool *QueuePool, hasFullMatch bool) {
	n := base.inputLen
	for b := 1; b < n; b++ {
		if req.XCoordinates[b] < 0 || req.YCoordinates[b] < 0 {
			continue
		}
		if !e.prox.HasSpaceProximity(req.XCoordinates[b], req.YCoordinates[b]) {
			continue
		}
		first, ok := e.bestSegmentWord(base, 0, b, e.opts.TwoWordsMaxErrors)
		if !ok {
			continue
		}
		second, ok := e.bestSegmentWord(base, b, n, e.opts.TwoWordsMaxErrors-first.edits)
		if !ok {
			continue
		}
		combined := (first.score + second.score) / 2
		if hasFullMatch {
			combined /= 2
		}
		if combined <= 0 {
			continue
		}
		word := make([]int32, 0, len(first.word)+1+len(second.word))
		word = append(word, first.word...)
		word = append(word, keyboard.KeycodeSpace)
		word = append(word, second.word...)
		pool.MultiWord.Push(word, combined, first.edits+second.edits)
	}
}

// bestSegmentWord runs a whole-word search over an input slice and
// returns its single best candidate.
func (e *Engine) bestSegmentWord(base *Correction, from, to, maxErrors int) (queueEntry, bool) {
	if maxErrors < 0 {
		return queueEntry{}, false
	}
	sub := base.sub(from, to, maxErrors)
	q := NewQueue(1)
	s := &searcher{
		e:    e,
		c:    sub,
		q:    q,
		word: make([]int32, e.opts.MaxWordLength),
	}
	s.expandList(0, searchState{pending: keyboard.NotACode})
	return q.peekBest()
}

// mergeByScore interleaves two score-descending lists, keeping the first
// occurrence of duplicate words.
func mergeByScore(a, b []Suggestion) []Suggestion {
	out := make([]Suggestion, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next Suggestion
		if j >= len(b) || (i < len(a) && a[i].Frequency >= b[j].Frequency) {
			next = a[i]
			i++
		} else {
			next = b[j]
			j++
		}
		if seen[next.Word] {
			continue
		}
		seen[next.Word] = true
		out = append(out, next)
	}
	return out
}

// OutputArrays converts suggestions to the parallel-array form: one
// fixed-width code row per word plus its frequency, for hosts that
// consume flat buffers.
func OutputArrays(sugs []Suggestion, maxWordLength int) ([][]int32, []int) {
	words := make([][]int32, len(sugs))
	freqs := make([]int, len(sugs))
	for i, s := range sugs {
		row := make([]int32, maxWordLength)
		for k := range row {
			row[k] = keyboard.NotACode
		}
		for k, r := range []rune(s.Word) {
			if k >= maxWordLength {
				break
			}
			row[k] = int32(r)
		}
		words[i] = row
		freqs[i] = s.Frequency
	}
	return words, freqs
}
