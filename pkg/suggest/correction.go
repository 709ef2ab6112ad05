package suggest

import (
	"github.com/softkb/tapserve/pkg/keyboard"
)

// Match classification for one trie character against one input position.
const (
	matchExact = iota
	// matchProximity admits a grid neighbor of the touch point, no edit
	// charged but no typed-letter boost either.
	matchProximity
	// matchAdditional admits a locale confusable, charged as a
	// substitution.
	matchAdditional
	matchNone
)

// Correction is the per-request search state: the proximity-resolved
// candidate lists for every input position, the edit budget, and the
// scoring parameters. One instance serves exactly one request and is
// never shared.
type Correction struct {
	// candidates holds one fixed-width code list per input position,
	// primary code first, NotACode padded, with the additional-proximity
	// delimiter separating grid neighbors from confusables.
	candidates [][]int32
	inputLen   int

	maxErrors           int
	useFullEditDistance bool

	typedLetterMultiplier int
	fullWordMultiplier    int
}

// newCorrection wraps prepared candidate lists.
func newCorrection(candidates [][]int32, maxErrors int, useFullEditDistance bool, typedMult, fullMult int) *Correction {
	return &Correction{
		candidates:            candidates,
		inputLen:              len(candidates),
		maxErrors:             maxErrors,
		useFullEditDistance:   useFullEditDistance,
		typedLetterMultiplier: typedMult,
		fullWordMultiplier:    fullMult,
	}
}

// sub returns a Correction over a slice of the input positions, used by
// the multi-word split search.
func (c *Correction) sub(from, to, maxErrors int) *Correction {
	return &Correction{
		candidates:            c.candidates[from:to],
		inputLen:              to - from,
		maxErrors:             maxErrors,
		useFullEditDistance:   c.useFullEditDistance,
		typedLetterMultiplier: c.typedLetterMultiplier,
		fullWordMultiplier:    c.fullWordMultiplier,
	}
}

// primary returns the primary (typed) code at an input position.
func (c *Correction) primary(i int) int32 {
	return c.candidates[i][0]
}

// primaryMatches reports whether code matches the primary at position i
// after base lowercase folding.
func (c *Correction) primaryMatches(i int, code int32) bool {
	return keyboard.BaseLowerCode(c.primary(i)) == keyboard.BaseLowerCode(code)
}

// classify matches a trie character against the candidate list at input
// position i: exact primary hit, grid-proximity hit, additional
// confusable hit, or no match. Comparison folds both sides to base
// lowercase so accented dictionary characters match their base key.
func (c *Correction) classify(i int, code int32) int {
	folded := keyboard.BaseLowerCode(code)
	list := c.candidates[i]
	afterDelimiter := false
	for k, cand := range list {
		if cand == keyboard.NotACode {
			break
		}
		if cand == keyboard.AdditionalProximityCharDelimiter {
			afterDelimiter = true
			continue
		}
		if keyboard.BaseLowerCode(cand) == folded {
			switch {
			case k == 0:
				return matchExact
			case afterDelimiter:
				return matchAdditional
			default:
				return matchProximity
			}
		}
	}
	return matchNone
}

// score turns a terminal hit into a ranking score. Every exact character
// match multiplies the stored frequency by the typed-letter multiplier;
// a perfect whole-word match (all input consumed, no edits, every
// character exact) earns the full-word multiplier on top. Corrections
// demote the result: halved per edit by default, or proportionally to the
// edit distance over the longer length when full-edit-distance scoring is
// on. Prefix completions are demoted by the typed share of the word.
func (c *Correction) score(freq, exactMatches, edits, wordLen int, completion bool) int {
	score := freq
	for i := 0; i < exactMatches; i++ {
		score *= c.typedLetterMultiplier
	}
	if !completion && edits == 0 && exactMatches == c.inputLen && wordLen == c.inputLen {
		score *= c.fullWordMultiplier
	}
	if edits > 0 {
		if c.useFullEditDistance {
			maxLen := max(wordLen, c.inputLen)
			if edits >= maxLen {
				return 0
			}
			score = score * (maxLen - edits) / maxLen
		} else {
			score >>= uint(edits)
		}
	}
	if completion && wordLen > 0 {
		score = score * c.inputLen / wordLen
	}
	return score
}
