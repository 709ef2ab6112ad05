package suggest

import (
	"testing"

	"github.com/softkb/tapserve/pkg/keyboard"
)

func TestClassify(t *testing.T) {
	pad := keyboard.NotACode
	c := newCorrection([][]int32{
		{'t', 'r', 'y', pad, pad},
		{'e', 'w', 'r', keyboard.AdditionalProximityCharDelimiter, 'o'},
	}, 2, false, 2, 2)

	cases := []struct {
		pos  int
		code int32
		want int
	}{
		{0, 't', matchExact},
		{0, 'T', matchExact},
		{0, 'r', matchProximity},
		{0, 'y', matchProximity},
		{0, 'o', matchNone},
		{1, 'e', matchExact},
		{1, 0xE9, matchExact}, // e-acute folds to e
		{1, 'w', matchProximity},
		{1, 'o', matchAdditional},
		{1, 'z', matchNone},
	}
	for _, tc := range cases {
		if got := c.classify(tc.pos, tc.code); got != tc.want {
			t.Errorf("classify(%d, %q) = %d, want %d", tc.pos, rune(tc.code), got, tc.want)
		}
	}
}

func TestClassifyStopsAtPadding(t *testing.T) {
	c := newCorrection([][]int32{
		{'a', keyboard.NotACode, 'b'},
	}, 2, false, 2, 2)
	// Codes after the first NotACode are dead slots.
	if got := c.classify(0, 'b'); got != matchNone {
		t.Errorf("classify past padding = %d, want matchNone", got)
	}
}

func TestScore(t *testing.T) {
	c := newCorrection(make([][]int32, 3), 2, false, 2, 2)

	cases := []struct {
		freq, exact, edits, wordLen int
		completion                  bool
		want                        int
		description                 string
	}{
		{10, 3, 0, 3, false, 160, "perfect whole word doubles twice per letter and once whole"},
		{10, 2, 0, 3, false, 40, "proximity letter forfeits the whole-word bonus"},
		{10, 2, 1, 3, false, 20, "one edit halves"},
		{10, 1, 2, 3, false, 5, "two edits quarter"},
		{10, 2, 0, 4, true, 30, "completion demotes by typed share"},
		{0, 3, 0, 3, false, 0, "zero frequency stays zero"},
	}
	for _, tc := range cases {
		got := c.score(tc.freq, tc.exact, tc.edits, tc.wordLen, tc.completion)
		if got != tc.want {
			t.Errorf("%s: score = %d, want %d", tc.description, got, tc.want)
		}
	}
}

func TestScoreFullEditDistance(t *testing.T) {
	c := newCorrection(make([][]int32, 4), 2, true, 2, 2)

	// Proportional demotion over the longer of input and word length.
	if got := c.score(10, 2, 1, 4, false); got != 30 {
		t.Errorf("proportional demotion = %d, want 30 (40*3/4)", got)
	}
	// An edit count at or above the length zeroes the score.
	if got := c.score(10, 0, 4, 4, false); got != 0 {
		t.Errorf("edits >= length = %d, want 0", got)
	}
}

func TestSubCorrection(t *testing.T) {
	lists := [][]int32{{'a'}, {'b'}, {'c'}, {'d'}}
	c := newCorrection(lists, 2, false, 2, 2)
	s := c.sub(1, 3, 1)
	if s.inputLen != 2 {
		t.Fatalf("sub inputLen = %d, want 2", s.inputLen)
	}
	if s.maxErrors != 1 {
		t.Fatalf("sub maxErrors = %d, want 1", s.maxErrors)
	}
	if s.primary(0) != 'b' || s.primary(1) != 'c' {
		t.Errorf("sub primaries = %q %q, want b c", rune(s.primary(0)), rune(s.primary(1)))
	}
}

func TestDigraphsForLocale(t *testing.T) {
	if got := digraphsForLocale("en"); got != nil {
		t.Errorf("en digraphs = %v, want none", got)
	}
	if got := digraphsForLocale("de"); len(got) != 3 {
		t.Errorf("de digraph count = %d, want 3", len(got))
	}
	if got := digraphsForLocale("fr"); len(got) != 2 {
		t.Errorf("fr digraph count = %d, want 2", len(got))
	}
}

func TestExpandDigraphs(t *testing.T) {
	codes := wordCodes("baer")
	xs := []int{1, 2, 3, 4}
	ys := []int{5, 6, 7, 8}

	var variants []inputVariant
	expandDigraphs(codes, xs, ys, germanUmlautDigraphs, func(v inputVariant) {
		variants = append(variants, v)
	})
	if len(variants) != 2 {
		t.Fatalf("variant count = %d, want 2", len(variants))
	}

	var literal, collapsed *inputVariant
	for i := range variants {
		if len(variants[i].codes) == 4 {
			literal = &variants[i]
		} else {
			collapsed = &variants[i]
		}
	}
	if literal == nil || collapsed == nil {
		t.Fatalf("missing literal or collapsed variant: %v", variants)
	}
	if string(runesOf(literal.codes)) != "baer" {
		t.Errorf("literal variant = %q", string(runesOf(literal.codes)))
	}
	if string(runesOf(collapsed.codes)) != "bär" {
		t.Errorf("collapsed variant = %q", string(runesOf(collapsed.codes)))
	}
	// The composed position carries no touch point.
	if collapsed.xs[1] != -1 || collapsed.ys[1] != -1 {
		t.Errorf("collapsed position coords = (%d, %d), want (-1, -1)", collapsed.xs[1], collapsed.ys[1])
	}
	if collapsed.xs[0] != 1 || collapsed.xs[2] != 4 {
		t.Errorf("surrounding coords shifted: %v", collapsed.xs)
	}
}

func TestExpandDigraphsNoPairs(t *testing.T) {
	codes := wordCodes("cat")
	xs := []int{1, 2, 3}
	ys := []int{1, 2, 3}
	count := 0
	expandDigraphs(codes, xs, ys, germanUmlautDigraphs, func(v inputVariant) {
		count++
		if string(runesOf(v.codes)) != "cat" {
			t.Errorf("unexpected variant %q", string(runesOf(v.codes)))
		}
	})
	if count != 1 {
		t.Errorf("variant count = %d, want 1", count)
	}
}
