package dictionary

import (
	"errors"
	"testing"
)

func codes(s string) []int32 {
	out := make([]int32, 0, len(s))
	for _, r := range s {
		out = append(out, int32(r))
	}
	return out
}

func buildTestBlob(t *testing.T, words map[string]int) *Blob {
	t.Helper()
	bd := NewBuilder()
	for w, f := range words {
		bd.AddWord(w, f)
	}
	blob, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return blob
}

func TestBuildAndLookup(t *testing.T) {
	words := map[string]int{
		"cat":      10,
		"car":      20,
		"card":     5,
		"the":      255,
		"a":        100,
		"apple":    42,
		"applause": 7,
	}
	blob := buildTestBlob(t, words)

	for w, f := range words {
		pos, err := blob.FindWord(codes(w))
		if err != nil {
			t.Fatalf("FindWord(%q): %v", w, err)
		}
		if pos < 0 {
			t.Fatalf("FindWord(%q) not found", w)
		}
		if got := blob.GetFrequency(codes(w)); got != f {
			t.Errorf("GetFrequency(%q) = %d, want %d", w, got, f)
		}
	}

	for _, w := range []string{"ca", "cats", "dog", "appl", ""} {
		pos, err := blob.FindWord(codes(w))
		if err != nil {
			t.Fatalf("FindWord(%q): %v", w, err)
		}
		if pos != NoChildren {
			t.Errorf("FindWord(%q) = %d, want not found", w, pos)
		}
	}
}

func TestFrequencyClamping(t *testing.T) {
	blob := buildTestBlob(t, map[string]int{
		"hot":  9000,
		"cold": -3,
	})
	if got := blob.GetFrequency(codes("hot")); got != 255 {
		t.Errorf("frequency above range = %d, want 255", got)
	}
	if got := blob.GetFrequency(codes("cold")); got != 0 {
		t.Errorf("frequency below range = %d, want 0", got)
	}
}

func TestWideCharacters(t *testing.T) {
	// Characters outside the one-byte range use the three-byte form.
	words := map[string]int{
		"über":   30,
		"naïve":  40,
		"日本":     50,
		"ā": 60, // a-macron, just past the one-byte range
	}
	blob := buildTestBlob(t, words)
	for w, f := range words {
		if got := blob.GetFrequency(codes(w)); got != f {
			t.Errorf("GetFrequency(%q) = %d, want %d", w, got, f)
		}
	}
}

func TestLargeSiblingList(t *testing.T) {
	// More than 127 sibling groups forces the two-byte count header.
	bd := NewBuilder()
	want := map[string]int{}
	for i := 0; i < 200; i++ {
		w := string(rune(0x100+i)) + "x"
		want[w] = i%255 + 1
		bd.AddWord(w, want[w])
	}
	blob, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	count, _, err := blob.ReadGroupCount(0)
	if err != nil {
		t.Fatalf("ReadGroupCount: %v", err)
	}
	if count != 200 {
		t.Fatalf("root group count = %d, want 200", count)
	}
	for w, f := range want {
		if got := blob.GetFrequency(codes(w)); got != f {
			t.Errorf("GetFrequency(%q) = %d, want %d", w, got, f)
		}
	}
}

func TestBigramContext(t *testing.T) {
	bd := NewBuilder()
	bd.AddWord("the", 250)
	bd.AddWord("cat", 10)
	bd.AddWord("cab", 12)
	bd.AddWord("dog", 15)
	bd.AddBigram("the", "cat", 15)
	bd.AddBigram("the", "dog", 3)
	blob, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	ctx, err := blob.BigramContext(codes("the"))
	if err != nil {
		t.Fatalf("BigramContext: %v", err)
	}
	if len(ctx) != 2 {
		t.Fatalf("bigram context size = %d, want 2", len(ctx))
	}

	catPos, err := blob.FindWord(codes("cat"))
	if err != nil {
		t.Fatalf("FindWord(cat): %v", err)
	}
	dogPos, err := blob.FindWord(codes("dog"))
	if err != nil {
		t.Fatalf("FindWord(dog): %v", err)
	}
	if ctx[catPos] != 15 {
		t.Errorf("bigram freq for cat = %d, want 15", ctx[catPos])
	}
	if ctx[dogPos] != 3 {
		t.Errorf("bigram freq for dog = %d, want 3", ctx[dogPos])
	}

	// Words without bigrams yield an empty map.
	ctx, err = blob.BigramContext(codes("cab"))
	if err != nil {
		t.Fatalf("BigramContext(cab): %v", err)
	}
	if len(ctx) != 0 {
		t.Errorf("unexpected bigrams for cab: %v", ctx)
	}
}

func TestShortcutTargets(t *testing.T) {
	bd := NewBuilder()
	bd.AddWord("you", 200)
	bd.AddWord("u", 50)
	bd.AddShortcut("u", "you")
	blob, err := bd.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	targets, err := blob.ShortcutTargets(codes("u"))
	if err != nil {
		t.Fatalf("ShortcutTargets: %v", err)
	}
	if len(targets) != 1 {
		t.Fatalf("shortcut target count = %d, want 1", len(targets))
	}
	youPos, err := blob.FindWord(codes("you"))
	if err != nil {
		t.Fatalf("FindWord(you): %v", err)
	}
	if targets[0] != youPos {
		t.Errorf("shortcut target = %d, want %d", targets[0], youPos)
	}

	targets, err = blob.ShortcutTargets(codes("you"))
	if err != nil {
		t.Fatalf("ShortcutTargets(you): %v", err)
	}
	if len(targets) != 0 {
		t.Errorf("unexpected shortcuts for you: %v", targets)
	}
}

func TestDecodeGroupChain(t *testing.T) {
	blob := buildTestBlob(t, map[string]int{"cat": 10, "car": 20})

	count, pos, err := blob.ReadGroupCount(0)
	if err != nil {
		t.Fatalf("ReadGroupCount: %v", err)
	}
	if count != 1 {
		t.Fatalf("root count = %d, want 1", count)
	}

	var g NodeGroup
	if err := blob.DecodeGroup(pos, &g); err != nil {
		t.Fatalf("DecodeGroup: %v", err)
	}
	// "cat" and "car" share the chain "ca" folded into one group.
	if g.CharCount != 2 || g.Chars[0] != 'c' || g.Chars[1] != 'a' {
		t.Fatalf("root group chars = %v (%d), want [c a]", g.Chars[:g.CharCount], g.CharCount)
	}
	if g.Terminal() {
		t.Error("chain group must not be terminal")
	}
	if g.ChildrenPos == NoChildren {
		t.Fatal("chain group must have children")
	}

	childCount, childPos, err := blob.ReadGroupCount(g.ChildrenPos)
	if err != nil {
		t.Fatalf("ReadGroupCount(children): %v", err)
	}
	if childCount != 2 {
		t.Fatalf("child count = %d, want 2", childCount)
	}
	seen := map[int32]int{}
	for i := 0; i < childCount; i++ {
		var c NodeGroup
		if err := blob.DecodeGroup(childPos, &c); err != nil {
			t.Fatalf("DecodeGroup(child %d): %v", i, err)
		}
		if !c.Terminal() {
			t.Errorf("leaf group %q not terminal", rune(c.Chars[0]))
		}
		seen[c.Chars[0]] = c.Frequency
		childPos = c.NextSiblingPos
	}
	if seen['t'] != 10 || seen['r'] != 20 {
		t.Errorf("leaf frequencies = %v, want t:10 r:20", seen)
	}
}

func TestMalformedDictionary(t *testing.T) {
	// Truncated blob: the count promises a group that is not there.
	blob := NewBlob([]byte{0x01})
	var g NodeGroup
	if err := blob.DecodeGroup(1, &g); !errors.Is(err, ErrMalformedDictionary) {
		t.Errorf("DecodeGroup on truncated blob = %v, want ErrMalformedDictionary", err)
	}

	if _, err := blob.FindWord(codes("a")); !errors.Is(err, ErrMalformedDictionary) {
		t.Errorf("FindWord on truncated blob = %v, want ErrMalformedDictionary", err)
	}

	// Empty blob: even the count header is missing.
	if _, _, err := NewBlob(nil).ReadGroupCount(0); !errors.Is(err, ErrMalformedDictionary) {
		t.Errorf("ReadGroupCount on empty blob = %v, want ErrMalformedDictionary", err)
	}
}

func TestGetFrequencyMissingWord(t *testing.T) {
	blob := buildTestBlob(t, map[string]int{"cat": 10})
	if got := blob.GetFrequency(codes("dog")); got != 0 {
		t.Errorf("GetFrequency(missing) = %d, want 0", got)
	}
}
