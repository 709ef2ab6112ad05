package suggest

import (
	"sync"
	"testing"
)

func TestUserDictAddRemove(t *testing.T) {
	u := NewUserDict()
	if u.Size() != 0 {
		t.Fatalf("new dict size = %d", u.Size())
	}

	u.AddWord("hello", 100)
	u.AddWord("Hello", 150) // same word after folding
	if u.Size() != 1 {
		t.Fatalf("size after case-folded re-add = %d, want 1", u.Size())
	}

	u.AddWord("", 10)
	if u.Size() != 1 {
		t.Fatal("empty word must be ignored")
	}

	u.RemoveWord("HELLO")
	if u.Size() != 0 {
		t.Fatalf("size after remove = %d, want 0", u.Size())
	}
	// Removing an absent word is a no-op.
	u.RemoveWord("ghost")
}

func TestUserDictFrequencyClamp(t *testing.T) {
	u := NewUserDict()
	u.AddWord("big", 9000)
	u.AddWord("small", -5)

	c := newCorrection([][]int32{{'b'}, {'i'}, {'g'}}, 2, false, 2, 2)
	q := NewQueue(4)
	u.mergeInto(c, q)
	got := q.ExtractSorted()
	if len(got) != 1 || got[0].Word != "big" {
		t.Fatalf("merge result = %v", got)
	}
	// 255 * 2^3 * 2, an exact whole-word match at the clamped ceiling.
	if got[0].Frequency != 4080 {
		t.Errorf("clamped score = %d, want 4080", got[0].Frequency)
	}
}

func TestUserDictConcurrentAccess(t *testing.T) {
	u := NewUserDict()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				u.AddWord("word", n*100+j)
				u.Size()
			}
		}(i)
	}
	wg.Wait()
	if u.Size() != 1 {
		t.Fatalf("size after concurrent adds = %d, want 1", u.Size())
	}
}
