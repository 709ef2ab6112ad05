package suggest

import (
	"testing"
)

func wordCodes(s string) []int32 {
	out := make([]int32, 0, len(s))
	for _, r := range s {
		out = append(out, int32(r))
	}
	return out
}

func TestQueueOrdering(t *testing.T) {
	q := NewQueue(8)
	q.Push(wordCodes("low"), 10, 0)
	q.Push(wordCodes("high"), 100, 0)
	q.Push(wordCodes("mid"), 50, 0)

	got := q.ExtractSorted()
	want := []string{"high", "mid", "low"}
	if len(got) != len(want) {
		t.Fatalf("got %d suggestions, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Word != w {
			t.Errorf("position %d = %q, want %q", i, got[i].Word, w)
		}
	}
}

func TestQueueCapacityEviction(t *testing.T) {
	q := NewQueue(3)
	q.Push(wordCodes("a"), 10, 0)
	q.Push(wordCodes("b"), 20, 0)
	q.Push(wordCodes("c"), 30, 0)

	// Equal to the current minimum: rejected.
	if q.Push(wordCodes("d"), 10, 0) {
		t.Error("score equal to the minimum should not be admitted when full")
	}
	// Strictly greater: evicts the minimum.
	if !q.Push(wordCodes("e"), 15, 0) {
		t.Error("score above the minimum should be admitted")
	}

	got := q.ExtractSorted()
	if len(got) != 3 {
		t.Fatalf("queue size = %d, want 3", len(got))
	}
	words := map[string]bool{}
	for _, s := range got {
		words[s.Word] = true
	}
	if words["a"] || words["d"] {
		t.Errorf("evicted or rejected entries survived: %v", got)
	}
	if !words["e"] {
		t.Errorf("admitted entry missing: %v", got)
	}
}

func TestQueueStableTieBreak(t *testing.T) {
	q := NewQueue(8)
	q.Push(wordCodes("first"), 40, 0)
	q.Push(wordCodes("second"), 40, 0)
	q.Push(wordCodes("third"), 40, 0)

	got := q.ExtractSorted()
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if got[i].Word != w {
			t.Errorf("position %d = %q, want %q (insertion order must break ties)", i, got[i].Word, w)
		}
	}
}

func TestQueueDedup(t *testing.T) {
	q := NewQueue(8)
	q.Push(wordCodes("cat"), 40, 1)
	q.Push(wordCodes("cat"), 90, 0)
	q.Push(wordCodes("cat"), 60, 2)

	got := q.ExtractSorted()
	if len(got) != 1 {
		t.Fatalf("duplicate words collapsed to %d entries, want 1", len(got))
	}
	if got[0].Frequency != 90 {
		t.Errorf("kept score = %d, want the highest (90)", got[0].Frequency)
	}
}

func TestQueueReset(t *testing.T) {
	q := NewQueue(4)
	q.Push(wordCodes("a"), 10, 0)
	q.Reset()
	if q.Len() != 0 {
		t.Fatalf("length after reset = %d", q.Len())
	}
	q.Push(wordCodes("b"), 5, 0)
	got := q.ExtractSorted()
	if len(got) != 1 || got[0].Word != "b" {
		t.Errorf("queue after reset = %v", got)
	}
}

func TestQueuePeekBest(t *testing.T) {
	q := NewQueue(4)
	if _, ok := q.peekBest(); ok {
		t.Error("peekBest on empty queue reported an entry")
	}
	q.Push(wordCodes("a"), 10, 1)
	q.Push(wordCodes("b"), 30, 0)
	best, ok := q.peekBest()
	if !ok {
		t.Fatal("peekBest found nothing")
	}
	if best.score != 30 || string(runesOf(best.word)) != "b" {
		t.Errorf("peekBest = %q/%d, want b/30", string(runesOf(best.word)), best.score)
	}
	// Peeking must not drain the queue.
	if q.Len() != 2 {
		t.Errorf("length after peek = %d, want 2", q.Len())
	}
}

func TestQueuePoolReset(t *testing.T) {
	p := NewQueuePool(4)
	p.Master.Push(wordCodes("a"), 10, 0)
	p.MultiWord.Push(wordCodes("b c"), 20, 0)
	p.Reset()
	if p.Master.Len() != 0 || p.MultiWord.Len() != 0 {
		t.Error("pool queues not empty after reset")
	}
}
