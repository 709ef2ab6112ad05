package suggest

// Queue is a fixed-capacity collector for the best-scoring candidate
// words. It never exceeds its capacity: once full, a new word is admitted
// only when it scores strictly higher than the current minimum, which it
// evicts. Equal scores rank by insertion order, first in first out, and a
// word already present keeps whichever score is higher.
//
// The backing array is allocated once; pushes never allocate beyond the
// per-entry word copy.
type Queue struct {
	items []queueEntry
	size  int
	seq   int
}

type queueEntry struct {
	word  []int32
	score int
	edits int
	seq   int
}

// NewQueue returns a queue holding at most capacity entries.
func NewQueue(capacity int) *Queue {
	return &Queue{items: make([]queueEntry, capacity)}
}

// Len reports how many entries the queue currently holds.
func (q *Queue) Len() int { return q.size }

// Reset empties the queue for reuse between requests.
func (q *Queue) Reset() {
	q.size = 0
	q.seq = 0
}

// Push offers a word; it reports whether the queue admitted it. The word
// slice is copied.
func (q *Queue) Push(word []int32, score, edits int) bool {
	for i := 0; i < q.size; i++ {
		if codesEqual(q.items[i].word, word) {
			if score <= q.items[i].score {
				return false
			}
			q.items[i].score = score
			q.items[i].edits = edits
			q.siftDown(q.siftUp(i))
			return true
		}
	}

	if q.size < len(q.items) {
		q.items[q.size] = queueEntry{word: append([]int32(nil), word...), score: score, edits: edits, seq: q.seq}
		q.seq++
		q.siftUp(q.size)
		q.size++
		return true
	}
	if q.size == 0 || score <= q.items[0].score {
		return false
	}
	q.items[0] = queueEntry{word: append([]int32(nil), word...), score: score, edits: edits, seq: q.seq}
	q.seq++
	q.siftDown(0)
	return true
}

// weaker orders the min-heap: lowest score at the root; among equal
// scores the latest insertion is weakest, keeping ranking stable.
func weaker(a, b queueEntry) bool {
	if a.score != b.score {
		return a.score < b.score
	}
	return a.seq > b.seq
}

func (q *Queue) siftUp(i int) int {
	for i > 0 {
		parent := (i - 1) / 2
		if !weaker(q.items[i], q.items[parent]) {
			break
		}
		q.items[i], q.items[parent] = q.items[parent], q.items[i]
		i = parent
	}
	return i
}

func (q *Queue) siftDown(i int) {
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < q.size && weaker(q.items[l], q.items[smallest]) {
			smallest = l
		}
		if r < q.size && weaker(q.items[r], q.items[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		q.items[i], q.items[smallest] = q.items[smallest], q.items[i]
		i = smallest
	}
}

// ExtractSorted drains the queue into suggestions ordered by score
// descending, insertion order among equal scores.
func (q *Queue) ExtractSorted() []Suggestion {
	out := make([]Suggestion, q.size)
	for i := q.size - 1; i >= 0; i-- {
		e := q.items[0]
		q.size--
		if q.size > 0 {
			q.items[0] = q.items[q.size]
			q.siftDown(0)
		}
		out[i] = Suggestion{Word: string(runesOf(e.word)), Frequency: e.score}
	}
	q.size = 0
	q.seq = 0
	return out
}

// peekBest returns the strongest entry without draining, used by the
// split-word search to read back a sub-queue result.
func (q *Queue) peekBest() (queueEntry, bool) {
	if q.size == 0 {
		return queueEntry{}, false
	}
	best := q.items[0]
	for i := 1; i < q.size; i++ {
		if weaker(best, q.items[i]) {
			best = q.items[i]
		}
	}
	return best, true
}

// QueuePool groups the per-request queues: the master queue for
// single-word candidates and the multi-word queue for split suggestions.
// One pool serves exactly one in-flight request.
type QueuePool struct {
	Master    *Queue
	MultiWord *Queue
}

// NewQueuePool allocates both queues at the given capacity.
func NewQueuePool(capacity int) *QueuePool {
	return &QueuePool{
		Master:    NewQueue(capacity),
		MultiWord: NewQueue(capacity),
	}
}

// Reset empties both queues for reuse.
func (p *QueuePool) Reset() {
	p.Master.Reset()
	p.MultiWord.Reset()
}

func codesEqual(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func runesOf(codes []int32) []rune {
	r := make([]rune, len(codes))
	for i, c := range codes {
		r[i] = rune(c)
	}
	return r
}
