// Implements the dispatch queue: all admitted, undispatched requests held
// in a strict total order so the most urgent request is always served first.

package dispatch

import (
	"container/heap"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Entry binds a Request to the score it was admitted with and the key the
// queue orders by.
type Entry struct {
	Score     float64   // Urgency at admission time (higher pops first)
	Submitted time.Time // Tie-break: earlier submissions pop first
	Sequence  uint64    // Tie-break of last resort: admission order
	Request   Request
}

// less is the single ordering rule for the queue: score descending, then
// submission time ascending, then insertion sequence ascending. Sequence
// numbers are unique, so no two entries ever compare equal.
func less(a, b *Entry) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if !a.Submitted.Equal(b.Submitted) {
		return a.Submitted.Before(b.Submitted)
	}
	return a.Sequence < b.Sequence
}

// entryHeap implements heap.Interface over queue entries with the
// deterministic composite ordering above.
type entryHeap []*Entry

func (h entryHeap) Len() int           { return len(h) }
func (h entryHeap) Less(i, j int) bool { return less(h[i], h[j]) }
func (h entryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *entryHeap) Push(x any) {
	*h = append(*h, x.(*Entry))
}

func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Queue holds admitted requests in priority order. All mutations are
// serialized by a single mutex; sequence numbers are strictly increasing
// across the queue's lifetime and are never reused.
type Queue struct {
	mu     sync.Mutex
	heap   entryHeap
	seq    uint64
	scorer Scorer
	audit  AuditSink
	now    func() time.Time
}

// Option configures a Queue.
type Option func(*Queue)

// WithClock overrides the queue's wall clock. The simulator injects its
// virtual clock here so admission scores are computed at simulated time.
func WithClock(now func() time.Time) Option {
	return func(q *Queue) { q.now = now }
}

// WithAuditSink sets the destination for ENQUEUE/POP audit lines.
func WithAuditSink(sink AuditSink) Option {
	return func(q *Queue) { q.audit = sink }
}

// WithScorer overrides the scoring rule. Defaults to UrgencyScorer.
func WithScorer(s Scorer) Option {
	return func(q *Queue) { q.scorer = s }
}

// NewQueue creates an empty queue with the default urgency scorer, the
// system clock, and no audit output unless configured otherwise.
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		heap:   make(entryHeap, 0),
		scorer: UrgencyScorer{},
		audit:  NopSink{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(q)
	}
	heap.Init(&q.heap)
	return q
}

// Add admits a request at the current clock time, returning the computed
// score. The request's timestamps must already be normalized (NewRequest).
func (q *Queue) Add(req Request) float64 {
	return q.AddAt(req, q.now())
}

// AddAt admits a request scored at an explicit reference time. now must be
// timezone-normalized.
func (q *Queue) AddAt(req Request, now time.Time) float64 {
	q.mu.Lock()
	defer q.mu.Unlock()

	score := q.scorer.Score(req, now)
	entry := &Entry{
		Score:     score,
		Submitted: req.Submitted,
		Sequence:  q.seq,
		Request:   req,
	}
	q.seq++
	heap.Push(&q.heap, entry)

	q.auditLine("ENQUEUE", entry)
	return score
}

// Peek returns the top entry without removing it. ok is false when the
// queue is empty.
func (q *Queue) Peek() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return Entry{}, false
	}
	return *q.heap[0], true
}

// Pop removes and returns the top entry. An empty queue is signaled with
// ok=false, never an error; repeated pops on an empty queue are harmless.
func (q *Queue) Pop() (Entry, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.heap) == 0 {
		return Entry{}, false
	}
	entry := heap.Pop(&q.heap).(*Entry)
	q.auditLine("POP", entry)
	return *entry, true
}

// Snapshot returns a consistent point-in-time copy of all entries, highest
// score first — exactly the order repeated Pop calls would produce.
func (q *Queue) Snapshot() []Entry {
	q.mu.Lock()
	entries := make([]Entry, len(q.heap))
	for i, e := range q.heap {
		entries[i] = *e
	}
	q.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		return less(&entries[i], &entries[j])
	})
	return entries
}

// Len returns the current number of queued entries.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.heap)
}

// auditLine emits one stable-format line per queue event. Called with
// q.mu held.
func (q *Queue) auditLine(kind string, e *Entry) {
	dest := e.Request.Destination
	if dest == "" {
		dest = "-"
	}
	line := fmt.Sprintf("%s id=%s type=%s priority=%g ts=%s dest=%s",
		kind, e.Request.ID, e.Request.Category, e.Score,
		e.Request.Submitted.Format(time.RFC3339), dest)
	if err := q.audit.Append(line); err != nil {
		// Audit is write-only observability; a failing sink must not
		// block dispatch.
		auditDropped(err)
	}
}
