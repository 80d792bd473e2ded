package dispatch

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func newTestQueue(now time.Time, sink AuditSink) *Queue {
	opts := []Option{WithClock(func() time.Time { return now })}
	if sink != nil {
		opts = append(opts, WithAuditSink(sink))
	}
	return NewQueue(opts...)
}

func TestQueue_PopsHighestScoreFirst(t *testing.T) {
	// GIVEN a low-priority and a high-priority request at the same timestamp
	now := fixedNow()
	q := newTestQueue(now, nil)

	distance := 20.0
	q.Add(Request{ID: "LOW", Category: CategoryBlanket, Quantity: 1, Submitted: now, DistanceKM: &distance})
	q.Add(Request{ID: "HIGH", Category: CategoryMedicalKit, Quantity: 1, Submitted: now, DistanceKM: &distance})

	// WHEN the queue is popped
	top, ok := q.Pop()

	// THEN the medical kit comes out first
	if !ok {
		t.Fatal("Pop on non-empty queue returned ok=false")
	}
	if top.Request.ID != "HIGH" {
		t.Errorf("Pop: got %s, want HIGH", top.Request.ID)
	}
}

func TestQueue_DrainOrderIsTotal(t *testing.T) {
	// GIVEN a mix of categories, ages, and distances
	now := fixedNow()
	q := newTestQueue(now, nil)

	near := 3.0
	mid := 12.0
	expirySoon := now.Add(24 * time.Hour)

	q.Add(Request{ID: "food", Category: CategoryFood, Quantity: 1, Submitted: now})
	q.Add(Request{ID: "water-old", Category: CategoryWater, Quantity: 1, Submitted: now.Add(-3 * time.Hour)})
	q.Add(Request{ID: "med", Category: CategoryMedicalKit, Quantity: 1, Submitted: now, Expiry: &expirySoon})
	q.Add(Request{ID: "tarp-near", Category: CategoryTarpaulin, Quantity: 1, Submitted: now, DistanceKM: &near})
	q.Add(Request{ID: "blanket", Category: CategoryBlanket, Quantity: 1, Submitted: now, DistanceKM: &mid})

	// WHEN popped until empty
	var prev *Entry
	for {
		e, ok := q.Pop()
		if !ok {
			break
		}
		// THEN scores never increase
		if prev != nil && e.Score > prev.Score {
			t.Errorf("pop order violated: %s (%v) after %s (%v)",
				e.Request.ID, e.Score, prev.Request.ID, prev.Score)
		}
		entry := e
		prev = &entry
	}
	if q.Len() != 0 {
		t.Errorf("queue not drained: %d left", q.Len())
	}
}

func TestQueue_TieBrokenBySubmissionTime(t *testing.T) {
	// GIVEN two requests with equal scores but different submission times
	// (both waited under an hour, so wait bonus is identical)
	now := fixedNow()
	q := newTestQueue(now, nil)

	q.Add(Request{ID: "later", Category: CategoryWater, Quantity: 1, Submitted: now.Add(-10 * time.Minute)})
	q.Add(Request{ID: "earlier", Category: CategoryWater, Quantity: 1, Submitted: now.Add(-30 * time.Minute)})

	first, _ := q.Pop()
	second, _ := q.Pop()
	if first.Score != second.Score {
		t.Fatalf("test setup broken: scores differ (%v vs %v)", first.Score, second.Score)
	}
	if first.Request.ID != "earlier" {
		t.Errorf("tie not broken by submission time: got %s first", first.Request.ID)
	}
}

func TestQueue_TieBrokenByInsertionSequence(t *testing.T) {
	// GIVEN identical requests (same score, same submission time)
	now := fixedNow()
	q := newTestQueue(now, nil)

	for i := 0; i < 5; i++ {
		q.Add(Request{ID: fmt.Sprintf("r%d", i), Category: CategoryFood, Quantity: 1, Submitted: now})
	}

	// THEN pop order is insertion order
	for i := 0; i < 5; i++ {
		e, ok := q.Pop()
		if !ok {
			t.Fatalf("queue empty after %d pops, want 5", i)
		}
		if want := fmt.Sprintf("r%d", i); e.Request.ID != want {
			t.Errorf("pop %d: got %s, want %s", i, e.Request.ID, want)
		}
	}
}

func TestQueue_SnapshotMatchesPopOrder(t *testing.T) {
	now := fixedNow()
	q := newTestQueue(now, nil)

	categories := []string{
		CategoryBlanket, CategoryMedicalKit, CategoryFood,
		CategoryWater, CategoryTarpaulin, "Mystery Box",
	}
	for i, c := range categories {
		q.Add(Request{ID: fmt.Sprintf("r%d", i), Category: c, Quantity: 1, Submitted: now})
	}

	snapshot := q.Snapshot()
	if len(snapshot) != len(categories) {
		t.Fatalf("snapshot size: got %d, want %d", len(snapshot), len(categories))
	}
	// Snapshot must not mutate the queue
	if q.Len() != len(categories) {
		t.Fatalf("snapshot mutated queue: len=%d", q.Len())
	}

	for i := range snapshot {
		popped, ok := q.Pop()
		if !ok {
			t.Fatalf("queue empty at pop %d", i)
		}
		if popped.Request.ID != snapshot[i].Request.ID {
			t.Errorf("pop %d: snapshot has %s, pop produced %s",
				i, snapshot[i].Request.ID, popped.Request.ID)
		}
	}
}

func TestQueue_EmptyPopIsIdempotent(t *testing.T) {
	q := newTestQueue(fixedNow(), nil)

	for i := 0; i < 3; i++ {
		if _, ok := q.Pop(); ok {
			t.Errorf("Pop on empty queue returned ok=true")
		}
	}
	if _, ok := q.Peek(); ok {
		t.Errorf("Peek on empty queue returned ok=true")
	}
	if q.Len() != 0 {
		t.Errorf("empty pops changed queue length: %d", q.Len())
	}
}

func TestQueue_PeekDoesNotRemove(t *testing.T) {
	now := fixedNow()
	q := newTestQueue(now, nil)
	q.Add(Request{ID: "only", Category: CategoryWater, Quantity: 1, Submitted: now})

	peeked, ok := q.Peek()
	if !ok || peeked.Request.ID != "only" {
		t.Fatalf("Peek: got (%v, %v)", peeked.Request.ID, ok)
	}
	if q.Len() != 1 {
		t.Errorf("Peek removed the entry")
	}
}

func TestQueue_AddReturnsComputedScore(t *testing.T) {
	now := fixedNow()
	q := newTestQueue(now, nil)

	distance := 3.0
	expiry := now.Add(24 * time.Hour)
	score := q.Add(Request{
		ID: "M1", Category: CategoryMedicalKit, Quantity: 1,
		Submitted: now.Add(-5 * time.Hour), Expiry: &expiry, DistanceKM: &distance,
	})
	if score != 17.5 {
		t.Errorf("Add returned %v, want 17.5", score)
	}
}

func TestQueue_SequenceNumbersNeverReused(t *testing.T) {
	// Sequence numbers keep increasing across pops
	now := fixedNow()
	q := newTestQueue(now, nil)

	q.Add(Request{ID: "a", Category: CategoryFood, Quantity: 1, Submitted: now})
	first, _ := q.Pop()
	q.Add(Request{ID: "b", Category: CategoryFood, Quantity: 1, Submitted: now})
	second, _ := q.Pop()

	if second.Sequence <= first.Sequence {
		t.Errorf("sequence reused: %d after %d", second.Sequence, first.Sequence)
	}
}

func TestQueue_AuditLines(t *testing.T) {
	// GIVEN a queue wired to a capturing sink
	now := fixedNow()
	sink := &MemorySink{}
	q := newTestQueue(now, sink)

	q.Add(Request{ID: "M1", Category: CategoryMedicalKit, Quantity: 1, Submitted: now, Destination: "Camp A"})
	q.Add(Request{ID: "F1", Category: CategoryFood, Quantity: 1, Submitted: now})
	q.Pop()

	lines := sink.Lines()
	if len(lines) != 3 {
		t.Fatalf("audit lines: got %d, want 3", len(lines))
	}

	want := "ENQUEUE id=M1 type=Medical Kit priority=10 ts=2025-01-01T12:00:00Z dest=Camp A"
	if lines[0] != want {
		t.Errorf("enqueue line:\n got %q\nwant %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[2], "POP id=M1 ") {
		t.Errorf("pop line: got %q", lines[2])
	}
	if !strings.HasSuffix(lines[1], "dest=-") {
		t.Errorf("absent destination marker missing: %q", lines[1])
	}
}
