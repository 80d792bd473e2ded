// Discrete-event simulation of a single dispatch server, used to compare
// the priority discipline against a FIFO baseline on identical workloads.
// The simulator is single-threaded and purely sequential: given a seed it
// is a closed-form deterministic replay, with no I/O inside the loop.

package sim

import (
	"math"
	"math/rand"
	"time"

	"github.com/vishnu190806/emergency-supply-chain-management-system/dispatch"
)

// Discipline selects the queuing policy under simulation.
type Discipline string

const (
	DisciplinePriority Discipline = "priority"
	DisciplineFIFO     Discipline = "fifo"
)

// Record captures one completed service: who was served, when they entered
// the backlog, when they were dispatched to the server, and the urgency
// score they were admitted with. Times are seconds since simulation start.
type Record struct {
	ID           string
	Category     string
	EnqueueTime  float64
	DispatchTime float64
	Wait         float64
	Score        float64
}

// Result is the outcome of one simulation run.
type Result struct {
	Discipline Discipline
	Records    []Record
	Metrics    RunMetrics
}

// job is a backlog item handed to the server.
type job struct {
	enqueueTime float64
	score       float64
	req         dispatch.Request
}

// backlog is the discipline-specific waiting pool.
type backlog interface {
	add(a Arrival)
	pop() (job, bool)
}

// priorityBacklog runs arrivals through a real dispatch.Queue so the
// simulated discipline is exactly the production ordering. Scores are
// computed at each request's actual arrival time; the audit sink is a nop.
type priorityBacklog struct {
	q      *dispatch.Queue
	anchor time.Time
}

func newPriorityBacklog(anchor time.Time) *priorityBacklog {
	return &priorityBacklog{q: dispatch.NewQueue(), anchor: anchor}
}

func (b *priorityBacklog) add(a Arrival) {
	b.q.AddAt(a.Request, b.anchor.Add(secondsToDuration(a.Time)))
}

func (b *priorityBacklog) pop() (job, bool) {
	entry, ok := b.q.Pop()
	if !ok {
		return job{}, false
	}
	return job{
		enqueueTime: entry.Request.Submitted.Sub(b.anchor).Seconds(),
		score:       entry.Score,
		req:         entry.Request,
	}, true
}

// fifoBacklog serves strictly in arrival order. The score is still computed
// (at enqueue time) so records stay comparable across disciplines.
type fifoBacklog struct {
	items  []Arrival
	scorer dispatch.Scorer
	anchor time.Time
}

func newFIFOBacklog(anchor time.Time) *fifoBacklog {
	return &fifoBacklog{scorer: dispatch.UrgencyScorer{}, anchor: anchor}
}

func (b *fifoBacklog) add(a Arrival) {
	b.items = append(b.items, a)
}

func (b *fifoBacklog) pop() (job, bool) {
	if len(b.items) == 0 {
		return job{}, false
	}
	a := b.items[0]
	b.items = b.items[1:]
	score := b.scorer.Score(a.Request, b.anchor.Add(secondsToDuration(a.Time)))
	return job{enqueueTime: a.Time, score: score, req: a.Request}, true
}

// serviceStream yields service durations from a pre-generated, seeded
// exponential stream (mean 1/rate). If the pre-generated values run out the
// stream falls back to drawing a fresh value from the same generator rather
// than aborting the run.
type serviceStream struct {
	times []float64
	next  int
	rate  float64
	rng   *rand.Rand
}

func newServiceStream(n int, rate float64, rng *rand.Rand) *serviceStream {
	times := make([]float64, n)
	for i := range times {
		times[i] = rng.ExpFloat64() / rate
	}
	return &serviceStream{times: times, rate: rate, rng: rng}
}

func (s *serviceStream) Next() float64 {
	if s.next < len(s.times) {
		v := s.times[s.next]
		s.next++
		return v
	}
	return s.rng.ExpFloat64() / s.rate
}

// arrivalSlack absorbs floating-point jitter when collecting arrivals that
// land at the current event time.
const arrivalSlack = 1e-12

// Simulate drives a single server over the given arrival sequence under the
// chosen discipline. serviceRate is mu, in services per second. The service
// stream is derived from key's service subsystem, so two runs with the same
// key consume identical streams regardless of discipline — the fairness
// contract that makes discipline comparisons meaningful.
func Simulate(arrivals []Arrival, serviceRate float64, d Discipline, key SimulationKey, anchor time.Time) Result {
	anchor = anchor.UTC()

	streamLen := 1000
	if n := len(arrivals) * 3; n > streamLen {
		streamLen = n
	}
	stream := newServiceStream(streamLen, serviceRate, NewPartitionedRNG(key).ForSubsystem(SubsystemService))

	var pool backlog
	switch d {
	case DisciplineFIFO:
		pool = newFIFOBacklog(anchor)
	default:
		pool = newPriorityBacklog(anchor)
	}

	var (
		now          float64
		nextIdx      int
		serverBusy   bool
		busyUntil    float64
		current      job
		serviceStart float64
		records      []Record
	)

	for {
		nextArrival := math.Inf(1)
		if nextIdx < len(arrivals) {
			nextArrival = arrivals[nextIdx].Time
		}
		nextCompletion := math.Inf(1)
		if serverBusy {
			nextCompletion = busyUntil
		}

		next := math.Min(nextArrival, nextCompletion)
		if math.IsInf(next, 1) {
			break
		}
		now = next

		// Absorb every arrival at or before the current event time.
		for nextIdx < len(arrivals) && arrivals[nextIdx].Time <= now+arrivalSlack {
			pool.add(arrivals[nextIdx])
			nextIdx++
		}

		if !serverBusy {
			j, ok := pool.pop()
			if !ok {
				if math.IsInf(nextArrival, 1) {
					break
				}
				continue
			}
			current = j
			serviceStart = now
			serverBusy = true
			busyUntil = now + stream.Next()
		} else if now >= busyUntil-arrivalSlack {
			// Service completion: close out the job and free the server.
			records = append(records, Record{
				ID:           current.req.ID,
				Category:     current.req.Category,
				EnqueueTime:  current.enqueueTime,
				DispatchTime: serviceStart,
				Wait:         math.Max(0, serviceStart-current.enqueueTime),
				Score:        current.score,
			})
			serverBusy = false
			busyUntil = 0
		}
	}

	return Result{
		Discipline: d,
		Records:    records,
		Metrics:    Summarize(records),
	}
}
