package trace

import (
	"sync"

	"github.com/matzehuels/knapsack/pkg/knapsack"
)

// DefaultLimit is the number of visits a Recorder keeps when no limit is given.
const DefaultLimit = 5000

// Recorder collects search tree visits. Once Limit visits are stored further
// events are counted but dropped. A Recorder is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	visits  []knapsack.Visit
	dropped int
}

// NewRecorder returns a Recorder that keeps at most limit visits.
// A limit of zero or less selects DefaultLimit.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Recorder{limit: limit}
}

// Record stores v. It has the signature expected by BranchAndBound.Trace.
func (r *Recorder) Record(v knapsack.Visit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.visits) >= r.limit {
		r.dropped++
		return
	}
	r.visits = append(r.visits, v)
}

// Visits returns a copy of the recorded visits in emission order.
func (r *Recorder) Visits() []knapsack.Visit {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]knapsack.Visit, len(r.visits))
	copy(out, r.visits)
	return out
}

// Dropped returns how many visits arrived after the limit was reached.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Reset clears the recording so the Recorder can be reused.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visits = r.visits[:0]
	r.dropped = 0
}
