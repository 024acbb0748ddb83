package pipeline

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// Ranking keeps evaluation results ordered by F1 score, best first. The
// sort compares raw (unrounded) scores; ties keep insertion order.
// Recording a result for an already-ranked key replaces the old bundle.
type Ranking struct {
	mu      sync.Mutex
	results []*Result
}

// NewRanking creates an empty Ranking.
func NewRanking() *Ranking {
	return &Ranking{}
}

// Record inserts or replaces the result for its model key and re-sorts.
func (r *Ranking) Record(result *Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results = lo.Reject(r.results, func(existing *Result, _ int) bool {
		return existing.ModelKey == result.ModelKey
	})
	r.results = append(r.results, result)

	sort.SliceStable(r.results, func(i, j int) bool {
		return r.results[i].Metrics.F1 > r.results[j].Metrics.F1
	})
}

// Best returns the top-ranked result, or nil when nothing is recorded.
func (r *Ranking) Best() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.results) == 0 {
		return nil
	}
	return r.results[0]
}

// All returns the ranked results, best first. The slice is a copy; callers
// may reorder it freely.
func (r *Ranking) All() []*Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Result, len(r.results))
	copy(out, r.results)
	return out
}

// Len returns the number of ranked results.
func (r *Ranking) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}
