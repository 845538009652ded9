package model

// Outcome describes what a bulk operation did with a single id.
type Outcome string

const (
	OutcomeUpdated   Outcome = "updated"
	OutcomeUnchanged Outcome = "unchanged"
	OutcomeDeleted   Outcome = "deleted"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
)

// BulkItemResult is the per-id entry of a BulkResult.
type BulkItemResult struct {
	ID      int     `json:"id"`
	Outcome Outcome `json:"outcome"`
}

// BulkResult reports the outcome of a bulk status change or delete.
// Affected counts the ids that were actually mutated.
type BulkResult struct {
	Affected int              `json:"affected"`
	Results  []BulkItemResult `json:"results"`
}

// Add records the outcome for id and keeps Affected in sync.
func (r *BulkResult) Add(id int, outcome Outcome) {
	r.Results = append(r.Results, BulkItemResult{ID: id, Outcome: outcome})
	if outcome == OutcomeUpdated || outcome == OutcomeDeleted {
		r.Affected++
	}
}

// UniqueIDs drops repeated ids while keeping the first occurrence order.
func UniqueIDs(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
