// Package rerank implements reciprocal-rank-fusion and MMR reranking
// over traversal result sets, plus group-by/aggregate-by grouping
// (spec §4.8, §4.10).
package rerank

import (
	"sort"

	"github.com/helixdb/helix-core/pkg/ids"
)

// DefaultRRFK is the spec's default k constant for RRF.
const DefaultRRFK = 60

// RRFScored is one fused result from RRF.
type RRFScored struct {
	ID    ids.ID
	Score float64
}

// RRF fuses multiple input rankings (each a list of ids in rank order,
// rank 0 first) by Σ 1/(k + rank) across every ranking an id appears in,
// generalized from two rankings to N (spec §4.8). k defaults to 60 when
// <= 0.
func RRF(rankings [][]ids.ID, k int) []RRFScored {
	if k <= 0 {
		k = DefaultRRFK
	}
	scores := make(map[ids.ID]float64)
	order := make([]ids.ID, 0)
	for _, ranking := range rankings {
		for rank, id := range ranking {
			if _, seen := scores[id]; !seen {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(k+rank)
		}
	}
	out := make([]RRFScored, 0, len(order))
	for _, id := range order {
		out = append(out, RRFScored{ID: id, Score: scores[id]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID.Less(out[j].ID)
	})
	return out
}
