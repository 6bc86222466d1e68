package vectorindex

import (
	"container/heap"

	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
)

// searchLayer runs best-first search on a single HNSW level starting
// from entryPoints, expanding through the graph until ef candidates have
// been exhausted, per spec §4.5. Unreachable neighbor records (shouldn't
// happen under invariants, but tolerated) are skipped rather than
// failing the whole search.
func (ix *Index) searchLayer(tx Reader, query []float64, entryPoints []ids.ID, ef, level int) ([]scored, error) {
	visited := make(map[ids.ID]bool, ef*2)
	candidates := newCandidateHeap()
	results := newResultHeap()

	for _, ep := range entryPoints {
		if visited[ep] {
			continue
		}
		visited[ep] = true
		v, err := GetVector(tx, ep, nil)
		if err != nil {
			if herrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		d := cosineDistance(query, v.Data)
		heap.Push(candidates, scored{ep, d})
		heap.Push(results, scored{ep, d})
	}

	for candidates.Len() > 0 {
		c := heap.Pop(candidates).(scored)
		if results.Len() >= ef && c.dist > (*results)[0].dist {
			break
		}
		neigh, err := ix.neighbors(tx, level, c.id)
		if err != nil {
			return nil, err
		}
		for _, nb := range neigh {
			if visited[nb] {
				continue
			}
			visited[nb] = true
			nv, err := GetVector(tx, nb, nil)
			if err != nil {
				if herrors.IsNotFound(err) {
					continue
				}
				return nil, err
			}
			nd := cosineDistance(query, nv.Data)
			if results.Len() < ef || nd < (*results)[0].dist {
				heap.Push(candidates, scored{nb, nd})
				heap.Push(results, scored{nb, nd})
				if results.Len() > ef {
					heap.Pop(results)
				}
			}
		}
	}

	out := make([]scored, len(*results))
	copy(out, *results)
	return out, nil
}

// greedyBest runs searchLayer with ef=1, returning the single closest
// vertex found — the descent step used above the target insertion/
// search level (spec §4.5 steps 3 and the search-path equivalent).
func (ix *Index) greedyBest(tx Reader, query []float64, entry ids.ID, level int) (ids.ID, error) {
	res, err := ix.searchLayer(tx, query, []ids.ID{entry}, 1, level)
	if err != nil {
		return ids.ID{}, err
	}
	if len(res) == 0 {
		return entry, nil
	}
	best := res[0]
	for _, r := range res[1:] {
		if r.dist < best.dist {
			best = r
		}
	}
	return best.id, nil
}
