package vectorindex

import "github.com/helixdb/helix-core/pkg/ids"

// selectNeighborsHeuristic implements the HNSW neighbor-selection
// heuristic (Malkov & Yashunin): sort candidates by distance to the
// query, then greedily keep a candidate only if it is closer to the
// query than to every neighbor already kept. This favors diverse
// connections over the naive "closest M" rule, which tends to cluster
// neighbors in one direction (spec §4.5 step 5).
func (ix *Index) selectNeighborsHeuristic(tx Reader, query []float64, cands []scored, m int) ([]ids.ID, error) {
	sorted := sortedAscending(cands)
	selected := make([]scored, 0, m)
	selectedData := make([][]float64, 0, m)

	for _, c := range sorted {
		if len(selected) >= m {
			break
		}
		cv, err := GetVector(tx, c.id, nil)
		if err != nil {
			continue
		}
		good := true
		for _, sd := range selectedData {
			if cosineDistance(cv.Data, sd) < c.dist {
				good = false
				break
			}
		}
		if good {
			selected = append(selected, c)
			selectedData = append(selectedData, cv.Data)
		}
	}
	// Backfill with the closest remaining candidates if the heuristic's
	// diversity pruning left room under m (keeps recall high at small M).
	if len(selected) < m {
		have := make(map[ids.ID]bool, len(selected))
		for _, s := range selected {
			have[s.id] = true
		}
		for _, c := range sorted {
			if len(selected) >= m {
				break
			}
			if have[c.id] {
				continue
			}
			selected = append(selected, c)
		}
	}

	out := make([]ids.ID, len(selected))
	for i, s := range selected {
		out[i] = s.id
	}
	return out, nil
}
