package vectorindex

import (
	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
)

// Insert adds a vector at a freshly sampled level, wiring bidirectional
// adjacency into the existing graph and shrinking any neighbor whose
// degree now exceeds its per-level cap (spec §4.5 "Insertion").
func (ix *Index) Insert(tx *kv.RwTxn, label string, data []float64) (*codec.Vector, error) {
	level := ix.sampleLevel()
	id := ids.New()
	v := &codec.Vector{ID: id, Label: label, Level: level, Deleted: false, Data: data}
	if err := ix.putVector(tx, v); err != nil {
		return nil, err
	}

	m, err := ix.getMeta(tx)
	if err != nil {
		return nil, err
	}

	if !m.HasEntry {
		for lvl := 0; lvl <= level; lvl++ {
			if err := ix.setNeighbors(tx, lvl, id, nil); err != nil {
				return nil, err
			}
		}
		if err := ix.putMeta(tx, indexMeta{HasEntry: true, EntryPoint: id, TopLevel: level}); err != nil {
			return nil, err
		}
		return v, nil
	}

	// Levels above the existing top level have no structure to join yet;
	// this vector becomes the sole occupant there.
	for lvl := level; lvl > m.TopLevel; lvl-- {
		if err := ix.setNeighbors(tx, lvl, id, nil); err != nil {
			return nil, err
		}
	}

	current := m.EntryPoint
	for lvl := m.TopLevel; lvl > level; lvl-- {
		current, err = ix.greedyBest(tx, data, current, lvl)
		if err != nil {
			return nil, err
		}
	}

	startLevel := level
	if m.TopLevel < startLevel {
		startLevel = m.TopLevel
	}
	for lvl := startLevel; lvl >= 0; lvl-- {
		cands, err := ix.searchLayer(tx, data, []ids.ID{current}, ix.cfg.EfConstruction, lvl)
		if err != nil {
			return nil, err
		}
		capM := ix.cfg.M
		if lvl == 0 {
			capM *= 2
		}
		selected, err := ix.selectNeighborsHeuristic(tx, data, cands, capM)
		if err != nil {
			return nil, err
		}
		if err := ix.setNeighbors(tx, lvl, id, selected); err != nil {
			return nil, err
		}
		for _, nb := range selected {
			if err := ix.connectBack(tx, lvl, nb, id, capM); err != nil {
				return nil, err
			}
		}
		if len(cands) > 0 {
			current = sortedAscending(cands)[0].id
		}
	}

	if level > m.TopLevel {
		if err := ix.putMeta(tx, indexMeta{HasEntry: true, EntryPoint: id, TopLevel: level}); err != nil {
			return nil, err
		}
	}
	return v, nil
}

// connectBack adds newID to nb's neighbor list at level, shrinking it
// with the same heuristic if the per-level degree cap is exceeded (spec
// §4.5 step 5).
func (ix *Index) connectBack(tx *kv.RwTxn, level int, nb, newID ids.ID, capM int) error {
	neigh, err := ix.neighbors(tx, level, nb)
	if err != nil {
		return err
	}
	for _, n := range neigh {
		if n == newID {
			return nil
		}
	}
	neigh = append(neigh, newID)
	if len(neigh) <= capM {
		return ix.setNeighbors(tx, level, nb, neigh)
	}

	nbVec, err := GetVector(tx, nb, nil)
	if err != nil {
		return err
	}
	cands := make([]scored, 0, len(neigh))
	for _, n := range neigh {
		nv, err := GetVector(tx, n, nil)
		if err != nil {
			continue
		}
		cands = append(cands, scored{n, cosineDistance(nbVec.Data, nv.Data)})
	}
	shrunk, err := ix.selectNeighborsHeuristic(tx, nbVec.Data, cands, capM)
	if err != nil {
		return err
	}
	return ix.setNeighbors(tx, level, nb, shrunk)
}
