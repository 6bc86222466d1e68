package vectorindex

import (
	"sort"

	"github.com/helixdb/helix-core/pkg/codec"
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
)

// Search descends the graph from the entrypoint and returns the k
// nearest eligible vectors to query (spec §4.5 "Search"). A vector is
// eligible iff its label matches, it isn't tombstoned, and filter (when
// given) returns true; ineligible vectors are still expanded during
// traversal so connectivity through them is preserved.
func (ix *Index) Search(tx Reader, query []float64, k int, label string, filter Filter) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	m, err := ix.getMetaR(tx)
	if err != nil {
		return nil, err
	}
	if !m.HasEntry {
		return nil, herrors.ErrEntryPointNotFound
	}

	current := m.EntryPoint
	for lvl := m.TopLevel; lvl > 0; lvl-- {
		current, err = ix.greedyBest(tx, query, current, lvl)
		if err != nil {
			return nil, err
		}
	}

	ef := ix.cfg.EfSearch
	if k > ef {
		ef = k
	}
	cands, err := ix.searchLayer(tx, query, []ids.ID{current}, ef, 0)
	if err != nil {
		return nil, err
	}

	eligible := make([]Result, 0, len(cands))
	for _, c := range sortedAscending(cands) {
		v, err := GetVector(tx, c.id, nil)
		if err != nil {
			if herrors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		if v.Deleted || v.Label != label {
			continue
		}
		if filter != nil {
			ok, err := filter(tx, c.id)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		eligible = append(eligible, Result{Vector: v, Distance: c.dist})
		if len(eligible) == k {
			break
		}
	}
	return eligible, nil
}

// BruteForceSearch linearly scans every stored vector, applying filter
// and computing distance directly, used when the HNSW graph is
// unavailable or the caller explicitly requests exactness (spec §4.5).
func (ix *Index) BruteForceSearch(tx Reader, query []float64, k int, label string, filter Filter) ([]Result, error) {
	if k <= 0 {
		return nil, nil
	}
	var all []Result
	err := tx.PrefixIter(kv.DBVectorsData, nil, func(kb, vb []byte) error {
		id, err := ids.FromBytes(kb)
		if err != nil {
			return nil
		}
		v, err := codec.DecodeVector(id, vb, nil)
		if err != nil {
			return err
		}
		if v.Deleted || v.Label != label {
			return nil
		}
		if filter != nil {
			ok, err := filter(tx, id)
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
		}
		all = append(all, Result{Vector: v, Distance: cosineDistance(query, v.Data)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Distance < all[j].Distance })
	if len(all) > k {
		all = all[:k]
	}
	return all, nil
}
