// Package hybrid fuses BM25 and vector-search rankings into a single
// ranked list (spec §4.7).
package hybrid

import (
	"sort"

	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// Options tunes the fusion. Oversample governs how far past limit each
// underlying ranker is asked to go before fusion (spec §9: the source
// doesn't declare this as a named constant; we expose it with the 4x
// default spec §4.7 suggests).
type Options struct {
	Oversample int
}

// DefaultOversample is the spec's suggested factor.
const DefaultOversample = 4

// DefaultOptions returns Oversample at its spec-suggested default.
func DefaultOptions() Options { return Options{Oversample: DefaultOversample} }

func (o Options) oversample() int {
	if o.Oversample <= 0 {
		return DefaultOversample
	}
	return o.Oversample
}

// Scored is one fused result.
type Scored struct {
	ID    ids.ID
	Score float64
}

// Fuse combines BM25 hits and vector hits for the same result space:
// each score set is min-max normalized to [0,1], then combined as
// alpha*bm25_norm + (1-alpha)*vector_norm, with a missing contribution
// from either side counting as 0. alpha=1.0 reduces to pure BM25 ranking,
// alpha=0.0 to pure vector ranking (spec §4.7's contract).
func Fuse(bm25Hits []bm25.DocScore, vectorHits []vectorindex.Result, alpha float64, limit int) []Scored {
	bmNorm := normalizeBM25(bm25Hits)
	vecNorm := normalizeVector(vectorHits)

	combined := make(map[ids.ID]float64, len(bmNorm)+len(vecNorm))
	for id, s := range bmNorm {
		combined[id] += alpha * s
	}
	for id, s := range vecNorm {
		combined[id] += (1 - alpha) * s
	}

	out := make([]Scored, 0, len(combined))
	for id, s := range combined {
		out = append(out, Scored{ID: id, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID.Less(out[j].ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func normalizeBM25(hits []bm25.DocScore) map[ids.ID]float64 {
	if len(hits) == 0 {
		return nil
	}
	lo, hi := hits[0].Score, hits[0].Score
	for _, h := range hits {
		if h.Score < lo {
			lo = h.Score
		}
		if h.Score > hi {
			hi = h.Score
		}
	}
	out := make(map[ids.ID]float64, len(hits))
	for _, h := range hits {
		out[h.DocID] = minMaxNormalize(h.Score, lo, hi)
	}
	return out
}

func normalizeVector(hits []vectorindex.Result) map[ids.ID]float64 {
	if len(hits) == 0 {
		return nil
	}
	// Vector search ranks by ascending distance; similarity (what we want
	// to fuse on a "higher is better" scale) is the negated distance, so
	// the closest hit gets the normalized value 1.
	lo, hi := -hits[0].Distance, -hits[0].Distance
	for _, h := range hits {
		s := -h.Distance
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}
	out := make(map[ids.ID]float64, len(hits))
	for _, h := range hits {
		out[h.Vector.ID] = minMaxNormalize(-h.Distance, lo, hi)
	}
	return out
}

func minMaxNormalize(v, lo, hi float64) float64 {
	if hi == lo {
		return 1
	}
	return (v - lo) / (hi - lo)
}
