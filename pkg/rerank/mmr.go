package rerank

import (
	"math"

	"github.com/helixdb/helix-core/pkg/ids"
)

// Candidate is one MMR input: an id plus its embedding.
type Candidate struct {
	ID     ids.ID
	Vector []float64
}

// MMR iteratively selects candidates maximizing
// lambda*sim(q,v) - (1-lambda)*max_{s in selected} sim(s,v)
// (spec §4.8), returning up to limit ids in selection order. The first
// selection has no "selected" set yet, so its penalty term is 0.
func MMR(query []float64, candidates []Candidate, lambda float64, limit int) []ids.ID {
	if limit <= 0 || len(candidates) == 0 {
		return nil
	}
	remaining := make([]Candidate, len(candidates))
	copy(remaining, candidates)

	var selected []Candidate
	var out []ids.ID

	for len(out) < limit && len(remaining) > 0 {
		bestIdx := -1
		bestScore := 0.0
		for i, c := range remaining {
			qSim := cosineSimilarity(query, c.Vector)
			maxSel := 0.0
			for _, s := range selected {
				sim := cosineSimilarity(s.Vector, c.Vector)
				if sim > maxSel {
					maxSel = sim
				}
			}
			score := lambda*qSim - (1-lambda)*maxSel
			if bestIdx == -1 || score > bestScore {
				bestIdx = i
				bestScore = score
			}
		}
		chosen := remaining[bestIdx]
		out = append(out, chosen.ID)
		selected = append(selected, chosen)
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}
	return out
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	if sim > 1 {
		sim = 1
	}
	if sim < -1 {
		sim = -1
	}
	return sim
}
