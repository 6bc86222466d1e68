package bm25

import (
	"math"
	"sort"

	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
)

// DocScore is one scored hit from Search.
type DocScore struct {
	DocID ids.ID
	Score float64
}

// Search tokenizes query, scores every document containing at least one
// query term with Okapi BM25 (k1=1.2, b=0.75 by default), and returns the
// top limit documents by descending score (spec §4.6).
func (ix *Index) Search(tx reader, query string, limit int) ([]DocScore, error) {
	if limit <= 0 {
		return nil, nil
	}
	meta, err := getMetadata(tx)
	if err != nil {
		return nil, err
	}
	n := meta.TotalDocs
	if n == 0 {
		n = 1 // boundary fallback, spec §4.6
	}

	scores := make(map[ids.ID]float64)
	for _, term := range uniqueTokens(Tokenize(query)) {
		postings, err := tx.GetDuplicates(kv.DBBM25TermPostings, []byte(term))
		if err != nil {
			return nil, err
		}
		if len(postings) == 0 {
			continue
		}
		df := float64(len(postings))
		if df < 1 {
			df = 1
		}
		idf := math.Log((float64(n)-df+0.5)/(df+0.5) + 1)

		for _, p := range postings {
			docID, tf, ok := decodePosting(p)
			if !ok {
				continue
			}
			dlBlob, err := tx.Get(kv.DBBM25DocLengths, docID.Bytes())
			if err != nil {
				return nil, err
			}
			dl := float64(decodeU32(dlBlob))
			avgdl := meta.Avgdl
			if avgdl == 0 {
				avgdl = dl // boundary fallback, spec §4.6
			}
			ratio := 0.0
			if avgdl != 0 {
				ratio = dl / avgdl
			}
			k1, b := meta.K1, meta.B
			if k1 == 0 && b == 0 {
				k1, b = DefaultK1, DefaultB
			}
			num := float64(tf) * (k1 + 1)
			den := float64(tf) + k1*(1-b+b*ratio)
			if den == 0 {
				continue
			}
			scores[docID] += idf * num / den
		}
	}

	out := make([]DocScore, 0, len(scores))
	for id, s := range scores {
		out = append(out, DocScore{DocID: id, Score: s})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocID.Less(out[j].DocID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
