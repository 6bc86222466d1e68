package hybrid

import (
	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// Reader is the read surface both BM25 and the vector index need.
type Reader interface {
	Get(db string, key []byte) ([]byte, error)
	GetDuplicates(db string, key []byte) ([][]byte, error)
	PrefixIter(db string, prefix []byte, walker func(k, v []byte) error) error
}

// Search runs a hybrid query: BM25 over queryText and a vector search
// over queryVector, each oversampled past limit, then fused by alpha
// (spec §4.7).
func Search(tx Reader, bm *bm25.Index, vec *vectorindex.Index, queryText string, queryVector []float64, vectorLabel string, filter vectorindex.Filter, alpha float64, limit int, opts Options) ([]Scored, error) {
	over := limit * opts.oversample()

	var bmHits []bm25.DocScore
	if bm != nil && queryText != "" {
		hits, err := bm.Search(tx, queryText, over)
		if err != nil {
			return nil, err
		}
		bmHits = hits
	}

	var vecHits []vectorindex.Result
	if vec != nil && len(queryVector) > 0 {
		hits, err := vec.Search(tx, queryVector, over, vectorLabel, filter)
		if err != nil {
			return nil, err
		}
		vecHits = hits
	}

	return Fuse(bmHits, vecHits, alpha, limit), nil
}
