package bm25

import (
	"github.com/helixdb/helix-core/pkg/herrors"
	"github.com/helixdb/helix-core/pkg/ids"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/value"
)

// Index is a stateless accessor; all state lives in the KV substrate.
type Index struct{}

// New returns a BM25 accessor.
func New() *Index { return &Index{} }

// UpdateDoc (re)indexes docID: any postings it previously contributed
// are removed first, then the flattened label+properties are tokenized
// and re-inserted, and the corpus metadata is recomputed. This matches
// spec §9's guidance that update_doc must remove old postings rather
// than re-insert on top of them, to preserve the doc-length and postings
// invariants of §8.
func (ix *Index) UpdateDoc(tx *kv.RwTxn, docID ids.ID, label string, props *value.Object) error {
	if err := ix.removeDoc(tx, docID); err != nil && !herrors.IsNotFound(err) {
		return err
	}

	tokens := Tokenize(Flatten(label, props))
	tf := termFrequencies(tokens)

	if err := tx.Put(kv.DBBM25DocLengths, docID.Bytes(), encodeU32(uint32(len(tokens)))); err != nil {
		return err
	}
	if err := tx.Put(kv.DBBM25DocTerms, docID.Bytes(), encodeDocTerms(tf)); err != nil {
		return err
	}
	for term, f := range tf {
		if err := tx.PutDup(kv.DBBM25TermPostings, []byte(term), encodePosting(docID, f)); err != nil {
			return err
		}
	}
	return ix.recomputeMetadata(tx)
}

// DeleteDoc removes docID's postings, doc length, and term list, then
// recomputes corpus metadata. Deleting an unindexed doc is a no-op
// (idempotent), matching spec §8's drop-idempotence property.
func (ix *Index) DeleteDoc(tx *kv.RwTxn, docID ids.ID) error {
	if err := ix.removeDoc(tx, docID); err != nil {
		if herrors.IsNotFound(err) {
			return nil
		}
		return err
	}
	return ix.recomputeMetadata(tx)
}

func (ix *Index) removeDoc(tx *kv.RwTxn, docID ids.ID) error {
	lenBlob, err := tx.Get(kv.DBBM25DocLengths, docID.Bytes())
	if err != nil {
		return err
	}
	if lenBlob == nil {
		return herrors.NewNotFound("bm25doc", docID.String())
	}
	termsBlob, err := tx.Get(kv.DBBM25DocTerms, docID.Bytes())
	if err != nil {
		return err
	}
	for term, f := range decodeDocTerms(termsBlob) {
		if err := tx.DeleteOneDuplicate(kv.DBBM25TermPostings, []byte(term), encodePosting(docID, f)); err != nil {
			return err
		}
	}
	if err := tx.Delete(kv.DBBM25DocTerms, docID.Bytes()); err != nil {
		return err
	}
	return tx.Delete(kv.DBBM25DocLengths, docID.Bytes())
}

func (ix *Index) recomputeMetadata(tx *kv.RwTxn) error {
	existing, err := getMetadata(tx)
	if err != nil {
		return err
	}
	var total uint64
	var sum uint64
	err = tx.PrefixIter(kv.DBBM25DocLengths, nil, func(_, v []byte) error {
		total++
		sum += uint64(decodeU32(v))
		return nil
	})
	if err != nil {
		return err
	}
	m := Metadata{TotalDocs: total, K1: existing.K1, B: existing.B}
	if total > 0 {
		m.Avgdl = float64(sum) / float64(total)
	}
	return tx.Put(kv.DBBM25Metadata, metadataKey, encodeMetadata(m))
}
