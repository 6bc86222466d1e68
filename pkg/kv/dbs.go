package kv

// Fixed sub-database names. vectors_adj_<level> and secondary_index_<field>
// are generated per level/field; see pkg/keys. vectors_meta and
// bm25_doc_terms are internal bookkeeping the key-layout table doesn't
// name: vectors_meta holds the HNSW entrypoint/top-level, and
// bm25_doc_terms holds each document's (term, tf) pairs so BM25 delete
// can remove exactly the postings a document contributed without a full
// postings scan.
const (
	DBNodes            = "nodes"
	DBEdges            = "edges"
	DBOutEdges         = "out_edges"
	DBInEdges          = "in_edges"
	DBVectorsData      = "vectors_data"
	DBVectorsMeta      = "vectors_meta"
	DBBM25TermPostings = "bm25_term_postings"
	DBBM25DocLengths   = "bm25_doc_lengths"
	DBBM25DocTerms     = "bm25_doc_terms"
	DBBM25Metadata     = "bm25_metadata"
	DBSchemaVersion    = "schema_version"
)

// CoreDBs lists the sub-databases every environment needs regardless of
// how many vector levels or secondary-index fields a given schema declares;
// those are created on demand as they're first used (EnsureDBs is
// idempotent so this is safe to call speculatively from pkg/graph/
// pkg/vectorindex/pkg/bm25 constructors too).
var CoreDBs = []string{
	DBNodes,
	DBEdges,
	DBOutEdges,
	DBInEdges,
	DBVectorsData,
	DBVectorsMeta,
	DBBM25TermPostings,
	DBBM25DocLengths,
	DBBM25DocTerms,
	DBBM25Metadata,
	DBSchemaVersion,
}
