package engine

import "github.com/helixdb/helix-core/pkg/herrors"

// EmbeddingProvider is the external collaborator that turns text into
// vectors. It is opaque to the core: Engine never calls it from inside a
// transaction (spec §5 "Suspension": "no step within a transaction may
// suspend"; embedding calls are an async boundary that must happen
// strictly before any transaction opens).
type EmbeddingProvider interface {
	Embed(texts []string) ([][]float64, error)
}

// Continuation is the boxed resolver spec §5 describes: a handler
// collects the data-independent work (which texts need vectors) into
// one of these, runs it to resolve the embeddings, and only then
// re-enters to open a transaction and insert the results. Resolve may
// block or suspend freely since it is never called from within View or
// Update.
type Continuation struct {
	texts    []string
	provider EmbeddingProvider
}

// PrepareEmbedding builds a Continuation for texts against provider. It
// does no I/O itself.
func (e *Engine) PrepareEmbedding(texts []string, provider EmbeddingProvider) *Continuation {
	return &Continuation{texts: texts, provider: provider}
}

// Resolve invokes the embedding provider and returns one vector per
// input text, in order. Call this before opening the transaction that
// will consume the result.
func (c *Continuation) Resolve() ([][]float64, error) {
	vecs, err := c.provider.Embed(c.texts)
	if err != nil {
		return nil, herrors.NewEmbedding(err)
	}
	if len(vecs) != len(c.texts) {
		return nil, herrors.NewInvalidInput("embedding provider returned a mismatched vector count")
	}
	return vecs, nil
}
