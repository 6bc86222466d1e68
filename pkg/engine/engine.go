// Package engine binds the KV environment, schema, and every index
// together into the single entry point an embedder constructs (spec §5:
// "the engine is synchronous ... each handler opens either one read or
// one write transaction"). It owns nothing the indices don't already
// know how to do; it exists to open transactions consistently and to
// make sure every sub-database a schema implies actually exists before
// the first query touches it.
package engine

import (
	"log"

	"github.com/helixdb/helix-core/pkg/bm25"
	"github.com/helixdb/helix-core/pkg/config"
	"github.com/helixdb/helix-core/pkg/graph"
	"github.com/helixdb/helix-core/pkg/keys"
	"github.com/helixdb/helix-core/pkg/kv"
	"github.com/helixdb/helix-core/pkg/vectorindex"
)

// Engine is the top-level handle an embedder opens once per process
// (spec §5). It is safe for concurrent use: readers run in parallel,
// writes serialize on the underlying environment the same way bbolt
// serializes its single writer.
type Engine struct {
	env    *kv.Env
	cfg    *config.Config
	graph  *graph.Store
	vector *vectorindex.Index
	bm25   *bm25.Index
	log    *log.Logger
}

var noopLogger = log.New(discard{}, "", 0)

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

// Open opens (creating if absent) the environment at cfg.Path, ensures
// every sub-database the schema and vector config imply exists, and
// returns a ready Engine. logger may be nil, matching the teacher's
// near-total absence of logging in its storage layer (spec §A.2): a
// no-op logger is substituted so callers never need a nil check.
func Open(cfg *config.Config, logger *log.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default("")
	}
	if logger == nil {
		logger = noopLogger
	}
	env, err := kv.Open(cfg.Path, cfg.DBMaxSizeGB, cfg.MaxDBs)
	if err != nil {
		return nil, err
	}
	if err := ensureDBs(env, cfg); err != nil {
		env.Close()
		return nil, err
	}
	logger.Printf("engine: opened %s", cfg.Path)
	return &Engine{
		env:    env,
		cfg:    cfg,
		graph:  graph.New(cfg.Schema),
		vector: vectorindex.New(vectorindex.Config(cfg.Vector)),
		bm25:   bm25.New(),
		log:    logger,
	}, nil
}

func ensureDBs(env *kv.Env, cfg *config.Config) error {
	names := append([]string{}, kv.CoreDBs...)
	for level := 0; level < vectorindex.MaxLevels; level++ {
		names = append(names, keys.VectorAdjLevelDB(level))
	}
	for _, ls := range cfg.Schema.Nodes {
		names = append(names, secondaryIndexNames(ls)...)
	}
	for _, ls := range cfg.Schema.Edges {
		names = append(names, secondaryIndexNames(ls)...)
	}
	return env.EnsureDBs(names...)
}

func secondaryIndexNames(ls config.LabelSchema) []string {
	var out []string
	for _, f := range ls.Fields {
		if f.Indexed || f.Unique {
			out = append(out, keys.SecondaryIndexDB(f.Name))
		}
	}
	return out
}

// Close releases the environment's mmap and file lock. Safe to call on a
// nil Engine.
func (e *Engine) Close() error {
	if e == nil {
		return nil
	}
	return e.env.Close()
}

// Config returns the configuration the Engine was opened with.
func (e *Engine) Config() *config.Config { return e.cfg }
