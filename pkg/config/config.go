// Package config loads the settings an Engine needs to open and schema-
// check a database: storage limits, HNSW tuning, which optional indices
// are enabled, and the node/edge/vector schema (spec §6).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// VectorConfig tunes the HNSW index (spec §4.5).
type VectorConfig struct {
	M              int `json:"m"`
	EfConstruction int `json:"ef_construction"`
	EfSearch       int `json:"ef_search"`
}

// FieldSchema describes one property on a node or edge label.
type FieldSchema struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Unique   bool   `json:"unique,omitempty"`
	Indexed  bool   `json:"indexed,omitempty"`
	Required bool   `json:"required,omitempty"`
}

// LabelSchema describes one node or edge label's declared fields.
type LabelSchema struct {
	Label  string        `json:"label"`
	Fields []FieldSchema `json:"fields"`
}

// VectorSchema describes one vector label.
type VectorSchema struct {
	Label      string `json:"label"`
	Dimensions int    `json:"dimensions"`
}

// Schema is the full set of declared node, edge, and vector labels.
type Schema struct {
	Nodes   []LabelSchema  `json:"nodes"`
	Edges   []LabelSchema  `json:"edges"`
	Vectors []VectorSchema `json:"vectors"`
}

// Config holds everything needed to open an Engine (spec §6's config
// table).
type Config struct {
	Path           string       `json:"path"`
	DBMaxSizeGB    float64      `json:"db_max_size_gb"`
	MaxDBs         int          `json:"max_dbs"`
	Vector         VectorConfig `json:"vector"`
	BM25Enabled    bool         `json:"bm25_enabled"`
	MCPEnabled     bool         `json:"mcp_enabled"`
	Schema         Schema       `json:"schema"`
	EmbeddingModel string       `json:"embedding_model,omitempty"`
}

// Defaults matching spec §6's default column.
const (
	DefaultDBMaxSizeGB    = 10
	DefaultMaxDBs         = 20
	DefaultVectorM        = 16
	DefaultEfConstruction = 128
	DefaultEfSearch       = 128
)

func applyDefaults(c *Config) {
	if c.DBMaxSizeGB <= 0 {
		c.DBMaxSizeGB = DefaultDBMaxSizeGB
	}
	if c.MaxDBs <= 0 {
		c.MaxDBs = DefaultMaxDBs
	}
	if c.Vector.M <= 0 {
		c.Vector.M = DefaultVectorM
	}
	if c.Vector.EfConstruction <= 0 {
		c.Vector.EfConstruction = DefaultEfConstruction
	}
	if c.Vector.EfSearch <= 0 {
		c.Vector.EfSearch = DefaultEfSearch
	}
}

// Load reads a JSON config file at path and fills in any zero-valued
// field with its default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if c.Path == "" {
		c.Path = path
	}
	applyDefaults(&c)
	return &c, nil
}

// Default returns a Config for dbPath with every field at its default,
// no declared schema, and BM25/MCP disabled.
func Default(dbPath string) *Config {
	c := &Config{Path: dbPath}
	applyDefaults(c)
	return c
}

// FindNode returns the schema for a node label, if declared.
func (s Schema) FindNode(label string) (LabelSchema, bool) {
	for _, n := range s.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return LabelSchema{}, false
}

// FindEdge returns the schema for an edge label, if declared.
func (s Schema) FindEdge(label string) (LabelSchema, bool) {
	for _, e := range s.Edges {
		if e.Label == label {
			return e, true
		}
	}
	return LabelSchema{}, false
}

// FindVector returns the schema for a vector label, if declared.
func (s Schema) FindVector(label string) (VectorSchema, bool) {
	for _, v := range s.Vectors {
		if v.Label == label {
			return v, true
		}
	}
	return VectorSchema{}, false
}

// UniqueFields returns the names of fields marked unique for a label.
func (ls LabelSchema) UniqueFields() []string {
	var out []string
	for _, f := range ls.Fields {
		if f.Unique {
			out = append(out, f.Name)
		}
	}
	return out
}

// IndexedFields returns the names of fields marked indexed (including
// unique fields, which are always indexed) for a label.
func (ls LabelSchema) IndexedFields() []string {
	var out []string
	for _, f := range ls.Fields {
		if f.Indexed || f.Unique {
			out = append(out, f.Name)
		}
	}
	return out
}
