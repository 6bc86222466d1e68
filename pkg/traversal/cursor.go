package traversal

import "github.com/helixdb/helix-core/pkg/ids"

// Cursor is the library-level primitive backing the MCP tool surface's
// cursor-style API (spec §5: "a connection carries a traversal iterator
// identified by a UUID"). The transport that exposes init/next/collect
// over MCP is out of scope here; Cursor is what that transport would
// wrap.
type Cursor struct {
	id    ids.ID
	build func() *Traversal
	cur   pull
	done  bool
}

// NewCursor wraps an already-built traversal t as a cursor identified by
// a fresh id (spec §5 `init`). Because t's pull chain consumes its own
// captured state as it's drained, Reset on a cursor built this way
// cannot truly rewind — it replays the same, by-then-exhausted chain.
// Callers that need a working Reset should use NewCursorFunc with a
// closure that reconstructs the traversal from scratch.
func NewCursor(t *Traversal) *Cursor {
	return NewCursorFunc(func() *Traversal { return t })
}

// NewCursorFunc wraps a traversal builder as a cursor. Reset calls build
// again, so build must construct an equivalent traversal from scratch
// each time (e.g. a closure over the same Context and source step) for
// Reset to actually rewind rather than replay an already-drained
// pipeline.
func NewCursorFunc(build func() *Traversal) *Cursor {
	seed := build()
	return &Cursor{id: ids.New(), build: build, cur: seed.cur}
}

// ID returns the cursor's identity.
func (c *Cursor) ID() ids.ID { return c.id }

// Next pulls up to n items without dropping the cursor (spec §5
// `next`). A short final page (fewer than n items, or zero) means the
// underlying traversal is exhausted.
func (c *Cursor) Next(n int) ([]Item, error) {
	if c.done || n <= 0 {
		return nil, nil
	}
	out := make([]Item, 0, n)
	for len(out) < n {
		it, ok, err := c.cur()
		if err != nil {
			return out, err
		}
		if !ok {
			c.done = true
			break
		}
		out = append(out, it)
	}
	return out, nil
}

// Collect drains every remaining item. drop defaults to true in the MCP
// surface (spec §5); when drop is true the cursor is marked exhausted
// afterward so a second Collect call returns nothing, matching a
// dropped connection's iterator.
func (c *Cursor) Collect(drop bool) ([]Item, error) {
	if c.done {
		return nil, nil
	}
	items, err := drain(c.cur)
	if drop {
		c.done = true
	}
	return items, err
}

// Reset rewinds the cursor to the start of its seed traversal (spec §5
// `reset`) by calling the builder again. The underlying pipeline
// re-executes from its sources, which re-runs any mutation steps it
// contains — callers should only reset cursors built from read-only
// traversals.
func (c *Cursor) Reset() {
	c.cur = c.build().cur
	c.done = false
}
