// Package arena implements a per-transaction bump allocator.
//
// A transaction (pkg/engine) owns exactly one Arena. Every borrowed view
// the codec or graph store hands back (labels, property keys, decoded
// byte slices) is carved out of it. The arena is reset en masse when the
// owning transaction ends; views must not outlive that point.
package arena

// defaultBlockSize is the size of the first block; blocks double from there.
const defaultBlockSize = 4096

// Arena is a bump (region) allocator. It is not safe for concurrent use —
// matching the engine's single-transaction-per-goroutine discipline.
type Arena struct {
	blocks [][]byte
	cur    int // index into blocks of the block currently being filled
	off    int // next free offset within blocks[cur]
}

// New creates an empty Arena. The first block is allocated lazily on first
// use so an Arena that's created but never written to costs nothing.
func New() *Arena {
	return &Arena{}
}

func (a *Arena) ensure(n int) {
	if len(a.blocks) == 0 {
		size := defaultBlockSize
		if n > size {
			size = n
		}
		a.blocks = append(a.blocks, make([]byte, size))
		a.cur = 0
		a.off = 0
		return
	}
	if a.off+n <= len(a.blocks[a.cur]) {
		return
	}
	size := len(a.blocks[a.cur]) * 2
	if n > size {
		size = n
	}
	a.blocks = append(a.blocks, make([]byte, size))
	a.cur = len(a.blocks) - 1
	a.off = 0
}

// Alloc returns an n-byte slice carved from the arena. The returned slice
// is zeroed and must not be retained past the arena's Reset.
func (a *Arena) Alloc(n int) []byte {
	if n == 0 {
		return nil
	}
	a.ensure(n)
	b := a.blocks[a.cur][a.off : a.off+n : a.off+n]
	a.off += n
	return b
}

// CopyBytes copies src into the arena and returns the arena-owned view.
func (a *Arena) CopyBytes(src []byte) []byte {
	if len(src) == 0 {
		return nil
	}
	dst := a.Alloc(len(src))
	copy(dst, src)
	return dst
}

// CopyString copies s into the arena and returns string(copy). Go's
// string conversion copies again, so the returned string is a heap
// allocation, not a view of arena memory.
func (a *Arena) CopyString(s string) string {
	if s == "" {
		return ""
	}
	b := a.CopyBytes([]byte(s))
	return string(b)
}

// Reset makes all of the arena's memory reusable at once: it keeps the
// first block, zeroed, and drops the rest. Any view previously returned by
// Alloc/CopyBytes/CopyString must not be used after Reset.
func (a *Arena) Reset() {
	// Keep the first block to amortize the next transaction's first
	// allocation; drop the rest so a one-off large transaction doesn't
	// pin memory forever.
	if len(a.blocks) > 1 {
		a.blocks = a.blocks[:1]
	}
	if len(a.blocks) > 0 {
		clear(a.blocks[0])
	}
	a.cur = 0
	a.off = 0
}

// Bytes reports the total capacity currently held by the arena, for
// diagnostics.
func (a *Arena) Bytes() int {
	n := 0
	for _, b := range a.blocks {
		n += len(b)
	}
	return n
}
