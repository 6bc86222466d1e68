// Package ids generates and formats the 128-bit, time-ordered identifiers
// (spec §6) used for every node, edge, and vector.
package ids

import (
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
)

// ID is a 128-bit identifier, stored big-endian for lexicographic order to
// match creation order (the same property UUIDv6 gives over v4).
type ID [16]byte

// Zero is the all-zero id, never assigned by New but used as a sentinel.
var Zero ID

// New generates a fresh time-ordered id. google/uuid's V6 (field-compatible
// draft RFC 9562 ordering) is time-ordered with trailing randomness,
// matching spec §6's "UUID v6 semantics".
func New() ID {
	u, err := uuid.NewV6()
	if err != nil {
		// uuid.NewV6 only fails if the global random reader errors; fall
		// back to V4 (random) rather than returning an error from an id
		// generator that spec treats as infallible.
		u = uuid.New()
	}
	var id ID
	copy(id[:], u[:])
	return id
}

// FromBytes interprets a 16-byte big-endian slice as an ID.
func FromBytes(b []byte) (ID, error) {
	var id ID
	if len(b) != 16 {
		return id, fmt.Errorf("id must be 16 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}

// Bytes returns the big-endian byte representation.
func (id ID) Bytes() []byte {
	out := make([]byte, 16)
	copy(out, id[:])
	return out
}

// String renders the canonical 8-4-4-4-12 hexadecimal form.
func (id ID) String() string {
	var b [36]byte
	hex.Encode(b[0:8], id[0:4])
	b[8] = '-'
	hex.Encode(b[9:13], id[4:6])
	b[13] = '-'
	hex.Encode(b[14:18], id[6:8])
	b[18] = '-'
	hex.Encode(b[19:23], id[8:10])
	b[23] = '-'
	hex.Encode(b[24:36], id[10:16])
	return string(b[:])
}

// Parse parses the canonical 8-4-4-4-12 form.
func Parse(s string) (ID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		var id ID
		return id, fmt.Errorf("parse id %q: %w", s, err)
	}
	var id ID
	copy(id[:], u[:])
	return id, nil
}

// Less reports whether id sorts before other under big-endian byte order,
// which is also creation order for time-ordered ids.
func (id ID) Less(other ID) bool {
	for i := range id {
		if id[i] != other[i] {
			return id[i] < other[i]
		}
	}
	return false
}
