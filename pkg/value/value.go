// Package value implements the tagged union (Value) that backs every node
// and edge property, with ordering unified across heterogeneous numeric
// kinds the way the original engine compares them.
package value

import (
	"fmt"
	"math"
	"math/big"
	"sort"
)

// Kind discriminates the Value union. It is a closed set — callers must
// not extend it; see spec §9 "Polymorphism".
type Kind uint8

const (
	KindEmpty Kind = iota
	KindString
	KindF32
	KindF64
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindDate
	KindBoolean
	KindID
	KindArray
	KindObject
)

// Value is a tagged union over every property type the graph supports.
// Only the field matching Kind is meaningful.
type Value struct {
	Kind Kind

	Str  string
	F32  float32
	F64  float64
	I64  int64  // backs I8/I16/I32/I64
	U64  uint64 // backs U8/U16/U32/U64
	U128 [16]byte
	Date int64 // unix nanoseconds
	Bool bool
	ID   [16]byte
	Arr  []Value
	Obj  *Object
}

// Object is an ordered string->Value map: insertion order is preserved so
// re-encoding is deterministic (property maps in the codec rely on this).
type Object struct {
	keys   []string
	values map[string]Value
}

// NewObject creates an empty ordered object.
func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

// Set inserts or overwrites a key. New keys are appended; existing keys
// keep their original position (copy-on-write update, not move-to-end).
func (o *Object) Set(key string, v Value) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns the value for key and whether it was present.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Delete removes key, if present.
func (o *Object) Delete(key string) {
	if _, ok := o.values[key]; !ok {
		return
	}
	delete(o.values, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len reports the number of entries.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Clone returns a deep-enough copy for copy-on-write update semantics: a
// new Object with the same entries, safe to mutate independently of o.
func (o *Object) Clone() *Object {
	if o == nil {
		return NewObject()
	}
	c := &Object{
		keys:   append([]string(nil), o.keys...),
		values: make(map[string]Value, len(o.values)),
	}
	for k, v := range o.values {
		c.values[k] = v
	}
	return c
}

// Empty returns the Empty value.
func Empty() Value { return Value{Kind: KindEmpty} }

// String wraps a string.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{Kind: KindBoolean, Bool: b} }

// I64 wraps a signed 64-bit integer.
func I64(v int64) Value { return Value{Kind: KindI64, I64: v} }

// U64 wraps an unsigned 64-bit integer.
func U64(v uint64) Value { return Value{Kind: KindU64, U64: v} }

// F64 wraps a double.
func F64(v float64) Value { return Value{Kind: KindF64, F64: v} }

// F32 wraps a float.
func F32(v float32) Value { return Value{Kind: KindF32, F32: v} }

// ID wraps a 128-bit identifier value.
func ID(id [16]byte) Value { return Value{Kind: KindID, ID: id} }

// Array wraps a slice of values.
func Array(vs []Value) Value { return Value{Kind: KindArray, Arr: vs} }

// Obj wraps an Object.
func Obj(o *Object) Value { return Value{Kind: KindObject, Obj: o} }

func isInteger(k Kind) bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64, KindU128:
		return true
	}
	return false
}

func isFloat(k Kind) bool {
	return k == KindF32 || k == KindF64
}

func isNumeric(k Kind) bool {
	return isInteger(k) || isFloat(k)
}

func isSigned(k Kind) bool {
	switch k {
	case KindI8, KindI16, KindI32, KindI64:
		return true
	}
	return false
}

// asBigInt promotes any integer-kind Value to a big.Int for 128-bit-safe
// comparison (U128 may not fit in int64/uint64).
func (v Value) asBigInt() *big.Int {
	if v.Kind == KindU128 {
		return new(big.Int).SetBytes(v.U128[:])
	}
	if isSigned(v.Kind) {
		return big.NewInt(v.I64)
	}
	return new(big.Int).SetUint64(v.U64)
}

func (v Value) asFloat64() float64 {
	switch v.Kind {
	case KindF32:
		return float64(v.F32)
	case KindF64:
		return v.F64
	case KindU128:
		f := new(big.Float).SetInt(v.asBigInt())
		out, _ := f.Float64()
		return out
	default:
		if isSigned(v.Kind) {
			return float64(v.I64)
		}
		return float64(v.U64)
	}
}

// Ordering mirrors Go's cmp.Compare contract: negative, zero, or positive.
type Ordering int

const (
	Less    Ordering = -1
	Equal   Ordering = 0
	Greater Ordering = 1
)

// Compare orders two values using the engine's unified numeric ordering:
// integer-integer comparisons use 128-bit promotion, any comparison
// involving a float uses f64 promotion with NaN comparing equal to
// anything, and mixed non-numeric comparisons (e.g. String vs Bool)
// collapse to Equal rather than panicking.
func Compare(a, b Value) Ordering {
	if isNumeric(a.Kind) && isNumeric(b.Kind) {
		if isFloat(a.Kind) || isFloat(b.Kind) {
			return compareFloat(a.asFloat64(), b.asFloat64())
		}
		return compareBigInt(a.asBigInt(), b.asBigInt())
	}
	switch {
	case a.Kind == KindString && b.Kind == KindString:
		switch {
		case a.Str < b.Str:
			return Less
		case a.Str > b.Str:
			return Greater
		default:
			return Equal
		}
	case a.Kind == KindBoolean && b.Kind == KindBoolean:
		if a.Bool == b.Bool {
			return Equal
		}
		if !a.Bool && b.Bool {
			return Less
		}
		return Greater
	case a.Kind == KindDate && b.Kind == KindDate:
		return compareBigInt(big.NewInt(a.Date), big.NewInt(b.Date))
	case a.Kind == KindID && b.Kind == KindID:
		return compareBigInt(new(big.Int).SetBytes(a.ID[:]), new(big.Int).SetBytes(b.ID[:]))
	default:
		return Equal
	}
}

func compareFloat(a, b float64) Ordering {
	if math.IsNaN(a) && math.IsNaN(b) {
		return Equal
	}
	if math.IsNaN(a) || math.IsNaN(b) {
		// NaN compares equal to anything per spec §3.
		return Equal
	}
	switch {
	case a < b:
		return Less
	case a > b:
		return Greater
	default:
		return Equal
	}
}

func compareBigInt(a, b *big.Int) Ordering {
	switch a.Cmp(b) {
	case -1:
		return Less
	case 1:
		return Greater
	default:
		return Equal
	}
}

// EqualValues reports whether a and b compare Equal.
func EqualValues(a, b Value) bool { return Compare(a, b) == Equal }

// SortObjects sorts a slice of object keys lexicographically, in place.
func SortObjects(keys []string) {
	sort.Strings(keys)
}

// String renders a Value for debugging/flatten (BM25) purposes. It is not
// a stable wire format.
func (v Value) String() string {
	switch v.Kind {
	case KindEmpty:
		return ""
	case KindString:
		return v.Str
	case KindF32:
		return fmt.Sprintf("%g", v.F32)
	case KindF64:
		return fmt.Sprintf("%g", v.F64)
	case KindI8, KindI16, KindI32, KindI64:
		return fmt.Sprintf("%d", v.I64)
	case KindU8, KindU16, KindU32, KindU64:
		return fmt.Sprintf("%d", v.U64)
	case KindU128:
		return v.asBigInt().String()
	case KindDate:
		return fmt.Sprintf("%d", v.Date)
	case KindBoolean:
		return fmt.Sprintf("%t", v.Bool)
	case KindID:
		return fmt.Sprintf("%x", v.ID)
	case KindArray:
		out := ""
		for i, e := range v.Arr {
			if i > 0 {
				out += " "
			}
			out += e.String()
		}
		return out
	case KindObject:
		out := ""
		if v.Obj != nil {
			for i, k := range v.Obj.Keys() {
				if i > 0 {
					out += " "
				}
				val, _ := v.Obj.Get(k)
				out += k + " " + val.String()
			}
		}
		return out
	default:
		return ""
	}
}
