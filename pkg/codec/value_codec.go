package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/helixdb/helix-core/pkg/arena"
	"github.com/helixdb/helix-core/pkg/value"
)

// Each Value is preceded by a 1-byte discriminant equal to its value.Kind,
// giving the fixed-width variant tag spec §4.2 requires.

func putU32(buf []byte, n uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], n)
	return append(buf, b[:]...)
}

func putString(buf []byte, s string) []byte {
	buf = putU32(buf, uint32(len(s)))
	return append(buf, s...)
}

// EncodeValue appends v's wire encoding to buf and returns the extended
// slice.
func EncodeValue(buf []byte, v value.Value) []byte {
	buf = append(buf, byte(v.Kind))
	switch v.Kind {
	case value.KindEmpty:
	case value.KindString:
		buf = putString(buf, v.Str)
	case value.KindF32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], math.Float32bits(v.F32))
		buf = append(buf, b[:]...)
	case value.KindF64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], math.Float64bits(v.F64))
		buf = append(buf, b[:]...)
	case value.KindI8:
		buf = append(buf, byte(int8(v.I64)))
	case value.KindI16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(int16(v.I64)))
		buf = append(buf, b[:]...)
	case value.KindI32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(int32(v.I64)))
		buf = append(buf, b[:]...)
	case value.KindI64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.I64))
		buf = append(buf, b[:]...)
	case value.KindU8:
		buf = append(buf, byte(v.U64))
	case value.KindU16:
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], uint16(v.U64))
		buf = append(buf, b[:]...)
	case value.KindU32:
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(v.U64))
		buf = append(buf, b[:]...)
	case value.KindU64:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], v.U64)
		buf = append(buf, b[:]...)
	case value.KindU128:
		buf = append(buf, v.U128[:]...)
	case value.KindDate:
		var b [8]byte
		binary.BigEndian.PutUint64(b[:], uint64(v.Date))
		buf = append(buf, b[:]...)
	case value.KindBoolean:
		if v.Bool {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case value.KindID:
		buf = append(buf, v.ID[:]...)
	case value.KindArray:
		buf = putU32(buf, uint32(len(v.Arr)))
		for _, e := range v.Arr {
			buf = EncodeValue(buf, e)
		}
	case value.KindObject:
		keys := v.Obj.Keys()
		buf = putU32(buf, uint32(len(keys)))
		for _, k := range keys {
			buf = putString(buf, k)
			ev, _ := v.Obj.Get(k)
			buf = EncodeValue(buf, ev)
		}
	}
	return buf
}

// decodeCursor walks a byte slice left-to-right during decode.
type decodeCursor struct {
	buf []byte
	pos int
	a   *arena.Arena
}

func (c *decodeCursor) remaining() int { return len(c.buf) - c.pos }

func (c *decodeCursor) take(n int) ([]byte, error) {
	if c.remaining() < n {
		return nil, fmt.Errorf("codec: unexpected end of buffer (need %d, have %d)", n, c.remaining())
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *decodeCursor) takeU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *decodeCursor) takeString() (string, error) {
	n, err := c.takeU32()
	if err != nil {
		return "", err
	}
	b, err := c.take(int(n))
	if err != nil {
		return "", err
	}
	if c.a != nil {
		return c.a.CopyString(string(b)), nil
	}
	return string(b), nil
}

// DecodeValue reads one Value starting at cursor's position. Strings
// decoded are copied into the cursor's arena when one is set (the codec's
// hot path per spec §4.2); callers that need owned, cross-transaction
// values should pass a nil arena, which falls back to normal Go string
// allocation.
func DecodeValue(c *decodeCursor) (value.Value, error) {
	tagByte, err := c.take(1)
	if err != nil {
		return value.Value{}, err
	}
	kind := value.Kind(tagByte[0])
	switch kind {
	case value.KindEmpty:
		return value.Empty(), nil
	case value.KindString:
		s, err := c.takeString()
		if err != nil {
			return value.Value{}, err
		}
		return value.String(s), nil
	case value.KindF32:
		b, err := c.take(4)
		if err != nil {
			return value.Value{}, err
		}
		return value.F32(math.Float32frombits(binary.BigEndian.Uint32(b))), nil
	case value.KindF64:
		b, err := c.take(8)
		if err != nil {
			return value.Value{}, err
		}
		return value.F64(math.Float64frombits(binary.BigEndian.Uint64(b))), nil
	case value.KindI8:
		b, err := c.take(1)
		if err != nil {
			return value.Value{}, err
		}
		return value.I64(int64(int8(b[0]))), nil
	case value.KindI16:
		b, err := c.take(2)
		if err != nil {
			return value.Value{}, err
		}
		return value.I64(int64(int16(binary.BigEndian.Uint16(b)))), nil
	case value.KindI32:
		b, err := c.take(4)
		if err != nil {
			return value.Value{}, err
		}
		return value.I64(int64(int32(binary.BigEndian.Uint32(b)))), nil
	case value.KindI64:
		b, err := c.take(8)
		if err != nil {
			return value.Value{}, err
		}
		return value.I64(int64(binary.BigEndian.Uint64(b))), nil
	case value.KindU8:
		b, err := c.take(1)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindU8, U64: uint64(b[0])}, nil
	case value.KindU16:
		b, err := c.take(2)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindU16, U64: uint64(binary.BigEndian.Uint16(b))}, nil
	case value.KindU32:
		b, err := c.take(4)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindU32, U64: uint64(binary.BigEndian.Uint32(b))}, nil
	case value.KindU64:
		b, err := c.take(8)
		if err != nil {
			return value.Value{}, err
		}
		return value.U64(binary.BigEndian.Uint64(b)), nil
	case value.KindU128:
		b, err := c.take(16)
		if err != nil {
			return value.Value{}, err
		}
		var v value.Value
		v.Kind = value.KindU128
		copy(v.U128[:], b)
		return v, nil
	case value.KindDate:
		b, err := c.take(8)
		if err != nil {
			return value.Value{}, err
		}
		return value.Value{Kind: value.KindDate, Date: int64(binary.BigEndian.Uint64(b))}, nil
	case value.KindBoolean:
		b, err := c.take(1)
		if err != nil {
			return value.Value{}, err
		}
		return value.Bool(b[0] != 0), nil
	case value.KindID:
		b, err := c.take(16)
		if err != nil {
			return value.Value{}, err
		}
		var id [16]byte
		copy(id[:], b)
		return value.ID(id), nil
	case value.KindArray:
		n, err := c.takeU32()
		if err != nil {
			return value.Value{}, err
		}
		arr := make([]value.Value, 0, n)
		for i := uint32(0); i < n; i++ {
			e, err := DecodeValue(c)
			if err != nil {
				return value.Value{}, err
			}
			arr = append(arr, e)
		}
		return value.Array(arr), nil
	case value.KindObject:
		n, err := c.takeU32()
		if err != nil {
			return value.Value{}, err
		}
		obj := value.NewObject()
		for i := uint32(0); i < n; i++ {
			k, err := c.takeString()
			if err != nil {
				return value.Value{}, err
			}
			v, err := DecodeValue(c)
			if err != nil {
				return value.Value{}, err
			}
			obj.Set(k, v)
		}
		return value.Obj(obj), nil
	default:
		return value.Value{}, fmt.Errorf("codec: unknown value tag %d", kind)
	}
}
