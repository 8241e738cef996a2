package codec

import (
	"math"

	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Decoder reads entities back out of an immutable byte buffer, resolving
// every payload through the interning context so structurally equal values
// come back as equal handles. A decoder must be used from a single
// goroutine; the context it resolves into may be shared.
type Decoder struct {
	data  []byte
	pos   int
	cx    *intern.Context
	hooks SessionHooks

	// shorthandTypes caches the handle decoded at each shorthand target
	// offset so a type referenced many times is re-decoded once.
	shorthandTypes map[int]types.Type

	shorthandHits int
}

// NewDecoder creates a decoding session over data. A nil hooks value
// installs the passthrough allocation-id codec.
func NewDecoder(cx *intern.Context, data []byte, hooks SessionHooks) *Decoder {
	if hooks == nil {
		hooks = PassthroughAllocHooks{}
	}
	return &Decoder{
		data:           data,
		cx:             cx,
		hooks:          hooks,
		shorthandTypes: make(map[int]types.Type),
	}
}

// Position returns the current read offset.
func (d *Decoder) Position() int { return d.pos }

// ShorthandHits returns how many back-references were followed. Diagnostics
// only.
func (d *Decoder) ShorthandHits() int { return d.shorthandHits }

// Context returns the interning context this session decodes into.
func (d *Decoder) Context() *intern.Context { return d.cx }

// WithPosition temporarily repositions the cursor to off, runs fn, and
// restores the prior cursor even if fn consumed a different number of
// bytes. This is how shorthand back-references are followed.
func (d *Decoder) WithPosition(off int, fn func()) {
	if off < 0 || off > len(d.data) {
		fail(d.pos, "reposition to %d outside stream of %d bytes", off, len(d.data))
	}
	saved := d.pos
	d.pos = off
	defer func() { d.pos = saved }()
	fn()
}

func (d *Decoder) readULEB() uint64 {
	var v uint64
	var shift uint
	for {
		if d.pos >= len(d.data) {
			fail(d.pos, "unexpected end of stream in varint")
		}
		b := d.data[d.pos]
		d.pos++
		if shift == 63 && b > 1 {
			fail(d.pos-1, "varint overflows 64 bits")
		}
		v |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return v
		}
		shift += 7
	}
}

func unzigzag(v uint64) int64 {
	return int64(v>>1) ^ -int64(v&1)
}

// ReadU8 reads one raw byte.
func (d *Decoder) ReadU8() uint8 {
	if d.pos >= len(d.data) {
		fail(d.pos, "unexpected end of stream")
	}
	b := d.data[d.pos]
	d.pos++
	return b
}

// ReadU16 reads an unsigned 16-bit integer.
func (d *Decoder) ReadU16() uint16 {
	v := d.readULEB()
	if v > math.MaxUint16 {
		fail(d.pos, "u16 out of range: %d", v)
	}
	return uint16(v)
}

// ReadU32 reads an unsigned 32-bit integer.
func (d *Decoder) ReadU32() uint32 {
	v := d.readULEB()
	if v > math.MaxUint32 {
		fail(d.pos, "u32 out of range: %d", v)
	}
	return uint32(v)
}

// ReadU64 reads an unsigned 64-bit integer.
func (d *Decoder) ReadU64() uint64 { return d.readULEB() }

// ReadI8 reads one raw signed byte.
func (d *Decoder) ReadI8() int8 { return int8(d.ReadU8()) }

// ReadI16 reads a signed 16-bit integer.
func (d *Decoder) ReadI16() int16 {
	v := unzigzag(d.readULEB())
	if v < math.MinInt16 || v > math.MaxInt16 {
		fail(d.pos, "i16 out of range: %d", v)
	}
	return int16(v)
}

// ReadI32 reads a signed 32-bit integer.
func (d *Decoder) ReadI32() int32 {
	v := unzigzag(d.readULEB())
	if v < math.MinInt32 || v > math.MaxInt32 {
		fail(d.pos, "i32 out of range: %d", v)
	}
	return int32(v)
}

// ReadI64 reads a signed 64-bit integer.
func (d *Decoder) ReadI64() int64 { return unzigzag(d.readULEB()) }

// ReadLen reads a non-negative length or offset.
func (d *Decoder) ReadLen() int {
	v := d.readULEB()
	if v > uint64(len(d.data)) {
		// Lengths always bound data still in this stream, so anything
		// larger than the stream itself is corrupt.
		fail(d.pos, "length %d exceeds stream size %d", v, len(d.data))
	}
	return int(v)
}

// ReadBool reads a one-byte boolean.
func (d *Decoder) ReadBool() bool {
	switch b := d.ReadU8(); b {
	case 0:
		return false
	case 1:
		return true
	default:
		fail(d.pos-1, "invalid bool byte 0x%02x", b)
		return false
	}
}

// ReadF32 reads an IEEE-754 single.
func (d *Decoder) ReadF32() float32 { return math.Float32frombits(d.ReadU32()) }

// ReadF64 reads an IEEE-754 double.
func (d *Decoder) ReadF64() float64 { return math.Float64frombits(d.ReadU64()) }

// ReadChar reads one unicode scalar value.
func (d *Decoder) ReadChar() rune { return rune(d.ReadU32()) }

// ReadStr reads a length-prefixed string.
func (d *Decoder) ReadStr() string {
	n := d.ReadLen()
	return string(d.ReadRawBytes(n))
}

// ReadRawBytes reads exactly n bytes. The result aliases the stream buffer.
func (d *Decoder) ReadRawBytes(n int) []byte {
	if n < 0 || d.pos+n > len(d.data) {
		fail(d.pos, "unexpected end of stream reading %d raw bytes", n)
	}
	b := d.data[d.pos : d.pos+n : d.pos+n]
	d.pos += n
	return b
}
