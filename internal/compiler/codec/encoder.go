package codec

import (
	"math"

	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Encoder serializes entities into an append-only byte buffer. One encoder
// is one encoding session: its shorthand caches are scoped to the buffer it
// writes and are never shared or persisted. An encoder must be used from a
// single goroutine.
type Encoder struct {
	buf   []byte
	cx    *intern.Context
	hooks SessionHooks

	// Shorthand caches, one per shorthand-eligible kind. Keys are interned
	// handles (types) or comparable variant payloads (predicate kinds), so
	// equality is structural in both cases.
	typeShorthands map[types.Type]int
	predShorthands map[types.PredicateKind]int

	shorthandHits int
}

// NewEncoder creates an encoding session over the given context. A nil
// hooks value installs the passthrough allocation-id codec.
func NewEncoder(cx *intern.Context, hooks SessionHooks) *Encoder {
	if hooks == nil {
		hooks = PassthroughAllocHooks{}
	}
	return &Encoder{
		cx:             cx,
		hooks:          hooks,
		typeShorthands: make(map[types.Type]int),
		predShorthands: make(map[types.PredicateKind]int),
	}
}

// Position returns the current write offset.
func (e *Encoder) Position() int { return len(e.buf) }

// Data returns the encoded bytes written so far.
func (e *Encoder) Data() []byte { return e.buf }

// ShorthandHits returns how many values were emitted as back-references
// instead of full payloads. Diagnostics only.
func (e *Encoder) ShorthandHits() int { return e.shorthandHits }

// Context returns the interning context this session encodes from.
func (e *Encoder) Context() *intern.Context { return e.cx }

// Primitive writers. Multi-byte unsigned integers use unsigned LEB128 so
// small values occupy one byte; signed integers use zigzag over LEB128;
// u8/i8/bool are raw single bytes. The variable-length scheme is what makes
// offset shorthands cheaper than re-encoding small nested payloads.

func (e *Encoder) emitULEB(v uint64) {
	for v >= 0x80 {
		e.buf = append(e.buf, byte(v)|0x80)
		v >>= 7
	}
	e.buf = append(e.buf, byte(v))
}

func zigzag(v int64) uint64 {
	return uint64(v<<1) ^ uint64(v>>63)
}

// EmitU8 writes one raw byte.
func (e *Encoder) EmitU8(v uint8) { e.buf = append(e.buf, v) }

// EmitU16 writes an unsigned 16-bit integer.
func (e *Encoder) EmitU16(v uint16) { e.emitULEB(uint64(v)) }

// EmitU32 writes an unsigned 32-bit integer.
func (e *Encoder) EmitU32(v uint32) { e.emitULEB(uint64(v)) }

// EmitU64 writes an unsigned 64-bit integer.
func (e *Encoder) EmitU64(v uint64) { e.emitULEB(v) }

// EmitI8 writes one raw signed byte.
func (e *Encoder) EmitI8(v int8) { e.buf = append(e.buf, byte(v)) }

// EmitI16 writes a signed 16-bit integer.
func (e *Encoder) EmitI16(v int16) { e.emitULEB(zigzag(int64(v))) }

// EmitI32 writes a signed 32-bit integer.
func (e *Encoder) EmitI32(v int32) { e.emitULEB(zigzag(int64(v))) }

// EmitI64 writes a signed 64-bit integer.
func (e *Encoder) EmitI64(v int64) { e.emitULEB(zigzag(v)) }

// EmitLen writes a non-negative length or offset.
func (e *Encoder) EmitLen(n int) {
	if n < 0 {
		fail(e.Position(), "negative length %d", n)
	}
	e.emitULEB(uint64(n))
}

// EmitBool writes a boolean as one byte.
func (e *Encoder) EmitBool(v bool) {
	if v {
		e.buf = append(e.buf, 1)
	} else {
		e.buf = append(e.buf, 0)
	}
}

// EmitF32 writes the IEEE-754 bit pattern of v.
func (e *Encoder) EmitF32(v float32) { e.emitULEB(uint64(math.Float32bits(v))) }

// EmitF64 writes the IEEE-754 bit pattern of v.
func (e *Encoder) EmitF64(v float64) { e.emitULEB(math.Float64bits(v)) }

// EmitChar writes one unicode scalar value.
func (e *Encoder) EmitChar(r rune) { e.emitULEB(uint64(uint32(r))) }

// EmitStr writes a length-prefixed string.
func (e *Encoder) EmitStr(s string) {
	e.EmitLen(len(s))
	e.buf = append(e.buf, s...)
}

// EmitRawBytes appends b verbatim, with no length prefix.
func (e *Encoder) EmitRawBytes(b []byte) { e.buf = append(e.buf, b...) }
