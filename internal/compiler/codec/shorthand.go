package codec

import "fmt"

// ShorthandOffset is added to a stream offset to form a shorthand marker.
// It is chosen so a marker can never alias a plain-encoded record: variant
// discriminants stay strictly below it, and the first byte of a LEB128
// encoding of any value >= 0x80 always has its high bit set, while the
// first byte of any smaller value never does.
const ShorthandOffset = 0x80

// encodeWithShorthand writes value either as a back-reference to its first
// full encoding in this session, or as a full payload via encodePayload,
// recording the offset for reuse when the back-reference is a provable win.
//
// The win check deliberately compares bit-width bounds (7 usable bits per
// encoded byte) instead of computing the exact marker length; exactness is
// not worth diverging from the established stream format.
func encodeWithShorthand[V comparable](e *Encoder, value V, cache map[V]int, discriminant uint8, encodePayload func()) {
	if shorthand, ok := cache[value]; ok {
		e.emitULEB(uint64(shorthand))
		e.shorthandHits++
		return
	}

	start := e.Position()
	encodePayload()
	length := e.Position() - start

	// A discriminant at or above the offset would make a full payload's
	// first byte indistinguishable from a marker. That is a layout bug in
	// the entity model, so abort encoding outright.
	if int(discriminant) >= ShorthandOffset {
		panic(fmt.Sprintf("codec: discriminant %d collides with shorthand offset", discriminant))
	}

	shorthand := start + ShorthandOffset

	// Number of bits a varint could carry in the space the full payload
	// occupies. Cache only when the marker provably fits in that space.
	leb128Bits := length * 7
	if leb128Bits >= 64 || uint64(shorthand) < uint64(1)<<uint(leb128Bits) {
		cache[value] = shorthand
	}
}

// positionedAtShorthand reports whether the next record is a back-reference
// marker rather than a plain payload. Markers are varints >= 0x80, whose
// leading byte always has the high bit set; plain payloads start with a
// discriminant or length below 0x80.
func (d *Decoder) positionedAtShorthand() bool {
	if d.pos >= len(d.data) {
		fail(d.pos, "unexpected end of stream at record start")
	}
	return d.data[d.pos]&0x80 != 0
}

// readShorthand consumes a marker and returns the stream offset of the
// referenced full encoding, validating that it points strictly backward.
func (d *Decoder) readShorthand() int {
	markerStart := d.pos
	v := d.readULEB()
	if v < ShorthandOffset {
		fail(markerStart, "shorthand marker %d below offset threshold", v)
	}
	target := int(v - ShorthandOffset)
	if target >= markerStart {
		fail(markerStart, "shorthand target %d does not point backward", target)
	}
	return target
}
