package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// sliceOfInt builds [int64], whose full encoding is three bytes, large
// enough for the shorthand win check to cache it at offset 0.
func sliceOfInt(cx *intern.Context) types.Type {
	elem := cx.InternType(types.IntTy{Bits: 64})
	return cx.InternType(types.SliceTy{Elem: elem})
}

func TestShorthand_SecondOccurrenceIsBackReference(t *testing.T) {
	cx := intern.NewContext()
	e := NewEncoder(cx, nil)
	ty := sliceOfInt(cx)

	require.NoError(t, e.EncodeType(ty))
	firstLen := e.Position()
	require.NoError(t, e.EncodeType(ty))
	secondLen := e.Position() - firstLen

	assert.Less(t, secondLen, firstLen, "re-encoding must be strictly smaller")
	assert.Equal(t, 1, e.ShorthandHits())

	d := NewDecoder(cx, e.Data(), nil)
	t1, err := d.DecodeType()
	require.NoError(t, err)
	t2, err := d.DecodeType()
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
	assert.Equal(t, ty, t1)
	assert.Equal(t, 1, d.ShorthandHits())
}

func TestShorthand_TinyPayloadIsNeverCached(t *testing.T) {
	// A single-byte payload at stream offset 0 gives the varint bound
	// 7 bits; the would-be marker 0+0x80 does not fit in 7 bits, so the
	// win is not provable and the value must be re-encoded in full.
	cx := intern.NewContext()
	e := NewEncoder(cx, nil)
	ty := cx.InternType(types.BoolTy{})

	require.NoError(t, e.EncodeType(ty))
	require.Equal(t, 1, e.Position())
	require.NoError(t, e.EncodeType(ty))
	require.Equal(t, 2, e.Position(), "second occurrence must be a full copy")
	assert.Zero(t, e.ShorthandHits())

	d := NewDecoder(cx, e.Data(), nil)
	t1, err := d.DecodeType()
	require.NoError(t, err)
	t2, err := d.DecodeType()
	require.NoError(t, err)
	assert.Equal(t, t1, t2)
	assert.Zero(t, d.ShorthandHits())
}

func TestShorthand_NestedOccurrenceReferencesOriginalOffset(t *testing.T) {
	cx := intern.NewContext()
	e := NewEncoder(cx, nil)

	// T0 first, at offset 0. Then T1 embedding T0 three levels deep:
	// slice -> tuple -> element.
	str := cx.InternType(types.StrTy{})
	i64 := cx.InternType(types.IntTy{Bits: 64})
	t0 := cx.InternType(types.MapTy{Key: str, Value: i64})

	boolTy := cx.InternType(types.BoolTy{})
	tuple := cx.InternType(types.TupleTy{Elems: cx.MkTypeList([]types.Type{boolTy, t0})})
	t1 := cx.InternType(types.SliceTy{Elem: tuple})

	require.NoError(t, e.EncodeType(t0))
	require.NoError(t, e.EncodeType(t1))

	// T0 was fully encoded at offset 0, so its marker is the varint for
	// 0x80, and T1's encoding must contain it instead of a second payload.
	marker := []byte{0x80, 0x01}
	assert.True(t, bytes.Contains(e.Data(), marker), "expected back-reference to offset 0 in % x", e.Data())
	assert.Equal(t, 1, e.ShorthandHits())

	fresh := intern.NewContext()
	d := NewDecoder(fresh, e.Data(), nil)
	d0, err := d.DecodeType()
	require.NoError(t, err)
	d1, err := d.DecodeType()
	require.NoError(t, err)

	// The nested occurrence inside T1 must be the same canonical handle
	// as the directly decoded T0.
	sl, ok := fresh.TypeKind(d1).(types.SliceTy)
	require.True(t, ok)
	tup, ok := fresh.TypeKind(sl.Elem).(types.TupleTy)
	require.True(t, ok)
	elems := fresh.TypeListElems(tup.Elems)
	require.Len(t, elems, 2)
	assert.Equal(t, d0, elems[1])
	assert.Equal(t, "hash<string, int64>", fresh.FormatType(d0))
}

func TestShorthand_RepeatedReferenceUsesDecodeCache(t *testing.T) {
	cx := intern.NewContext()
	e := NewEncoder(cx, nil)
	ty := sliceOfInt(cx)

	require.NoError(t, e.EncodeType(ty))
	require.NoError(t, e.EncodeType(ty))
	require.NoError(t, e.EncodeType(ty))

	fresh := intern.NewContext()
	d := NewDecoder(fresh, e.Data(), nil)
	a, err := d.DecodeType()
	require.NoError(t, err)
	b, err := d.DecodeType()
	require.NoError(t, err)
	c, err := d.DecodeType()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
	assert.Equal(t, 2, d.ShorthandHits())
}

func TestShorthand_BinderVarsNeverShorthanded(t *testing.T) {
	cx := intern.NewContext()
	e := NewEncoder(cx, nil)

	v1 := types.BoundVariableKind(types.BoundKindTy{Name: cx.InternSymbol("T")})
	v2 := types.BoundVariableKind(types.BoundKindRegion{Name: cx.InternSymbol("r")})
	vars := cx.MkBoundVariableKinds([]types.BoundVariableKind{v1, v2})

	body := types.PredicateKind(types.ImplementsPred{
		Trait: types.DefID{Crate: 1, Index: 42},
		Args:  cx.MkSubsts([]types.GenericArg{types.TypeArg(sliceOfInt(cx))}),
	})
	pred := cx.InternPredicate(types.BindWithVars(body, vars))

	require.NoError(t, e.EncodePredicate(pred))
	firstLen := e.Position()
	require.NoError(t, e.EncodePredicate(pred))
	secondLen := e.Position() - firstLen

	// Both encodings start with the full bound-variable list; only the
	// body collapses to a marker on the second occurrence.
	varsOnly := NewEncoder(cx, nil)
	varsOnly.encodeBoundVars(vars)
	varsLen := varsOnly.Position()

	first := e.Data()[:firstLen]
	second := e.Data()[firstLen:]
	assert.Equal(t, first[:varsLen], second[:varsLen], "bound vars must be fully encoded both times")
	assert.Greater(t, firstLen, secondLen, "body must be shorthanded on reuse")
	assert.NotZero(t, second[varsLen]&0x80, "second body must start with a marker byte")

	fresh := intern.NewContext()
	d := NewDecoder(fresh, e.Data(), nil)
	p1, err := d.DecodePredicate()
	require.NoError(t, err)
	p2, err := d.DecodePredicate()
	require.NoError(t, err)
	assert.Equal(t, p1, p2)

	binder := fresh.PredicateBinder(p1)
	assert.Len(t, fresh.BoundVariableKinds(binder.Vars), 2)
}

func TestShorthand_ForwardReferenceIsRejected(t *testing.T) {
	cx := intern.NewContext()

	// A marker at offset 0 referencing offset 0 points at itself, not
	// strictly backward.
	d := NewDecoder(cx, []byte{0x80, 0x01}, nil)
	_, err := d.DecodeType()

	var se *StreamError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "backward")
}

func TestShorthand_SessionScopedCaches(t *testing.T) {
	cx := intern.NewContext()
	ty := sliceOfInt(cx)

	e1 := NewEncoder(cx, nil)
	require.NoError(t, e1.EncodeType(ty))

	// A new encoder is a new session: the first occurrence must be a full
	// payload again, not a reference into another session's stream.
	e2 := NewEncoder(cx, nil)
	require.NoError(t, e2.EncodeType(ty))
	assert.Equal(t, e1.Data(), e2.Data())
	assert.Zero(t, e2.ShorthandHits())
}
