package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typestream/internal/compiler/codec"
	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

func TestAllocBridgeAssignsStableIDsOnce(t *testing.T) {
	bridge := NewAllocBridge()
	cx := intern.NewContext()

	e := codec.NewEncoder(cx, bridge)
	require.NoError(t, e.EncodeAllocID(types.AllocID(42)))
	first := append([]byte{}, e.Data()...)

	e2 := codec.NewEncoder(cx, bridge)
	require.NoError(t, e2.EncodeAllocID(types.AllocID(42)))
	assert.Equal(t, first, e2.Data())

	e3 := codec.NewEncoder(cx, bridge)
	require.NoError(t, e3.EncodeAllocID(types.AllocID(43)))
	assert.NotEqual(t, first, e3.Data())
}

func TestAllocBridgeRemapsAcrossSessions(t *testing.T) {
	producer := NewAllocBridge()
	cx := intern.NewContext()

	// The producing session uses arbitrary local ids.
	e := codec.NewEncoder(cx, producer)
	require.NoError(t, e.EncodeAllocID(types.AllocID(700)))
	require.NoError(t, e.EncodeAllocID(types.AllocID(31)))
	require.NoError(t, e.EncodeAllocID(types.AllocID(700)))

	// A consuming session mints its own local ids, but the same stable id
	// must always land on the same local id.
	consumer := NewAllocBridge()
	fresh := intern.NewContext()
	d := codec.NewDecoder(fresh, e.Data(), consumer)

	a, err := d.DecodeAllocID()
	require.NoError(t, err)
	b, err := d.DecodeAllocID()
	require.NoError(t, err)
	c, err := d.DecodeAllocID()
	require.NoError(t, err)

	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
}

func TestAllocBridgeDecodeThenEncodeIsStable(t *testing.T) {
	bridge := NewAllocBridge()
	cx := intern.NewContext()

	// Stable id 5 arrives from an earlier session.
	src := codec.NewEncoder(cx, codec.PassthroughAllocHooks{})
	src.EmitU64(5)
	d := codec.NewDecoder(cx, src.Data(), bridge)
	local, err := d.DecodeAllocID()
	require.NoError(t, err)

	// Re-encoding that local id must emit stable id 5 again.
	e := codec.NewEncoder(cx, bridge)
	require.NoError(t, e.EncodeAllocID(local))
	assert.Equal(t, src.Data(), e.Data())
}
