package cache

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typestream/internal/compiler/codec"
	"github.com/conduit-lang/typestream/internal/compiler/intern"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreSaveAndLoad(t *testing.T) {
	store := openTestStore(t)

	cx := intern.NewContext()
	ty := cx.InternType(types.SliceTy{Elem: cx.InternType(types.StrTy{})})
	blob, err := EncodeTypeUnit(cx, store.Session(), ty, nil)
	require.NoError(t, err)

	require.NoError(t, store.Save("crate/core/types", blob))

	got, ok, err := store.Load("crate/core/types")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, blob, got)

	unit, err := ParseUnit(got)
	require.NoError(t, err)
	fresh := intern.NewContext()
	decoded, err := unit.DecodeType(fresh, nil)
	require.NoError(t, err)
	assert.Equal(t, "[string]", fresh.FormatType(decoded))
}

func TestStoreLoadMissIsNotAnError(t *testing.T) {
	store := openTestStore(t)

	blob, ok, err := store.Load("no/such/unit")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, blob)

	m := store.Metrics()
	assert.Equal(t, 1, m.Lookups)
	assert.Equal(t, 1, m.Misses)
	assert.Equal(t, 0, m.Hits)
}

func TestStoreRejectsNonUnitBlobs(t *testing.T) {
	store := openTestStore(t)

	err := store.Save("bad", []byte("not a unit"))
	assert.ErrorContains(t, err, "magic")
}

func TestStoreEntriesAndOverwrite(t *testing.T) {
	store := openTestStore(t)

	cx := intern.NewContext()
	ty := cx.InternType(types.BoolTy{})
	pred := cx.InternPredicate(types.BindWithVars(
		types.PredicateKind(types.WellFormedPred{Arg: types.TypeArg(ty)}),
		cx.MkBoundVariableKinds(nil),
	))

	tyBlob, err := EncodeTypeUnit(cx, store.Session(), ty, nil)
	require.NoError(t, err)
	predBlob, err := EncodePredicateUnit(cx, store.Session(), pred, nil)
	require.NoError(t, err)

	require.NoError(t, store.Save("unit", tyBlob))
	require.NoError(t, store.Save("unit", predBlob))

	entries, err := store.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "unit", entries[0].Name)
	assert.Equal(t, UnitPredicate, entries[0].Kind)
	assert.Equal(t, int64(len(predBlob)), entries[0].Size)
	assert.Equal(t, store.Session(), entries[0].Session)
}

func TestStoreMetricsTrackRoundTrips(t *testing.T) {
	store := openTestStore(t)

	blob := BuildUnit(uuid.New(), UnitType, []byte{0x00})
	require.NoError(t, store.Save("a", blob))

	_, ok, err := store.Load("a")
	require.NoError(t, err)
	require.True(t, ok)

	m := store.Metrics()
	assert.Equal(t, 1, m.UnitsSaved)
	assert.Equal(t, int64(len(blob)), m.BytesSaved)
	assert.Equal(t, int64(len(blob)), m.BytesLoaded)
	assert.Equal(t, 100.0, m.HitRate())
}

func TestStoreAllocBridgePersistence(t *testing.T) {
	store := openTestStore(t)

	bridge := NewAllocBridge()
	cx := intern.NewContext()
	e := codec.NewEncoder(cx, bridge)
	require.NoError(t, bridge.EncodeAllocID(e, types.AllocID(7)))
	require.NoError(t, bridge.EncodeAllocID(e, types.AllocID(9)))

	require.NoError(t, store.SaveAllocBridge(bridge))

	restored, err := store.LoadAllocBridge()
	require.NoError(t, err)

	// Re-encoding the same local ids must produce the same stable ids.
	e2 := codec.NewEncoder(cx, restored)
	require.NoError(t, restored.EncodeAllocID(e2, types.AllocID(7)))
	require.NoError(t, restored.EncodeAllocID(e2, types.AllocID(9)))
	assert.Equal(t, e.Data(), e2.Data())
}
