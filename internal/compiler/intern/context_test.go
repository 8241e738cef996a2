package intern

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/typestream/internal/compiler/types"
)

func TestContext_InternTypeIdempotent(t *testing.T) {
	cx := NewContext()

	a := cx.InternType(types.BoolTy{})
	b := cx.InternType(types.BoolTy{})
	c := cx.InternType(types.NeverTy{})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Equal(t, types.TypeKind(types.BoolTy{}), cx.TypeKind(a))
}

func TestContext_NestedStructuralSharing(t *testing.T) {
	cx := NewContext()

	// Build [bool] twice through independent paths; the handles must match
	// all the way up.
	inner1 := cx.InternType(types.BoolTy{})
	inner2 := cx.InternType(types.BoolTy{})
	slice1 := cx.InternType(types.SliceTy{Elem: inner1})
	slice2 := cx.InternType(types.SliceTy{Elem: inner2})

	assert.Equal(t, slice1, slice2)
}

func TestContext_ListInterning(t *testing.T) {
	cx := NewContext()

	a := cx.InternType(types.BoolTy{})
	b := cx.InternType(types.StrTy{})
	c := cx.InternType(types.CharTy{})

	ab1 := cx.MkTypeList([]types.Type{a, b})
	ab2 := cx.MkTypeList([]types.Type{a, b})
	ac := cx.MkTypeList([]types.Type{a, c})

	assert.Equal(t, ab1, ab2)
	assert.NotEqual(t, ab1, ac)
	assert.Equal(t, []types.Type{a, b}, cx.TypeListElems(ab1))

	// The empty list is canonical too.
	assert.Equal(t, cx.MkTypeList(nil), cx.MkTypeList([]types.Type{}))
}

func TestContext_ListStorageIsCopied(t *testing.T) {
	cx := NewContext()

	a := cx.InternType(types.BoolTy{})
	elems := []types.Type{a}
	l := cx.MkTypeList(elems)

	elems[0] = types.Type(999)
	assert.Equal(t, []types.Type{a}, cx.TypeListElems(l))
}

func TestContext_PredicateBinderIdentity(t *testing.T) {
	cx := NewContext()

	name := cx.InternSymbol("T")
	vars := cx.MkBoundVariableKinds([]types.BoundVariableKind{types.BoundKindTy{Name: name}})
	noVars := cx.MkBoundVariableKinds(nil)
	body := types.PredicateKind(types.WellFormedPred{Arg: types.TypeArg(cx.InternType(types.BoolTy{}))})

	p1 := cx.InternPredicate(types.BindWithVars(body, vars))
	p2 := cx.InternPredicate(types.BindWithVars(body, vars))
	p3 := cx.InternPredicate(types.BindWithVars(body, noVars))

	assert.Equal(t, p1, p2)
	// Same body under a different binder is a different predicate.
	assert.NotEqual(t, p1, p3)
}

func TestContext_ConstAllocContentAddressed(t *testing.T) {
	cx := NewContext()

	a1 := cx.InternConstAlloc(types.AllocBytes{Bytes: []byte{1, 2, 3}, Align: 1})
	a2 := cx.InternConstAlloc(types.AllocBytes{Bytes: []byte{1, 2, 3}, Align: 1})
	a3 := cx.InternConstAlloc(types.AllocBytes{Bytes: []byte{1, 2, 3}, Align: 8})

	assert.Equal(t, a1, a2)
	assert.NotEqual(t, a1, a3)
	assert.Equal(t, []byte{1, 2, 3}, cx.ConstAllocBytes(a1).Bytes)
}

func TestContext_AdtDefContentAddressed(t *testing.T) {
	cx := NewContext()

	user := cx.InternSymbol("User")
	nameField := cx.MkTypeList([]types.Type{cx.InternType(types.StrTy{})})

	data := types.AdtDefData{
		Def:      types.DefID{Crate: 0, Index: 7},
		Name:     user,
		Flags:    types.AdtIsResource,
		Variants: []types.VariantDef{{Name: user, Fields: nameField}},
	}

	d1 := cx.InternAdtDef(data)
	d2 := cx.InternAdtDef(data)
	require.Equal(t, d1, d2)

	got := cx.AdtData(d1)
	assert.Equal(t, types.AdtIsResource, got.Flags)
	assert.Len(t, got.Variants, 1)
}

func TestContext_SymbolRoundTrip(t *testing.T) {
	cx := NewContext()

	s1 := cx.InternSymbol("main")
	s2 := cx.InternSymbol("main")
	assert.Equal(t, s1, s2)
	assert.Equal(t, "main", cx.Symbol(s1))
}

func TestContext_AllocSummaryIsNotShared(t *testing.T) {
	cx := NewContext()

	ty := cx.InternType(types.BoolTy{})
	s := types.CheckSummary{Def: types.DefID{Index: 1}, NodeTypes: []types.Type{ty}}

	p1 := cx.AllocSummary(s)
	p2 := cx.AllocSummary(s)

	// Arena-only values never dedupe.
	assert.NotSame(t, p1, p2)
	assert.Equal(t, *p1, *p2)
}

func TestContext_ConcurrentInterning(t *testing.T) {
	cx := NewContext()

	const goroutines = 16
	const perGoroutine = 200

	results := make([][]types.Type, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			out := make([]types.Type, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				elem := cx.InternType(types.IntTy{Bits: uint8(i % 4 * 16)})
				out[i] = cx.InternType(types.SliceTy{Elem: elem})
			}
			results[g] = out
		}(g)
	}
	wg.Wait()

	// Every goroutine must have seen the same canonical handles.
	for g := 1; g < goroutines; g++ {
		require.Equal(t, results[0], results[g], "goroutine %d diverged", g)
	}
}

func TestContext_FormatType(t *testing.T) {
	cx := NewContext()

	str := cx.InternType(types.StrTy{})
	user := types.AdtDefData{
		Def:  types.DefID{Index: 3},
		Name: cx.InternSymbol("User"),
		Variants: []types.VariantDef{
			{Name: cx.InternSymbol("User"), Fields: cx.MkTypeList([]types.Type{str})},
		},
	}
	adt := cx.InternType(types.AdtTy{
		Def:  cx.InternAdtDef(user),
		Args: cx.MkSubsts(nil),
	})
	m := cx.InternType(types.MapTy{Key: str, Value: adt})

	assert.Equal(t, "hash<string, User>", cx.FormatType(m))

	tuple := cx.InternType(types.TupleTy{Elems: cx.MkTypeList([]types.Type{str, m})})
	assert.Equal(t, fmt.Sprintf("(string, %s)", cx.FormatType(m)), cx.FormatType(tuple))
}
