// Package intern implements the canonicalizing context for the compiler's
// type layer. The context owns one table per entity kind and guarantees a
// single canonical handle per distinct structural value: interning the same
// payload twice, from any goroutine, yields equal handles. Lookups of
// existing entries take a shared lock; only a first insertion takes the
// exclusive lock.
package intern

import (
	"sync"

	"github.com/conduit-lang/typestream/internal/compiler/arena"
	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Context canonicalizes types, predicates, regions, constants, definitions,
// symbols, and lists. It also owns the arena that backs values decoded
// without interning (per-definition summaries and spans). A Context lives
// for a whole compilation session; nothing interned in it is ever freed
// individually.
type Context struct {
	mu sync.RWMutex

	typeTab   table[types.TypeKind, types.Type]
	predTab   table[types.Binder[types.PredicateKind], types.Predicate]
	regionTab table[types.RegionKind, types.Region]
	constTab  table[types.ConstKind, types.Const]
	symbolTab table[string, types.SymbolName]

	adtData  []types.AdtDefData
	adtIndex map[string]types.AdtDef

	allocData  []types.AllocBytes
	allocIndex map[string]types.ConstAlloc

	typeLists  listTable[types.Type, types.TypeList]
	substLists listTable[types.GenericArg, types.SubstList]
	predLists  listTable[types.Predicate, types.PredList]
	boundLists listTable[types.BoundVariableKind, types.BoundVarList]
	infoLists  listTable[types.CanonicalVarInfo, types.VarInfoList]
	existLists listTable[types.Binder[types.ExistentialPredicate], types.ExistentialList]
	projLists  listTable[types.ProjectionElem, types.ProjectionList]

	bytes     *arena.ByteArena
	handles   *arena.Slab[types.Type]
	spans     *arena.Slab[types.PredicateSpan]
	summaries *arena.Slab[types.CheckSummary]
}

// NewContext creates an empty interning context.
func NewContext() *Context {
	return &Context{
		typeTab:    newTable[types.TypeKind, types.Type](),
		predTab:    newTable[types.Binder[types.PredicateKind], types.Predicate](),
		regionTab:  newTable[types.RegionKind, types.Region](),
		constTab:   newTable[types.ConstKind, types.Const](),
		symbolTab:  newTable[string, types.SymbolName](),
		adtIndex:   make(map[string]types.AdtDef),
		allocIndex: make(map[string]types.ConstAlloc),
		typeLists:  newListTable[types.Type, types.TypeList](),
		substLists: newListTable[types.GenericArg, types.SubstList](),
		predLists:  newListTable[types.Predicate, types.PredList](),
		boundLists: newListTable[types.BoundVariableKind, types.BoundVarList](),
		infoLists:  newListTable[types.CanonicalVarInfo, types.VarInfoList](),
		existLists: newListTable[types.Binder[types.ExistentialPredicate], types.ExistentialList](),
		projLists:  newListTable[types.ProjectionElem, types.ProjectionList](),
		bytes:      arena.NewByteArena(0),
		handles:    arena.NewSlab[types.Type](),
		spans:      arena.NewSlab[types.PredicateSpan](),
		summaries:  arena.NewSlab[types.CheckSummary](),
	}
}

// InternType returns the canonical handle for a type kind.
func (cx *Context) InternType(kind types.TypeKind) types.Type {
	return internValue(cx, &cx.typeTab, kind)
}

// TypeKind returns the payload behind a type handle.
func (cx *Context) TypeKind(t types.Type) types.TypeKind {
	return lookupValue(cx, &cx.typeTab, t, "type")
}

// InternPredicate returns the canonical handle for a binder-wrapped
// predicate kind.
func (cx *Context) InternPredicate(b types.Binder[types.PredicateKind]) types.Predicate {
	return internValue(cx, &cx.predTab, b)
}

// PredicateBinder returns the binder behind a predicate handle.
func (cx *Context) PredicateBinder(p types.Predicate) types.Binder[types.PredicateKind] {
	return lookupValue(cx, &cx.predTab, p, "predicate")
}

// InternRegion returns the canonical handle for a region kind.
func (cx *Context) InternRegion(kind types.RegionKind) types.Region {
	return internValue(cx, &cx.regionTab, kind)
}

// RegionKind returns the payload behind a region handle.
func (cx *Context) RegionKind(r types.Region) types.RegionKind {
	return lookupValue(cx, &cx.regionTab, r, "region")
}

// InternConst returns the canonical handle for a constant kind.
func (cx *Context) InternConst(kind types.ConstKind) types.Const {
	return internValue(cx, &cx.constTab, kind)
}

// ConstKind returns the payload behind a constant handle.
func (cx *Context) ConstKind(c types.Const) types.ConstKind {
	return lookupValue(cx, &cx.constTab, c, "const")
}

// InternSymbol returns the canonical handle for a name.
func (cx *Context) InternSymbol(name string) types.SymbolName {
	return internValue(cx, &cx.symbolTab, name)
}

// Symbol returns the string behind a symbol handle.
func (cx *Context) Symbol(s types.SymbolName) string {
	return lookupValue(cx, &cx.symbolTab, s, "symbol")
}

// InternConstAlloc returns the canonical handle for constant allocation
// memory, keyed by content. The bytes are copied into arena storage on
// first insertion.
func (cx *Context) InternConstAlloc(alloc types.AllocBytes) types.ConstAlloc {
	key := allocKey(alloc)

	cx.mu.RLock()
	h, ok := cx.allocIndex[key]
	cx.mu.RUnlock()
	if ok {
		return h
	}

	cx.mu.Lock()
	defer cx.mu.Unlock()
	if h, ok := cx.allocIndex[key]; ok {
		return h
	}
	alloc.Bytes = cx.bytes.Alloc(alloc.Bytes)
	h = types.ConstAlloc(len(cx.allocData))
	cx.allocData = append(cx.allocData, alloc)
	cx.allocIndex[key] = h
	return h
}

// ConstAllocBytes returns the payload behind a constant allocation handle.
func (cx *Context) ConstAllocBytes(a types.ConstAlloc) types.AllocBytes {
	cx.mu.RLock()
	defer cx.mu.RUnlock()
	if int(a) >= len(cx.allocData) {
		panic("intern: dangling const allocation handle")
	}
	return cx.allocData[a]
}

// InternAdtDef returns the canonical handle for an ADT definition, keyed by
// its full content.
func (cx *Context) InternAdtDef(data types.AdtDefData) types.AdtDef {
	key := adtKey(data)

	cx.mu.RLock()
	h, ok := cx.adtIndex[key]
	cx.mu.RUnlock()
	if ok {
		return h
	}

	cx.mu.Lock()
	defer cx.mu.Unlock()
	if h, ok := cx.adtIndex[key]; ok {
		return h
	}
	data.Variants = append([]types.VariantDef(nil), data.Variants...)
	h = types.AdtDef(len(cx.adtData))
	cx.adtData = append(cx.adtData, data)
	cx.adtIndex[key] = h
	return h
}

// AdtData returns the payload behind an ADT definition handle. The result's
// Variants slice is shared and must not be mutated.
func (cx *Context) AdtData(d types.AdtDef) types.AdtDefData {
	cx.mu.RLock()
	defer cx.mu.RUnlock()
	if int(d) >= len(cx.adtData) {
		panic("intern: dangling adt definition handle")
	}
	return cx.adtData[d]
}

// AllocSummary stores a per-definition analysis summary in the context
// arena. Summaries are not content-addressed; every call allocates.
func (cx *Context) AllocSummary(s types.CheckSummary) *types.CheckSummary {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	s.NodeTypes = cx.handles.AllocSlice(s.NodeTypes)
	s.Obligations = cx.spans.AllocSlice(s.Obligations)
	return cx.summaries.Alloc(s)
}

// AllocPredicateSpans copies an obligation slice into arena storage.
func (cx *Context) AllocPredicateSpans(ps []types.PredicateSpan) []types.PredicateSpan {
	cx.mu.Lock()
	defer cx.mu.Unlock()
	return cx.spans.AllocSlice(ps)
}

// Counts reports how many distinct values each table holds.
type Counts struct {
	Types      int
	Predicates int
	Regions    int
	Consts     int
	Symbols    int
	AdtDefs    int
	Allocs     int
	Lists      int
}

// Counts returns the current table sizes. Intended for diagnostics output.
func (cx *Context) Counts() Counts {
	cx.mu.RLock()
	defer cx.mu.RUnlock()
	return Counts{
		Types:      len(cx.typeTab.items),
		Predicates: len(cx.predTab.items),
		Regions:    len(cx.regionTab.items),
		Consts:     len(cx.constTab.items),
		Symbols:    len(cx.symbolTab.items),
		AdtDefs:    len(cx.adtData),
		Allocs:     len(cx.allocData),
		Lists: len(cx.typeLists.lists) + len(cx.substLists.lists) +
			len(cx.predLists.lists) + len(cx.boundLists.lists) +
			len(cx.infoLists.lists) + len(cx.existLists.lists) +
			len(cx.projLists.lists),
	}
}
