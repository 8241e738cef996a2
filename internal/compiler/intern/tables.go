package intern

import "github.com/conduit-lang/typestream/internal/compiler/types"

// table is a deduplicating append-only store for comparable payloads. The
// slice assigns dense handles in insertion order; the map answers
// lookup-or-insert. Locking is the owning Context's job.
type table[K comparable, H ~uint32] struct {
	items []K
	index map[K]H
}

func newTable[K comparable, H ~uint32]() table[K, H] {
	return table[K, H]{index: make(map[K]H)}
}

// internValue is the lookup-or-insert path shared by every scalar table.
// The read path takes only the shared lock; a miss upgrades to the
// exclusive lock and re-checks, so concurrent first insertions of the same
// payload still converge on one handle.
func internValue[K comparable, H ~uint32](cx *Context, t *table[K, H], k K) H {
	cx.mu.RLock()
	h, ok := t.index[k]
	cx.mu.RUnlock()
	if ok {
		return h
	}

	cx.mu.Lock()
	defer cx.mu.Unlock()
	if h, ok := t.index[k]; ok {
		return h
	}
	h = H(len(t.items))
	t.items = append(t.items, k)
	t.index[k] = h
	return h
}

// lookupValue resolves a handle back to its payload. A handle that was not
// produced by this context is a defect, not an input error.
func lookupValue[K comparable, H ~uint32](cx *Context, t *table[K, H], h H, what string) K {
	cx.mu.RLock()
	defer cx.mu.RUnlock()
	if int(h) >= len(t.items) {
		panic("intern: dangling " + what + " handle")
	}
	return t.items[h]
}

// listTable stores interned element sequences. Sequences are keyed by an
// exact byte serialization of their elements, so equality is structural and
// collision-free; the Go runtime hashes the key string.
type listTable[E any, H ~uint32] struct {
	lists [][]E
	index map[string]H
}

func newListTable[E any, H ~uint32]() listTable[E, H] {
	return listTable[E, H]{index: make(map[string]H)}
}

func internList[E any, H ~uint32](cx *Context, t *listTable[E, H], elems []E, key func([]E) []byte) H {
	k := string(key(elems))

	cx.mu.RLock()
	h, ok := t.index[k]
	cx.mu.RUnlock()
	if ok {
		return h
	}

	cx.mu.Lock()
	defer cx.mu.Unlock()
	if h, ok := t.index[k]; ok {
		return h
	}
	stored := append([]E(nil), elems...)
	h = H(len(t.lists))
	t.lists = append(t.lists, stored)
	t.index[k] = h
	return h
}

func lookupList[E any, H ~uint32](cx *Context, t *listTable[E, H], h H, what string) []E {
	cx.mu.RLock()
	defer cx.mu.RUnlock()
	if int(h) >= len(t.lists) {
		panic("intern: dangling " + what + " handle")
	}
	return t.lists[h]
}

// MkTypeList interns a sequence of types. The empty sequence interns to one
// canonical empty list.
func (cx *Context) MkTypeList(elems []types.Type) types.TypeList {
	return internList(cx, &cx.typeLists, elems, typeListKey)
}

// TypeListElems returns the elements of an interned type list. The slice is
// shared and must not be mutated.
func (cx *Context) TypeListElems(l types.TypeList) []types.Type {
	return lookupList(cx, &cx.typeLists, l, "type list")
}

// MkSubsts interns a substitution (a sequence of generic arguments).
func (cx *Context) MkSubsts(args []types.GenericArg) types.SubstList {
	return internList(cx, &cx.substLists, args, substListKey)
}

// SubstElems returns the elements of an interned substitution.
func (cx *Context) SubstElems(l types.SubstList) []types.GenericArg {
	return lookupList(cx, &cx.substLists, l, "substitution")
}

// MkPredList interns a sequence of predicates.
func (cx *Context) MkPredList(preds []types.Predicate) types.PredList {
	return internList(cx, &cx.predLists, preds, predListKey)
}

// PredListElems returns the elements of an interned predicate list.
func (cx *Context) PredListElems(l types.PredList) []types.Predicate {
	return lookupList(cx, &cx.predLists, l, "predicate list")
}

// MkBoundVariableKinds interns a binder's bound-variable list.
func (cx *Context) MkBoundVariableKinds(vars []types.BoundVariableKind) types.BoundVarList {
	return internList(cx, &cx.boundLists, vars, boundVarListKey)
}

// BoundVariableKinds returns the elements of an interned bound-variable
// list.
func (cx *Context) BoundVariableKinds(l types.BoundVarList) []types.BoundVariableKind {
	return lookupList(cx, &cx.boundLists, l, "bound variable list")
}

// InternCanonicalVarInfos interns a canonical variable info list.
func (cx *Context) InternCanonicalVarInfos(infos []types.CanonicalVarInfo) types.VarInfoList {
	return internList(cx, &cx.infoLists, infos, varInfoListKey)
}

// CanonicalVarInfos returns the elements of an interned info list.
func (cx *Context) CanonicalVarInfos(l types.VarInfoList) []types.CanonicalVarInfo {
	return lookupList(cx, &cx.infoLists, l, "canonical var info list")
}

// MkPolyExistentialPredicates interns a list of binder-wrapped existential
// predicates (the bounds of a dynamic type).
func (cx *Context) MkPolyExistentialPredicates(preds []types.Binder[types.ExistentialPredicate]) types.ExistentialList {
	return internList(cx, &cx.existLists, preds, existListKey)
}

// PolyExistentialPredicates returns the elements of an interned existential
// predicate list.
func (cx *Context) PolyExistentialPredicates(l types.ExistentialList) []types.Binder[types.ExistentialPredicate] {
	return lookupList(cx, &cx.existLists, l, "existential predicate list")
}

// MkPlaceElems interns a place projection path.
func (cx *Context) MkPlaceElems(elems []types.ProjectionElem) types.ProjectionList {
	return internList(cx, &cx.projLists, elems, projListKey)
}

// PlaceElems returns the elements of an interned projection path.
func (cx *Context) PlaceElems(l types.ProjectionList) []types.ProjectionElem {
	return lookupList(cx, &cx.projLists, l, "projection list")
}
