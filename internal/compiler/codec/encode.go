package codec

import (
	"fmt"

	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// Typed encode bindings: exactly one canonical encode routine per entity
// kind. Types and binder-wrapped predicates go through the shorthand layer;
// every other kind encodes as a plain recursive payload. The set of
// bindings is closed: there is no reflective fallback, so a kind without a
// binding cannot be encoded at all.

// EncodeType writes a type, emitting a back-reference when this session
// already encoded a structurally equal type.
func (e *Encoder) EncodeType(t types.Type) (err error) {
	defer catch(&err)
	e.encodeType(t)
	return nil
}

// EncodePredicate writes a binder-wrapped predicate. The bound-variable
// list is always fully encoded; only the body participates in shorthands.
func (e *Encoder) EncodePredicate(p types.Predicate) (err error) {
	defer catch(&err)
	e.encodePredicate(p)
	return nil
}

// EncodeRegion writes a region payload.
func (e *Encoder) EncodeRegion(r types.Region) (err error) {
	defer catch(&err)
	e.encodeRegion(r)
	return nil
}

// EncodeConst writes a constant payload.
func (e *Encoder) EncodeConst(c types.Const) (err error) {
	defer catch(&err)
	e.encodeConst(c)
	return nil
}

// EncodeConstAlloc writes constant allocation memory.
func (e *Encoder) EncodeConstAlloc(a types.ConstAlloc) (err error) {
	defer catch(&err)
	e.encodeConstAlloc(a)
	return nil
}

// EncodeAdtDef writes an ADT definition.
func (e *Encoder) EncodeAdtDef(d types.AdtDef) (err error) {
	defer catch(&err)
	e.encodeAdtDef(d)
	return nil
}

// EncodeSymbol writes a symbol as its string; the decoder re-interns it.
func (e *Encoder) EncodeSymbol(s types.SymbolName) (err error) {
	defer catch(&err)
	e.encodeSymbol(s)
	return nil
}

// EncodeTypeList writes a length-prefixed list of types.
func (e *Encoder) EncodeTypeList(l types.TypeList) (err error) {
	defer catch(&err)
	e.encodeTypeList(l)
	return nil
}

// EncodeSubsts writes a substitution list.
func (e *Encoder) EncodeSubsts(l types.SubstList) (err error) {
	defer catch(&err)
	e.encodeSubsts(l)
	return nil
}

// EncodePredList writes a length-prefixed list of predicates. Each element
// goes through the predicate binding, so shared bodies shorthand as usual.
func (e *Encoder) EncodePredList(l types.PredList) (err error) {
	defer catch(&err)
	e.encodePredList(l)
	return nil
}

// EncodeBoundVars writes a bound-variable kind list.
func (e *Encoder) EncodeBoundVars(l types.BoundVarList) (err error) {
	defer catch(&err)
	e.encodeBoundVars(l)
	return nil
}

// EncodeVarInfos writes a canonical variable info list.
func (e *Encoder) EncodeVarInfos(l types.VarInfoList) (err error) {
	defer catch(&err)
	e.encodeVarInfos(l)
	return nil
}

// EncodeExistentials writes a poly existential predicate list.
func (e *Encoder) EncodeExistentials(l types.ExistentialList) (err error) {
	defer catch(&err)
	e.encodeExistentials(l)
	return nil
}

// EncodePlace writes a place (local plus projection path).
func (e *Encoder) EncodePlace(p types.Place) (err error) {
	defer catch(&err)
	e.encodePlace(p)
	return nil
}

// EncodeSummary writes a per-definition analysis summary.
func (e *Encoder) EncodeSummary(s *types.CheckSummary) (err error) {
	defer catch(&err)
	e.encodeSummary(s)
	return nil
}

// EncodeAllocID writes an allocation id via the session hooks.
func (e *Encoder) EncodeAllocID(id types.AllocID) (err error) {
	defer catch(&err)
	e.encodeAllocID(id)
	return nil
}

func (e *Encoder) encodeType(t types.Type) {
	kind := e.cx.TypeKind(t)
	encodeWithShorthand(e, t, e.typeShorthands, uint8(kind.TypeTag()), func() {
		e.encodeTypeKind(kind)
	})
}

func (e *Encoder) encodeTypeKind(kind types.TypeKind) {
	e.EmitU8(uint8(kind.TypeTag()))
	switch k := kind.(type) {
	case types.BoolTy, types.StrTy, types.CharTy, types.NeverTy, types.ErrorTy:
		// no payload
	case types.IntTy:
		e.EmitU8(k.Bits)
	case types.UintTy:
		e.EmitU8(k.Bits)
	case types.FloatTy:
		e.EmitU8(k.Bits)
	case types.AdtTy:
		e.encodeAdtDef(k.Def)
		e.encodeSubsts(k.Args)
	case types.ArrayTy:
		e.encodeType(k.Elem)
		e.encodeConst(k.Len)
	case types.SliceTy:
		e.encodeType(k.Elem)
	case types.MapTy:
		e.encodeType(k.Key)
		e.encodeType(k.Value)
	case types.TupleTy:
		e.encodeTypeList(k.Elems)
	case types.RefTy:
		e.encodeRegion(k.Region)
		e.encodeType(k.Elem)
		e.EmitU8(uint8(k.Mut))
	case types.FnTy:
		e.encodeTypeList(k.Params)
		e.encodeType(k.Ret)
	case types.DynamicTy:
		e.encodeExistentials(k.Preds)
		e.encodeRegion(k.Region)
	case types.ParamTy:
		e.EmitU32(k.Index)
		e.encodeSymbol(k.Name)
	case types.BoundVarTy:
		e.EmitU32(k.Debruijn)
		e.EmitU32(k.Var)
	case types.InferTy:
		e.EmitU32(k.Var)
	default:
		panic(fmt.Sprintf("codec: no encode binding for type kind %T", kind))
	}
}

func (e *Encoder) encodePredicate(p types.Predicate) {
	binder := e.cx.PredicateBinder(p)
	// Bound variables are always written in full; shorthand logic applies
	// to the body only, so a shared body still decodes under the correct
	// binder.
	e.encodeBoundVars(binder.Vars)
	body := binder.Body
	encodeWithShorthand(e, body, e.predShorthands, uint8(body.PredTag()), func() {
		e.encodePredicateKind(body)
	})
}

func (e *Encoder) encodePredicateKind(kind types.PredicateKind) {
	e.EmitU8(uint8(kind.PredTag()))
	switch k := kind.(type) {
	case types.ImplementsPred:
		e.encodeDefID(k.Trait)
		e.encodeSubsts(k.Args)
	case types.WellFormedPred:
		e.encodeGenericArg(k.Arg)
	case types.TypeOutlivesPred:
		e.encodeType(k.Ty)
		e.encodeRegion(k.Region)
	case types.RegionOutlivesPred:
		e.encodeRegion(k.A)
		e.encodeRegion(k.B)
	case types.ProjectionPred:
		e.encodeDefID(k.Def)
		e.encodeSubsts(k.Args)
		e.encodeGenericArg(k.Term)
	case types.ConstEvaluatablePred:
		e.encodeConst(k.Const)
	default:
		panic(fmt.Sprintf("codec: no encode binding for predicate kind %T", kind))
	}
}

func (e *Encoder) encodeRegion(r types.Region) {
	kind := e.cx.RegionKind(r)
	e.EmitU8(uint8(kind.RegionTag()))
	switch k := kind.(type) {
	case types.StaticRegion, types.ErasedRegion:
		// no payload
	case types.ParamRegion:
		e.EmitU32(k.Index)
		e.encodeSymbol(k.Name)
	case types.BoundRegion:
		e.EmitU32(k.Debruijn)
		e.EmitU32(k.Var)
	case types.VarRegion:
		e.EmitU32(k.ID)
	default:
		panic(fmt.Sprintf("codec: no encode binding for region kind %T", kind))
	}
}

func (e *Encoder) encodeConst(c types.Const) {
	kind := e.cx.ConstKind(c)
	e.EmitU8(uint8(kind.ConstTag()))
	switch k := kind.(type) {
	case types.ParamConst:
		e.EmitU32(k.Index)
		e.encodeSymbol(k.Name)
	case types.ValueConst:
		e.encodeType(k.Ty)
		e.EmitU64(k.Bits)
	case types.ByRefConst:
		e.encodeType(k.Ty)
		e.encodeConstAlloc(k.Alloc)
	case types.UnevaluatedConst:
		e.encodeDefID(k.Def)
		e.encodeSubsts(k.Args)
	case types.ErrorConst:
		// no payload
	default:
		panic(fmt.Sprintf("codec: no encode binding for const kind %T", kind))
	}
}

func (e *Encoder) encodeConstAlloc(a types.ConstAlloc) {
	alloc := e.cx.ConstAllocBytes(a)
	e.EmitLen(len(alloc.Bytes))
	e.EmitRawBytes(alloc.Bytes)
	e.EmitU8(alloc.Align)
	e.EmitU8(uint8(alloc.Mut))
}

func (e *Encoder) encodeAdtDef(d types.AdtDef) {
	data := e.cx.AdtData(d)
	e.encodeDefID(data.Def)
	e.encodeSymbol(data.Name)
	e.EmitU32(uint32(data.Flags))
	e.EmitLen(len(data.Variants))
	for _, v := range data.Variants {
		e.encodeSymbol(v.Name)
		e.encodeTypeList(v.Fields)
	}
}

func (e *Encoder) encodeSymbol(s types.SymbolName) {
	e.EmitStr(e.cx.Symbol(s))
}

func (e *Encoder) encodeDefID(d types.DefID) {
	e.EmitU32(d.Crate)
	e.EmitU32(d.Index)
}

func (e *Encoder) encodeGenericArg(a types.GenericArg) {
	e.EmitU8(uint8(a.Kind))
	switch a.Kind {
	case types.ArgType:
		e.encodeType(a.AsType())
	case types.ArgRegion:
		e.encodeRegion(a.AsRegion())
	case types.ArgConst:
		e.encodeConst(a.AsConst())
	default:
		panic(fmt.Sprintf("codec: no encode binding for generic arg kind %d", a.Kind))
	}
}

func (e *Encoder) encodeTypeList(l types.TypeList) {
	elems := e.cx.TypeListElems(l)
	e.EmitLen(len(elems))
	for _, t := range elems {
		e.encodeType(t)
	}
}

func (e *Encoder) encodeSubsts(l types.SubstList) {
	args := e.cx.SubstElems(l)
	e.EmitLen(len(args))
	for _, a := range args {
		e.encodeGenericArg(a)
	}
}

func (e *Encoder) encodePredList(l types.PredList) {
	preds := e.cx.PredListElems(l)
	e.EmitLen(len(preds))
	for _, p := range preds {
		e.encodePredicate(p)
	}
}

func (e *Encoder) encodeBoundVars(l types.BoundVarList) {
	vars := e.cx.BoundVariableKinds(l)
	e.EmitLen(len(vars))
	for _, v := range vars {
		e.EmitU8(uint8(v.BoundKindTag()))
		switch k := v.(type) {
		case types.BoundKindTy:
			e.encodeSymbol(k.Name)
		case types.BoundKindRegion:
			e.encodeSymbol(k.Name)
		case types.BoundKindConst:
			// no payload
		default:
			panic(fmt.Sprintf("codec: no encode binding for bound variable kind %T", v))
		}
	}
}

func (e *Encoder) encodeVarInfos(l types.VarInfoList) {
	infos := e.cx.CanonicalVarInfos(l)
	e.EmitLen(len(infos))
	for _, in := range infos {
		e.EmitU8(uint8(in.Kind))
		e.EmitU32(in.Universe)
	}
}

func (e *Encoder) encodeExistentials(l types.ExistentialList) {
	preds := e.cx.PolyExistentialPredicates(l)
	e.EmitLen(len(preds))
	for _, p := range preds {
		// Binder with a plain body: bound variables first, then the
		// existential payload, never shorthanded.
		e.encodeBoundVars(p.Vars)
		e.encodeExistentialPredicate(p.Body)
	}
}

func (e *Encoder) encodeExistentialPredicate(p types.ExistentialPredicate) {
	e.EmitU8(uint8(p.ExistTag()))
	switch k := p.(type) {
	case types.ExistTrait:
		e.encodeDefID(k.Def)
		e.encodeSubsts(k.Args)
	case types.ExistProjection:
		e.encodeDefID(k.Def)
		e.encodeSubsts(k.Args)
		e.encodeGenericArg(k.Term)
	case types.ExistAutoTrait:
		e.encodeDefID(k.Def)
	default:
		panic(fmt.Sprintf("codec: no encode binding for existential predicate %T", p))
	}
}

func (e *Encoder) encodePlace(p types.Place) {
	e.EmitU32(p.Local)
	elems := e.cx.PlaceElems(p.Projection)
	e.EmitLen(len(elems))
	for _, el := range elems {
		e.encodeProjectionElem(el)
	}
}

func (e *Encoder) encodeProjectionElem(el types.ProjectionElem) {
	e.EmitU8(uint8(el.ElemTag()))
	switch k := el.(type) {
	case types.DerefElem:
		// no payload
	case types.FieldElem:
		e.EmitU32(k.Index)
		e.encodeType(k.Ty)
	case types.IndexElem:
		e.EmitU32(k.Local)
	case types.SubsliceElem:
		e.EmitU32(k.From)
		e.EmitU32(k.To)
	default:
		panic(fmt.Sprintf("codec: no encode binding for projection elem %T", el))
	}
}

func (e *Encoder) encodeSummary(s *types.CheckSummary) {
	e.encodeDefID(s.Def)
	e.EmitLen(len(s.NodeTypes))
	for _, t := range s.NodeTypes {
		e.encodeType(t)
	}
	e.EmitLen(len(s.Obligations))
	for _, ob := range s.Obligations {
		e.encodePredicate(ob.Pred)
		e.EmitU32(ob.Span.Lo)
		e.EmitU32(ob.Span.Hi)
	}
	e.EmitU32(s.Flags)
}

func (e *Encoder) encodeAllocID(id types.AllocID) {
	if err := e.hooks.EncodeAllocID(e, id); err != nil {
		fail(e.Position(), "session hook failed encoding alloc id: %v", err)
	}
}
