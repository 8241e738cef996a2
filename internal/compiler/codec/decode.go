package codec

import "github.com/conduit-lang/typestream/internal/compiler/types"

// Typed decode bindings, mirroring the encode side. Every decoded payload
// is re-materialized through the interning context, so decoding a shorthand
// and decoding the full payload yield the same canonical handle.

// DecodeType reads a type, following a back-reference if present.
func (d *Decoder) DecodeType() (t types.Type, err error) {
	defer catch(&err)
	return d.decodeType(), nil
}

// DecodePredicate reads a binder-wrapped predicate.
func (d *Decoder) DecodePredicate() (p types.Predicate, err error) {
	defer catch(&err)
	return d.decodePredicate(), nil
}

// DecodeRegion reads a region.
func (d *Decoder) DecodeRegion() (r types.Region, err error) {
	defer catch(&err)
	return d.decodeRegion(), nil
}

// DecodeConst reads a constant.
func (d *Decoder) DecodeConst() (c types.Const, err error) {
	defer catch(&err)
	return d.decodeConst(), nil
}

// DecodeConstAlloc reads constant allocation memory, interned by content.
func (d *Decoder) DecodeConstAlloc() (a types.ConstAlloc, err error) {
	defer catch(&err)
	return d.decodeConstAlloc(), nil
}

// DecodeAdtDef reads an ADT definition, interned by content.
func (d *Decoder) DecodeAdtDef() (ad types.AdtDef, err error) {
	defer catch(&err)
	return d.decodeAdtDef(), nil
}

// DecodeSymbol reads a symbol and re-interns it in this context.
func (d *Decoder) DecodeSymbol() (s types.SymbolName, err error) {
	defer catch(&err)
	return d.decodeSymbol(), nil
}

// DecodeTypeList reads a type list and interns the collected sequence.
func (d *Decoder) DecodeTypeList() (l types.TypeList, err error) {
	defer catch(&err)
	return d.decodeTypeList(), nil
}

// DecodeSubsts reads a substitution list.
func (d *Decoder) DecodeSubsts() (l types.SubstList, err error) {
	defer catch(&err)
	return d.decodeSubsts(), nil
}

// DecodePredList reads a predicate list and interns the collected sequence.
func (d *Decoder) DecodePredList() (l types.PredList, err error) {
	defer catch(&err)
	return d.decodePredList(), nil
}

// DecodeBoundVars reads a bound-variable kind list.
func (d *Decoder) DecodeBoundVars() (l types.BoundVarList, err error) {
	defer catch(&err)
	return d.decodeBoundVars(), nil
}

// DecodeVarInfos reads a canonical variable info list.
func (d *Decoder) DecodeVarInfos() (l types.VarInfoList, err error) {
	defer catch(&err)
	return d.decodeVarInfos(), nil
}

// DecodeExistentials reads a poly existential predicate list.
func (d *Decoder) DecodeExistentials() (l types.ExistentialList, err error) {
	defer catch(&err)
	return d.decodeExistentials(), nil
}

// DecodePlace reads a place and interns its projection path.
func (d *Decoder) DecodePlace() (p types.Place, err error) {
	defer catch(&err)
	return d.decodePlace(), nil
}

// DecodeSummary reads a per-definition analysis summary into the context
// arena. Summaries are never interned.
func (d *Decoder) DecodeSummary() (s *types.CheckSummary, err error) {
	defer catch(&err)
	return d.decodeSummary(), nil
}

// DecodeAllocID reads an allocation id via the session hooks.
func (d *Decoder) DecodeAllocID() (id types.AllocID, err error) {
	defer catch(&err)
	return d.decodeAllocID(), nil
}

func (d *Decoder) decodeType() types.Type {
	if d.positionedAtShorthand() {
		target := d.readShorthand()
		d.shorthandHits++
		if t, ok := d.shorthandTypes[target]; ok {
			return t
		}
		var t types.Type
		d.WithPosition(target, func() {
			t = d.decodeType()
		})
		d.shorthandTypes[target] = t
		return t
	}
	return d.cx.InternType(d.decodeTypeKind())
}

func (d *Decoder) decodeTypeKind() types.TypeKind {
	at := d.pos
	tag := types.TypeTag(d.ReadU8())
	switch tag {
	case types.TagBool:
		return types.BoolTy{}
	case types.TagInt:
		return types.IntTy{Bits: d.ReadU8()}
	case types.TagUint:
		return types.UintTy{Bits: d.ReadU8()}
	case types.TagFloat:
		return types.FloatTy{Bits: d.ReadU8()}
	case types.TagStr:
		return types.StrTy{}
	case types.TagChar:
		return types.CharTy{}
	case types.TagAdt:
		def := d.decodeAdtDef()
		return types.AdtTy{Def: def, Args: d.decodeSubsts()}
	case types.TagArray:
		elem := d.decodeType()
		return types.ArrayTy{Elem: elem, Len: d.decodeConst()}
	case types.TagSlice:
		return types.SliceTy{Elem: d.decodeType()}
	case types.TagMap:
		key := d.decodeType()
		return types.MapTy{Key: key, Value: d.decodeType()}
	case types.TagTuple:
		return types.TupleTy{Elems: d.decodeTypeList()}
	case types.TagRef:
		region := d.decodeRegion()
		elem := d.decodeType()
		return types.RefTy{Region: region, Elem: elem, Mut: types.Mutability(d.ReadU8())}
	case types.TagFn:
		params := d.decodeTypeList()
		return types.FnTy{Params: params, Ret: d.decodeType()}
	case types.TagDynamic:
		preds := d.decodeExistentials()
		return types.DynamicTy{Preds: preds, Region: d.decodeRegion()}
	case types.TagParam:
		index := d.ReadU32()
		return types.ParamTy{Index: index, Name: d.decodeSymbol()}
	case types.TagBoundVar:
		debruijn := d.ReadU32()
		return types.BoundVarTy{Debruijn: debruijn, Var: d.ReadU32()}
	case types.TagInfer:
		return types.InferTy{Var: d.ReadU32()}
	case types.TagNever:
		return types.NeverTy{}
	case types.TagError:
		return types.ErrorTy{}
	default:
		fail(at, "invalid type discriminant %d", tag)
		return nil
	}
}

func (d *Decoder) decodePredicate() types.Predicate {
	// The bound-variable list is always present and never shorthanded;
	// only the body may be a back-reference.
	vars := d.decodeBoundVars()
	var body types.PredicateKind
	if d.positionedAtShorthand() {
		target := d.readShorthand()
		d.shorthandHits++
		d.WithPosition(target, func() {
			body = d.decodePredicateKind()
		})
	} else {
		body = d.decodePredicateKind()
	}
	return d.cx.InternPredicate(types.BindWithVars(body, vars))
}

func (d *Decoder) decodePredicateKind() types.PredicateKind {
	at := d.pos
	tag := types.PredTag(d.ReadU8())
	switch tag {
	case types.PredTagImplements:
		def := d.decodeDefID()
		return types.ImplementsPred{Trait: def, Args: d.decodeSubsts()}
	case types.PredTagWellFormed:
		return types.WellFormedPred{Arg: d.decodeGenericArg()}
	case types.PredTagTypeOutlives:
		ty := d.decodeType()
		return types.TypeOutlivesPred{Ty: ty, Region: d.decodeRegion()}
	case types.PredTagRegionOutlives:
		a := d.decodeRegion()
		return types.RegionOutlivesPred{A: a, B: d.decodeRegion()}
	case types.PredTagProjection:
		def := d.decodeDefID()
		args := d.decodeSubsts()
		return types.ProjectionPred{Def: def, Args: args, Term: d.decodeGenericArg()}
	case types.PredTagConstEvaluatable:
		return types.ConstEvaluatablePred{Const: d.decodeConst()}
	default:
		fail(at, "invalid predicate discriminant %d", tag)
		return nil
	}
}

func (d *Decoder) decodeRegion() types.Region {
	at := d.pos
	tag := types.RegionTag(d.ReadU8())
	var kind types.RegionKind
	switch tag {
	case types.RegionTagStatic:
		kind = types.StaticRegion{}
	case types.RegionTagErased:
		kind = types.ErasedRegion{}
	case types.RegionTagParam:
		index := d.ReadU32()
		kind = types.ParamRegion{Index: index, Name: d.decodeSymbol()}
	case types.RegionTagBound:
		debruijn := d.ReadU32()
		kind = types.BoundRegion{Debruijn: debruijn, Var: d.ReadU32()}
	case types.RegionTagVar:
		kind = types.VarRegion{ID: d.ReadU32()}
	default:
		fail(at, "invalid region discriminant %d", tag)
	}
	return d.cx.InternRegion(kind)
}

func (d *Decoder) decodeConst() types.Const {
	at := d.pos
	tag := types.ConstTag(d.ReadU8())
	var kind types.ConstKind
	switch tag {
	case types.ConstTagParam:
		index := d.ReadU32()
		kind = types.ParamConst{Index: index, Name: d.decodeSymbol()}
	case types.ConstTagValue:
		ty := d.decodeType()
		kind = types.ValueConst{Ty: ty, Bits: d.ReadU64()}
	case types.ConstTagByRef:
		ty := d.decodeType()
		kind = types.ByRefConst{Ty: ty, Alloc: d.decodeConstAlloc()}
	case types.ConstTagUnevaluated:
		def := d.decodeDefID()
		kind = types.UnevaluatedConst{Def: def, Args: d.decodeSubsts()}
	case types.ConstTagError:
		kind = types.ErrorConst{}
	default:
		fail(at, "invalid const discriminant %d", tag)
	}
	return d.cx.InternConst(kind)
}

func (d *Decoder) decodeConstAlloc() types.ConstAlloc {
	n := d.ReadLen()
	bytes := d.ReadRawBytes(n)
	align := d.ReadU8()
	mut := types.Mutability(d.ReadU8())
	return d.cx.InternConstAlloc(types.AllocBytes{Bytes: bytes, Align: align, Mut: mut})
}

func (d *Decoder) decodeAdtDef() types.AdtDef {
	def := d.decodeDefID()
	name := d.decodeSymbol()
	flags := types.AdtFlags(d.ReadU32())
	n := d.ReadLen()
	variants := make([]types.VariantDef, 0, n)
	for i := 0; i < n; i++ {
		vname := d.decodeSymbol()
		variants = append(variants, types.VariantDef{Name: vname, Fields: d.decodeTypeList()})
	}
	return d.cx.InternAdtDef(types.AdtDefData{Def: def, Name: name, Flags: flags, Variants: variants})
}

func (d *Decoder) decodeSymbol() types.SymbolName {
	return d.cx.InternSymbol(d.ReadStr())
}

func (d *Decoder) decodeDefID() types.DefID {
	crate := d.ReadU32()
	return types.DefID{Crate: crate, Index: d.ReadU32()}
}

func (d *Decoder) decodeGenericArg() types.GenericArg {
	at := d.pos
	switch kind := types.ArgKind(d.ReadU8()); kind {
	case types.ArgType:
		return types.TypeArg(d.decodeType())
	case types.ArgRegion:
		return types.RegionArg(d.decodeRegion())
	case types.ArgConst:
		return types.ConstArg(d.decodeConst())
	default:
		fail(at, "invalid generic arg discriminant %d", kind)
		return types.GenericArg{}
	}
}

func (d *Decoder) decodeTypeList() types.TypeList {
	n := d.ReadLen()
	elems := make([]types.Type, 0, n)
	for i := 0; i < n; i++ {
		elems = append(elems, d.decodeType())
	}
	return d.cx.MkTypeList(elems)
}

func (d *Decoder) decodeSubsts() types.SubstList {
	n := d.ReadLen()
	args := make([]types.GenericArg, 0, n)
	for i := 0; i < n; i++ {
		args = append(args, d.decodeGenericArg())
	}
	return d.cx.MkSubsts(args)
}

func (d *Decoder) decodePredList() types.PredList {
	n := d.ReadLen()
	preds := make([]types.Predicate, 0, n)
	for i := 0; i < n; i++ {
		preds = append(preds, d.decodePredicate())
	}
	return d.cx.MkPredList(preds)
}

func (d *Decoder) decodeBoundVars() types.BoundVarList {
	n := d.ReadLen()
	vars := make([]types.BoundVariableKind, 0, n)
	for i := 0; i < n; i++ {
		at := d.pos
		switch tag := types.BoundKindTag(d.ReadU8()); tag {
		case types.BoundKindTagTy:
			vars = append(vars, types.BoundKindTy{Name: d.decodeSymbol()})
		case types.BoundKindTagRegion:
			vars = append(vars, types.BoundKindRegion{Name: d.decodeSymbol()})
		case types.BoundKindTagConst:
			vars = append(vars, types.BoundKindConst{})
		default:
			fail(at, "invalid bound variable discriminant %d", tag)
		}
	}
	return d.cx.MkBoundVariableKinds(vars)
}

func (d *Decoder) decodeVarInfos() types.VarInfoList {
	n := d.ReadLen()
	infos := make([]types.CanonicalVarInfo, 0, n)
	for i := 0; i < n; i++ {
		kind := types.CanonicalVarKind(d.ReadU8())
		infos = append(infos, types.CanonicalVarInfo{Kind: kind, Universe: d.ReadU32()})
	}
	return d.cx.InternCanonicalVarInfos(infos)
}

func (d *Decoder) decodeExistentials() types.ExistentialList {
	n := d.ReadLen()
	preds := make([]types.Binder[types.ExistentialPredicate], 0, n)
	for i := 0; i < n; i++ {
		vars := d.decodeBoundVars()
		preds = append(preds, types.BindWithVars(d.decodeExistentialPredicate(), vars))
	}
	return d.cx.MkPolyExistentialPredicates(preds)
}

func (d *Decoder) decodeExistentialPredicate() types.ExistentialPredicate {
	at := d.pos
	switch tag := types.ExistTag(d.ReadU8()); tag {
	case types.ExistTagTrait:
		def := d.decodeDefID()
		return types.ExistTrait{Def: def, Args: d.decodeSubsts()}
	case types.ExistTagProjection:
		def := d.decodeDefID()
		args := d.decodeSubsts()
		return types.ExistProjection{Def: def, Args: args, Term: d.decodeGenericArg()}
	case types.ExistTagAutoTrait:
		return types.ExistAutoTrait{Def: d.decodeDefID()}
	default:
		fail(at, "invalid existential predicate discriminant %d", tag)
		return nil
	}
}

func (d *Decoder) decodePlace() types.Place {
	local := d.ReadU32()
	n := d.ReadLen()
	elems := make([]types.ProjectionElem, 0, n)
	for i := 0; i < n; i++ {
		elems = append(elems, d.decodeProjectionElem())
	}
	return types.Place{Local: local, Projection: d.cx.MkPlaceElems(elems)}
}

func (d *Decoder) decodeProjectionElem() types.ProjectionElem {
	at := d.pos
	switch tag := types.ElemTag(d.ReadU8()); tag {
	case types.ElemTagDeref:
		return types.DerefElem{}
	case types.ElemTagField:
		index := d.ReadU32()
		return types.FieldElem{Index: index, Ty: d.decodeType()}
	case types.ElemTagIndex:
		return types.IndexElem{Local: d.ReadU32()}
	case types.ElemTagSubslice:
		from := d.ReadU32()
		return types.SubsliceElem{From: from, To: d.ReadU32()}
	default:
		fail(at, "invalid projection discriminant %d", tag)
		return nil
	}
}

func (d *Decoder) decodeSummary() *types.CheckSummary {
	def := d.decodeDefID()
	nTypes := d.ReadLen()
	nodeTypes := make([]types.Type, 0, nTypes)
	for i := 0; i < nTypes; i++ {
		nodeTypes = append(nodeTypes, d.decodeType())
	}
	nObs := d.ReadLen()
	obligations := make([]types.PredicateSpan, 0, nObs)
	for i := 0; i < nObs; i++ {
		pred := d.decodePredicate()
		lo := d.ReadU32()
		obligations = append(obligations, types.PredicateSpan{
			Pred: pred,
			Span: types.Span{Lo: lo, Hi: d.ReadU32()},
		})
	}
	flags := d.ReadU32()
	return d.cx.AllocSummary(types.CheckSummary{
		Def:         def,
		NodeTypes:   nodeTypes,
		Obligations: obligations,
		Flags:       flags,
	})
}

func (d *Decoder) decodeAllocID() types.AllocID {
	id, err := d.hooks.DecodeAllocID(d)
	if err != nil {
		fail(d.pos, "session hook failed decoding alloc id: %v", err)
	}
	return id
}
