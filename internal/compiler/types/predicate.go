package types

// Binder pairs a value with the ordered list of variables it binds. The
// pairing is part of the value's identity: two binders are equal only when
// both the bound-variable list and the body are equal. Binder is comparable
// whenever T is, so binder-wrapped payloads can key intern tables.
type Binder[T comparable] struct {
	Vars BoundVarList
	Body T
}

// BindWithVars constructs a binder over body with the given variable list.
func BindWithVars[T comparable](body T, vars BoundVarList) Binder[T] {
	return Binder[T]{Vars: vars, Body: body}
}

// BoundKindTag is the discriminant of a BoundVariableKind.
type BoundKindTag uint8

const (
	BoundKindTagTy BoundKindTag = iota
	BoundKindTagRegion
	BoundKindTagConst
)

// BoundVariableKind describes one variable introduced by a binder.
type BoundVariableKind interface {
	BoundKindTag() BoundKindTag
}

// BoundKindTy is a bound type variable.
type BoundKindTy struct{ Name SymbolName }

// BoundKindRegion is a bound region variable.
type BoundKindRegion struct{ Name SymbolName }

// BoundKindConst is a bound const variable.
type BoundKindConst struct{}

func (BoundKindTy) BoundKindTag() BoundKindTag     { return BoundKindTagTy }
func (BoundKindRegion) BoundKindTag() BoundKindTag { return BoundKindTagRegion }
func (BoundKindConst) BoundKindTag() BoundKindTag  { return BoundKindTagConst }

// PredTag is the discriminant of a PredicateKind variant. Tags are part of
// the wire format and must stay below codec.ShorthandOffset.
type PredTag uint8

const (
	PredTagImplements PredTag = iota
	PredTagWellFormed
	PredTagTypeOutlives
	PredTagRegionOutlives
	PredTagProjection
	PredTagConstEvaluatable
)

// PredicateKind is the variant payload of a predicate body (the part inside
// the binder). All implementations are comparable value structs.
type PredicateKind interface {
	PredTag() PredTag
}

// ImplementsPred asserts that a type implements a trait under the given
// substitution. The self type is Args' first argument.
type ImplementsPred struct {
	Trait DefID
	Args  SubstList
}

// WellFormedPred asserts that a generic argument is well-formed.
type WellFormedPred struct{ Arg GenericArg }

// TypeOutlivesPred asserts that a type outlives a region.
type TypeOutlivesPred struct {
	Ty     Type
	Region Region
}

// RegionOutlivesPred asserts that region A outlives region B.
type RegionOutlivesPred struct {
	A Region
	B Region
}

// ProjectionPred equates an associated projection with a term.
type ProjectionPred struct {
	Def  DefID
	Args SubstList
	Term GenericArg
}

// ConstEvaluatablePred asserts that a constant can be evaluated.
type ConstEvaluatablePred struct{ Const Const }

func (ImplementsPred) PredTag() PredTag       { return PredTagImplements }
func (WellFormedPred) PredTag() PredTag       { return PredTagWellFormed }
func (TypeOutlivesPred) PredTag() PredTag     { return PredTagTypeOutlives }
func (RegionOutlivesPred) PredTag() PredTag   { return PredTagRegionOutlives }
func (ProjectionPred) PredTag() PredTag       { return PredTagProjection }
func (ConstEvaluatablePred) PredTag() PredTag { return PredTagConstEvaluatable }

// ExistTag is the discriminant of an ExistentialPredicate.
type ExistTag uint8

const (
	ExistTagTrait ExistTag = iota
	ExistTagProjection
	ExistTagAutoTrait
)

// ExistentialPredicate is one bound of a dynamic (existential) type. It is
// "existential" because the self type is erased; Args therefore excludes it.
type ExistentialPredicate interface {
	ExistTag() ExistTag
}

// ExistTrait is a principal trait bound.
type ExistTrait struct {
	Def  DefID
	Args SubstList
}

// ExistProjection constrains an associated projection of the erased self
// type.
type ExistProjection struct {
	Def  DefID
	Args SubstList
	Term GenericArg
}

// ExistAutoTrait is an auto trait bound, carrying no arguments.
type ExistAutoTrait struct{ Def DefID }

func (ExistTrait) ExistTag() ExistTag      { return ExistTagTrait }
func (ExistProjection) ExistTag() ExistTag { return ExistTagProjection }
func (ExistAutoTrait) ExistTag() ExistTag  { return ExistTagAutoTrait }
