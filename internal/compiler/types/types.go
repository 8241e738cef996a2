// Package types defines the interned entity model for the compiler's type
// layer: small copyable handles, the variant payloads ("kinds") behind them,
// binders, and the auxiliary value shapes the serialization core moves
// around. Handles are indices into tables owned by an intern.Context; two
// handles from the same context are equal exactly when their payloads are
// structurally equal, because the context canonicalizes every payload on
// insertion.
package types

// Handle types. The zero value of each handle is a valid index only once the
// owning context has interned at least one payload of that kind; handles are
// meaningless without the context that produced them.
type (
	// Type is an interned type handle.
	Type uint32

	// Predicate is an interned, binder-wrapped predicate handle.
	Predicate uint32

	// Region is an interned region (lifetime/storage scope) handle.
	Region uint32

	// Const is an interned constant handle.
	Const uint32

	// ConstAlloc is an interned, content-addressed constant allocation.
	ConstAlloc uint32

	// AdtDef is an interned algebraic-data-type definition handle.
	AdtDef uint32

	// SymbolName is an interned string handle.
	SymbolName uint32

	// TypeList is an interned list of types.
	TypeList uint32

	// SubstList is an interned list of generic arguments (a substitution).
	SubstList uint32

	// PredList is an interned list of predicates.
	PredList uint32

	// BoundVarList is an interned list of bound-variable kinds.
	BoundVarList uint32

	// VarInfoList is an interned list of canonical variable infos.
	VarInfoList uint32

	// ExistentialList is an interned list of binder-wrapped existential
	// predicates.
	ExistentialList uint32

	// ProjectionList is an interned list of place projection elements.
	ProjectionList uint32
)

// AllocID identifies a memory allocation across encode/decode sessions.
// Its wire representation is owned by the surrounding session (see
// codec.SessionHooks); this core treats it as opaque.
type AllocID uint64

// DefID identifies a definition (resource, trait, function, ...) by crate
// and per-crate index.
type DefID struct {
	Crate uint32
	Index uint32
}

// Mutability distinguishes shared from mutable references and allocations.
type Mutability uint8

const (
	// Immutable is a shared, read-only view.
	Immutable Mutability = iota
	// Mutable allows writes.
	Mutable
)

// TypeTag is the discriminant of a TypeKind variant. Tags are part of the
// wire format and must stay below codec.ShorthandOffset.
type TypeTag uint8

const (
	TagBool TypeTag = iota
	TagInt
	TagUint
	TagFloat
	TagStr
	TagChar
	TagAdt
	TagArray
	TagSlice
	TagMap
	TagTuple
	TagRef
	TagFn
	TagDynamic
	TagParam
	TagBoundVar
	TagInfer
	TagNever
	TagError
)

// TypeKind is the variant payload behind a Type handle. Every
// implementation is a comparable value struct so kinds can key intern and
// shorthand tables directly; child references are themselves interned
// handles, which makes struct equality structural equality.
type TypeKind interface {
	// TypeTag returns the variant discriminant.
	TypeTag() TypeTag
}

// BoolTy is the boolean type.
type BoolTy struct{}

// IntTy is a signed integer type. Bits is 8, 16, 32, or 64; 0 means the
// platform-default width.
type IntTy struct{ Bits uint8 }

// UintTy is an unsigned integer type, with the same width convention as
// IntTy.
type UintTy struct{ Bits uint8 }

// FloatTy is a floating-point type of 32 or 64 bits.
type FloatTy struct{ Bits uint8 }

// StrTy is the string slice type.
type StrTy struct{}

// CharTy is a unicode scalar value.
type CharTy struct{}

// AdtTy is a nominal type (resource, struct, enum) applied to generic
// arguments.
type AdtTy struct {
	Def  AdtDef
	Args SubstList
}

// ArrayTy is a fixed-length array; the length is a constant so it can be
// generic.
type ArrayTy struct {
	Elem Type
	Len  Const
}

// SliceTy is a dynamically sized view of elements.
type SliceTy struct{ Elem Type }

// MapTy is a hash map type.
type MapTy struct {
	Key   Type
	Value Type
}

// TupleTy is an anonymous product of types.
type TupleTy struct{ Elems TypeList }

// RefTy is a reference into a region.
type RefTy struct {
	Region Region
	Elem   Type
	Mut    Mutability
}

// FnTy is a function pointer type.
type FnTy struct {
	Params TypeList
	Ret    Type
}

// DynamicTy is an existential ("dyn trait") type: a list of binder-wrapped
// existential predicates plus the region the trait object lives in.
type DynamicTy struct {
	Preds  ExistentialList
	Region Region
}

// ParamTy is a generic type parameter.
type ParamTy struct {
	Index uint32
	Name  SymbolName
}

// BoundVarTy is a type variable bound by an enclosing binder, addressed by
// de Bruijn index and variable position.
type BoundVarTy struct {
	Debruijn uint32
	Var      uint32
}

// InferTy is an unresolved inference variable.
type InferTy struct{ Var uint32 }

// NeverTy is the diverging type.
type NeverTy struct{}

// ErrorTy is the poisoned type produced after a reported error.
type ErrorTy struct{}

func (BoolTy) TypeTag() TypeTag     { return TagBool }
func (IntTy) TypeTag() TypeTag      { return TagInt }
func (UintTy) TypeTag() TypeTag     { return TagUint }
func (FloatTy) TypeTag() TypeTag    { return TagFloat }
func (StrTy) TypeTag() TypeTag      { return TagStr }
func (CharTy) TypeTag() TypeTag     { return TagChar }
func (AdtTy) TypeTag() TypeTag      { return TagAdt }
func (ArrayTy) TypeTag() TypeTag    { return TagArray }
func (SliceTy) TypeTag() TypeTag    { return TagSlice }
func (MapTy) TypeTag() TypeTag      { return TagMap }
func (TupleTy) TypeTag() TypeTag    { return TagTuple }
func (RefTy) TypeTag() TypeTag      { return TagRef }
func (FnTy) TypeTag() TypeTag       { return TagFn }
func (DynamicTy) TypeTag() TypeTag  { return TagDynamic }
func (ParamTy) TypeTag() TypeTag    { return TagParam }
func (BoundVarTy) TypeTag() TypeTag { return TagBoundVar }
func (InferTy) TypeTag() TypeTag    { return TagInfer }
func (NeverTy) TypeTag() TypeTag    { return TagNever }
func (ErrorTy) TypeTag() TypeTag    { return TagError }

// ArgKind tags a GenericArg.
type ArgKind uint8

const (
	ArgType ArgKind = iota
	ArgRegion
	ArgConst
)

// GenericArg is one element of a substitution: a type, region, or constant
// handle behind a small tag. It is a flat comparable struct so substitution
// lists can be interned and used as map keys.
type GenericArg struct {
	Kind  ArgKind
	Index uint32
}

// TypeArg wraps a type handle as a generic argument.
func TypeArg(t Type) GenericArg { return GenericArg{Kind: ArgType, Index: uint32(t)} }

// RegionArg wraps a region handle as a generic argument.
func RegionArg(r Region) GenericArg { return GenericArg{Kind: ArgRegion, Index: uint32(r)} }

// ConstArg wraps a constant handle as a generic argument.
func ConstArg(c Const) GenericArg { return GenericArg{Kind: ArgConst, Index: uint32(c)} }

// AsType returns the type handle; valid only when Kind == ArgType.
func (g GenericArg) AsType() Type { return Type(g.Index) }

// AsRegion returns the region handle; valid only when Kind == ArgRegion.
func (g GenericArg) AsRegion() Region { return Region(g.Index) }

// AsConst returns the constant handle; valid only when Kind == ArgConst.
func (g GenericArg) AsConst() Const { return Const(g.Index) }
