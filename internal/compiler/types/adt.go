package types

// AdtFlags carries boolean properties of an ADT definition.
type AdtFlags uint32

const (
	// AdtIsEnum marks a sum type (multiple variants).
	AdtIsEnum AdtFlags = 1 << iota
	// AdtIsResource marks a persisted resource definition.
	AdtIsResource
	// AdtNonExhaustive marks a definition that may grow variants.
	AdtNonExhaustive
)

// VariantDef is one variant of an ADT: its name and field types. For struct
// and resource definitions there is exactly one variant.
type VariantDef struct {
	Name   SymbolName
	Fields TypeList
}

// AdtDefData is the payload behind an AdtDef handle. It is interned by
// content so that re-decoding the same definition in one context yields one
// canonical handle.
type AdtDefData struct {
	Def      DefID
	Name     SymbolName
	Flags    AdtFlags
	Variants []VariantDef
}

// CanonicalVarKind classifies a canonicalized inference variable.
type CanonicalVarKind uint8

const (
	CanonicalKindTy CanonicalVarKind = iota
	CanonicalKindRegion
	CanonicalKindConst
)

// CanonicalVarInfo describes one canonicalized inference variable: its kind
// and the universe it lives in.
type CanonicalVarInfo struct {
	Kind     CanonicalVarKind
	Universe uint32
}
