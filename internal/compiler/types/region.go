package types

// RegionTag is the discriminant of a RegionKind variant.
type RegionTag uint8

const (
	RegionTagStatic RegionTag = iota
	RegionTagErased
	RegionTagParam
	RegionTagBound
	RegionTagVar
)

// RegionKind is the variant payload behind a Region handle.
type RegionKind interface {
	RegionTag() RegionTag
}

// StaticRegion is the whole-program region.
type StaticRegion struct{}

// ErasedRegion stands in once region identity no longer matters.
type ErasedRegion struct{}

// ParamRegion is a generic region parameter.
type ParamRegion struct {
	Index uint32
	Name  SymbolName
}

// BoundRegion is a region variable bound by an enclosing binder.
type BoundRegion struct {
	Debruijn uint32
	Var      uint32
}

// VarRegion is an unresolved region inference variable.
type VarRegion struct{ ID uint32 }

func (StaticRegion) RegionTag() RegionTag { return RegionTagStatic }
func (ErasedRegion) RegionTag() RegionTag { return RegionTagErased }
func (ParamRegion) RegionTag() RegionTag  { return RegionTagParam }
func (BoundRegion) RegionTag() RegionTag  { return RegionTagBound }
func (VarRegion) RegionTag() RegionTag    { return RegionTagVar }
