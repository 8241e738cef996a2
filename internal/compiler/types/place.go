package types

// ElemTag is the discriminant of a ProjectionElem.
type ElemTag uint8

const (
	ElemTagDeref ElemTag = iota
	ElemTagField
	ElemTagIndex
	ElemTagSubslice
)

// ProjectionElem is one step of a place projection (a path from a local
// into its interior).
type ProjectionElem interface {
	ElemTag() ElemTag
}

// DerefElem follows a reference.
type DerefElem struct{}

// FieldElem selects a field; Ty is the field's type after substitution.
type FieldElem struct {
	Index uint32
	Ty    Type
}

// IndexElem indexes by the value of another local.
type IndexElem struct{ Local uint32 }

// SubsliceElem selects the range [From, len-To) of a slice.
type SubsliceElem struct {
	From uint32
	To   uint32
}

func (DerefElem) ElemTag() ElemTag    { return ElemTagDeref }
func (FieldElem) ElemTag() ElemTag    { return ElemTagField }
func (IndexElem) ElemTag() ElemTag    { return ElemTagIndex }
func (SubsliceElem) ElemTag() ElemTag { return ElemTagSubslice }

// Place is a local together with an interned projection path into it.
type Place struct {
	Local      uint32
	Projection ProjectionList
}

// Span is a half-open source range. The serialization core moves spans
// around but never interprets them.
type Span struct {
	Lo uint32
	Hi uint32
}

// PredicateSpan pairs an obligation with the source span that produced it.
// Slices of these are arena-allocated on decode, not interned.
type PredicateSpan struct {
	Pred Predicate
	Span Span
}

// CheckSummary is a per-definition analysis result. Summaries are
// arena-only: decoding one allocates it in the context arena without any
// content-addressing, since no two definitions share a summary.
type CheckSummary struct {
	Def         DefID
	NodeTypes   []Type
	Obligations []PredicateSpan
	Flags       uint32
}
