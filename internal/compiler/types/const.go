package types

// ConstTag is the discriminant of a ConstKind variant.
type ConstTag uint8

const (
	ConstTagParam ConstTag = iota
	ConstTagValue
	ConstTagByRef
	ConstTagUnevaluated
	ConstTagError
)

// ConstKind is the variant payload behind a Const handle.
type ConstKind interface {
	ConstTag() ConstTag
}

// ParamConst is a generic const parameter.
type ParamConst struct {
	Index uint32
	Name  SymbolName
}

// ValueConst is an evaluated scalar constant: the raw bits plus the type
// that interprets them.
type ValueConst struct {
	Ty   Type
	Bits uint64
}

// ByRefConst is an evaluated constant too large for a scalar; its memory
// lives in a content-addressed constant allocation.
type ByRefConst struct {
	Ty    Type
	Alloc ConstAlloc
}

// UnevaluatedConst references a const definition that has not been
// evaluated yet, together with its substitution.
type UnevaluatedConst struct {
	Def  DefID
	Args SubstList
}

// ErrorConst is the poisoned constant produced after a reported error.
type ErrorConst struct{}

func (ParamConst) ConstTag() ConstTag       { return ConstTagParam }
func (ValueConst) ConstTag() ConstTag       { return ConstTagValue }
func (ByRefConst) ConstTag() ConstTag       { return ConstTagByRef }
func (UnevaluatedConst) ConstTag() ConstTag { return ConstTagUnevaluated }
func (ErrorConst) ConstTag() ConstTag       { return ConstTagError }

// AllocBytes is the payload of a constant allocation: raw memory with its
// alignment and mutability. Bytes is arena-owned once interned.
type AllocBytes struct {
	Bytes []byte
	Align uint8
	Mut   Mutability
}
