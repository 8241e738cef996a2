package intern

import (
	"encoding/binary"

	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// List index keys are exact byte serializations of the element sequence.
// Child references are interned handles, so serializing the handles is a
// faithful structural key: equal bytes iff structurally equal lists.

func appendU32(b []byte, v uint32) []byte {
	return binary.LittleEndian.AppendUint32(b, v)
}

func appendU64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

func appendDefID(b []byte, d types.DefID) []byte {
	b = appendU32(b, d.Crate)
	return appendU32(b, d.Index)
}

func typeListKey(elems []types.Type) []byte {
	b := make([]byte, 0, 4*len(elems))
	for _, t := range elems {
		b = appendU32(b, uint32(t))
	}
	return b
}

func predListKey(elems []types.Predicate) []byte {
	b := make([]byte, 0, 4*len(elems))
	for _, p := range elems {
		b = appendU32(b, uint32(p))
	}
	return b
}

func substListKey(args []types.GenericArg) []byte {
	b := make([]byte, 0, 5*len(args))
	for _, a := range args {
		b = append(b, byte(a.Kind))
		b = appendU32(b, a.Index)
	}
	return b
}

func boundVarListKey(vars []types.BoundVariableKind) []byte {
	b := make([]byte, 0, 5*len(vars))
	for _, v := range vars {
		b = append(b, byte(v.BoundKindTag()))
		switch k := v.(type) {
		case types.BoundKindTy:
			b = appendU32(b, uint32(k.Name))
		case types.BoundKindRegion:
			b = appendU32(b, uint32(k.Name))
		case types.BoundKindConst:
			// no payload
		}
	}
	return b
}

func varInfoListKey(infos []types.CanonicalVarInfo) []byte {
	b := make([]byte, 0, 5*len(infos))
	for _, in := range infos {
		b = append(b, byte(in.Kind))
		b = appendU32(b, in.Universe)
	}
	return b
}

func existListKey(preds []types.Binder[types.ExistentialPredicate]) []byte {
	b := make([]byte, 0, 16*len(preds))
	for _, p := range preds {
		b = appendU32(b, uint32(p.Vars))
		b = append(b, byte(p.Body.ExistTag()))
		switch k := p.Body.(type) {
		case types.ExistTrait:
			b = appendDefID(b, k.Def)
			b = appendU32(b, uint32(k.Args))
		case types.ExistProjection:
			b = appendDefID(b, k.Def)
			b = appendU32(b, uint32(k.Args))
			b = append(b, byte(k.Term.Kind))
			b = appendU32(b, k.Term.Index)
		case types.ExistAutoTrait:
			b = appendDefID(b, k.Def)
		}
	}
	return b
}

func projListKey(elems []types.ProjectionElem) []byte {
	b := make([]byte, 0, 9*len(elems))
	for _, e := range elems {
		b = append(b, byte(e.ElemTag()))
		switch k := e.(type) {
		case types.DerefElem:
			// no payload
		case types.FieldElem:
			b = appendU32(b, k.Index)
			b = appendU32(b, uint32(k.Ty))
		case types.IndexElem:
			b = appendU32(b, k.Local)
		case types.SubsliceElem:
			b = appendU32(b, k.From)
			b = appendU32(b, k.To)
		}
	}
	return b
}

func adtKey(data types.AdtDefData) string {
	b := make([]byte, 0, 16+8*len(data.Variants))
	b = appendDefID(b, data.Def)
	b = appendU32(b, uint32(data.Name))
	b = appendU32(b, uint32(data.Flags))
	for _, v := range data.Variants {
		b = appendU32(b, uint32(v.Name))
		b = appendU32(b, uint32(v.Fields))
	}
	return string(b)
}

func allocKey(alloc types.AllocBytes) string {
	b := make([]byte, 0, len(alloc.Bytes)+10)
	b = appendU64(b, uint64(len(alloc.Bytes)))
	b = append(b, alloc.Bytes...)
	b = append(b, alloc.Align, byte(alloc.Mut))
	return string(b)
}
