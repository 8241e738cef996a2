package intern

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/typestream/internal/compiler/types"
)

// FormatType renders a type for diagnostics and the dump tool. The output
// is human-oriented and not part of any wire format.
func (cx *Context) FormatType(t types.Type) string {
	switch k := cx.TypeKind(t).(type) {
	case types.BoolTy:
		return "bool"
	case types.IntTy:
		if k.Bits == 0 {
			return "int"
		}
		return fmt.Sprintf("int%d", k.Bits)
	case types.UintTy:
		if k.Bits == 0 {
			return "uint"
		}
		return fmt.Sprintf("uint%d", k.Bits)
	case types.FloatTy:
		return fmt.Sprintf("float%d", k.Bits)
	case types.StrTy:
		return "string"
	case types.CharTy:
		return "char"
	case types.AdtTy:
		name := cx.Symbol(cx.AdtData(k.Def).Name)
		args := cx.formatSubsts(k.Args)
		if args == "" {
			return name
		}
		return name + "<" + args + ">"
	case types.ArrayTy:
		return fmt.Sprintf("[%s; %s]", cx.FormatType(k.Elem), cx.FormatConst(k.Len))
	case types.SliceTy:
		return "[" + cx.FormatType(k.Elem) + "]"
	case types.MapTy:
		return fmt.Sprintf("hash<%s, %s>", cx.FormatType(k.Key), cx.FormatType(k.Value))
	case types.TupleTy:
		elems := cx.TypeListElems(k.Elems)
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = cx.FormatType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case types.RefTy:
		mut := ""
		if k.Mut == types.Mutable {
			mut = "mut "
		}
		return "&" + cx.FormatRegion(k.Region) + " " + mut + cx.FormatType(k.Elem)
	case types.FnTy:
		params := cx.TypeListElems(k.Params)
		parts := make([]string, len(params))
		for i, p := range params {
			parts[i] = cx.FormatType(p)
		}
		return "fn(" + strings.Join(parts, ", ") + ") -> " + cx.FormatType(k.Ret)
	case types.DynamicTy:
		preds := cx.PolyExistentialPredicates(k.Preds)
		parts := make([]string, len(preds))
		for i, p := range preds {
			parts[i] = cx.formatExistential(p.Body)
		}
		return "dyn " + strings.Join(parts, " + ")
	case types.ParamTy:
		return cx.Symbol(k.Name)
	case types.BoundVarTy:
		return fmt.Sprintf("^%d.%d", k.Debruijn, k.Var)
	case types.InferTy:
		return fmt.Sprintf("?%d", k.Var)
	case types.NeverTy:
		return "!"
	case types.ErrorTy:
		return "{type error}"
	default:
		return fmt.Sprintf("{unknown type tag %d}", cx.TypeKind(t).TypeTag())
	}
}

// FormatRegion renders a region handle.
func (cx *Context) FormatRegion(r types.Region) string {
	switch k := cx.RegionKind(r).(type) {
	case types.StaticRegion:
		return "'static"
	case types.ErasedRegion:
		return "'_"
	case types.ParamRegion:
		return "'" + cx.Symbol(k.Name)
	case types.BoundRegion:
		return fmt.Sprintf("'^%d.%d", k.Debruijn, k.Var)
	case types.VarRegion:
		return fmt.Sprintf("'?%d", k.ID)
	default:
		return "'{unknown}"
	}
}

// FormatConst renders a constant handle.
func (cx *Context) FormatConst(c types.Const) string {
	switch k := cx.ConstKind(c).(type) {
	case types.ParamConst:
		return cx.Symbol(k.Name)
	case types.ValueConst:
		return fmt.Sprintf("%d", k.Bits)
	case types.ByRefConst:
		return fmt.Sprintf("{alloc #%d}", k.Alloc)
	case types.UnevaluatedConst:
		return fmt.Sprintf("{unevaluated %d:%d}", k.Def.Crate, k.Def.Index)
	case types.ErrorConst:
		return "{const error}"
	default:
		return "{unknown const}"
	}
}

// FormatPredicate renders a predicate handle.
func (cx *Context) FormatPredicate(p types.Predicate) string {
	b := cx.PredicateBinder(p)
	var body string
	switch k := b.Body.(type) {
	case types.ImplementsPred:
		body = fmt.Sprintf("implements(%d:%d)<%s>", k.Trait.Crate, k.Trait.Index, cx.formatSubsts(k.Args))
	case types.WellFormedPred:
		body = "well_formed(" + cx.formatArg(k.Arg) + ")"
	case types.TypeOutlivesPred:
		body = cx.FormatType(k.Ty) + ": " + cx.FormatRegion(k.Region)
	case types.RegionOutlivesPred:
		body = cx.FormatRegion(k.A) + ": " + cx.FormatRegion(k.B)
	case types.ProjectionPred:
		body = fmt.Sprintf("projection(%d:%d)<%s> == %s", k.Def.Crate, k.Def.Index, cx.formatSubsts(k.Args), cx.formatArg(k.Term))
	case types.ConstEvaluatablePred:
		body = "const_evaluatable(" + cx.FormatConst(k.Const) + ")"
	default:
		body = "{unknown predicate}"
	}
	if vars := cx.BoundVariableKinds(b.Vars); len(vars) > 0 {
		return fmt.Sprintf("for<%d> %s", len(vars), body)
	}
	return body
}

func (cx *Context) formatSubsts(l types.SubstList) string {
	args := cx.SubstElems(l)
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = cx.formatArg(a)
	}
	return strings.Join(parts, ", ")
}

func (cx *Context) formatArg(a types.GenericArg) string {
	switch a.Kind {
	case types.ArgType:
		return cx.FormatType(a.AsType())
	case types.ArgRegion:
		return cx.FormatRegion(a.AsRegion())
	case types.ArgConst:
		return cx.FormatConst(a.AsConst())
	default:
		return "{unknown arg}"
	}
}

func (cx *Context) formatExistential(p types.ExistentialPredicate) string {
	switch k := p.(type) {
	case types.ExistTrait:
		return fmt.Sprintf("trait(%d:%d)<%s>", k.Def.Crate, k.Def.Index, cx.formatSubsts(k.Args))
	case types.ExistProjection:
		return fmt.Sprintf("projection(%d:%d) == %s", k.Def.Crate, k.Def.Index, cx.formatArg(k.Term))
	case types.ExistAutoTrait:
		return fmt.Sprintf("auto(%d:%d)", k.Def.Crate, k.Def.Index)
	default:
		return "{unknown bound}"
	}
}
