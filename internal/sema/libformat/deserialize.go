package libformat

import (
	"github.com/tidwall/gjson"

	"github.com/scatha-lang/scatha/internal/sema"
)

// Deserialize parses a descriptor document previously produced by
// Serialize back into the same sema.PublicEntityDesc tree, ready for
// sema.SymbolTable.ImportNativeLibrary.
func Deserialize(doc []byte) ([]sema.PublicEntityDesc, string, error) {
	root := gjson.ParseBytes(doc)
	library := root.Get("library").String()
	var out []sema.PublicEntityDesc
	for _, e := range root.Get("entries").Array() {
		out = append(out, entryToDesc(e))
	}
	return out, library, nil
}

func entryToDesc(e gjson.Result) sema.PublicEntityDesc {
	d := sema.PublicEntityDesc{
		Name: e.Get("name").String(),
		Kind: kindFromName(e.Get("kind").String()),
	}
	if t := e.Get("type"); t.Exists() {
		d.VarType = qualTypeFromJSON(t)
	}
	for _, fn := range e.Get("functions").Array() {
		d.Functions = append(d.Functions, functionFromJSON(fn))
	}
	for _, f := range e.Get("fields").Array() {
		d.Fields = append(d.Fields, sema.FieldDesc{
			Name:   f.Get("name").String(),
			Type:   qualTypeFromJSON(f.Get("type")),
			Offset: int(f.Get("offset").Int()),
		})
	}
	for _, b := range e.Get("bases").Array() {
		d.Bases = append(d.Bases, b.String())
	}
	for _, m := range e.Get("methods").Array() {
		d.Methods = append(d.Methods, functionFromJSON(m))
	}
	if l := e.Get("lifetime"); l.Exists() {
		d.Lifetime = &sema.LifetimeDesc{
			DefaultConstructor: sema.LifetimeOpDesc{Kind: opKindFromName(l.Get("defaultConstructor.kind").String())},
			CopyConstructor:    sema.LifetimeOpDesc{Kind: opKindFromName(l.Get("copyConstructor.kind").String())},
			MoveConstructor:    sema.LifetimeOpDesc{Kind: opKindFromName(l.Get("moveConstructor.kind").String())},
			Destructor:         sema.LifetimeOpDesc{Kind: opKindFromName(l.Get("destructor.kind").String())},
		}
	}
	for _, n := range e.Get("nested").Array() {
		d.Nested = append(d.Nested, entryToDesc(n))
	}
	return d
}

func functionFromJSON(fn gjson.Result) sema.FunctionDesc {
	out := sema.FunctionDesc{
		Name:        fn.Get("name").String(),
		ReturnType:  qualTypeFromJSON(fn.Get("returnType")),
		Extern:      fn.Get("extern").Bool(),
		Variadic:    fn.Get("variadic").Bool(),
		IsMethod:    fn.Get("isMethod").Bool(),
		ReceiverDyn: fn.Get("receiverDyn").Bool(),
	}
	for _, p := range fn.Get("params").Array() {
		out.Params = append(out.Params, sema.ParamDesc{Name: p.Get("name").String(), Type: qualTypeFromJSON(p.Get("type"))})
	}
	return out
}

func qualTypeFromJSON(q gjson.Result) sema.QualTypeDesc {
	out := sema.QualTypeDesc{
		TypeName: q.Get("name").String(),
		Ctor:     q.Get("ctor").String(),
		Count:    int(q.Get("count").Int()),
	}
	if q.Get("mut").Bool() {
		out.Mut = sema.Mut
	}
	if q.Get("dyn").Bool() {
		out.Bind = sema.Dyn
	}
	if elem := q.Get("elem"); elem.Exists() {
		e := qualTypeFromJSON(elem)
		out.Elem = &e
	}
	return out
}

func kindFromName(s string) sema.EntityKind {
	switch s {
	case "variable":
		return sema.KindVariable
	case "property":
		return sema.KindProperty
	case "function":
		return sema.KindFunction
	case "struct", "protocol":
		return sema.KindType
	default:
		return sema.KindPoison
	}
}

func opKindFromName(s string) sema.LifetimeOpKind {
	switch s {
	case "trivial":
		return sema.OpTrivial
	case "nontrivial":
		return sema.OpNontrivial
	case "nontrivial_inline":
		return sema.OpNontrivialInline
	default:
		return sema.OpDeleted
	}
}
