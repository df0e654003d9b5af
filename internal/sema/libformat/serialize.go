package libformat

import (
	"github.com/tidwall/sjson"

	"github.com/scatha-lang/scatha/internal/sema"
)

// Serialize renders doc as the canonical textual descriptor for library.
// It builds the document incrementally through sjson.Set rather than a
// single json.Marshal so field order matches the schema's declaration
// order regardless of Go struct layout, matching how a hand-editable
// descriptor is expected to read.
func Serialize(library string, entries []sema.PublicEntityDesc) ([]byte, error) {
	doc := `{}`
	var err error
	if doc, err = sjson.Set(doc, "library", library); err != nil {
		return nil, err
	}
	for i, e := range entries {
		doc, err = setEntry(doc, fieldPath("entries", i), entityDescToEntry(e))
		if err != nil {
			return nil, err
		}
	}
	return []byte(doc), nil
}

func fieldPath(base string, i int) string {
	return base + "." + itoa(i)
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	n := i
	for n > 0 {
		pos--
		buf[pos] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[pos:])
}

func setEntry(doc, path string, e Entry) (string, error) {
	var err error
	set := func(p string, v any) {
		if err != nil {
			return
		}
		doc, err = sjson.Set(doc, path+"."+p, v)
	}
	set("name", e.Name)
	set("kind", e.Kind)
	if e.Type != nil {
		doc, err = setQualType(doc, path+".type", *e.Type)
	}
	for i, fn := range e.Functions {
		doc, err = setFunction(doc, path+".functions."+itoa(i), fn)
	}
	for i, f := range e.Fields {
		set(fieldPath("fields", i)+".name", f.Name)
		doc, err = setQualType(doc, path+"."+fieldPath("fields", i)+".type", f.Type)
		set(fieldPath("fields", i)+".offset", f.Offset)
	}
	for i, b := range e.Bases {
		set(fieldPath("bases", i), b)
	}
	for i, m := range e.Methods {
		doc, err = setFunction(doc, path+".methods."+itoa(i), m)
	}
	if e.Lifetime != nil {
		l := *e.Lifetime
		set("lifetime.defaultConstructor.kind", l.DefaultConstructor.Kind)
		set("lifetime.copyConstructor.kind", l.CopyConstructor.Kind)
		set("lifetime.moveConstructor.kind", l.MoveConstructor.Kind)
		set("lifetime.destructor.kind", l.Destructor.Kind)
	}
	for i, n := range e.Nested {
		doc, err = setEntry(doc, path+".nested."+itoa(i), n)
	}
	return doc, err
}

func setFunction(doc, path string, fn FunctionEntry) (string, error) {
	var err error
	doc, err = sjson.Set(doc, path+".name", fn.Name)
	if err != nil {
		return doc, err
	}
	for i, p := range fn.Params {
		doc, err = sjson.Set(doc, path+".params."+itoa(i)+".name", p.Name)
		if err != nil {
			return doc, err
		}
		doc, err = setQualType(doc, path+".params."+itoa(i)+".type", p.Type)
		if err != nil {
			return doc, err
		}
	}
	doc, err = setQualType(doc, path+".returnType", fn.ReturnType)
	if err != nil {
		return doc, err
	}
	doc, err = sjson.Set(doc, path+".extern", fn.Extern)
	if err != nil {
		return doc, err
	}
	doc, err = sjson.Set(doc, path+".variadic", fn.Variadic)
	if err != nil {
		return doc, err
	}
	doc, err = sjson.Set(doc, path+".isMethod", fn.IsMethod)
	if err != nil {
		return doc, err
	}
	return sjson.Set(doc, path+".receiverDyn", fn.ReceiverDyn)
}

func setQualType(doc, path string, q QualTypeEntry) (string, error) {
	var err error
	if q.Name != "" {
		if doc, err = sjson.Set(doc, path+".name", q.Name); err != nil {
			return doc, err
		}
	}
	if q.Ctor != "" {
		if doc, err = sjson.Set(doc, path+".ctor", q.Ctor); err != nil {
			return doc, err
		}
		if doc, err = setQualType(doc, path+".elem", *q.Elem); err != nil {
			return doc, err
		}
		if doc, err = sjson.Set(doc, path+".count", q.Count); err != nil {
			return doc, err
		}
	}
	if doc, err = sjson.Set(doc, path+".mut", q.Mut); err != nil {
		return doc, err
	}
	return sjson.Set(doc, path+".dyn", q.Dyn)
}

func entityDescToEntry(e sema.PublicEntityDesc) Entry {
	entry := Entry{Name: e.Name, Kind: kindName(e.Kind)}
	if e.Kind == sema.KindVariable || e.Kind == sema.KindProperty {
		qt := qualTypeDescToEntry(e.VarType)
		entry.Type = &qt
	}
	for _, fn := range e.Functions {
		entry.Functions = append(entry.Functions, functionDescToEntry(fn))
	}
	for _, f := range e.Fields {
		entry.Fields = append(entry.Fields, FieldEntry{Name: f.Name, Type: qualTypeDescToEntry(f.Type), Offset: f.Offset})
	}
	entry.Bases = e.Bases
	for _, m := range e.Methods {
		entry.Methods = append(entry.Methods, functionDescToEntry(m))
	}
	if e.Lifetime != nil {
		entry.Lifetime = &LifetimeEntry{
			DefaultConstructor: LifetimeOpEntry{Kind: opKindName(e.Lifetime.DefaultConstructor.Kind)},
			CopyConstructor:    LifetimeOpEntry{Kind: opKindName(e.Lifetime.CopyConstructor.Kind)},
			MoveConstructor:    LifetimeOpEntry{Kind: opKindName(e.Lifetime.MoveConstructor.Kind)},
			Destructor:         LifetimeOpEntry{Kind: opKindName(e.Lifetime.Destructor.Kind)},
		}
	}
	for _, n := range e.Nested {
		entry.Nested = append(entry.Nested, entityDescToEntry(n))
	}
	return entry
}

func functionDescToEntry(fn sema.FunctionDesc) FunctionEntry {
	out := FunctionEntry{Name: fn.Name, ReturnType: qualTypeDescToEntry(fn.ReturnType), Extern: fn.Extern, Variadic: fn.Variadic, IsMethod: fn.IsMethod, ReceiverDyn: fn.ReceiverDyn}
	for _, p := range fn.Params {
		out.Params = append(out.Params, ParamEntry{Name: p.Name, Type: qualTypeDescToEntry(p.Type)})
	}
	return out
}

func qualTypeDescToEntry(q sema.QualTypeDesc) QualTypeEntry {
	out := QualTypeEntry{Name: q.TypeName, Ctor: q.Ctor, Count: q.Count, Mut: q.Mut == sema.Mut, Dyn: q.Bind == sema.Dyn}
	if q.Elem != nil {
		elem := qualTypeDescToEntry(*q.Elem)
		out.Elem = &elem
	}
	return out
}

func kindName(k sema.EntityKind) string {
	switch k {
	case sema.KindVariable:
		return "variable"
	case sema.KindProperty:
		return "property"
	case sema.KindFunction:
		return "function"
	case sema.KindType:
		return "struct"
	default:
		return "unknown"
	}
}

func opKindName(k sema.LifetimeOpKind) string {
	switch k {
	case sema.OpTrivial:
		return "trivial"
	case sema.OpNontrivial:
		return "nontrivial"
	case sema.OpNontrivialInline:
		return "nontrivial_inline"
	default:
		return "deleted"
	}
}
