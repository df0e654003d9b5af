package sema

import "github.com/scatha-lang/scatha/internal/token"

// PublicEntityDesc is the in-memory shape of one public entity as carried
// by a native library's textual symbol-table descriptor (see
// internal/sema/libformat for the JSON codec implementing this schema).
// It is deliberately flat so the codec package never needs to reach back
// into SymbolTable internals.
type PublicEntityDesc struct {
	Name string
	Kind EntityKind

	// Variable/Property
	VarType QualTypeDesc

	// Function (one entry per overload sharing Name)
	Functions []FunctionDesc

	// Struct/Protocol
	Fields   []FieldDesc
	Bases    []string // names of base/conformed types, resolved within this descriptor batch
	Methods  []FunctionDesc
	Lifetime *LifetimeDesc

	// Nested scope (re-exported namespace), recursively materialized.
	Nested []PublicEntityDesc
}

// QualTypeDesc is a serializable QualType: the object type is named by a
// small grammar (primitive name, or a structural constructor over another
// QualTypeDesc) so canonicalization can run again on import.
type QualTypeDesc struct {
	TypeName string // "int32", "bool", "MyStruct", ...
	Elem     *QualTypeDesc
	Count    int // for array constructions; Dynamic (-1) for dynamic arrays
	Ctor     string // "", "ptr", "unique", "ref", "array"
	Mut      Mutability
	Bind     BindMode
}

type FieldDesc struct {
	Name   string
	Type   QualTypeDesc
	Offset int
}

type ParamDesc struct {
	Name string
	Type QualTypeDesc
}

type FunctionDesc struct {
	Name       string
	Params     []ParamDesc
	ReturnType QualTypeDesc
	Extern     bool
	Variadic   bool
	IsMethod   bool
	ReceiverDyn bool
}

type LifetimeOpDesc struct {
	Kind LifetimeOpKind
}

type LifetimeDesc struct {
	DefaultConstructor LifetimeOpDesc
	CopyConstructor    LifetimeOpDesc
	MoveConstructor    LifetimeOpDesc
	Destructor         LifetimeOpDesc
}

// resolveQualType turns a QualTypeDesc back into a live QualType, building
// any structural wrapper (pointer/reference/array) through st so the
// result participates in canonicalization exactly like a freshly analyzed
// type would.
func resolveQualType(st *SymbolTable, scope *Scope, d QualTypeDesc) QualType {
	var base QualType
	switch d.Ctor {
	case "ptr":
		inner := resolveQualType(st, scope, *d.Elem)
		return QualType{Type: st.PointerType(inner), Mut: d.Mut, Bind: d.Bind}
	case "unique":
		inner := resolveQualType(st, scope, *d.Elem)
		return QualType{Type: st.UniquePointerType(inner), Mut: d.Mut, Bind: d.Bind}
	case "ref":
		inner := resolveQualType(st, scope, *d.Elem)
		return QualType{Type: st.ReferenceType(inner), Mut: d.Mut, Bind: d.Bind}
	case "array":
		inner := resolveQualType(st, scope, *d.Elem)
		return QualType{Type: st.ArrayType(inner, d.Count), Mut: d.Mut, Bind: d.Bind}
	default:
		base = QualType{Type: lookupNamedType(st, scope, d.TypeName), Mut: d.Mut, Bind: d.Bind}
		return base
	}
}

func lookupNamedType(st *SymbolTable, scope *Scope, name string) ObjectType {
	switch name {
	case "void":
		return st.Void()
	case "bool":
		return st.Bool()
	case "byte":
		return st.Byte()
	case "nullptr_t":
		return st.NullPtr()
	}
	for s := scope; s != nil; s = s.Parent {
		for _, e := range s.localLookup(name) {
			if ot, ok := Resolve(e).Self().(ObjectType); ok {
				return ot
			}
		}
	}
	return nil // unresolved name (e.g. a later entry of the same batch); no later pass fills it in
}

// materializePublicEntity instantiates one descriptor entry into lib,
// declaring it exactly as the analyzer would have declared the original
// definition.
func materializePublicEntity(st *SymbolTable, lib *Scope, d PublicEntityDesc) {
	prevCur := st.cur
	st.cur = lib
	defer func() { st.cur = prevCur }()

	switch d.Kind {
	case KindVariable, KindProperty:
		v := st.DeclareVariable(d.Name, resolveQualType(st, lib, d.VarType), false, token.Position{}, nil)
		v.Kind = d.Kind
	case KindFunction:
		for _, fd := range d.Functions {
			f := st.DeclareFunction(d.Name, token.Position{}, nil)
			params := make([]*Variable, len(fd.Params))
			for i, p := range fd.Params {
				params[i] = &Variable{Entity: Entity{ID: newEntityID(), Kind: KindVariable, Name: p.Name, Parent: &f.Entity}, Type: resolveQualType(st, lib, p.Type), IsParam: true, Index: i}
				params[i].SetSelf(params[i])
			}
			st.SetFunctionType(f, params, resolveQualType(st, lib, fd.ReturnType))
			f.Extern = fd.Extern
			f.Variadic = fd.Variadic
			f.IsMethod = fd.IsMethod
			f.ReceiverDyn = fd.ReceiverDyn
		}
	case KindType:
		st2 := &StructType{Entity: st.newTypeEntity(d.Name)}
		st2.Name = d.Name
		lib.declare(d.Name, &st2.Entity)
		for _, fld := range d.Fields {
			st2.Fields = append(st2.Fields, Field{Name: fld.Name, Type: resolveQualType(st, lib, fld.Type), Offset: fld.Offset})
		}
		for _, m := range d.Methods {
			f := &Function{Entity: Entity{ID: newEntityID(), Kind: KindFunction, Name: m.Name, Parent: lib}, IsMethod: true, ReceiverDyn: m.ReceiverDyn, Receiver: st2}
			f.SetSelf(f)
			params := make([]*Variable, len(m.Params))
			for i, p := range m.Params {
				params[i] = &Variable{Entity: Entity{ID: newEntityID(), Kind: KindVariable, Name: p.Name, Parent: &f.Entity}, Type: resolveQualType(st, lib, p.Type), IsParam: true, Index: i}
				params[i].SetSelf(params[i])
			}
			f.Params = params
			f.ReturnType = resolveQualType(st, lib, m.ReturnType)
			st2.Methods = append(st2.Methods, f)
		}
		if d.Lifetime != nil {
			st2.Lifetime = &LifetimeMetadata{
				DefaultConstructor: LifetimeOperation{Kind: d.Lifetime.DefaultConstructor.Kind},
				CopyConstructor:    LifetimeOperation{Kind: d.Lifetime.CopyConstructor.Kind},
				MoveConstructor:    LifetimeOperation{Kind: d.Lifetime.MoveConstructor.Kind},
				Destructor:         LifetimeOperation{Kind: d.Lifetime.Destructor.Kind},
			}
		}
		st2.ComputeLayout()
		st2.VTable = BuildVTable(st2)
	}

	for _, nested := range d.Nested {
		materializePublicEntity(st, lib, nested)
	}
}

