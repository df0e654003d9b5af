package sema

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// declareStructShape declares the struct entity and its scope, but defers
// field typing and base resolution until every struct name in the program
// is declared (so mutually referencing structs, e.g. through pointer
// members, resolve regardless of declaration order).
func (a *Analyzer) declareStructShape(d *ast.StructDecl) {
	st := &StructType{Entity: Entity{ID: newEntityID(), Kind: KindType, Name: d.Name, Parent: a.Symbols.CurrentScope(), Access: astAccess(d.Access)}}
	st.SetSelf(st)
	a.Symbols.CurrentScope().declare(d.Name, &st.Entity)
	d.SetEntity(st)
}

func (a *Analyzer) declareProtocolShape(d *ast.ProtocolDecl) {
	pt := &ProtocolType{Entity: Entity{ID: newEntityID(), Kind: KindType, Name: d.Name, Parent: a.Symbols.CurrentScope()}}
	pt.SetSelf(pt)
	a.Symbols.CurrentScope().declare(d.Name, &pt.Entity)
	d.SetEntity(pt)
}

// analyzeStructMethods resolves bases, fields, and method signatures (not
// bodies yet — bodies are analyzed after every struct/protocol shape in
// the program is complete, so a method can reference a sibling struct).
func (a *Analyzer) analyzeStructMethods(d *ast.StructDecl) {
	st := d.Entity().(*StructType)
	a.currentStruct = st

	for _, baseName := range d.Bases {
		ent := a.lookupTypeName(baseName, d)
		if ent == nil {
			continue
		}
		switch bt := ent.(type) {
		case *StructType:
			st.Bases = append(st.Bases, bt)
		case *ProtocolType:
			st.Conforms = append(st.Conforms, bt)
		default:
			a.Issues.Report(issue.BadTypeConv, d.Pos(), d, "%q is not a struct or protocol", baseName)
		}
	}

	for _, f := range d.Fields {
		ft := a.resolveTypeExpr(f.Type)
		st.Fields = append(st.Fields, Field{Name: f.Name, Type: ft})
	}

	for _, m := range d.Methods {
		fn := a.declareMethodSignature(m, st)
		st.Methods = append(st.Methods, fn)
	}

	a.currentStruct = nil
}

func (a *Analyzer) analyzeProtocolMethods(d *ast.ProtocolDecl) {
	pt := d.Entity().(*ProtocolType)
	for _, baseName := range d.Bases {
		ent := a.lookupTypeName(baseName, d)
		if bt, ok := ent.(*ProtocolType); ok {
			pt.Bases = append(pt.Bases, bt)
		}
	}
	for _, m := range d.Methods {
		fn := a.declareMethodSignature(m, nil)
		fn.ReceiverDyn = true
		pt.Methods = append(pt.Methods, fn)
	}
	pt.VTable = BuildProtocolVTable(pt)
}

// declareMethodSignature builds the Function entity for a method without
// analyzing its body, so later signature lookups (overload resolution,
// vtable building) work uniformly before any body is type-checked.
func (a *Analyzer) declareMethodSignature(m *ast.FunctionDecl, receiver *StructType) *Function {
	fn := &Function{Entity: Entity{ID: newEntityID(), Kind: KindFunction, Name: m.Name, Access: astAccess(m.Access)}, IsMethod: true, ReceiverDyn: m.ReceiverDyn, Receiver: receiver, Extern: m.Extern, Variadic: m.Variadic}
	fn.SetSelf(fn)
	params := make([]*Variable, 0, len(m.Params))
	for i, p := range m.Params {
		pt := a.resolveTypeExpr(p.Type)
		v := &Variable{Entity: Entity{ID: newEntityID(), Kind: KindVariable, Name: p.Name}, Type: pt, IsParam: true, Index: i}
		v.SetSelf(v)
		params = append(params, v)
	}
	ret := QualType{Type: a.Symbols.Void()}
	if m.RetType != nil {
		ret = a.resolveTypeExpr(m.RetType)
	}
	a.Symbols.SetFunctionType(fn, params, ret)
	m.SetEntity(fn)
	return fn
}

// finishStructLifetimeAndVTable runs after every struct's fields and
// methods are known: computes layout, synthesizes lifetime metadata, and
// builds the vtable if the struct inherits or conforms.
func (a *Analyzer) finishStructLifetimeAndVTable(d *ast.StructDecl) {
	st := d.Entity().(*StructType)
	st.ComputeLayout()

	var userDefined [4]*Function
	for _, m := range st.Methods {
		switch m.Name {
		case "new":
			if len(m.Params) == 0 {
				userDefined[0] = m
			} else if len(m.Params) == 1 && m.Params[0].Type.Type == st {
				userDefined[1] = m
			}
		case "move":
			userDefined[2] = m
		case "delete":
			userDefined[3] = m
		}
	}
	st.Lifetime = SynthesizeLifetime(st.Fields, st.Bases, userDefined)

	if len(st.Bases) > 0 || len(st.Conforms) > 0 {
		st.VTable = BuildVTable(st)
	}
}

func (a *Analyzer) lookupTypeName(name string, node ast.Node) ObjectType {
	for _, e := range a.Symbols.UnqualifiedLookup(name) {
		e = Resolve(e)
		if ot, ok := e.Self().(ObjectType); ok {
			return ot
		}
	}
	a.Issues.Report(issue.BadTypeConv, node.Pos(), node, "undeclared type %q", name)
	return nil
}

func astAccess(a ast.Access) Access {
	switch a {
	case ast.AccessPublic:
		return AccessPublic
	case ast.AccessPrivate:
		return AccessPrivate
	default:
		return AccessDefault
	}
}
