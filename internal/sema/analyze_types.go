package sema

import (
	"strconv"

	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// resolveTypeExpr turns a parsed TypeExpr into a canonical QualType,
// reporting BadTypeConv and returning a poisoned (nil-Type) QualType on any
// unresolved name.
func (a *Analyzer) resolveTypeExpr(te ast.TypeExpr) QualType {
	switch t := te.(type) {
	case *ast.NamedTypeExpr:
		return a.resolveNamedType(t)

	case *ast.ReferenceTypeExpr:
		elem := a.resolveTypeExpr(t.Elem)
		if t.Mut {
			elem.Mut = Mut
		} else {
			elem.Mut = Const
		}
		bind := Static
		if t.Dyn {
			bind = Dyn
		}
		return QualType{Type: a.Symbols.ReferenceType(elem), Bind: bind}

	case *ast.PointerTypeExpr:
		elem := a.resolveTypeExpr(t.Elem)
		if t.Mut {
			elem.Mut = Mut
		} else {
			elem.Mut = Const
		}
		if t.Unique {
			return QualType{Type: a.Symbols.UniquePointerType(elem)}
		}
		return QualType{Type: a.Symbols.PointerType(elem)}

	case *ast.ArrayTypeExpr:
		elem := a.resolveTypeExpr(t.Elem)
		count := Dynamic
		if t.Count != nil {
			if lit, ok := t.Count.(*ast.IntLiteral); ok {
				count = int(lit.Value)
			} else {
				a.Issues.Report(issue.GenericBadStmt, t.Pos(), t, "array count must be an integer literal")
			}
		}
		return QualType{Type: a.Symbols.ArrayType(elem, count)}

	case *ast.FunctionTypeExpr:
		args := make([]QualType, len(t.Params))
		for i, p := range t.Params {
			args[i] = a.resolveTypeExpr(p)
		}
		ret := QualType{Type: a.Symbols.Void()}
		if t.Ret != nil {
			ret = a.resolveTypeExpr(t.Ret)
		}
		return QualType{Type: a.Symbols.FunctionTypeOf(args, ret)}
	}
	return QualType{}
}

func (a *Analyzer) resolveNamedType(t *ast.NamedTypeExpr) QualType {
	switch t.Name {
	case "void":
		return QualType{Type: a.Symbols.Void()}
	case "bool":
		return QualType{Type: a.Symbols.Bool()}
	case "byte":
		return QualType{Type: a.Symbols.Byte()}
	case "nullptr_t":
		return QualType{Type: a.Symbols.NullPtr()}
	}
	if w, signed, ok := parsePrimIntName(t.Name); ok {
		return QualType{Type: a.Symbols.Int(w, signed)}
	}
	if w, ok := parseFloatName(t.Name); ok {
		return QualType{Type: a.Symbols.Float(w)}
	}

	for _, e := range a.Symbols.UnqualifiedLookup(t.Name) {
		e = Resolve(e)
		if ot, ok := e.Self().(ObjectType); ok {
			return QualType{Type: ot}
		}
	}
	a.Issues.Report(issue.BadTypeConv, t.Pos(), t, "undeclared type %q", t.Name)
	return QualType{}
}

func parsePrimIntName(name string) (width int, signed bool, ok bool) {
	if len(name) < 4 {
		return 0, false, false
	}
	switch {
	case name[:3] == "int":
		if w, err := strconv.Atoi(name[3:]); err == nil {
			return w, true, true
		}
	case len(name) >= 5 && name[:4] == "uint":
		if w, err := strconv.Atoi(name[4:]); err == nil {
			return w, false, true
		}
	}
	return 0, false, false
}

func parseFloatName(name string) (width int, ok bool) {
	if len(name) >= 6 && name[:5] == "float" {
		if w, err := strconv.Atoi(name[5:]); err == nil {
			return w, true
		}
	}
	return 0, false
}
