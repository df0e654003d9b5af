package sema

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// analyzeExpr decorates expr in place and returns its resulting QualType
// (also stored in expr.Decoration().Type) so callers composing larger
// expressions don't need to re-extract it.
func (a *Analyzer) analyzeExpr(expr ast.Expression) QualType {
	dec := expr.Decoration()
	var t QualType

	switch e := expr.(type) {
	case *ast.Identifier:
		t = a.analyzeIdentifier(e)
	case *ast.IntLiteral:
		t = QualType{Type: a.Symbols.Int(32, true)}
		dec.Const = &ConstantValue{IsConst: true, Int: e.Value}
		dec.ValueCat = ast.RValue
	case *ast.FloatLiteral:
		t = QualType{Type: a.Symbols.Float(64)}
		dec.Const = &ConstantValue{IsConst: true, Float: e.Value, IsFloat: true}
		dec.ValueCat = ast.RValue
	case *ast.BoolLiteral:
		t = QualType{Type: a.Symbols.Bool()}
		dec.ValueCat = ast.RValue
	case *ast.StringLiteral:
		t = QualType{Type: a.Symbols.ArrayType(QualType{Type: a.Symbols.Byte()}, Dynamic)}
		dec.ValueCat = ast.RValue
	case *ast.NullptrLiteral:
		t = QualType{Type: a.Symbols.NullPtr()}
		dec.ValueCat = ast.RValue
	case *ast.ListExpression:
		t = a.analyzeListExpression(e)
	case *ast.BinaryExpression:
		t = a.analyzeBinaryExpression(e)
	case *ast.UnaryExpression:
		t = a.analyzeUnaryExpression(e)
	case *ast.AssignExpression:
		t = a.analyzeAssignExpression(e)
	case *ast.CallExpression:
		t = a.analyzeCallExpression(e)
	case *ast.MemberExpression:
		t = a.analyzeMemberExpression(e)
	case *ast.IndexExpression:
		t = a.analyzeIndexExpression(e)
	case *ast.SliceExpression:
		t = a.analyzeSliceExpression(e)
	case *ast.ThisExpression:
		t = a.analyzeThisExpression(e)
	case *ast.UniqueExpression:
		t = a.analyzeUniqueExpression(e)
	case *ast.MoveExpression:
		t = a.analyzeMoveExpression(e)
	case *ast.CastExpression:
		t = a.analyzeCastExpression(e)
	default:
		dec.Poisoned = true
	}

	dec.Type = t
	return t
}

func (a *Analyzer) analyzeIdentifier(e *ast.Identifier) QualType {
	candidates := a.Symbols.UnqualifiedLookup(e.Name)
	if len(candidates) == 0 {
		a.poison(e.Decoration(), issue.ReservedIdentifier, e, "undeclared identifier %q", e.Name)
		return QualType{}
	}
	ent := Resolve(candidates[0])
	e.Decoration().Entity = ent
	switch v := ent.Self().(type) {
	case *Variable:
		e.Decoration().ValueCat = ast.LValue
		return v.Type
	case *Function:
		e.Decoration().ValueCat = ast.RValue
		return QualType{Type: a.Symbols.FunctionTypeOf(paramTypes(v.Params), v.ReturnType)}
	case *OverloadSet:
		e.Decoration().ValueCat = ast.RValue
		return QualType{}
	}
	a.poison(e.Decoration(), issue.ReservedIdentifier, e, "%q does not name a value", e.Name)
	return QualType{}
}

func paramTypes(params []*Variable) []QualType {
	out := make([]QualType, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

func (a *Analyzer) analyzeListExpression(e *ast.ListExpression) QualType {
	if len(e.Elements) == 0 {
		a.poison(e.Decoration(), issue.GenericBadStmt, e, "empty list literal needs a target type")
		return QualType{}
	}
	elem := a.analyzeExpr(e.Elements[0])
	for _, el := range e.Elements[1:] {
		t := a.analyzeExpr(el)
		if common, ok := CommonType(a.Symbols, elem, t); ok {
			elem = common
		}
	}
	e.Decoration().ValueCat = ast.RValue
	return QualType{Type: a.Symbols.ArrayType(elem, len(e.Elements))}
}

func (a *Analyzer) analyzeBinaryExpression(e *ast.BinaryExpression) QualType {
	lt := a.analyzeExpr(e.Left)
	rt := a.analyzeExpr(e.Right)
	e.Decoration().ValueCat = ast.RValue
	switch e.Operator {
	case "==", "!=", "<", "<=", ">", ">=":
		return QualType{Type: a.Symbols.Bool()}
	case "&&", "||":
		return QualType{Type: a.Symbols.Bool()}
	default:
		if common, ok := CommonType(a.Symbols, lt, rt); ok {
			return common
		}
		a.poison(e.Decoration(), issue.BadTypeConv, e, "incompatible operand types %s and %s", lt, rt)
		return QualType{}
	}
}

func (a *Analyzer) analyzeUnaryExpression(e *ast.UnaryExpression) QualType {
	ot := a.analyzeExpr(e.Operand)
	switch e.Operator {
	case "*":
		if p, ok := ot.Type.(*RawPtrType); ok {
			e.Decoration().ValueCat = ast.LValue
			return p.Pointee
		}
		if p, ok := ot.Type.(*UniquePtrType); ok {
			e.Decoration().ValueCat = ast.LValue
			return p.Pointee
		}
		a.poison(e.Decoration(), issue.BadTypeConv, e, "cannot dereference %s", ot)
		return QualType{}
	case "&":
		e.Decoration().ValueCat = ast.RValue
		return QualType{Type: a.Symbols.PointerType(ot)}
	default:
		e.Decoration().ValueCat = ast.RValue
		return ot
	}
}

func (a *Analyzer) analyzeAssignExpression(e *ast.AssignExpression) QualType {
	tt := a.analyzeExpr(e.Target)
	vt := a.analyzeExpr(e.Value)
	if tt.Mut != Mut {
		a.poison(e.Decoration(), issue.BadMutConv, e, "cannot assign to a const binding")
	}
	if _, ok := a.convertOrPoison(e.Value, vt, tt, Implicit, e); !ok {
		a.Issues.Report(issue.BadTypeConv, e.Pos(), e, "cannot assign %s to %s", vt, tt)
	}
	e.Decoration().ValueCat = ast.LValue
	return tt
}

func (a *Analyzer) analyzeCallExpression(e *ast.CallExpression) QualType {
	argTypes := make([]QualType, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.analyzeExpr(arg)
	}

	ident, isIdent := e.Callee.(*ast.Identifier)
	if !isIdent {
		ct := a.analyzeExpr(e.Callee)
		if ft, ok := ct.Type.(*FunctionType); ok {
			e.Decoration().ValueCat = ast.RValue
			return ft.Ret
		}
		a.poison(e.Decoration(), issue.GenericBadStmt, e, "expression is not callable")
		return QualType{}
	}

	candidates := a.Symbols.UnqualifiedLookup(ident.Name)
	best, ok := a.resolveOverload(candidates, argTypes)
	if !ok {
		a.poison(e.Decoration(), issue.AmbiguousConversion, e, "no matching overload for %q", ident.Name)
		return QualType{}
	}
	ident.Decoration().Entity = best
	e.Virtual = best.ReceiverDyn
	e.Decoration().ValueCat = ast.RValue
	if best.VTableSlot >= 0 && best.ReceiverDyn {
		e.Virtual = true
	}
	return best.ReturnType
}

// resolveOverload picks the Function among candidates whose parameter list
// accepts argTypes with the lowest total conversion rank, per the ranking
// rule; returns (nil, false) if none match or a tie cannot be broken.
func (a *Analyzer) resolveOverload(candidates []*Entity, argTypes []QualType) (*Function, bool) {
	var best *Function
	bestRank := -1
	tie := false
	for _, c := range candidates {
		fn, ok := Resolve(c).Self().(*Function)
		if !ok || len(fn.Params) != len(argTypes) {
			continue
		}
		total := 0
		match := true
		for i, p := range fn.Params {
			conv, ok := ConvertTo(argTypes[i], ast.RValue, p.Type, Implicit, nil)
			if !ok {
				match = false
				break
			}
			total += conv.Rank()
		}
		if !match {
			continue
		}
		switch {
		case bestRank == -1 || total < bestRank:
			best, bestRank, tie = fn, total, false
		case total == bestRank:
			tie = true
		}
	}
	if best == nil || tie {
		return nil, false
	}
	return best, true
}

func (a *Analyzer) analyzeMemberExpression(e *ast.MemberExpression) QualType {
	ot := a.analyzeExpr(e.Object)
	base := ot.Type
	if ref, ok := base.(*ReferenceType); ok {
		base = ref.Referent.Type
	}

	if arr, ok := base.(*ArrayType); ok && e.Member == "count" {
		_ = arr
		e.Decoration().ValueCat = ast.RValue
		return QualType{Type: a.Symbols.Int(64, false)}
	}

	st, ok := base.(*StructType)
	if !ok {
		a.poison(e.Decoration(), issue.BadTypeConv, e, "%s has no member %q", ot, e.Member)
		return QualType{}
	}
	if f, ok := st.FieldByName(e.Member); ok {
		e.Decoration().ValueCat = ast.LValue
		return f.Type
	}
	if m, ok := st.MethodByName(e.Member); ok {
		e.Decoration().Entity = &m.Entity
		e.Decoration().ValueCat = ast.RValue
		return QualType{Type: a.Symbols.FunctionTypeOf(paramTypes(m.Params), m.ReturnType)}
	}
	a.poison(e.Decoration(), issue.BadTypeConv, e, "%s has no member %q", ot, e.Member)
	return QualType{}
}

func (a *Analyzer) analyzeIndexExpression(e *ast.IndexExpression) QualType {
	at := a.analyzeExpr(e.Array)
	a.analyzeExpr(e.Index)
	arr, ok := arrayOf(at)
	if !ok {
		a.poison(e.Decoration(), issue.BadTypeConv, e, "cannot index %s", at)
		return QualType{}
	}
	e.Decoration().ValueCat = ast.LValue
	return arr.Elem
}

func (a *Analyzer) analyzeSliceExpression(e *ast.SliceExpression) QualType {
	at := a.analyzeExpr(e.Array)
	if e.Lo != nil {
		a.analyzeExpr(e.Lo)
	}
	if e.Hi != nil {
		a.analyzeExpr(e.Hi)
	}
	arr, ok := arrayOf(at)
	if !ok {
		a.poison(e.Decoration(), issue.BadTypeConv, e, "cannot slice %s", at)
		return QualType{}
	}
	e.Decoration().ValueCat = ast.RValue
	return QualType{Type: a.Symbols.ArrayType(arr.Elem, Dynamic)}
}

func arrayOf(t QualType) (*ArrayType, bool) {
	if r, ok := t.Type.(*ReferenceType); ok {
		t = r.Referent
	}
	a, ok := t.Type.(*ArrayType)
	return a, ok
}

func (a *Analyzer) analyzeThisExpression(e *ast.ThisExpression) QualType {
	e.Decoration().ValueCat = ast.LValue
	if a.currentStruct == nil {
		a.poison(e.Decoration(), issue.GenericBadStmt, e, "'this' used outside a method")
		return QualType{}
	}
	return QualType{Type: a.currentStruct, Mut: Mut}
}

func (a *Analyzer) analyzeUniqueExpression(e *ast.UniqueExpression) QualType {
	elem := a.resolveTypeExpr(e.Type)
	e.Decoration().ValueCat = ast.RValue
	if e.IsArray {
		a.analyzeExpr(e.Count)
		return QualType{Type: a.Symbols.UniquePointerType(QualType{Type: a.Symbols.ArrayType(elem, Dynamic), Mut: Mut})}
	}
	argTypes := make([]QualType, len(e.Args))
	lvalues := make([]bool, len(e.Args))
	for i, arg := range e.Args {
		argTypes[i] = a.analyzeExpr(arg)
		lvalues[i] = arg.Decoration().ValueCat == ast.LValue
	}
	res := ResolveConstruction(elem.Type, argTypes, lvalues)
	if !res.Valid {
		a.poison(e.Decoration(), issue.CannotConstructType, e, "cannot construct %s", elem)
		return QualType{}
	}
	return QualType{Type: a.Symbols.UniquePointerType(QualType{Type: elem.Type, Mut: Mut})}
}

func (a *Analyzer) analyzeMoveExpression(e *ast.MoveExpression) QualType {
	t := a.analyzeExpr(e.Operand)
	e.Decoration().ValueCat = ast.RValue
	return t
}

func (a *Analyzer) analyzeCastExpression(e *ast.CastExpression) QualType {
	srcType := a.analyzeExpr(e.Operand)
	dstType := a.resolveTypeExpr(e.Type)
	mode := Explicit
	if e.Reinterpret {
		mode = Reinterpret
	}
	if _, ok := a.convertOrPoison(e.Operand, srcType, dstType, mode, e); !ok {
		a.Issues.Report(issue.BadTypeConv, e.Pos(), e, "cannot convert %s to %s", srcType, dstType)
	}
	e.Decoration().ValueCat = ast.RValue
	return dstType
}
