package sema

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

func (a *Analyzer) analyzeBlock(b *ast.BlockStatement) {
	a.Symbols.PushAnonymousScope()
	for _, s := range b.Stmts {
		a.analyzeStatement(s)
	}
	a.Symbols.Pop()
}

func (a *Analyzer) analyzeStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.BlockStatement:
		a.analyzeBlock(st)
	case *ast.ExpressionStatement:
		a.analyzeExpr(st.Expr)
	case *ast.VarStatement:
		a.analyzeVarStatement(st)
	case *ast.ReturnStatement:
		a.analyzeReturnStatement(st)
	case *ast.IfStatement:
		a.analyzeExpr(st.Cond)
		a.analyzeBlock(st.Then)
		if st.Else != nil {
			a.analyzeStatement(st.Else)
		}
	case *ast.WhileStatement:
		a.analyzeExpr(st.Cond)
		a.analyzeBlock(st.Body)
	case *ast.DoWhileStatement:
		a.analyzeBlock(st.Body)
		a.analyzeExpr(st.Cond)
	case *ast.ForStatement:
		a.Symbols.PushAnonymousScope()
		if st.Init != nil {
			a.analyzeStatement(st.Init)
		}
		if st.Cond != nil {
			a.analyzeExpr(st.Cond)
		}
		if st.Inc != nil {
			a.analyzeExpr(st.Inc)
		}
		a.analyzeBlock(st.Body)
		a.Symbols.Pop()
	case *ast.BreakStatement, *ast.ContinueStatement:
		// no decoration needed beyond the empty CleanupStack.
	case *ast.DeleteStatement:
		a.analyzeExpr(st.Target)
	}
}

func (a *Analyzer) analyzeVarStatement(v *ast.VarStatement) {
	var declared QualType
	if v.Type != nil {
		declared = a.resolveTypeExpr(v.Type)
	}
	if v.Value != nil {
		valType := a.analyzeExpr(v.Value)
		if v.Type == nil {
			declared = valType
		} else if _, ok := a.convertOrPoison(v.Value, valType, declared, Implicit, v); !ok {
			a.Issues.Report(issue.BadTypeConv, v.Pos(), v, "cannot initialize %q", v.Name)
		}
	} else if st, ok := declared.Type.(*StructType); ok && st.Lifetime != nil && st.Lifetime.DefaultConstructor.Kind == OpDeleted {
		a.Issues.Report(issue.CannotConstructType, v.Pos(), v, "%q has no default constructor", v.Name)
	}
	if v.Mut {
		declared.Mut = Mut
	} else {
		declared.Mut = Const
	}
	variable := a.Symbols.DeclareVariable(v.Name, declared, false, v.Pos(), v)
	v.SetEntity(variable)
}

func (a *Analyzer) analyzeReturnStatement(r *ast.ReturnStatement) {
	want := QualType{Type: a.Symbols.Void()}
	if a.currentFunction != nil {
		want = a.currentFunction.ReturnType
	}
	if r.Value == nil {
		if !want.IsVoid() {
			a.Issues.Report(issue.BadTypeConv, r.Pos(), r, "missing return value")
		}
		return
	}
	got := a.analyzeExpr(r.Value)
	if _, ok := a.convertOrPoison(r.Value, got, want, Implicit, r); !ok {
		a.Issues.Report(issue.BadTypeConv, r.Pos(), r, "cannot convert return value to %s", want)
	}
}
