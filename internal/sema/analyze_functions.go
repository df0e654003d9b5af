package sema

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// declareFunctionSignature declares a top-level (non-method) function's
// entity and signature, so every call site in every other function body
// can resolve it regardless of textual order.
func (a *Analyzer) declareFunctionSignature(d *ast.FunctionDecl) {
	fn := a.Symbols.DeclareFunction(d.Name, d.Pos(), d)
	fn.Access = astAccess(d.Access)
	fn.Extern = d.Extern
	fn.Variadic = d.Variadic

	params := make([]*Variable, 0, len(d.Params))
	scope := a.Symbols.PushAnonymousScope()
	for i, p := range d.Params {
		pt := a.resolveTypeExpr(p.Type)
		v := a.Symbols.DeclareVariable(p.Name, pt, true, p.Pos(), p)
		v.Index = i
		p.SetEntity(v)
		params = append(params, v)
	}
	a.Symbols.Pop()
	fn.Parent = a.Symbols.CurrentScope()

	ret := QualType{Type: a.Symbols.Void()}
	if d.RetType != nil {
		ret = a.resolveTypeExpr(d.RetType)
	}
	a.Symbols.SetFunctionType(fn, params, ret)
	d.SetEntity(fn)
	a.signatureScopes = append(a.signatureScopes, fnScope{decl: d, fn: fn, paramScope: scope})
}

// fnScope remembers the parameter scope built during signature analysis so
// analyzeFunctionBody can re-enter it rather than re-declaring parameters.
type fnScope struct {
	decl       *ast.FunctionDecl
	fn         *Function
	paramScope *Scope
}

func (a *Analyzer) analyzeFunctionBody(d *ast.FunctionDecl) {
	var fs *fnScope
	for i := range a.signatureScopes {
		if a.signatureScopes[i].decl == d {
			fs = &a.signatureScopes[i]
			break
		}
	}
	if fs == nil || d.Body == nil {
		return
	}

	prevFn := a.currentFunction
	a.currentFunction = fs.fn
	a.Symbols.EnterScope(fs.paramScope)
	a.analyzeBlock(d.Body)
	a.Symbols.Pop()
	a.currentFunction = prevFn
}

func (a *Analyzer) analyzeGlobalVar(d *ast.GlobalVarDecl) {
	declared := QualType{}
	if d.Type != nil {
		declared = a.resolveTypeExpr(d.Type)
	}
	if d.Value != nil {
		valType := a.analyzeExpr(d.Value)
		if d.Type == nil {
			declared = valType
		} else if _, ok := a.convertOrPoison(d.Value, valType, declared, Implicit, d); !ok {
			a.Issues.Report(issue.BadTypeConv, d.Pos(), d, "cannot initialize %q", d.Name)
		}
	}
	if d.Mut {
		declared.Mut = Mut
	} else {
		declared.Mut = Const
	}
	v := a.Symbols.DeclareVariable(d.Name, declared, false, d.Pos(), d)
	v.Access = astAccess(d.Access)
	d.SetEntity(v)
}
