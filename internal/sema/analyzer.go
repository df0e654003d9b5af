package sema

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// Analyzer decorates a parsed program: resolving identifiers, type-checking
// declarations and expressions, and registering lifetime functions and
// vtables. Conversions are checked and recorded on the existing nodes'
// decorations; no conversion or construction node is inserted into the
// tree, and no statement's cleanup stack is populated (every CleanupStack
// stays empty). Failures are recorded on Issues and the offending node is
// poisoned rather than aborting the pass.
type Analyzer struct {
	Symbols *SymbolTable
	Issues  *issue.Handler

	currentFunction *Function
	currentStruct   *StructType
	signatureScopes []fnScope
}

// NewAnalyzer wires a fresh symbol table and issue handler together.
func NewAnalyzer() *Analyzer {
	h := issue.NewHandler()
	return &Analyzer{Symbols: NewSymbolTable(h), Issues: h}
}

// Analyze runs the three-pass pipeline over prog: struct/protocol shapes
// first (so member types referencing other structs resolve), then every
// function signature (so forward calls resolve), then every function,
// global-variable, and struct-method body.
func (a *Analyzer) Analyze(prog *ast.Program) {
	var structDecls []*ast.StructDecl
	var protoDecls []*ast.ProtocolDecl
	var fnDecls []*ast.FunctionDecl
	var varDecls []*ast.GlobalVarDecl

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.StructDecl:
			structDecls = append(structDecls, decl)
		case *ast.ProtocolDecl:
			protoDecls = append(protoDecls, decl)
		case *ast.FunctionDecl:
			fnDecls = append(fnDecls, decl)
		case *ast.GlobalVarDecl:
			varDecls = append(varDecls, decl)
		case *ast.ImportDecl:
			a.analyzeImport(decl)
		}
	}

	for _, d := range protoDecls {
		a.declareProtocolShape(d)
	}
	for _, d := range structDecls {
		a.declareStructShape(d)
	}
	for _, d := range protoDecls {
		a.analyzeProtocolMethods(d)
	}
	for _, d := range structDecls {
		a.analyzeStructMethods(d)
	}
	for _, d := range structDecls {
		a.finishStructLifetimeAndVTable(d)
	}

	for _, d := range fnDecls {
		a.declareFunctionSignature(d)
	}
	for _, d := range varDecls {
		a.analyzeGlobalVar(d)
	}
	for _, d := range fnDecls {
		a.analyzeFunctionBody(d)
	}
	for _, d := range structDecls {
		a.currentStruct = d.Entity().(*StructType)
		for _, m := range d.Methods {
			fn, ok := m.Entity().(*Function)
			if !ok || m.Body == nil {
				continue
			}
			a.currentFunction = fn
			scope := a.Symbols.PushAnonymousScope()
			for _, p := range fn.Params {
				scope.declare(p.Name, &p.Entity)
			}
			a.analyzeBlock(m.Body)
			a.Symbols.Pop()
		}
		a.currentFunction, a.currentStruct = nil, nil
	}
}

// poison marks dec as poisoned and reports kind against node, so later
// passes do not cascade further diagnostics from the same failure.
func (a *Analyzer) poison(dec *ast.Decoration, kind issue.Kind, node ast.Node, format string, args ...any) {
	dec.Poisoned = true
	a.Issues.Report(kind, node.Pos(), node, format, args...)
}
