package irgen

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/sema"
)

// Generator lowers one fully analyzed program into a Module. It keeps a
// mutable entity->value map (populated at declarations and parameter
// binding) so identifier lookups during expression lowering resolve to a
// live IR value instead of re-walking the entity graph.
type Generator struct {
	Module *Module

	fn          *Function
	block       *BasicBlock
	values      map[*sema.Entity]*Value
	funcs       map[*sema.Function]*Function
	loops       []loopContext
	destructors map[*sema.Entity]*Function // per-type synthesized destructor thunks, filled lazily
	thunks      map[thunkKey]*Function
}

type loopContext struct {
	headerBlock, incBlock, endBlock *BasicBlock
	cleanupDepth                   int
}

type thunkKey struct {
	target    *sema.Function
	concrete  *sema.StructType
}

// NewGenerator allocates an empty module and the bookkeeping maps the
// lowering passes need.
func NewGenerator() *Generator {
	return &Generator{
		Module:      &Module{},
		values:      make(map[*sema.Entity]*Value),
		funcs:       make(map[*sema.Function]*Function),
		destructors: make(map[*sema.Entity]*Function),
		thunks:      make(map[thunkKey]*Function),
	}
}

// Generate lowers every top-level function and global in prog, having
// already been analyzed by analyzer (whose symbol table supplies entity
// and type information the decorated tree only references by pointer).
func (g *Generator) Generate(prog *ast.Program, analyzer *sema.Analyzer) *Module {
	for _, d := range prog.Decls {
		if fd, ok := d.(*ast.FunctionDecl); ok && fd.Body != nil {
			if fn, ok := fd.Entity().(*sema.Function); ok {
				g.declareFunction(fn)
			}
		}
	}
	for _, d := range prog.Decls {
		if sd, ok := d.(*ast.StructDecl); ok {
			st := sd.Entity().(*sema.StructType)
			for _, m := range st.Methods {
				g.declareFunction(m)
			}
		}
	}

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			if decl.Body != nil {
				g.lowerFunctionBody(decl)
			}
		case *ast.StructDecl:
			g.lowerStructMethodBodies(decl)
		case *ast.GlobalVarDecl:
			g.lowerGlobalVar(decl)
		}
	}

	return g.Module
}

func (g *Generator) declareFunction(fn *sema.Function) *Function {
	if f, ok := g.funcs[fn]; ok {
		return f
	}
	paramTypes := make([]Type, len(fn.Params))
	for i, p := range fn.Params {
		paramTypes[i] = TypeOf(p.Type)
	}
	retType := TypeOf(fn.ReturnType)
	cc := ComputeCallingConvention(paramTypes, retType)

	f := &Function{Name: fn.Name, CC: cc}
	if cc.HasValRet {
		f.ValRetSlot = f.newValue("valret", retType)
	}
	for i, p := range fn.Params {
		pv := f.newValue(p.Name, paramTypes[i])
		pv.Loc = cc.Params[i].Loc
		f.Params = append(f.Params, pv)
		g.values[&p.Entity] = pv
	}
	g.funcs[fn] = f
	g.Module.Functions = append(g.Module.Functions, f)
	return f
}

// TypeOf converts a semantic QualType into the generator's lighter Type
// shape (size/align/triviality/fat-pointer-ness), the only facts lowering
// needs.
func TypeOf(q sema.QualType) Type {
	if q.Type == nil {
		return Type{Name: "<poison>"}
	}
	_, isFatRef := q.Type.(*sema.ReferenceType)
	fat := false
	if isFatRef {
		fat = q.Type.Size() == 16
	}
	if at, ok := q.Type.(*sema.ArrayType); ok && at.Count == sema.Dynamic {
		fat = true
	}
	trivial := true
	if st, ok := q.Type.(*sema.StructType); ok {
		trivial = st.IsTrivial()
	}
	return Type{Name: q.Type.String(), SizeBytes: q.Type.Size(), AlignBytes: q.Type.Align(), Trivial: trivial, FatPointer: fat}
}
