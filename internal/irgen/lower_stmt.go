package irgen

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/sema"
)

func (g *Generator) lowerFunctionBody(d *ast.FunctionDecl) {
	fn, ok := d.Entity().(*sema.Function)
	if !ok {
		return
	}
	f := g.funcs[fn]
	if f == nil {
		f = g.declareFunction(fn)
	}
	g.fn = f
	g.block = f.NewBlock("entry")
	g.lowerBlock(d.Body)
	if !g.block.Terminated() {
		g.emitReturn(nil)
	}
	g.fn = nil
	g.block = nil
}

func (g *Generator) lowerStructMethodBodies(d *ast.StructDecl) {
	for _, m := range d.Methods {
		if m.Body != nil {
			g.lowerFunctionBody(m)
		}
	}
}

func (g *Generator) lowerGlobalVar(d *ast.GlobalVarDecl) {
	v, ok := d.Entity().(*sema.Variable)
	if !ok {
		return
	}
	t := TypeOf(v.Type)
	gl := &Global{Name: d.Name, Size: t.SizeBytes, Align: t.AlignBytes}
	g.Module.Globals = append(g.Module.Globals, gl)
}

func (g *Generator) lowerBlock(b *ast.BlockStatement) {
	for _, s := range b.Stmts {
		if g.block.Terminated() {
			break
		}
		g.lowerStatement(s)
	}
	g.emitCleanup(b.Cleanup())
}

func (g *Generator) lowerStatement(s ast.Statement) {
	switch st := s.(type) {
	case *ast.BlockStatement:
		g.lowerBlock(st)
	case *ast.ExpressionStatement:
		g.lowerExpr(st.Expr)
	case *ast.VarStatement:
		g.lowerVarStatement(st)
	case *ast.ReturnStatement:
		g.lowerReturnStatement(st)
	case *ast.IfStatement:
		g.lowerIfStatement(st)
	case *ast.WhileStatement:
		g.lowerWhileStatement(st)
	case *ast.DoWhileStatement:
		g.lowerDoWhileStatement(st)
	case *ast.ForStatement:
		g.lowerForStatement(st)
	case *ast.BreakStatement:
		g.lowerBreak()
	case *ast.ContinueStatement:
		g.lowerContinue()
	case *ast.DeleteStatement:
		g.lowerDelete(st)
	}
	g.emitCleanup(s.Cleanup())
}

func (g *Generator) lowerVarStatement(v *ast.VarStatement) {
	ent, ok := v.Entity().(*sema.Variable)
	if !ok {
		return
	}
	t := TypeOf(ent.Type)
	slot := g.fn.newValue(v.Name, t)
	slot.Loc = Memory
	inst := g.block.emit(&Instruction{Op: OpAlloca, Result: slot, Imm: int64(t.SizeBytes)})
	slot.Packed = &IRValue{Def: inst}
	g.values[&ent.Entity] = slot

	if v.Value != nil {
		val := g.lowerExpr(v.Value)
		g.block.emit(&Instruction{Op: OpStore, Args: []*Value{slot, val}})
	}
}

func (g *Generator) lowerReturnStatement(r *ast.ReturnStatement) {
	var val *Value
	if r.Value != nil {
		val = g.lowerExpr(r.Value)
	}
	g.emitReturn(val)
}

func (g *Generator) emitReturn(val *Value) {
	if val != nil {
		if g.fn.CC.HasValRet {
			mem := g.fn.ToMemory(g.block, val)
			g.block.emit(&Instruction{Op: OpStore, Args: []*Value{g.fn.ValRetSlot, mem}})
		} else {
			val = g.fn.ToRegister(g.block, val)
		}
	}
	args := []*Value{}
	if val != nil {
		args = []*Value{val}
	}
	g.block.emit(&Instruction{Op: OpRet, Args: args})
}

func (g *Generator) lowerIfStatement(i *ast.IfStatement) {
	cond := g.lowerExpr(i.Cond)
	thenB := g.fn.NewBlock("then")
	var elseB *BasicBlock
	endB := g.fn.NewBlock("end")

	if i.Else != nil {
		elseB = g.fn.NewBlock("else")
		g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{cond}, Blocks: []*BasicBlock{thenB, elseB}})
	} else {
		g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{cond}, Blocks: []*BasicBlock{thenB, endB}})
	}

	g.block = thenB
	g.lowerBlock(i.Then)
	if !g.block.Terminated() {
		g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{endB}})
	}

	if elseB != nil {
		g.block = elseB
		g.lowerStatement(i.Else)
		if !g.block.Terminated() {
			g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{endB}})
		}
	}

	g.block = endB
}

func (g *Generator) lowerWhileStatement(w *ast.WhileStatement) {
	header := g.fn.NewBlock("header")
	body := g.fn.NewBlock("body")
	end := g.fn.NewBlock("end")

	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{header}})
	g.block = header
	cond := g.lowerExpr(w.Cond)
	g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{cond}, Blocks: []*BasicBlock{body, end}})

	g.block = body
	g.loops = append(g.loops, loopContext{headerBlock: header, incBlock: header, endBlock: end})
	g.lowerBlock(w.Body)
	g.loops = g.loops[:len(g.loops)-1]
	if !g.block.Terminated() {
		g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{header}})
	}

	g.block = end
}

func (g *Generator) lowerDoWhileStatement(d *ast.DoWhileStatement) {
	body := g.fn.NewBlock("body")
	cond := g.fn.NewBlock("cond")
	end := g.fn.NewBlock("end")

	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{body}})
	g.block = body
	g.loops = append(g.loops, loopContext{headerBlock: cond, incBlock: cond, endBlock: end})
	g.lowerBlock(d.Body)
	g.loops = g.loops[:len(g.loops)-1]
	if !g.block.Terminated() {
		g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{cond}})
	}

	g.block = cond
	c := g.lowerExpr(d.Cond)
	g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{c}, Blocks: []*BasicBlock{body, end}})

	g.block = end
}

func (g *Generator) lowerForStatement(f *ast.ForStatement) {
	if f.Init != nil {
		g.lowerStatement(f.Init)
	}
	header := g.fn.NewBlock("header")
	body := g.fn.NewBlock("body")
	inc := g.fn.NewBlock("inc")
	end := g.fn.NewBlock("end")

	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{header}})
	g.block = header
	if f.Cond != nil {
		c := g.lowerExpr(f.Cond)
		g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{c}, Blocks: []*BasicBlock{body, end}})
	} else {
		g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{body}})
	}

	g.block = body
	g.loops = append(g.loops, loopContext{headerBlock: header, incBlock: inc, endBlock: end})
	g.lowerBlock(f.Body)
	g.loops = g.loops[:len(g.loops)-1]
	if !g.block.Terminated() {
		g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{inc}})
	}

	g.block = inc
	if f.Inc != nil {
		g.lowerExpr(f.Inc)
	}
	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{header}})

	g.block = end
}

func (g *Generator) lowerBreak() {
	if len(g.loops) == 0 {
		return
	}
	lc := g.loops[len(g.loops)-1]
	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{lc.endBlock}})
}

func (g *Generator) lowerContinue() {
	if len(g.loops) == 0 {
		return
	}
	lc := g.loops[len(g.loops)-1]
	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{lc.incBlock}})
}

func (g *Generator) lowerDelete(d *ast.DeleteStatement) {
	target := g.lowerExpr(d.Target)
	loaded := g.fn.ToRegister(g.block, target)
	g.block.emit(&Instruction{Op: OpDealloc, Args: []*Value{loaded}})
}

// emitCleanup walks cs in LIFO order (already the order it was pushed:
// the analyzer pushes in declaration order, so a reverse walk here runs
// the most-recently-declared temporary's destructor first) and emits a
// destructor call for every non-trivial entry; trivial entries are
// skipped entirely.
func (g *Generator) emitCleanup(cs *ast.CleanupStack) {
	for i := len(cs.Entries) - 1; i >= 0; i-- {
		entry := cs.Entries[i]
		ent, ok := entry.Object.(*sema.Entity)
		if !ok {
			continue
		}
		op, ok := entry.Op.(sema.LifetimeOperation)
		if !ok || op.Kind == sema.OpTrivial {
			continue
		}
		v, ok := g.values[ent]
		if !ok {
			continue
		}
		g.emitDestructorCall(v, op)
	}
}

func (g *Generator) emitDestructorCall(v *Value, op sema.LifetimeOperation) {
	if op.Function == nil {
		return
	}
	f := g.declareFunction(op.Function)
	mem := g.fn.ToMemory(g.block, v)
	g.block.emit(&Instruction{Op: OpCall, Args: []*Value{mem}, Callee: f})
}
