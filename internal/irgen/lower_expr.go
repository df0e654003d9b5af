package irgen

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/sema"
)

// lowerExpr lowers expr and returns a Value usable as an operand: an
// lvalue-producing expression returns a Memory-located Value (its address),
// an rvalue-producing one a Register-located Value, matching how
// ToRegister/ToMemory expect to find their input.
func (g *Generator) lowerExpr(expr ast.Expression) *Value {
	dec := expr.Decoration()
	switch e := expr.(type) {
	case *ast.Identifier:
		return g.lowerIdentifier(e)
	case *ast.IntLiteral:
		return g.constInt(e.Value, dec)
	case *ast.FloatLiteral:
		return g.constFloat(e.Value, dec)
	case *ast.BoolLiteral:
		v := int64(0)
		if e.Value {
			v = 1
		}
		return g.constInt(v, dec)
	case *ast.StringLiteral:
		return g.lowerStringLiteral(e)
	case *ast.NullptrLiteral:
		return g.constInt(0, dec)
	case *ast.ListExpression:
		return g.lowerListExpression(e)
	case *ast.BinaryExpression:
		return g.lowerBinaryExpression(e)
	case *ast.UnaryExpression:
		return g.lowerUnaryExpression(e)
	case *ast.AssignExpression:
		return g.lowerAssignExpression(e)
	case *ast.CallExpression:
		return g.lowerCallExpression(e)
	case *ast.MemberExpression:
		return g.lowerMemberExpression(e)
	case *ast.IndexExpression:
		return g.lowerIndexExpression(e)
	case *ast.SliceExpression:
		return g.lowerSliceExpression(e)
	case *ast.ThisExpression:
		return g.lowerIdentEntity(dec.Entity)
	case *ast.UniqueExpression:
		return g.lowerUniqueExpression(e)
	case *ast.MoveExpression:
		return g.lowerExpr(e.Operand)
	case *ast.CastExpression:
		return g.lowerCastExpression(e)
	}
	return g.fn.newValue("poison", Type{})
}

func (g *Generator) typeOfDec(dec *ast.Decoration) Type {
	q, _ := dec.Type.(sema.QualType)
	return TypeOf(q)
}

func (g *Generator) constInt(v int64, dec *ast.Decoration) *Value {
	t := g.typeOfDec(dec)
	val := g.fn.newValue("const", t)
	inst := g.block.emit(&Instruction{Op: OpConst, Result: val, Imm: v})
	val.Packed = &IRValue{Def: inst}
	val.Loc = Register
	return val
}

func (g *Generator) constFloat(f float64, dec *ast.Decoration) *Value {
	t := g.typeOfDec(dec)
	val := g.fn.newValue("const", t)
	inst := g.block.emit(&Instruction{Op: OpConst, Result: val})
	val.Packed = &IRValue{Def: inst}
	val.Loc = Register
	return val
}

func (g *Generator) lowerStringLiteral(e *ast.StringLiteral) *Value {
	name := "str"
	gl := &Global{Name: name, Size: len(e.Value), Align: 1, ReadOnly: true, Init: []byte(e.Value)}
	g.Module.Globals = append(g.Module.Globals, gl)
	t := g.typeOfDec(e.Decoration())
	val := g.fn.newValue("strref", t)
	inst := g.block.emit(&Instruction{Op: OpConst, Result: val})
	val.Packed = &IRValue{Def: inst}
	val.Loc = Register
	return val
}

func (g *Generator) lowerIdentifier(e *ast.Identifier) *Value {
	return g.lowerIdentEntity(e.Decoration().Entity)
}

func (g *Generator) lowerIdentEntity(entAny any) *Value {
	ent, ok := entAny.(*sema.Entity)
	if !ok {
		return g.fn.newValue("poison", Type{})
	}
	if v, ok := g.values[ent]; ok {
		return v
	}
	return g.fn.newValue("unresolved", Type{})
}

func (g *Generator) lowerListExpression(e *ast.ListExpression) *Value {
	t := g.typeOfDec(e.Decoration())
	slot := g.fn.newValue("list", t)
	inst := g.block.emit(&Instruction{Op: OpAlloca, Result: slot, Imm: int64(t.SizeBytes)})
	slot.Packed = &IRValue{Def: inst}
	slot.Loc = Memory
	elemSize := 0
	if len(e.Elements) > 0 {
		elemSize = g.typeOfDec(e.Elements[0].Decoration()).SizeBytes
	}
	for i, el := range e.Elements {
		v := g.lowerExpr(el)
		gep := g.fn.newValue("elem", v.Type)
		gepInst := g.block.emit(&Instruction{Op: OpGEP, Result: gep, Args: []*Value{slot}, Imm: int64(i * elemSize)})
		gep.Packed = &IRValue{Def: gepInst}
		gep.Loc = Memory
		g.block.emit(&Instruction{Op: OpStore, Args: []*Value{gep, v}})
	}
	return slot
}

func (g *Generator) lowerBinaryExpression(e *ast.BinaryExpression) *Value {
	switch e.Operator {
	case "&&", "||":
		return g.lowerShortCircuit(e)
	}
	l := g.fn.ToRegister(g.block, g.lowerExpr(e.Left))
	r := g.fn.ToRegister(g.block, g.lowerExpr(e.Right))
	op, isFloat := g.binOp(e.Operator, e.Left.Decoration())
	_ = isFloat
	t := g.typeOfDec(e.Decoration())
	res := g.fn.newValue("bin", t)
	inst := g.block.emit(&Instruction{Op: op, Result: res, Args: []*Value{l, r}})
	res.Packed = &IRValue{Def: inst}
	res.Loc = Register
	return res
}

func (g *Generator) binOp(operator string, leftDec *ast.Decoration) (Op, bool) {
	q, _ := leftDec.Type.(sema.QualType)
	_, isFloat := q.Type.(*sema.FloatType)
	unsigned := false
	if it, ok := q.Type.(*sema.IntType); ok {
		unsigned = !it.Signed
	}
	_ = unsigned
	switch operator {
	case "+":
		if isFloat {
			return OpFAdd, true
		}
		return OpAdd, false
	case "-":
		if isFloat {
			return OpFSub, true
		}
		return OpSub, false
	case "*":
		if isFloat {
			return OpFMul, true
		}
		return OpMul, false
	case "/":
		if isFloat {
			return OpFDiv, true
		}
		return OpDiv, false
	case "%":
		return OpRem, false
	case "&":
		return OpAnd, false
	case "|":
		return OpOr, false
	case "^":
		return OpXor, false
	case "<<":
		return OpShl, false
	case ">>":
		return OpShr, false
	case "==":
		if isFloat {
			return OpFCmpEq, true
		}
		return OpCmpEq, false
	case "!=":
		if isFloat {
			return OpFCmpNe, true
		}
		return OpCmpNe, false
	case "<":
		if isFloat {
			return OpFCmpLt, true
		}
		return OpCmpLt, false
	case "<=":
		if isFloat {
			return OpFCmpLe, true
		}
		return OpCmpLe, false
	case ">":
		if isFloat {
			return OpFCmpGt, true
		}
		return OpCmpGt, false
	case ">=":
		if isFloat {
			return OpFCmpGe, true
		}
		return OpCmpGe, false
	}
	return OpAdd, false
}

// lowerShortCircuit lowers `&&`/`||` as two-block branches joined by a phi,
// so the right operand is only evaluated when its value can affect the
// result.
func (g *Generator) lowerShortCircuit(e *ast.BinaryExpression) *Value {
	l := g.fn.ToRegister(g.block, g.lowerExpr(e.Left))
	rhsB := g.fn.NewBlock("rhs")
	joinB := g.fn.NewBlock("join")

	startB := g.block
	if e.Operator == "&&" {
		g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{l}, Blocks: []*BasicBlock{rhsB, joinB}})
	} else {
		g.block.emit(&Instruction{Op: OpCondBr, Args: []*Value{l}, Blocks: []*BasicBlock{joinB, rhsB}})
	}

	g.block = rhsB
	r := g.fn.ToRegister(g.block, g.lowerExpr(e.Right))
	rhsEnd := g.block
	g.block.emit(&Instruction{Op: OpBr, Blocks: []*BasicBlock{joinB}})

	g.block = joinB
	t := g.typeOfDec(e.Decoration())
	res := g.fn.newValue("sc", t)
	inst := g.block.emit(&Instruction{Op: OpPhi, Result: res, Args: []*Value{l, r}, Blocks: []*BasicBlock{startB, rhsEnd}})
	res.Packed = &IRValue{Def: inst}
	res.Loc = Register
	return res
}

func (g *Generator) lowerUnaryExpression(e *ast.UnaryExpression) *Value {
	switch e.Operator {
	case "&":
		operand := g.lowerExpr(e.Operand)
		return g.fn.ToMemory(g.block, operand)
	case "*":
		operand := g.fn.ToRegister(g.block, g.lowerExpr(e.Operand))
		t := g.typeOfDec(e.Decoration())
		res := g.fn.newValue("deref", t)
		res.Loc = Memory
		res.Packed = &IRValue{Def: g.block.emit(&Instruction{Op: OpBitcast, Result: res, Args: []*Value{operand}})}
		return res
	case "!":
		operand := g.fn.ToRegister(g.block, g.lowerExpr(e.Operand))
		t := g.typeOfDec(e.Decoration())
		res := g.fn.newValue("not", t)
		inst := g.block.emit(&Instruction{Op: OpNot, Result: res, Args: []*Value{operand}})
		res.Packed = &IRValue{Def: inst}
		res.Loc = Register
		return res
	case "-":
		operand := g.fn.ToRegister(g.block, g.lowerExpr(e.Operand))
		t := g.typeOfDec(e.Decoration())
		oq, _ := e.Operand.Decoration().Type.(sema.QualType)
		op := OpNeg
		if _, isFloat := oq.Type.(*sema.FloatType); isFloat {
			op = OpFNeg
		}
		res := g.fn.newValue("neg", t)
		inst := g.block.emit(&Instruction{Op: op, Result: res, Args: []*Value{operand}})
		res.Packed = &IRValue{Def: inst}
		res.Loc = Register
		return res
	}
	return g.lowerExpr(e.Operand)
}

func (g *Generator) lowerAssignExpression(e *ast.AssignExpression) *Value {
	target := g.lowerExpr(e.Target)
	value := g.fn.ToRegister(g.block, g.lowerExpr(e.Value))
	if e.Operator != "" {
		cur := g.fn.ToRegister(g.block, target)
		op, _ := g.binOp(e.Operator, e.Target.Decoration())
		t := g.typeOfDec(e.Decoration())
		res := g.fn.newValue("compound", t)
		inst := g.block.emit(&Instruction{Op: op, Result: res, Args: []*Value{cur, value}})
		res.Packed = &IRValue{Def: inst}
		res.Loc = Register
		value = res
	}
	g.block.emit(&Instruction{Op: OpStore, Args: []*Value{target, value}})
	return target
}

func (g *Generator) lowerCallExpression(e *ast.CallExpression) *Value {
	args := make([]*Value, 0, len(e.Args)+1)
	for _, a := range e.Args {
		v := g.lowerExpr(a)
		at := g.typeOfDec(a.Decoration())
		args = append(args, g.fn.ToValueLocation(g.block, v, classify(at).Loc))
	}

	retType := g.typeOfDec(e.Decoration())
	cc := ComputeCallingConvention(nil, retType)
	var valret *Value
	if cc.HasValRet {
		valret = g.fn.newValue("valret", retType)
		allocaInst := g.block.emit(&Instruction{Op: OpAlloca, Result: valret, Imm: int64(retType.SizeBytes)})
		valret.Packed = &IRValue{Def: allocaInst}
		valret.Loc = Memory
		args = append([]*Value{valret}, args...)
	}

	res := g.fn.newValue("call", retType)

	if ident, ok := e.Callee.(*ast.Identifier); ok {
		fn, isFn := ident.Decoration().Entity.(*sema.Entity)
		if isFn {
			if f, ok := fn.Self().(*sema.Function); ok {
				target := g.declareFunction(f)
				if e.Virtual {
					inst := g.block.emit(&Instruction{Op: OpCallVirtual, Result: res, Args: args, Imm: int64(f.VTableSlot)})
					res.Packed = &IRValue{Def: inst}
				} else {
					inst := g.block.emit(&Instruction{Op: OpCall, Result: res, Args: args, Callee: target})
					res.Packed = &IRValue{Def: inst}
				}
				res.Loc = classify(retType).Loc
				if cc.HasValRet {
					return valret
				}
				return res
			}
		}
	}

	callee := g.fn.ToRegister(g.block, g.lowerExpr(e.Callee))
	inst := g.block.emit(&Instruction{Op: OpCall, Result: res, Args: append([]*Value{callee}, args...)})
	res.Packed = &IRValue{Def: inst}
	res.Loc = classify(retType).Loc
	if cc.HasValRet {
		return valret
	}
	return res
}

func (g *Generator) lowerMemberExpression(e *ast.MemberExpression) *Value {
	obj := g.lowerExpr(e.Object)
	objMem := g.fn.ToMemory(g.block, obj)

	oq, _ := e.Object.Decoration().Type.(sema.QualType)
	base := oq.Type
	if ref, ok := base.(*sema.ReferenceType); ok {
		base = ref.Referent.Type
	}
	if _, ok := base.(*sema.ArrayType); ok && e.Member == "count" {
		t := g.typeOfDec(e.Decoration())
		res := g.fn.newValue("count", t)
		inst := g.block.emit(&Instruction{Op: OpLoad, Result: res, Args: []*Value{objMem}, Imm: 8})
		res.Packed = &IRValue{Def: inst}
		res.Loc = Register
		return res
	}
	st, ok := base.(*sema.StructType)
	if !ok {
		return g.fn.newValue("poison", Type{})
	}
	if f, ok := st.FieldByName(e.Member); ok {
		t := g.typeOfDec(e.Decoration())
		gep := g.fn.newValue(e.Member, t)
		inst := g.block.emit(&Instruction{Op: OpGEP, Result: gep, Args: []*Value{objMem}, Imm: int64(f.Offset)})
		gep.Packed = &IRValue{Def: inst}
		gep.Loc = Memory
		return gep
	}
	// Bound method reference: callers of lowerCallExpression special-case
	// the CallExpression.Callee identifier path instead, so a bare method
	// member access (not immediately called) just yields the receiver
	// address for now.
	return objMem
}

func (g *Generator) lowerIndexExpression(e *ast.IndexExpression) *Value {
	arr := g.lowerExpr(e.Array)
	arrMem := g.fn.ToMemory(g.block, arr)
	idx := g.fn.ToRegister(g.block, g.lowerExpr(e.Index))

	elemType := g.typeOfDec(e.Decoration())
	base := arrMem
	aq, _ := e.Array.Decoration().Type.(sema.QualType)
	abase := aq.Type
	if ref, ok := abase.(*sema.ReferenceType); ok {
		abase = ref.Referent.Type
	}
	if at, ok := abase.(*sema.ArrayType); ok && at.Count == sema.Dynamic {
		ptr := g.fn.newValue("dataptr", elemType)
		ptrInst := g.block.emit(&Instruction{Op: OpLoad, Result: ptr, Args: []*Value{arrMem}})
		ptr.Packed = &IRValue{Def: ptrInst}
		ptr.Loc = Register
		base = g.fn.ToMemory(g.block, ptr)
	}

	res := g.fn.newValue("idx", elemType)
	inst := g.block.emit(&Instruction{Op: OpGEP, Result: res, Args: []*Value{base, idx}})
	res.Packed = &IRValue{Def: inst}
	res.Loc = Memory
	return res
}

func (g *Generator) lowerSliceExpression(e *ast.SliceExpression) *Value {
	arr := g.fn.ToMemory(g.block, g.lowerExpr(e.Array))
	var lo *Value
	if e.Lo != nil {
		lo = g.fn.ToRegister(g.block, g.lowerExpr(e.Lo))
	} else {
		lo = g.constInt(0, e.Decoration())
	}

	t := g.typeOfDec(e.Decoration())
	dataPtr := g.fn.newValue("slice.ptr", t)
	inst := g.block.emit(&Instruction{Op: OpGEP, Result: dataPtr, Args: []*Value{arr, lo}})
	dataPtr.Packed = &IRValue{Def: inst}
	dataPtr.Loc = Register

	var length *Value
	if e.Hi != nil {
		hi := g.fn.ToRegister(g.block, g.lowerExpr(e.Hi))
		length = g.fn.newValue("slice.len", t)
		lenInst := g.block.emit(&Instruction{Op: OpSub, Result: length, Args: []*Value{hi, lo}})
		length.Packed = &IRValue{Def: lenInst}
	} else {
		cnt := g.fn.newValue("slice.len", t)
		cntInst := g.block.emit(&Instruction{Op: OpLoad, Result: cnt, Args: []*Value{arr}, Imm: 8})
		length = cnt
		length.Packed = &IRValue{Def: cntInst}
	}
	dataPtr.Unpacked = length.Packed
	return dataPtr
}

func (g *Generator) lowerUniqueExpression(e *ast.UniqueExpression) *Value {
	t := g.typeOfDec(e.Decoration())
	ptr := g.fn.newValue("unique", t)
	size := t.SizeBytes
	if q, ok := e.Decoration().Type.(sema.QualType); ok {
		if up, ok := q.Type.(*sema.UniquePtrType); ok {
			size = TypeOf(up.Pointee).SizeBytes
		}
	}
	inst := g.block.emit(&Instruction{Op: OpAlloc, Result: ptr, Imm: int64(size)})
	ptr.Packed = &IRValue{Def: inst}
	ptr.Loc = Register

	mem := g.fn.ToMemory(g.block, ptr)
	for i, arg := range e.Args {
		v := g.lowerExpr(arg)
		gep := g.fn.newValue("ctorarg", v.Type)
		at := g.typeOfDec(arg.Decoration())
		gepInst := g.block.emit(&Instruction{Op: OpGEP, Result: gep, Args: []*Value{mem}, Imm: int64(i * at.SizeBytes)})
		gep.Packed = &IRValue{Def: gepInst}
		gep.Loc = Memory
		g.block.emit(&Instruction{Op: OpStore, Args: []*Value{gep, v}})
	}
	return ptr
}

func (g *Generator) lowerCastExpression(e *ast.CastExpression) *Value {
	src := g.fn.ToRegister(g.block, g.lowerExpr(e.Operand))
	dstT := g.typeOfDec(e.Decoration())
	op := OpBitcast
	if e.Reinterpret {
		op = OpBitcast
	} else if dstT.SizeBytes < src.Type.SizeBytes {
		op = OpTrunc
	} else if dstT.SizeBytes > src.Type.SizeBytes {
		op = OpSExt
	}
	res := g.fn.newValue("cast", dstT)
	inst := g.block.emit(&Instruction{Op: op, Result: res, Args: []*Value{src}})
	res.Packed = &IRValue{Def: inst}
	res.Loc = Register
	return res
}
