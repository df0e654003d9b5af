package vm

// Execute runs the binary's start address to completion (or fault) using
// the portable switch-based dispatch loop and returns register 0 of the
// entry frame's return value.
func (vm *VM) Execute(args []RegValue) (RegValue, error) {
	return vm.run(args, false)
}

// ExecuteInterruptible is identical to Execute but samples the atomic
// interrupt flag between every instruction, returning *InterruptException
// as soon as it observes the flag set. The host may resume by calling
// Execute/ExecuteInterruptible again; VM state is left exactly as it stood
// before the instruction that would have executed next.
func (vm *VM) ExecuteInterruptible(args []RegValue) (RegValue, error) {
	return vm.run(args, true)
}

func (vm *VM) run(args []RegValue, interruptible bool) (RegValue, error) {
	if vm.binary == nil || vm.binary.StartAddress == NoEntry {
		return 0, &NoStartAddress{}
	}
	baseDepth := len(vm.frames)
	vm.pushFrame(vm.binary.StartAddress, args)

	for len(vm.frames) > baseDepth {
		if interruptible && vm.interrupted.Load() {
			vm.interrupted.Store(false)
			return 0, &InterruptException{}
		}

		frame := &vm.frames[len(vm.frames)-1]
		inst, err := DecodeInstruction(vm.binary.Data, frame.IP)
		if err != nil {
			vm.unwindTo(baseDepth)
			return 0, err
		}
		frame.IP += InstructionSize

		ret, done, err := vm.step(frame, inst, baseDepth)
		if err != nil {
			vm.unwindTo(baseDepth)
			return 0, err
		}
		if done {
			return ret, nil
		}
	}
	panic("vm: dispatch loop exited without a return")
}

// unwindTo discards every frame and register window pushed at or after
// depth, restoring the register-discipline invariant: the top frame after
// Execute returns, whether by return or by fault, is the one that was on
// top before Execute was called.
func (vm *VM) unwindTo(depth int) {
	if depth >= len(vm.frames) {
		return
	}
	vm.registers = vm.registers[:vm.frames[depth].RegBase]
	vm.frames = vm.frames[:depth]
}

func (vm *VM) pushFrame(entryIP int, args []RegValue) {
	base := len(vm.registers)
	vm.registers = append(vm.registers, make([]RegValue, MaxCallframeRegisters)...)
	for i, a := range args {
		vm.registers[base+i] = a
	}
	vm.frames = append(vm.frames, Frame{RegBase: base, RegCount: MaxCallframeRegisters, IP: entryIP, ReturnIP: -1})
}

// step executes one instruction in frame. done reports whether the
// outermost frame (the one run() pushed) has just returned, in which case
// ret is its result.
func (vm *VM) step(frame *Frame, inst Instruction, baseDepth int) (ret RegValue, done bool, err error) {
	bank := vm.registers
	switch inst.Op() {
	case OpNop:

	case OpMovRR:
		frame.setReg(bank, inst.C(), frame.reg(bank, inst.B()))

	case OpMovRM:
		p, e := vm.addr(frame, inst)
		if e != nil {
			return 0, false, e
		}
		data, e := vm.Memory.Load(p, int(inst.A()))
		if e != nil {
			return 0, false, e
		}
		frame.setReg(bank, inst.D(), RegValue(decodeLE(data)))

	case OpMovMR:
		p, e := vm.addr(frame, inst)
		if e != nil {
			return 0, false, e
		}
		v := frame.reg(bank, inst.D())
		if e := vm.Memory.Store(p, encodeLE(uint64(v), int(inst.A()))); e != nil {
			return 0, false, e
		}

	case OpCMov:
		if vm.predicate(ConditionCode(inst.A())) {
			frame.setReg(bank, inst.C(), frame.reg(bank, inst.B()))
		}

	case OpLea:
		p, e := vm.addr(frame, inst)
		if e != nil {
			return 0, false, e
		}
		frame.setReg(bank, inst.D(), PointerReg(p))

	case OpMovImm:
		frame.setReg(bank, inst.C(), IntReg(inst.Imm()))

	case OpSPInc:
		delta := inst.Imm()
		newSP := int64(frame.SP) + delta
		if newSP < 0 || newSP > int64(vm.stackSize) {
			return 0, false, &InvalidStackAllocationError{Requested: int(delta)}
		}
		frame.SP = uint32(newSP)

	case OpCallDirect:
		args := vm.callArgs(frame, bank, int(inst.A()))
		dest := inst.C()
		vm.pushFrame(int(inst.Imm()), args)
		vm.frames[len(vm.frames)-1].ReturnIP = frame.IP
		vm.frames[len(vm.frames)-1].Dest = dest

	case OpCallIndirect:
		target := frame.reg(bank, inst.B()).Pointer()
		args := vm.callArgs(frame, bank, int(inst.A()))
		dest := inst.C()
		vm.pushFrame(int(target.Offset), args)
		vm.frames[len(vm.frames)-1].ReturnIP = frame.IP
		vm.frames[len(vm.frames)-1].Dest = dest

	case OpCallForeign:
		v, e := vm.callForeign(frame, bank, inst)
		if e != nil {
			return 0, false, e
		}
		frame.setReg(bank, inst.C(), v)

	case OpCallBuiltin:
		idx := int(inst.Imm())
		if idx < 0 || idx >= len(vm.builtins) {
			return 0, false, &InvalidOpcodeError{Opcode: byte(inst.Op()), IP: frame.IP - InstructionSize}
		}
		callArgs := make([]RegValue, inst.A())
		for i := range callArgs {
			callArgs[i] = frame.reg(bank, inst.B()+byte(i))
		}
		v, e := vm.builtins[idx](vm, callArgs)
		if e != nil {
			return 0, false, e
		}
		frame.setReg(bank, inst.C(), v)

	case OpRet:
		result := frame.reg(bank, inst.A())
		finishedOutermost := len(vm.frames)-1 == baseDepth
		dest := frame.Dest
		vm.popFrame()
		if finishedOutermost {
			return result, true, nil
		}
		caller := &vm.frames[len(vm.frames)-1]
		caller.setReg(vm.registers, dest, result)

	case OpJmp:
		frame.IP = int(inst.Imm())

	case OpJmpIf:
		if vm.predicate(ConditionCode(inst.A())) {
			frame.IP = int(inst.Imm())
		}

	case OpCmpI32, OpCmpI64, OpCmpU32, OpCmpU64, OpCmpF32, OpCmpF64:
		vm.compare(frame, bank, inst)

	case OpTest:
		v := frame.reg(bank, inst.B())
		vm.flags = flags{eq: v == 0}

	case OpSetCC:
		if vm.predicate(ConditionCode(inst.A())) {
			frame.setReg(bank, inst.C(), IntReg(1))
		} else {
			frame.setReg(bank, inst.C(), IntReg(0))
		}

	default:
		if e := vm.arith(frame, bank, inst); e != nil {
			return 0, false, e
		}
	}
	return 0, false, nil
}

func (vm *VM) popFrame() {
	f := vm.frames[len(vm.frames)-1]
	vm.registers = vm.registers[:f.RegBase]
	vm.frames = vm.frames[:len(vm.frames)-1]
}

// callArgs reads count argument values out of the caller's own low
// registers, matching the calling convention's contract that arguments are
// placed there before the call instruction executes.
func (vm *VM) callArgs(frame *Frame, bank []RegValue, count int) []RegValue {
	out := make([]RegValue, count)
	for i := range out {
		out[i] = frame.reg(bank, byte(i))
	}
	return out
}

func (vm *VM) callForeign(frame *Frame, bank []RegValue, inst Instruction) (RegValue, error) {
	idx := int(inst.Imm())
	if idx < 0 || idx >= len(vm.foreign) {
		return 0, &FFIError{Reason: "unresolved foreign slot index"}
	}
	slot := vm.foreign[idx]
	if slot.addr == 0 {
		return 0, &FFIError{Library: slot.lib, Symbol: slot.name, Reason: "symbol not bound"}
	}
	count := int(inst.A())
	args := make([]uint64, count)
	for i := 0; i < count; i++ {
		args[i] = uint64(frame.reg(bank, inst.B()+byte(i)))
	}
	ret, err := vm.bridge.Call(slot.addr, slot.sig, args, vm)
	if err != nil {
		return 0, &FFIError{Library: slot.lib, Symbol: slot.name, Reason: err.Error()}
	}
	return RegValue(ret), nil
}

// addr computes a memory operand's virtual address: base register plus a
// constant inner offset plus a scaled offset-count register.
func (vm *VM) addr(frame *Frame, inst Instruction) (Pointer, error) {
	base := frame.reg(vm.registers, inst.B()).Pointer()
	count := frame.reg(vm.registers, inst.C()).Int64()
	delta := inst.Imm() + count*int64(inst.Mult())
	offset := int64(base.Offset) + delta
	if offset < 0 {
		return Pointer{}, &MemoryAccessError{Pointer: base, Reason: "negative memory-operand offset"}
	}
	return Pointer{Slot: base.Slot, Offset: uint32(offset)}, nil
}

func (vm *VM) predicate(cc ConditionCode) bool {
	switch cc {
	case CCEq:
		return vm.flags.eq
	case CCNe:
		return !vm.flags.eq
	case CCLt:
		return vm.flags.lt
	case CCLe:
		return vm.flags.lt || vm.flags.eq
	case CCGt:
		return vm.flags.gt
	case CCGe:
		return vm.flags.gt || vm.flags.eq
	}
	return false
}

func (vm *VM) compare(frame *Frame, bank []RegValue, inst Instruction) {
	a, b := frame.reg(bank, inst.B()), frame.reg(bank, inst.C())
	switch inst.Op() {
	case OpCmpI32:
		vm.flags = flags{eq: a.Int32() == b.Int32(), lt: a.Int32() < b.Int32(), gt: a.Int32() > b.Int32()}
	case OpCmpI64:
		vm.flags = flags{eq: a.Int64() == b.Int64(), lt: a.Int64() < b.Int64(), gt: a.Int64() > b.Int64()}
	case OpCmpU32:
		vm.flags = flags{eq: a.Uint32() == b.Uint32(), lt: a.Uint32() < b.Uint32(), gt: a.Uint32() > b.Uint32()}
	case OpCmpU64:
		vm.flags = flags{eq: a.Uint64() == b.Uint64(), lt: a.Uint64() < b.Uint64(), gt: a.Uint64() > b.Uint64()}
	case OpCmpF32:
		vm.flags = flags{eq: a.Float32() == b.Float32(), lt: a.Float32() < b.Float32(), gt: a.Float32() > b.Float32()}
	case OpCmpF64:
		vm.flags = flags{eq: a.Float64() == b.Float64(), lt: a.Float64() < b.Float64(), gt: a.Float64() > b.Float64()}
	}
}

// arith handles every signed/unsigned/float arithmetic opcode, the unary
// negations, the bitwise/shift family, and the width conversions: the
// remainder of Op once the control-flow and memory opcodes are dispatched.
func (vm *VM) arith(frame *Frame, bank []RegValue, inst Instruction) error {
	a, b := frame.reg(bank, inst.B()), frame.reg(bank, inst.C())
	var result RegValue
	switch inst.Op() {
	case OpAddI32:
		result = IntReg(int64(a.Int32() + b.Int32()))
	case OpSubI32:
		result = IntReg(int64(a.Int32() - b.Int32()))
	case OpMulI32:
		result = IntReg(int64(a.Int32() * b.Int32()))
	case OpDivI32:
		if b.Int32() == 0 {
			return &ArithmeticError{Op: "div"}
		}
		result = IntReg(int64(a.Int32() / b.Int32()))
	case OpRemI32:
		if b.Int32() == 0 {
			return &ArithmeticError{Op: "rem"}
		}
		result = IntReg(int64(a.Int32() % b.Int32()))
	case OpAddI64:
		result = IntReg(a.Int64() + b.Int64())
	case OpSubI64:
		result = IntReg(a.Int64() - b.Int64())
	case OpMulI64:
		result = IntReg(a.Int64() * b.Int64())
	case OpDivI64:
		if b.Int64() == 0 {
			return &ArithmeticError{Op: "div"}
		}
		result = IntReg(a.Int64() / b.Int64())
	case OpRemI64:
		if b.Int64() == 0 {
			return &ArithmeticError{Op: "rem"}
		}
		result = IntReg(a.Int64() % b.Int64())
	case OpAddU32:
		result = UintReg(uint64(a.Uint32() + b.Uint32()))
	case OpSubU32:
		result = UintReg(uint64(a.Uint32() - b.Uint32()))
	case OpMulU32:
		result = UintReg(uint64(a.Uint32() * b.Uint32()))
	case OpDivU32:
		if b.Uint32() == 0 {
			return &ArithmeticError{Op: "div"}
		}
		result = UintReg(uint64(a.Uint32() / b.Uint32()))
	case OpRemU32:
		if b.Uint32() == 0 {
			return &ArithmeticError{Op: "rem"}
		}
		result = UintReg(uint64(a.Uint32() % b.Uint32()))
	case OpAddU64:
		result = UintReg(a.Uint64() + b.Uint64())
	case OpSubU64:
		result = UintReg(a.Uint64() - b.Uint64())
	case OpMulU64:
		result = UintReg(a.Uint64() * b.Uint64())
	case OpDivU64:
		if b.Uint64() == 0 {
			return &ArithmeticError{Op: "div"}
		}
		result = UintReg(a.Uint64() / b.Uint64())
	case OpRemU64:
		if b.Uint64() == 0 {
			return &ArithmeticError{Op: "rem"}
		}
		result = UintReg(a.Uint64() % b.Uint64())
	case OpAddF32:
		result = Float32Reg(a.Float32() + b.Float32())
	case OpSubF32:
		result = Float32Reg(a.Float32() - b.Float32())
	case OpMulF32:
		result = Float32Reg(a.Float32() * b.Float32())
	case OpDivF32:
		result = Float32Reg(a.Float32() / b.Float32())
	case OpAddF64:
		result = Float64Reg(a.Float64() + b.Float64())
	case OpSubF64:
		result = Float64Reg(a.Float64() - b.Float64())
	case OpMulF64:
		result = Float64Reg(a.Float64() * b.Float64())
	case OpDivF64:
		result = Float64Reg(a.Float64() / b.Float64())
	case OpNegI32:
		result = IntReg(int64(-a.Int32()))
	case OpNegI64:
		result = IntReg(-a.Int64())
	case OpNegF32:
		result = Float32Reg(-a.Float32())
	case OpNegF64:
		result = Float64Reg(-a.Float64())
	case OpAnd:
		result = UintReg(a.Uint64() & b.Uint64())
	case OpOr:
		result = UintReg(a.Uint64() | b.Uint64())
	case OpXor:
		result = UintReg(a.Uint64() ^ b.Uint64())
	case OpNot:
		result = UintReg(^a.Uint64())
	case OpShl:
		result = UintReg(a.Uint64() << (b.Uint64() & 63))
	case OpShrArith:
		result = IntReg(a.Int64() >> (b.Uint64() & 63))
	case OpShrLogic:
		result = UintReg(a.Uint64() >> (b.Uint64() & 63))
	case OpSExt:
		result = IntReg(int64(a.Int32()))
	case OpZExt:
		result = UintReg(uint64(a.Uint32()))
	case OpTrunc:
		result = UintReg(uint64(uint32(a.Uint64())))
	case OpI32ToF32:
		result = Float32Reg(float32(a.Int32()))
	case OpI64ToF64:
		result = Float64Reg(float64(a.Int64()))
	case OpU32ToF32:
		result = Float32Reg(float32(a.Uint32()))
	case OpU64ToF64:
		result = Float64Reg(float64(a.Uint64()))
	case OpF32ToI32:
		result = IntReg(int64(int32(a.Float32())))
	case OpF64ToI64:
		result = IntReg(int64(a.Float64()))
	case OpF32ToU32:
		result = UintReg(uint64(uint32(a.Float32())))
	case OpF64ToU64:
		result = UintReg(uint64(a.Float64()))
	case OpF32ToF64:
		result = Float64Reg(float64(a.Float32()))
	case OpF64ToF32:
		result = Float32Reg(float32(a.Float64()))
	case OpTerminate:
		return &ExitException{Code: a.Int64() & 0xFF}
	case OpTrap:
		return &InvalidOpcodeError{Opcode: byte(inst.Op())}
	default:
		return &InvalidOpcodeError{Opcode: byte(inst.Op())}
	}
	frame.setReg(bank, inst.C(), result)
	return nil
}

func decodeLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func encodeLE(v uint64, size int) []byte {
	out := make([]byte, size)
	for i := 0; i < size; i++ {
		out[i] = byte(v >> (8 * i))
	}
	return out
}
