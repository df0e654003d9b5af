package vm

import (
	"fmt"
	"io"
)

// Disassembler prints a human-readable listing of a Binary's code, one
// fixed-size instruction per line, for the `disasm` host command.
type Disassembler struct {
	writer io.Writer
	bin    *Binary
}

func NewDisassembler(bin *Binary, w io.Writer) *Disassembler {
	return &Disassembler{writer: w, bin: bin}
}

func (d *Disassembler) Disassemble() {
	fmt.Fprintf(d.writer, "data: %d bytes, start: %s\n", len(d.bin.Data), startAddressString(d.bin.StartAddress))
	for _, lib := range d.bin.ForeignLibraries {
		fmt.Fprintf(d.writer, "foreign %q (%s):\n", lib.LibName, lib.LibPath)
		for _, e := range lib.Entries {
			fmt.Fprintf(d.writer, "  [%d] %s\n", e.SlotIndex, e.FFIName)
		}
	}
	fmt.Fprintln(d.writer, "code:")
	for ip := 0; ip+InstructionSize <= len(d.bin.Data); ip += InstructionSize {
		d.instruction(ip)
	}
}

func startAddressString(addr int) string {
	if addr == NoEntry {
		return "none"
	}
	return fmt.Sprintf("%#06x", addr)
}

func (d *Disassembler) instruction(ip int) {
	inst, err := DecodeInstruction(d.bin.Data, ip)
	if err != nil {
		fmt.Fprintf(d.writer, "%06x  <invalid: %s>\n", ip, err)
		return
	}
	fmt.Fprintf(d.writer, "%06x  %-14s a=%-3d b=%-3d c=%-3d mult=%-3d d=%-3d imm=%d\n",
		ip, opcodeName(inst.Op()), inst.A(), inst.B(), inst.C(), inst.Mult(), inst.D(), inst.Imm())
}

var opcodeNames = map[Op]string{
	OpNop: "nop", OpMovRR: "mov.rr", OpMovRM: "mov.rm", OpMovMR: "mov.mr",
	OpCMov: "cmov", OpLea: "lea", OpMovImm: "mov.imm", OpSPInc: "sp.inc",
	OpCallDirect: "call", OpCallIndirect: "calli", OpCallForeign: "callf", OpCallBuiltin: "callb",
	OpRet: "ret", OpJmp: "jmp", OpJmpIf: "jmp.if",
	OpCmpI32: "cmp.i32", OpCmpI64: "cmp.i64", OpCmpU32: "cmp.u32", OpCmpU64: "cmp.u64",
	OpCmpF32: "cmp.f32", OpCmpF64: "cmp.f64", OpTest: "test", OpSetCC: "setcc",
	OpAddI32: "add.i32", OpSubI32: "sub.i32", OpMulI32: "mul.i32", OpDivI32: "div.i32", OpRemI32: "rem.i32",
	OpAddI64: "add.i64", OpSubI64: "sub.i64", OpMulI64: "mul.i64", OpDivI64: "div.i64", OpRemI64: "rem.i64",
	OpAddU32: "add.u32", OpSubU32: "sub.u32", OpMulU32: "mul.u32", OpDivU32: "div.u32", OpRemU32: "rem.u32",
	OpAddU64: "add.u64", OpSubU64: "sub.u64", OpMulU64: "mul.u64", OpDivU64: "div.u64", OpRemU64: "rem.u64",
	OpAddF32: "add.f32", OpSubF32: "sub.f32", OpMulF32: "mul.f32", OpDivF32: "div.f32",
	OpAddF64: "add.f64", OpSubF64: "sub.f64", OpMulF64: "mul.f64", OpDivF64: "div.f64",
	OpNegI32: "neg.i32", OpNegI64: "neg.i64", OpNegF32: "neg.f32", OpNegF64: "neg.f64",
	OpAnd: "and", OpOr: "or", OpXor: "xor", OpNot: "not",
	OpShl: "shl", OpShrArith: "shr.a", OpShrLogic: "shr.l",
	OpSExt: "sext", OpZExt: "zext", OpTrunc: "trunc",
	OpI32ToF32: "i32tof32", OpI64ToF64: "i64tof64", OpU32ToF32: "u32tof32", OpU64ToF64: "u64tof64",
	OpF32ToI32: "f32toi32", OpF64ToI64: "f64toi64", OpF32ToU32: "f32tou32", OpF64ToU64: "f64tou64",
	OpF32ToF64: "f32tof64", OpF64ToF32: "f64tof32",
	OpTerminate: "terminate", OpTrap: "trap",
}

func opcodeName(op Op) string {
	if n, ok := opcodeNames[op]; ok {
		return n
	}
	return fmt.Sprintf("op(%d)", op)
}
