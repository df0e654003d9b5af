package vm

// Op is the single 8-bit bytecode opcode. Categories follow the fixed
// instruction set: move/conditional-move, load-effective-address,
// stack-pointer increment, call/return (direct, indirect, foreign,
// builtin), jumps, compare/set-from-flags, arithmetic (signed/unsigned/
// float at 32 and 64 bits), width conversions, terminate, trap.
type Op byte

const (
	OpNop Op = iota

	// Move: register<->register, register<->memory, sizes 1/2/4/8 encoded
	// in A. Reg<->reg uses B (src) and C (dst); reg<->memory additionally
	// consults the memory-operand fields on the instruction (base=B,
	// offsetCount=C, multiplier=Mult, innerOffset=Imm).
	OpMovRR // reg[C] = reg[B]
	OpMovRM // reg[D] = *addr
	OpMovMR // *addr = reg[D]

	// OpCMov is the conditional-move family: reg[C] = reg[B] if the
	// predicate in A (a ConditionCode) matches the current flags.
	OpCMov

	// OpLea computes a memory operand's address into reg[D] without
	// dereferencing it.
	OpLea

	// OpMovImm loads the sign-extended Imm directly into reg[C].
	OpMovImm

	// OpSPInc adjusts the current frame's stack pointer by Imm bytes
	// (negative to allocate, positive to release), bounds-checked against
	// slot 0's stack region.
	OpSPInc

	// Calls and return.
	OpCallDirect   // call the function at code offset Imm, passing A argument registers
	OpCallIndirect // call the function whose address is in reg[B]
	OpCallForeign  // call foreign-library entry Imm (resolved at load time)
	OpCallBuiltin  // call host builtin index Imm
	OpRet

	// Control flow.
	OpJmp   // unconditional jump to code offset Imm
	OpJmpIf // jump to Imm if the predicate in A matches the flags

	// Compare/test and set-from-flags.
	OpCmpI32
	OpCmpI64
	OpCmpU32
	OpCmpU64
	OpCmpF32
	OpCmpF64
	OpTest // reg[B] != 0, for branches on booleans
	OpSetCC

	// Signed integer arithmetic, 32-bit.
	OpAddI32
	OpSubI32
	OpMulI32
	OpDivI32
	OpRemI32
	// Signed integer arithmetic, 64-bit.
	OpAddI64
	OpSubI64
	OpMulI64
	OpDivI64
	OpRemI64
	// Unsigned integer arithmetic, 32-bit.
	OpAddU32
	OpSubU32
	OpMulU32
	OpDivU32
	OpRemU32
	// Unsigned integer arithmetic, 64-bit.
	OpAddU64
	OpSubU64
	OpMulU64
	OpDivU64
	OpRemU64
	// Float arithmetic, 32- and 64-bit.
	OpAddF32
	OpSubF32
	OpMulF32
	OpDivF32
	OpAddF64
	OpSubF64
	OpMulF64
	OpDivF64

	// Unary arithmetic.
	OpNegI32
	OpNegI64
	OpNegF32
	OpNegF64

	// Bitwise / shifts (always on the full 64-bit register; A is unused).
	OpAnd
	OpOr
	OpXor
	OpNot
	OpShl
	OpShrArith // arithmetic (sign-extending) right shift
	OpShrLogic // logical (zero-filling) right shift

	// Width conversions: sign/zero extension, truncation, int<->float.
	OpSExt
	OpZExt
	OpTrunc
	OpI32ToF32
	OpI64ToF64
	OpU32ToF32
	OpU64ToF64
	OpF32ToI32
	OpF64ToI64
	OpF32ToU32
	OpF64ToU64
	OpF32ToF64
	OpF64ToF32

	OpTerminate // halts execution; exit code taken from reg[B]'s low byte
	OpTrap      // deliberate breakpoint/fault for diagnostics

	opCount
)

// ConditionCode selects which comparison flag a CMov/JmpIf/SetCC consults.
type ConditionCode byte

const (
	CCEq ConditionCode = iota
	CCNe
	CCLt
	CCLe
	CCGt
	CCGe
)

func (op Op) valid() bool { return op < opCount }
