package vm

import "fmt"

// MemoryAccessError is raised by any load/store that fails its bounds or
// alignment check.
type MemoryAccessError struct {
	Pointer Pointer
	Reason  string
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access error at %s: %s", e.Pointer, e.Reason)
}

// ArithmeticError is raised by an integer divide/remainder by zero.
type ArithmeticError struct {
	Op string
}

func (e *ArithmeticError) Error() string { return fmt.Sprintf("arithmetic error: %s by zero", e.Op) }

// InvalidOpcodeError is raised when the instruction stream decodes to an
// opcode byte outside the known set.
type InvalidOpcodeError struct {
	Opcode byte
	IP     int
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %#x at ip=%d", e.Opcode, e.IP)
}

// InvalidStackAllocationError is raised when a frame's stack-pointer
// increment would under- or overflow the slot-0 stack region.
type InvalidStackAllocationError struct {
	Requested int
}

func (e *InvalidStackAllocationError) Error() string {
	return fmt.Sprintf("invalid stack allocation of %d bytes", e.Requested)
}

// NoStartAddress is raised by Execute when the loaded binary carries the
// "no entry" sentinel.
type NoStartAddress struct{}

func (e *NoStartAddress) Error() string { return "binary has no start address" }

// FFIError wraps a failure in the foreign-call bridge: an unresolved
// symbol, an unsupported signature, or a pointer argument that does not
// translate to a valid host address.
type FFIError struct {
	Library string
	Symbol  string
	Reason  string
}

func (e *FFIError) Error() string {
	return fmt.Sprintf("ffi error calling %s::%s: %s", e.Library, e.Symbol, e.Reason)
}

// InterruptException is returned by the interruptible dispatch loop when
// the host-set atomic interrupt flag is observed between instructions. It
// is not a programming error: the host may resume by calling Execute again.
type InterruptException struct{}

func (e *InterruptException) Error() string { return "execution interrupted" }

// ExitException is raised by the `exit` builtin to unwind to the execute
// boundary with a requested exit code.
type ExitException struct {
	Code int64
}

func (e *ExitException) Error() string { return fmt.Sprintf("exit(%d)", e.Code) }
