package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// program assembles a flat instruction stream starting at offset 0.
func program(insts ...Instruction) []byte {
	var data []byte
	for _, i := range insts {
		data = i.Encode(data)
	}
	return data
}

func newTestVM(t *testing.T, data []byte) *VM {
	t.Helper()
	v, err := Load(&Binary{Data: data, StartAddress: 0})
	require.NoError(t, err)
	return v
}

// TestUniqueIntRoundTrip mirrors `public fn foo() -> int { return
// *(unique int(42)); }`: alloc 8 bytes aligned to 8, store 42, load it
// back, dealloc, and return the loaded value.
func TestUniqueIntRoundTrip(t *testing.T) {
	const zeroReg = 10 // never written; a fresh frame zero-initializes registers
	allocIdx := 0
	deallocIdx := 1

	data := program(
		NewInstruction(OpMovImm, 0, 0, 0, 8),                      // r0 = size(8)
		NewInstruction(OpMovImm, 0, 0, 1, 8),                      // r1 = align(8)
		NewInstruction(OpCallBuiltin, 2, 0, 2, int64(allocIdx)),   // r2 = alloc(r0, r1)
		NewInstruction(OpMovImm, 0, 0, 3, 42),                     // r3 = 42
		NewMemInstruction(OpMovMR, 8, 2, zeroReg, 0, 3, 0),        // *r2 = r3
		NewMemInstruction(OpMovRM, 8, 2, zeroReg, 0, 4, 0),        // r4 = *r2
		NewInstruction(OpCallBuiltin, 1, 2, 5, int64(deallocIdx)), // dealloc(r2)
		NewInstruction(OpRet, 4, 0, 0, 0),
	)

	v := newTestVM(t, data)
	result, err := v.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Int64())
}

// TestRegisterDiscipline checks that the top-of-stack frame depth returns to
// its pre-call value once Execute returns.
func TestRegisterDiscipline(t *testing.T) {
	data := program(
		NewInstruction(OpMovImm, 0, 0, 0, 7),
		NewInstruction(OpRet, 0, 0, 0, 0),
	)
	v := newTestVM(t, data)

	before := len(v.frames)
	_, err := v.Execute(nil)
	require.NoError(t, err)
	assert.Equal(t, before, len(v.frames), "frame stack depth must return to its pre-call value")
}

// TestRegisterDisciplineAfterFault checks the frame stack unwinds back to
// its pre-call depth even when execution faults partway through.
func TestRegisterDisciplineAfterFault(t *testing.T) {
	data := program(
		NewInstruction(OpDivI32, 0, 0, 1, 0), // reg1 is zero => division by zero
	)
	v := newTestVM(t, data)

	before := len(v.frames)
	_, err := v.Execute(nil)
	require.Error(t, err)
	assert.Equal(t, before, len(v.frames), "frame stack must unwind to its pre-call depth on fault")
}

func TestArithmeticOverflowFaultsOnDivZero(t *testing.T) {
	data := program(NewInstruction(OpDivI64, 0, 0, 1, 0))
	v := newTestVM(t, data)
	_, err := v.Execute(nil)
	require.Error(t, err)
	assert.IsType(t, &ArithmeticError{}, err)
}

func TestMemoryAccessOutOfBoundsFaults(t *testing.T) {
	v := newTestVM(t, []byte{})
	// A bogus pointer (slot 9 does not exist) must fault rather than panic.
	_, err := v.Memory.Load(Pointer{Slot: 9}, 8)
	assert.Error(t, err, "expected a memory access error for an unmapped slot")

	_, err = v.Memory.Load(Pointer{Slot: 0, Offset: uint32(len(v.Memory.slots[0].Data))}, 8)
	assert.Error(t, err, "expected a memory access error for an out-of-bounds offset")
}

func TestInterruptibleExecuteReturnsInterruptException(t *testing.T) {
	data := program(
		NewInstruction(OpJmp, 0, 0, 0, 0), // infinite loop at offset 0
	)
	v := newTestVM(t, data)
	v.Interrupt()
	_, err := v.ExecuteInterruptible(nil)
	require.Error(t, err)
	assert.IsType(t, &InterruptException{}, err)
}
