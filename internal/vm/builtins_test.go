package vm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltinAllocDeallocRoundTrip(t *testing.T) {
	v := New()
	v.Memory = NewMemory(nil, DefaultStackSize)
	v.registerBuiltins()

	ptr, err := builtinAlloc(v, []RegValue{IntReg(16), IntReg(8)})
	require.NoError(t, err)

	_, err = vmStore(v, ptr.Pointer(), 99)
	require.NoError(t, err)

	got, err := vmLoad(v, ptr.Pointer())
	require.NoError(t, err)
	require.Equal(t, int64(99), got)

	_, err = builtinDealloc(v, []RegValue{ptr})
	require.NoError(t, err)

	_, err = v.Memory.Load(ptr.Pointer(), 8)
	require.Error(t, err, "expected load from a deallocated slot to fault")
}

func TestBuiltinExitRaisesExitException(t *testing.T) {
	v := New()
	_, err := builtinExit(v, []RegValue{IntReg(7)})
	require.Error(t, err)
	exit, ok := err.(*ExitException)
	require.True(t, ok, "error = %T, want *ExitException", err)
	require.Equal(t, int64(7), exit.Code)
}

func vmStore(v *VM, p Pointer, value int64) (struct{}, error) {
	return struct{}{}, v.Memory.Store(p, encodeLE(uint64(value), 8))
}

func vmLoad(v *VM, p Pointer) (int64, error) {
	b, err := v.Memory.Load(p, 8)
	if err != nil {
		return 0, err
	}
	return int64(decodeLE(b)), nil
}
