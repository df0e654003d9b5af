package vm

import "fmt"

// registerMemoryBuiltins registers the heap-ownership builtins a `unique`
// expression's constructor/destructor pair lowers to: alloc backs the
// constructor, dealloc backs the destructor.
func (vm *VM) registerMemoryBuiltins() {
	vm.RegisterBuiltin("alloc", builtinAlloc)
	vm.RegisterBuiltin("dealloc", builtinDealloc)
}

// builtinAlloc reserves a fresh heap slot of args[0] bytes aligned to
// args[1] and returns a pointer to its start, e.g. for `unique int(42)`:
// alloc(8, 8).
func builtinAlloc(vm *VM, args []RegValue) (RegValue, error) {
	if len(args) != 2 {
		return 0, fmt.Errorf("alloc expects 2 arguments, got %d", len(args))
	}
	size, align := int(args[0].Int64()), int(args[1].Int64())
	p := vm.Memory.Alloc(size, align)
	return PointerReg(p), nil
}

// builtinDealloc releases the heap slot args[0] points into.
func builtinDealloc(vm *VM, args []RegValue) (RegValue, error) {
	if len(args) != 1 {
		return 0, fmt.Errorf("dealloc expects 1 argument, got %d", len(args))
	}
	return 0, vm.Memory.Dealloc(args[0].Pointer())
}
