package vm

// registerBuiltins registers every host builtin the compiler's
// `__builtin_*` declarations address by name. The implementations are
// split across files by category:
//   - builtins_memory.go: alloc, dealloc
//   - builtins_io.go: print, println, exit
func (vm *VM) registerBuiltins() {
	vm.registerMemoryBuiltins()
	vm.registerIOBuiltins()
}
