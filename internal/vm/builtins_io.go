package vm

import "fmt"

// registerIOBuiltins registers the host-visible output and process-control
// builtins: print/println write to vm.Out, exit unwinds to the Execute
// boundary with *ExitException.
func (vm *VM) registerIOBuiltins() {
	vm.RegisterBuiltin("print", builtinPrint)
	vm.RegisterBuiltin("println", builtinPrintln)
	vm.RegisterBuiltin("exit", builtinExit)
}

func builtinPrint(vm *VM, args []RegValue) (RegValue, error) {
	for _, a := range args {
		fmt.Fprint(vm.Out, a.Int64())
	}
	return 0, nil
}

func builtinPrintln(vm *VM, args []RegValue) (RegValue, error) {
	if _, err := builtinPrint(vm, args); err != nil {
		return 0, err
	}
	fmt.Fprintln(vm.Out)
	return 0, nil
}

// builtinExit raises *ExitException, unwinding the dispatch loop to the
// nearest Execute call with the requested process exit code.
func builtinExit(vm *VM, args []RegValue) (RegValue, error) {
	var code int64
	if len(args) == 1 {
		code = args[0].Int64() & 0xFF
	}
	return 0, &ExitException{Code: code}
}
