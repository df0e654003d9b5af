package vm

import (
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/scatha-lang/scatha/internal/vm/ffi"
)

// BuiltinFunc is a host-provided function addressed by index from
// OpCallBuiltin, matching the compiler-side `__builtin_*` declarations.
type BuiltinFunc func(vm *VM, args []RegValue) (RegValue, error)

// VM executes one loaded Binary. It owns the segmented Memory, the
// intrusive frame stack backed by a flat register bank, the resolved
// foreign-call bridge, and the host-configurable builtin table.
type VM struct {
	Memory *Memory

	registers []RegValue
	frames    []Frame
	flags     flags

	binary    *Binary
	stackSize int

	builtins    []BuiltinFunc
	builtinName map[string]int

	foreign []foreignSlot
	bridge  *ffi.Bridge

	// LibrarySearchPath is probed, in order, to resolve a foreign
	// library's LibPath when it is not already absolute.
	LibrarySearchPath []string

	In  io.Reader
	Out io.Writer

	interrupted atomic.Bool
}

type flags struct {
	eq, lt, gt bool
}

type foreignSlot struct {
	lib  string
	name string
	addr uintptr
	sig  ffi.Signature
}

// New constructs a VM with default I/O streams and an empty builtin table;
// RegisterBuiltin/RegisterBuiltins populate the table the compiled
// program's OpCallBuiltin indices address.
func New() *VM {
	return &VM{
		registers:   make([]RegValue, 0, MaxCallframeRegisters*defaultFrameCapacity),
		builtinName: make(map[string]int),
		bridge:      ffi.NewBridge(),
		In:          os.Stdin,
		Out:         os.Stdout,
	}
}

const defaultFrameCapacity = 64

// RegisterBuiltin adds fn under name, returning the index OpCallBuiltin
// addresses it by.
func (vm *VM) RegisterBuiltin(name string, fn BuiltinFunc) int {
	idx := len(vm.builtins)
	vm.builtins = append(vm.builtins, fn)
	vm.builtinName[name] = idx
	return idx
}

// Load allocates slot 0 (data followed by the configured stack) and
// resolves every foreign library declaration through dlopen, binding each
// entry point's address for OpCallForeign to call into later.
func Load(bin *Binary) (*VM, error) {
	return LoadWithStack(bin, defaultStackSize, nil)
}

// LoadWithStack is Load with an explicit stack size and foreign-library
// search path (probed, in order, for a declaration whose LibPath is not
// already absolute).
func LoadWithStack(bin *Binary, stackSize int, searchPath []string) (*VM, error) {
	v := New()
	v.binary = bin
	v.stackSize = stackSize
	v.LibrarySearchPath = searchPath
	v.Memory = NewMemory(bin.Data, stackSize)

	for _, lib := range bin.ForeignLibraries {
		path := v.resolveLibraryPath(lib)
		if err := v.bridge.Open(lib.LibName, path); err != nil {
			return nil, &FFIError{Library: lib.LibName, Reason: err.Error()}
		}
		for _, e := range lib.Entries {
			addr, err := v.bridge.Resolve(lib.LibName, e.FFIName)
			if err != nil {
				return nil, &FFIError{Library: lib.LibName, Symbol: e.FFIName, Reason: err.Error()}
			}
			for len(v.foreign) <= e.SlotIndex {
				v.foreign = append(v.foreign, foreignSlot{})
			}
			v.foreign[e.SlotIndex] = foreignSlot{lib: lib.LibName, name: e.FFIName, addr: addr, sig: e.Signature}
		}
	}

	v.registerBuiltins()
	return v, nil
}

func (vm *VM) resolveLibraryPath(lib ForeignLibraryDecl) string {
	if filepath.IsAbs(lib.LibPath) {
		return lib.LibPath
	}
	name := lib.LibPath
	if name == "" {
		name = lib.LibName
	}
	for _, dir := range vm.LibrarySearchPath {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return name
}

// Interrupt sets the atomic interrupt flag the interruptible dispatch loop
// samples between instructions; safe to call from another goroutine.
func (vm *VM) Interrupt() { vm.interrupted.Store(true) }

// HostBytes implements ffi.Translator over the VM's segmented memory.
func (vm *VM) HostBytes(slot, offset uint32, size int) ([]byte, error) {
	return vm.Memory.HostPointer(Pointer{Slot: slot, Offset: offset}, size)
}
