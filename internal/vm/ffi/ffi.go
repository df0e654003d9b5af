// Package ffi is the foreign-call bridge: it resolves host dynamic
// libraries via dlopen and marshals arguments between the VM's virtual
// pointers and real host addresses. No per-signature call interface is
// built or cached: every Call goes straight through purego.SyscallN. It has no dependency on internal/vm so the bridge can be
// tested and reused independent of the register machine; internal/vm
// supplies a Translator to cross between the two address spaces.
package ffi

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Kind classifies one value crossing the FFI boundary, mirroring the
// libffi type tags the bridge needs to pick a calling sequence.
type Kind int

const (
	KindVoid Kind = iota
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindPointer
	KindByValueStruct // passed by value; marshaled field-by-field
	KindByPointer     // passed by pointer; translated virtual->host first
)

// Signature is a foreign entry point's argument/return type tags, read
// from the binary's foreign-library declarations and passed to every Call.
// Call consults only the argument count and KindByPointer tags.
type Signature struct {
	ArgKinds []Kind
	RetKind  Kind
	Variadic bool
}

// Translator crosses between the VM's virtual pointers and host memory.
// internal/vm implements this over its segmented Memory so ffi never
// needs to import internal/vm.
type Translator interface {
	// HostBytes returns a direct host-addressable view of size bytes
	// starting at the virtual address encoded by (slot, offset).
	HostBytes(slot, offset uint32, size int) ([]byte, error)
}

// Bridge owns open library handles and resolved symbols.
type Bridge struct {
	handles map[string]uintptr
	symbols map[string]uintptr // "lib::symbol" -> address
}

func NewBridge() *Bridge {
	return &Bridge{handles: make(map[string]uintptr), symbols: make(map[string]uintptr)}
}

// Open dlopens path under name, if not already open.
func (b *Bridge) Open(name, path string) error {
	if _, ok := b.handles[name]; ok {
		return nil
	}
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return fmt.Errorf("ffi: dlopen %s (%s): %w", name, path, err)
	}
	b.handles[name] = h
	return nil
}

// Resolve looks up symbol in the named, already-open library and caches
// the address for reuse.
func (b *Bridge) Resolve(lib, symbol string) (uintptr, error) {
	key := lib + "::" + symbol
	if addr, ok := b.symbols[key]; ok {
		return addr, nil
	}
	h, ok := b.handles[lib]
	if !ok {
		return 0, fmt.Errorf("ffi: library %q not open", lib)
	}
	addr, err := purego.Dlsym(h, symbol)
	if err != nil {
		return 0, fmt.Errorf("ffi: dlsym %s::%s: %w", lib, symbol, err)
	}
	b.symbols[key] = addr
	return addr, nil
}

// Call invokes the function at addr using sig to marshal args (8-byte
// register-sized slots, one per argument) and the return value, via
// purego's dynamic syscall path (no statically typed Go function value is
// available, since the signature is only known at VM load time from the
// binary's foreign-library declarations).
func (b *Bridge) Call(addr uintptr, sig Signature, args []uint64, tr Translator) (uint64, error) {
	if len(args) != len(sig.ArgKinds) {
		return 0, fmt.Errorf("ffi: signature expects %d args, got %d", len(sig.ArgKinds), len(args))
	}
	callArgs := make([]uintptr, len(args))
	for i, a := range args {
		if sig.ArgKinds[i] == KindByPointer {
			slot, offset := uint32(a>>32), uint32(a)
			host, err := tr.HostBytes(slot, offset, 8)
			if err != nil {
				return 0, fmt.Errorf("ffi: translating argument %d: %w", i, err)
			}
			callArgs[i] = uintptr(hostAddr(host))
			continue
		}
		callArgs[i] = uintptr(a)
	}

	r1, _, errno := purego.SyscallN(addr, callArgs...)
	if errno != 0 {
		return 0, fmt.Errorf("ffi: call failed: errno %d", errno)
	}
	return uint64(r1), nil
}
