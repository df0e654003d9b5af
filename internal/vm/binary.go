package vm

import "github.com/scatha-lang/scatha/internal/vm/ffi"

// NoEntry is the sentinel start-address value meaning the binary defines
// no entry point (a library, not a program).
const NoEntry = -1

// ForeignEntry is one `(ffi-name, signature, slot-index)` triple the
// loader resolves into a callable FFI address, addressed by slot-index
// from OpCallForeign.
type ForeignEntry struct {
	FFIName   string
	Signature ffi.Signature
	SlotIndex int
}

// ForeignLibraryDecl is one foreign-library declaration from the binary's
// header: a host library name plus every entry point the program calls
// into it through.
type ForeignLibraryDecl struct {
	LibName string
	LibPath string
	Entries []ForeignEntry
}

// Binary is the loaded program: static data (code + read-only constants),
// the start-address offset (or NoEntry), and the foreign-library
// declarations the loader must resolve before execution can begin.
type Binary struct {
	Data             []byte // code + read-only constants, laid out by the assembler
	StartAddress     int
	ForeignLibraries []ForeignLibraryDecl
}

// DefaultStackSize is the configured stack region appended after the data
// section in slot 0 when a caller doesn't need a different size.
const DefaultStackSize = 1 << 16

const defaultStackSize = DefaultStackSize
