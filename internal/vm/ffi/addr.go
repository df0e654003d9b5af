package ffi

import "unsafe"

// hostAddr returns the address of b's backing array, the host pointer a
// by-pointer argument's translated bytes are passed as. Callers must keep
// a reference to b alive for the duration of the foreign call; Go's
// pointer-passing rules for cgo-style boundaries apply here identically.
func hostAddr(b []byte) unsafe.Pointer {
	if len(b) == 0 {
		return nil
	}
	return unsafe.Pointer(&b[0])
}
