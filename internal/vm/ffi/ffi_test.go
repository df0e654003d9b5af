package ffi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveRequiresOpenLibrary(t *testing.T) {
	b := NewBridge()
	_, err := b.Resolve("libm", "sin")
	require.Error(t, err, "expected an error resolving a symbol in a library that was never Open'd")
}

func TestCallArgCountMismatch(t *testing.T) {
	b := NewBridge()
	sig := Signature{ArgKinds: []Kind{KindInt32, KindInt32}, RetKind: KindInt32}
	_, err := b.Call(1, sig, []uint64{1}, nil)
	require.Error(t, err, "expected an error when args don't match the signature's arity")
}
