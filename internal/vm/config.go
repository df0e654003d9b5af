package vm

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/scatha-lang/scatha/internal/vm/ffi"
)

// HostConfig describes the embedding host's view of the machine: where to
// look for foreign libraries and which extra builtins to expose, loaded
// from an optional scatha.yaml file. CLI flags on cmd/scatha override any
// value set here.
type HostConfig struct {
	// LibrarySearchPath is probed, in order, when a foreign library
	// declaration's path is relative.
	LibrarySearchPath []string `yaml:"librarySearchPath"`

	// ForeignLibraryDir, if set, is appended to LibrarySearchPath; kept
	// distinct because it usually names a single project-local directory
	// rather than a system-wide search list.
	ForeignLibraryDir string `yaml:"foreignLibraryDir"`

	// Builtins binds extra OpCallBuiltin names directly to a foreign
	// symbol, in "libname:symbol" form, for host functions that don't
	// warrant a dedicated Go implementation (e.g. wrapping a libm
	// function under a short builtin name). All arguments and the return
	// value are treated as 64-bit integers.
	Builtins map[string]string `yaml:"builtins"`
}

// LoadHostConfig reads and unmarshals path. A missing file is not an
// error: it yields a zero-value HostConfig, since the file is optional.
func LoadHostConfig(path string) (*HostConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &HostConfig{}, nil
		}
		return nil, fmt.Errorf("reading host config %s: %w", path, err)
	}
	var cfg HostConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing host config %s: %w", path, err)
	}
	return &cfg, nil
}

// SearchPath returns the effective library search path: the host config's
// list followed by ForeignLibraryDir, with any CLI-supplied overrides
// given first so they take priority during resolution.
func (c *HostConfig) SearchPath(cliOverride []string) []string {
	var path []string
	path = append(path, cliOverride...)
	path = append(path, c.LibrarySearchPath...)
	if c.ForeignLibraryDir != "" {
		path = append(path, c.ForeignLibraryDir)
	}
	return path
}

// ApplyBuiltins opens and resolves every bound foreign symbol in
// c.Builtins and registers it as an OpCallBuiltin target on vm.
func (c *HostConfig) ApplyBuiltins(vm *VM) error {
	for name, binding := range c.Builtins {
		lib, symbol, ok := strings.Cut(binding, ":")
		if !ok {
			return fmt.Errorf("builtin %q: binding %q must be in \"libname:symbol\" form", name, binding)
		}
		if err := vm.bridge.Open(lib, vm.resolveLibraryPath(ForeignLibraryDecl{LibName: lib})); err != nil {
			return fmt.Errorf("builtin %q: opening %s: %w", name, lib, err)
		}
		addr, err := vm.bridge.Resolve(lib, symbol)
		if err != nil {
			return fmt.Errorf("builtin %q: resolving %s:%s: %w", name, lib, symbol, err)
		}
		sig := ffi.Signature{RetKind: ffi.KindInt64}
		vm.RegisterBuiltin(name, hostBinding(vm, addr, sig))
	}
	return nil
}

// hostBinding wraps a resolved foreign address as a BuiltinFunc, treating
// every argument and the return value as a 64-bit integer.
func hostBinding(vm *VM, addr uintptr, sig ffi.Signature) BuiltinFunc {
	return func(_ *VM, args []RegValue) (RegValue, error) {
		sig := sig
		sig.ArgKinds = make([]ffi.Kind, len(args))
		raw := make([]uint64, len(args))
		for i, a := range args {
			sig.ArgKinds[i] = ffi.KindInt64
			raw[i] = a.Uint64()
		}
		ret, err := vm.bridge.Call(addr, sig, raw, vm)
		if err != nil {
			return RegValue(0), err
		}
		return IntReg(int64(ret)), nil
	}
}
