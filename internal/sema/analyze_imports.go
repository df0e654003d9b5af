package sema

import (
	"os"
	"path/filepath"

	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/issue"
)

// analyzeImport resolves one import declaration against the configured
// library search path: a native import reads and deserializes a JSON
// descriptor (internal/sema/libformat); a foreign import just records the
// library name, since the symbols it exposes are resolved lazily by the
// virtual machine's FFI bridge rather than type-checked here.
func (a *Analyzer) analyzeImport(d *ast.ImportDecl) {
	resolved := a.resolveLibraryPath(d.Path)
	if resolved == "" {
		a.Issues.Report(issue.BadImport, d.Pos(), d, "cannot locate library %q on the search path", d.Path)
		return
	}

	switch d.Kind {
	case ast.ImportNative:
		raw, err := os.ReadFile(resolved)
		if err != nil {
			a.Issues.Report(issue.BadImport, d.Pos(), d, "cannot read native library descriptor %q: %v", resolved, err)
			return
		}
		entries, _, decodeErr := a.decodeDescriptor(raw)
		if decodeErr != nil {
			a.Issues.Report(issue.BadImport, d.Pos(), d, "malformed symbol-table descriptor in %q: %v", resolved, decodeErr)
			return
		}
		a.Symbols.ImportNativeLibrary(d.Path, entries)
	case ast.ImportForeign:
		a.Symbols.ImportForeignLibrary(d.Path)
	}
}

// resolveLibraryPath probes the package-level LibrarySearchPath in order,
// returning the first existing file named path (joined if relative), or
// the empty string if no candidate exists.
func (a *Analyzer) resolveLibraryPath(path string) string {
	if filepath.IsAbs(path) {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		return ""
	}
	for _, dir := range LibrarySearchPath {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	if _, err := os.Stat(path); err == nil {
		return path
	}
	return ""
}

// DescriptorDecoder decodes a native library's descriptor; cmd/scatha sets
// it to internal/sema/libformat.Deserialize. It is a package-level function
// variable so internal/sema itself never imports its own libformat
// subpackage, avoiding a dependency cycle between the descriptor codec
// (which imports sema's exported desc types) and the analyzer that
// consumes it. While it is nil, decodeDescriptor returns errNoDecoderWired.
var DescriptorDecoder func(doc []byte) ([]PublicEntityDesc, string, error)

func (a *Analyzer) decodeDescriptor(raw []byte) ([]PublicEntityDesc, string, error) {
	if DescriptorDecoder == nil {
		return nil, "", errNoDecoderWired
	}
	return DescriptorDecoder(raw)
}

var errNoDecoderWired = &noDecoderError{}

type noDecoderError struct{}

func (*noDecoderError) Error() string {
	return "no symbol-table descriptor decoder wired (internal/sema/libformat not linked by the importing binary)"
}
