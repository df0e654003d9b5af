// Package issue implements the compiler's tagged diagnostic hierarchy and
// its accumulating handler (spec §7 "Error handling design").
//
// Grounded on the teacher's internal/errors package: a CompilerError struct
// that renders a source line and a caret under the offending column. Here
// the single flat struct becomes a closed Kind enumeration so callers (the
// CLI, the conversion engine, the analyzer) can switch on *what* went wrong
// without string-matching a message, while still sharing one formatter.
package issue

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/scatha-lang/scatha/internal/token"
)

// Kind is the closed issue-kind enumeration from spec §7.
type Kind int

const (
	Redefinition Kind = iota
	GenericBadStmt
	ReservedIdentifier // a GenericBadStmt sub-kind, spec §9(a)
	BadValueCatConv
	BadMutConv
	BadTypeConv
	CannotConstructType
	BadAccessControl
	BadImport
	AmbiguousConversion
)

func (k Kind) String() string {
	switch k {
	case Redefinition:
		return "Redefinition"
	case GenericBadStmt:
		return "GenericBadStmt"
	case ReservedIdentifier:
		return "ReservedIdentifier"
	case BadValueCatConv:
		return "BadValueCatConv"
	case BadMutConv:
		return "BadMutConv"
	case BadTypeConv:
		return "BadTypeConv"
	case CannotConstructType:
		return "CannotConstructType"
	case BadAccessControl:
		return "BadAccessControl"
	case BadImport:
		return "BadImport"
	case AmbiguousConversion:
		return "AmbiguousConversion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Issue is a single diagnostic attached to the offending syntax node.
type Issue struct {
	Kind    Kind
	Pos     token.Position
	Message string
	Node    any // the ast.Node the issue is attached to, for IDE-style tooling
}

func (i *Issue) Error() string { return i.Format("", false) }

func sprintf(format string, args ...any) string { return fmt.Sprintf(format, args...) }

// Format renders the issue with a source-line/caret view matching the
// teacher's CompilerError.Format, using east-asian-aware rune widths
// (golang.org/x/text/width) so the caret still lands under the right
// character when the source contains wide glyphs.
func (i *Issue) Format(source string, color bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s\n", i.Pos, i.Kind)

	if line := sourceLine(source, i.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", i.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+caretOffset(line, i.Pos.Column)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(i.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	return sb.String()
}

func sourceLine(source string, n int) string {
	if source == "" || n < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if n > len(lines) {
		return ""
	}
	return lines[n-1]
}

// caretOffset computes the display-column offset of the (1-based) rune
// column within line, accounting for East Asian wide runes so the caret
// still lines up under CJK or fullwidth source text.
func caretOffset(line string, column int) int {
	offset := 0
	i := 0
	for _, r := range line {
		if i >= column-1 {
			break
		}
		if width.LookupRune(r).Kind() == width.EastAsianWide || width.LookupRune(r).Kind() == width.EastAsianFullwidth {
			offset += 2
		} else {
			offset++
		}
		i++
	}
	return offset
}
