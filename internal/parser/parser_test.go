package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/lexer"
	"github.com/scatha-lang/scatha/internal/parser"
)

func parseOK(t *testing.T, src string) *ast.Program {
	t.Helper()
	p := parser.New(lexer.New("t.sc", src))
	prog := p.ParseProgram()
	require.Empty(t, p.Errors(), "%v", p.Errors())
	return prog
}

func TestParseArrayCountFunction(t *testing.T) {
	prog := parseOK(t, `public fn foo(n: &[int]) -> int { return n.count; }`)
	require.Len(t, prog.Decls, 1)
	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "foo", fn.Name)
	assert.Equal(t, ast.AccessPublic, fn.Access)
	require.Len(t, fn.Params, 1)
	require.IsType(t, &ast.ReferenceTypeExpr{}, fn.Params[0].Type)
	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStatement)
	require.True(t, ok)
	member, ok := ret.Value.(*ast.MemberExpression)
	require.True(t, ok)
	assert.Equal(t, "count", member.Member)
}

func TestParseUniqueIntRoundTrip(t *testing.T) {
	prog := parseOK(t, `public fn foo() -> int { return *(unique int(42)); }`)
	fn := prog.Decls[0].(*ast.FunctionDecl)
	ret := fn.Body.Stmts[0].(*ast.ReturnStatement)
	un, ok := ret.Value.(*ast.UnaryExpression)
	require.True(t, ok)
	assert.Equal(t, "*", un.Operator)
	_, ok = un.Operand.(*ast.UniqueExpression)
	assert.True(t, ok)
}

func TestParseStructWithProtocolBases(t *testing.T) {
	prog := parseOK(t, `
struct Dyn : P, P2, Base1, Base2 {
	x: int;
	fn test(&dyn this) -> int { return this.x; }
}`)
	s := prog.Decls[0].(*ast.StructDecl)
	assert.Equal(t, "Dyn", s.Name)
	assert.Equal(t, []string{"P", "P2", "Base1", "Base2"}, s.Bases)
	require.Len(t, s.Fields, 1)
	require.Len(t, s.Methods, 1)
	assert.True(t, s.Methods[0].ReceiverDyn)
}

func TestParseMoveAssignAndControlFlow(t *testing.T) {
	parseOK(t, `
fn main() -> int {
	var x: int = 1;
	let y = move x;
	while x < 10 {
		x += 1;
		if x == 5 { break; } else { continue; }
	}
	for (let i = 0; i < 10; i += 1) { x += i; }
	return y;
}`)
}

func TestParseImportAndProtocol(t *testing.T) {
	parseOK(t, `
import native "mylib.scl";
import foreign "libc.so";

protocol P {
	fn test(&dyn this) -> int;
}`)
}
