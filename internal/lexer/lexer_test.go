package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scatha-lang/scatha/internal/token"
)

func TestLexerBasics(t *testing.T) {
	src := `public fn foo(n: &[int]) -> int { return n.count; }`
	toks := New("test.sc", src).All()
	require.NotEmpty(t, toks)

	kinds := make([]token.Kind, 0, len(toks))
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	assert.Equal(t, token.PUBLIC, kinds[0])
	assert.Equal(t, token.FN, kinds[1])
	assert.Equal(t, token.IDENT, kinds[2])
	assert.Equal(t, token.LPAREN, kinds[3])
	assert.Contains(t, kinds, token.ARROW)
	assert.Contains(t, kinds, token.RETURN)
	assert.Equal(t, token.EOF, kinds[len(kinds)-1])
}

func TestLexerKeywordsVsIdents(t *testing.T) {
	toks := New("t", "unique mut dyn uniquex").All()
	require.Len(t, toks, 5)
	assert.Equal(t, token.UNIQUE, toks[0].Kind)
	assert.Equal(t, token.MUT, toks[1].Kind)
	assert.Equal(t, token.DYN, toks[2].Kind)
	assert.Equal(t, token.IDENT, toks[3].Kind)
}

func TestLexerNumbersAndStrings(t *testing.T) {
	toks := New("t", `42 3.14 1e10 "hi\n" 'a'`).All()
	require.True(t, len(toks) >= 5)
	assert.Equal(t, token.INT, toks[0].Kind)
	assert.Equal(t, "42", toks[0].Literal)
	assert.Equal(t, token.FLOAT, toks[1].Kind)
	assert.Equal(t, token.FLOAT, toks[2].Kind)
	assert.Equal(t, token.STRING, toks[3].Kind)
	assert.Equal(t, "hi\n", toks[3].Literal)
	assert.Equal(t, token.CHAR, toks[4].Kind)
}

func TestLexerUnicodeColumns(t *testing.T) {
	l := New("t", "let Δ = 1;")
	toks := l.All()
	// Δ sits at column 5 (l,e,t,space,Δ)
	require.True(t, len(toks) >= 2)
	assert.Equal(t, 5, toks[1].Pos.Column)
}

func TestLexerErrorsAccumulate(t *testing.T) {
	l := New("t", "let x = @;")
	l.All()
	assert.NotEmpty(t, l.Errors())
}
