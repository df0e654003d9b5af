// Package parser implements a recursive-descent / Pratt parser that turns a
// internal/lexer token stream into an internal/ast syntax tree.
//
// Scope: spec §1 treats the parser as a fixed external collaborator — only
// its *output shape* (the ast.Node kinds) is specified, not its internals.
// This parser covers `move`, `delete`, `this`, `unique`, `mut`, `dyn`, the
// arithmetic/comparison/assignment operators, and `return`/`break`/
// `continue`; `new` is lexed as a keyword but no parse rule consumes it.
// It follows the teacher's
// Pratt-parsing pattern: a precedence table plus prefix/infix dispatch,
// here written as switch statements over the token kind (parsePrefix,
// parseInfix).
package parser

import (
	"fmt"

	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/lexer"
	"github.com/scatha-lang/scatha/internal/token"
)

// Precedence levels, lowest to highest.
const (
	_ int = iota
	LOWEST
	ASSIGN
	LOGICOR
	LOGICAND
	EQUALITY
	RELATIONAL
	BITOR
	BITXOR
	BITAND
	SHIFT
	SUM
	PRODUCT
	PREFIX
	CALL
	INDEX
	MEMBER
)

var precedences = map[token.Kind]int{
	token.ASSIGN: ASSIGN, token.PLUSEQ: ASSIGN, token.MINUSEQ: ASSIGN,
	token.STAREQ: ASSIGN, token.SLASHEQ: ASSIGN,
	token.OROR: LOGICOR, token.ANDAND: LOGICAND,
	token.EQ: EQUALITY, token.NEQ: EQUALITY,
	token.LT: RELATIONAL, token.GT: RELATIONAL, token.LE: RELATIONAL, token.GE: RELATIONAL,
	token.PIPE: BITOR, token.CARET: BITXOR, token.AMP: BITAND,
	token.SHL: SHIFT, token.SHR: SHIFT,
	token.PLUS: SUM, token.MINUS: SUM,
	token.STAR: PRODUCT, token.SLASH: PRODUCT, token.PERCENT: PRODUCT,
	token.LPAREN: CALL, token.LBRACK: INDEX, token.DOT: MEMBER,
}

// Error is one parse-time syntax error.
type Error struct {
	Pos     token.Position
	Message string
}

func (e Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Message) }

// Parser consumes a token stream (already fully lexed, following the
// teacher's buffered-lookahead approach) and produces an *ast.Program.
type Parser struct {
	toks   []token.Token
	pos    int
	errors []Error
}

// New wraps a lexer, eagerly draining it so the parser can look more than
// one token ahead (e.g. the `&mut this` / `&dyn this` receiver forms).
func New(l *lexer.Lexer) *Parser {
	toks := l.All()
	return &Parser{toks: toks}
}

func (p *Parser) Errors() []Error { return p.errors }

func (p *Parser) cur() token.Token  { return p.toks[p.pos] }
func (p *Parser) peek(n int) token.Token {
	idx := p.pos + n
	if idx >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[idx]
}
func (p *Parser) next() token.Token {
	t := p.cur()
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) at(k token.Kind) bool { return p.cur().Kind == k }

func (p *Parser) expect(k token.Kind) token.Token {
	if !p.at(k) {
		p.errorf("expected %s, got %s (%q)", k, p.cur().Kind, p.cur().Literal)
		return p.cur()
	}
	return p.next()
}

func (p *Parser) errorf(format string, args ...any) {
	p.errors = append(p.errors, Error{Pos: p.cur().Pos, Message: fmt.Sprintf(format, args...)})
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur().Kind]; ok {
		return pr
	}
	return LOWEST
}

// ParseProgram parses a whole translation unit.
func (p *Parser) ParseProgram() *ast.Program {
	prog := &ast.Program{}
	for !p.at(token.EOF) {
		d := p.parseTopLevelDecl()
		if d != nil {
			prog.Decls = append(prog.Decls, d)
		} else {
			p.next() // error recovery: skip one token and keep going
		}
	}
	return prog
}

func (p *Parser) parseAccess() ast.Access {
	switch p.cur().Kind {
	case token.PUBLIC:
		p.next()
		return ast.AccessPublic
	case token.PRIVATE:
		p.next()
		return ast.AccessPrivate
	default:
		return ast.AccessDefault
	}
}

func (p *Parser) parseTopLevelDecl() ast.Declaration {
	switch {
	case p.at(token.IMPORT):
		return p.parseImportDecl()
	case p.at(token.STRUCT), (p.at(token.PUBLIC) && p.peek(1).Kind == token.STRUCT):
		access := p.parseAccess()
		return p.parseStructDecl(access)
	case p.at(token.PROTOCOL):
		return p.parseProtocolDecl()
	case p.at(token.FN), p.at(token.EXTERN),
		(p.at(token.PUBLIC) && (p.peek(1).Kind == token.FN || p.peek(1).Kind == token.EXTERN)):
		access := p.parseAccess()
		return p.parseFunctionDecl(access)
	case p.at(token.LET), p.at(token.VAR),
		(p.at(token.PUBLIC) && (p.peek(1).Kind == token.LET || p.peek(1).Kind == token.VAR)):
		access := p.parseAccess()
		return p.parseGlobalVarDecl(access)
	default:
		p.errorf("expected a top-level declaration, got %s", p.cur().Kind)
		return nil
	}
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	tok := p.next() // 'import'
	kind := ast.ImportNative
	switch p.cur().Literal {
	case "native":
		p.next()
	case "foreign":
		kind = ast.ImportForeign
		p.next()
	}
	pathTok := p.expect(token.STRING)
	p.expect(token.SEMICOLON)
	return &ast.ImportDecl{Token: tok, Kind: kind, Path: pathTok.Literal}
}

func (p *Parser) parseGlobalVarDecl(access ast.Access) *ast.GlobalVarDecl {
	tok := p.next() // let/var
	mut := tok.Kind == token.VAR
	name := p.expect(token.IDENT).Literal
	var typ ast.TypeExpr
	if p.at(token.COLON) {
		p.next()
		typ = p.parseTypeExpr()
	}
	var val ast.Expression
	if p.at(token.ASSIGN) {
		p.next()
		val = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)
	return &ast.GlobalVarDecl{Token: tok, Access: access, Name: name, Mut: mut, Type: typ, Value: val}
}
