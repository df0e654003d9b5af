package parser

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/token"
)

// parseTypeExpr implements the textual type grammar from spec §6:
// `T`, `&T`, `&mut T`, `&dyn T`, `*T`, `*mut T`, `*unique mut T`, `[T]`,
// `[T, N]`, `(A, B) -> R`.
func (p *Parser) parseTypeExpr() ast.TypeExpr {
	switch p.cur().Kind {
	case token.AMP:
		tok := p.next()
		dyn := false
		mut := false
		if p.at(token.DYN) {
			dyn = true
			p.next()
		}
		if p.at(token.MUT) {
			mut = true
			p.next()
		}
		return &ast.ReferenceTypeExpr{Token: tok, Mut: mut, Dyn: dyn, Elem: p.parseTypeExpr()}
	case token.STAR:
		tok := p.next()
		unique := false
		mut := false
		if p.at(token.UNIQUE) {
			unique = true
			p.next()
		}
		if p.at(token.MUT) {
			mut = true
			p.next()
		}
		return &ast.PointerTypeExpr{Token: tok, Unique: unique, Mut: mut, Elem: p.parseTypeExpr()}
	case token.LBRACK:
		tok := p.next()
		elem := p.parseTypeExpr()
		var count ast.Expression
		if p.at(token.COMMA) {
			p.next()
			count = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACK)
		return &ast.ArrayTypeExpr{Token: tok, Elem: elem, Count: count}
	case token.LPAREN:
		tok := p.next()
		var params []ast.TypeExpr
		for !p.at(token.RPAREN) {
			params = append(params, p.parseTypeExpr())
			if p.at(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.ARROW)
		ret := p.parseTypeExpr()
		return &ast.FunctionTypeExpr{Token: tok, Params: params, Ret: ret}
	default:
		tok := p.expect(token.IDENT)
		return &ast.NamedTypeExpr{Token: tok, Name: tok.Literal}
	}
}
