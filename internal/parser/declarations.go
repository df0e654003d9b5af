package parser

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/token"
)

func (p *Parser) parseBaseList() []string {
	var bases []string
	if p.at(token.COLON) {
		p.next()
		bases = append(bases, p.expect(token.IDENT).Literal)
		for p.at(token.COMMA) {
			p.next()
			bases = append(bases, p.expect(token.IDENT).Literal)
		}
	}
	return bases
}

func (p *Parser) parseStructDecl(access ast.Access) *ast.StructDecl {
	tok := p.next() // 'struct'
	name := p.expect(token.IDENT).Literal
	bases := p.parseBaseList()
	p.expect(token.LBRACE)

	decl := &ast.StructDecl{Token: tok, Access: access, Name: name, Bases: bases}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		memberAccess := p.parseAccess()
		switch {
		case p.at(token.FN):
			m := p.parseFunctionDecl(memberAccess)
			m.Receiver = name
			decl.Methods = append(decl.Methods, m)
		default:
			field := p.parseFieldDecl()
			decl.Fields = append(decl.Fields, field)
		}
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseFieldDecl() *ast.FieldDecl {
	tok := p.expect(token.IDENT)
	p.expect(token.COLON)
	typ := p.parseTypeExpr()
	p.expect(token.SEMICOLON)
	return &ast.FieldDecl{Token: tok, Name: tok.Literal, Type: typ}
}

func (p *Parser) parseProtocolDecl() *ast.ProtocolDecl {
	tok := p.next() // 'protocol'
	name := p.expect(token.IDENT).Literal
	bases := p.parseBaseList()
	p.expect(token.LBRACE)

	decl := &ast.ProtocolDecl{Token: tok, Name: name, Bases: bases}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		m := p.parseFunctionDecl(ast.AccessDefault)
		m.Receiver = name
		m.ReceiverDyn = true
		decl.Methods = append(decl.Methods, m)
	}
	p.expect(token.RBRACE)
	return decl
}

func (p *Parser) parseFunctionDecl(access ast.Access) *ast.FunctionDecl {
	extern := false
	if p.at(token.EXTERN) {
		extern = true
		p.next()
	}
	tok := p.expect(token.FN)
	name := p.expect(token.IDENT).Literal

	fn := &ast.FunctionDecl{Token: tok, Access: access, Name: name, Extern: extern}

	p.expect(token.LPAREN)
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		if p.at(token.AMP) && p.peek(1).Kind == token.MUT && p.peek(2).Kind == token.THIS {
			p.next()
			p.next()
			p.next()
			fn.ReceiverMut = true
		} else if p.at(token.AMP) && p.peek(1).Kind == token.DYN && p.peek(2).Kind == token.THIS {
			p.next()
			p.next()
			p.next()
			fn.ReceiverDyn = true
		} else if p.at(token.AMP) && p.peek(1).Kind == token.THIS {
			p.next()
			p.next()
		} else if p.at(token.THIS) {
			p.next()
		} else {
			ptok := p.expect(token.IDENT)
			p.expect(token.COLON)
			ptype := p.parseTypeExpr()
			fn.Params = append(fn.Params, &ast.ParamDecl{Token: ptok, Name: ptok.Literal, Type: ptype})
		}
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)

	if p.at(token.ARROW) {
		p.next()
		fn.RetType = p.parseTypeExpr()
	}

	if extern || p.at(token.SEMICOLON) {
		p.expect(token.SEMICOLON)
		return fn
	}
	fn.Body = p.parseBlockStatement()
	return fn
}
