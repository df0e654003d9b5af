package parser

import (
	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/token"
)

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	tok := p.expect(token.LBRACE)
	blk := &ast.BlockStatement{Token: tok}
	for !p.at(token.RBRACE) && !p.at(token.EOF) {
		s := p.parseStatement()
		if s != nil {
			blk.Stmts = append(blk.Stmts, s)
		} else {
			p.next()
		}
	}
	p.expect(token.RBRACE)
	return blk
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur().Kind {
	case token.LBRACE:
		return p.parseBlockStatement()
	case token.LET, token.VAR:
		return p.parseVarStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.BREAK:
		tok := p.next()
		p.expect(token.SEMICOLON)
		return &ast.BreakStatement{Token: tok}
	case token.CONTINUE:
		tok := p.next()
		p.expect(token.SEMICOLON)
		return &ast.ContinueStatement{Token: tok}
	case token.DELETE:
		tok := p.next()
		target := p.parseExpression(LOWEST)
		p.expect(token.SEMICOLON)
		return &ast.DeleteStatement{Token: tok, Target: target}
	case token.SEMICOLON:
		p.next()
		return p.parseStatement()
	default:
		tok := p.cur()
		expr := p.parseExpression(LOWEST)
		p.expect(token.SEMICOLON)
		return &ast.ExpressionStatement{Token: tok, Expr: expr}
	}
}

func (p *Parser) parseVarStatement() *ast.VarStatement {
	tok := p.next()
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
	return &ast.VarStatement{Token: tok, Name: name, Mut: mut, Type: typ, Value: val}
}

func (p *Parser) parseReturnStatement() *ast.ReturnStatement {
	tok := p.next()
	if p.at(token.SEMICOLON) {
		p.next()
		return &ast.ReturnStatement{Token: tok}
	}
	val := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	return &ast.ReturnStatement{Token: tok, Value: val}
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	tok := p.next()
	cond := p.parseExpression(LOWEST)
	then := p.parseBlockStatement()
	stmt := &ast.IfStatement{Token: tok, Cond: cond, Then: then}
	if p.at(token.ELSE) {
		p.next()
		if p.at(token.IF) {
			stmt.Else = p.parseIfStatement()
		} else {
			stmt.Else = p.parseBlockStatement()
		}
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	tok := p.next()
	cond := p.parseExpression(LOWEST)
	body := p.parseBlockStatement()
	return &ast.WhileStatement{Token: tok, Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStatement() *ast.DoWhileStatement {
	tok := p.next()
	body := p.parseBlockStatement()
	p.expect(token.WHILE)
	cond := p.parseExpression(LOWEST)
	p.expect(token.SEMICOLON)
	return &ast.DoWhileStatement{Token: tok, Body: body, Cond: cond}
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	tok := p.next()
	p.expect(token.LPAREN)

	stmt := &ast.ForStatement{Token: tok}
	if !p.at(token.SEMICOLON) {
		if p.at(token.LET) || p.at(token.VAR) {
			stmt.Init = p.parseVarStatement()
		} else {
			etok := p.cur()
			e := p.parseExpression(LOWEST)
			p.expect(token.SEMICOLON)
			stmt.Init = &ast.ExpressionStatement{Token: etok, Expr: e}
		}
	} else {
		p.next()
	}

	if !p.at(token.SEMICOLON) {
		stmt.Cond = p.parseExpression(LOWEST)
	}
	p.expect(token.SEMICOLON)

	if !p.at(token.RPAREN) {
		stmt.Inc = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)

	stmt.Body = p.parseBlockStatement()
	return stmt
}
