package parser

import (
	"strconv"

	"github.com/scatha-lang/scatha/internal/ast"
	"github.com/scatha-lang/scatha/internal/token"
)

// parseExpression is the Pratt-parsing entry point, grounded on the
// teacher's precedence-climbing loop in internal/parser/parser.go.
func (p *Parser) parseExpression(minPrec int) ast.Expression {
	left := p.parsePrefix()
	for minPrec < p.curPrecedence() {
		left = p.parseInfix(left)
	}
	return left
}

func (p *Parser) parsePrefix() ast.Expression {
	switch p.cur().Kind {
	case token.INT:
		tok := p.next()
		v, _ := strconv.ParseInt(tok.Literal, 10, 64)
		return &ast.IntLiteral{Token: tok, Value: v}
	case token.FLOAT:
		tok := p.next()
		v, _ := strconv.ParseFloat(tok.Literal, 64)
		return &ast.FloatLiteral{Token: tok, Value: v}
	case token.STRING:
		tok := p.next()
		return &ast.StringLiteral{Token: tok, Value: tok.Literal}
	case token.CHAR:
		tok := p.next()
		var v int64
		if len(tok.Literal) > 0 {
			v = int64(tok.Literal[0])
		}
		return &ast.IntLiteral{Token: tok, Value: v}
	case token.TRUE:
		tok := p.next()
		return &ast.BoolLiteral{Token: tok, Value: true}
	case token.FALSE:
		tok := p.next()
		return &ast.BoolLiteral{Token: tok, Value: false}
	case token.NULLPTR:
		tok := p.next()
		return &ast.NullptrLiteral{Token: tok}
	case token.THIS:
		tok := p.next()
		return &ast.ThisExpression{Token: tok}
	case token.IDENT:
		tok := p.next()
		return &ast.Identifier{Token: tok, Name: tok.Literal}
	case token.LPAREN:
		p.next()
		e := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return e
	case token.LBRACK:
		tok := p.next()
		list := &ast.ListExpression{Token: tok}
		for !p.at(token.RBRACK) && !p.at(token.EOF) {
			list.Elements = append(list.Elements, p.parseExpression(ASSIGN+1))
			if p.at(token.COMMA) {
				p.next()
			}
		}
		p.expect(token.RBRACK)
		return list
	case token.MINUS, token.BANG, token.TILDE, token.STAR, token.AMP:
		tok := p.next()
		operand := p.parseExpression(PREFIX)
		return &ast.UnaryExpression{Token: tok, Operator: tok.Literal, Operand: operand}
	case token.MOVE:
		tok := p.next()
		operand := p.parseExpression(PREFIX)
		return &ast.MoveExpression{Token: tok, Operand: operand}
	case token.UNIQUE:
		return p.parseUniqueExpression()
	default:
		p.errorf("unexpected token %s in expression position", p.cur().Kind)
		tok := p.next()
		return &ast.Identifier{Token: tok, Name: tok.Literal}
	}
}

func (p *Parser) parseUniqueExpression() ast.Expression {
	tok := p.next() // 'unique'
	typ := p.parseTypeExpr()
	u := &ast.UniqueExpression{Token: tok, Type: typ}
	if p.at(token.LBRACK) {
		p.next()
		u.IsArray = true
		u.Count = p.parseExpression(LOWEST)
		p.expect(token.RBRACK)
		return u
	}
	p.expect(token.LPAREN)
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		u.Args = append(u.Args, p.parseExpression(ASSIGN+1))
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return u
}

var assignOps = map[token.Kind]string{
	token.ASSIGN: "", token.PLUSEQ: "+", token.MINUSEQ: "-",
	token.STAREQ: "*", token.SLASHEQ: "/",
}

func (p *Parser) parseInfix(left ast.Expression) ast.Expression {
	switch p.cur().Kind {
	case token.LPAREN:
		return p.parseCallExpression(left)
	case token.LBRACK:
		return p.parseIndexOrSlice(left)
	case token.DOT:
		tok := p.next()
		member := p.expect(token.IDENT).Literal
		return &ast.MemberExpression{Token: tok, Object: left, Member: member}
	default:
		if op, ok := assignOps[p.cur().Kind]; ok {
			tok := p.next()
			value := p.parseExpression(ASSIGN - 1) // right-associative
			return &ast.AssignExpression{Token: tok, Target: left, Operator: op, Value: value}
		}
		tok := p.next()
		prec := precedences[tok.Kind]
		right := p.parseExpression(prec)
		return &ast.BinaryExpression{Token: tok, Left: left, Operator: tok.Literal, Right: right}
	}
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.next() // '('
	call := &ast.CallExpression{Token: tok, Callee: callee}
	for !p.at(token.RPAREN) && !p.at(token.EOF) {
		call.Args = append(call.Args, p.parseExpression(ASSIGN+1))
		if p.at(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return call
}

func (p *Parser) parseIndexOrSlice(arr ast.Expression) ast.Expression {
	tok := p.next() // '['
	var lo ast.Expression
	if !p.at(token.COLON) {
		lo = p.parseExpression(LOWEST)
	}
	if p.at(token.COLON) {
		p.next()
		var hi ast.Expression
		if !p.at(token.RBRACK) {
			hi = p.parseExpression(LOWEST)
		}
		p.expect(token.RBRACK)
		return &ast.SliceExpression{Token: tok, Array: arr, Lo: lo, Hi: hi}
	}
	p.expect(token.RBRACK)
	return &ast.IndexExpression{Token: tok, Array: arr, Index: lo}
}
