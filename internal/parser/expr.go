package parser

import (
	"github.com/CrimsonDemon567/kyra/internal/ast"
	"github.com/CrimsonDemon567/kyra/internal/token"
)

// expression is the entry point of the precedence ladder:
// assignment -> equality -> comparison -> term -> factor -> primary.
func (p *Parser) expression() ast.Expr {
	return p.assignment()
}

// assignment is right-associative: equality ( "=" assignment )?.
// If the left-hand side is a Variable, it is rewritten into an
// Assignment node targeting that variable's name; any other left-hand
// side is a fatal "invalid assignment target" error.
func (p *Parser) assignment() ast.Expr {
	expr := p.equality()

	if p.match(token.ASSIGN) {
		value := p.assignment()

		if v, ok := expr.(*ast.Variable); ok {
			return &ast.Assignment{Name: v.Name, Value: value}
		}
		fail("Invalid assignment target")
	}

	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	for p.match(token.EQUAL_EQUAL, token.NOT_EQUAL) {
		op := p.previous()
		right := p.comparison()
		expr = &ast.Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	for p.match(token.LESS, token.LESS_EQUAL, token.GREATER, token.GREATER_EQ) {
		op := p.previous()
		right := p.term()
		expr = &ast.Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	for p.match(token.PLUS, token.MINUS) {
		op := p.previous()
		right := p.factor()
		expr = &ast.Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.primary()
	for p.match(token.STAR, token.SLASH) {
		op := p.previous()
		right := p.primary()
		expr = &ast.Binary{Op: op, Left: expr, Right: right}
	}
	return expr
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.NUMBER, token.STRING, token.BOOLEAN, token.NULL):
		return &ast.Literal{Token: p.previous()}

	case p.match(token.IDENT):
		return &ast.Variable{Name: p.previous()}

	case p.match(token.LPAREN):
		expr := p.expression()
		p.expect(token.RPAREN, "Expect ')' after expression")
		return expr
	}

	fail("Expect expression")
	return nil // unreachable
}
