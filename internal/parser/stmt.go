package parser

import (
	"github.com/CrimsonDemon567/kyra/internal/ast"
	"github.com/CrimsonDemon567/kyra/internal/token"
)

// statement dispatches on the leading token.
func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.VAR):
		return p.varDeclaration()
	case p.match(token.LBRACE):
		return p.block()
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.FOR):
		return p.forStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	p.expect(token.SEMICOLON, "Expect ';' after expression")
	return &ast.ExprStmt{Expr: expr}
}

func (p *Parser) printStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'print'")
	expr := p.expression()
	p.expect(token.RPAREN, "Expect ')' after print expression")
	p.expect(token.SEMICOLON, "Expect ';' after print statement")
	return &ast.PrintStmt{Expr: expr}
}

// varDeclaration parses `var` IDENT ( "=" expression )? ";". When the
// initializer is absent, a synthetic null literal is used instead.
func (p *Parser) varDeclaration() ast.Stmt {
	name := p.expect(token.IDENT, "Expect variable name")

	var init ast.Expr
	if p.match(token.ASSIGN) {
		init = p.expression()
	} else {
		init = &ast.Literal{Token: token.New(token.NULL, "null", name.Pos)}
	}

	p.expect(token.SEMICOLON, "Expect ';' after variable declaration")
	return &ast.VarDecl{Name: name, Initializer: init}
}

func (p *Parser) block() ast.Stmt {
	var stmts []ast.Stmt
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		stmts = append(stmts, p.statement())
	}
	p.expect(token.RBRACE, "Expect '}' after block")
	return &ast.Block{Statements: stmts}
}

func (p *Parser) ifStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'if'")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after if condition")

	then := p.statement()
	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
	}

	return &ast.If{Condition: cond, Then: then, Else: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'while'")
	cond := p.expression()
	p.expect(token.RPAREN, "Expect ')' after while condition")

	body := p.statement()
	return &ast.While{Condition: cond, Body: body}
}

// forStatement desugars a classical three-clause for loop into a block
// containing the initializer followed by a while loop whose body is a
// block of [original body, increment-as-expression-statement]. An
// absent initializer contributes no statement; an absent condition
// becomes a synthesized `true` literal; an absent increment becomes an
// expression statement pushing the integer 0 (and discarding it).
func (p *Parser) forStatement() ast.Stmt {
	p.expect(token.LPAREN, "Expect '(' after 'for'")

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		// no initializer
	case p.match(token.VAR):
		initializer = p.varDeclaration()
	default:
		initializer = p.expressionStatement()
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
	} else {
		condition = &ast.Literal{Token: token.New(token.BOOLEAN, "true", p.peek().Pos)}
	}
	p.expect(token.SEMICOLON, "Expect ';' after loop condition")

	var increment ast.Stmt
	if !p.check(token.RPAREN) {
		increment = &ast.ExprStmt{Expr: p.expression()}
	} else {
		increment = &ast.ExprStmt{Expr: &ast.Literal{Token: token.New(token.NUMBER, "0", p.peek().Pos)}}
	}
	p.expect(token.RPAREN, "Expect ')' after for clauses")

	body := p.statement()

	loopBody := &ast.Block{Statements: []ast.Stmt{body, increment}}
	loop := ast.Stmt(&ast.While{Condition: condition, Body: loopBody})

	if initializer == nil {
		return &ast.Block{Statements: []ast.Stmt{loop}}
	}
	return &ast.Block{Statements: []ast.Stmt{initializer, loop}}
}
