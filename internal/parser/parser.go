// Package parser implements the recursive-descent, precedence-climbing
// parser that turns a token stream into the AST defined in
// internal/ast. It surfaces a fatal *Error on the first violated
// expectation and makes no attempt at recovery.
package parser

import (
	"fmt"

	"github.com/CrimsonDemon567/kyra/internal/ast"
	"github.com/CrimsonDemon567/kyra/internal/token"
)

// Error is a parse-time failure. It carries a human-readable
// expectation message (e.g. "Expect ';' after expression").
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

// Parser consumes tokens and produces a statement list.
type Parser struct {
	tokens []token.Token
	pos    int
}

// New creates a parser over the given token stream.
func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the entire token stream and returns the top-level
// statement list, or the first parse error encountered.
func Parse(tokens []token.Token) (stmts []ast.Stmt, err error) {
	p := New(tokens)
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*Error); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	for !p.check(token.EOF) {
		stmts = append(stmts, p.statement())
	}
	return stmts, nil
}

// ---------------------------
// Token cursor helpers
// ---------------------------

func (p *Parser) peek() token.Token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token.Token{Kind: token.EOF}
}

func (p *Parser) previous() token.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) next() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind token.Kind) bool {
	return p.peek().Kind == kind
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.next()
			return true
		}
	}
	return false
}

func (p *Parser) expect(kind token.Kind, msg string) token.Token {
	if p.check(kind) {
		return p.next()
	}
	panic(&Error{Msg: msg})
}

func fail(format string, args ...interface{}) {
	panic(&Error{Msg: fmt.Sprintf(format, args...)})
}
