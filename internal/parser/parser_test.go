package parser

import (
	"testing"

	"github.com/CrimsonDemon567/kyra/internal/ast"
	"github.com/CrimsonDemon567/kyra/internal/lexer"
)

func parseSrc(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	toks := lexer.New(src).Lex()
	stmts, err := Parse(toks)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	return stmts
}

func TestExpressionStatementPrecedence(t *testing.T) {
	stmts := parseSrc(t, "1 + 2 * 3;")
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	es, ok := stmts[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("statement type = %T, want *ast.ExprStmt", stmts[0])
	}
	bin, ok := es.Expr.(*ast.Binary)
	if !ok {
		t.Fatalf("expr type = %T, want *ast.Binary", es.Expr)
	}
	if bin.Op.Lexeme != "+" {
		t.Fatalf("top operator = %q, want +, i.e. * should bind tighter", bin.Op.Lexeme)
	}
	if _, ok := bin.Right.(*ast.Binary); !ok {
		t.Fatalf("right side = %T, want nested *ast.Binary for 2 * 3", bin.Right)
	}
}

func TestAssignmentRewrite(t *testing.T) {
	stmts := parseSrc(t, "x = 5;")
	es := stmts[0].(*ast.ExprStmt)
	assign, ok := es.Expr.(*ast.Assignment)
	if !ok {
		t.Fatalf("expr type = %T, want *ast.Assignment", es.Expr)
	}
	if assign.Name.Lexeme != "x" {
		t.Fatalf("assignment target = %q, want x", assign.Name.Lexeme)
	}
}

func TestAssignmentRightAssociative(t *testing.T) {
	stmts := parseSrc(t, "a = b = 1;")
	es := stmts[0].(*ast.ExprStmt)
	outer := es.Expr.(*ast.Assignment)
	if outer.Name.Lexeme != "a" {
		t.Fatalf("outer target = %q, want a", outer.Name.Lexeme)
	}
	inner, ok := outer.Value.(*ast.Assignment)
	if !ok {
		t.Fatalf("outer value = %T, want nested *ast.Assignment", outer.Value)
	}
	if inner.Name.Lexeme != "b" {
		t.Fatalf("inner target = %q, want b", inner.Name.Lexeme)
	}
}

func TestInvalidAssignmentTargetIsFatal(t *testing.T) {
	toks := lexer.New("1 = 2;").Lex()
	_, err := Parse(toks)
	if err == nil {
		t.Fatal("expected an error for assignment to a non-variable")
	}
}

func TestVarDeclSynthesizesNullInitializer(t *testing.T) {
	stmts := parseSrc(t, "var x;")
	decl := stmts[0].(*ast.VarDecl)
	lit, ok := decl.Initializer.(*ast.Literal)
	if !ok {
		t.Fatalf("initializer type = %T, want *ast.Literal", decl.Initializer)
	}
	if lit.Token.Lexeme != "null" {
		t.Fatalf("synthesized initializer = %q, want null", lit.Token.Lexeme)
	}
}

func TestBlockRequiresClosingBrace(t *testing.T) {
	toks := lexer.New("{ print(1); ").Lex()
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected an error for a missing '}'")
	}
}

func TestIfElseChain(t *testing.T) {
	stmts := parseSrc(t, "if (1 < 2) { print(1); } else { print(0); }")
	ifStmt, ok := stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("statement type = %T, want *ast.If", stmts[0])
	}
	if ifStmt.Else == nil {
		t.Fatal("else branch missing")
	}
}

func TestForDesugarsToInitializerAndWhile(t *testing.T) {
	stmts := parseSrc(t, "for (var i = 0; i < 2; i = i + 1) { print(i); }")
	outer, ok := stmts[0].(*ast.Block)
	if !ok {
		t.Fatalf("for statement type = %T, want *ast.Block", stmts[0])
	}
	if len(outer.Statements) != 2 {
		t.Fatalf("got %d statements in desugared for, want 2 (init, while)", len(outer.Statements))
	}
	if _, ok := outer.Statements[0].(*ast.VarDecl); !ok {
		t.Fatalf("first statement = %T, want *ast.VarDecl", outer.Statements[0])
	}
	whileStmt, ok := outer.Statements[1].(*ast.While)
	if !ok {
		t.Fatalf("second statement = %T, want *ast.While", outer.Statements[1])
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok {
		t.Fatalf("while body = %T, want *ast.Block", whileStmt.Body)
	}
	if len(body.Statements) != 2 {
		t.Fatalf("got %d statements in loop body, want 2 (body, increment)", len(body.Statements))
	}
}

func TestForWithoutClausesSynthesizesTrueConditionAndIncrement(t *testing.T) {
	stmts := parseSrc(t, "for (;;) { print(1); }")
	outer := stmts[0].(*ast.Block)
	whileStmt := outer.Statements[0].(*ast.While)
	lit, ok := whileStmt.Condition.(*ast.Literal)
	if !ok || lit.Token.Lexeme != "true" {
		t.Fatalf("condition = %+v, want synthesized true literal", whileStmt.Condition)
	}
	body, ok := whileStmt.Body.(*ast.Block)
	if !ok || len(body.Statements) != 2 {
		t.Fatalf("while body = %+v, want block of (body, increment)", whileStmt.Body)
	}
	inc, ok := body.Statements[1].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("increment = %T, want *ast.ExprStmt", body.Statements[1])
	}
	incLit, ok := inc.Expr.(*ast.Literal)
	if !ok || incLit.Token.Lexeme != "0" {
		t.Fatalf("increment expr = %+v, want synthesized 0 literal", inc.Expr)
	}
}

func TestMissingSemicolonIsFatal(t *testing.T) {
	toks := lexer.New("1 + 2").Lex()
	if _, err := Parse(toks); err == nil {
		t.Fatal("expected an error for a missing ';'")
	}
}
