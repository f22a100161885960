package ast_test

import (
	"testing"

	"newt/interpreter-go/pkg/ast"
	"newt/interpreter-go/pkg/parser"
	"newt/interpreter-go/pkg/syntax"
)

func parseProgram(t *testing.T, src string) *ast.Program {
	t.Helper()
	tree, errs := parser.Parse(src, parser.Program)
	if len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	prog, ok := ast.CastProgram(tree.Root())
	if !ok {
		t.Fatalf("root is %s", tree.Root().Kind())
	}
	return prog
}

func TestCastAllowLists(t *testing.T) {
	prog := parseProgram(t, "let x = 1 + 2; x;")
	stmts := prog.Statements()
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}
	letNode := stmts[0].Syntax()
	if _, ok := ast.CastExpr(letNode); ok {
		t.Fatalf("a let statement must not cast to Expr")
	}
	if _, ok := ast.CastBinaryExpr(letNode); ok {
		t.Fatalf("a let statement must not cast to BinaryExpr")
	}
	let, ok := ast.CastLetStmt(letNode)
	if !ok {
		t.Fatalf("expected LetStmt")
	}
	if _, ok := ast.CastStmt(let.Init().Syntax()); ok {
		t.Fatalf("an expression must not cast to Stmt")
	}
	if _, ok := ast.CastExpr(nil); ok {
		t.Fatalf("nil must not cast")
	}
	if _, ok := ast.CastStmt(syntax.NewNode(syntax.Error, 0, nil)); !ok {
		t.Fatalf("Error nodes are admitted as statements")
	}
	if _, ok := ast.CastExpr(syntax.NewNode(syntax.Error, 0, nil)); !ok {
		t.Fatalf("Error nodes are admitted as expressions")
	}
}

func TestCastSharesTheNode(t *testing.T) {
	prog := parseProgram(t, "a + b;")
	stmt, _ := ast.CastExprStmt(prog.Statements()[0].Syntax())
	bin, ok := ast.CastBinaryExpr(stmt.Expr().Syntax())
	if !ok {
		t.Fatalf("expected binary expression")
	}
	if bin.Syntax() != stmt.Expr().Syntax() {
		t.Fatalf("cast must not copy the node")
	}
}

func TestAccessors(t *testing.T) {
	prog := parseProgram(t, `
fn pick(a, b) { if a > b { return a; } else { return b; } }
while n < 3 { n = n + 1; }
pick(1, 2).field;
`)
	stmts := prog.Statements()
	fn, ok := ast.CastFnDecl(stmts[0].Syntax())
	if !ok {
		t.Fatalf("expected fn decl")
	}
	if fn.Name().Text() != "pick" || fn.Params().Arity() != 2 {
		t.Fatalf("unexpected fn header %q/%d", fn.Name().Text(), fn.Params().Arity())
	}
	body := fn.Body().Statements()
	ifStmt, ok := ast.CastIfStmt(body[0].Syntax())
	if !ok {
		t.Fatalf("expected if statement, got %s", body[0].Kind())
	}
	cond, _ := ast.CastBinaryExpr(ifStmt.Cond().Syntax())
	if cond.Op().Kind() != syntax.Gt {
		t.Fatalf("condition operator %s", cond.Op().Kind())
	}
	if ifStmt.Then() == nil || ifStmt.Else() == nil || ifStmt.Else().Kind() != syntax.StmtList {
		t.Fatalf("if branches missing")
	}

	loop, _ := ast.CastWhileStmt(stmts[1].Syntax())
	assign, ok := ast.CastAssignStmt(loop.Body().Statements()[0].Syntax())
	if !ok || assign.Name().Text() != "n" || assign.Value().Kind() != syntax.BinaryExpr {
		t.Fatalf("unexpected loop body")
	}

	exprStmt, _ := ast.CastExprStmt(stmts[2].Syntax())
	prop, ok := ast.CastPropertyExpr(exprStmt.Expr().Syntax())
	if !ok || prop.Name().Text() != "field" {
		t.Fatalf("expected property access")
	}
	call, ok := ast.CastFunctionCallExpr(prop.Object().Syntax())
	if !ok || len(call.Args().Exprs()) != 2 {
		t.Fatalf("expected call with two args")
	}
}

func TestAccessorOnWrongKindPanics(t *testing.T) {
	prog := parseProgram(t, "1;")
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	wrong := (*ast.LetStmt)(prog.Statements()[0].Syntax())
	_ = wrong.Name()
}

func TestLiteralDecoding(t *testing.T) {
	if v, err := ast.ParseInt("42"); err != nil || v != 42 {
		t.Fatalf("ParseInt: %v %v", v, err)
	}
	if _, err := ast.ParseInt("99999999999999999999"); err == nil {
		t.Fatalf("expected overflow")
	}
	if v, err := ast.ParseFloat("2.5"); err != nil || v != 2.5 {
		t.Fatalf("ParseFloat: %v %v", v, err)
	}
	if s, err := ast.UnquoteString(`"a\tb\n\"c\"\\"`); err != nil || s != "a\tb\n\"c\"\\" {
		t.Fatalf("UnquoteString: %q %v", s, err)
	}
	if r, err := ast.UnquoteGlyph(`'\''`); err != nil || r != '\'' {
		t.Fatalf("UnquoteGlyph: %q %v", r, err)
	}
	if r, err := ast.UnquoteGlyph("'é'"); err != nil || r != 'é' {
		t.Fatalf("UnquoteGlyph multibyte: %q %v", r, err)
	}
	for _, bad := range []string{"''", "'ab'", `'\x'`} {
		if _, err := ast.UnquoteGlyph(bad); err == nil {
			t.Errorf("expected error for %s", bad)
		}
	}
}
