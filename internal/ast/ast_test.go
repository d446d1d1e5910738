package ast

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/token"
	"github.com/drift-lang/drift/internal/types"
)

func name(n string) *NameExpr { return &NameExpr{Token: token.Token{Kind: token.IDENT, Literal: n}} }

func TestBinaryExprString(t *testing.T) {
	b := &BinaryExpr{
		Left:  &LiteralExpr{Value: "3"},
		Op:    token.Token{Kind: token.PLUS, Literal: "+"},
		Right: &LiteralExpr{Value: "4"},
	}
	require.Equal(t, "(+ 3 4)", b.String())
}

func TestVarStmtStringWithAndWithoutInit(t *testing.T) {
	withInit := &VarStmt{Name: "x", Type: types.IntType{}, Init: &LiteralExpr{Value: "3"}}
	require.Equal(t, "def x: int = 3", withInit.String())

	bare := &VarStmt{Name: "x", Type: types.IntType{}}
	require.Equal(t, "def x: int", bare.String())
}

func TestIfStmtStringIncludesEfAndNf(t *testing.T) {
	stmt := &IfStmt{
		Cond: name("a"),
		Then: &Block{Stmts: []Stmt{&ExprStmt{Expr: name("t")}}},
		Efs: []CondBlock{
			{Cond: name("b"), Block: &Block{Stmts: []Stmt{&ExprStmt{Expr: name("e")}}}},
		},
		Else: &Block{Stmts: []Stmt{&ExprStmt{Expr: name("n")}}},
	}
	out := stmt.String()
	require.Contains(t, out, "if (a)")
	require.Contains(t, out, "ef (b)")
	require.Contains(t, out, "nf {")
}

func TestForStmtInfiniteLoopString(t *testing.T) {
	f := &ForStmt{Body: &Block{}}
	require.Equal(t, "for -> {\n}", f.String())
}

func TestNewExprString(t *testing.T) {
	n := &NewExpr{
		TypeName: token.Token{Literal: "Point"},
		Fields: []NewField{
			{Name: "x", Value: &LiteralExpr{Value: "1"}},
			{Name: "y", Value: &LiteralExpr{Value: "2"}},
		},
	}
	require.Equal(t, "new Point { x: 1, y: 2 }", n.String())
}

func TestRetStmtBareVsInner(t *testing.T) {
	require.Equal(t, "ret ->", (&RetStmt{}).String())
	inner := &RetStmt{Inner: &ExprStmt{Expr: name("x")}}
	require.Equal(t, "ret x", inner.String())
}

func TestProgramStringJoinsStatements(t *testing.T) {
	p := &Program{Stmts: []Stmt{
		&ExprStmt{Expr: name("a")},
		&ExprStmt{Expr: name("b")},
	}}
	require.Equal(t, "a\nb\n", p.String())
}
