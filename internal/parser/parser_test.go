package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/ast"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/lexer"
	"github.com/drift-lang/drift/internal/types"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	toks, err := lexer.New([]byte(src)).Scan()
	require.NoError(t, err)
	prog, err := New(toks).Parse()
	require.NoError(t, err)
	return prog
}

func TestParseVarStmtWithAndWithoutInit(t *testing.T) {
	prog := mustParse(t, "def x: int = 3 + 4 * 2")
	require.Len(t, prog.Stmts, 1)
	v := prog.Stmts[0].(*ast.VarStmt)
	require.Equal(t, "x", v.Name)
	require.Equal(t, types.IntType{}, v.Type)
	require.IsType(t, &ast.BinaryExpr{}, v.Init)
}

func TestOperatorPrecedenceClimbsCorrectly(t *testing.T) {
	prog := mustParse(t, "x = 3 + 4 * 2")
	assign := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	bin := assign.Value.(*ast.BinaryExpr)
	require.Equal(t, "+", bin.Op.Literal)
	require.Equal(t, "3", bin.Left.(*ast.LiteralExpr).Value)
	mul := bin.Right.(*ast.BinaryExpr)
	require.Equal(t, "*", mul.Op.Literal)
}

func TestParseArrayTypeAndIndex(t *testing.T) {
	prog := mustParse(t, "def a: [int] = [1, 2, 3]")
	v := prog.Stmts[0].(*ast.VarStmt)
	require.Equal(t, types.ArrayType{Elem: types.IntType{}}, v.Type)
	arr := v.Init.(*ast.ArrayExpr)
	require.Len(t, arr.Elems, 3)
}

func TestParseIndexExpr(t *testing.T) {
	prog := mustParse(t, "a[1]")
	idx := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.IndexExpr)
	require.Equal(t, "a", idx.Container.(*ast.NameExpr).Token.Literal)
}

func TestParseForLoopWithCondition(t *testing.T) {
	prog := mustParse(t, "for i < 3 puts(i) i += 1 end")
	f := prog.Stmts[0].(*ast.ForStmt)
	require.NotNil(t, f.Cond)
	require.Len(t, f.Body.Stmts, 2)
	// `i += 1` lowers to an AssignExpr wrapping a plain '+' BinaryExpr.
	assign := f.Body.Stmts[1].(*ast.ExprStmt).Expr.(*ast.AssignExpr)
	bin := assign.Value.(*ast.BinaryExpr)
	require.Equal(t, "+", bin.Op.Literal)
}

func TestParseInfiniteForLoop(t *testing.T) {
	prog := mustParse(t, "for -> out -> end")
	f := prog.Stmts[0].(*ast.ForStmt)
	require.Nil(t, f.Cond)
}

func TestParseWholeWithPubFields(t *testing.T) {
	prog := mustParse(t, "def Point pub def x: int pub def y: int end")
	w := prog.Stmts[0].(*ast.WholeStmt)
	require.Equal(t, "Point", w.Name)
	require.Len(t, w.Body.Stmts, 2)
	pub := w.Body.Stmts[0].(*ast.PubStmt)
	require.IsType(t, &ast.VarStmt{}, pub.Inner)
}

func TestParseWholeInheritance(t *testing.T) {
	prog := mustParse(t, "def Dog <- Animal def (self) speak -> str ret \"woof\" end end")
	w := prog.Stmts[0].(*ast.WholeStmt)
	require.Equal(t, []string{"Animal"}, w.Inherit)
	fn := w.Body.Stmts[0].(*ast.FuncStmt)
	require.Equal(t, "speak", fn.Name)
	require.Equal(t, []string{"self"}, fn.Params[0].Names)
}

func TestParseInterfaceDeclaration(t *testing.T) {
	prog := mustParse(t, "def Animal def (self) *speak -> str end")
	w := prog.Stmts[0].(*ast.WholeStmt)
	iface := w.Body.Stmts[0].(*ast.InterfaceStmt)
	require.Equal(t, "speak", iface.Name)
	require.Equal(t, types.StrType{}, iface.Ret)
}

func TestParseNewExpr(t *testing.T) {
	prog := mustParse(t, "def p: Point = new Point { x: 1, y: 2 }")
	v := prog.Stmts[0].(*ast.VarStmt)
	n := v.Init.(*ast.NewExpr)
	require.Equal(t, "Point", n.TypeName.Literal)
	require.Len(t, n.Fields, 2)
	require.Equal(t, "x", n.Fields[0].Name)
}

func TestParseGetAndSetExpr(t *testing.T) {
	prog := mustParse(t, "d.speak()")
	call := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.CallExpr)
	get := call.Callee.(*ast.GetExpr)
	require.Equal(t, "speak", get.Name.Literal)

	prog2 := mustParse(t, "p.x = 3")
	set := prog2.Stmts[0].(*ast.ExprStmt).Expr.(*ast.SetExpr)
	require.Equal(t, "x", set.Name.Literal)
}

func TestParseTupleVsGroup(t *testing.T) {
	prog := mustParse(t, "(1, 2) (3)")
	require.IsType(t, &ast.TupleExpr{}, prog.Stmts[0].(*ast.ExprStmt).Expr)
	require.IsType(t, &ast.GroupExpr{}, prog.Stmts[1].(*ast.ExprStmt).Expr)
}

func TestParseMapExpr(t *testing.T) {
	prog := mustParse(t, `{"a": 1, "b": 2}`)
	m := prog.Stmts[0].(*ast.ExprStmt).Expr.(*ast.MapExpr)
	require.Len(t, m.Pairs, 2)
}

func TestParseMapType(t *testing.T) {
	prog := mustParse(t, "def m: <str, int> = {}")
	v := prog.Stmts[0].(*ast.VarStmt)
	require.Equal(t, types.MapType{Key: types.StrType{}, Value: types.IntType{}}, v.Type)
}

func TestParseUseWithAlias(t *testing.T) {
	prog := mustParse(t, "use Geometry as Geo")
	u := prog.Stmts[0].(*ast.UseStmt)
	require.Equal(t, "Geometry", u.Name)
	require.Equal(t, "Geo", u.Alias)
}

func TestParseDivisionZeroExprStillParses(t *testing.T) {
	prog := mustParse(t, "def x: int = 10 / 0")
	v := prog.Stmts[0].(*ast.VarStmt)
	require.IsType(t, &ast.BinaryExpr{}, v.Init)
}

func TestParseUnexpectedTokenReportsUnexpectedKind(t *testing.T) {
	toks, err := lexer.New([]byte("def x int")).Scan()
	require.NoError(t, err)
	_, err = New(toks).Parse()
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.Unexpected, exc.Kind)
}

func TestParseInvalidAssignmentTargetIsSyntaxError(t *testing.T) {
	toks, err := lexer.New([]byte("1 = 2")).Scan()
	require.NoError(t, err)
	_, err = New(toks).Parse()
	require.Error(t, err)
	exc, ok := err.(*exception.Exception)
	require.True(t, ok)
	require.Equal(t, exception.InvalidSyntax, exc.Kind)
}

func TestParseDelStatementIsNoOpNode(t *testing.T) {
	prog := mustParse(t, "del x")
	require.IsType(t, &ast.DelStmt{}, prog.Stmts[0])
}
