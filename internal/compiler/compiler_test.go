package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/lexer"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/parser"
	"github.com/drift-lang/drift/internal/semantic"
)

func mustCompile(t *testing.T, src string) *bytecode.Entity {
	t.Helper()
	toks, err := lexer.New([]byte(src)).Scan()
	require.NoError(t, err)
	prog, err := parser.New(toks).Parse()
	require.NoError(t, err)
	require.NoError(t, semantic.New().Run(prog))
	e, err := New().Compile(prog)
	require.NoError(t, err)
	return e
}

func TestOperandSlotInvariantHoldsAcrossRealPrograms(t *testing.T) {
	for _, src := range []string{
		`def x: int = 3 + 4 * 2`,
		`def i: int = 0 for i < 3 i += 1 end`,
		`def a: [int] = [1, 2, 3] a[1]`,
		`def m: <str, int> = {"a": 1} m["a"]`,
		`def (a: int) add -> int ret a end`,
	} {
		e := mustCompile(t, src)
		total := 0
		for _, c := range e.Codes {
			total += bytecode.OperandCount[c]
		}
		require.Equalf(t, total, len(e.Offsets), "program: %s", src)
	}
}

func TestVarStmtEmitsInitThenStore(t *testing.T) {
	e := mustCompile(t, "def x: int = 3 + 4 * 2")
	require.Equal(t, []bytecode.Code{
		bytecode.CONST, bytecode.CONST, bytecode.CONST,
		bytecode.MUL, bytecode.ADD, bytecode.STORE,
	}, e.Codes)
}

func TestVarStmtWithoutInitEmitsOrig(t *testing.T) {
	e := mustCompile(t, "def x: int")
	require.Equal(t, []bytecode.Code{bytecode.ORIG, bytecode.STORE}, e.Codes)
}

func TestUnaryMinusEmitsNotOpcodeNotSur(t *testing.T) {
	e := mustCompile(t, "def x: int = -3")
	require.Equal(t, []bytecode.Code{bytecode.CONST, bytecode.NOT, bytecode.STORE}, e.Codes)
}

func TestArrayLiteralEmitsElementsThenBArr(t *testing.T) {
	e := mustCompile(t, "[1, 2, 3]")
	require.Equal(t, []bytecode.Code{
		bytecode.CONST, bytecode.CONST, bytecode.CONST, bytecode.B_ARR,
	}, e.Codes)
	require.Equal(t, 3, e.Offsets[len(e.Offsets)-1])
}

func TestMapLiteralEmitsDoubledCount(t *testing.T) {
	e := mustCompile(t, `{"a": 1, "b": 2}`)
	lastCode := e.Codes[len(e.Codes)-1]
	require.Equal(t, bytecode.B_MAP, lastCode)
	require.Equal(t, 4, e.Offsets[len(e.Offsets)-1])
}

func TestIndexExprEmitsIndexThenContainerThenIndexOp(t *testing.T) {
	e := mustCompile(t, "a[1]")
	require.Equal(t, []bytecode.Code{bytecode.CONST, bytecode.LOAD, bytecode.INDEX}, e.Codes)
}

func TestCallEmitsCalleeThenArgsRightToLeftThenCall(t *testing.T) {
	e := mustCompile(t, "f(1, 2, 3)")
	require.Equal(t, []bytecode.Code{
		bytecode.LOAD, bytecode.CONST, bytecode.CONST, bytecode.CONST, bytecode.CALL,
	}, e.Codes)
	require.Equal(t, 3, e.Offsets[len(e.Offsets)-1])
	// args pushed right to left: 3, 2, 1
	require.Equal(t, int64(3), e.Constants[0].(*object.Int).Value)
	require.Equal(t, int64(2), e.Constants[1].(*object.Int).Value)
	require.Equal(t, int64(1), e.Constants[2].(*object.Int).Value)
}

func TestSetExprEmitsValueThenObjectThenSet(t *testing.T) {
	e := mustCompile(t, "p.x = 3")
	require.Equal(t, []bytecode.Code{bytecode.CONST, bytecode.LOAD, bytecode.SET}, e.Codes)
}

func TestNewExprEmitsNameConstThenValuePairsThenNew(t *testing.T) {
	e := mustCompile(t, "new Point { x: 1, y: 2 }")
	require.Equal(t, []bytecode.Code{
		bytecode.CONST, bytecode.CONST, bytecode.CONST, bytecode.CONST, bytecode.NEW,
	}, e.Codes)
	require.Equal(t, 2, e.Offsets[len(e.Offsets)-1])
}

func TestFuncStmtEmbedsFuncConstant(t *testing.T) {
	e := mustCompile(t, "def (a: int) add -> int ret a end")
	require.Equal(t, []bytecode.Code{bytecode.FUNC}, e.Codes)
	fn := e.Constants[0].(*object.Func)
	require.Equal(t, "add", fn.Name)
	require.Equal(t, []string{"a"}, fn.Params)
}

func TestWholeStmtSeparatesInterfaceFromMembers(t *testing.T) {
	e := mustCompile(t, "def Animal def (self) *speak -> str end")
	w := e.Constants[0].(*object.Whole)
	require.Equal(t, "Animal", w.Name)
	require.Len(t, w.Interface, 1)
	require.Equal(t, "speak", w.Interface[0].Name)
}

func TestIfChainPatchesJumpTargetsToCodeLength(t *testing.T) {
	e := mustCompile(t, "def x: int = 0 if 1 == 1 x = 1 ef 2 == 2 x = 2 nf x = 3 end")
	for i, c := range e.Codes {
		if c == bytecode.F_JUMP || c == bytecode.JUMP {
			op := e.OffsetSlotFor(i)
			target := e.Offsets[op]
			require.GreaterOrEqual(t, target, 0)
			require.LessOrEqual(t, target, len(e.Codes))
		}
	}
}

func TestForLoopBackJumpsToHeadAndPatchesBreak(t *testing.T) {
	e := mustCompile(t, "for i < 3 out -> end")
	var sawBackJump, sawFJump bool
	for i, c := range e.Codes {
		op := e.OffsetSlotFor(i)
		switch c {
		case bytecode.JUMP:
			if e.Offsets[op] == 0 {
				sawBackJump = true
			}
		case bytecode.F_JUMP:
			sawFJump = true
		}
	}
	require.True(t, sawBackJump)
	require.True(t, sawFJump)
}

func TestRetBareEmitsRetN(t *testing.T) {
	e := mustCompile(t, "def () f ret -> end")
	fn := e.Constants[0].(*object.Func)
	require.Contains(t, fn.Entity.Codes, bytecode.RET_N)
}

func TestPubEmitsPubAfterVarStore(t *testing.T) {
	e := mustCompile(t, "pub def x: int = 1")
	require.Equal(t, []bytecode.Code{bytecode.CONST, bytecode.STORE, bytecode.PUB}, e.Codes)
}

func TestAndStmtBracketsChaEnd(t *testing.T) {
	e := mustCompile(t, "and -> scope def x: int = 1 end")
	require.Equal(t, bytecode.CHA, e.Codes[0])
	require.Equal(t, bytecode.END, e.Codes[len(e.Codes)-1])
}

func TestDelStmtLowersToNoOpcode(t *testing.T) {
	e := mustCompile(t, "del x")
	require.Empty(t, e.Codes)
}

func TestNameDedupAcrossMultipleReferences(t *testing.T) {
	e := mustCompile(t, "def x: int = 1 x + x")
	count := 0
	for _, n := range e.Names {
		if n == "x" {
			count++
		}
	}
	require.Equal(t, 1, count)
}
