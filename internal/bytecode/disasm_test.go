package bytecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drift-lang/drift/internal/types"
)

func TestDisassembleRendersAllPools(t *testing.T) {
	e := New("main")
	e.AddConstant(int64(11))
	e.AddName("x")
	e.AddType(types.IntType{})
	e.Emit(CONST, 0)
	e.Emit(STORE, 0, 0)

	out := Disassemble(e)
	require.Contains(t, out, `ENTITY "main"`)
	require.Contains(t, out, "CONST")
	require.Contains(t, out, "STORE")
	require.Contains(t, out, "CONSTANT:")
	require.Contains(t, out, "NAME:")
	require.Contains(t, out, "TYPE:")
	require.Contains(t, out, "int")
}

func TestDisassembleEmptyPoolsPrintEmptyMarker(t *testing.T) {
	e := New("empty")
	e.Emit(RET)
	out := Disassemble(e)
	require.Equal(t, 3, strings.Count(out, "EMPTY"))
}
