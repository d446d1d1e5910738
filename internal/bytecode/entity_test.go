package bytecode

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddNameDeduplicates(t *testing.T) {
	e := New("main")
	i1 := e.AddName("x")
	i2 := e.AddName("y")
	i3 := e.AddName("x")
	require.Equal(t, 0, i1)
	require.Equal(t, 1, i2)
	require.Equal(t, i1, i3)
	require.Len(t, e.Names, 2)
}

func TestAddConstantAndTypeAlwaysAppend(t *testing.T) {
	e := New("main")
	require.Equal(t, 0, e.AddConstant(1))
	require.Equal(t, 1, e.AddConstant(1))
	require.Len(t, e.Constants, 2)
}

func TestEmitAdvancesOffsetsByOperandCount(t *testing.T) {
	e := New("main")
	e.Emit(CONST, 0)
	e.Emit(ADD)
	e.Emit(STORE, 0, 1)
	require.Equal(t, []int{0, 0, 1}, e.Offsets)
}

func TestOffsetSlotForSumsPrecedingOperandCounts(t *testing.T) {
	e := New("main")
	e.Emit(CONST, 0) // 1 slot
	e.Emit(ADD)      // 0 slots
	e.Emit(STORE, 0, 1) // 2 slots
	require.Equal(t, 0, e.OffsetSlotFor(0))
	require.Equal(t, 1, e.OffsetSlotFor(1))
	require.Equal(t, 1, e.OffsetSlotFor(2))
	require.Equal(t, 3, e.OffsetSlotFor(3))
}

func TestPatchOffsetOverwritesJumpTarget(t *testing.T) {
	e := New("main")
	slot := e.EmitJump(JUMP, -1)
	e.PatchOffset(slot, 42)
	require.Equal(t, []int{42}, e.Offsets)
}

func TestOperandSlotInvariantHoldsForMixedProgram(t *testing.T) {
	e := New("main")
	e.Emit(CONST, 0)
	e.Emit(STORE, 0, 1)
	e.Emit(LOAD, 0)
	e.Emit(ADD)
	e.Emit(RET)

	total := 0
	for _, c := range e.Codes {
		total += OperandCount[c]
	}
	require.Equal(t, total, len(e.Offsets))
}
