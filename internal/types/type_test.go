package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompoundTypeStrings(t *testing.T) {
	require.Equal(t, "[int]", ArrayType{Elem: IntType{}}.String())
	require.Equal(t, "<str, int>", MapType{Key: StrType{}, Value: IntType{}}.String())
	require.Equal(t, "(float)", TupleType{Elem: FloatType{}}.String())
	require.Equal(t, "Point", UserRefType{Name: "Point"}.String())
}

func TestFuncTypeStringWithAndWithoutReturn(t *testing.T) {
	withRet := FuncType{Args: []Type{IntType{}, StrType{}}, Ret: BoolType{}}
	require.Equal(t, "func(2 args) -> bool", withRet.String())

	noRet := FuncType{Args: []Type{IntType{}}}
	require.Equal(t, "func(1 args) -> none", noRet.String())
}

func TestEqualByVariant(t *testing.T) {
	require.True(t, Equal(IntType{}, IntType{}))
	require.False(t, Equal(IntType{}, FloatType{}))
	require.True(t, Equal(ArrayType{Elem: IntType{}}, ArrayType{Elem: IntType{}}))
	require.False(t, Equal(ArrayType{Elem: IntType{}}, ArrayType{Elem: FloatType{}}))
	require.True(t, Equal(UserRefType{Name: "Dog"}, UserRefType{Name: "Dog"}))
	require.False(t, Equal(UserRefType{Name: "Dog"}, UserRefType{Name: "Cat"}))
}

func TestEqualNilHandling(t *testing.T) {
	require.True(t, Equal(nil, nil))
	require.False(t, Equal(IntType{}, nil))
}

func TestEqualFuncTypeRecurses(t *testing.T) {
	a := FuncType{Args: []Type{IntType{}}, Ret: StrType{}}
	b := FuncType{Args: []Type{IntType{}}, Ret: StrType{}}
	c := FuncType{Args: []Type{FloatType{}}, Ret: StrType{}}
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
}
