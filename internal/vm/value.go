package vm

import (
	"fmt"

	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/types"
)

func kindName(o object.Object) string {
	switch o.Kind() {
	case object.IntKind:
		return "int"
	case object.FloatKind:
		return "float"
	case object.StrKind:
		return "str"
	case object.CharKind:
		return "char"
	case object.BoolKind:
		return "bool"
	case object.ArrayKind:
		return "array"
	case object.TupleKind:
		return "tuple"
	case object.MapKind:
		return "map"
	case object.EnumKind:
		return "enum"
	case object.FuncKind:
		return "func"
	case object.WholeKind:
		return "whole"
	case object.ModuleKind:
		return "module"
	default:
		return "mods"
	}
}

// truthy reports a value's condition-context truth, following the
// original's rule that booleans test their own value and every other
// kind is unconditionally true (matched against by T_JUMP/F_JUMP).
func truthy(o object.Object) bool {
	if b, ok := o.(*object.Bool); ok {
		return b.Value
	}
	return true
}

// defaultForType produces the zero value ORIG requests for a STORE with
// no initializer (spec.md §4.4's "ORIG ... default-initialize").
func defaultForType(t types.Type) (object.Object, error) {
	switch t.(type) {
	case types.IntType:
		return &object.Int{}, nil
	case types.FloatType:
		return &object.Float{}, nil
	case types.StrType:
		return &object.Str{}, nil
	case types.CharType:
		return &object.Char{}, nil
	case types.BoolType:
		return &object.Bool{}, nil
	case types.ArrayType:
		return &object.Array{}, nil
	case types.TupleType:
		return &object.Tuple{}, nil
	case types.MapType:
		return &object.Map{}, nil
	default:
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("no default value for type %s", t), 0)
	}
}

// typeMatches checks a value against a declared static type. A bool type
// also accepts Int and Float (STORE then coerces them via coerceBool); a
// user type accepts any whole instance or enum; every other type, int and
// float included, matches only its own kind.
func typeMatches(v object.Object, t types.Type) bool {
	switch t.(type) {
	case types.IntType:
		return v.Kind() == object.IntKind
	case types.FloatType:
		return v.Kind() == object.FloatKind
	case types.StrType:
		return v.Kind() == object.StrKind
	case types.CharType:
		return v.Kind() == object.CharKind
	case types.BoolType:
		return v.Kind() == object.BoolKind || v.Kind() == object.IntKind || v.Kind() == object.FloatKind
	case types.ArrayType:
		return v.Kind() == object.ArrayKind
	case types.TupleType:
		return v.Kind() == object.TupleKind
	case types.MapType:
		return v.Kind() == object.MapKind
	case types.UserRefType:
		return v.Kind() == object.WholeKind || v.Kind() == object.EnumKind
	default:
		return true
	}
}

// coerceBool implements STORE's numeric->bool coercion: any nonzero
// numeric value stored into a bool variable becomes T.
func coerceBool(v object.Object) object.Object {
	switch n := v.(type) {
	case *object.Int:
		return &object.Bool{Value: n.Value != 0}
	case *object.Float:
		return &object.Bool{Value: n.Value != 0}
	default:
		return v
	}
}

func negate(v object.Object) (object.Object, error) {
	switch n := v.(type) {
	case *object.Int:
		return &object.Int{Value: -n.Value}, nil
	case *object.Float:
		return &object.Float{Value: -n.Value}, nil
	default:
		return nil, exception.New(exception.TypeError, fmt.Sprintf("cannot negate a %s value", kindName(v)), 0)
	}
}

func arith(code bytecode.Code, left, right object.Object) (object.Object, error) {
	if left.Kind() == object.StrKind || right.Kind() == object.StrKind {
		if code == bytecode.ADD {
			return &object.Str{Value: left.String() + right.String()}, nil
		}
		return nil, exception.New(exception.TypeError, "strings only support +", 0)
	}

	lf, lIsFloat, err := asNumber(left)
	if err != nil {
		return nil, err
	}
	rf, rIsFloat, err := asNumber(right)
	if err != nil {
		return nil, err
	}

	if code == bytecode.DIV || code == bytecode.SUR {
		if rf == 0 {
			return nil, exception.New(exception.DivisionZero, "division by zero", 0)
		}
	}

	if lIsFloat || rIsFloat {
		var v float64
		switch code {
		case bytecode.ADD:
			v = lf + rf
		case bytecode.SUB:
			v = lf - rf
		case bytecode.MUL:
			v = lf * rf
		case bytecode.DIV:
			v = lf / rf
		case bytecode.SUR:
			v = float64(int64(lf) % int64(rf))
		}
		return &object.Float{Value: v}, nil
	}

	li, ri := int64(lf), int64(rf)
	var v int64
	switch code {
	case bytecode.ADD:
		v = li + ri
	case bytecode.SUB:
		v = li - ri
	case bytecode.MUL:
		v = li * ri
	case bytecode.DIV:
		v = li / ri
	case bytecode.SUR:
		v = li % ri
	}
	return &object.Int{Value: v}, nil
}

func asNumber(o object.Object) (float64, bool, error) {
	switch n := o.(type) {
	case *object.Int:
		return float64(n.Value), false, nil
	case *object.Float:
		return n.Value, true, nil
	default:
		return 0, false, exception.New(exception.TypeError, fmt.Sprintf("%s is not numeric", kindName(o)), 0)
	}
}

func compare(code bytecode.Code, left, right object.Object) (object.Object, error) {
	if code == bytecode.E_E || code == bytecode.N_E {
		eq := shallowEqual(left, right)
		if code == bytecode.N_E {
			eq = !eq
		}
		return &object.Bool{Value: eq}, nil
	}

	lf, _, err := asNumber(left)
	if err != nil {
		return nil, err
	}
	rf, _, err := asNumber(right)
	if err != nil {
		return nil, err
	}
	var v bool
	switch code {
	case bytecode.GR:
		v = lf > rf
	case bytecode.LE:
		v = lf < rf
	case bytecode.GR_E:
		v = lf >= rf
	case bytecode.LE_E:
		v = lf <= rf
	}
	return &object.Bool{Value: v}, nil
}

func shallowEqual(a, b object.Object) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *object.Int:
		return x.Value == b.(*object.Int).Value
	case *object.Float:
		return x.Value == b.(*object.Float).Value
	case *object.Str:
		return x.Value == b.(*object.Str).Value
	case *object.Char:
		return x.Value == b.(*object.Char).Value
	case *object.Bool:
		return x.Value == b.(*object.Bool).Value
	default:
		return a == b
	}
}

func logical(code bytecode.Code, left, right object.Object) bool {
	if code == bytecode.AND {
		return truthy(left) && truthy(right)
	}
	return truthy(left) || truthy(right)
}

func indexInto(container, index object.Object) (object.Object, error) {
	switch c := container.(type) {
	case *object.Array:
		i, err := indexAsInt(index)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c.Elements) {
			return nil, exception.New(exception.RuntimeError, "array index out of range", 0)
		}
		return c.Elements[i], nil
	case *object.Str:
		i, err := indexAsInt(index)
		if err != nil {
			return nil, err
		}
		if i < 0 || i >= len(c.Value) {
			return nil, exception.New(exception.RuntimeError, "string index out of range", 0)
		}
		return &object.Char{Value: c.Value[i]}, nil
	case *object.Map:
		v, ok := c.Get(index)
		if !ok {
			return nil, exception.New(exception.RuntimeError, "key not found in map", 0)
		}
		return v, nil
	default:
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("cannot index a %s value", kindName(container)), 0)
	}
}

func replaceInto(container, index, val object.Object) error {
	switch c := container.(type) {
	case *object.Array:
		i, err := indexAsInt(index)
		if err != nil {
			return err
		}
		if i < 0 || i >= len(c.Elements) {
			return exception.New(exception.RuntimeError, "array index out of range", 0)
		}
		c.Elements[i] = val
		return nil
	case *object.Map:
		c.Set(index, val)
		return nil
	default:
		return exception.New(exception.RuntimeError, fmt.Sprintf("cannot assign into a %s value", kindName(container)), 0)
	}
}

func indexAsInt(index object.Object) (int, error) {
	i, ok := index.(*object.Int)
	if !ok {
		return 0, exception.New(exception.TypeError, "index must be an int", 0)
	}
	return int(i.Value), nil
}
