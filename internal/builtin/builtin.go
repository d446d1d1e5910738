// Package builtin registers Drift's native function table and the
// handful of pre-bound constants every program starts with, grounded on
// original_source/src/builtin.cc's seven-entry table and regBuiltinName.
package builtin

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/vm"
)

const (
	version = "DRIFT 0.0.1"
	author  = "DRIFT LANG"
	license = "GPL 3.0"
	website = "https://github.com/drift-lang/drift"
)

// Register installs the seven native functions and the pre-bound
// constants into the VM's builtin table and global bindings.
func Register(v *vm.VM) {
	v.Builtins["puts"] = biPuts
	v.Builtins["put"] = biPut
	v.Builtins["putl"] = biPutl
	v.Builtins["len"] = biLen
	v.Builtins["sleep"] = biSleep
	v.Builtins["type"] = biType
	v.Builtins["randomStr"] = biRandomStr

	v.Globals["T"] = &object.Bool{Value: true}
	v.Globals["F"] = &object.Bool{Value: false}
	v.Globals["_VERSION_"] = &object.Str{Value: version}
	v.Globals["_AUTHOR_"] = &object.Str{Value: author}
	v.Globals["_LICENSE_"] = &object.Str{Value: license}
	v.Globals["_WEBSITE_"] = &object.Str{Value: website}
}

func biPuts(args []object.Object) (object.Object, error) {
	if len(args) == 0 {
		fmt.Println()
		return nil, nil
	}
	for _, a := range args {
		fmt.Println(a.String())
	}
	return nil, nil
}

func biPut(args []object.Object) (object.Object, error) {
	for _, a := range args {
		fmt.Print(a.String(), "\t")
	}
	return nil, nil
}

func biPutl(args []object.Object) (object.Object, error) {
	for _, a := range args {
		fmt.Print(a.String(), "\t")
	}
	fmt.Println()
	return nil, nil
}

func biLen(args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, exception.New(exception.RuntimeError, "the <len> function receives one object", 0)
	}
	switch a := args[0].(type) {
	case *object.Array:
		return &object.Int{Value: int64(len(a.Elements))}, nil
	case *object.Tuple:
		return &object.Int{Value: int64(len(a.Elements))}, nil
	case *object.Map:
		return &object.Int{Value: int64(len(a.Entries))}, nil
	case *object.Str:
		return &object.Int{Value: int64(len(a.Value))}, nil
	case *object.Char:
		return &object.Int{Value: 1}, nil
	default:
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("%s does not have a length", a.Raw()), 0)
	}
}

func biSleep(args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, exception.New(exception.RuntimeError, "the <sleep> function receives one <int> object", 0)
	}
	i, ok := args[0].(*object.Int)
	if !ok {
		return nil, exception.New(exception.RuntimeError, "the <sleep> function receives one <int> object", 0)
	}
	time.Sleep(time.Duration(i.Value) * time.Second)
	return nil, nil
}

func biType(args []object.Object) (object.Object, error) {
	if len(args) != 1 {
		return nil, exception.New(exception.RuntimeError, "the <type> function receives one object", 0)
	}
	switch args[0].Kind() {
	case object.IntKind:
		return &object.Str{Value: "int"}, nil
	case object.FloatKind:
		return &object.Str{Value: "float"}, nil
	case object.StrKind:
		return &object.Str{Value: "str"}, nil
	case object.CharKind:
		return &object.Str{Value: "char"}, nil
	case object.BoolKind:
		return &object.Str{Value: "bool"}, nil
	case object.ArrayKind:
		return &object.Str{Value: "array"}, nil
	case object.TupleKind:
		return &object.Str{Value: "tuple"}, nil
	case object.MapKind:
		return &object.Str{Value: "map"}, nil
	case object.FuncKind:
		return &object.Str{Value: "func"}, nil
	case object.EnumKind:
		return &object.Str{Value: "enum"}, nil
	case object.WholeKind:
		return &object.Str{Value: "whole"}, nil
	default:
		return &object.Str{Value: "module"}, nil
	}
}

const alphabetLower = "abcdefghijklmnopqrstuvwxyz"
const alphabetUpper = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

func biRandomStr(args []object.Object) (object.Object, error) {
	if len(args) != 2 {
		return nil, exception.New(exception.RuntimeError, "the <randomStr> function receives two object", 0)
	}
	n, ok := args[0].(*object.Int)
	if !ok {
		return nil, exception.New(exception.RuntimeError, "error arguments for <randomStr> function need (<Int>, <Bool>) to call", 0)
	}
	upper, ok := args[1].(*object.Bool)
	if !ok {
		return nil, exception.New(exception.RuntimeError, "error arguments for <randomStr> function need (<Int>, <Bool>) to call", 0)
	}

	alphabet := alphabetLower
	if upper.Value {
		alphabet = alphabetUpper
	}
	buf := make([]byte, n.Value)
	for i := range buf {
		buf[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return &object.Str{Value: string(buf)}, nil
}
