// Package vm implements Drift's stack-based bytecode interpreter: frame
// management, the main opcode dispatch loop, arithmetic and comparison,
// whole/new/inherit dispatch, and the module registry. Grounded on
// spec.md §4.5; the dispatch shape (a flat instruction loop over tagged
// opcodes) follows the teacher's tree-walking evaluate.go generalized
// from an AST walk to a bytecode walk.
package vm

import (
	"fmt"

	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/types"
)

// BuiltinFunc is the signature every entry in the builtin table satisfies.
// A nil Object result means the builtin pushes nothing (a void call).
type BuiltinFunc func(args []object.Object) (object.Object, error)

// VM owns the module registry and builtin table shared across every
// top-level Run call; frames are transient, created and discarded per
// call.
type VM struct {
	Registry *Registry
	Builtins map[string]BuiltinFunc

	// Globals holds the pre-bound constants every program starts with
	// (T, F, _VERSION_, ...), installed once by internal/builtin.Register
	// and consulted by resolve as a LOAD fallback below the builtin table.
	Globals map[string]object.Object

	callingModule *object.Module
}

// New creates a VM with an empty registry; Builtins and Globals are
// populated by the caller (see internal/builtin.Register) before the
// first Run.
func New() *VM {
	return &VM{
		Registry: NewRegistry(),
		Builtins: make(map[string]BuiltinFunc),
		Globals:  make(map[string]object.Object),
	}
}

// Run executes entity as the program's main frame and registers it as a
// module if it declared one along the way.
func (vm *VM) Run(e *bytecode.Entity) error {
	f := NewFrame(e, nil)
	if err := vm.run(f); err != nil {
		return err
	}
	return vm.maybeRegisterModule(f)
}

func (vm *VM) maybeRegisterModule(f *Frame) error {
	if f.ModName == "" {
		return nil
	}
	pub := make(map[string]object.Object)
	for _, name := range f.PublicNames {
		if v, ok := f.Table[name]; ok {
			pub[name] = v
		}
	}
	return vm.Registry.Register(&object.Module{Name: f.ModName, Pub: pub})
}

// run dispatches f.Entity's instructions to completion, or until a RET /
// RET_N unwinds the frame early.
func (vm *VM) run(f *Frame) error {
	codes := f.Entity.Codes
	op := 0
	origPending := false
	lastDeclName := ""

	for ip := 0; ip < len(codes); ip++ {
		code := codes[ip]
		n := bytecode.OperandCount[code]
		operands := f.Entity.Offsets[op : op+n]
		op += n

		switch code {
		case bytecode.CONST:
			f.push(asObject(f.Entity.Constants[operands[0]]))

		case bytecode.LOAD:
			name := f.Entity.Names[operands[0]]
			v, err := vm.resolve(f, name)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.NAME:
			name := f.Entity.Names[operands[0]]
			v, err := vm.resolve(f, name)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.ORIG:
			origPending = true

		case bytecode.STORE:
			nameIdx, typeIdx := operands[0], operands[1]
			name := f.Entity.Names[nameIdx]
			typ := f.Entity.Types[typeIdx]

			var val object.Object
			if origPending {
				v, err := defaultForType(typ)
				if err != nil {
					return err
				}
				val = v
				origPending = false
			} else {
				val = f.pop()
			}
			if !typeMatches(val, typ) {
				return exception.New(exception.RuntimeError,
					fmt.Sprintf("cannot store a %s value in a %s variable %q", kindName(val), typ, name), 0)
			}
			if _, isBool := typ.(types.BoolType); isBool {
				val = coerceBool(val)
			}
			f.Table[name] = val
			lastDeclName = name

		case bytecode.ASSIGN:
			name := f.Entity.Names[operands[0]]
			val := f.pop()
			if _, ok := f.Table[name]; !ok {
				return exception.New(exception.RuntimeError, fmt.Sprintf("undefined name %q", name), 0)
			}
			f.Table[name] = val

		case bytecode.INDEX:
			container := f.pop()
			index := f.pop()
			v, err := indexInto(container, index)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.REPLACE:
			container := f.pop()
			index := f.pop()
			val := f.pop()
			if err := replaceInto(container, index, val); err != nil {
				return err
			}

		case bytecode.GET:
			name := f.Entity.Names[operands[0]]
			receiver := f.pop()
			v, err := vm.get(f, receiver, name)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.SET:
			name := f.Entity.Names[operands[0]]
			receiver := f.pop()
			val := f.pop()
			inst, ok := receiver.(*object.Instance)
			if !ok {
				return exception.New(exception.RuntimeError, "cannot set a member on a non-whole value", 0)
			}
			inst.Fields[name] = val
			f.push(inst)

		case bytecode.CALL:
			if err := vm.call(f, operands[0]); err != nil {
				return err
			}

		case bytecode.FUNC:
			fn := f.Entity.Constants[operands[0]].(*object.Func)
			f.Table[fn.Name] = fn
			lastDeclName = fn.Name

		case bytecode.ENUM:
			en := f.Entity.Constants[operands[0]].(*object.Enum)
			f.Table[en.Name] = en
			lastDeclName = en.Name

		case bytecode.WHOLE:
			w := f.Entity.Constants[operands[0]].(*object.Whole)
			if err := vm.initWhole(w); err != nil {
				return err
			}
			f.Table[w.Name] = w
			lastDeclName = w.Name

		case bytecode.NEW:
			nameIdx, fieldCount := operands[0], operands[1]
			typeName := f.Entity.Names[nameIdx]
			inst, err := vm.construct(f, typeName, fieldCount)
			if err != nil {
				return err
			}
			f.push(inst)

		case bytecode.CHA:
			// Disassembly-only scope marker; no runtime effect.

		case bytecode.END:
			// Closes the CHA scope; no runtime effect.

		case bytecode.MOD:
			f.ModName = f.Entity.Names[operands[0]]

		case bytecode.USE:
			name := f.Entity.Names[operands[0]]
			f.Table[name] = &object.Mods{Name: name, Modules: vm.Registry.Lookup(name)}

		case bytecode.UAS:
			name := f.Entity.Names[operands[0]]
			alias := f.Entity.Names[operands[1]]
			f.Table[alias] = &object.Mods{Name: name, Modules: vm.Registry.Lookup(name)}

		case bytecode.PUB:
			if lastDeclName == "" {
				return exception.New(exception.CannotPublic, "PUB must follow a var, func, whole or enum declaration", 0)
			}
			f.PublicNames = append(f.PublicNames, lastDeclName)

		case bytecode.B_ARR:
			// Elements are pushed in reverse source order, so the last one
			// pushed (top of stack) is the first element.
			n := operands[0]
			elems := make([]object.Object, n)
			for i := 0; i < n; i++ {
				elems[i] = f.pop()
			}
			f.push(&object.Array{Elements: elems})

		case bytecode.B_TUP:
			n := operands[0]
			elems := make([]object.Object, n)
			for i := 0; i < n; i++ {
				elems[i] = f.pop()
			}
			f.push(&object.Tuple{Elements: elems})

		case bytecode.B_MAP:
			// Pairs are pushed in reverse source order (each pair as Key
			// then Value), so the stack top holds the first pair's Value,
			// then its Key, then the next pair's Value, Key, and so on.
			pairCount := operands[0] / 2
			m := &object.Map{}
			for i := 0; i < pairCount; i++ {
				val := f.pop()
				key := f.pop()
				m.Set(key, val)
			}
			f.push(m)

		case bytecode.ADD, bytecode.SUB, bytecode.MUL, bytecode.DIV, bytecode.SUR:
			right := f.pop()
			left := f.pop()
			v, err := arith(code, left, right)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.GR, bytecode.LE, bytecode.GR_E, bytecode.LE_E, bytecode.E_E, bytecode.N_E:
			right := f.pop()
			left := f.pop()
			v, err := compare(code, left, right)
			if err != nil {
				return err
			}
			f.push(v)

		case bytecode.AND, bytecode.OR:
			right := f.pop()
			left := f.pop()
			f.push(&object.Bool{Value: logical(code, left, right)})

		case bytecode.BANG:
			v := f.pop()
			f.push(&object.Bool{Value: !truthy(v)})

		case bytecode.NOT:
			v := f.pop()
			neg, err := negate(v)
			if err != nil {
				return err
			}
			f.push(neg)

		case bytecode.JUMP:
			target := operands[0]
			ip = target - 1
			op = f.Entity.OffsetSlotFor(target)
			continue

		case bytecode.F_JUMP:
			cond := f.pop()
			if !truthy(cond) {
				target := operands[0]
				ip = target - 1
				op = f.Entity.OffsetSlotFor(target)
			}
			continue

		case bytecode.T_JUMP:
			cond := f.pop()
			if truthy(cond) {
				target := operands[0]
				ip = target - 1
				op = f.Entity.OffsetSlotFor(target)
			}
			continue

		case bytecode.RET_N:
			f.HasRet = false
			return nil

		case bytecode.RET:
			f.RetSlot = f.pop()
			f.HasRet = true
			return nil

		default:
			return exception.New(exception.RuntimeError, fmt.Sprintf("unimplemented opcode %s", code), 0)
		}
	}
	return nil
}

func asObject(v interface{}) object.Object {
	if o, ok := v.(object.Object); ok {
		return o
	}
	panic(fmt.Sprintf("constant pool entry is not an object.Object: %T", v))
}

// resolve implements spec.md §4.5's LOAD resolution chain: the current
// frame's table, then the active calling module's public names, then (for
// a Whole-method frame) each inherited parent's Func members.
func (vm *VM) resolve(f *Frame, name string) (object.Object, error) {
	if v, ok := f.Table[name]; ok {
		return v, nil
	}
	if vm.callingModule != nil {
		if v, ok := vm.callingModule.Pub[name]; ok {
			return v, nil
		}
	}
	for _, parent := range f.Inherit {
		if fn, ok := parent.Methods[name]; ok {
			return fn, nil
		}
	}
	if _, ok := vm.Builtins[name]; ok {
		return &object.Func{Name: name}, nil
	}
	if v, ok := vm.Globals[name]; ok {
		return v, nil
	}
	return nil, exception.New(exception.RuntimeError, fmt.Sprintf("undefined name %q", name), 0)
}

func (vm *VM) get(f *Frame, receiver object.Object, name string) (object.Object, error) {
	switch r := receiver.(type) {
	case *object.Tuple:
		idx := 0
		fmt.Sscanf(name, "%d", &idx)
		if idx < 0 || idx >= len(r.Elements) {
			return nil, exception.New(exception.RuntimeError, "tuple index out of range", 0)
		}
		return r.Elements[idx], nil
	case *object.Enum:
		i := r.Index(name)
		if i < 0 {
			return nil, exception.New(exception.RuntimeError, fmt.Sprintf("enum %q has no field %q", r.Name, name), 0)
		}
		return &object.Int{Value: int64(i)}, nil
	case *object.Instance:
		if v, ok := r.Fields[name]; ok {
			return v, nil
		}
		if fn, ok := r.Of.Methods[name]; ok {
			return &object.BoundMethod{Func: fn, Self: r}, nil
		}
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("%q has no member %q", r.Of.Name, name), 0)
	case *object.Mods:
		for _, mod := range r.Modules {
			if v, ok := mod.Pub[name]; ok {
				vm.callingModule = mod
				return v, nil
			}
		}
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("module %q has no public name %q", r.Name, name), 0)
	default:
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("cannot get member %q from a %s value", name, kindName(receiver)), 0)
	}
}

func (vm *VM) initWhole(w *object.Whole) error {
	if w.Methods != nil {
		return nil // already materialized
	}
	classFrame := NewFrame(w.Entity, nil)
	if err := vm.run(classFrame); err != nil {
		return err
	}
	w.Methods = make(map[string]*object.Func)
	w.Defaults = make(map[string]object.Object)
	for name, v := range classFrame.Table {
		if fn, ok := v.(*object.Func); ok {
			w.Methods[name] = fn
		} else {
			w.Defaults[name] = v
		}
	}
	return nil
}

func (vm *VM) construct(f *Frame, typeName string, fieldCount int) (object.Object, error) {
	v, err := vm.resolve(f, typeName)
	if err != nil {
		return nil, err
	}
	w, ok := v.(*object.Whole)
	if !ok {
		return nil, exception.New(exception.RuntimeError, fmt.Sprintf("%q is not a whole", typeName), 0)
	}

	fields := make(map[string]object.Object, fieldCount)
	pairs := make([][2]object.Object, fieldCount)
	for i := fieldCount - 1; i >= 0; i-- {
		val := f.pop()
		nameObj := f.pop()
		pairs[i] = [2]object.Object{nameObj, val}
	}
	for k, v := range w.Defaults {
		fields[k] = v
	}
	for _, pair := range pairs {
		fields[pair[0].String()] = pair[1]
	}
	inst := &object.Instance{Of: w, Fields: fields}

	for _, parentName := range w.Inherit {
		parentObj, err := vm.resolve(f, parentName)
		if err != nil {
			return nil, err
		}
		parent, ok := parentObj.(*object.Whole)
		if !ok {
			return nil, exception.New(exception.RuntimeError, fmt.Sprintf("%q is not a whole", parentName), 0)
		}
		if err := vm.initWhole(parent); err != nil {
			return nil, err
		}
		for _, sig := range parent.Interface {
			method, ok := w.Methods[sig.Name]
			if !ok || len(method.Params) != sig.Argc {
				return nil, exception.New(exception.RuntimeError,
					fmt.Sprintf("%q does not implement %q required by %q", w.Name, sig.Name, parentName), 0)
			}
		}
	}
	return inst, nil
}

// call implements spec.md §4.5's CALL n: pop n args (already in
// left-to-right order, since the compiler pushes the callee first and
// arguments right-to-left on top of it), then pop the callee.
func (vm *VM) call(f *Frame, argc int) error {
	args := make([]object.Object, argc)
	for i := 0; i < argc; i++ {
		args[i] = f.pop()
	}
	callee := f.pop()

	switch c := callee.(type) {
	case *object.Func:
		if c.Entity == nil {
			builtin, ok := vm.Builtins[c.Name]
			if !ok {
				return exception.New(exception.RuntimeError, fmt.Sprintf("undefined builtin %q", c.Name), 0)
			}
			result, err := builtin(args)
			if err != nil {
				return err
			}
			if result != nil {
				f.push(result)
			}
			return nil
		}
		return vm.invoke(f, c, args, nil)

	case *object.BoundMethod:
		return vm.invoke(f, c.Func, args, c.Self)

	default:
		return exception.New(exception.RuntimeError, fmt.Sprintf("%s is not callable", kindName(callee)), 0)
	}
}

// invoke runs fn's entity in a fresh frame, binding self (if this is a
// Whole method) and each parameter before execution.
func (vm *VM) invoke(caller *Frame, fn *object.Func, args []object.Object, self *object.Instance) error {
	params := fn.Params
	if self != nil && len(params) > 0 && params[0] == "self" {
		params = params[1:]
	}
	if len(args) != len(params) {
		return exception.New(exception.RuntimeError,
			fmt.Sprintf("%q expects %d argument(s), got %d", fn.Name, len(params), len(args)), 0)
	}

	callee := NewFrame(fn.Entity, caller)
	if self != nil {
		callee.Table["self"] = self
		for _, parentName := range self.Of.Inherit {
			if pv, err := vm.resolve(caller, parentName); err == nil {
				if pw, ok := pv.(*object.Whole); ok {
					callee.Inherit = append(callee.Inherit, pw)
				}
			}
		}
	}
	for i, p := range params {
		callee.Table[p] = args[i]
	}

	if err := vm.run(callee); err != nil {
		return err
	}

	if fn.Ret != nil {
		if !callee.HasRet {
			return exception.New(exception.RuntimeError, fmt.Sprintf("%q declared a return type but returned nothing", fn.Name), 0)
		}
		if !typeMatches(callee.RetSlot, fn.Ret) {
			return exception.New(exception.RuntimeError, fmt.Sprintf("%q returned a value not matching its declared type", fn.Name), 0)
		}
		caller.push(callee.RetSlot)
	} else if callee.HasRet {
		return exception.New(exception.RuntimeError, fmt.Sprintf("%q declared no return type but returned a value", fn.Name), 0)
	}
	return nil
}
