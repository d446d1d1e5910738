// Package object defines Drift's run-time value representation. Each
// variant is a tagged struct with a String()/raw-string pair, following
// the teacher's tagged-struct-with-String() AST style rather than the
// virtual Object class hierarchy of original_source/src/object.hpp; Kind()
// replaces the C++ kind() virtual dispatch.
package object

import (
	"fmt"
	"strings"

	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/types"
)

type Kind int

const (
	IntKind Kind = iota
	FloatKind
	StrKind
	CharKind
	BoolKind
	ArrayKind
	TupleKind
	MapKind
	EnumKind
	FuncKind
	WholeKind
	ModuleKind
	ModsKind
)

// Object is any Drift run-time value.
type Object interface {
	// String is the value's bare display form, used by puts/put/putl and
	// string concatenation.
	String() string
	// Raw is the debug form, e.g. `<Int 3>`, used by the disassembler and
	// error messages.
	Raw() string
	Kind() Kind
}

type Int struct{ Value int64 }

func (i *Int) String() string { return fmt.Sprintf("%d", i.Value) }
func (i *Int) Raw() string    { return fmt.Sprintf("<Int %d>", i.Value) }
func (*Int) Kind() Kind       { return IntKind }

type Float struct{ Value float64 }

func (f *Float) String() string { return fmt.Sprintf("%g", f.Value) }
func (f *Float) Raw() string    { return fmt.Sprintf("<Float %g>", f.Value) }
func (*Float) Kind() Kind       { return FloatKind }

// Str carries the long-string flag distinguishing backtick literals
// (original_source/src/object.hpp's Str::longer); a long string's raw
// form elides the contents the way the original does.
type Str struct {
	Value string
	Long  bool
}

func (s *Str) String() string { return s.Value }
func (s *Str) Raw() string {
	if s.Long {
		return "<Str LONG>"
	}
	return fmt.Sprintf("<Str %q>", s.Value)
}
func (*Str) Kind() Kind { return StrKind }

type Char struct{ Value byte }

func (c *Char) String() string { return string(c.Value) }
func (c *Char) Raw() string    { return fmt.Sprintf("<Char %q>", c.Value) }
func (*Char) Kind() Kind       { return CharKind }

type Bool struct{ Value bool }

func (b *Bool) String() string {
	if b.Value {
		return "T"
	}
	return "F"
}
func (b *Bool) Raw() string { return fmt.Sprintf("<Bool %t>", b.Value) }
func (*Bool) Kind() Kind    { return BoolKind }

type Array struct{ Elements []Object }

func (a *Array) String() string { return joinElements(a.Elements, "[", "]") }
func (a *Array) Raw() string    { return "<Array " + a.String() + ">" }
func (*Array) Kind() Kind       { return ArrayKind }

type Tuple struct{ Elements []Object }

func (t *Tuple) String() string { return joinElements(t.Elements, "(", ")") }
func (t *Tuple) Raw() string    { return "<Tuple " + t.String() + ">" }
func (*Tuple) Kind() Kind       { return TupleKind }

func joinElements(elems []Object, open, close string) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = e.String()
	}
	return open + strings.Join(parts, ", ") + close
}

// MapEntry preserves insertion order; Drift maps iterate and print in the
// order keys were first inserted rather than by a hashed or sorted order.
type MapEntry struct {
	Key   Object
	Value Object
}

type Map struct {
	Entries []MapEntry
}

func (m *Map) Get(key Object) (Object, bool) {
	for _, e := range m.Entries {
		if objEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

func (m *Map) Set(key, value Object) {
	for i, e := range m.Entries {
		if objEqual(e.Key, key) {
			m.Entries[i].Value = value
			return
		}
	}
	m.Entries = append(m.Entries, MapEntry{Key: key, Value: value})
}

func (m *Map) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = fmt.Sprintf("%s: %s", e.Key.String(), e.Value.String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *Map) Raw() string { return "<Map " + m.String() + ">" }
func (*Map) Kind() Kind    { return MapKind }

// objEqual reports deep equality for map keys; numeric/string/char/bool
// keys compare by value, any other kind compares by pointer identity.
func objEqual(a, b Object) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Int:
		return x.Value == b.(*Int).Value
	case *Float:
		return x.Value == b.(*Float).Value
	case *Str:
		return x.Value == b.(*Str).Value
	case *Char:
		return x.Value == b.(*Char).Value
	case *Bool:
		return x.Value == b.(*Bool).Value
	default:
		return a == b
	}
}

// Enum holds the ordered field names a whole-turned-enum declares
// (original_source/src/object.hpp's Enum.elements, a value->name map
// there; Go keeps the slice and reports a field's position on lookup).
type Enum struct {
	Name   string
	Fields []string
}

func (e *Enum) String() string { return fmt.Sprintf("<Enum %q>", e.Name) }
func (e *Enum) Raw() string    { return e.String() }
func (*Enum) Kind() Kind       { return EnumKind }

// Index returns a field's ordinal position, or -1 if not present.
func (e *Enum) Index(field string) int {
	for i, f := range e.Fields {
		if f == field {
			return i
		}
	}
	return -1
}

// Func is a compiled function value: its parameter names/arity and
// compiled Entity body. A builtin is a Func with a nil Entity, which CALL
// dispatches by name to the VM's builtin table (see internal/builtin).
type Func struct {
	Name   string
	Params []string
	Ret    types.Type // nil if the function declares no return type
	Entity *bytecode.Entity
}

func (f *Func) String() string { return fmt.Sprintf("<Func %q>", f.Name) }
func (f *Func) Raw() string    { return f.String() }
func (*Func) Kind() Kind       { return FuncKind }

// BoundMethod pairs a Whole method with the Instance it was looked up
// through (GET arranging self-binding per spec.md §4.5), so CALL can bind
// "self" in the method's frame without the method's own Func needing a
// back-pointer to any particular instance.
type BoundMethod struct {
	Func *Func
	Self *Instance
}

func (b *BoundMethod) String() string { return b.Func.String() }
func (b *BoundMethod) Raw() string    { return b.Func.Raw() }
func (*BoundMethod) Kind() Kind       { return FuncKind }

// Whole is a compiled whole (class) value: its own entity plus the
// parent whole names it inherits from and the interface signatures it
// must conform to (original_source/src/object.hpp's Whole.interface).
// Methods and Defaults are populated once, the first time the WHOLE
// opcode runs the entity, splitting its bound names into callable
// members and plain field defaults.
type Whole struct {
	Name      string
	Inherit   []string
	Interface []InterfaceSig
	Entity    *bytecode.Entity

	Methods  map[string]*Func
	Defaults map[string]Object
}

// InterfaceSig names a method signature a Whole must provide to satisfy
// an interface declaration.
type InterfaceSig struct {
	Name string
	Argc int
}

func (w *Whole) String() string { return fmt.Sprintf("<Whole %q>", w.Name) }
func (w *Whole) Raw() string    { return w.String() }
func (*Whole) Kind() Kind       { return WholeKind }

// Instance is a constructed Whole value: its defining Whole plus its own
// field bindings. original_source has no separate instance type because
// its Frame doubles as both class-body scope and instance storage; Go's
// object model splits them so a VM frame can stay a pure name table.
type Instance struct {
	Of     *Whole
	Fields map[string]Object
}

func (i *Instance) String() string { return fmt.Sprintf("<%s>", i.Of.Name) }
func (i *Instance) Raw() string    { return fmt.Sprintf("<Whole %q instance>", i.Of.Name) }
func (*Instance) Kind() Kind       { return WholeKind }

// Module is a compiled, executed module: its own frame and public name
// set (original_source/src/object.hpp's Module).
type Module struct {
	Name string
	Pub  map[string]Object
}

func (m *Module) String() string { return fmt.Sprintf("<Module %q>", m.Name) }
func (m *Module) Raw() string    { return m.String() }
func (*Module) Kind() Kind       { return ModuleKind }

// Mods is the lookup bundle `use` binds in the current frame: every
// registered Module sharing the used name, supporting multi-file modules
// (original_source/src/object.hpp has no equivalent — the C++ VM resolves
// `use` directly against a flat registry; spec.md's data model names Mods
// as its own variant so GET can search the whole bundle).
type Mods struct {
	Name    string
	Modules []*Module
}

func (m *Mods) String() string { return fmt.Sprintf("<Mods %q>", m.Name) }
func (m *Mods) Raw() string    { return m.String() }
func (*Mods) Kind() Kind       { return ModsKind }
