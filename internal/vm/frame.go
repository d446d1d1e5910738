package vm

import (
	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/object"
)

// Frame is one VM activation record: the entity being executed, its name
// table, its data stack, an optional return slot, and the module bits it
// accumulates if it turns out to define a module (spec.md §4.5).
type Frame struct {
	Entity *bytecode.Entity
	Table  map[string]object.Object
	Stack  []object.Object

	RetSlot object.Object
	HasRet  bool

	ModName     string
	PublicNames []string

	// Inherit names a Whole's parent Wholes, used by LOAD's fallback chain
	// when this frame belongs to a Whole instance method.
	Inherit []*object.Whole
}

// NewFrame creates a Frame over freshly executing entity e, inheriting
// table bindings from the enclosing frame (spec.md §4.5's "CALL n" rule:
// a called function sees its enclosing bindings).
func NewFrame(e *bytecode.Entity, enclosing *Frame) *Frame {
	table := make(map[string]object.Object)
	if enclosing != nil {
		for k, v := range enclosing.Table {
			table[k] = v
		}
	}
	return &Frame{Entity: e, Table: table}
}

func (f *Frame) push(o object.Object) { f.Stack = append(f.Stack, o) }

func (f *Frame) pop() object.Object {
	n := len(f.Stack)
	o := f.Stack[n-1]
	f.Stack = f.Stack[:n-1]
	return o
}

func (f *Frame) peek() object.Object { return f.Stack[len(f.Stack)-1] }
