// Package compiler lowers a semantically-checked AST into bytecode.Entity
// units. The recursive walk over tagged statement/expression variants
// follows the shape of the teacher's tree-walking evaluate.go/run.go, but
// emits bytecode instead of directly producing side effects, per
// spec.md §4.4.
package compiler

import (
	"fmt"

	"github.com/drift-lang/drift/internal/ast"
	"github.com/drift-lang/drift/internal/bytecode"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/object"
	"github.com/drift-lang/drift/internal/token"
)

// loopCtx tracks the placeholder slots an out/tin inside the loop body
// must patch once the loop's head and after-loop indices are known.
type loopCtx struct {
	breaks    []int // offset slots to patch to the after-loop index
	continues []int // offset slots to patch to the loop-head index
}

// Compiler walks a Program and emits a root Entity. It carries no state
// across calls to Compile other than the loop-context stack used while
// lowering a single For/Do body.
type Compiler struct {
	loops []*loopCtx
}

// New creates a Compiler.
func New() *Compiler { return &Compiler{} }

// Compile lowers an entire program into its root Entity, titled "main".
func (c *Compiler) Compile(prog *ast.Program) (*bytecode.Entity, error) {
	e := bytecode.New("main")
	for _, s := range prog.Stmts {
		if err := c.stmt(e, s); err != nil {
			return nil, err
		}
	}
	return e, nil
}

func (c *Compiler) block(e *bytecode.Entity, b *ast.Block) error {
	for _, s := range b.Stmts {
		if err := c.stmt(e, s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) stmt(e *bytecode.Entity, s ast.Stmt) error {
	switch st := s.(type) {
	case *ast.ExprStmt:
		return c.expr(e, st.Expr)
	case *ast.VarStmt:
		return c.varStmt(e, st)
	case *ast.Block:
		return c.block(e, st)
	case *ast.IfStmt:
		return c.ifStmt(e, st)
	case *ast.ForStmt:
		return c.forStmt(e, st)
	case *ast.DoStmt:
		return c.doStmt(e, st)
	case *ast.OutStmt:
		return c.outStmt(e, st)
	case *ast.TinStmt:
		return c.tinStmt(e, st)
	case *ast.FuncStmt:
		return c.funcStmt(e, st)
	case *ast.WholeStmt:
		return c.wholeStmt(e, st)
	case *ast.EnumStmt:
		return c.enumStmt(e, st)
	case *ast.InterfaceStmt:
		// Interfaces contribute signatures to the enclosing Whole at
		// wholeStmt lowering time; standalone interface declarations at
		// top level emit nothing themselves.
		return nil
	case *ast.AndStmt:
		return c.andStmt(e, st)
	case *ast.ModStmt:
		e.Emit(bytecode.MOD, e.AddName(st.Name))
		return nil
	case *ast.UseStmt:
		if st.Alias == "" {
			e.Emit(bytecode.USE, e.AddName(st.Name))
		} else {
			e.Emit(bytecode.UAS, e.AddName(st.Name), e.AddName(st.Alias))
		}
		return nil
	case *ast.RetStmt:
		return c.retStmt(e, st)
	case *ast.PubStmt:
		return c.pubStmt(e, st)
	case *ast.InheritStmt:
		// Emits nothing: a whole's parents come from WholeStmt.Inherit,
		// and a `<-` statement parsed on its own has no lowering.
		return nil
	case *ast.DelStmt:
		// No opcode lowers Del (spec.md's Open Questions: treat as a
		// no-op).
		return nil
	default:
		return exception.New(exception.InvalidSyntax, fmt.Sprintf("cannot compile statement %T", s), 0)
	}
}

func (c *Compiler) varStmt(e *bytecode.Entity, v *ast.VarStmt) error {
	if v.Init != nil {
		if err := c.expr(e, v.Init); err != nil {
			return err
		}
	} else {
		e.Emit(bytecode.ORIG)
	}
	typeIdx := e.AddType(v.Type)
	nameIdx := e.AddName(v.Name)
	e.Emit(bytecode.STORE, nameIdx, typeIdx)
	return nil
}

// ---------------------------------------------------------------- control flow

func (c *Compiler) ifStmt(e *bytecode.Entity, st *ast.IfStmt) error {
	if err := c.expr(e, st.Cond); err != nil {
		return err
	}
	fJumpSlot := e.EmitJump(bytecode.F_JUMP, 0)

	if err := c.block(e, st.Then); err != nil {
		return err
	}
	var endJumpSlots []int
	endJumpSlots = append(endJumpSlots, e.EmitJump(bytecode.JUMP, 0))
	e.PatchOffset(fJumpSlot, len(e.Codes))

	for _, ef := range st.Efs {
		if err := c.expr(e, ef.Cond); err != nil {
			return err
		}
		efFJump := e.EmitJump(bytecode.F_JUMP, 0)
		if err := c.block(e, ef.Block); err != nil {
			return err
		}
		endJumpSlots = append(endJumpSlots, e.EmitJump(bytecode.JUMP, 0))
		e.PatchOffset(efFJump, len(e.Codes))
	}

	if st.Else != nil {
		if err := c.block(e, st.Else); err != nil {
			return err
		}
	}

	end := len(e.Codes)
	for _, slot := range endJumpSlots {
		e.PatchOffset(slot, end)
	}
	return nil
}

func (c *Compiler) forStmt(e *bytecode.Entity, st *ast.ForStmt) error {
	head := len(e.Codes)
	var fJumpSlot int
	hasCond := st.Cond != nil
	if hasCond {
		if err := c.expr(e, st.Cond); err != nil {
			return err
		}
		fJumpSlot = e.EmitJump(bytecode.F_JUMP, 0)
	}

	c.loops = append(c.loops, &loopCtx{})
	if err := c.block(e, st.Body); err != nil {
		c.loops = c.loops[:len(c.loops)-1]
		return err
	}
	ctx := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	e.EmitJump(bytecode.JUMP, head)
	after := len(e.Codes)
	if hasCond {
		e.PatchOffset(fJumpSlot, after)
	}

	for _, slot := range ctx.breaks {
		e.PatchOffset(slot, after)
	}
	for _, slot := range ctx.continues {
		e.PatchOffset(slot, head)
	}
	return nil
}

func (c *Compiler) doStmt(e *bytecode.Entity, st *ast.DoStmt) error {
	if err := c.block(e, st.Body); err != nil {
		return err
	}
	return c.forStmt(e, st.Loop)
}

// outStmt/tinStmt emit the sentinel-targeted jump spec.md describes
// (-1 for a break, -2 for a continue); the enclosing forStmt patches the
// slot once it knows its head/after-loop indices, recorded here via the
// innermost loopCtx rather than by re-scanning bytecode for the sentinel.
func (c *Compiler) outStmt(e *bytecode.Entity, st *ast.OutStmt) error {
	if len(c.loops) == 0 {
		return exception.New(exception.InvalidSyntax, "'out' used outside of a loop", 0)
	}
	ctx := c.loops[len(c.loops)-1]
	var slot int
	if st.Value != nil {
		if err := c.expr(e, st.Value); err != nil {
			return err
		}
		slot = e.EmitJump(bytecode.T_JUMP, -1)
	} else {
		slot = e.EmitJump(bytecode.JUMP, -1)
	}
	ctx.breaks = append(ctx.breaks, slot)
	return nil
}

func (c *Compiler) tinStmt(e *bytecode.Entity, st *ast.TinStmt) error {
	if len(c.loops) == 0 {
		return exception.New(exception.InvalidSyntax, "'tin' used outside of a loop", 0)
	}
	ctx := c.loops[len(c.loops)-1]
	var slot int
	if st.Value != nil {
		if err := c.expr(e, st.Value); err != nil {
			return err
		}
		slot = e.EmitJump(bytecode.T_JUMP, -2)
	} else {
		slot = e.EmitJump(bytecode.JUMP, -2)
	}
	ctx.continues = append(ctx.continues, slot)
	return nil
}

// ---------------------------------------------------------------- declarations

func (c *Compiler) funcStmt(e *bytecode.Entity, st *ast.FuncStmt) error {
	body := bytecode.New(st.Name)
	nested := New()
	if err := nested.block(body, st.Body); err != nil {
		return err
	}

	var params []string
	for _, p := range st.Params {
		params = append(params, p.Names...)
	}
	fn := &object.Func{Name: st.Name, Params: params, Ret: st.Ret, Entity: body}

	constIdx := e.AddConstant(fn)
	e.Emit(bytecode.FUNC, constIdx)
	return nil
}

func (c *Compiler) wholeStmt(e *bytecode.Entity, st *ast.WholeStmt) error {
	body := bytecode.New(st.Name)
	nested := New()

	var ifaces []object.InterfaceSig
	var memberStmts []ast.Stmt
	for _, s := range st.Body.Stmts {
		inner, _ := unwrapPub(s)
		if ifc, isIfc := inner.(*ast.InterfaceStmt); isIfc {
			ifaces = append(ifaces, object.InterfaceSig{Name: ifc.Name, Argc: len(ifc.Args)})
			continue
		}
		memberStmts = append(memberStmts, s)
	}
	for _, s := range memberStmts {
		if err := nested.stmt(body, s); err != nil {
			return err
		}
	}

	w := &object.Whole{Name: st.Name, Inherit: st.Inherit, Interface: ifaces, Entity: body}
	constIdx := e.AddConstant(w)
	e.Emit(bytecode.WHOLE, constIdx)
	return nil
}

func unwrapPub(s ast.Stmt) (ast.Stmt, bool) {
	if p, ok := s.(*ast.PubStmt); ok {
		return p.Inner, true
	}
	return s, false
}

func (c *Compiler) enumStmt(e *bytecode.Entity, st *ast.EnumStmt) error {
	en := &object.Enum{Name: st.Name, Fields: st.Fields}
	constIdx := e.AddConstant(en)
	e.Emit(bytecode.ENUM, constIdx)
	return nil
}

func (c *Compiler) andStmt(e *bytecode.Entity, st *ast.AndStmt) error {
	e.Emit(bytecode.CHA, e.AddName(st.Alias))
	if err := c.block(e, st.Body); err != nil {
		return err
	}
	e.Emit(bytecode.END, e.AddName(st.Alias))
	return nil
}

func (c *Compiler) retStmt(e *bytecode.Entity, st *ast.RetStmt) error {
	if st.Inner == nil {
		e.Emit(bytecode.RET_N)
		return nil
	}
	if err := c.stmt(e, st.Inner); err != nil {
		return err
	}
	e.Emit(bytecode.RET)
	return nil
}

func (c *Compiler) pubStmt(e *bytecode.Entity, st *ast.PubStmt) error {
	if err := c.stmt(e, st.Inner); err != nil {
		return err
	}
	switch st.Inner.(type) {
	case *ast.FuncStmt, *ast.WholeStmt, *ast.VarStmt, *ast.EnumStmt:
		e.Emit(bytecode.PUB)
		return nil
	default:
		return exception.New(exception.CannotPublic, "only def, func, whole and enum declarations may be published", 0)
	}
}

// ---------------------------------------------------------------- expressions

func (c *Compiler) expr(e *bytecode.Entity, ex ast.Expr) error {
	switch x := ex.(type) {
	case *ast.LiteralExpr:
		return c.literal(e, x)
	case *ast.NameExpr:
		e.Emit(bytecode.LOAD, e.AddName(x.Token.Literal))
		return nil
	case *ast.GroupExpr:
		return c.expr(e, x.Inner)
	case *ast.UnaryExpr:
		if err := c.expr(e, x.Operand); err != nil {
			return err
		}
		switch x.Op.Kind {
		case token.MINUS:
			e.Emit(bytecode.NOT)
		case token.BANG:
			e.Emit(bytecode.BANG)
		}
		return nil
	case *ast.BinaryExpr:
		return c.binary(e, x)
	case *ast.AssignExpr:
		return c.assign(e, x)
	case *ast.SetExpr:
		return c.set(e, x)
	case *ast.GetExpr:
		if err := c.expr(e, x.Object); err != nil {
			return err
		}
		e.Emit(bytecode.GET, e.AddName(x.Name.Literal))
		return nil
	case *ast.IndexExpr:
		if err := c.expr(e, x.Index); err != nil {
			return err
		}
		if err := c.expr(e, x.Container); err != nil {
			return err
		}
		e.Emit(bytecode.INDEX)
		return nil
	case *ast.CallExpr:
		return c.call(e, x)
	case *ast.ArrayExpr:
		for i := len(x.Elems) - 1; i >= 0; i-- {
			if err := c.expr(e, x.Elems[i]); err != nil {
				return err
			}
		}
		e.Emit(bytecode.B_ARR, len(x.Elems))
		return nil
	case *ast.TupleExpr:
		for i := len(x.Elems) - 1; i >= 0; i-- {
			if err := c.expr(e, x.Elems[i]); err != nil {
				return err
			}
		}
		e.Emit(bytecode.B_TUP, len(x.Elems))
		return nil
	case *ast.MapExpr:
		for i := len(x.Pairs) - 1; i >= 0; i-- {
			if err := c.expr(e, x.Pairs[i].Key); err != nil {
				return err
			}
			if err := c.expr(e, x.Pairs[i].Value); err != nil {
				return err
			}
		}
		e.Emit(bytecode.B_MAP, len(x.Pairs)*2)
		return nil
	case *ast.NewExpr:
		for _, f := range x.Fields {
			nameIdx := e.AddConstant(&object.Str{Value: f.Name})
			e.Emit(bytecode.CONST, nameIdx)
			if err := c.expr(e, f.Value); err != nil {
				return err
			}
		}
		nameIdx := e.AddName(x.TypeName.Literal)
		e.Emit(bytecode.NEW, nameIdx, len(x.Fields))
		return nil
	default:
		return exception.New(exception.InvalidSyntax, fmt.Sprintf("cannot compile expression %T", ex), 0)
	}
}

func (c *Compiler) literal(e *bytecode.Entity, l *ast.LiteralExpr) error {
	var v object.Object
	switch l.Token.Kind {
	case token.NUMBER:
		var n int64
		fmt.Sscanf(l.Value, "%d", &n)
		v = &object.Int{Value: n}
	case token.FLOAT:
		var f float64
		fmt.Sscanf(l.Value, "%g", &f)
		v = &object.Float{Value: f}
	case token.STRING:
		v = &object.Str{Value: l.Value}
	case token.CHAR:
		if len(l.Value) > 0 {
			v = &object.Char{Value: l.Value[0]}
		} else {
			v = &object.Char{}
		}
	case token.IDENT:
		v = &object.Bool{Value: l.Value == "true"}
	default:
		return exception.New(exception.InvalidSyntax, "unrecognized literal", l.Token.Line)
	}
	e.Emit(bytecode.CONST, e.AddConstant(v))
	return nil
}

func (c *Compiler) binary(e *bytecode.Entity, b *ast.BinaryExpr) error {
	if err := c.expr(e, b.Left); err != nil {
		return err
	}
	if err := c.expr(e, b.Right); err != nil {
		return err
	}
	switch b.Op.Kind {
	case token.PLUS:
		e.Emit(bytecode.ADD)
	case token.MINUS:
		e.Emit(bytecode.SUB)
	case token.STAR:
		e.Emit(bytecode.MUL)
	case token.SLASH:
		e.Emit(bytecode.DIV)
	case token.PERCENT:
		e.Emit(bytecode.SUR)
	case token.GREATER:
		e.Emit(bytecode.GR)
	case token.LESS:
		e.Emit(bytecode.LE)
	case token.GREATER_EQ:
		e.Emit(bytecode.GR_E)
	case token.LESS_EQ:
		e.Emit(bytecode.LE_E)
	case token.EQ_EQ:
		e.Emit(bytecode.E_E)
	case token.BANG_EQ:
		e.Emit(bytecode.N_E)
	case token.AMP:
		e.Emit(bytecode.AND)
	case token.PIPE:
		e.Emit(bytecode.OR)
	default:
		return exception.New(exception.InvalidSyntax, "unrecognized binary operator", b.Op.Line)
	}
	return nil
}

// assign compiles both plain `name = value` and `name[i] = value`
// (compound `+=`/etc. arrive pre-desugared by the parser into an
// AssignExpr wrapping a BinaryExpr, so no special case is needed here).
func (c *Compiler) assign(e *bytecode.Entity, a *ast.AssignExpr) error {
	if idx, ok := a.Target.(*ast.IndexExpr); ok {
		if err := c.expr(e, a.Value); err != nil {
			return err
		}
		if err := c.expr(e, idx.Index); err != nil {
			return err
		}
		if err := c.expr(e, idx.Container); err != nil {
			return err
		}
		e.Emit(bytecode.REPLACE)
		return nil
	}
	name, ok := a.Target.(*ast.NameExpr)
	if !ok {
		return exception.New(exception.InvalidSyntax, "invalid assignment target", 0)
	}
	if err := c.expr(e, a.Value); err != nil {
		return err
	}
	e.Emit(bytecode.ASSIGN, e.AddName(name.Token.Literal))
	return nil
}

func (c *Compiler) set(e *bytecode.Entity, s *ast.SetExpr) error {
	if err := c.expr(e, s.Value); err != nil {
		return err
	}
	if err := c.expr(e, s.Object); err != nil {
		return err
	}
	e.Emit(bytecode.SET, e.AddName(s.Name.Literal))
	return nil
}

// call emits the callee, then arguments right to left per spec.md §4.4.
func (c *Compiler) call(e *bytecode.Entity, call *ast.CallExpr) error {
	if err := c.expr(e, call.Callee); err != nil {
		return err
	}
	for i := len(call.Args) - 1; i >= 0; i-- {
		if err := c.expr(e, call.Args[i]); err != nil {
			return err
		}
	}
	e.Emit(bytecode.CALL, len(call.Args))
	return nil
}
