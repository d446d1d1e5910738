// Package ast defines the Drift abstract syntax tree. Node shape — tagged
// struct variants each with a String() printer, rather than a virtual
// class hierarchy — follows the teacher's codecrafters/cmd/ast.go.
package ast

import (
	"fmt"
	"strings"

	"github.com/drift-lang/drift/internal/token"
	"github.com/drift-lang/drift/internal/types"
)

// Expr is any expression node.
type Expr interface {
	exprNode()
	String() string
}

// Stmt is any statement node.
type Stmt interface {
	stmtNode()
	String() string
}

// Program is the root of a parsed source file.
type Program struct {
	Stmts []Stmt
}

func (p *Program) String() string {
	sb := strings.Builder{}
	for _, s := range p.Stmts {
		sb.WriteString(s.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// ---------------------------------------------------------------- Exprs

type LiteralExpr struct {
	Token token.Token
	Value string
}

func (*LiteralExpr) exprNode()        {}
func (l *LiteralExpr) String() string { return l.Value }

type BinaryExpr struct {
	Left  Expr
	Op    token.Token
	Right Expr
}

func (*BinaryExpr) exprNode() {}
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op.Literal, b.Left, b.Right)
}

type GroupExpr struct {
	Inner Expr
}

func (*GroupExpr) exprNode()        {}
func (g *GroupExpr) String() string { return fmt.Sprintf("(%s)", g.Inner) }

type UnaryExpr struct {
	Op      token.Token
	Operand Expr
}

func (*UnaryExpr) exprNode()        {}
func (u *UnaryExpr) String() string { return fmt.Sprintf("(%s%s)", u.Op.Literal, u.Operand) }

type NameExpr struct {
	Token token.Token
}

func (*NameExpr) exprNode()        {}
func (n *NameExpr) String() string { return n.Token.Literal }

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (*CallExpr) exprNode() {}
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(parts, ", "))
}

type GetExpr struct {
	Object Expr
	Name   token.Token
}

func (*GetExpr) exprNode()        {}
func (g *GetExpr) String() string { return fmt.Sprintf("%s.%s", g.Object, g.Name.Literal) }

type SetExpr struct {
	Object Expr
	Name   token.Token
	Value  Expr
}

func (*SetExpr) exprNode() {}
func (s *SetExpr) String() string {
	return fmt.Sprintf("%s.%s = %s", s.Object, s.Name.Literal, s.Value)
}

type AssignExpr struct {
	Target Expr // NameExpr or IndexExpr
	Value  Expr
}

func (*AssignExpr) exprNode()        {}
func (a *AssignExpr) String() string { return fmt.Sprintf("%s = %s", a.Target, a.Value) }

type ArrayExpr struct {
	Elems []Expr
}

func (*ArrayExpr) exprNode() {}
func (a *ArrayExpr) String() string {
	parts := make([]string, len(a.Elems))
	for i, e := range a.Elems {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

type MapPair struct {
	Key, Value Expr
}

type MapExpr struct {
	Pairs []MapPair
}

func (*MapExpr) exprNode() {}
func (m *MapExpr) String() string {
	parts := make([]string, len(m.Pairs))
	for i, p := range m.Pairs {
		parts[i] = fmt.Sprintf("%s: %s", p.Key, p.Value)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type TupleExpr struct {
	Elems []Expr
}

func (*TupleExpr) exprNode() {}
func (t *TupleExpr) String() string {
	parts := make([]string, len(t.Elems))
	for i, e := range t.Elems {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

type IndexExpr struct {
	Container Expr
	Index     Expr
}

func (*IndexExpr) exprNode()        {}
func (i *IndexExpr) String() string { return fmt.Sprintf("%s[%s]", i.Container, i.Index) }

type NewField struct {
	Name  string
	Value Expr
}

type NewExpr struct {
	TypeName token.Token
	Fields   []NewField
}

func (*NewExpr) exprNode() {}
func (n *NewExpr) String() string {
	parts := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Name, f.Value)
	}
	return fmt.Sprintf("new %s { %s }", n.TypeName.Literal, strings.Join(parts, ", "))
}

// ---------------------------------------------------------------- Stmts

type ExprStmt struct {
	Expr Expr
}

func (*ExprStmt) stmtNode()        {}
func (e *ExprStmt) String() string { return e.Expr.String() }

type VarStmt struct {
	Name string
	Type types.Type
	Init Expr // nil if absent
}

func (*VarStmt) stmtNode() {}
func (v *VarStmt) String() string {
	if v.Init == nil {
		return fmt.Sprintf("def %s: %s", v.Name, v.Type)
	}
	return fmt.Sprintf("def %s: %s = %s", v.Name, v.Type, v.Init)
}

type Block struct {
	Stmts []Stmt
}

func (*Block) stmtNode() {}
func (b *Block) String() string {
	sb := strings.Builder{}
	sb.WriteString("{\n")
	for _, s := range b.Stmts {
		sb.WriteString("    " + s.String() + "\n")
	}
	sb.WriteString("}")
	return sb.String()
}

type CondBlock struct {
	Cond  Expr
	Block *Block
}

type IfStmt struct {
	Cond Expr
	Then *Block
	Efs  []CondBlock
	Else *Block
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	sb := strings.Builder{}
	fmt.Fprintf(&sb, "if (%s) %s", i.Cond, i.Then)
	for _, ef := range i.Efs {
		fmt.Fprintf(&sb, " ef (%s) %s", ef.Cond, ef.Block)
	}
	if i.Else != nil {
		fmt.Fprintf(&sb, " nf %s", i.Else)
	}
	return sb.String()
}

// ForStmt: Cond == nil means an infinite loop (`for -> … end`).
type ForStmt struct {
	Cond Expr
	Body *Block
}

func (*ForStmt) stmtNode() {}
func (f *ForStmt) String() string {
	if f.Cond == nil {
		return fmt.Sprintf("for -> %s", f.Body)
	}
	return fmt.Sprintf("for %s %s", f.Cond, f.Body)
}

// DoStmt executes Body once, then evaluates Loop (a ForStmt).
type DoStmt struct {
	Body *Block
	Loop *ForStmt
}

func (*DoStmt) stmtNode()        {}
func (d *DoStmt) String() string { return fmt.Sprintf("do %s %s", d.Body, d.Loop) }

// OutStmt is `out` (break), optionally with a conditional value.
type OutStmt struct {
	Value Expr // nil if bare `out ->`
}

func (*OutStmt) stmtNode() {}
func (o *OutStmt) String() string {
	if o.Value == nil {
		return "out ->"
	}
	return "out " + o.Value.String()
}

// TinStmt is `tin` (continue), optionally with a conditional value.
type TinStmt struct {
	Value Expr
}

func (*TinStmt) stmtNode() {}
func (t *TinStmt) String() string {
	if t.Value == nil {
		return "tin ->"
	}
	return "tin " + t.Value.String()
}

type Param struct {
	Names []string // coalesced names bound to the same Type, e.g. `a + b + c : T`
	Type  types.Type
}

type FuncStmt struct {
	Name   string
	Params []Param
	Ret    types.Type // nil if none declared
	Body   *Block
}

func (*FuncStmt) stmtNode() {}
func (f *FuncStmt) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = fmt.Sprintf("%s: %s", strings.Join(p.Names, " + "), p.Type)
	}
	ret := ""
	if f.Ret != nil {
		ret = " -> " + f.Ret.String()
	}
	return fmt.Sprintf("def (%s) %s%s %s", strings.Join(parts, ", "), f.Name, ret, f.Body)
}

type WholeStmt struct {
	Name    string
	Inherit []string // parent whole names, possibly empty
	Body    *Block
}

func (*WholeStmt) stmtNode() {}
func (w *WholeStmt) String() string {
	in := ""
	if len(w.Inherit) > 0 {
		in = " <- " + strings.Join(w.Inherit, " + ")
	}
	return fmt.Sprintf("def %s%s %s", w.Name, in, w.Body)
}

// EnumStmt is produced by the semantic pass rewriting a bare-name-only
// WholeStmt body.
type EnumStmt struct {
	Name   string
	Fields []string
}

func (*EnumStmt) stmtNode() {}
func (e *EnumStmt) String() string {
	return fmt.Sprintf("def %s { %s }", e.Name, strings.Join(e.Fields, ", "))
}

type InheritStmt struct {
	Parents []string
}

func (*InheritStmt) stmtNode()        {}
func (i *InheritStmt) String() string { return "<- " + strings.Join(i.Parents, " + ") }

type InterfaceStmt struct {
	Name string
	Args []types.Type
	Ret  types.Type
}

func (*InterfaceStmt) stmtNode() {}
func (i *InterfaceStmt) String() string {
	parts := make([]string, len(i.Args))
	for j, a := range i.Args {
		parts[j] = a.String()
	}
	ret := ""
	if i.Ret != nil {
		ret = " -> " + i.Ret.String()
	}
	return fmt.Sprintf("def (%s) *%s%s", strings.Join(parts, ", "), i.Name, ret)
}

type AndStmt struct {
	Alias string
	Body  *Block
}

func (*AndStmt) stmtNode()        {}
func (a *AndStmt) String() string { return fmt.Sprintf("and -> %s %s end", a.Alias, a.Body) }

type ModStmt struct {
	Name string
}

func (*ModStmt) stmtNode()        {}
func (m *ModStmt) String() string { return "mod " + m.Name }

type UseStmt struct {
	Name  string
	Alias string // empty if no `as`
}

func (*UseStmt) stmtNode() {}
func (u *UseStmt) String() string {
	if u.Alias == "" {
		return "use " + u.Name
	}
	return fmt.Sprintf("use %s as %s", u.Name, u.Alias)
}

// RetStmt wraps an inner statement to return; Inner == nil means `ret ->`.
type RetStmt struct {
	Keyword token.Token
	Inner   Stmt
}

func (*RetStmt) stmtNode() {}
func (r *RetStmt) String() string {
	if r.Inner == nil {
		return "ret ->"
	}
	return "ret " + r.Inner.String()
}

// PubStmt publishes the name bound by Inner when the enclosing frame
// becomes a module.
type PubStmt struct {
	Inner Stmt
}

func (*PubStmt) stmtNode()        {}
func (p *PubStmt) String() string { return "pub " + p.Inner.String() }

// DelStmt parses but lowers to nothing (spec.md Open Questions).
type DelStmt struct {
	Name string
}

func (*DelStmt) stmtNode()        {}
func (d *DelStmt) String() string { return "del " + d.Name }
