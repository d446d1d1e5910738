// Package semantic runs a shallow static pass over a parsed Program before
// compilation: rewriting bare-name-only wholes into enums, and flagging
// literal division-by-zero and obviously mismatched binary operand types.
// Grounded on original_source/src/semantic.cc's Analysis::analysisStmt,
// adapted to Go's tagged-variant AST instead of a visitor over C++ classes.
package semantic

import (
	"github.com/drift-lang/drift/internal/ast"
	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/token"
)

// Pass holds no state between Program runs; it is re-created per compile.
type Pass struct{}

// New creates a semantic Pass.
func New() *Pass { return &Pass{} }

// Run rewrites prog.Stmts in place and returns the first error found.
func (p *Pass) Run(prog *ast.Program) error {
	for i, s := range prog.Stmts {
		rewritten, err := p.stmt(s)
		if err != nil {
			return err
		}
		prog.Stmts[i] = rewritten
	}
	return nil
}

func (p *Pass) stmt(s ast.Stmt) (ast.Stmt, error) {
	switch st := s.(type) {
	case *ast.WholeStmt:
		return p.whole(st)
	case *ast.Block:
		return p.block(st)
	case *ast.IfStmt:
		return p.ifStmt(st)
	case *ast.ForStmt:
		return p.forStmt(st)
	case *ast.DoStmt:
		if _, err := p.block(st.Body); err != nil {
			return nil, err
		}
		if _, err := p.forStmt(st.Loop); err != nil {
			return nil, err
		}
		return st, nil
	case *ast.FuncStmt:
		if _, err := p.block(st.Body); err != nil {
			return nil, err
		}
		return st, nil
	case *ast.AndStmt:
		if _, err := p.block(st.Body); err != nil {
			return nil, err
		}
		return st, nil
	case *ast.PubStmt:
		inner, err := p.stmt(st.Inner)
		if err != nil {
			return nil, err
		}
		switch inner.(type) {
		case *ast.FuncStmt, *ast.VarStmt, *ast.WholeStmt, *ast.EnumStmt, *ast.InterfaceStmt:
			st.Inner = inner
			return st, nil
		default:
			return nil, exception.New(exception.CannotPublic,
				"only def, func, whole, enum and interface declarations may be published", 0)
		}
	case *ast.ExprStmt:
		if err := p.expr(st.Expr); err != nil {
			return nil, err
		}
		return st, nil
	case *ast.VarStmt:
		if st.Init != nil {
			if err := p.expr(st.Init); err != nil {
				return nil, err
			}
		}
		return st, nil
	default:
		return s, nil
	}
}

func (p *Pass) block(b *ast.Block) (*ast.Block, error) {
	for i, s := range b.Stmts {
		rewritten, err := p.stmt(s)
		if err != nil {
			return nil, err
		}
		b.Stmts[i] = rewritten
	}
	return b, nil
}

func (p *Pass) ifStmt(st *ast.IfStmt) (ast.Stmt, error) {
	if err := p.expr(st.Cond); err != nil {
		return nil, err
	}
	if _, err := p.block(st.Then); err != nil {
		return nil, err
	}
	for i := range st.Efs {
		if err := p.expr(st.Efs[i].Cond); err != nil {
			return nil, err
		}
		if _, err := p.block(st.Efs[i].Block); err != nil {
			return nil, err
		}
	}
	if st.Else != nil {
		if _, err := p.block(st.Else); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (p *Pass) forStmt(st *ast.ForStmt) (ast.Stmt, error) {
	if st.Cond != nil {
		if err := p.expr(st.Cond); err != nil {
			return nil, err
		}
	}
	if _, err := p.block(st.Body); err != nil {
		return nil, err
	}
	return st, nil
}

// whole rewrites a WholeStmt whose body is entirely bare NameExprs (each
// wrapped in an ExprStmt, with no initializer, function, or nested block)
// into an EnumStmt naming those fields in order. Such a whole that also
// inherits, or a body mixing bare names with other members, is an
// Enumeration error.
func (p *Pass) whole(w *ast.WholeStmt) (ast.Stmt, error) {
	fields, ok := bareNameFields(w.Body)
	if ok {
		if len(w.Inherit) > 0 {
			return nil, exception.New(exception.Enumeration, "enumeration "+w.Name+" cannot inherit", 0)
		}
		return &ast.EnumStmt{Name: w.Name, Fields: fields}, nil
	}
	for _, s := range w.Body.Stmts {
		if es, isExpr := s.(*ast.ExprStmt); isExpr {
			if _, isName := es.Expr.(*ast.NameExpr); isName {
				return nil, exception.New(exception.Enumeration, "whole "+w.Name+" mixes enumeration fields with members", 0)
			}
		}
	}
	return p.wholeWithBody(w)
}

func (p *Pass) wholeWithBody(w *ast.WholeStmt) (ast.Stmt, error) {
	if _, err := p.block(w.Body); err != nil {
		return nil, err
	}
	return w, nil
}

func bareNameFields(b *ast.Block) ([]string, bool) {
	if len(b.Stmts) == 0 {
		return nil, false
	}
	var fields []string
	for _, s := range b.Stmts {
		es, ok := s.(*ast.ExprStmt)
		if !ok {
			return nil, false
		}
		ne, ok := es.Expr.(*ast.NameExpr)
		if !ok {
			return nil, false
		}
		fields = append(fields, ne.Token.Literal)
	}
	return fields, true
}

// expr walks expressions looking only for the two shallow checks spec.md
// assigns to this pass: a literal `/0` (DivisionZero) and an operand-type
// mismatch on an arithmetic or ordering operator between a numeric literal
// and a string literal (TypeError). Anything dynamic is left to the VM.
func (p *Pass) expr(e ast.Expr) error {
	switch ex := e.(type) {
	case *ast.BinaryExpr:
		if err := p.expr(ex.Left); err != nil {
			return err
		}
		if err := p.expr(ex.Right); err != nil {
			return err
		}
		return p.checkBinary(ex)
	case *ast.UnaryExpr:
		return p.expr(ex.Operand)
	case *ast.GroupExpr:
		return p.expr(ex.Inner)
	case *ast.CallExpr:
		if err := p.expr(ex.Callee); err != nil {
			return err
		}
		for _, a := range ex.Args {
			if err := p.expr(a); err != nil {
				return err
			}
		}
		return nil
	case *ast.IndexExpr:
		if err := p.expr(ex.Container); err != nil {
			return err
		}
		return p.expr(ex.Index)
	case *ast.AssignExpr:
		return p.expr(ex.Value)
	case *ast.SetExpr:
		return p.expr(ex.Value)
	case *ast.ArrayExpr:
		for _, el := range ex.Elems {
			if err := p.expr(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.TupleExpr:
		for _, el := range ex.Elems {
			if err := p.expr(el); err != nil {
				return err
			}
		}
		return nil
	case *ast.MapExpr:
		for _, pr := range ex.Pairs {
			if err := p.expr(pr.Key); err != nil {
				return err
			}
			if err := p.expr(pr.Value); err != nil {
				return err
			}
		}
		return nil
	case *ast.NewExpr:
		for _, f := range ex.Fields {
			if err := p.expr(f.Value); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (p *Pass) checkBinary(b *ast.BinaryExpr) error {
	left, leftIsLit := b.Left.(*ast.LiteralExpr)
	right, rightIsLit := b.Right.(*ast.LiteralExpr)
	if !leftIsLit || !rightIsLit {
		return nil
	}

	if b.Op.Kind == token.SLASH && right.Value == "0" && right.Token.Kind == token.NUMBER {
		return exception.New(exception.DivisionZero, "division by the literal zero", b.Op.Line)
	}

	switch b.Op.Kind {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.GREATER, token.GREATER_EQ, token.LESS, token.LESS_EQ:
		if isNumericLiteral(left) != isNumericLiteral(right) &&
			left.Token.Kind != token.CHAR && right.Token.Kind != token.CHAR {
			return exception.New(exception.TypeError,
				"mismatched operand types in binary expression", b.Op.Line)
		}
	}
	return nil
}

func isNumericLiteral(l *ast.LiteralExpr) bool {
	return l.Token.Kind == token.NUMBER || l.Token.Kind == token.FLOAT
}
