package minic

import (
	"fmt"
	"strings"
)

//  Expression nodes

// Expr is implemented by every node that produces a value.
type Expr interface {
	exprNode()
	String() string
}

// Literal is a compile-time constant with a typed payload.
//
//	int x = 10;
//	         ^^  Literal{Value: (int32_t)10}
type Literal struct {
	Value LiteralValue
}

func (*Literal) exprNode()        {}
func (l *Literal) String() string { return l.Value.String() }

// Variable is a read of a named binding.
type Variable struct {
	Name Token
}

func (*Variable) exprNode()        {}
func (v *Variable) String() string { return v.Name.Lexeme }

// Grouping is a parenthesised sub-expression, kept explicit so the pretty
// printer can reproduce the source shape.
type Grouping struct {
	Expression Expr
}

func (*Grouping) exprNode()        {}
func (g *Grouping) String() string { return fmt.Sprintf("(group %s)", g.Expression) }

// Unary represents Op Right (e.g. -x, ~mask, *p, &v).
type Unary struct {
	Op    Token
	Right Expr
}

func (*Unary) exprNode()        {}
func (u *Unary) String() string { return fmt.Sprintf("(%s %s)", u.Op.Lexeme, u.Right) }

// Binary represents Left Op Right for every operator that evaluates both
// sides unconditionally, including the comma operator.
type Binary struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (*Binary) exprNode() {}
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Op.Lexeme, b.Left, b.Right)
}

// Logical represents Left && Right or Left || Right. It is separate from
// Binary because the right operand is only evaluated when needed.
type Logical struct {
	Left  Expr
	Op    Token
	Right Expr
}

func (*Logical) exprNode() {}
func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Op.Lexeme, l.Left, l.Right)
}

// Conditional represents Cond ? Then : Else.
type Conditional struct {
	Cond     Expr
	Then     Expr
	Else     Expr
	Question Token
}

func (*Conditional) exprNode() {}
func (c *Conditional) String() string {
	return fmt.Sprintf("(?: %s %s %s)", c.Cond, c.Then, c.Else)
}

// Assignment represents Name Op Value where Op is = or a compound-assign
// operator.
type Assignment struct {
	Name  Token
	Op    Token
	Value Expr
}

func (*Assignment) exprNode() {}
func (a *Assignment) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Op.Lexeme, a.Name.Lexeme, a.Value)
}

// Call represents Callee(Args...). ClosingParen carries the line used in
// arity diagnostics.
type Call struct {
	Callee       Expr
	ClosingParen Token
	Args         []Expr
}

func (*Call) exprNode() {}
func (c *Call) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("(call %s [%s])", c.Callee, strings.Join(args, ", "))
}

// Cast represents (Target)Expr, optionally with a const qualifier in the
// type name.
type Cast struct {
	Target  Type
	IsConst bool
	Expr    Expr
}

func (*Cast) exprNode() {}
func (c *Cast) String() string {
	if c.IsConst {
		return fmt.Sprintf("(cast const %s %s)", c.Target.TypeName(), c.Expr)
	}
	return fmt.Sprintf("(cast %s %s)", c.Target.TypeName(), c.Expr)
}

// PrefixIncDec represents ++Name or --Name.
type PrefixIncDec struct {
	Name Token
	Op   Token
}

func (*PrefixIncDec) exprNode() {}
func (p *PrefixIncDec) String() string {
	return fmt.Sprintf("(%s%s)", p.Op.Lexeme, p.Name.Lexeme)
}

// PostfixIncDec represents Name++ or Name--.
type PostfixIncDec struct {
	Name Token
	Op   Token
}

func (*PostfixIncDec) exprNode() {}
func (p *PostfixIncDec) String() string {
	return fmt.Sprintf("(%s%s)", p.Name.Lexeme, p.Op.Lexeme)
}

// ArraySubscript represents Name[Index] where Name must be bound to a
// pointer type.
type ArraySubscript struct {
	Name  Token
	Index Expr
}

func (*ArraySubscript) exprNode() {}
func (a *ArraySubscript) String() string {
	return fmt.Sprintf("(%s[%s])", a.Name.Lexeme, a.Index)
}

//  Statement nodes

// Stmt is implemented by every node that does not produce a value.
type Stmt interface {
	stmtNode()
	String() string
}

// StatementList is the parser's output for a whole program.
type StatementList []Stmt

// Compound represents { statement; ... } and introduces a lexical scope.
type Compound struct {
	Statements StatementList
}

func (*Compound) stmtNode()        {}
func (c *Compound) String() string { return fmt.Sprintf("Compound(len=%d)", len(c.Statements)) }

// ExpressionStmt represents an expression evaluated for its side effects.
type ExpressionStmt struct {
	Expression Expr
}

func (*ExpressionStmt) stmtNode()        {}
func (e *ExpressionStmt) String() string { return fmt.Sprintf("ExpressionStmt(%s)", e.Expression) }

// Print represents  print expr;
type Print struct {
	Expression Expr
}

func (*Print) stmtNode()        {}
func (p *Print) String() string { return fmt.Sprintf("Print(%s)", p.Expression) }

// Declarator is one name = initialiser pair of a declaration; Init may be
// nil.
type Declarator struct {
	Name Token
	Init Expr
}

// VarDeclaration represents  const int x = 1, y;
type VarDeclaration struct {
	Type        Type
	IsConst     bool
	Declarators []Declarator
}

func (*VarDeclaration) stmtNode() {}
func (d *VarDeclaration) String() string {
	names := make([]string, len(d.Declarators))
	for i, dec := range d.Declarators {
		if dec.Init != nil {
			names[i] = fmt.Sprintf("%s = %s", dec.Name.Lexeme, dec.Init)
		} else {
			names[i] = dec.Name.Lexeme
		}
	}
	typeStr := d.Type.TypeName()
	if d.IsConst {
		typeStr = "const " + typeStr
	}
	return fmt.Sprintf("VarDeclaration(%s %s)", typeStr, strings.Join(names, ", "))
}

// If represents if (Cond) Then [else Else]; Else may be nil.
type If struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*If) stmtNode() {}
func (i *If) String() string {
	if i.Else != nil {
		return fmt.Sprintf("If(%s then %s else %s)", i.Cond, i.Then, i.Else)
	}
	return fmt.Sprintf("If(%s then %s)", i.Cond, i.Then)
}

// While represents while (Cond) Body.
type While struct {
	Cond Expr
	Body Stmt
}

func (*While) stmtNode()        {}
func (w *While) String() string { return fmt.Sprintf("While(%s do %s)", w.Cond, w.Body) }

// Do represents do Body while (Cond);
type Do struct {
	Cond Expr
	Body Stmt
}

func (*Do) stmtNode()        {}
func (d *Do) String() string { return fmt.Sprintf("Do(%s while %s)", d.Body, d.Cond) }

// For represents for (Init; Cond; Step) Body. Init may be nil or a
// declaration or expression statement; Cond and Step may be nil.
type For struct {
	Init Stmt
	Cond Expr
	Step Expr
	Body Stmt
}

func (*For) stmtNode() {}
func (f *For) String() string {
	return fmt.Sprintf("For(init=%v, cond=%v, step=%v, body=%s)", f.Init, f.Cond, f.Step, f.Body)
}

// Switch represents switch (Cond) Body. Keyword carries the line for
// diagnostics.
type Switch struct {
	Keyword Token
	Cond    Expr
	Body    Stmt
}

func (*Switch) stmtNode()        {}
func (s *Switch) String() string { return fmt.Sprintf("Switch(%s %s)", s.Cond, s.Body) }

// Labelled represents "case Value: Body" or, with a nil Value, "default:
// Body".
type Labelled struct {
	Keyword Token
	Value   Expr // nil for default
	Body    Stmt
}

func (*Labelled) stmtNode() {}
func (l *Labelled) String() string {
	if l.Value != nil {
		return fmt.Sprintf("Case(%s: %s)", l.Value, l.Body)
	}
	return fmt.Sprintf("Default(%s)", l.Body)
}

// BreakStmt represents break;
type BreakStmt struct {
	Keyword Token
}

func (*BreakStmt) stmtNode()        {}
func (s *BreakStmt) String() string { return "Break" }

// ContinueStmt represents continue;
type ContinueStmt struct {
	Keyword Token
}

func (*ContinueStmt) stmtNode()        {}
func (s *ContinueStmt) String() string { return "Continue" }
