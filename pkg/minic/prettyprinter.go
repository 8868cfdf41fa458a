package minic

import (
	"strings"
)

// printer accumulates the C-like rendering of an AST. The exact whitespace
// is not contractual; re-scanning and re-parsing the output yields an
// equivalent tree. Literals and type names are printed in a normalised
// spelling (0xFF prints as 255, "signed int" as "int"), so the re-scanned
// tokens do not always equal the original's.
type printer struct {
	sb     strings.Builder
	indent int
}

// PrintStatements renders a statement list as C-like source text.
func PrintStatements(statements StatementList) string {
	p := &printer{}
	for _, s := range statements {
		p.stmt(s)
	}
	return p.sb.String()
}

// PrintExpression renders a single expression.
func PrintExpression(e Expr) string {
	return exprString(e)
}

func (p *printer) line(text string) {
	p.sb.WriteString(strings.Repeat("    ", p.indent))
	p.sb.WriteString(text)
	p.sb.WriteString("\n")
}

func (p *printer) stmt(s Stmt) {
	switch stmt := s.(type) {
	case *Compound:
		p.line("{")
		p.indent++
		for _, inner := range stmt.Statements {
			p.stmt(inner)
		}
		p.indent--
		p.line("}")

	case *ExpressionStmt:
		if stmt.Expression == nil {
			p.line(";")
		} else {
			p.line(exprString(stmt.Expression) + ";")
		}

	case *Print:
		p.line("print " + exprString(stmt.Expression) + ";")

	case *VarDeclaration:
		p.line(declarationString(stmt))

	case *If:
		p.header("if ("+exprString(stmt.Cond)+")", stmt.Then)
		if stmt.Else != nil {
			p.header("else", stmt.Else)
		}

	case *While:
		p.header("while ("+exprString(stmt.Cond)+")", stmt.Body)

	case *Do:
		p.header("do", stmt.Body)
		p.line("while (" + exprString(stmt.Cond) + ");")

	case *For:
		init := ";"
		if stmt.Init != nil {
			init = inlineStatementString(stmt.Init)
		}
		cond := ""
		if stmt.Cond != nil {
			cond = " " + exprString(stmt.Cond)
		}
		step := ""
		if stmt.Step != nil {
			step = " " + exprString(stmt.Step)
		}
		p.header("for ("+init+cond+";"+step+")", stmt.Body)

	case *Switch:
		p.header("switch ("+exprString(stmt.Cond)+")", stmt.Body)

	case *Labelled:
		if stmt.Value != nil {
			p.line("case " + exprString(stmt.Value) + ":")
		} else {
			p.line("default:")
		}
		p.indent++
		p.stmt(stmt.Body)
		p.indent--

	case *BreakStmt:
		p.line("break;")

	case *ContinueStmt:
		p.line("continue;")
	}
}

// header renders a statement introduced by a header such as "if (...)",
// putting a compound body's braces on the header line.
func (p *printer) header(header string, body Stmt) {
	if compound, ok := body.(*Compound); ok {
		p.line(header + " {")
		p.indent++
		for _, inner := range compound.Statements {
			p.stmt(inner)
		}
		p.indent--
		p.line("}")
		return
	}
	p.line(header)
	p.indent++
	p.stmt(body)
	p.indent--
}

// inlineStatementString renders a declaration or expression statement
// without indentation, for a for loop's initialiser clause.
func inlineStatementString(s Stmt) string {
	switch stmt := s.(type) {
	case *VarDeclaration:
		return declarationString(stmt)
	case *ExpressionStmt:
		if stmt.Expression == nil {
			return ";"
		}
		return exprString(stmt.Expression) + ";"
	}
	return ";"
}

func declarationString(stmt *VarDeclaration) string {
	var sb strings.Builder
	if stmt.IsConst {
		sb.WriteString("const ")
	}
	sb.WriteString(sourceTypeName(stmt.Type))
	sb.WriteString(" ")
	for i, d := range stmt.Declarators {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(d.Name.Lexeme)
		if d.Init != nil {
			sb.WriteString(" = ")
			sb.WriteString(exprString(d.Init))
		}
	}
	sb.WriteString(";")
	return sb.String()
}

// sourceSpellings maps each numeric type back to a source spelling the
// scanner recognises.
var sourceSpellings = [numTypeIDs]string{
	TypeBool:   "bool",
	TypeInt8:   "char",
	TypeUint8:  "unsigned char",
	TypeInt16:  "short",
	TypeUint16: "unsigned short",
	TypeInt32:  "int",
	TypeUint32: "unsigned int",
	TypeFloat:  "float",
	TypeDouble: "double",
}

func sourceTypeName(t Type) string {
	switch typ := t.(type) {
	case *Numeric:
		return sourceSpellings[typ.ID]
	case *Pointer:
		return sourceSpellings[typ.Value.ID] + "*"
	}
	return t.TypeName()
}

// literalSource renders a literal payload so a re-scan reproduces the same
// payload variant: float literals keep their point and suffix, integer
// suffixes restore width and signedness.
func literalSource(v LiteralValue) string {
	switch v.Tag {
	case LitBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case LitFloat:
		return ensurePoint(v.String()) + "f"
	case LitDouble:
		return ensurePoint(v.String())
	case LitUint32:
		return v.String() + "u"
	case LitUint64:
		return v.String() + "ul"
	case LitInt64:
		return v.String() + "l"
	default:
		return v.String()
	}
}

// ensurePoint forces a decimal point into an integral-looking float
// rendering so it scans as a float again.
func ensurePoint(text string) string {
	if strings.ContainsAny(text, ".eE") {
		return text
	}
	return text + ".0"
}

func exprString(e Expr) string {
	switch expr := e.(type) {
	case *Literal:
		return literalSource(expr.Value)

	case *Variable:
		return expr.Name.Lexeme

	case *Grouping:
		return "(" + exprString(expr.Expression) + ")"

	case *Unary:
		operand := exprString(expr.Right)
		// Keep -(-x) from collapsing into the -- token
		if strings.HasPrefix(operand, expr.Op.Lexeme) {
			return expr.Op.Lexeme + " " + operand
		}
		return expr.Op.Lexeme + operand

	case *Binary:
		return exprString(expr.Left) + " " + expr.Op.Lexeme + " " + exprString(expr.Right)

	case *Logical:
		return exprString(expr.Left) + " " + expr.Op.Lexeme + " " + exprString(expr.Right)

	case *Conditional:
		return exprString(expr.Cond) + " ? " + exprString(expr.Then) + " : " + exprString(expr.Else)

	case *Assignment:
		return expr.Name.Lexeme + " " + expr.Op.Lexeme + " " + exprString(expr.Value)

	case *Call:
		args := make([]string, len(expr.Args))
		for i, a := range expr.Args {
			args[i] = exprString(a)
		}
		return exprString(expr.Callee) + "(" + strings.Join(args, ", ") + ")"

	case *Cast:
		typeName := sourceTypeName(expr.Target)
		if expr.IsConst {
			typeName = "const " + typeName
		}
		return "(" + typeName + ")" + exprString(expr.Expr)

	case *PrefixIncDec:
		return expr.Op.Lexeme + expr.Name.Lexeme

	case *PostfixIncDec:
		return expr.Name.Lexeme + expr.Op.Lexeme

	case *ArraySubscript:
		return expr.Name.Lexeme + "[" + exprString(expr.Index) + "]"
	}
	return ""
}
