package minic

import (
	"fmt"
)

// checkFailure is the sentinel panic payload used to abandon a statement
// whose expression types have become unusable. It is recovered at the next
// statement boundary so diagnostics for later statements are still
// collected.
type checkFailure struct{}

// TypeChecker verifies that every operation in the tree is well typed,
// reporting problems through the error handler. It computes and validates
// types only; no conversion nodes are inserted.
type TypeChecker struct {
	env      *TypeEnvironment
	errors   ErrorHandler
	inLoop   bool
	inSwitch bool
}

// TypeCheck checks statements against the bindings in env. Hosts pre-load
// env with foreign functions and externally provided variables.
func TypeCheck(statements StatementList, env *TypeEnvironment, errors ErrorHandler) {
	c := &TypeChecker{env: env, errors: errors}
	for _, s := range statements {
		c.checkStatement(s)
	}
}

// TypeCheckExpression checks a bare expression and returns its type, or nil
// after a reported error.
func TypeCheckExpression(expr Expr, env *TypeEnvironment, errors ErrorHandler) Type {
	c := &TypeChecker{env: env, errors: errors}
	var result Type
	func() {
		defer c.recoverFailure()
		result, _ = c.exprType(expr)
	}()
	return result
}

func (c *TypeChecker) recoverFailure() {
	if r := recover(); r != nil {
		if _, ok := r.(checkFailure); !ok {
			panic(r)
		}
	}
}

// checkStatement checks one statement, absorbing a hard failure so the
// remaining statements still get checked.
func (c *TypeChecker) checkStatement(s Stmt) {
	defer c.recoverFailure()
	c.stmt(s)
}

// fail reports an error pinned to a token and abandons the current
// statement.
func (c *TypeChecker) fail(tok Token, message string) {
	c.errors.ErrorAt(tok, message)
	panic(checkFailure{})
}

// checkBlock checks a statement list in the given scope.
func (c *TypeChecker) checkBlock(statements StatementList, env *TypeEnvironment) {
	previous := c.env
	c.env = env
	for _, s := range statements {
		c.checkStatement(s)
	}
	c.env = previous
}

//  Expressions

// exprType computes an expression's type and constness.
func (c *TypeChecker) exprType(e Expr) (Type, bool) {
	switch expr := e.(type) {
	case *Literal:
		t := NumericFromLiteral(expr.Value.Tag)
		if t == nil {
			c.errors.Error(0, "Literal carries no value")
			panic(checkFailure{})
		}
		return t, false

	case *Variable:
		t, isConst, err := c.env.GetType(expr.Name)
		if err != nil {
			c.fail(expr.Name, err.Error())
		}
		return t, isConst

	case *Grouping:
		return c.exprType(expr.Expression)

	case *Unary:
		return c.unaryType(expr)

	case *Binary:
		return c.binaryType(expr)

	case *Logical:
		c.numericOperand(expr.Left, expr.Op)
		c.numericOperand(expr.Right, expr.Op)
		return GetNumeric(TypeInt32), false

	case *Conditional:
		c.exprType(expr.Cond)
		trueType, trueConst := c.exprType(expr.Then)
		falseType, falseConst := c.exprType(expr.Else)
		trueNumeric, trueOk := trueType.(*Numeric)
		falseNumeric, falseOk := falseType.(*Numeric)
		if !trueOk || !falseOk {
			c.fail(expr.Question, fmt.Sprintf("Invalid operand types '%s' and '%s' to conditional",
				trueType.TypeName(), falseType.TypeName()))
		}
		return CommonType(trueNumeric, falseNumeric), trueConst || falseConst

	case *Assignment:
		valueType, valueConst := c.exprType(expr.Value)
		t, err := c.env.AssignType(expr.Name, valueType, valueConst, expr.Op.Type)
		if err != nil {
			c.fail(expr.Name, err.Error())
		}
		return t, false

	case *Call:
		return c.callType(expr)

	case *Cast:
		operandType, _ := c.exprType(expr.Expr)
		_, targetIsNumeric := expr.Target.(*Numeric)
		_, operandIsNumeric := operandType.(*Numeric)
		_, targetIsPtr := expr.Target.(*Pointer)
		_, operandIsPtr := operandType.(*Pointer)
		if (targetIsNumeric && !operandIsNumeric) || (targetIsPtr && !operandIsPtr) {
			c.failExpr(expr.Expr, fmt.Sprintf("Invalid cast from '%s' to '%s'",
				operandType.TypeName(), expr.Target.TypeName()))
		}
		return expr.Target, expr.IsConst

	case *ArraySubscript:
		t, _, err := c.env.GetType(expr.Name)
		if err != nil {
			c.fail(expr.Name, err.Error())
		}
		ptr, ok := t.(*Pointer)
		if !ok {
			c.fail(expr.Name, fmt.Sprintf("Subscripted value '%s' is not a pointer", expr.Name.Lexeme))
		}
		indexType, _ := c.exprType(expr.Index)
		if n, ok := indexType.(*Numeric); !ok || !n.Integral {
			c.fail(expr.Name, "Array subscript is not an integer")
		}
		return ptr.Value, false

	case *PrefixIncDec:
		t, err := c.env.IncDecType(expr.Name)
		if err != nil {
			c.fail(expr.Name, err.Error())
		}
		return t, false

	case *PostfixIncDec:
		t, err := c.env.IncDecType(expr.Name)
		if err != nil {
			c.fail(expr.Name, err.Error())
		}
		return t, false
	}

	c.errors.Error(0, "Unexpected expression")
	panic(checkFailure{})
}

// failExpr reports an error located as well as the expression allows.
func (c *TypeChecker) failExpr(e Expr, message string) {
	if v, ok := unwrapGroupings(e).(*Variable); ok {
		c.fail(v.Name, message)
	}
	c.errors.Error(0, message)
	panic(checkFailure{})
}

// numericOperand checks an operand and requires a numeric type.
func (c *TypeChecker) numericOperand(e Expr, op Token) *Numeric {
	t, _ := c.exprType(e)
	n, ok := t.(*Numeric)
	if !ok {
		c.fail(op, fmt.Sprintf("Invalid operand type '%s' to '%s'", t.TypeName(), op.Lexeme))
	}
	return n
}

func (c *TypeChecker) unaryType(expr *Unary) (Type, bool) {
	rightType, rightConst := c.exprType(expr.Right)

	switch expr.Op.Type {
	case PLUS, MINUS:
		n, ok := rightType.(*Numeric)
		if !ok {
			c.fail(expr.Op, fmt.Sprintf("Invalid operand type '%s' to unary '%s'", rightType.TypeName(), expr.Op.Lexeme))
		}
		return Promote(n), false

	case TILDE:
		n, ok := rightType.(*Numeric)
		if !ok || !n.Integral {
			c.fail(expr.Op, fmt.Sprintf("Bitwise complement does not support type '%s'", rightType.TypeName()))
		}
		return Promote(n), false

	case NOT:
		if _, ok := rightType.(*Numeric); !ok {
			c.fail(expr.Op, fmt.Sprintf("Invalid operand type '%s' to unary '!'", rightType.TypeName()))
		}
		return GetNumeric(TypeInt32), false

	case STAR:
		ptr, ok := rightType.(*Pointer)
		if !ok {
			c.fail(expr.Op, fmt.Sprintf("Invalid operand type '%s' to unary '*'", rightType.TypeName()))
		}
		return ptr.Value, false

	case AMPERSAND:
		n, ok := rightType.(*Numeric)
		if !ok {
			c.fail(expr.Op, fmt.Sprintf("Invalid operand type '%s' to unary '&'", rightType.TypeName()))
		}
		return PointerTo(n), rightConst
	}

	c.fail(expr.Op, "Unsupported unary operator")
	return nil, false
}

func (c *TypeChecker) binaryType(expr *Binary) (Type, bool) {
	op := expr.Op.Type

	// The comma operator takes the right operand's type
	if op == COMMA {
		c.exprType(expr.Left)
		return c.exprType(expr.Right)
	}

	leftType, _ := c.exprType(expr.Left)
	rightType, _ := c.exprType(expr.Right)

	leftPtr, leftIsPtr := leftType.(*Pointer)
	rightPtr, rightIsPtr := rightType.(*Pointer)
	leftNumeric, leftIsNumeric := leftType.(*Numeric)
	rightNumeric, rightIsNumeric := rightType.(*Numeric)

	// Pointer arithmetic
	if leftIsPtr && rightIsPtr {
		if op == MINUS && leftPtr.Value == rightPtr.Value {
			return GetNumeric(TypeInt32), false
		}
		c.fail(expr.Op, fmt.Sprintf("Invalid operand types '%s' and '%s' to binary '%s'",
			leftType.TypeName(), rightType.TypeName(), expr.Op.Lexeme))
	}
	if leftIsPtr {
		if (op == PLUS || op == MINUS) && rightIsNumeric && rightNumeric.Integral {
			return leftPtr, false
		}
		c.fail(expr.Op, fmt.Sprintf("Invalid operand types '%s' and '%s' to binary '%s'",
			leftType.TypeName(), rightType.TypeName(), expr.Op.Lexeme))
	}
	if rightIsPtr {
		if op == PLUS && leftIsNumeric && leftNumeric.Integral {
			return rightPtr, false
		}
		c.fail(expr.Op, fmt.Sprintf("Invalid operand types '%s' and '%s' to binary '%s'",
			leftType.TypeName(), rightType.TypeName(), expr.Op.Lexeme))
	}

	if !leftIsNumeric || !rightIsNumeric {
		c.fail(expr.Op, fmt.Sprintf("Invalid operand types '%s' and '%s' to binary '%s'",
			leftType.TypeName(), rightType.TypeName(), expr.Op.Lexeme))
	}

	// Integer-only operators; shifts take the promoted left operand's type
	if integerOnlyOps[op] {
		if !leftNumeric.Integral || !rightNumeric.Integral {
			c.fail(expr.Op, fmt.Sprintf("Invalid operand types '%s' and '%s' to binary '%s'",
				leftNumeric.Name, rightNumeric.Name, expr.Op.Lexeme))
		}
		if op == SHIFT_LEFT || op == SHIFT_RIGHT {
			return Promote(leftNumeric), false
		}
	}

	return CommonType(leftNumeric, rightNumeric), false
}

func (c *TypeChecker) callType(expr *Call) (Type, bool) {
	calleeType, _ := c.exprType(expr.Callee)
	fn, ok := calleeType.(*ForeignFunction)
	if !ok {
		c.fail(expr.ClosingParen, "Called object is not a function")
	}

	for _, arg := range expr.Args {
		c.exprType(arg)
	}

	if !fn.Variadic() && len(expr.Args) != len(fn.Args) {
		c.fail(expr.ClosingParen, fmt.Sprintf("Expected %d arguments but got %d", len(fn.Args), len(expr.Args)))
	}
	return fn.Return, false
}

//  Statements

func (c *TypeChecker) stmt(s Stmt) {
	switch stmt := s.(type) {
	case *Compound:
		c.checkBlock(stmt.Statements, NewTypeEnvironment(c.env))

	case *ExpressionStmt:
		if stmt.Expression != nil {
			c.exprType(stmt.Expression)
		}

	case *Print:
		c.exprType(stmt.Expression)

	case *VarDeclaration:
		c.varDeclaration(stmt)

	case *If:
		c.exprType(stmt.Cond)
		c.checkStatement(stmt.Then)
		if stmt.Else != nil {
			c.checkStatement(stmt.Else)
		}

	case *While:
		c.exprType(stmt.Cond)
		c.loopBody(stmt.Body)

	case *Do:
		c.loopBody(stmt.Body)
		c.exprType(stmt.Cond)

	case *For:
		// The initialiser's scope encloses the condition, step and body
		previous := c.env
		c.env = NewTypeEnvironment(previous)
		if stmt.Init != nil {
			c.checkStatement(stmt.Init)
		}
		if stmt.Cond != nil {
			c.exprType(stmt.Cond)
		}
		if stmt.Step != nil {
			c.exprType(stmt.Step)
		}
		c.loopBody(stmt.Body)
		c.env = previous

	case *Switch:
		condType, _ := c.exprType(stmt.Cond)
		if n, ok := condType.(*Numeric); !ok || !n.Integral {
			c.fail(stmt.Keyword, fmt.Sprintf("Switch quantity '%s' is not an integer", condType.TypeName()))
		}
		if _, ok := stmt.Body.(*Compound); !ok {
			c.fail(stmt.Keyword, "Switch body must be a compound statement")
		}
		previousSwitch := c.inSwitch
		c.inSwitch = true
		c.checkStatement(stmt.Body)
		c.inSwitch = previousSwitch

	case *Labelled:
		if !c.inSwitch {
			c.fail(stmt.Keyword, fmt.Sprintf("'%s' label outside switch statement", stmt.Keyword.Lexeme))
		}
		if stmt.Value != nil {
			valueType, _ := c.exprType(stmt.Value)
			if n, ok := valueType.(*Numeric); !ok || !n.Integral {
				c.fail(stmt.Keyword, fmt.Sprintf("Case value '%s' is not an integer", valueType.TypeName()))
			}
		}
		c.checkStatement(stmt.Body)

	case *BreakStmt:
		if !c.inLoop && !c.inSwitch {
			c.fail(stmt.Keyword, "Break statement not within loop or switch")
		}

	case *ContinueStmt:
		if !c.inLoop {
			c.fail(stmt.Keyword, "Continue statement not within a loop")
		}
	}
}

// loopBody checks a loop body with the in-loop flag raised.
func (c *TypeChecker) loopBody(body Stmt) {
	previous := c.inLoop
	c.inLoop = true
	c.checkStatement(body)
	c.inLoop = previous
}

// varDeclaration defines each declarator, validating its initialiser against
// the declared type with the same rules assignment uses.
func (c *TypeChecker) varDeclaration(stmt *VarDeclaration) {
	declPtr, declIsPtr := stmt.Type.(*Pointer)
	for _, d := range stmt.Declarators {
		if d.Init != nil {
			initType, initConst := c.exprType(d.Init)
			initPtr, initIsPtr := initType.(*Pointer)
			_, initIsNumeric := initType.(*Numeric)
			if declIsPtr != initIsPtr {
				c.fail(d.Name, fmt.Sprintf("Invalid conversion from '%s' to '%s'",
					initType.TypeName(), stmt.Type.TypeName()))
			}
			if declIsPtr {
				if declPtr.Value != initPtr.Value {
					c.fail(d.Name, fmt.Sprintf("Invalid conversion from '%s' to '%s'",
						initType.TypeName(), stmt.Type.TypeName()))
				}
				// A const pointer value cannot seed a non-const binding
				if initConst && !stmt.IsConst {
					c.fail(d.Name, fmt.Sprintf("Invalid conversion from const '%s'", initType.TypeName()))
				}
			} else if !initIsNumeric {
				c.fail(d.Name, fmt.Sprintf("Invalid conversion from '%s' to '%s'",
					initType.TypeName(), stmt.Type.TypeName()))
			}
		}
		if err := c.env.Define(d.Name, stmt.Type, stmt.IsConst); err != nil {
			c.fail(d.Name, err.Error())
		}
	}
}
