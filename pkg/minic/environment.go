package minic

import (
	"fmt"
)

//  Typing environment

type typeBinding struct {
	typ     Type
	isConst bool
}

// TypeEnvironment is a lexically scoped map from identifier to declared type
// and constness. Enclosing scopes are searched when a name is not bound
// locally.
type TypeEnvironment struct {
	enclosing *TypeEnvironment
	types     map[string]typeBinding
}

func NewTypeEnvironment(enclosing *TypeEnvironment) *TypeEnvironment {
	return &TypeEnvironment{enclosing: enclosing, types: make(map[string]typeBinding)}
}

// Define binds a declared variable in this scope; redeclaring a name bound
// at the same level is an error.
func (e *TypeEnvironment) Define(name Token, typ Type, isConst bool) error {
	if _, ok := e.types[name.Lexeme]; ok {
		return fmt.Errorf("Redeclaration of '%s'", name.Lexeme)
	}
	e.types[name.Lexeme] = typeBinding{typ: typ, isConst: isConst}
	return nil
}

// DefineName binds a host-registered name (variable or foreign function)
// without a source token.
func (e *TypeEnvironment) DefineName(name string, typ Type, isConst bool) error {
	if _, ok := e.types[name]; ok {
		return fmt.Errorf("Redeclaration of '%s'", name)
	}
	e.types[name] = typeBinding{typ: typ, isConst: isConst}
	return nil
}

// GetType resolves a name to its declared type and constness, walking
// outward through enclosing scopes.
func (e *TypeEnvironment) GetType(name Token) (Type, bool, error) {
	if binding, ok := e.types[name.Lexeme]; ok {
		return binding.typ, binding.isConst, nil
	}
	if e.enclosing != nil {
		return e.enclosing.GetType(name)
	}
	return nil, false, fmt.Errorf("Undefined variable '%s'", name.Lexeme)
}

// AssignType validates an assignment (plain or compound) against the
// target's binding and returns the binding's type. All operator and operand
// compatibility checking for assignment expressions lives here; declaration
// initialisers are checked separately by the type checker.
func (e *TypeEnvironment) AssignType(name Token, valueType Type, valueConst bool, op TokenType) (Type, error) {
	binding, ok := e.types[name.Lexeme]
	if !ok {
		if e.enclosing != nil {
			return e.enclosing.AssignType(name, valueType, valueConst, op)
		}
		return nil, fmt.Errorf("Undefined variable '%s'", name.Lexeme)
	}

	if binding.isConst {
		return nil, fmt.Errorf("Assignment of read-only variable '%s'", name.Lexeme)
	}

	targetNumeric, targetIsNumeric := binding.typ.(*Numeric)
	valueNum, valueIsNumeric := valueType.(*Numeric)

	if op == EQUAL {
		if targetIsNumeric && valueIsNumeric {
			return binding.typ, nil
		}

		targetPtr, targetIsPtr := binding.typ.(*Pointer)
		valuePtr, valueIsPtr := valueType.(*Pointer)
		if targetIsPtr && valueIsPtr {
			if targetPtr.Value != valuePtr.Value {
				return nil, fmt.Errorf("Invalid conversion from '%s' to '%s'", valueType.TypeName(), binding.typ.TypeName())
			}
			// A const pointer value cannot flow into a non-const binding
			if valueConst {
				return nil, fmt.Errorf("Invalid conversion from const '%s'", valueType.TypeName())
			}
			return binding.typ, nil
		}
		return nil, fmt.Errorf("Invalid operand types '%s' and '%s' to assignment", binding.typ.TypeName(), valueType.TypeName())
	}

	// Compound assignment: numeric on both sides, integral on both sides
	// for the integer-only operators
	binOp, ok := assignOpBinary[op]
	if !ok {
		return nil, fmt.Errorf("Unsupported assignment operator '%s'", op)
	}
	if !targetIsNumeric || !valueIsNumeric {
		return nil, fmt.Errorf("Invalid operand types '%s' and '%s' to assignment", binding.typ.TypeName(), valueType.TypeName())
	}
	if integerOnlyOps[binOp] && (!targetNumeric.Integral || !valueNum.Integral) {
		return nil, fmt.Errorf("Invalid operand types '%s' and '%s' to binary '%s'", targetNumeric.Name, valueNum.Name, binOp)
	}
	return binding.typ, nil
}

// IncDecType validates a prefix or postfix increment/decrement of a binding
// and returns the binding's type.
func (e *TypeEnvironment) IncDecType(name Token) (Type, error) {
	binding, ok := e.types[name.Lexeme]
	if !ok {
		if e.enclosing != nil {
			return e.enclosing.IncDecType(name)
		}
		return nil, fmt.Errorf("Undefined variable '%s'", name.Lexeme)
	}
	if binding.isConst {
		return nil, fmt.Errorf("Increment/decrement of read-only variable '%s'", name.Lexeme)
	}
	if _, ok := binding.typ.(*Numeric); !ok {
		return nil, fmt.Errorf("Invalid operand type '%s' to increment/decrement", binding.typ.TypeName())
	}
	return binding.typ, nil
}

//  Runtime environment

// Callable is a host-supplied function registered into the runtime
// environment. Arity returns false when the callable is variadic.
type Callable interface {
	Arity() (int, bool)
	Invoke(args []LiteralValue) (LiteralValue, error)
}

// foreignCallable adapts a Go function to the Callable interface.
type foreignCallable struct {
	arity    int
	variadic bool
	fn       func(args []LiteralValue) (LiteralValue, error)
}

func (c *foreignCallable) Arity() (int, bool) {
	return c.arity, !c.variadic
}

func (c *foreignCallable) Invoke(args []LiteralValue) (LiteralValue, error) {
	return c.fn(args)
}

// NewCallable wraps fn as a fixed-arity callable.
func NewCallable(arity int, fn func(args []LiteralValue) (LiteralValue, error)) Callable {
	return &foreignCallable{arity: arity, fn: fn}
}

// NewVariadicCallable wraps fn as a callable accepting any argument count.
func NewVariadicCallable(fn func(args []LiteralValue) (LiteralValue, error)) Callable {
	return &foreignCallable{variadic: true, fn: fn}
}

// runtimeBinding stores either a scalar value or a callable, never both.
type runtimeBinding struct {
	value    LiteralValue
	callable Callable
}

// Environment is the runtime counterpart of TypeEnvironment: the same scope
// chain shape, holding values and callables instead of types.
type Environment struct {
	enclosing *Environment
	values    map[string]*runtimeBinding
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{enclosing: enclosing, values: make(map[string]*runtimeBinding)}
}

// Define binds a declared variable in this scope. An absent initialiser is
// represented by the none value.
func (e *Environment) Define(name Token, value LiteralValue) error {
	if _, ok := e.values[name.Lexeme]; ok {
		return fmt.Errorf("Redeclaration of '%s' at line %d", name.Lexeme, name.Line)
	}
	e.values[name.Lexeme] = &runtimeBinding{value: value}
	return nil
}

// DefineValue binds a host-supplied scalar under a chosen name.
func (e *Environment) DefineValue(name string, value LiteralValue) error {
	if _, ok := e.values[name]; ok {
		return fmt.Errorf("Redeclaration of '%s'", name)
	}
	e.values[name] = &runtimeBinding{value: value}
	return nil
}

// DefineCallable binds a host-supplied callable under a chosen name.
func (e *Environment) DefineCallable(name string, callable Callable) error {
	if _, ok := e.values[name]; ok {
		return fmt.Errorf("Redeclaration of '%s'", name)
	}
	e.values[name] = &runtimeBinding{callable: callable}
	return nil
}

// lookup walks the scope chain for a binding.
func (e *Environment) lookup(name Token) (*runtimeBinding, error) {
	if binding, ok := e.values[name.Lexeme]; ok {
		return binding, nil
	}
	if e.enclosing != nil {
		return e.enclosing.lookup(name)
	}
	return nil, fmt.Errorf("Undefined variable '%s' at line %d", name.Lexeme, name.Line)
}

// Get returns the scalar value or callable bound to name.
func (e *Environment) Get(name Token) (LiteralValue, Callable, error) {
	binding, err := e.lookup(name)
	if err != nil {
		return NoneValue(), nil, err
	}
	return binding.value, binding.callable, nil
}

// Assign applies a plain or compound assignment to whichever scope owns the
// binding and returns the stored result. A compound assignment of an
// uninitialised binding is a fault; plain '=' installs the right hand side.
func (e *Environment) Assign(name Token, value LiteralValue, op TokenType) (LiteralValue, error) {
	binding, err := e.lookup(name)
	if err != nil {
		return NoneValue(), err
	}

	if op == EQUAL {
		binding.value = value
		return value, nil
	}

	binOp, ok := assignOpBinary[op]
	if !ok {
		return NoneValue(), fmt.Errorf("Unsupported assignment operation")
	}
	if binding.value.IsNone() {
		return NoneValue(), fmt.Errorf("Invalid assignment operand")
	}
	newValue, err := applyBinary(binOp, binding.value, value)
	if err != nil {
		return NoneValue(), err
	}
	binding.value = newValue
	return newValue, nil
}

// incDecDelta returns the literal added by an increment or decrement.
func incDecDelta(op TokenType) (LiteralValue, error) {
	switch op {
	case PLUS_PLUS:
		return Int32Value(1), nil
	case MINUS_MINUS:
		return Int32Value(-1), nil
	}
	return NoneValue(), fmt.Errorf("Unsupported increment/decrement operation")
}

// PrefixIncDec mutates the binding and returns the updated value.
func (e *Environment) PrefixIncDec(name Token, op TokenType) (LiteralValue, error) {
	binding, err := e.lookup(name)
	if err != nil {
		return NoneValue(), err
	}
	delta, err := incDecDelta(op)
	if err != nil {
		return NoneValue(), err
	}
	newValue, err := applyBinary(PLUS, binding.value, delta)
	if err != nil {
		return NoneValue(), err
	}
	binding.value = newValue
	return newValue, nil
}

// PostfixIncDec mutates the binding and returns the value prior to update.
func (e *Environment) PostfixIncDec(name Token, op TokenType) (LiteralValue, error) {
	binding, err := e.lookup(name)
	if err != nil {
		return NoneValue(), err
	}
	delta, err := incDecDelta(op)
	if err != nil {
		return NoneValue(), err
	}
	prev := binding.value
	newValue, err := applyBinary(PLUS, prev, delta)
	if err != nil {
		return NoneValue(), err
	}
	binding.value = newValue
	return prev, nil
}
