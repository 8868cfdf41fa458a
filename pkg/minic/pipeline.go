package minic

import (
	"fmt"
)

// Run pushes a source fragment through the whole pipeline: preprocess,
// scan, parse, type check and interpret, stopping at the first stage that
// reports an error. Hosts pre-load the environments with foreign functions
// and externally provided variables before calling.
func Run(source string, typeEnv *TypeEnvironment, valueEnv *Environment, errors ErrorHandler) error {
	src := Preprocess(source)

	tokens := Scan(src, errors)
	if errors.HasError() {
		return fmt.Errorf("scanning failed")
	}

	statements := Parse(tokens, errors)
	if errors.HasError() {
		return fmt.Errorf("parsing failed")
	}

	TypeCheck(statements, typeEnv, errors)
	if errors.HasError() {
		return fmt.Errorf("type checking failed")
	}

	return Interpret(statements, valueEnv)
}
