package minic

import (
	"fmt"
)

// assignOpBinary maps each compound-assign operator onto the binary operator
// it applies. Plain '=' is absent: it installs the right hand side directly.
// The type checker and the runtime environment both classify operators
// through this table so the two stages can never disagree.
var assignOpBinary = map[TokenType]TokenType{
	PLUS_EQUAL:        PLUS,
	MINUS_EQUAL:       MINUS,
	STAR_EQUAL:        STAR,
	SLASH_EQUAL:       SLASH,
	PERCENT_EQUAL:     PERCENT,
	AMPERSAND_EQUAL:   AMPERSAND,
	PIPE_EQUAL:        PIPE,
	CARET_EQUAL:       CARET,
	SHIFT_LEFT_EQUAL:  SHIFT_LEFT,
	SHIFT_RIGHT_EQUAL: SHIFT_RIGHT,
}

// integerOnlyOps holds the binary operators that require integral operands.
var integerOnlyOps = map[TokenType]bool{
	PERCENT:     true,
	AMPERSAND:   true,
	PIPE:        true,
	CARET:       true,
	SHIFT_LEFT:  true,
	SHIFT_RIGHT: true,
}

// comparisonOps holds the operators whose result is a truth value.
var comparisonOps = map[TokenType]bool{
	EQUAL_EQUAL:   true,
	NOT_EQUAL:     true,
	LESS:          true,
	LESS_EQUAL:    true,
	GREATER:       true,
	GREATER_EQUAL: true,
}

// isTruthy converts a value to a branch decision; the none value is falsy.
func isTruthy(v LiteralValue) bool {
	switch v.Tag {
	case LitBool:
		return v.Bool
	case LitFloat:
		return v.F32 != 0
	case LitDouble:
		return v.F64 != 0
	case LitUint32:
		return v.U32 != 0
	case LitInt32:
		return v.I32 != 0
	case LitUint64:
		return v.U64 != 0
	case LitInt64:
		return v.I64 != 0
	}
	return false
}

// isIntegralValue reports whether the payload is one of the integer (or
// bool) variants.
func isIntegralValue(v LiteralValue) bool {
	switch v.Tag {
	case LitBool, LitUint32, LitInt32, LitUint64, LitInt64:
		return true
	}
	return false
}

// isWideValue reports whether the payload occupies 64 bits.
func isWideValue(v LiteralValue) bool {
	return v.Tag == LitUint64 || v.Tag == LitInt64
}

// intOf returns the payload widened to 64 bits: signed payloads are
// sign-extended, unsigned ones zero-extended.
func intOf(v LiteralValue) int64 {
	switch v.Tag {
	case LitBool:
		if v.Bool {
			return 1
		}
		return 0
	case LitUint32:
		return int64(v.U32)
	case LitInt32:
		return int64(v.I32)
	case LitUint64:
		return int64(v.U64)
	case LitInt64:
		return v.I64
	}
	return 0
}

// uintOf returns the payload's 64-bit two's-complement bit pattern.
func uintOf(v LiteralValue) uint64 {
	return uint64(intOf(v))
}

// floatOf returns the payload widened to double precision.
func floatOf(v LiteralValue) float64 {
	switch v.Tag {
	case LitFloat:
		return float64(v.F32)
	case LitDouble:
		return v.F64
	}
	return float64(intOf(v))
}

// unsignedOperand converts a payload to the unsigned common type's width:
// a negative signed operand wraps to the 32-bit pattern unless a 64-bit
// operand widened the whole operation.
func unsignedOperand(v LiteralValue, wide bool) uint64 {
	bits := uintOf(v)
	if !wide {
		bits &= 0xFFFFFFFF
	}
	return bits
}

// makeInteger wraps a 64-bit result into the integer variant selected by the
// common type's signedness and the operands' width.
func makeInteger(common *Numeric, wide bool, bits uint64) LiteralValue {
	if common.Signed {
		if wide {
			return Int64Value(int64(bits))
		}
		return Int32Value(int32(bits))
	}
	if wide {
		return Uint64Value(bits)
	}
	return Uint32Value(uint32(bits))
}

// valueNumeric returns the lattice type a runtime payload inhabits.
func valueNumeric(v LiteralValue) *Numeric {
	return NumericFromLiteral(v.Tag)
}

// applyBinary evaluates op on two scalar payloads under the usual arithmetic
// conversions. Comparison operators yield a bool payload; shifts take the
// promoted left operand's type; everything else takes the common type.
func applyBinary(op TokenType, left, right LiteralValue) (LiteralValue, error) {
	if left.IsNone() || right.IsNone() {
		return NoneValue(), fmt.Errorf("Invalid operand")
	}

	if op == COMMA {
		return right, nil
	}

	leftType := valueNumeric(left)
	rightType := valueNumeric(right)

	// Comparisons are computed on the common type and yield a truth value
	if comparisonOps[op] {
		if leftType.Integral && rightType.Integral {
			common := CommonType(leftType, rightType)
			wide := isWideValue(left) || isWideValue(right)
			var result bool
			if common.Signed {
				result = compareOrdered(op, intOf(left), intOf(right))
			} else {
				result = compareOrdered(op, unsignedOperand(left, wide), unsignedOperand(right, wide))
			}
			return BoolValue(result), nil
		}
		return BoolValue(compareOrdered(op, floatOf(left), floatOf(right))), nil
	}

	// The remaining integer-only operators never see floating operands; the
	// type checker rejects those programs before they run
	if integerOnlyOps[op] {
		if !isIntegralValue(left) || !isIntegralValue(right) {
			return NoneValue(), fmt.Errorf("Unsupported binary operation")
		}

		// Shifts keep the promoted left operand's type
		if op == SHIFT_LEFT || op == SHIFT_RIGHT {
			shift := uintOf(right) & 63
			promoted := Promote(leftType)
			if op == SHIFT_LEFT {
				return makeInteger(promoted, isWideValue(left), uintOf(left)<<shift), nil
			}
			if promoted.Signed {
				return makeInteger(promoted, isWideValue(left), uint64(intOf(left)>>shift)), nil
			}
			return makeInteger(promoted, isWideValue(left), uintOf(left)>>shift), nil
		}

		common := CommonType(leftType, rightType)
		wide := isWideValue(left) || isWideValue(right)
		a, b := uintOf(left), uintOf(right)
		switch op {
		case PERCENT:
			if intOf(right) == 0 {
				return NoneValue(), fmt.Errorf("Integer division by zero")
			}
			if common.Signed {
				return makeInteger(common, wide, uint64(intOf(left)%intOf(right))), nil
			}
			return makeInteger(common, wide, unsignedOperand(left, wide)%unsignedOperand(right, wide)), nil
		case AMPERSAND:
			return makeInteger(common, wide, a&b), nil
		case PIPE:
			return makeInteger(common, wide, a|b), nil
		case CARET:
			return makeInteger(common, wide, a^b), nil
		}
	}

	switch op {
	case PLUS, MINUS, STAR, SLASH:
		common := CommonType(leftType, rightType)
		if common.ID == TypeFloat {
			a, b := float32(floatOf(left)), float32(floatOf(right))
			return FloatValue(applyArithmetic(op, a, b)), nil
		}
		if common.ID == TypeDouble {
			return DoubleValue(applyArithmetic(op, floatOf(left), floatOf(right))), nil
		}

		wide := isWideValue(left) || isWideValue(right)
		if op == SLASH {
			if intOf(right) == 0 {
				return NoneValue(), fmt.Errorf("Integer division by zero")
			}
			if common.Signed {
				return makeInteger(common, wide, uint64(intOf(left)/intOf(right))), nil
			}
			return makeInteger(common, wide, unsignedOperand(left, wide)/unsignedOperand(right, wide)), nil
		}
		return makeInteger(common, wide, applyArithmetic(op, uintOf(left), uintOf(right))), nil
	}

	return NoneValue(), fmt.Errorf("Unsupported binary operation")
}

// applyArithmetic computes the wrap-around +, -, * cases (and float /).
func applyArithmetic[T float32 | float64 | uint64](op TokenType, a, b T) T {
	switch op {
	case PLUS:
		return a + b
	case MINUS:
		return a - b
	case STAR:
		return a * b
	case SLASH:
		return a / b
	}
	return 0
}

// compareOrdered evaluates a comparison operator on an ordered pair.
func compareOrdered[T int64 | uint64 | float64](op TokenType, a, b T) bool {
	switch op {
	case EQUAL_EQUAL:
		return a == b
	case NOT_EQUAL:
		return a != b
	case LESS:
		return a < b
	case LESS_EQUAL:
		return a <= b
	case GREATER:
		return a > b
	case GREATER_EQUAL:
		return a >= b
	}
	return false
}

// applyUnary evaluates a prefix operator on a scalar payload.
func applyUnary(op TokenType, right LiteralValue) (LiteralValue, error) {
	if right.IsNone() {
		return NoneValue(), fmt.Errorf("Invalid operand")
	}

	rightType := valueNumeric(right)
	switch op {
	case PLUS:
		return promoteValue(right), nil
	case MINUS:
		if rightType.ID == TypeFloat {
			return FloatValue(-right.F32), nil
		}
		if rightType.ID == TypeDouble {
			return DoubleValue(-right.F64), nil
		}
		return makeInteger(Promote(rightType), isWideValue(right), -uintOf(right)), nil
	case NOT:
		return BoolValue(!isTruthy(right)), nil
	case TILDE:
		if !isIntegralValue(right) {
			return NoneValue(), fmt.Errorf("Unsupported unary operation")
		}
		return makeInteger(Promote(rightType), isWideValue(right), ^uintOf(right)), nil
	}

	return NoneValue(), fmt.Errorf("Unsupported unary operation")
}

// promoteValue applies integer promotion to a payload, leaving floating
// payloads untouched.
func promoteValue(v LiteralValue) LiteralValue {
	t := valueNumeric(v)
	if t == nil || !t.Integral {
		return v
	}
	promoted := Promote(t)
	if promoted == t && v.Tag != LitBool {
		return v
	}
	return makeInteger(promoted, isWideValue(v), uintOf(v))
}

// convertValue converts a payload to the given numeric type, truncating and
// wrapping the way a C cast does.
func convertValue(v LiteralValue, target *Numeric) (LiteralValue, error) {
	if v.IsNone() {
		return NoneValue(), fmt.Errorf("Invalid operand")
	}

	switch target.ID {
	case TypeBool:
		return BoolValue(isTruthy(v)), nil
	case TypeFloat:
		return FloatValue(float32(floatOf(v))), nil
	case TypeDouble:
		return DoubleValue(floatOf(v)), nil
	case TypeInt8:
		return Int32Value(int32(int8(floatToInt(v)))), nil
	case TypeUint8:
		return Uint32Value(uint32(uint8(floatToInt(v)))), nil
	case TypeInt16:
		return Int32Value(int32(int16(floatToInt(v)))), nil
	case TypeUint16:
		return Uint32Value(uint32(uint16(floatToInt(v)))), nil
	case TypeInt32:
		return Int32Value(int32(floatToInt(v))), nil
	case TypeUint32:
		return Uint32Value(uint32(floatToInt(v))), nil
	}
	return NoneValue(), fmt.Errorf("Unsupported conversion")
}

// floatToInt truncates a payload towards zero when it is floating and
// returns the 64-bit pattern otherwise.
func floatToInt(v LiteralValue) int64 {
	switch v.Tag {
	case LitFloat:
		return int64(v.F32)
	case LitDouble:
		return int64(v.F64)
	}
	return intOf(v)
}

// valuesEqual implements the case-label match of a switch statement: the
// discriminator and the label value compare equal under the usual arithmetic
// conversions.
func valuesEqual(a, b LiteralValue) bool {
	if a.IsNone() || b.IsNone() {
		return false
	}
	result, err := applyBinary(EQUAL_EQUAL, a, b)
	return err == nil && isTruthy(result)
}
