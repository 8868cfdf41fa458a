package minic

import (
	"testing"
)

func TestNumericRanks(t *testing.T) {
	ordered := []TypeID{TypeBool, TypeInt8, TypeInt16, TypeInt32, TypeFloat, TypeDouble}
	for i := 1; i < len(ordered); i++ {
		lo := GetNumeric(ordered[i-1])
		hi := GetNumeric(ordered[i])
		if lo.Rank >= hi.Rank {
			t.Errorf("rank(%s) = %d not below rank(%s) = %d", lo.Name, lo.Rank, hi.Name, hi.Rank)
		}
	}

	// Signed and unsigned variants share a rank
	pairs := [][2]TypeID{{TypeInt8, TypeUint8}, {TypeInt16, TypeUint16}, {TypeInt32, TypeUint32}}
	for _, pair := range pairs {
		if GetNumeric(pair[0]).Rank != GetNumeric(pair[1]).Rank {
			t.Errorf("rank(%s) != rank(%s)", GetNumeric(pair[0]).Name, GetNumeric(pair[1]).Name)
		}
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		in       TypeID
		expected TypeID
	}{
		{TypeBool, TypeInt32},
		{TypeInt8, TypeInt32},
		{TypeUint8, TypeInt32},
		{TypeInt16, TypeInt32},
		{TypeUint16, TypeInt32},
		{TypeInt32, TypeInt32},
		{TypeUint32, TypeUint32},
		{TypeFloat, TypeFloat},
		{TypeDouble, TypeDouble},
	}
	for _, tt := range tests {
		if got := Promote(GetNumeric(tt.in)); got != GetNumeric(tt.expected) {
			t.Errorf("Promote(%s) = %s, want %s", GetNumeric(tt.in).Name, got.Name, GetNumeric(tt.expected).Name)
		}
	}

	// Promotion is idempotent
	for id := TypeID(0); id < numTypeIDs; id++ {
		once := Promote(GetNumeric(id))
		if Promote(once) != once {
			t.Errorf("Promote(Promote(%s)) != Promote(%s)", GetNumeric(id).Name, GetNumeric(id).Name)
		}
	}
}

func TestCommonType(t *testing.T) {
	tests := []struct {
		a, b     TypeID
		expected TypeID
	}{
		{TypeInt32, TypeInt32, TypeInt32},
		{TypeInt8, TypeInt8, TypeInt32},
		{TypeBool, TypeBool, TypeInt32},
		{TypeInt32, TypeUint32, TypeUint32},
		{TypeInt8, TypeUint16, TypeInt32},
		{TypeUint8, TypeInt32, TypeInt32},
		{TypeInt32, TypeFloat, TypeFloat},
		{TypeFloat, TypeDouble, TypeDouble},
		{TypeUint32, TypeDouble, TypeDouble},
	}
	for _, tt := range tests {
		a := GetNumeric(tt.a)
		b := GetNumeric(tt.b)
		if got := CommonType(a, b); got != GetNumeric(tt.expected) {
			t.Errorf("CommonType(%s, %s) = %s, want %s", a.Name, b.Name, got.Name, GetNumeric(tt.expected).Name)
		}
	}

	// Symmetric for every pair
	for a := TypeID(0); a < numTypeIDs; a++ {
		for b := TypeID(0); b < numTypeIDs; b++ {
			ab := CommonType(GetNumeric(a), GetNumeric(b))
			ba := CommonType(GetNumeric(b), GetNumeric(a))
			if ab != ba {
				t.Errorf("CommonType(%s, %s) = %s but reversed = %s",
					GetNumeric(a).Name, GetNumeric(b).Name, ab.Name, ba.Name)
			}
		}
	}
}

func TestNumericFromSpecifiers(t *testing.T) {
	tests := []struct {
		specifiers []string
		expected   TypeID
	}{
		{[]string{"int"}, TypeInt32},
		{[]string{"signed"}, TypeInt32},
		{[]string{"unsigned"}, TypeUint32},
		{[]string{"unsigned", "int"}, TypeUint32},
		{[]string{"int", "unsigned"}, TypeUint32},
		{[]string{"char"}, TypeInt8},
		{[]string{"unsigned", "char"}, TypeUint8},
		{[]string{"short"}, TypeInt16},
		{[]string{"short", "int"}, TypeInt16},
		{[]string{"signed", "short", "int"}, TypeInt16},
		{[]string{"unsigned", "short"}, TypeUint16},
		{[]string{"float"}, TypeFloat},
		{[]string{"double"}, TypeDouble},
		{[]string{"bool"}, TypeBool},
	}
	for _, tt := range tests {
		if got := NumericFromSpecifiers(tt.specifiers); got != GetNumeric(tt.expected) {
			t.Errorf("NumericFromSpecifiers(%v) = %v, want %s", tt.specifiers, got, GetNumeric(tt.expected).Name)
		}
	}

	for _, bad := range [][]string{{"long"}, {"int", "float"}, {"unsigned", "double"}, {}} {
		if got := NumericFromSpecifiers(bad); got != nil {
			t.Errorf("NumericFromSpecifiers(%v) = %s, want nil", bad, got.Name)
		}
	}
}

func TestPointerIdentity(t *testing.T) {
	float := GetNumeric(TypeFloat)
	if PointerTo(float) != PointerTo(float) {
		t.Error("PointerTo must return a singleton per value type")
	}
	if PointerTo(float) == PointerTo(GetNumeric(TypeDouble)) {
		t.Error("distinct value types must have distinct pointer types")
	}
	if name := PointerTo(float).TypeName(); name != "float*" {
		t.Errorf("PointerTo(float).TypeName() = %q, want %q", name, "float*")
	}
}

func TestForeignFunctionType(t *testing.T) {
	double := GetNumeric(TypeDouble)
	fixed := &ForeignFunction{Return: double, Args: []*Numeric{double}}
	if fixed.Variadic() {
		t.Error("function with declared arguments must not be variadic")
	}
	variadic := &ForeignFunction{Return: double}
	if !variadic.Variadic() {
		t.Error("function with nil argument list must be variadic")
	}
	if name := fixed.TypeName(); name != "double<double, >" {
		t.Errorf("TypeName() = %q", name)
	}
}
