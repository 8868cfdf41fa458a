package minic

import (
	"math"
	"sort"
	"strings"
)

// Type is implemented by every type descriptor: numeric scalars, pointers to
// numeric scalars, and foreign-function signatures.
type Type interface {
	TypeName() string
	SizeBytes() int
}

// TypeID enumerates the numeric scalar types.
type TypeID int

const (
	TypeBool TypeID = iota
	TypeInt8
	TypeUint8
	TypeInt16
	TypeUint16
	TypeInt32
	TypeUint32
	TypeFloat
	TypeDouble

	numTypeIDs
)

// Numeric describes one scalar type. Instances are process-wide singletons
// held in the numerics table; all comparisons are pointer comparisons.
type Numeric struct {
	ID       TypeID
	Name     string
	Size     int // bytes
	Rank     int // integer-conversion rank
	Min      float64
	Max      float64
	Lowest   float64
	Signed   bool
	Integral bool
}

func (n *Numeric) TypeName() string { return n.Name }
func (n *Numeric) SizeBytes() int   { return n.Size }

// numerics is indexed by TypeID.
var numerics = [numTypeIDs]Numeric{
	TypeBool:   {TypeBool, "bool", 1, 0, 0, 1, 0, false, true},
	TypeInt8:   {TypeInt8, "int8_t", 1, 10, math.MinInt8, math.MaxInt8, math.MinInt8, true, true},
	TypeUint8:  {TypeUint8, "uint8_t", 1, 10, 0, math.MaxUint8, 0, false, true},
	TypeInt16:  {TypeInt16, "int16_t", 2, 20, math.MinInt16, math.MaxInt16, math.MinInt16, true, true},
	TypeUint16: {TypeUint16, "uint16_t", 2, 20, 0, math.MaxUint16, 0, false, true},
	TypeInt32:  {TypeInt32, "int32_t", 4, 30, math.MinInt32, math.MaxInt32, math.MinInt32, true, true},
	TypeUint32: {TypeUint32, "uint32_t", 4, 30, 0, math.MaxUint32, 0, false, true},
	TypeFloat:  {TypeFloat, "float", 4, 50, math.SmallestNonzeroFloat32, math.MaxFloat32, -math.MaxFloat32, true, false},
	TypeDouble: {TypeDouble, "double", 8, 60, math.SmallestNonzeroFloat64, math.MaxFloat64, -math.MaxFloat64, true, false},
}

// GetNumeric returns the singleton descriptor for id.
func GetNumeric(id TypeID) *Numeric {
	return &numerics[id]
}

// unsignedOf maps each signed integer type to its unsigned counterpart.
var unsignedOf = map[TypeID]TypeID{
	TypeInt8:  TypeUint8,
	TypeInt16: TypeUint16,
	TypeInt32: TypeUint32,
}

// Pointer is a pointer-to-numeric type. Instances are singletons obtained
// through PointerTo so pointer identity doubles as type identity.
type Pointer struct {
	Value *Numeric
}

func (p *Pointer) TypeName() string { return p.Value.Name + "*" }
func (p *Pointer) SizeBytes() int   { return 8 }

var pointers [numTypeIDs]Pointer

func init() {
	for id := TypeID(0); id < numTypeIDs; id++ {
		pointers[id].Value = &numerics[id]
	}
}

// PointerTo returns the singleton pointer type for the given value type.
func PointerTo(value *Numeric) *Pointer {
	return &pointers[value.ID]
}

// ForeignFunction describes the signature of a host-registered callable.
// A nil Args slice marks the function as variadic.
type ForeignFunction struct {
	Return *Numeric
	Args   []*Numeric
}

func (f *ForeignFunction) TypeName() string {
	var sb strings.Builder
	sb.WriteString(f.Return.Name)
	sb.WriteString("<")
	for _, a := range f.Args {
		sb.WriteString(a.Name)
		sb.WriteString(", ")
	}
	sb.WriteString(">")
	return sb.String()
}

func (f *ForeignFunction) SizeBytes() int { return 8 }

// Variadic reports whether the function accepts any argument count.
func (f *ForeignFunction) Variadic() bool { return f.Args == nil }

// specifierTypes maps a canonicalised set of type-specifier lexemes to a
// numeric type. Keys are the sorted specifiers joined with spaces.
var specifierTypes = map[string]TypeID{
	specifierKey("char"):                     TypeInt8,
	specifierKey("unsigned", "char"):         TypeUint8,
	specifierKey("short"):                    TypeInt16,
	specifierKey("short", "int"):             TypeInt16,
	specifierKey("signed", "short"):          TypeInt16,
	specifierKey("signed", "short", "int"):   TypeInt16,
	specifierKey("unsigned", "short"):        TypeUint16,
	specifierKey("unsigned", "short", "int"): TypeUint16,
	specifierKey("int"):                      TypeInt32,
	specifierKey("signed"):                   TypeInt32,
	specifierKey("signed", "int"):            TypeInt32,
	specifierKey("unsigned"):                 TypeUint32,
	specifierKey("unsigned", "int"):          TypeUint32,
	specifierKey("bool"):                     TypeBool,
	specifierKey("float"):                    TypeFloat,
	specifierKey("double"):                   TypeDouble,
}

func specifierKey(specifiers ...string) string {
	sorted := append([]string(nil), specifiers...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// NumericFromSpecifiers resolves a set of type-specifier lexemes to a numeric
// type, or nil if the combination is not recognised.
func NumericFromSpecifiers(specifiers []string) *Numeric {
	id, ok := specifierTypes[specifierKey(specifiers...)]
	if !ok {
		return nil
	}
	return GetNumeric(id)
}

// Promote applies the integer promotion rule: every type of rank below
// int32 is converted to int32, everything else is unchanged.
func Promote(t *Numeric) *Numeric {
	if t.Rank < GetNumeric(TypeInt32).Rank {
		return GetNumeric(TypeInt32)
	}
	return t
}

// CommonType applies the usual arithmetic conversions to a pair of numeric
// operand types and returns the single type of the result.
func CommonType(a, b *Numeric) *Numeric {
	// If either type is double, common type is double
	if a.ID == TypeDouble || b.ID == TypeDouble {
		return GetNumeric(TypeDouble)
	}
	// Otherwise, if either type is float, common type is float
	if a.ID == TypeFloat || b.ID == TypeFloat {
		return GetNumeric(TypeFloat)
	}

	// Otherwise both are integers: promote and compare
	aProm := Promote(a)
	bProm := Promote(b)
	if aProm == bProm {
		return aProm
	}

	// Same signedness: the greater rank wins
	if aProm.Signed == bProm.Signed {
		if aProm.Rank > bProm.Rank {
			return aProm
		}
		return bProm
	}

	signedOp := aProm
	unsignedOp := bProm
	if bProm.Signed {
		signedOp, unsignedOp = bProm, aProm
	}

	// Unsigned operand of greater or equal rank converts the signed operand
	if unsignedOp.Rank >= signedOp.Rank {
		return unsignedOp
	}
	// A signed type that can represent every unsigned value wins
	if signedOp.Min <= unsignedOp.Min && signedOp.Max >= unsignedOp.Max {
		return signedOp
	}
	// Fall back to the unsigned counterpart of the signed operand
	return GetNumeric(unsignedOf[signedOp.ID])
}

// NumericFromLiteral returns the numeric type matching a literal payload, or
// nil for the none payload. 64-bit payloads map onto the widest integer rank
// the lattice carries.
func NumericFromLiteral(tag LiteralTag) *Numeric {
	switch tag {
	case LitBool:
		return GetNumeric(TypeBool)
	case LitFloat:
		return GetNumeric(TypeFloat)
	case LitDouble:
		return GetNumeric(TypeDouble)
	case LitUint32, LitUint64:
		return GetNumeric(TypeUint32)
	case LitInt32, LitInt64:
		return GetNumeric(TypeInt32)
	}
	return nil
}
