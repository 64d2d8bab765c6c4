package cube

import (
	"fmt"
	"strconv"
)

// ValueKind tags which case of the Value variant is populated. The
// scalar cases hold their value inline; the "object" case carries a
// heap handle.
type ValueKind int

const (
	ValBool ValueKind = iota
	ValNil
	ValInt
	ValReal
	ValObj
)

// Value is the tagged scalar the VM pushes and pops. Exactly one of
// the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind ValueKind
	b    bool
	i    int64
	f    float64
	obj  *Object
}

func BoolValue(b bool) Value   { return Value{Kind: ValBool, b: b} }
func NilValue() Value          { return Value{Kind: ValNil} }
func IntValue(i int64) Value   { return Value{Kind: ValInt, i: i} }
func RealValue(f float64) Value { return Value{Kind: ValReal, f: f} }
func ObjValue(o *Object) Value { return Value{Kind: ValObj, obj: o} }

func (v Value) AsBool() bool       { return v.b }
func (v Value) AsInt() int64       { return v.i }
func (v Value) AsReal() float64    { return v.f }
func (v Value) AsObj() *Object     { return v.obj }
func (v Value) AsString() *ObjectString {
	return v.obj.asString
}

func (v Value) IsBool() bool   { return v.Kind == ValBool }
func (v Value) IsNil() bool    { return v.Kind == ValNil }
func (v Value) IsInt() bool    { return v.Kind == ValInt }
func (v Value) IsReal() bool   { return v.Kind == ValReal }
func (v Value) IsObj() bool    { return v.Kind == ValObj }
func (v Value) IsNumber() bool { return v.Kind == ValInt || v.Kind == ValReal }
func (v Value) IsString() bool { return v.Kind == ValObj && v.obj.Kind == ObjString }

// IsFalsey implements the language's only notion of truthiness: Nil
// and Bool(false) are falsey, everything else is truthy.
func (v Value) IsFalsey() bool {
	return v.Kind == ValNil || (v.Kind == ValBool && !v.b)
}

// AsFloat64 widens an Int or Real value to float64; callers must have
// already checked IsNumber.
func (v Value) AsFloat64() float64 {
	if v.Kind == ValInt {
		return float64(v.i)
	}
	return v.f
}

// Equal implements the structural, per-case equality spec.md 3/4.3
// mandates: no implicit cross-tag promotion, not even Int vs Real.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case ValBool:
		return v.b == other.b
	case ValNil:
		return true
	case ValInt:
		return v.i == other.i
	case ValReal:
		return v.f == other.f
	case ValObj:
		return objectsEqual(v.obj, other.obj)
	}
	return false
}

// String renders a value the way PRINT does: booleans as true/false,
// Nil as nil, Int as decimal, Real in shortest round-trip form,
// String as its raw characters with no surrounding quotes.
func (v Value) String() string {
	switch v.Kind {
	case ValBool:
		if v.b {
			return "true"
		}
		return "false"
	case ValNil:
		return "nil"
	case ValInt:
		return strconv.FormatInt(v.i, 10)
	case ValReal:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case ValObj:
		return v.obj.String()
	}
	return fmt.Sprintf("<invalid value kind %d>", v.Kind)
}

// QuotedString is used by the disassembler, which wraps constants in
// single quotes, unlike PRINT's raw user-facing output.
func (v Value) QuotedString() string {
	if v.IsString() {
		return "'" + v.String() + "'"
	}
	return v.String()
}
