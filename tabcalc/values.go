package tabcalc

import (
	"strconv"
)

var ZeroValue = Value{}

// Value is a single scalar travelling through an evaluation. The wire
// protocol calls these duals, since a cell may carry both a numeric and a
// string representation. The evaluation engine only operates on the numeric
// variant; the other tags exist so that the codec can round-trip payloads it
// doesn't evaluate.
type Value struct {
	TypeID TypeID
	Num    float64
	Str    string
}

func NewNumeric(value float64) Value {
	return Value{
		TypeID: TypeIDNumeric,
		Num:    value,
	}
}

func NewString(value string) Value {
	return Value{
		TypeID: TypeIDString,
		Str:    value,
	}
}

func NewDual(num float64, str string) Value {
	return Value{
		TypeID: TypeIDDual,
		Num:    num,
		Str:    str,
	}
}

func (value Value) String() string {
	switch value.TypeID {
	case TypeIDNumeric:
		return strconv.FormatFloat(value.Num, 'g', -1, 64)
	case TypeIDString:
		return value.Str
	case TypeIDDual:
		return value.Str
	default:
		return "<invalid>"
	}
}
