package tabcalc

type TypeID int

const (
	TypeIDString TypeID = iota
	TypeIDNumeric
	TypeIDDual
)

type Type struct {
	TypeID TypeID
}

var (
	String  = Type{TypeID: TypeIDString}
	Numeric = Type{TypeID: TypeIDNumeric}
	Dual    = Type{TypeID: TypeIDDual}
)

func (t Type) String() string {
	switch t.TypeID {
	case TypeIDString:
		return "String"
	case TypeIDNumeric:
		return "Numeric"
	case TypeIDDual:
		return "Dual"
	default:
		return "Invalid"
	}
}

func ParseType(name string) (Type, bool) {
	switch name {
	case "String", "string":
		return String, true
	case "Numeric", "numeric":
		return Numeric, true
	case "Dual", "dual":
		return Dual, true
	default:
		return Type{}, false
	}
}
