package tabcalc

// FunctionKind determines how an invocation consumes its input and what
// shape its output has. RowWise functions emit one output row per input row
// as rows arrive. Aggregate functions observe the entire input before
// producing a single value. Table functions observe the entire input and
// produce a single fixed-shape row with an accompanying table description.
type FunctionKind int

const (
	KindRowWise FunctionKind = iota
	KindAggregate
	KindTable
)

func (k FunctionKind) String() string {
	switch k {
	case KindRowWise:
		return "RowWise"
	case KindAggregate:
		return "Aggregate"
	case KindTable:
		return "Table"
	default:
		return "Invalid"
	}
}

func ParseFunctionKind(name string) (FunctionKind, bool) {
	switch name {
	case "RowWise", "rowwise", "tensor":
		return KindRowWise, true
	case "Aggregate", "aggregate", "aggregation":
		return KindAggregate, true
	case "Table", "table":
		return KindTable, true
	default:
		return 0, false
	}
}

// TableField is one named column of a table-returning function's output.
type TableField struct {
	Name string
	Type Type
}

// TableDescription describes the shape of a table-returning function's
// result. It travels to the caller out-of-band, before any row data, so the
// caller can interpret field order.
type TableDescription struct {
	Fields       []TableField
	NumberOfRows int
}
