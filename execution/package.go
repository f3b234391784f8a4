package execution

import (
	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/tabcalc"
)

// PackageValues wraps computed values as one output row, verifying each
// value against the declared return type. A mismatch aborts the invocation
// rather than being coerced.
func PackageValues(values []tabcalc.Value, returnType tabcalc.Type) (Row, error) {
	for i := range values {
		if values[i].TypeID != returnType.TypeID {
			return Row{}, errors.Wrapf(ErrUnsupportedReturnType, "computed value %d has type %s, function declares %s", i, tabcalc.Type{TypeID: values[i].TypeID}, returnType)
		}
	}
	return NewRow(values), nil
}

// BuildTableDescription names the output columns of a table-returning
// function. The declared row count is always 1: table functions collapse the
// whole input into a single multi-column row.
func BuildTableDescription(fields []string, fieldType tabcalc.Type) *tabcalc.TableDescription {
	out := make([]tabcalc.TableField, len(fields))
	for i := range fields {
		out[i] = tabcalc.TableField{
			Name: fields[i],
			Type: fieldType,
		}
	}
	return &tabcalc.TableDescription{
		Fields:       out,
		NumberOfRows: 1,
	}
}
