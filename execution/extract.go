package execution

import (
	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/tabcalc"
)

// ExtractParameters projects one row into a homogeneous numeric parameter
// vector, preserving parameter order. Every declared type must be Numeric;
// anything else is a hard stop, not a best-effort conversion.
func ExtractParameters(row Row, argTypes []tabcalc.Type) ([]tabcalc.Value, error) {
	if len(row.Values) != len(argTypes) {
		return nil, errors.Wrapf(ErrMalformedRow, "row has %d values, function declares %d parameters", len(row.Values), len(argTypes))
	}
	out := make([]tabcalc.Value, len(argTypes))
	for i := range argTypes {
		if argTypes[i].TypeID != tabcalc.TypeIDNumeric {
			return nil, errors.Wrapf(ErrUnsupportedArgumentType, "parameter %d declared as %s", i, argTypes[i])
		}
		out[i] = tabcalc.NewNumeric(row.Values[i].Num)
	}
	return out, nil
}
