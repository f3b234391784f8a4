package execution

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafn/tabcalc/tabcalc"
)

func TestExtractParameters(t *testing.T) {
	row := NewRow([]tabcalc.Value{
		tabcalc.NewDual(1.5, "one and a half"),
		tabcalc.NewNumeric(2),
	})

	args, err := ExtractParameters(row, []tabcalc.Type{tabcalc.Numeric, tabcalc.Numeric})
	require.NoError(t, err)
	require.Len(t, args, 2)
	// The numeric payload is projected whatever the cell's own tag was.
	assert.Equal(t, tabcalc.NewNumeric(1.5), args[0])
	assert.Equal(t, tabcalc.NewNumeric(2), args[1])
}

func TestExtractParametersRejectsNonNumeric(t *testing.T) {
	row := numRow(1, 2)
	_, err := ExtractParameters(row, []tabcalc.Type{tabcalc.Numeric, tabcalc.String})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnsupportedArgumentType))
}

func TestExtractParametersRejectsArityMismatch(t *testing.T) {
	row := numRow(1, 2, 3)
	_, err := ExtractParameters(row, []tabcalc.Type{tabcalc.Numeric})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRow))
}
