package expreval

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/tabcalc"
)

func numeric(values ...float64) []tabcalc.Value {
	out := make([]tabcalc.Value, len(values))
	for i := range values {
		out[i] = tabcalc.NewNumeric(values[i])
	}
	return out
}

func TestRowWise(t *testing.T) {
	tests := []struct {
		name string
		src  string
		args []tabcalc.Value
		want float64
	}{
		{
			name: "addition",
			src:  "args[0] + args[1]",
			args: numeric(1, 2),
			want: 3,
		},
		{
			name: "arithmetic with literals",
			src:  "args[0] * 1.8 + 32",
			args: numeric(100),
			want: 212,
		},
		{
			name: "avg over the row",
			src:  "avg(args)",
			args: numeric(2, 4, 6),
			want: 4,
		},
		{
			name: "sqrt and pow",
			src:  "sqrt(pow(args[0], 2))",
			args: numeric(7),
			want: 7,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			computation, err := RowWise(tt.src)
			require.NoError(t, err)

			out, err := computation.Row(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tabcalc.NewNumeric(tt.want), out)
		})
	}
}

func TestColumns(t *testing.T) {
	computation, err := Columns("avg(args[0]) * 5")
	require.NoError(t, err)

	out, err := computation.Columns([][]tabcalc.Value{numeric(1, 2, 3, 4, 5)})
	require.NoError(t, err)
	assert.Equal(t, []tabcalc.Value{tabcalc.NewNumeric(15)}, out)
}

func TestColumnsIndexing(t *testing.T) {
	computation, err := Columns("avg(args[0]) + avg(args[1])")
	require.NoError(t, err)

	out, err := computation.Columns([][]tabcalc.Value{numeric(1, 3), numeric(10, 20)})
	require.NoError(t, err)
	assert.Equal(t, []tabcalc.Value{tabcalc.NewNumeric(17)}, out)
}

func TestCompileFailure(t *testing.T) {
	_, err := RowWise("args[0] +")
	require.Error(t, err)
	assert.True(t, errors.Is(err, execution.ErrExpressionEvaluation))
}

func TestRuntimeFailure(t *testing.T) {
	computation, err := RowWise("args[5]")
	require.NoError(t, err)

	_, err = computation.Row(numeric(1, 2))
	require.Error(t, err)
	assert.True(t, errors.Is(err, execution.ErrExpressionEvaluation))
}

func TestNonNumericResult(t *testing.T) {
	computation, err := RowWise(`"not a number"`)
	require.NoError(t, err)

	_, err = computation.Row(numeric(1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, execution.ErrExpressionEvaluation))
}

func TestNoCachingAcrossInvocations(t *testing.T) {
	// Two invocations with the same text get independent programs.
	first, err := RowWise("args[0] * 2")
	require.NoError(t, err)
	second, err := RowWise("args[0] * 2")
	require.NoError(t, err)

	a, err := first.Row(numeric(3))
	require.NoError(t, err)
	b, err := second.Row(numeric(3))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
