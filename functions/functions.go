package functions

import (
	"math"

	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/tabcalc"
)

// Details binds a function name to its kind and computation. Parameter
// lists and return types come from the catalog definition; the computations
// here accept whatever arity the catalog declared.
type Details struct {
	Kind        tabcalc.FunctionKind
	Computation execution.Computation
}

func FunctionMap() map[string]Details {
	return map[string]Details{
		"SumOfRows": {
			Kind: tabcalc.KindRowWise,
			Computation: execution.Computation{
				Row: sumOfRows,
			},
		},
		"SumOfColumn": {
			Kind: tabcalc.KindAggregate,
			Computation: execution.Computation{
				Columns: sumOfColumn,
			},
		},
		"MaxOfColumns": {
			Kind: tabcalc.KindTable,
			Computation: execution.Computation{
				Columns: maxOfColumns,
			},
		},
	}
}

func sumOfRows(args []tabcalc.Value) (tabcalc.Value, error) {
	sum := 0.0
	for i := range args {
		sum += args[i].Num
	}
	return tabcalc.NewNumeric(sum), nil
}

func sumOfColumn(columns [][]tabcalc.Value) ([]tabcalc.Value, error) {
	if len(columns) != 1 {
		return nil, errors.Errorf("SumOfColumn takes exactly one column, got %d", len(columns))
	}
	sum := 0.0
	for i := range columns[0] {
		sum += columns[0][i].Num
	}
	return []tabcalc.Value{tabcalc.NewNumeric(sum)}, nil
}

// maxOfColumns seeds every column's running maximum with -Inf before any row
// is observed. With zero input rows the seeds are returned unchanged.
func maxOfColumns(columns [][]tabcalc.Value) ([]tabcalc.Value, error) {
	out := make([]tabcalc.Value, len(columns))
	for col := range columns {
		max := math.Inf(-1)
		for i := range columns[col] {
			if columns[col][i].Num > max {
				max = columns[col][i].Num
			}
		}
		out[col] = tabcalc.NewNumeric(max)
	}
	return out, nil
}
