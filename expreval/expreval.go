// Package expreval evaluates client-supplied formula expressions against the
// parameter vectors of an invocation. Expressions run in a restricted
// environment (arithmetic, indexing into the args binding, and a small
// numeric function set), not a general-purpose interpreter. Compilation
// happens once per invocation and is never cached across invocations, since
// the formula text may differ per call.
package expreval

import (
	"math"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/tabcalc"
)

// RowWise compiles src for this invocation and returns a computation that
// evaluates it once per row, with args bound to the row's parameter vector.
func RowWise(src string) (execution.Computation, error) {
	program, err := compile(src, []float64(nil))
	if err != nil {
		return execution.Computation{}, err
	}
	return execution.Computation{
		Row: func(args []tabcalc.Value) (tabcalc.Value, error) {
			return run(program, numericVector(args))
		},
	}, nil
}

// Columns compiles src for this invocation and returns a computation that
// evaluates it once over the drained input, with args bound to the list of
// per-column parameter vectors.
func Columns(src string) (execution.Computation, error) {
	program, err := compile(src, [][]float64(nil))
	if err != nil {
		return execution.Computation{}, err
	}
	return execution.Computation{
		Columns: func(columns [][]tabcalc.Value) ([]tabcalc.Value, error) {
			args := make([][]float64, len(columns))
			for i := range columns {
				args[i] = numericVector(columns[i])
			}
			value, err := run(program, args)
			if err != nil {
				return nil, err
			}
			return []tabcalc.Value{value}, nil
		},
	}, nil
}

// compile type-checks src against the concrete shape args has at run time:
// []float64 for row-wise evaluation, [][]float64 for column evaluation, so
// indexing into args compiles.
func compile(src string, argsPrototype interface{}) (*vm.Program, error) {
	program, err := expr.Compile(src, options(argsPrototype)...)
	if err != nil {
		return nil, errors.Wrapf(execution.ErrExpressionEvaluation, "couldn't compile expression: %v", err)
	}
	return program, nil
}

func run(program *vm.Program, args interface{}) (tabcalc.Value, error) {
	out, err := expr.Run(program, map[string]interface{}{"args": args})
	if err != nil {
		return tabcalc.ZeroValue, errors.Wrapf(execution.ErrExpressionEvaluation, "couldn't evaluate expression: %v", err)
	}
	result, ok := toFloat(out)
	if !ok {
		return tabcalc.ZeroValue, errors.Wrapf(execution.ErrExpressionEvaluation, "expression produced %T, expected a numeric value", out)
	}
	return tabcalc.NewNumeric(result), nil
}

func options(argsPrototype interface{}) []expr.Option {
	return []expr.Option{
		expr.Env(map[string]interface{}{"args": argsPrototype}),
		expr.Function("avg", func(params ...interface{}) (interface{}, error) {
			values, err := flatten(params)
			if err != nil {
				return nil, err
			}
			if len(values) == 0 {
				return nil, errors.New("avg of zero values")
			}
			sum := 0.0
			for _, v := range values {
				sum += v
			}
			return sum / float64(len(values)), nil
		}),
		expr.Function("sqrt", func(params ...interface{}) (interface{}, error) {
			v, err := singleFloat(params)
			if err != nil {
				return nil, err
			}
			return math.Sqrt(v), nil
		}),
		expr.Function("pow", func(params ...interface{}) (interface{}, error) {
			if len(params) != 2 {
				return nil, errors.Errorf("pow takes 2 arguments, got %d", len(params))
			}
			base, ok := toFloat(params[0])
			if !ok {
				return nil, errors.Errorf("pow base is %T, expected a number", params[0])
			}
			exp, ok := toFloat(params[1])
			if !ok {
				return nil, errors.Errorf("pow exponent is %T, expected a number", params[1])
			}
			return math.Pow(base, exp), nil
		}),
	}
}

func numericVector(values []tabcalc.Value) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		out[i] = values[i].Num
	}
	return out
}

func toFloat(v interface{}) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func singleFloat(params []interface{}) (float64, error) {
	if len(params) != 1 {
		return 0, errors.Errorf("expected 1 argument, got %d", len(params))
	}
	v, ok := toFloat(params[0])
	if !ok {
		return 0, errors.Errorf("argument is %T, expected a number", params[0])
	}
	return v, nil
}

func flatten(params []interface{}) ([]float64, error) {
	var out []float64
	for _, p := range params {
		switch p := p.(type) {
		case []float64:
			out = append(out, p...)
		case []interface{}:
			nested, err := flatten(p)
			if err != nil {
				return nil, err
			}
			out = append(out, nested...)
		default:
			v, ok := toFloat(p)
			if !ok {
				return nil, errors.Errorf("argument is %T, expected a number or list of numbers", p)
			}
			out = append(out, v)
		}
	}
	return out, nil
}
