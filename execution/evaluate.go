// Package execution implements the function-dispatch and row/column
// evaluation engine: it classifies an invocation by function kind, extracts
// typed parameter vectors from the inbound batch stream, streams or
// accumulates intermediate results, and repackages computed values into
// outgoing batches.
package execution

import (
	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/tabcalc"
)

// Computation is the logic bound to an invocation, either a built-in from
// the function catalog or an expression compiled for this one invocation.
// Exactly one of the two fields is set, matching the function kind: Row for
// row-wise functions, Columns for aggregate and table functions.
type Computation struct {
	// Row computes one output value from a single row's parameter vector.
	Row func(args []tabcalc.Value) (tabcalc.Value, error)

	// Columns computes the final values from the accumulated per-column
	// parameter vectors, once the input stream has drained.
	Columns func(columns [][]tabcalc.Value) ([]tabcalc.Value, error)
}

// Evaluation is a single dispatch of a function over one inbound stream. It
// holds no state of its own between runs; running the same evaluation twice
// over the same input produces identical output.
type Evaluation struct {
	Kind          tabcalc.FunctionKind
	ArgumentTypes []tabcalc.Type
	ReturnType    tabcalc.Type

	// TableFields names the output columns for table-kind functions.
	TableFields []string

	Computation Computation
	Source      BatchSource
}

// Run drives the evaluation to completion. Declared types are verified
// before any input is consumed; a failed evaluation produces no output
// batches at all. For table-kind functions the table description is sent
// through metaSend before the data batch is produced.
func (e *Evaluation) Run(ctx ExecutionContext, produce ProduceFn, metaSend MetaSendFn) error {
	if len(e.ArgumentTypes) == 0 {
		return errors.Wrap(ErrNoParameters, "function declares no parameters")
	}
	for i := range e.ArgumentTypes {
		if e.ArgumentTypes[i].TypeID != tabcalc.TypeIDNumeric {
			return errors.Wrapf(ErrUnsupportedArgumentType, "parameter %d declared as %s", i, e.ArgumentTypes[i])
		}
	}
	if e.ReturnType.TypeID != tabcalc.TypeIDNumeric {
		return errors.Wrapf(ErrUnsupportedReturnType, "return type declared as %s", e.ReturnType)
	}

	switch e.Kind {
	case tabcalc.KindRowWise:
		return e.runRowWise(ctx, produce)
	case tabcalc.KindAggregate, tabcalc.KindTable:
		return e.runAccumulating(ctx, produce, metaSend)
	default:
		return errors.Errorf("invalid function kind: %d", e.Kind)
	}
}

// runRowWise applies the computation to each row as it arrives, emitting one
// output batch per input batch. It never buffers more than the current
// batch.
func (e *Evaluation) runRowWise(ctx ExecutionContext, produce ProduceFn) error {
	for {
		batch, err := e.Source.Next(ctx)
		if err == ErrEndOfStream {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "couldn't get next batch")
		}

		outRows := make([]Row, len(batch.Rows))
		for i := range batch.Rows {
			args, err := ExtractParameters(batch.Rows[i], e.ArgumentTypes)
			if err != nil {
				return errors.Wrapf(err, "couldn't extract parameters from row %d", i)
			}
			value, err := e.Computation.Row(args)
			if err != nil {
				return errors.Wrapf(err, "couldn't evaluate row %d", i)
			}
			outRows[i], err = PackageValues([]tabcalc.Value{value}, e.ReturnType)
			if err != nil {
				return err
			}
		}
		if err := produce(ProduceFromExecutionContext(ctx), NewRowBatch(outRows)); err != nil {
			return errors.Wrap(err, "couldn't produce batch")
		}
	}
}

// runAccumulating buffers the extracted parameter vectors column-wise until
// the input drains, applies the computation once, and emits exactly one
// batch containing one row. Partial results are never emitted.
func (e *Evaluation) runAccumulating(ctx ExecutionContext, produce ProduceFn, metaSend MetaSendFn) error {
	columns := make([][]tabcalc.Value, len(e.ArgumentTypes))
	for {
		batch, err := e.Source.Next(ctx)
		if err == ErrEndOfStream {
			break
		}
		if err != nil {
			return errors.Wrap(err, "couldn't get next batch")
		}
		for i := range batch.Rows {
			args, err := ExtractParameters(batch.Rows[i], e.ArgumentTypes)
			if err != nil {
				return errors.Wrapf(err, "couldn't extract parameters from row %d", i)
			}
			for col := range args {
				columns[col] = append(columns[col], args[col])
			}
		}
	}

	results, err := e.Computation.Columns(columns)
	if err != nil {
		return errors.Wrap(err, "couldn't evaluate accumulated columns")
	}

	switch e.Kind {
	case tabcalc.KindAggregate:
		if len(results) != 1 {
			return errors.Errorf("aggregate computation produced %d values, expected 1", len(results))
		}
	case tabcalc.KindTable:
		if len(results) != len(e.TableFields) {
			return errors.Errorf("table computation produced %d values, declared %d fields", len(results), len(e.TableFields))
		}
	}

	row, err := PackageValues(results, e.ReturnType)
	if err != nil {
		return err
	}

	if e.Kind == tabcalc.KindTable {
		table := BuildTableDescription(e.TableFields, e.ReturnType)
		if err := metaSend(ProduceFromExecutionContext(ctx), table); err != nil {
			return errors.Wrap(err, "couldn't send table description")
		}
	}
	if err := produce(ProduceFromExecutionContext(ctx), NewRowBatch([]Row{row})); err != nil {
		return errors.Wrap(err, "couldn't produce batch")
	}
	return nil
}
