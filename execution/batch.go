package execution

import (
	"context"

	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/tabcalc"
)

var ErrEndOfStream = errors.New("end of stream")

// Row is an ordered sequence of scalar values, one per declared parameter.
type Row struct {
	Values []tabcalc.Value
}

func NewRow(values []tabcalc.Value) Row {
	return Row{Values: values}
}

// RowBatch is one transport-level chunk of rows. Batch boundaries carry no
// meaning for evaluation; logical results are identical however the rows are
// divided across batches.
type RowBatch struct {
	Rows []Row
}

func NewRowBatch(rows []Row) RowBatch {
	return RowBatch{Rows: rows}
}

// BatchSource is the engine's view of the inbound request stream. Next
// returns ErrEndOfStream once the stream is drained.
type BatchSource interface {
	Next(ctx context.Context) (RowBatch, error)
}

type ExecutionContext struct {
	context.Context
}

type ProduceContext struct {
	context.Context
}

func ProduceFromExecutionContext(ctx ExecutionContext) ProduceContext {
	return ProduceContext{
		Context: ctx.Context,
	}
}

type ProduceFn func(ctx ProduceContext, batch RowBatch) error

// MetaSendFn delivers a table description to the caller. The engine calls it
// before producing any table data, never after.
type MetaSendFn func(ctx ProduceContext, table *tabcalc.TableDescription) error

// InMemoryBatchSource serves a fixed list of batches.
type InMemoryBatchSource struct {
	batches []RowBatch
	index   int
}

func NewInMemoryBatchSource(batches []RowBatch) *InMemoryBatchSource {
	return &InMemoryBatchSource{batches: batches}
}

func (s *InMemoryBatchSource) Next(ctx context.Context) (RowBatch, error) {
	if err := ctx.Err(); err != nil {
		return RowBatch{}, err
	}
	if s.index >= len(s.batches) {
		return RowBatch{}, ErrEndOfStream
	}
	batch := s.batches[s.index]
	s.index++
	return batch, nil
}
