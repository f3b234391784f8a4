// Package server implements the Connector gRPC service on top of the
// evaluation engine. Each stream is one independent invocation: the request
// header arrives as metadata, row batches stream both ways, and table
// descriptions go back as header metadata before any data.
package server

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"io"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/datafn/tabcalc/catalog"
	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/expreval"
	"github.com/datafn/tabcalc/tabcalc"
	"github.com/datafn/tabcalc/wire"
)

type Server struct {
	registry *catalog.Registry
	logger   *zap.Logger
}

func New(registry *catalog.Registry, logger *zap.Logger) *Server {
	return &Server{
		registry: registry,
		logger:   logger,
	}
}

func (s *Server) ExecuteFunction(stream wire.Connector_ExecuteFunctionServer) error {
	logger := s.invocationLogger()

	var header wire.FunctionRequestHeader
	if err := headerFromContext(stream.Context(), wire.FunctionRequestHeaderKey, &header); err != nil {
		logger.Warn("rejecting function request", zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	}

	def, err := s.registry.LookupID(header.FunctionID)
	if err != nil {
		logger.Warn("unknown function", zap.Int("functionId", header.FunctionID))
		return status.Error(codes.NotFound, err.Error())
	}
	logger = logger.With(zap.String("function", def.Name), zap.Stringer("kind", def.Kind))
	logger.Info("executing function")

	evaluation := &execution.Evaluation{
		Kind:          def.Kind,
		ArgumentTypes: def.ArgumentTypes(),
		ReturnType:    def.ReturnType,
		TableFields:   def.FieldNames(),
		Computation:   def.Computation,
		Source:        &streamSource{recv: stream.Recv},
	}
	if err := runEvaluation(evaluation, stream); err != nil {
		logger.Error("invocation failed", zap.Error(err))
		return statusFromError(err)
	}
	logger.Info("invocation finished")
	return nil
}

func (s *Server) EvaluateScript(stream wire.Connector_EvaluateScriptServer) error {
	logger := s.invocationLogger()

	var header wire.ScriptRequestHeader
	if err := headerFromContext(stream.Context(), wire.ScriptRequestHeaderKey, &header); err != nil {
		logger.Warn("rejecting script request", zap.Error(err))
		return status.Error(codes.InvalidArgument, err.Error())
	}

	kind, ok := wire.FunctionKindFromWire(header.FunctionType)
	if !ok {
		return status.Errorf(codes.InvalidArgument, "invalid function type tag: %d", header.FunctionType)
	}
	if kind == tabcalc.KindTable {
		return status.Error(codes.InvalidArgument, "scripts can't be table functions; use a catalog function")
	}
	returnType, ok := wire.TypeFromWire(header.ReturnType)
	if !ok {
		return status.Errorf(codes.InvalidArgument, "invalid return type tag: %d", header.ReturnType)
	}
	argTypes := make([]tabcalc.Type, len(header.Params))
	for i := range header.Params {
		argType, ok := wire.TypeFromWire(header.Params[i].DataType)
		if !ok {
			return status.Errorf(codes.InvalidArgument, "parameter %q has invalid type tag: %d", header.Params[i].Name, header.Params[i].DataType)
		}
		argTypes[i] = argType
	}
	logger = logger.With(zap.Stringer("kind", kind), zap.String("script", header.Script))
	logger.Info("evaluating script")

	// With zero parameters the engine rejects the invocation before the
	// computation would run, so there's nothing to compile.
	var computation execution.Computation
	if len(header.Params) > 0 {
		var err error
		switch kind {
		case tabcalc.KindAggregate:
			computation, err = expreval.Columns(header.Script)
		default:
			computation, err = expreval.RowWise(header.Script)
		}
		if err != nil {
			logger.Warn("script rejected", zap.Error(err))
			return statusFromError(err)
		}
	}

	evaluation := &execution.Evaluation{
		Kind:          kind,
		ArgumentTypes: argTypes,
		ReturnType:    returnType,
		Computation:   computation,
		Source:        &streamSource{recv: stream.Recv},
	}
	if err := runEvaluation(evaluation, stream); err != nil {
		logger.Error("invocation failed", zap.Error(err))
		return statusFromError(err)
	}
	logger.Info("invocation finished")
	return nil
}

func (s *Server) invocationLogger() *zap.Logger {
	id := ulid.MustNew(ulid.Now(), rand.Reader)
	return s.logger.With(zap.String("invocation", id.String()))
}

// evaluationStream is the part of both stream types the evaluation runner
// needs.
type evaluationStream interface {
	Context() context.Context
	SendHeader(metadata.MD) error
	Send(*wire.BundledRows) error
}

func runEvaluation(evaluation *execution.Evaluation, stream evaluationStream) error {
	produce := func(ctx execution.ProduceContext, batch execution.RowBatch) error {
		return stream.Send(wire.NativeBatchToWire(batch))
	}
	metaSend := func(ctx execution.ProduceContext, table *tabcalc.TableDescription) error {
		data, err := json.Marshal(wire.NativeTableDescriptionToWire(table))
		if err != nil {
			return errors.Wrap(err, "couldn't marshal table description")
		}
		return stream.SendHeader(metadata.Pairs(wire.TableDescriptionKey, string(data)))
	}
	return evaluation.Run(
		execution.ExecutionContext{Context: stream.Context()},
		produce,
		metaSend,
	)
}

// streamSource adapts the inbound gRPC stream to the engine's BatchSource.
type streamSource struct {
	recv func() (*wire.BundledRows, error)
}

func (s *streamSource) Next(ctx context.Context) (execution.RowBatch, error) {
	m, err := s.recv()
	if err == io.EOF {
		return execution.RowBatch{}, execution.ErrEndOfStream
	}
	if err != nil {
		return execution.RowBatch{}, err
	}
	return m.ToNativeBatch(), nil
}

func headerFromContext(ctx context.Context, key string, out interface{}) error {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return errors.New("request metadata is missing")
	}
	values := md.Get(key)
	if len(values) == 0 {
		return errors.Errorf("request header %q is missing", key)
	}
	if err := json.Unmarshal([]byte(values[0]), out); err != nil {
		return errors.Wrapf(err, "couldn't decode request header %q", key)
	}
	return nil
}

// statusFromError maps the engine's failure taxonomy onto gRPC status codes.
// Failures are never encoded into the data stream.
func statusFromError(err error) error {
	switch {
	case errors.Is(err, execution.ErrUnsupportedArgumentType),
		errors.Is(err, execution.ErrUnsupportedReturnType),
		errors.Is(err, execution.ErrNoParameters),
		errors.Is(err, execution.ErrMalformedRow),
		errors.Is(err, execution.ErrExpressionEvaluation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// Options returns the server options every Connector listener needs: the
// JSON codec that carries the hand-defined wire messages.
func Options() []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ForceServerCodec(wire.Codec{}),
	}
}
