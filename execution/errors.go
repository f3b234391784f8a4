package execution

import "github.com/pkg/errors"

// Failure conditions surfaced to the transport layer. Each aborts the whole
// invocation; once any of these is raised no further output is produced.
var (
	// ErrUnsupportedArgumentType means a parameter was declared with a type
	// the engine doesn't evaluate. Only numeric parameters are supported.
	ErrUnsupportedArgumentType = errors.New("unsupported argument type")

	// ErrUnsupportedReturnType means the declared or computed return type is
	// not numeric.
	ErrUnsupportedReturnType = errors.New("unsupported return type")

	// ErrNoParameters means the function declares zero parameters.
	// Parameter-less evaluation is rejected rather than given an empty
	// binding.
	ErrNoParameters = errors.New("no parameters supplied")

	// ErrExpressionEvaluation means a dynamic expression failed to compile
	// or raised while evaluating.
	ErrExpressionEvaluation = errors.New("expression evaluation failed")

	// ErrMalformedRow means a row's value count doesn't match the declared
	// parameter count.
	ErrMalformedRow = errors.New("malformed row")
)
