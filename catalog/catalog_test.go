package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafn/tabcalc/functions"
	"github.com/datafn/tabcalc/tabcalc"
)

const testDefinitions = `{
  "functions": [
    {
      "id": 0,
      "name": "SumOfRows",
      "kind": "rowwise",
      "returnType": "numeric",
      "params": [
        {"name": "col1", "type": "numeric"},
        {"name": "col2", "type": "numeric"}
      ]
    },
    {
      "id": 2,
      "name": "MaxOfColumns",
      "kind": "table",
      "returnType": "numeric",
      "params": [
        {"name": "Max1", "type": "numeric"},
        {"name": "Max2", "type": "numeric"}
      ]
    }
  ]
}`

func TestParse(t *testing.T) {
	registry, err := Parse([]byte(testDefinitions), functions.FunctionMap())
	require.NoError(t, err)

	def, err := registry.Lookup("SumOfRows")
	require.NoError(t, err)
	assert.Equal(t, 0, def.ID)
	assert.Equal(t, tabcalc.KindRowWise, def.Kind)
	assert.Equal(t, tabcalc.Numeric, def.ReturnType)
	assert.Equal(t, []tabcalc.Type{tabcalc.Numeric, tabcalc.Numeric}, def.ArgumentTypes())
	require.NotNil(t, def.Computation.Row)

	def, err = registry.LookupID(2)
	require.NoError(t, err)
	assert.Equal(t, "MaxOfColumns", def.Name)
	assert.Equal(t, []string{"Max1", "Max2"}, def.FieldNames())
	require.NotNil(t, def.Computation.Columns)
}

func TestLookupUnknown(t *testing.T) {
	registry, err := Parse([]byte(testDefinitions), functions.FunctionMap())
	require.NoError(t, err)

	_, err = registry.Lookup("Nope")
	assert.True(t, errors.Is(err, ErrFunctionNotFound))

	_, err = registry.LookupID(42)
	assert.True(t, errors.Is(err, ErrFunctionNotFound))
}

func TestParseFailures(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "invalid json",
			data: `{"functions": [`,
		},
		{
			name: "missing functions list",
			data: `{}`,
		},
		{
			name: "invalid kind",
			data: `{"functions": [{"id": 0, "name": "SumOfRows", "kind": "sideways", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}]}`,
		},
		{
			name: "invalid parameter type",
			data: `{"functions": [{"id": 0, "name": "SumOfRows", "kind": "rowwise", "returnType": "numeric", "params": [{"name": "a", "type": "tensor"}]}]}`,
		},
		{
			name: "no registered computation",
			data: `{"functions": [{"id": 0, "name": "Unknown", "kind": "rowwise", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}]}`,
		},
		{
			name: "kind doesn't match computation",
			data: `{"functions": [{"id": 0, "name": "SumOfRows", "kind": "aggregate", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}]}`,
		},
		{
			name: "duplicate id",
			data: `{"functions": [{"id": 0, "name": "SumOfRows", "kind": "rowwise", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}, {"id": 0, "name": "SumOfColumn", "kind": "aggregate", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}]}`,
		},
		{
			name: "duplicate name",
			data: `{"functions": [{"id": 0, "name": "SumOfRows", "kind": "rowwise", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}, {"id": 1, "name": "SumOfRows", "kind": "rowwise", "returnType": "numeric", "params": [{"name": "a", "type": "numeric"}]}]}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), functions.FunctionMap())
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "functions.json")
	require.NoError(t, os.WriteFile(path, []byte(testDefinitions), 0644))

	registry, err := Load(path, functions.FunctionMap())
	require.NoError(t, err)
	assert.Len(t, registry.Definitions(), 2)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"), functions.FunctionMap())
	assert.Error(t, err)
}
