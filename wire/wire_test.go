package wire

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datafn/tabcalc/tabcalc"
)

func TestBatchRoundTrip(t *testing.T) {
	in := &BundledRows{
		Rows: []RowData{
			{Duals: []Dual{{NumData: 1}, {NumData: 2, StrData: "two"}}},
			{Duals: []Dual{{NumData: 3}, {NumData: 4}}},
		},
	}

	batch := in.ToNativeBatch()
	require.Len(t, batch.Rows, 2)
	assert.Equal(t, 1.0, batch.Rows[0].Values[0].Num)
	assert.Equal(t, "two", batch.Rows[0].Values[1].Str)
	assert.Equal(t, 4.0, batch.Rows[1].Values[1].Num)

	out := NativeBatchToWire(batch)
	assert.Equal(t, in, out)
}

func TestBatchOrderPreserved(t *testing.T) {
	in := &BundledRows{}
	for i := 0; i < 100; i++ {
		in.Rows = append(in.Rows, RowData{Duals: []Dual{{NumData: float64(i)}}})
	}
	batch := in.ToNativeBatch()
	for i := range batch.Rows {
		assert.Equal(t, float64(i), batch.Rows[i].Values[0].Num)
	}
}

func TestTypeTags(t *testing.T) {
	for _, typ := range []tabcalc.Type{tabcalc.String, tabcalc.Numeric, tabcalc.Dual} {
		back, ok := TypeFromWire(TypeToWire(typ))
		require.True(t, ok)
		assert.Equal(t, typ, back)
	}
	_, ok := TypeFromWire(42)
	assert.False(t, ok)
}

func TestFunctionKindTags(t *testing.T) {
	for _, kind := range []tabcalc.FunctionKind{tabcalc.KindRowWise, tabcalc.KindAggregate, tabcalc.KindTable} {
		back, ok := FunctionKindFromWire(FunctionKindToWire(kind))
		require.True(t, ok)
		assert.Equal(t, kind, back)
	}
	_, ok := FunctionKindFromWire(42)
	assert.False(t, ok)
}

func TestTableDescriptionConversion(t *testing.T) {
	native := &tabcalc.TableDescription{
		Fields: []tabcalc.TableField{
			{Name: "Max1", Type: tabcalc.Numeric},
			{Name: "Max2", Type: tabcalc.Numeric},
		},
		NumberOfRows: 1,
	}
	assert.Equal(t, native, NativeTableDescriptionToWire(native).ToNative())
}

func TestCodec(t *testing.T) {
	in := &BundledRows{Rows: []RowData{{Duals: []Dual{{NumData: 1.5}}}}}
	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	out := new(BundledRows)
	require.NoError(t, Codec{}.Unmarshal(data, out))
	assert.Equal(t, in, out)
}

func TestCodecNonFiniteValues(t *testing.T) {
	in := &BundledRows{Rows: []RowData{{Duals: []Dual{
		{NumData: math.Inf(-1)},
		{NumData: math.Inf(1)},
		{NumData: math.NaN()},
		{NumData: 1.5, StrData: "finite"},
	}}}}

	data, err := Codec{}.Marshal(in)
	require.NoError(t, err)

	out := new(BundledRows)
	require.NoError(t, Codec{}.Unmarshal(data, out))
	require.Len(t, out.Rows, 1)
	duals := out.Rows[0].Duals
	require.Len(t, duals, 4)
	assert.True(t, math.IsInf(duals[0].NumData, -1))
	assert.True(t, math.IsInf(duals[1].NumData, 1))
	assert.True(t, math.IsNaN(duals[2].NumData))
	assert.Equal(t, Dual{NumData: 1.5, StrData: "finite"}, duals[3])
}
