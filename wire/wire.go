// Package wire defines the Connector wire protocol: the row-batch messages
// exchanged on the stream, the out-of-band request and table-description
// headers carried as gRPC metadata, and the mapping between the wire
// representation and the in-memory execution model.
package wire

import (
	"encoding/json"
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/tabcalc"
)

// Metadata keys for the out-of-band headers. The -bin suffix makes gRPC
// transport them as binary metadata.
const (
	FunctionRequestHeaderKey = "tabcalc-functionrequestheader-bin"
	ScriptRequestHeaderKey   = "tabcalc-scriptrequestheader-bin"
	TableDescriptionKey      = "tabcalc-tabledescription-bin"
)

// Wire tags for scalar data types.
const (
	DataTypeString  = 0
	DataTypeNumeric = 1
	DataTypeDual    = 2
)

// Wire tags for function kinds.
const (
	FunctionTypeRowWise   = 0
	FunctionTypeAggregate = 1
	FunctionTypeTable     = 2
)

// Dual is the wire scalar. A cell may carry a numeric payload, a string
// payload, or both; which one is meaningful is decided by the declared
// parameter type, not by the cell itself.
type Dual struct {
	NumData float64 `json:"numData"`
	StrData string  `json:"strData,omitempty"`
}

// dualJSON carries numData as either a number or, for non-finite values JSON
// has no literal for, the strconv string form ("+Inf", "-Inf", "NaN").
type dualJSON struct {
	NumData interface{} `json:"numData"`
	StrData string      `json:"strData,omitempty"`
}

func (d Dual) MarshalJSON() ([]byte, error) {
	out := dualJSON{NumData: d.NumData, StrData: d.StrData}
	if math.IsInf(d.NumData, 0) || math.IsNaN(d.NumData) {
		out.NumData = strconv.FormatFloat(d.NumData, 'g', -1, 64)
	}
	return json.Marshal(out)
}

func (d *Dual) UnmarshalJSON(data []byte) error {
	var raw dualJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.StrData = raw.StrData
	switch num := raw.NumData.(type) {
	case nil:
		d.NumData = 0
	case float64:
		d.NumData = num
	case string:
		value, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return errors.Wrapf(err, "invalid numData %q", num)
		}
		d.NumData = value
	default:
		return errors.Errorf("invalid numData of type %T", raw.NumData)
	}
	return nil
}

type RowData struct {
	Duals []Dual `json:"duals"`
}

// BundledRows is one chunk of the streamed table, in both directions.
type BundledRows struct {
	Rows []RowData `json:"rows"`
}

type Parameter struct {
	Name     string `json:"name"`
	DataType int    `json:"dataType"`
}

// FunctionRequestHeader accompanies an ExecuteFunction stream and names the
// catalog function to run.
type FunctionRequestHeader struct {
	FunctionID int `json:"functionId"`
}

// ScriptRequestHeader accompanies an EvaluateScript stream and carries the
// formula text together with its declared shape.
type ScriptRequestHeader struct {
	Script       string      `json:"script"`
	FunctionType int         `json:"functionType"`
	ReturnType   int         `json:"returnType"`
	Params       []Parameter `json:"params"`
}

type FieldDescription struct {
	Name     string `json:"name"`
	DataType int    `json:"dataType"`
}

// TableDescription is sent back as header metadata before the first data
// batch of a table-returning function.
type TableDescription struct {
	Fields       []FieldDescription `json:"fields"`
	NumberOfRows int                `json:"numberOfRows"`
}

func TypeFromWire(tag int) (tabcalc.Type, bool) {
	switch tag {
	case DataTypeString:
		return tabcalc.String, true
	case DataTypeNumeric:
		return tabcalc.Numeric, true
	case DataTypeDual:
		return tabcalc.Dual, true
	default:
		return tabcalc.Type{}, false
	}
}

func TypeToWire(t tabcalc.Type) int {
	switch t.TypeID {
	case tabcalc.TypeIDString:
		return DataTypeString
	case tabcalc.TypeIDDual:
		return DataTypeDual
	default:
		return DataTypeNumeric
	}
}

func FunctionKindFromWire(tag int) (tabcalc.FunctionKind, bool) {
	switch tag {
	case FunctionTypeRowWise:
		return tabcalc.KindRowWise, true
	case FunctionTypeAggregate:
		return tabcalc.KindAggregate, true
	case FunctionTypeTable:
		return tabcalc.KindTable, true
	default:
		return 0, false
	}
}

func FunctionKindToWire(kind tabcalc.FunctionKind) int {
	switch kind {
	case tabcalc.KindAggregate:
		return FunctionTypeAggregate
	case tabcalc.KindTable:
		return FunctionTypeTable
	default:
		return FunctionTypeRowWise
	}
}

// ToNativeBatch converts a wire batch to the in-memory model, preserving row
// order. Every dual becomes a dual-tagged value; the parameter extractor
// projects the payload the declared type asks for.
func (x *BundledRows) ToNativeBatch() execution.RowBatch {
	rows := make([]execution.Row, len(x.Rows))
	for i := range x.Rows {
		values := make([]tabcalc.Value, len(x.Rows[i].Duals))
		for j := range x.Rows[i].Duals {
			values[j] = tabcalc.NewDual(x.Rows[i].Duals[j].NumData, x.Rows[i].Duals[j].StrData)
		}
		rows[i] = execution.NewRow(values)
	}
	return execution.NewRowBatch(rows)
}

func NativeBatchToWire(batch execution.RowBatch) *BundledRows {
	rows := make([]RowData, len(batch.Rows))
	for i := range batch.Rows {
		duals := make([]Dual, len(batch.Rows[i].Values))
		for j := range batch.Rows[i].Values {
			duals[j] = Dual{
				NumData: batch.Rows[i].Values[j].Num,
				StrData: batch.Rows[i].Values[j].Str,
			}
		}
		rows[i] = RowData{Duals: duals}
	}
	return &BundledRows{Rows: rows}
}

func NativeTableDescriptionToWire(table *tabcalc.TableDescription) *TableDescription {
	fields := make([]FieldDescription, len(table.Fields))
	for i := range table.Fields {
		fields[i] = FieldDescription{
			Name:     table.Fields[i].Name,
			DataType: TypeToWire(table.Fields[i].Type),
		}
	}
	return &TableDescription{
		Fields:       fields,
		NumberOfRows: table.NumberOfRows,
	}
}

func (x *TableDescription) ToNative() *tabcalc.TableDescription {
	fields := make([]tabcalc.TableField, len(x.Fields))
	for i := range x.Fields {
		fieldType, _ := TypeFromWire(x.Fields[i].DataType)
		fields[i] = tabcalc.TableField{
			Name: x.Fields[i].Name,
			Type: fieldType,
		}
	}
	return &tabcalc.TableDescription{
		Fields:       fields,
		NumberOfRows: x.NumberOfRows,
	}
}
