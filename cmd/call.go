package cmd

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/datafn/tabcalc/wire"
)

var (
	callAddress   string
	callFunction  int
	callBatchSize int
)

// callCmd is a small diagnostic client: it streams CSV rows from stdin to a
// catalog function and renders the response as a table.
var callCmd = &cobra.Command{
	Use:           "call",
	Short:         "Stream CSV rows from stdin to a function and print the result.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, args []string) error {
		batches, err := readCSVBatches(os.Stdin, callBatchSize)
		if err != nil {
			return err
		}

		conn, err := grpc.Dial(callAddress, grpc.WithInsecure())
		if err != nil {
			return errors.Wrapf(err, "couldn't dial %s", callAddress)
		}
		defer conn.Close()

		header, err := json.Marshal(wire.FunctionRequestHeader{FunctionID: callFunction})
		if err != nil {
			return errors.Wrap(err, "couldn't marshal request header")
		}
		ctx := metadata.AppendToOutgoingContext(cmd.Context(), wire.FunctionRequestHeaderKey, string(header))

		client := wire.NewConnectorClient(conn)
		stream, err := client.ExecuteFunction(ctx)
		if err != nil {
			return errors.Wrap(err, "couldn't open stream")
		}
		for _, batch := range batches {
			if err := stream.Send(batch); err != nil {
				return errors.Wrap(err, "couldn't send batch")
			}
		}
		if err := stream.CloseSend(); err != nil {
			return errors.Wrap(err, "couldn't close send side")
		}

		table := tablewriter.NewWriter(os.Stdout)
		if fields := tableFields(stream); fields != nil {
			table.SetHeader(fields)
			table.SetAutoFormatHeaders(false)
		}
		for {
			batch, err := stream.Recv()
			if err == io.EOF {
				break
			}
			if err != nil {
				return errors.Wrap(err, "couldn't receive batch")
			}
			for _, row := range batch.Rows {
				out := make([]string, len(row.Duals))
				for i := range row.Duals {
					out[i] = strconv.FormatFloat(row.Duals[i].NumData, 'g', -1, 64)
				}
				table.Append(out)
			}
		}
		table.Render()
		return nil
	},
}

func tableFields(stream wire.Connector_ExecuteFunctionClient) []string {
	md, err := stream.Header()
	if err != nil {
		return nil
	}
	values := md.Get(wire.TableDescriptionKey)
	if len(values) == 0 {
		return nil
	}
	var description wire.TableDescription
	if err := json.Unmarshal([]byte(values[0]), &description); err != nil {
		return nil
	}
	fields := make([]string, len(description.Fields))
	for i := range description.Fields {
		fields[i] = description.Fields[i].Name
	}
	return fields
}

func readCSVBatches(r io.Reader, batchSize int) ([]*wire.BundledRows, error) {
	reader := csv.NewReader(r)
	var batches []*wire.BundledRows
	current := &wire.BundledRows{}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "couldn't read csv input")
		}
		duals := make([]wire.Dual, len(record))
		for i := range record {
			value, err := strconv.ParseFloat(record[i], 64)
			if err != nil {
				return nil, errors.Wrapf(err, "couldn't parse %q as a number", record[i])
			}
			duals[i] = wire.Dual{NumData: value}
		}
		current.Rows = append(current.Rows, wire.RowData{Duals: duals})
		if len(current.Rows) >= batchSize {
			batches = append(batches, current)
			current = &wire.BundledRows{}
		}
	}
	if len(current.Rows) > 0 {
		batches = append(batches, current)
	}
	return batches, nil
}

func init() {
	callCmd.Flags().StringVar(&callAddress, "address", "localhost:50051", "server address")
	callCmd.Flags().IntVar(&callFunction, "function", 0, "catalog function id")
	callCmd.Flags().IntVar(&callBatchSize, "batch-size", 100, "rows per request batch")
	rootCmd.AddCommand(callCmd)
}
