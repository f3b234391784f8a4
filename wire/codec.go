package wire

import (
	"encoding/json"
)

// Codec is the gRPC message codec for the Connector service. Messages are
// hand-defined Go structs rather than generated protobufs, so they travel as
// JSON. It satisfies google.golang.org/grpc/encoding.Codec.
type Codec struct{}

func (Codec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (Codec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (Codec) Name() string {
	return "tabcalc-json"
}
