package wire

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "tabcalc.Connector"

// ConnectorServer is the server API for the Connector service. Both methods
// are bidirectional streams of BundledRows; the request details arrive as
// metadata headers rather than stream messages.
type ConnectorServer interface {
	// ExecuteFunction runs a catalog function named by the
	// FunctionRequestHeader metadata over the inbound stream.
	ExecuteFunction(Connector_ExecuteFunctionServer) error
	// EvaluateScript runs the formula carried by the ScriptRequestHeader
	// metadata over the inbound stream.
	EvaluateScript(Connector_EvaluateScriptServer) error
}

type Connector_ExecuteFunctionServer interface {
	Send(*BundledRows) error
	Recv() (*BundledRows, error)
	grpc.ServerStream
}

type connectorExecuteFunctionServer struct {
	grpc.ServerStream
}

func (x *connectorExecuteFunctionServer) Send(m *BundledRows) error {
	return x.ServerStream.SendMsg(m)
}

func (x *connectorExecuteFunctionServer) Recv() (*BundledRows, error) {
	m := new(BundledRows)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type Connector_EvaluateScriptServer interface {
	Send(*BundledRows) error
	Recv() (*BundledRows, error)
	grpc.ServerStream
}

type connectorEvaluateScriptServer struct {
	grpc.ServerStream
}

func (x *connectorEvaluateScriptServer) Send(m *BundledRows) error {
	return x.ServerStream.SendMsg(m)
}

func (x *connectorEvaluateScriptServer) Recv() (*BundledRows, error) {
	m := new(BundledRows)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func _Connector_ExecuteFunction_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ConnectorServer).ExecuteFunction(&connectorExecuteFunctionServer{stream})
}

func _Connector_EvaluateScript_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(ConnectorServer).EvaluateScript(&connectorEvaluateScriptServer{stream})
}

// ConnectorServiceDesc is the hand-written service descriptor. There's no
// generated code for this service; the codec above carries the messages.
var ConnectorServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConnectorServer)(nil),
	Methods:     []grpc.MethodDesc{},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ExecuteFunction",
			Handler:       _Connector_ExecuteFunction_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
		{
			StreamName:    "EvaluateScript",
			Handler:       _Connector_EvaluateScript_Handler,
			ServerStreams: true,
			ClientStreams: true,
		},
	},
	Metadata: "wire/service.go",
}

func RegisterConnectorServer(s grpc.ServiceRegistrar, srv ConnectorServer) {
	s.RegisterService(&ConnectorServiceDesc, srv)
}

// ConnectorClient is the client API for the Connector service.
type ConnectorClient interface {
	ExecuteFunction(ctx context.Context, opts ...grpc.CallOption) (Connector_ExecuteFunctionClient, error)
	EvaluateScript(ctx context.Context, opts ...grpc.CallOption) (Connector_EvaluateScriptClient, error)
}

type connectorClient struct {
	cc grpc.ClientConnInterface
}

func NewConnectorClient(cc grpc.ClientConnInterface) ConnectorClient {
	return &connectorClient{cc: cc}
}

func (c *connectorClient) ExecuteFunction(ctx context.Context, opts ...grpc.CallOption) (Connector_ExecuteFunctionClient, error) {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &ConnectorServiceDesc.Streams[0], "/"+ServiceName+"/ExecuteFunction", opts...)
	if err != nil {
		return nil, err
	}
	return &connectorExecuteFunctionClient{stream}, nil
}

func (c *connectorClient) EvaluateScript(ctx context.Context, opts ...grpc.CallOption) (Connector_EvaluateScriptClient, error) {
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	stream, err := c.cc.NewStream(ctx, &ConnectorServiceDesc.Streams[1], "/"+ServiceName+"/EvaluateScript", opts...)
	if err != nil {
		return nil, err
	}
	return &connectorEvaluateScriptClient{stream}, nil
}

type Connector_ExecuteFunctionClient interface {
	Send(*BundledRows) error
	Recv() (*BundledRows, error)
	grpc.ClientStream
}

type connectorExecuteFunctionClient struct {
	grpc.ClientStream
}

func (x *connectorExecuteFunctionClient) Send(m *BundledRows) error {
	return x.ClientStream.SendMsg(m)
}

func (x *connectorExecuteFunctionClient) Recv() (*BundledRows, error) {
	m := new(BundledRows)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

type Connector_EvaluateScriptClient interface {
	Send(*BundledRows) error
	Recv() (*BundledRows, error)
	grpc.ClientStream
}

type connectorEvaluateScriptClient struct {
	grpc.ClientStream
}

func (x *connectorEvaluateScriptClient) Send(m *BundledRows) error {
	return x.ClientStream.SendMsg(m)
}

func (x *connectorEvaluateScriptClient) Recv() (*BundledRows, error) {
	m := new(BundledRows)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}
