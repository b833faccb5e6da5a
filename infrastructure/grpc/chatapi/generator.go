package chatapi

import (
	"context"

	"google.golang.org/grpc"
)

const TextGeneratorServiceName = "assistant.v1.TextGenerator"

const TextGenerator_Generate_FullMethodName = "/assistant.v1.TextGenerator/Generate"

// TextGeneratorServer is implemented by the language model sidecar.
type TextGeneratorServer interface {
	Generate(context.Context, *GenerateRequest) (*GenerateResponse, error)
}

func RegisterTextGeneratorServer(s grpc.ServiceRegistrar, srv TextGeneratorServer) {
	s.RegisterService(&TextGenerator_ServiceDesc, srv)
}

var TextGenerator_ServiceDesc = grpc.ServiceDesc{
	ServiceName: TextGeneratorServiceName,
	HandlerType: (*TextGeneratorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(TextGeneratorServiceName, "Generate", TextGeneratorServer.Generate),
	},
	Metadata: "assistant/v1/generator.json",
}

type TextGeneratorClient interface {
	Generate(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*GenerateResponse, error)
}

type textGeneratorClient struct {
	cc grpc.ClientConnInterface
}

func NewTextGeneratorClient(cc grpc.ClientConnInterface) TextGeneratorClient {
	return &textGeneratorClient{cc}
}

func (c *textGeneratorClient) Generate(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*GenerateResponse, error) {
	return invoke[GenerateResponse](ctx, c.cc, TextGenerator_Generate_FullMethodName, in, opts)
}
