package client

import (
	"chat-courier/infrastructure/grpc/chatapi"
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// GeneratorClient forwards prompts to the text generator sidecar.
type GeneratorClient struct {
	conn   *grpc.ClientConn
	client chatapi.TextGeneratorClient
}

func NewGeneratorClient(addr string) (*GeneratorClient, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("unable to reach text generator at %s: %w", addr, err)
	}
	return &GeneratorClient{conn: conn, client: chatapi.NewTextGeneratorClient(conn)}, nil
}

// NewGeneratorClientFromConn reuses an existing connection.
func NewGeneratorClientFromConn(cc grpc.ClientConnInterface) *GeneratorClient {
	return &GeneratorClient{client: chatapi.NewTextGeneratorClient(cc)}
}

func (g *GeneratorClient) Generate(ctx context.Context, prompt string) (string, error) {
	response, err := g.client.Generate(ctx, &chatapi.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return response.Text, nil
}

func (g *GeneratorClient) Close() error {
	if g.conn == nil {
		return nil
	}
	return g.conn.Close()
}
