// Command generator is a stand-in text generator sidecar for local runs and e2e tests.
// It answers every prompt with a canned reply built from the last transcript line.
package main

import (
	"chat-courier/infrastructure/grpc/chatapi"
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"strings"

	"google.golang.org/grpc"
)

type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, req *chatapi.GenerateRequest) (*chatapi.GenerateResponse, error) {
	lines := strings.Split(strings.TrimSpace(req.Prompt), "\n")
	last := lines[len(lines)-1]
	if _, text, ok := strings.Cut(last, ": "); ok {
		last = text
	}
	return &chatapi.GenerateResponse{Text: fmt.Sprintf("About %q: sounds good!", last)}, nil
}

func main() {
	port := flag.String("port", "8082", "port to listen on")
	flag.Parse()

	address := ":" + *port
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer()
	chatapi.RegisterTextGeneratorServer(s, echoGenerator{})
	fmt.Printf("Mock text generator listening on %s\n", address)

	if err := s.Serve(lis); err != nil {
		log.Fatalf("Failed to serve: %v", err)
	}
}
