package server

import (
	"chat-courier/auth"
	"chat-courier/infrastructure/grpc/chatapi"
	"log/slog"

	sdkgrpc "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
)

// PublicMethods are served without a bearer token.
var PublicMethods = []string{
	chatapi.ChatService_Register_FullMethodName,
	chatapi.ChatService_Login_FullMethodName,
}

// NewGrpcServer builds a gRPC server guarded by the auth interceptors and registers the chat service on it.
func NewGrpcServer(log *slog.Logger, issuer *auth.TokenIssuer, chatServer chatapi.ChatServiceServer,
	opts ...grpc.ServerOption) *grpc.Server {
	interceptor := auth.NewInterceptor(issuer, PublicMethods...)
	opts = append(opts,
		grpc.ChainUnaryInterceptor(
			sdkgrpc.UnaryLoggingInterceptor(log),
			interceptor.Unary,
		),
		grpc.ChainStreamInterceptor(interceptor.Stream),
	)
	s := grpc.NewServer(opts...)
	chatapi.RegisterChatServiceServer(s, chatServer)
	return s
}
