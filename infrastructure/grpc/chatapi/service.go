package chatapi

import (
	"context"

	"google.golang.org/grpc"
)

const ChatServiceName = "chat.v1.ChatService"

const (
	ChatService_Register_FullMethodName         = "/chat.v1.ChatService/Register"
	ChatService_Login_FullMethodName            = "/chat.v1.ChatService/Login"
	ChatService_SendMessage_FullMethodName      = "/chat.v1.ChatService/SendMessage"
	ChatService_ScheduleMessage_FullMethodName  = "/chat.v1.ChatService/ScheduleMessage"
	ChatService_GetMessages_FullMethodName      = "/chat.v1.ChatService/GetMessages"
	ChatService_GetGroupMessages_FullMethodName = "/chat.v1.ChatService/GetGroupMessages"
	ChatService_CreateGroup_FullMethodName      = "/chat.v1.ChatService/CreateGroup"
	ChatService_MarkRead_FullMethodName         = "/chat.v1.ChatService/MarkRead"
	ChatService_UploadFile_FullMethodName       = "/chat.v1.ChatService/UploadFile"
	ChatService_SmartReply_FullMethodName       = "/chat.v1.ChatService/SmartReply"
	ChatService_SummarizeChat_FullMethodName    = "/chat.v1.ChatService/SummarizeChat"
	ChatService_Connect_FullMethodName          = "/chat.v1.ChatService/Connect"
)

// ChatServiceServer is the server API for the chat service.
type ChatServiceServer interface {
	Register(context.Context, *RegisterRequest) (*TokenResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*MessageResponse, error)
	ScheduleMessage(context.Context, *ScheduleMessageRequest) (*MessageResponse, error)
	GetMessages(context.Context, *GetMessagesRequest) (*GetMessagesResponse, error)
	GetGroupMessages(context.Context, *GetGroupMessagesRequest) (*GetMessagesResponse, error)
	CreateGroup(context.Context, *CreateGroupRequest) (*GroupResponse, error)
	MarkRead(context.Context, *MarkReadRequest) (*MarkReadResponse, error)
	UploadFile(context.Context, *UploadFileRequest) (*UploadFileResponse, error)
	SmartReply(context.Context, *AssistantRequest) (*AssistantResponse, error)
	SummarizeChat(context.Context, *AssistantRequest) (*AssistantResponse, error)
	Connect(*ConnectRequest, ChatService_ConnectServer) error
}

// ChatService_ConnectServer is the server side of the live delivery stream.
type ChatService_ConnectServer interface {
	Send(*ChatEvent) error
	grpc.ServerStream
}

type chatServiceConnectServer struct {
	grpc.ServerStream
}

func (x *chatServiceConnectServer) Send(m *ChatEvent) error {
	return x.ServerStream.SendMsg(m)
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ChatServiceName,
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(ChatServiceName, "Register", ChatServiceServer.Register),
		unary(ChatServiceName, "Login", ChatServiceServer.Login),
		unary(ChatServiceName, "SendMessage", ChatServiceServer.SendMessage),
		unary(ChatServiceName, "ScheduleMessage", ChatServiceServer.ScheduleMessage),
		unary(ChatServiceName, "GetMessages", ChatServiceServer.GetMessages),
		unary(ChatServiceName, "GetGroupMessages", ChatServiceServer.GetGroupMessages),
		unary(ChatServiceName, "CreateGroup", ChatServiceServer.CreateGroup),
		unary(ChatServiceName, "MarkRead", ChatServiceServer.MarkRead),
		unary(ChatServiceName, "UploadFile", ChatServiceServer.UploadFile),
		unary(ChatServiceName, "SmartReply", ChatServiceServer.SmartReply),
		unary(ChatServiceName, "SummarizeChat", ChatServiceServer.SummarizeChat),
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       connectHandler,
			ServerStreams: true,
		},
	},
	Metadata: "chat/v1/chat.json",
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	m := new(ConnectRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(ChatServiceServer).Connect(m, &chatServiceConnectServer{stream})
}

// unary adapts a typed server method to a grpc.MethodDesc, running the interceptor chain.
func unary[S any, Req any, Resp any](service, name string,
	call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(S), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(S), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ChatServiceClient is the client API for the chat service.
type ChatServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	ScheduleMessage(ctx context.Context, in *ScheduleMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error)
	GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error)
	GetGroupMessages(ctx context.Context, in *GetGroupMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error)
	CreateGroup(ctx context.Context, in *CreateGroupRequest, opts ...grpc.CallOption) (*GroupResponse, error)
	MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*MarkReadResponse, error)
	UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error)
	SmartReply(ctx context.Context, in *AssistantRequest, opts ...grpc.CallOption) (*AssistantResponse, error)
	SummarizeChat(ctx context.Context, in *AssistantRequest, opts ...grpc.CallOption) (*AssistantResponse, error)
	Connect(ctx context.Context, in *ConnectRequest, opts ...grpc.CallOption) (ChatService_ConnectClient, error)
}

type ChatService_ConnectClient interface {
	Recv() (*ChatEvent, error)
	grpc.ClientStream
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc}
}

func (c *chatServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, ChatService_Register_FullMethodName, in, opts)
}

func (c *chatServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, ChatService_Login_FullMethodName, in, opts)
}

func (c *chatServiceClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_SendMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) ScheduleMessage(ctx context.Context, in *ScheduleMessageRequest, opts ...grpc.CallOption) (*MessageResponse, error) {
	return invoke[MessageResponse](ctx, c.cc, ChatService_ScheduleMessage_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetMessages(ctx context.Context, in *GetMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error) {
	return invoke[GetMessagesResponse](ctx, c.cc, ChatService_GetMessages_FullMethodName, in, opts)
}

func (c *chatServiceClient) GetGroupMessages(ctx context.Context, in *GetGroupMessagesRequest, opts ...grpc.CallOption) (*GetMessagesResponse, error) {
	return invoke[GetMessagesResponse](ctx, c.cc, ChatService_GetGroupMessages_FullMethodName, in, opts)
}

func (c *chatServiceClient) CreateGroup(ctx context.Context, in *CreateGroupRequest, opts ...grpc.CallOption) (*GroupResponse, error) {
	return invoke[GroupResponse](ctx, c.cc, ChatService_CreateGroup_FullMethodName, in, opts)
}

func (c *chatServiceClient) MarkRead(ctx context.Context, in *MarkReadRequest, opts ...grpc.CallOption) (*MarkReadResponse, error) {
	return invoke[MarkReadResponse](ctx, c.cc, ChatService_MarkRead_FullMethodName, in, opts)
}

func (c *chatServiceClient) UploadFile(ctx context.Context, in *UploadFileRequest, opts ...grpc.CallOption) (*UploadFileResponse, error) {
	return invoke[UploadFileResponse](ctx, c.cc, ChatService_UploadFile_FullMethodName, in, opts)
}

func (c *chatServiceClient) SmartReply(ctx context.Context, in *AssistantRequest, opts ...grpc.CallOption) (*AssistantResponse, error) {
	return invoke[AssistantResponse](ctx, c.cc, ChatService_SmartReply_FullMethodName, in, opts)
}

func (c *chatServiceClient) SummarizeChat(ctx context.Context, in *AssistantRequest, opts ...grpc.CallOption) (*AssistantResponse, error) {
	return invoke[AssistantResponse](ctx, c.cc, ChatService_SummarizeChat_FullMethodName, in, opts)
}

func (c *chatServiceClient) Connect(ctx context.Context, in *ConnectRequest, opts ...grpc.CallOption) (ChatService_ConnectClient, error) {
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_Connect_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &chatServiceConnectClient{stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

type chatServiceConnectClient struct {
	grpc.ClientStream
}

func (x *chatServiceConnectClient) Recv() (*ChatEvent, error) {
	m := new(ChatEvent)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{CallOption()}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
