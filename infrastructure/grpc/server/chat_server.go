package server

import (
	"chat-courier/auth"
	"chat-courier/domain/chat"
	"chat-courier/errors"
	"chat-courier/infrastructure/grpc/chatapi"
	"chat-courier/services"
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ChatServer struct {
	log                  *slog.Logger
	chatService          services.IChatService
	authService          services.IAuthService
	readTracker          services.IReadStateTracker
	assistant            services.IAssistantService
	upload               services.IUploadService
	connectionBufferSize int
}

func NewChatServer(log *slog.Logger, chatService services.IChatService, authService services.IAuthService,
	readTracker services.IReadStateTracker, assistant services.IAssistantService,
	upload services.IUploadService, connectionBufferSize int) *ChatServer {
	return &ChatServer{
		log:                  log,
		chatService:          chatService,
		authService:          authService,
		readTracker:          readTracker,
		assistant:            assistant,
		upload:               upload,
		connectionBufferSize: connectionBufferSize,
	}
}

func (s *ChatServer) Register(ctx context.Context, req *chatapi.RegisterRequest) (*chatapi.TokenResponse, error) {
	session, err := s.authService.Register(ctx, services.RegisterCommand{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Image:     req.Image,
		Color:     req.Color,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.TokenResponse{Token: string(session.Token), UserID: session.UserID}, nil
}

func (s *ChatServer) Login(ctx context.Context, req *chatapi.LoginRequest) (*chatapi.TokenResponse, error) {
	session, err := s.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.TokenResponse{Token: string(session.Token), UserID: session.UserID}, nil
}

// SendMessage stores the message and pushes it to every live participant,
// the sender's own connections included, before returning.
func (s *ChatServer) SendMessage(ctx context.Context, req *chatapi.SendMessageRequest) (*chatapi.MessageResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.chatService.SendMessage(ctx, toSendCommand(userID, req))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.MessageResponse{Message: toMessage(message)}, nil
}

func (s *ChatServer) ScheduleMessage(ctx context.Context, req *chatapi.ScheduleMessageRequest) (*chatapi.MessageResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	message, err := s.chatService.ScheduleMessage(ctx, chat.ScheduleMessageCommand{
		SendMessageCommand: toSendCommand(userID, &req.SendMessageRequest),
		ScheduledAt:        req.ScheduledAt,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.MessageResponse{Message: toMessage(message)}, nil
}

func (s *ChatServer) GetMessages(ctx context.Context, req *chatapi.GetMessagesRequest) (*chatapi.GetMessagesResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatService.GetConversation(ctx, chat.GetConversationCommand{Reader: userID, Other: req.ID})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.GetMessagesResponse{Messages: toMessages(messages)}, nil
}

func (s *ChatServer) GetGroupMessages(ctx context.Context, req *chatapi.GetGroupMessagesRequest) (*chatapi.GetMessagesResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	messages, err := s.chatService.GetGroupConversation(ctx, chat.GetGroupConversationCommand{
		Reader:  userID,
		GroupID: req.GroupID,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.GetMessagesResponse{Messages: toMessages(messages)}, nil
}

func (s *ChatServer) CreateGroup(ctx context.Context, req *chatapi.CreateGroupRequest) (*chatapi.GroupResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	group, err := s.chatService.CreateGroup(ctx, chat.CreateGroupCommand{
		Admin:   userID,
		Name:    req.Name,
		Members: req.Members,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return toGroupResponse(group), nil
}

func (s *ChatServer) MarkRead(ctx context.Context, req *chatapi.MarkReadRequest) (*chatapi.MarkReadResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	updated, err := s.readTracker.MarkRead(ctx, chat.MarkReadCommand{Reader: userID, Other: req.ID})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.MarkReadResponse{Updated: updated}, nil
}

func (s *ChatServer) UploadFile(ctx context.Context, req *chatapi.UploadFileRequest) (*chatapi.UploadFileResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	file, err := s.upload.UploadFile(ctx, chat.UploadFileCommand{
		Owner:    userID,
		FileName: req.FileName,
		Data:     req.Data,
	})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.UploadFileResponse{FilePath: file.URL, MimeType: file.MimeType}, nil
}

func (s *ChatServer) SmartReply(ctx context.Context, req *chatapi.AssistantRequest) (*chatapi.AssistantResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	text, err := s.assistant.SmartReply(ctx, chat.AssistantCommand{Reader: userID, Other: req.ID})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.AssistantResponse{Text: text}, nil
}

func (s *ChatServer) SummarizeChat(ctx context.Context, req *chatapi.AssistantRequest) (*chatapi.AssistantResponse, error) {
	userID, err := currentUser(ctx)
	if err != nil {
		return nil, err
	}
	text, err := s.assistant.Summarize(ctx, chat.AssistantCommand{Reader: userID, Other: req.ID})
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &chatapi.AssistantResponse{Text: text}, nil
}

// Connect registers the stream as a live connection of the caller and forwards
// every delivery routed to it. It blocks until the client goes away.
// The connection is always unregistered on return so presence never keeps a dead handle.
func (s *ChatServer) Connect(_ *chatapi.ConnectRequest, stream chatapi.ChatService_ConnectServer) error {
	userID, err := currentUser(stream.Context())
	if err != nil {
		return err
	}
	conn := NewStreamConnection(s.connectionBufferSize)
	s.chatService.Connect(userID, conn)
	defer func() {
		conn.Close()
		s.chatService.Disconnect(conn)
	}()

	for {
		select {
		case <-stream.Context().Done():
			s.log.Debug("Client disconnected", "user_id", userID, "connection_id", conn.ID())
			return nil
		case delivery := <-conn.Deliveries():
			if err := stream.Send(toChatEvent(delivery)); err != nil {
				s.log.Error("Failed to push event to stream",
					"user_id", userID,
					"connection_id", conn.ID(),
					"error", err)
				return err
			}
		}
	}
}

func currentUser(ctx context.Context) (string, error) {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return "", status.Error(codes.Unauthenticated, "user identity is missing")
	}
	return userID, nil
}

func toSendCommand(userID string, req *chatapi.SendMessageRequest) chat.SendMessageCommand {
	return chat.SendMessageCommand{
		Sender:      userID,
		Recipient:   req.Recipient,
		GroupID:     req.GroupID,
		MessageType: req.MessageType,
		Content:     req.Content,
		FileURL:     req.FileURL,
	}
}
