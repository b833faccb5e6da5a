package server

import (
	"chat-courier/auth"
	"chat-courier/infrastructure/grpc/chatapi"
	"chat-courier/internal/clock"
	"chat-courier/mocks"
	"chat-courier/repositories"
	"chat-courier/runtime"
	"chat-courier/services"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type harness struct {
	client   chatapi.ChatServiceClient
	presence *runtime.Presence
	clock    *clock.Manual
}

// newHarness serves the full chat stack over an in-memory listener.
func newHarness(t *testing.T) harness {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	manual := clock.NewManual(time.Now().UTC())
	messages := repositories.NewMessageRepository(db, log, manual)
	groups := repositories.NewGroupRepository(db, manual)
	users := repositories.NewUserRepository(db, manual)
	presence := runtime.NewPresence()
	router := runtime.NewDeliveryRouter(log, presence, users, time.Second)
	resolver := runtime.NewParticipantResolver(groups)

	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	chatService := services.NewChatService(log, messages, groups, presence, router, resolver, manual)
	generator := mocks.NewMockITextGenerator(gomock.NewController(t))
	generator.EXPECT().Generate(gomock.Any(), gomock.Any()).Return("See you there!", nil).AnyTimes()
	chatServer := NewChatServer(log, chatService,
		services.NewAuthService(users, issuer),
		services.NewReadStateTracker(log, messages),
		services.NewAssistantService(log, messages, users, generator, 20, time.Second),
		services.NewUploadService(log, mocks.NewMockIObjectStore(gomock.NewController(t)), 1024),
		8)

	lis := bufconn.Listen(1 << 20)
	srv := NewGrpcServer(log, issuer, chatServer)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return harness{client: chatapi.NewChatServiceClient(conn), presence: presence, clock: manual}
}

func (h harness) register(t *testing.T, name string) (context.Context, string) {
	t.Helper()
	response, err := h.client.Register(context.Background(), &chatapi.RegisterRequest{
		Email: name + "@courier.test", Password: "Str0ng!Passw0rd", FirstName: name,
	})
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+response.Token)
	return ctx, response.UserID
}

func Test_Calls_Without_Token_Are_Rejected(t *testing.T) {
	h := newHarness(t)

	_, err := h.client.SendMessage(context.Background(), &chatapi.SendMessageRequest{Recipient: "bob", Content: "hi"})
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func Test_Direct_Message_Flow(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	aliceCtx, aliceID := h.register(t, "alice")
	bobCtx, bobID := h.register(t, "bob")

	// Given Bob is connected
	streamCtx, cancel := context.WithCancel(bobCtx)
	defer cancel()
	stream, err := h.client.Connect(streamCtx, &chatapi.ConnectRequest{})
	req.NoError(err)
	req.Eventually(func() bool { return h.presence.IsOnline(bobID) }, time.Second, 10*time.Millisecond)

	// When Alice sends him a message
	sent, err := h.client.SendMessage(aliceCtx, &chatapi.SendMessageRequest{Recipient: bobID, Content: "hi bob"})
	req.NoError(err)
	req.Equal("sent", sent.Message.Status)
	req.Equal(aliceID, sent.Message.Sender)

	// Then it arrives on his stream with Alice's profile
	event, err := stream.Recv()
	req.NoError(err)
	req.Equal(chatapi.EventReceiveMessage, event.Event)
	req.Equal(sent.Message.ID, event.Message.ID)
	req.Equal("alice", event.Sender.FirstName)

	// And reading it marks one message
	read, err := h.client.MarkRead(bobCtx, &chatapi.MarkReadRequest{ID: aliceID})
	req.NoError(err)
	req.Equal(1, read.Updated)

	history, err := h.client.GetMessages(aliceCtx, &chatapi.GetMessagesRequest{ID: bobID})
	req.NoError(err)
	req.Len(history.Messages, 1)
	req.Equal("read", history.Messages[0].Status)

	reply, err := h.client.SmartReply(bobCtx, &chatapi.AssistantRequest{ID: aliceID})
	req.NoError(err)
	req.Equal("See you there!", reply.Text)

	// When the stream goes away, Bob is offline again
	cancel()
	req.Eventually(func() bool { return !h.presence.IsOnline(bobID) }, time.Second, 10*time.Millisecond)
}

func Test_Scheduled_Message_Hidden_From_Recipient(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	aliceCtx, aliceID := h.register(t, "alice")
	bobCtx, bobID := h.register(t, "bob")

	scheduled, err := h.client.ScheduleMessage(aliceCtx, &chatapi.ScheduleMessageRequest{
		SendMessageRequest: chatapi.SendMessageRequest{Recipient: bobID, Content: "surprise"},
		ScheduledAt:        h.clock.Now().Add(time.Hour),
	})
	req.NoError(err)
	req.Equal("scheduled", scheduled.Message.Status)

	fromAlice, err := h.client.GetMessages(aliceCtx, &chatapi.GetMessagesRequest{ID: bobID})
	req.NoError(err)
	req.Len(fromAlice.Messages, 1)

	fromBob, err := h.client.GetMessages(bobCtx, &chatapi.GetMessagesRequest{ID: aliceID})
	req.NoError(err)
	req.Empty(fromBob.Messages)

	_, err = h.client.ScheduleMessage(aliceCtx, &chatapi.ScheduleMessageRequest{
		SendMessageRequest: chatapi.SendMessageRequest{Recipient: bobID, Content: "too late"},
		ScheduledAt:        h.clock.Now().Add(-time.Minute),
	})
	req.Equal(codes.InvalidArgument, status.Code(err))
}

func Test_Group_Flow(t *testing.T) {
	req := require.New(t)
	h := newHarness(t)
	aliceCtx, _ := h.register(t, "alice")
	bobCtx, bobID := h.register(t, "bob")
	carolCtx, _ := h.register(t, "carol")

	group, err := h.client.CreateGroup(aliceCtx, &chatapi.CreateGroupRequest{Name: "weekend", Members: []string{bobID}})
	req.NoError(err)
	req.Len(group.Members, 2)

	_, err = h.client.SendMessage(bobCtx, &chatapi.SendMessageRequest{GroupID: group.ID, Content: "saturday?"})
	req.NoError(err)

	history, err := h.client.GetGroupMessages(aliceCtx, &chatapi.GetGroupMessagesRequest{GroupID: group.ID})
	req.NoError(err)
	req.Len(history.Messages, 1)
	req.Equal(group.ID, history.Messages[0].GroupID)

	_, err = h.client.GetGroupMessages(carolCtx, &chatapi.GetGroupMessagesRequest{GroupID: group.ID})
	req.Equal(codes.PermissionDenied, status.Code(err))
	_, err = h.client.SendMessage(carolCtx, &chatapi.SendMessageRequest{GroupID: group.ID, Content: "hi"})
	req.Equal(codes.PermissionDenied, status.Code(err))
}
