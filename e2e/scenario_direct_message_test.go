package e2e

import (
	"chat-courier/infrastructure/grpc/chatapi"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"google.golang.org/grpc/metadata"
)

type testDirectMessageSuite struct {
	BaseGrpcSuite
}

func TestDirectMessageSuite(t *testing.T) {
	suite.Run(t, &testDirectMessageSuite{})
}

func (s *testDirectMessageSuite) register(name string) *chatapi.TokenResponse {
	var response *chatapi.TokenResponse
	s.WithChat("Register "+name, "", func(ctx context.Context, client chatapi.ChatServiceClient) {
		var err error
		response, err = client.Register(ctx, &chatapi.RegisterRequest{
			Email:     fmt.Sprintf("%s-%s@courier.test", name, uuid.NewString()[:8]),
			Password:  s.Config.Password,
			FirstName: name,
		})
		s.Require().NoError(err)
		s.Require().NotEmpty(response.UserID)
	})
	return response
}

func (s *testDirectMessageSuite) TestOfflineRecipientThenLivePush() {
	alice := s.register("alice")
	bob := s.register("bob")

	// --- STEP 1: BOB IS OFFLINE ---
	s.Run("Step 1: Alice writes to an offline Bob", func() {
		s.WithChat("Send while Bob is offline", alice.Token, func(ctx context.Context, client chatapi.ChatServiceClient) {
			response, err := client.SendMessage(ctx, &chatapi.SendMessageRequest{Recipient: bob.UserID, Content: "hi"})
			s.Require().NoError(err)
			s.Require().Equal("sent", response.Message.Status)
		})
	})

	// --- STEP 2: HISTORY THEN READ STATE ---
	s.Run("Step 2: Bob fetches the history and marks it read", func() {
		s.WithChat("History and read", bob.Token, func(ctx context.Context, client chatapi.ChatServiceClient) {
			history, err := client.GetMessages(ctx, &chatapi.GetMessagesRequest{ID: alice.UserID})
			s.Require().NoError(err)
			s.Require().Len(history.Messages, 1)
			s.Require().Equal("hi", history.Messages[0].Content)

			read, err := client.MarkRead(ctx, &chatapi.MarkReadRequest{ID: alice.UserID})
			s.Require().NoError(err)
			s.Require().Equal(1, read.Updated)

			again, err := client.MarkRead(ctx, &chatapi.MarkReadRequest{ID: alice.UserID})
			s.Require().NoError(err)
			s.Require().Zero(again.Updated)
		})
	})

	// --- STEP 3: LIVE DELIVERY ---
	s.Run("Step 3: Bob is connected and receives the next message live", func() {
		conn := s.GrpcConn(s.T(), "Bob connects", s.Config.ChatAddr)
		defer conn.Close()

		ctx, cancel := context.WithTimeout(context.Background(), s.Config.StreamTimeout)
		defer cancel()
		streamCtx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+bob.Token)
		stream, err := chatapi.NewChatServiceClient(conn).Connect(streamCtx, &chatapi.ConnectRequest{})
		s.Require().NoError(err)

		// Registration happens server side once the stream is open, give it a moment
		time.Sleep(200 * time.Millisecond)

		s.WithChat("Alice sends live", alice.Token, func(ctx context.Context, client chatapi.ChatServiceClient) {
			_, err := client.SendMessage(ctx, &chatapi.SendMessageRequest{Recipient: bob.UserID, Content: "still there?"})
			s.Require().NoError(err)
		})

		event, err := stream.Recv()
		s.Require().NoError(err)
		s.Require().Equal(chatapi.EventReceiveMessage, event.Event)
		s.Require().Equal("still there?", event.Message.Content)
		s.Require().NotNil(event.Sender)
		s.Require().Equal("alice", event.Sender.FirstName)
	})
}
