package main

import (
	"chat-courier/infrastructure/grpc/chatapi"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Email         string `env:"CHAT_EMAIL,required=true"`
	Password      string `env:"CHAT_PASSWORD,required=true"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in, optionally sends one message, then prints every delivery of the Connect stream.
func run() (int, error) {
	to := flag.String("to", "", "Recipient of the message to send")
	text := flag.String("text", "", "Message to send before listening")
	register := flag.Bool("register", false, "Create the account before logging in")
	flag.Parse()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	client := chatapi.NewChatServiceClient(conn)

	token, err := authenticate(ctx, client, config, *register)
	if err != nil {
		return exitRuntime, err
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	stream, err := client.Connect(ctx, &chatapi.ConnectRequest{})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}

	if *to != "" && *text != "" {
		if _, err := client.SendMessage(ctx, &chatapi.SendMessageRequest{Recipient: *to, Content: *text}); err != nil {
			return exitRuntime, fmt.Errorf("failed to send message: %w", err)
		}
	}

	color.Green.Printf(">>> Connected to %s as %s (Ctrl+C to quit)\n", config.ServerAddress, config.Email)
	for {
		event, err := stream.Recv()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		printEvent(event)
	}
}

func authenticate(ctx context.Context, client chatapi.ChatServiceClient, config Config, register bool) (string, error) {
	if register {
		response, err := client.Register(ctx, &chatapi.RegisterRequest{Email: config.Email, Password: config.Password})
		if err != nil {
			return "", fmt.Errorf("register failed: %w", err)
		}
		return response.Token, nil
	}
	response, err := client.Login(ctx, &chatapi.LoginRequest{Email: config.Email, Password: config.Password})
	if err != nil {
		return "", fmt.Errorf("login failed: %w", err)
	}
	return response.Token, nil
}

func printEvent(event *chatapi.ChatEvent) {
	if event.Message == nil {
		return
	}
	author := event.Message.Sender
	if event.Sender != nil && event.Sender.FirstName != "" {
		author = event.Sender.FirstName
	}
	body := event.Message.Content
	if event.Message.FileURL != "" {
		body = color.Cyan.Sprintf("[file] %s", event.Message.FileURL) + " " + body
	}
	fmt.Printf("%s %s: %s\n",
		color.Gray.Sprintf("[%s]", event.Message.Timestamp.Local().Format(time.TimeOnly)),
		color.Yellow.Sprint(author),
		body,
	)
}
