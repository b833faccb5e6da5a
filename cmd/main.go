package main

import (
	"chat-courier/auth"
	"chat-courier/contract"
	"chat-courier/infrastructure/grpc/client"
	"chat-courier/infrastructure/grpc/server"
	"chat-courier/internal"
	"chat-courier/internal/clock"
	"chat-courier/moderation"
	"chat-courier/observability"
	"chat-courier/repositories"
	"chat-courier/runtime"
	"chat-courier/runtime/workers"
	"chat-courier/services"
	"chat-courier/storage"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Uploads travel inside a single message, leave room for the envelope.
const grpcEnvelopeBytes = 64 * 1024

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "chat-courier terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and centralizes error reporting.
// Every defer (database, sidecar connection) runs before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	// A missing .env file is fine, the environment may already be populated.
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	charReplacement, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return exitConfig, err
	}
	logger := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Database (BadgerDB)
	db, err := badger.Open(buildBadgerOpts(config, logger, ctx))
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Delivery core
	systemClock := clock.System{}
	messageRepository := repositories.NewMessageRepository(db, logger, systemClock)
	groupRepository := repositories.NewGroupRepository(db, systemClock)
	userRepository := repositories.NewUserRepository(db, systemClock)

	monitoring := observability.NewMonitoringManager(logger)
	presence := runtime.NewPresence()
	router := runtime.NewDeliveryRouter(logger, presence, userRepository, config.PushTimeout).
		WithMonitoring(monitoring)
	resolver := runtime.NewParticipantResolver(groupRepository)

	chatService := services.NewChatService(logger, messageRepository, groupRepository,
		presence, router, resolver, systemClock).WithMonitoring(monitoring)
	if config.CensoredDir != "" {
		moderator, err := loadModerator(logger, config.CensoredDir, charReplacement)
		if err != nil {
			return exitConfig, err
		}
		chatService.WithCensor(moderator)
	}

	// 4. Side services
	var generator contract.ITextGenerator
	if config.AssistantAddr != "" {
		generatorClient, err := client.NewGeneratorClient(config.AssistantAddr)
		if err != nil {
			return exitRuntime, err
		}
		defer func() { _ = generatorClient.Close() }()
		generator = generatorClient
	} else {
		logger.Warn("No ASSISTANT_ADDR configured, smart reply and summary are disabled")
	}
	assistantService := services.NewAssistantService(logger, messageRepository, userRepository,
		generator, config.AssistantContextSize, config.AssistantTimeout)

	objectStore, err := storage.NewDiskObjectStore(logger, config.UploadDir, config.UploadBaseURL)
	if err != nil {
		return exitRuntime, err
	}
	uploadService := services.NewUploadService(logger, objectStore, config.MaxUploadBytes)

	issuer := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, issuer)
	readTracker := services.NewReadStateTracker(logger, messageRepository)

	if config.DebugPort > 0 {
		debugServer := internal.StartDebugServer(logger, db, config.DebugPort, config.UploadDir, nil,
			func() map[string]any {
				stats := monitoring.GetLatest().AsMap()
				stats["online_users"] = len(presence.OnlineUsers())
				return stats
			})
		defer func() { _ = debugServer.Close() }()
	}

	// 5. Supervised workers
	supervisor := workers.NewSupervisor(logger, config.RestartInterval)
	supervisor.Add(
		workers.NewSchedulerSweep(logger, messageRepository, resolver, router,
			systemClock, config.SweepInterval).WithMonitoring(monitoring),
		workers.NewHealthMonitoringWorker(logger, monitoring, config.MetricInterval),
	)
	supervisorDone := make(chan struct{})
	go func() {
		defer close(supervisorDone)
		supervisor.Run(ctx)
	}()

	// 6. gRPC Server Setup
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	chatServer := server.NewChatServer(logger, chatService, authService, readTracker,
		assistantService, uploadService, config.ConnectionBufferSize)
	s := server.NewGrpcServer(logger, issuer, chatServer,
		grpc.MaxRecvMsgSize(config.MaxUploadBytes+grpcEnvelopeBytes))

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting gRPC server", "address", address, "at", time.Now().UTC())
		if err := s.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errChan <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		supervisor.Stop()
		<-supervisorDone
		return exitRuntime, err
	}

	// 8. Final Cleanup
	logger.Info("Shutting down gracefully...")
	s.GracefulStop()
	supervisor.Stop()
	<-supervisorDone
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

func buildBadgerOpts(config internal.Config, logger *slog.Logger, ctx context.Context) badger.Options {
	options := badger.DefaultOptions(config.BadgerFilepath)
	if logger.Enabled(ctx, slog.LevelDebug) {
		return options.WithLoggingLevel(badger.DEBUG)
	}
	return options.WithLoggingLevel(badger.WARNING)
}

func loadModerator(logger *slog.Logger, dir string, charReplacement rune) (*moderation.Moderator, error) {
	list, err := moderation.LoadWords(os.DirFS(dir), ".")
	if err != nil {
		return nil, fmt.Errorf("loading censored words from %s: %w", dir, err)
	}
	logger.Info("Censored words loaded", "words", len(list.Words), "languages", list.Languages)
	return moderation.NewModerator(list.Words, charReplacement, logger)
}
