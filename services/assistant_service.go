package services

import (
	"chat-courier/contract"
	"chat-courier/domain"
	"chat-courier/domain/chat"
	"chat-courier/errors"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/abadojack/whatlanggo"
	"github.com/samber/lo"
)

const (
	smartReplyInstruction = "Suggest a short, natural reply that %s could send next in this conversation. Answer with the reply only."
	summaryInstruction    = "Summarize the following conversation in a few sentences."
)

type IAssistantService interface {
	SmartReply(ctx context.Context, cmd chat.AssistantCommand) (string, error)
	Summarize(ctx context.Context, cmd chat.AssistantCommand) (string, error)
}

// AssistantService builds prompts from the latest messages of a conversation
// and forwards them to an external text generator.
type AssistantService struct {
	log         *slog.Logger
	store       contract.IMessageStore
	users       contract.IUserStore
	generator   contract.ITextGenerator
	contextSize int
	timeout     time.Duration
}

// NewAssistantService accepts a nil generator, every call then fails with ErrAssistantUnavailable.
func NewAssistantService(log *slog.Logger, store contract.IMessageStore, users contract.IUserStore,
	generator contract.ITextGenerator, contextSize int, timeout time.Duration) *AssistantService {
	return &AssistantService{
		log:         log,
		store:       store,
		users:       users,
		generator:   generator,
		contextSize: contextSize,
		timeout:     timeout,
	}
}

func (s *AssistantService) SmartReply(ctx context.Context, cmd chat.AssistantCommand) (string, error) {
	transcript, language, err := s.transcript(ctx, cmd)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, fmt.Sprintf(smartReplyInstruction, "Me")+languageHint(language)+"\n\n"+transcript)
}

func (s *AssistantService) Summarize(ctx context.Context, cmd chat.AssistantCommand) (string, error) {
	transcript, language, err := s.transcript(ctx, cmd)
	if err != nil {
		return "", err
	}
	return s.generate(ctx, summaryInstruction+languageHint(language)+"\n\n"+transcript)
}

func languageHint(language string) string {
	if language == "" {
		return ""
	}
	return fmt.Sprintf(" Answer in %s.", language)
}

// detectLanguage names the language of the conversation, empty when the detection is not reliable.
func detectLanguage(texts []string) string {
	info := whatlanggo.Detect(strings.Join(texts, " "))
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.String()
}

func (s *AssistantService) generate(ctx context.Context, prompt string) (string, error) {
	if s.generator == nil {
		return "", errors.ErrAssistantUnavailable
	}
	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	text, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		s.log.Warn("Text generation failed", "error", err)
		return "", fmt.Errorf("%w: %v", errors.ErrAssistantUnavailable, err)
	}
	return strings.TrimSpace(text), nil
}

// transcript renders the last messages oldest first, one "name: text" line each,
// and detects their language. The reader is written as "Me". Scheduled messages are left out.
func (s *AssistantService) transcript(ctx context.Context, cmd chat.AssistantCommand) (string, string, error) {
	if err := validateCommand(cmd); err != nil {
		return "", "", err
	}
	if s.generator == nil {
		return "", "", errors.ErrAssistantUnavailable
	}
	recent, err := s.store.FindRecentConversation(ctx, cmd.Reader, cmd.Other, s.contextSize)
	if err != nil {
		return "", "", err
	}
	recent = lo.Filter(recent, func(item domain.Message, _ int) bool {
		return item.Status != domain.StatusScheduled
	})
	if len(recent) == 0 {
		return "", "", fmt.Errorf("%w: conversation is empty", errors.ErrValidation)
	}
	slices.Reverse(recent)

	names := map[string]string{cmd.Reader: "Me", cmd.Other: "Them"}
	profiles, err := s.users.GetProfiles(ctx, []string{cmd.Other})
	if err != nil {
		s.log.Warn("Failed to resolve profile for transcript", "user_id", cmd.Other, "error", err)
	} else if p, ok := profiles[cmd.Other]; ok && p.FirstName != "" {
		names[cmd.Other] = p.FirstName
	}

	lines := lo.Map(recent, func(item domain.Message, _ int) string {
		text := item.Content
		if item.Type == domain.MessageTypeFile {
			text = strings.TrimSpace("[file] " + item.Content)
		}
		return fmt.Sprintf("%s: %s", names[item.Sender], text)
	})
	texts := lo.Map(recent, func(item domain.Message, _ int) string { return item.Content })
	return strings.Join(lines, "\n"), detectLanguage(texts), nil
}
