package services

import (
	"chat-courier/contract"
	"chat-courier/domain"
	"chat-courier/domain/chat"
	"chat-courier/errors"
	"chat-courier/internal/clock"
	"chat-courier/observability"
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IChatService interface {
	SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (domain.Message, error)
	ScheduleMessage(ctx context.Context, cmd chat.ScheduleMessageCommand) (domain.Message, error)
	GetConversation(ctx context.Context, cmd chat.GetConversationCommand) ([]domain.Message, error)
	GetGroupConversation(ctx context.Context, cmd chat.GetGroupConversationCommand) ([]domain.Message, error)
	CreateGroup(ctx context.Context, cmd chat.CreateGroupCommand) (domain.Group, error)
	Connect(userID string, conn contract.Connection)
	Disconnect(conn contract.Connection)
}

// Censor rewrites forbidden words in a text payload and reports the words it matched.
type Censor interface {
	Censor(original string) (string, []string)
}

type ChatService struct {
	log      *slog.Logger
	store    contract.IMessageStore
	groups   contract.IGroupStore
	presence contract.IPresence
	router   contract.IDeliveryRouter
	resolver contract.IParticipantResolver
	clock    clock.Clock
	censor   Censor

	monitoring *observability.MonitoringManager
}

func NewChatService(log *slog.Logger, store contract.IMessageStore, groups contract.IGroupStore,
	presence contract.IPresence, router contract.IDeliveryRouter,
	resolver contract.IParticipantResolver, clock clock.Clock) *ChatService {
	return &ChatService{
		log:      log,
		store:    store,
		groups:   groups,
		presence: presence,
		router:   router,
		resolver: resolver,
		clock:    clock,
	}
}

// WithCensor enables moderation of text content before it is stored.
func (s *ChatService) WithCensor(censor Censor) *ChatService {
	s.censor = censor
	return s
}

func (s *ChatService) WithMonitoring(monitoring *observability.MonitoringManager) *ChatService {
	s.monitoring = monitoring
	return s
}

// SendMessage validates, persists and immediately delivers a message.
// The sender's own connections receive it too.
func (s *ChatService) SendMessage(ctx context.Context, cmd chat.SendMessageCommand) (domain.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.Message{}, err
	}
	draft, err := s.draft(cmd)
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.persist(ctx, draft)
	if err != nil {
		return domain.Message{}, err
	}

	participants, err := s.resolver.Resolve(ctx, message)
	if err != nil {
		// The message is stored, recipients will see it on their next fetch
		s.log.Error("Failed to resolve participants", "message_id", message.ID, "error", err)
		return message, nil
	}
	s.router.Deliver(ctx, message, participants)
	return message, nil
}

// ScheduleMessage persists a message that the scheduler sweep delivers at cmd.ScheduledAt.
func (s *ChatService) ScheduleMessage(ctx context.Context, cmd chat.ScheduleMessageCommand) (domain.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.Message{}, err
	}
	draft, err := s.draft(cmd.SendMessageCommand)
	if err != nil {
		return domain.Message{}, err
	}
	draft, err = domain.NewScheduledDraft(draft.Sender, draft.Target, draft.Body, cmd.ScheduledAt, s.clock.Now())
	if err != nil {
		return domain.Message{}, err
	}
	message, err := s.persist(ctx, draft)
	if err != nil {
		return domain.Message{}, err
	}
	s.log.Debug("Message scheduled", "message_id", message.ID, "scheduled_at", message.ScheduledAt)
	return message, nil
}

// GetConversation returns the direct history between two users, oldest first.
// Messages the other user scheduled but that are not sent yet stay hidden.
func (s *ChatService) GetConversation(ctx context.Context, cmd chat.GetConversationCommand) ([]domain.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	messages, err := s.store.FindConversation(ctx, cmd.Reader, cmd.Other)
	if err != nil {
		return nil, err
	}
	return visibleTo(cmd.Reader, messages), nil
}

// GetGroupConversation returns the history of a group the reader belongs to.
func (s *ChatService) GetGroupConversation(ctx context.Context, cmd chat.GetGroupConversationCommand) ([]domain.Message, error) {
	if err := validateCommand(cmd); err != nil {
		return nil, err
	}
	groupID := uuid.MustParse(cmd.GroupID)
	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(cmd.Reader) {
		return nil, fmt.Errorf("%w: %s is not a member of group %s", errors.ErrForbidden, cmd.Reader, groupID)
	}
	messages, err := s.store.FindGroupConversation(ctx, groupID)
	if err != nil {
		return nil, err
	}
	return visibleTo(cmd.Reader, messages), nil
}

func (s *ChatService) CreateGroup(ctx context.Context, cmd chat.CreateGroupCommand) (domain.Group, error) {
	if err := validateCommand(cmd); err != nil {
		return domain.Group{}, err
	}
	group, err := domain.NewGroup(uuid.New(), cmd.Name, cmd.Admin, cmd.Members, s.clock.Now())
	if err != nil {
		return domain.Group{}, err
	}
	if err = s.groups.CreateGroup(ctx, group); err != nil {
		return domain.Group{}, err
	}
	return group, nil
}

func (s *ChatService) Connect(userID string, conn contract.Connection) {
	s.presence.Register(userID, conn)
	s.log.Debug("User connected", "user_id", userID, "connection_id", conn.ID())
}

func (s *ChatService) Disconnect(conn contract.Connection) {
	s.presence.Unregister(conn)
	s.log.Debug("User disconnected", "connection_id", conn.ID())
}

// draft turns a validated command into a domain draft.
func (s *ChatService) draft(cmd chat.SendMessageCommand) (domain.Draft, error) {
	content := cmd.Content
	if s.censor != nil && content != "" {
		var words []string
		if content, words = s.censor.Censor(content); len(words) > 0 {
			s.log.Info("Message content censored", "sender", cmd.Sender, "words", len(words))
		}
	}
	body, err := domain.NewBody(domain.MessageType(cmd.MessageType), content, cmd.FileURL)
	if err != nil {
		return domain.Draft{}, err
	}
	var target domain.Target = domain.DirectTarget{Recipient: cmd.Recipient}
	if cmd.GroupID != "" {
		target = domain.GroupTarget{GroupID: uuid.MustParse(cmd.GroupID)}
	}
	return domain.NewDraft(cmd.Sender, target, body)
}

// persist stores the draft. Group messages require a member sender and are
// appended to the group once stored.
func (s *ChatService) persist(ctx context.Context, draft domain.Draft) (domain.Message, error) {
	groupTarget, isGroup := draft.Target.(domain.GroupTarget)
	if isGroup {
		group, err := s.groups.GetGroup(ctx, groupTarget.GroupID)
		if err != nil {
			return domain.Message{}, err
		}
		if !group.HasMember(draft.Sender) {
			return domain.Message{}, fmt.Errorf("%w: %s is not a member of group %s",
				errors.ErrForbidden, draft.Sender, group.ID)
		}
	}

	message, err := s.store.CreateMessage(ctx, draft)
	if err != nil {
		return domain.Message{}, err
	}
	s.monitoring.IncrMessagesStored()

	if isGroup {
		if _, err = s.groups.AppendMessage(ctx, groupTarget.GroupID, message.ID); err != nil {
			s.log.Error("Failed to append message to group",
				"group_id", groupTarget.GroupID, "message_id", message.ID, "error", err)
		}
	}
	return message, nil
}

func visibleTo(reader string, messages []domain.Message) []domain.Message {
	return lo.Filter(messages, func(item domain.Message, _ int) bool {
		return item.VisibleTo(reader)
	})
}
