package server

import (
	"chat-courier/domain"
	"chat-courier/infrastructure/grpc/chatapi"

	"github.com/samber/lo"
)

func toMessage(m domain.Message) *chatapi.Message {
	message := &chatapi.Message{
		ID:          m.ID.String(),
		Sender:      m.Sender,
		Recipient:   m.Recipient,
		MessageType: string(m.Type),
		Content:     m.Content,
		FileURL:     m.FileURL,
		Timestamp:   m.Timestamp,
		Status:      string(m.Status),
		ScheduledAt: m.ScheduledAt,
	}
	if m.GroupID != nil {
		message.GroupID = m.GroupID.String()
	}
	return message
}

func toMessages(messages []domain.Message) []*chatapi.Message {
	return lo.Map(messages, func(item domain.Message, _ int) *chatapi.Message {
		return toMessage(item)
	})
}

func toProfile(p *domain.Profile) *chatapi.Profile {
	if p == nil {
		return nil
	}
	return &chatapi.Profile{
		ID:        p.ID,
		Email:     p.Email,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Image:     p.Image,
		Color:     p.Color,
	}
}

func toChatEvent(d domain.Delivery) *chatapi.ChatEvent {
	return &chatapi.ChatEvent{
		Event:     chatapi.EventReceiveMessage,
		Message:   toMessage(d.Message),
		Sender:    toProfile(d.Sender),
		Recipient: toProfile(d.Recipient),
	}
}

func toGroupResponse(g domain.Group) *chatapi.GroupResponse {
	return &chatapi.GroupResponse{
		ID:        g.ID.String(),
		Name:      g.Name,
		Members:   g.Members,
		Admin:     g.Admin,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}
