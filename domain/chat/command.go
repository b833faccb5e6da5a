package chat

import (
	"time"
)

// SendMessageCommand is a request to deliver a message right away.
// Exactly one of Recipient and GroupID must be set.
type SendMessageCommand struct {
	Sender      string `validate:"required,userid"`
	Recipient   string `validate:"required_without=GroupID,excluded_with=GroupID,userid"`
	GroupID     string `validate:"omitempty,uuid"`
	MessageType string `validate:"omitempty,oneof=text file"`
	Content     string `validate:"max=4096"`
	FileURL     string `validate:"omitempty,url"`
}

// ScheduleMessageCommand is a SendMessageCommand deferred until ScheduledAt.
type ScheduleMessageCommand struct {
	SendMessageCommand
	ScheduledAt time.Time `validate:"required"`
}

type GetConversationCommand struct {
	Reader string `validate:"required,userid"`
	Other  string `validate:"required,nefield=Reader,userid"`
}

type GetGroupConversationCommand struct {
	Reader  string `validate:"required,userid"`
	GroupID string `validate:"required,uuid"`
}

type MarkReadCommand struct {
	Reader string `validate:"required,userid"`
	Other  string `validate:"required,nefield=Reader,userid"`
}

type CreateGroupCommand struct {
	Admin   string   `validate:"required,userid"`
	Name    string   `validate:"required,max=128"`
	Members []string `validate:"dive,required,userid"`
}

type AssistantCommand struct {
	Reader string `validate:"required,userid"`
	Other  string `validate:"required,nefield=Reader,userid"`
}

type UploadFileCommand struct {
	Owner    string `validate:"required,userid"`
	FileName string `validate:"required,max=255"`
	Data     []byte `validate:"required"`
}
