// Package domain contains core concepts of the chat system.
// This file defines Message records, their body and target variants and status rules.
// Messages are validated by the domain before they reach persistence.
package domain

import (
	"chat-courier/errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeFile MessageType = "file"
)

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusSent      Status = "sent"
	StatusRead      Status = "read"
)

// CanTransitionTo reports whether a status may move to next.
// Only scheduled->sent and sent->read are allowed, nothing ever goes back.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusScheduled:
		return next == StatusSent
	case StatusSent:
		return next == StatusRead
	default:
		return false
	}
}

// Body is the payload of a message: either a TextBody or a FileBody.
type Body interface {
	Type() MessageType
	isBody()
}

type TextBody struct {
	Content string
}

func (TextBody) Type() MessageType { return MessageTypeText }
func (TextBody) isBody()           {}

// FileBody carries an uploaded file URL and an optional caption.
type FileBody struct {
	URL     string
	Caption string
}

func (FileBody) Type() MessageType { return MessageTypeFile }
func (FileBody) isBody()           {}

func NewTextBody(content string) (Body, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: text message requires content", errors.ErrValidation)
	}
	return TextBody{Content: content}, nil
}

func NewFileBody(url, caption string) (Body, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("%w: file message requires a file url", errors.ErrValidation)
	}
	return FileBody{URL: url, Caption: caption}, nil
}

// NewBody builds the body variant matching messageType.
// An empty type defaults to text. A text body must not carry a file url.
func NewBody(messageType MessageType, content, fileURL string) (Body, error) {
	switch messageType {
	case MessageTypeText, "":
		if fileURL != "" {
			return nil, fmt.Errorf("%w: text message cannot carry a file url", errors.ErrValidation)
		}
		return NewTextBody(content)
	case MessageTypeFile:
		return NewFileBody(fileURL, content)
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", errors.ErrValidation, messageType)
	}
}

// Target is the destination of a message: a DirectTarget or a GroupTarget.
type Target interface {
	isTarget()
}

type DirectTarget struct {
	Recipient string
}

func (DirectTarget) isTarget() {}

type GroupTarget struct {
	GroupID uuid.UUID
}

func (GroupTarget) isTarget() {}

// Draft is a message that has been validated but not yet persisted.
type Draft struct {
	Sender      string
	Target      Target
	Body        Body
	ScheduledAt *time.Time
}

// NewDraft validates a message that is delivered as soon as it is stored.
func NewDraft(sender string, target Target, body Body) (Draft, error) {
	if strings.TrimSpace(sender) == "" {
		return Draft{}, fmt.Errorf("%w: sender is required", errors.ErrValidation)
	}
	if !IsUserID(sender) {
		return Draft{}, fmt.Errorf("%w: malformed sender %q", errors.ErrValidation, sender)
	}
	switch t := target.(type) {
	case DirectTarget:
		if strings.TrimSpace(t.Recipient) == "" {
			return Draft{}, fmt.Errorf("%w: recipient is required", errors.ErrValidation)
		}
		if !IsUserID(t.Recipient) {
			return Draft{}, fmt.Errorf("%w: malformed recipient %q", errors.ErrValidation, t.Recipient)
		}
	case GroupTarget:
		if t.GroupID == uuid.Nil {
			return Draft{}, fmt.Errorf("%w: group is required", errors.ErrValidation)
		}
	default:
		return Draft{}, fmt.Errorf("%w: recipient or group is required", errors.ErrValidation)
	}
	if body == nil {
		return Draft{}, fmt.Errorf("%w: body is required", errors.ErrValidation)
	}
	return Draft{Sender: sender, Target: target, Body: body}, nil
}

// NewScheduledDraft validates a message to be promoted at scheduledAt,
// which must be strictly later than now.
func NewScheduledDraft(sender string, target Target, body Body, scheduledAt, now time.Time) (Draft, error) {
	draft, err := NewDraft(sender, target, body)
	if err != nil {
		return Draft{}, err
	}
	if !scheduledAt.After(now) {
		return Draft{}, fmt.Errorf("%w: scheduled time must be in the future", errors.ErrValidation)
	}
	at := scheduledAt.UTC()
	draft.ScheduledAt = &at
	return draft, nil
}

// Validate re-checks the draft against the creation time.
func (d Draft) Validate(now time.Time) error {
	if _, err := NewDraft(d.Sender, d.Target, d.Body); err != nil {
		return err
	}
	if d.ScheduledAt != nil && !d.ScheduledAt.After(now) {
		return fmt.Errorf("%w: scheduled time must be in the future", errors.ErrValidation)
	}
	return nil
}

// Materialize turns the draft into a Message with its server-side identity and timestamp.
func (d Draft) Materialize(id uuid.UUID, now time.Time) Message {
	m := Message{
		ID:        id,
		Sender:    d.Sender,
		Type:      d.Body.Type(),
		Timestamp: now.UTC(),
		Status:    StatusSent,
	}
	switch t := d.Target.(type) {
	case DirectTarget:
		m.Recipient = t.Recipient
	case GroupTarget:
		groupID := t.GroupID
		m.GroupID = &groupID
	}
	switch b := d.Body.(type) {
	case TextBody:
		m.Content = b.Content
	case FileBody:
		m.FileURL = b.URL
		m.Content = b.Caption
	}
	if d.ScheduledAt != nil {
		at := *d.ScheduledAt
		m.Status = StatusScheduled
		m.ScheduledAt = &at
	}
	return m
}

// Message is the persisted record of a chat message.
type Message struct {
	ID          uuid.UUID   `json:"id"`
	Sender      string      `json:"sender"`
	Recipient   string      `json:"recipient,omitempty"`
	GroupID     *uuid.UUID  `json:"group,omitempty"`
	Type        MessageType `json:"messageType"`
	Content     string      `json:"content,omitempty"`
	FileURL     string      `json:"fileUrl,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Status      Status      `json:"status"`
	ScheduledAt *time.Time  `json:"scheduledAt,omitempty"`
}

func (m Message) IsDirect() bool { return m.GroupID == nil }

// Involves reports whether userID sent or received this direct message.
func (m Message) Involves(userID string) bool {
	return m.Sender == userID || m.Recipient == userID
}

// VisibleTo hides a scheduled message from everyone but its sender.
func (m Message) VisibleTo(userID string) bool {
	return m.Status != StatusScheduled || m.Sender == userID
}

// WithStatus returns a copy of the message moved to next.
// Reading is reserved to direct messages.
func (m Message) WithStatus(next Status) (Message, error) {
	if !m.Status.CanTransitionTo(next) {
		return m, fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, m.Status, next)
	}
	if next == StatusRead && !m.IsDirect() {
		return m, fmt.Errorf("%w: group messages have no read state", errors.ErrInvalidTransition)
	}
	m.Status = next
	return m, nil
}
