package services

import (
	"chat-courier/contract"
	"chat-courier/domain/chat"
	"context"
	"log/slog"
)

type IReadStateTracker interface {
	MarkRead(ctx context.Context, cmd chat.MarkReadCommand) (int, error)
}

// ReadStateTracker applies read state to direct conversations.
// Group messages have no read state. Nothing is pushed to the sender,
// who observes read state on its next history fetch.
type ReadStateTracker struct {
	log   *slog.Logger
	store contract.IMessageStore
}

func NewReadStateTracker(log *slog.Logger, store contract.IMessageStore) *ReadStateTracker {
	return &ReadStateTracker{log: log, store: store}
}

// MarkRead moves every sent message from cmd.Other to cmd.Reader to read.
// It returns the number of messages changed, zero when everything was already read.
func (t *ReadStateTracker) MarkRead(ctx context.Context, cmd chat.MarkReadCommand) (int, error) {
	if err := validateCommand(cmd); err != nil {
		return 0, err
	}
	count, err := t.store.MarkRead(ctx, cmd.Reader, cmd.Other)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		t.log.Debug("Messages marked as read", "reader", cmd.Reader, "sender", cmd.Other, "count", count)
	}
	return count, nil
}
