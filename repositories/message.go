package repositories

import (
	"chat-courier/domain"
	chaterrors "chat-courier/errors"
	"chat-courier/internal/clock"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const (
	messagePrefix   = "msg:"
	convPrefix      = "conv:"
	groupMsgPrefix  = "gmsg:"
	scheduledPrefix = "sched:"
	unreadPrefix    = "unread:"

	// Width of a zero-padded UnixNano timestamp.
	timestampWidth = 19

	maxConflictRetries = 5

	// markReadBatch bounds the writes of one MarkRead transaction.
	markReadBatch = 256
)

// MessageRepository stores messages in BadgerDB.
//
// Records live under "msg:{id}". Secondary indexes hold the message id as value and
// embed a 19-digit zero-padded timestamp so a prefix scan is chronological:
//
//	conv:{userLow}|{userHigh}:{timestamp}:{id}   direct conversation
//	gmsg:{group}:{timestamp}:{id}                group conversation
//	sched:{scheduledAt}:{id}                     messages waiting for promotion
//	unread:{recipient}|{sender}:{timestamp}:{id} direct messages sent but not read
type MessageRepository struct {
	db    *badger.DB
	log   *slog.Logger
	clock clock.Clock
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, clock clock.Clock) MessageRepository {
	return MessageRepository{db: db, log: log, clock: clock}
}

// CreateMessage assigns identity and timestamp and persists the draft with its indexes.
func (m MessageRepository) CreateMessage(ctx context.Context, draft domain.Draft) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	now := m.clock.Now()
	if err := draft.Validate(now); err != nil {
		return domain.Message{}, err
	}
	message := draft.Materialize(uuid.New(), now)

	err := m.update(func(txn *badger.Txn) error {
		if err := putMessage(txn, message); err != nil {
			return err
		}
		id := []byte(message.ID.String())
		if message.IsDirect() {
			if err := txn.Set(conversationKey(message), id); err != nil {
				return err
			}
		} else {
			if err := txn.Set(groupMessageKey(message), id); err != nil {
				return err
			}
		}
		switch message.Status {
		case domain.StatusScheduled:
			return txn.Set(scheduledKey(message), id)
		case domain.StatusSent:
			if message.IsDirect() {
				return txn.Set(unreadKey(message), id)
			}
		}
		return nil
	})
	if err != nil {
		return domain.Message{}, fmt.Errorf("storing message: %w", err)
	}
	return message, nil
}

func (m MessageRepository) GetMessage(ctx context.Context, id uuid.UUID) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = getMessage(txn, id.String())
		return err
	})
	return message, err
}

// FindConversation returns the direct messages exchanged by two users, oldest first.
func (m MessageRepository) FindConversation(ctx context.Context, userA, userB string) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.scan(conversationPrefix(userA, userB), false, 0, between(userA, userB))
}

// FindRecentConversation returns at most limit delivered direct messages, newest first.
// Messages still waiting for their schedule do not count against the limit.
func (m MessageRepository) FindRecentConversation(ctx context.Context, userA, userB string, limit int) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pair := between(userA, userB)
	return m.scan(conversationPrefix(userA, userB), true, limit, func(message domain.Message) bool {
		return pair(message) && message.Status != domain.StatusScheduled
	})
}

// FindGroupConversation returns every message of a group, oldest first.
func (m MessageRepository) FindGroupConversation(ctx context.Context, groupID uuid.UUID) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.scan(groupMsgPrefix+groupID.String()+":", false, 0, func(message domain.Message) bool {
		return message.GroupID != nil && *message.GroupID == groupID
	})
}

// FindDueScheduled returns scheduled messages whose scheduledAt is at or before now.
// The scan stops at the first index entry in the future.
func (m MessageRepository) FindDueScheduled(ctx context.Context, now time.Time) ([]domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var due []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(scheduledPrefix)
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		var ids []string
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			at, id, err := parseScheduledKey(string(it.Item().Key()))
			if err != nil {
				m.log.Warn("Skipping malformed scheduled index", "key", string(it.Item().Key()), "error", err)
				continue
			}
			if at > now.UnixNano() {
				break
			}
			ids = append(ids, id)
		}
		for _, id := range ids {
			message, err := getMessage(txn, id)
			if err != nil {
				return err
			}
			if message.Status == domain.StatusScheduled {
				due = append(due, message)
			}
		}
		return nil
	})
	return due, err
}

// UpdateStatus moves a single message from one status to the next.
// It is a compare-and-set: when the stored status is not from, nothing is written
// and ErrStatusConflict is returned, so at most one caller wins a transition.
func (m MessageRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Message, error) {
	if err := ctx.Err(); err != nil {
		return domain.Message{}, err
	}
	if !from.CanTransitionTo(to) {
		return domain.Message{}, fmt.Errorf("%w: %s -> %s", chaterrors.ErrInvalidTransition, from, to)
	}
	var updated domain.Message
	err := m.update(func(txn *badger.Txn) error {
		current, err := getMessage(txn, id.String())
		if err != nil {
			return err
		}
		if current.Status != from {
			return fmt.Errorf("%w: message %s is %s, expected %s",
				chaterrors.ErrStatusConflict, id, current.Status, from)
		}
		next, err := current.WithStatus(to)
		if err != nil {
			return err
		}
		if err = putMessage(txn, next); err != nil {
			return err
		}
		if err = applyIndexes(txn, current, next); err != nil {
			return err
		}
		updated = next
		return nil
	})
	return updated, err
}

// MarkRead moves every sent message from sender to reader to read and returns
// how many changed. Calling it again changes nothing and still succeeds.
// The unread index is consumed in batches of markReadBatch, each in its own
// transaction, so a large backlog never exceeds badger's transaction size.
func (m MessageRepository) MarkRead(ctx context.Context, reader, sender string) (int, error) {
	prefix := []byte(unreadPrefix + reader + "|" + sender + ":")
	seek := prefix
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		var (
			count int
			next  []byte
		)
		err := m.update(func(txn *badger.Txn) error {
			var err error
			count, next, err = markReadBatchFrom(txn, prefix, seek, reader, sender)
			return err
		})
		if err != nil {
			return total, fmt.Errorf("marking messages as read: %w", err)
		}
		total += count
		if next == nil {
			return total, nil
		}
		seek = next
	}
}

// markReadBatchFrom marks up to markReadBatch index entries starting at seek.
// It returns the key to resume from, nil once the prefix is exhausted.
// Entries whose message is not exactly from sender to reader are left alone.
func markReadBatchFrom(txn *badger.Txn, prefix, seek []byte, reader, sender string) (int, []byte, error) {
	type entry struct {
		key []byte
		id  string
	}
	var (
		entries []entry
		next    []byte
	)
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	for it.Seek(seek); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		if len(entries) == markReadBatch {
			next = item.KeyCopy(nil)
			break
		}
		value, err := item.ValueCopy(nil)
		if err != nil {
			it.Close()
			return 0, nil, err
		}
		entries = append(entries, entry{key: item.KeyCopy(nil), id: string(value)})
	}
	it.Close()

	count := 0
	for _, e := range entries {
		message, err := getMessage(txn, e.id)
		if err != nil {
			return 0, nil, err
		}
		if message.Sender != sender || message.Recipient != reader || !message.IsDirect() {
			continue
		}
		if message.Status == domain.StatusSent {
			read, err := message.WithStatus(domain.StatusRead)
			if err != nil {
				return 0, nil, err
			}
			if err = putMessage(txn, read); err != nil {
				return 0, nil, err
			}
			count++
		}
		if err = txn.Delete(e.key); err != nil {
			return 0, nil, err
		}
	}
	return count, next, nil
}

// scan loads the messages referenced by an index prefix and keeps those accepted by keep.
// A limit of 0 means no limit, otherwise it counts kept messages only.
func (m MessageRepository) scan(prefixStr string, reverse bool, limit int, keep func(domain.Message) bool) ([]domain.Message, error) {
	var messages []domain.Message
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(prefixStr)
		options := badger.DefaultIteratorOptions
		options.Reverse = reverse
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		seekKey := prefix
		if reverse {
			// Lands on the newest entry of the prefix
			seekKey = append([]byte(prefixStr), 0xFF)
		}

		for it.Seek(seekKey); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(messages) == limit {
				break
			}
			id, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			message, err := getMessage(txn, string(id))
			if err != nil {
				return err
			}
			if keep(message) {
				messages = append(messages, message)
			}
		}
		return nil
	})
	return messages, err
}

// between accepts the direct messages exchanged by exactly userA and userB.
func between(userA, userB string) func(domain.Message) bool {
	return func(message domain.Message) bool {
		if !message.IsDirect() {
			return false
		}
		return (message.Sender == userA && message.Recipient == userB) ||
			(message.Sender == userB && message.Recipient == userA)
	}
}

// update runs fn in a read-write transaction, retrying on optimistic conflicts.
func (m MessageRepository) update(fn func(txn *badger.Txn) error) error {
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = m.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		m.log.Debug("Transaction conflict, retrying", "attempt", attempt+1)
	}
	return err
}

// applyIndexes keeps the secondary indexes in line with a status change.
func applyIndexes(txn *badger.Txn, before, after domain.Message) error {
	if before.Status == domain.StatusScheduled && after.Status != domain.StatusScheduled {
		if err := txn.Delete(scheduledKey(before)); err != nil {
			return err
		}
	}
	if after.Status == domain.StatusSent && after.IsDirect() {
		if err := txn.Set(unreadKey(after), []byte(after.ID.String())); err != nil {
			return err
		}
	}
	if after.Status == domain.StatusRead {
		return txn.Delete(unreadKey(after))
	}
	return nil
}

func getMessage(txn *badger.Txn, id string) (domain.Message, error) {
	item, err := txn.Get([]byte(messagePrefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Message{}, fmt.Errorf("%w: message %s", chaterrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Message{}, err
	}
	var message domain.Message
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, &message)
	})
	return message, err
}

func putMessage(txn *badger.Txn, message domain.Message) error {
	bytes, err := json.Marshal(message)
	if err != nil {
		return err
	}
	return txn.Set([]byte(messagePrefix+message.ID.String()), bytes)
}

// pairKey orders the two users so both directions share one index.
func pairKey(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "|" + userB
}

func conversationPrefix(userA, userB string) string {
	return convPrefix + pairKey(userA, userB) + ":"
}

func conversationKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s",
		conversationPrefix(message.Sender, message.Recipient), message.Timestamp.UnixNano(), message.ID))
}

func groupMessageKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s:%019d:%s",
		groupMsgPrefix, message.GroupID, message.Timestamp.UnixNano(), message.ID))
}

func scheduledKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%019d:%s",
		scheduledPrefix, message.ScheduledAt.UnixNano(), message.ID))
}

func unreadKey(message domain.Message) []byte {
	return []byte(fmt.Sprintf("%s%s|%s:%019d:%s",
		unreadPrefix, message.Recipient, message.Sender, message.Timestamp.UnixNano(), message.ID))
}

// parseScheduledKey splits "sched:{scheduledAt}:{id}".
func parseScheduledKey(key string) (int64, string, error) {
	rest := strings.TrimPrefix(key, scheduledPrefix)
	if len(rest) < timestampWidth+1 || rest[timestampWidth] != ':' {
		return 0, "", fmt.Errorf("unexpected scheduled key %q", key)
	}
	at, err := strconv.ParseInt(rest[:timestampWidth], 10, 64)
	if err != nil {
		return 0, "", err
	}
	return at, rest[timestampWidth+1:], nil
}
