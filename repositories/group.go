package repositories

import (
	"chat-courier/domain"
	chaterrors "chat-courier/errors"
	"chat-courier/internal/clock"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const groupPrefix = "grp:"

type GroupRepository struct {
	db    *badger.DB
	clock clock.Clock
}

func NewGroupRepository(db *badger.DB, clock clock.Clock) GroupRepository {
	return GroupRepository{db: db, clock: clock}
}

// CreateGroup persists a new group, refusing one whose admin is not a member.
func (g GroupRepository) CreateGroup(ctx context.Context, group domain.Group) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !group.HasMember(group.Admin) {
		return fmt.Errorf("%w: admin must be a member of the group", chaterrors.ErrValidation)
	}
	return g.db.Update(func(txn *badger.Txn) error {
		return putGroup(txn, group)
	})
}

func (g GroupRepository) GetGroup(ctx context.Context, id uuid.UUID) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	var group domain.Group
	err := g.db.View(func(txn *badger.Txn) error {
		var err error
		group, err = getGroup(txn, id)
		return err
	})
	return group, err
}

// AppendMessage adds a message id at the end of the group's list.
func (g GroupRepository) AppendMessage(ctx context.Context, groupID, messageID uuid.UUID) (domain.Group, error) {
	if err := ctx.Err(); err != nil {
		return domain.Group{}, err
	}
	var updated domain.Group
	var err error
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		err = g.db.Update(func(txn *badger.Txn) error {
			group, err := getGroup(txn, groupID)
			if err != nil {
				return err
			}
			updated = group.AppendMessage(messageID, g.clock.Now())
			return putGroup(txn, updated)
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	return updated, err
}

func getGroup(txn *badger.Txn, id uuid.UUID) (domain.Group, error) {
	item, err := txn.Get([]byte(groupPrefix + id.String()))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.Group{}, fmt.Errorf("%w: group %s", chaterrors.ErrNotFound, id)
	}
	if err != nil {
		return domain.Group{}, err
	}
	var group domain.Group
	err = item.Value(func(value []byte) error {
		return json.Unmarshal(value, &group)
	})
	return group, err
}

func putGroup(txn *badger.Txn, group domain.Group) error {
	bytes, err := json.Marshal(group)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return txn.Set([]byte(groupPrefix+group.ID.String()), bytes)
}
