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

const (
	accountPrefix = "user:"
	profilePrefix = "profile:"
)

type UserRepository struct {
	db    *badger.DB
	clock clock.Clock
}

func NewUserRepository(db *badger.DB, clock clock.Clock) UserRepository {
	return UserRepository{db: db, clock: clock}
}

// CreateUser persists the account keyed by email and its profile keyed by id.
// It returns the newly generated user id.
func (u UserRepository) CreateUser(ctx context.Context, email, hashedPassword string, profile domain.Profile) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hashedPassword,
		Roles:        []string{"user"},
		CreatedAt:    u.clock.Now(),
	}
	profile.ID = account.ID
	profile.Email = email

	accountBytes, err := json.Marshal(account)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}
	profileBytes, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("marshal failed: %w", err)
	}

	err = u.db.Update(func(txn *badger.Txn) error {
		key := []byte(accountPrefix + email)
		if _, err := txn.Get(key); err == nil {
			return chaterrors.ErrUserAlreadyExists
		}
		if err := txn.Set(key, accountBytes); err != nil {
			return err
		}
		return txn.Set([]byte(profilePrefix+account.ID), profileBytes)
	})
	if err != nil {
		return "", err
	}
	return account.ID, nil
}

func (u UserRepository) GetUserByEmail(ctx context.Context, email string) (domain.Account, error) {
	if err := ctx.Err(); err != nil {
		return domain.Account{}, err
	}
	var account domain.Account
	err := u.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(accountPrefix + email))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: user %s", chaterrors.ErrNotFound, email)
		}
		if err != nil {
			return err
		}
		return item.Value(func(value []byte) error {
			return json.Unmarshal(value, &account)
		})
	})
	return account, err
}

// GetProfiles returns the profiles found for ids. Unknown ids are absent from the map.
func (u UserRepository) GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	profiles := make(map[string]domain.Profile, len(ids))
	err := u.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			item, err := txn.Get([]byte(profilePrefix + id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			var profile domain.Profile
			if err = item.Value(func(value []byte) error {
				return json.Unmarshal(value, &profile)
			}); err != nil {
				return err
			}
			profiles[id] = profile
		}
		return nil
	})
	return profiles, err
}
