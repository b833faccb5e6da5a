package domain

import (
	"chat-courier/errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Group is a named set of members administered by one of them.
type Group struct {
	ID         uuid.UUID   `json:"id"`
	Name       string      `json:"name"`
	Members    []string    `json:"members"`
	Admin      string      `json:"admin"`
	MessageIDs []uuid.UUID `json:"messages"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// NewGroup builds a group whose members always include the admin.
func NewGroup(id uuid.UUID, name, admin string, members []string, now time.Time) (Group, error) {
	if strings.TrimSpace(name) == "" {
		return Group{}, fmt.Errorf("%w: group name is required", errors.ErrValidation)
	}
	if strings.TrimSpace(admin) == "" {
		return Group{}, fmt.Errorf("%w: group admin is required", errors.ErrValidation)
	}
	all := lo.Uniq(append([]string{admin}, lo.Compact(members)...))
	if bad, found := lo.Find(all, func(id string) bool { return !IsUserID(id) }); found {
		return Group{}, fmt.Errorf("%w: malformed member %q", errors.ErrValidation, bad)
	}
	return Group{
		ID:        id,
		Name:      name,
		Members:   all,
		Admin:     admin,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}, nil
}

func (g Group) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// AppendMessage records a message in the group and refreshes UpdatedAt.
func (g Group) AppendMessage(id uuid.UUID, now time.Time) Group {
	g.MessageIDs = append(slices.Clone(g.MessageIDs), id)
	g.UpdatedAt = now.UTC()
	return g
}
