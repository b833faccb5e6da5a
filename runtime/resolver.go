package runtime

import (
	"chat-courier/contract"
	"chat-courier/domain"
	"context"
	"fmt"
)

// ParticipantResolver lists who must receive a message:
// sender and recipient for a direct message, every member for a group message.
type ParticipantResolver struct {
	groups contract.IGroupStore
}

func NewParticipantResolver(groups contract.IGroupStore) *ParticipantResolver {
	return &ParticipantResolver{groups: groups}
}

func (r *ParticipantResolver) Resolve(ctx context.Context, message domain.Message) ([]string, error) {
	if message.IsDirect() {
		return []string{message.Sender, message.Recipient}, nil
	}
	group, err := r.groups.GetGroup(ctx, *message.GroupID)
	if err != nil {
		return nil, fmt.Errorf("resolving members of group %s: %w", message.GroupID, err)
	}
	return group.Members, nil
}
