//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-courier/domain"
	"context"
	"io"
	"reflect"
	"time"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// This is used for logging and supervision purposes during worker initialization
// or lifecycle events, avoiding the need for manual naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Connection is a live, addressable handle owned by one user.
type Connection interface {
	ID() string
	Push(ctx context.Context, delivery domain.Delivery) error
}

type IPresence interface {
	Register(userID string, conn Connection)
	Unregister(conn Connection)
	Lookup(userID string) []Connection
}

type IDeliveryRouter interface {
	Deliver(ctx context.Context, message domain.Message, participants []string) int
}

type IParticipantResolver interface {
	Resolve(ctx context.Context, message domain.Message) ([]string, error)
}

// IMessageStore is the persistence gateway used by the delivery core.
type IMessageStore interface {
	CreateMessage(ctx context.Context, draft domain.Draft) (domain.Message, error)
	GetMessage(ctx context.Context, id uuid.UUID) (domain.Message, error)
	FindConversation(ctx context.Context, userA, userB string) ([]domain.Message, error)
	// FindRecentConversation skips messages still waiting for their schedule.
	FindRecentConversation(ctx context.Context, userA, userB string, limit int) ([]domain.Message, error)
	FindGroupConversation(ctx context.Context, groupID uuid.UUID) ([]domain.Message, error)
	FindDueScheduled(ctx context.Context, now time.Time) ([]domain.Message, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status) (domain.Message, error)
	MarkRead(ctx context.Context, reader, sender string) (int, error)
}

type IGroupStore interface {
	CreateGroup(ctx context.Context, group domain.Group) error
	GetGroup(ctx context.Context, id uuid.UUID) (domain.Group, error)
	AppendMessage(ctx context.Context, groupID, messageID uuid.UUID) (domain.Group, error)
}

type IUserStore interface {
	CreateUser(ctx context.Context, email, hashedPassword string, profile domain.Profile) (string, error)
	GetUserByEmail(ctx context.Context, email string) (domain.Account, error)
	GetProfiles(ctx context.Context, ids []string) (map[string]domain.Profile, error)
}

type ITextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type IObjectStore interface {
	Put(ctx context.Context, extension, contentType string, r io.Reader) (string, error)
}
