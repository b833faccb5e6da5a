package runtime

import (
	"chat-courier/domain"
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type recordingConnection struct {
	id  string
	mu  sync.Mutex
	got []domain.Delivery
	err error
}

func (c *recordingConnection) ID() string { return c.id }

func (c *recordingConnection) Push(_ context.Context, d domain.Delivery) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.got = append(c.got, d)
	return nil
}

func (c *recordingConnection) deliveries() []domain.Delivery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Delivery(nil), c.got...)
}

func Test_Presence_Several_Connections_Per_User(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	laptop := &recordingConnection{id: "laptop"}
	phone := &recordingConnection{id: "phone"}

	// Given Bob connected twice
	presence.Register("bob", laptop)
	presence.Register("bob", phone)

	// Then both connections are returned
	req.ElementsMatch([]string{"laptop", "phone"}, ids(presence.Lookup("bob")))
	req.True(presence.IsOnline("bob"))
	req.Equal([]string{"bob"}, presence.OnlineUsers())

	// When one disconnects, the other stays
	presence.Unregister(laptop)
	req.Equal([]string{"phone"}, ids(presence.Lookup("bob")))

	// When the last one disconnects, Bob is offline
	presence.Unregister(phone)
	req.Empty(presence.Lookup("bob"))
	req.False(presence.IsOnline("bob"))
	req.Empty(presence.OnlineUsers())
}

func Test_Presence_Unknown_And_Duplicate_Disconnects(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	conn := &recordingConnection{id: "c1"}

	req.Empty(presence.Lookup("nobody"))
	presence.Unregister(conn)

	presence.Register("alice", conn)
	presence.Unregister(conn)
	presence.Unregister(conn)
	req.Empty(presence.Lookup("alice"))
}

func Test_Presence_Reregister_Moves_Connection(t *testing.T) {
	req := require.New(t)
	presence := NewPresence()
	conn := &recordingConnection{id: "c1"}

	presence.Register("alice", conn)
	presence.Register("bob", conn)

	req.Empty(presence.Lookup("alice"))
	req.Len(presence.Lookup("bob"), 1)
}

func Test_Presence_Concurrent_Access(t *testing.T) {
	presence := NewPresence()
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conn := &recordingConnection{id: string(rune('a' + i%26)) + string(rune('0'+i/26))}
			presence.Register("bob", conn)
			_ = presence.Lookup("bob")
			presence.Unregister(conn)
		}(i)
	}
	wg.Wait()
	require.Empty(t, presence.Lookup("bob"))
}

func ids[T interface{ ID() string }](conns []T) []string {
	out := make([]string, 0, len(conns))
	for _, c := range conns {
		out = append(out, c.ID())
	}
	return out
}
