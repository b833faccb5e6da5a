package workers_test

import (
	"chat-courier/domain"
	"chat-courier/internal/clock"
	"chat-courier/mocks"
	"chat-courier/repositories"
	"chat-courier/runtime"
	"chat-courier/runtime/workers"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var t0 = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

type sweepFixture struct {
	clock    *clock.Manual
	messages repositories.MessageRepository
	presence *runtime.Presence
	sweep    *workers.SchedulerSweep
}

func newSweepFixture(t *testing.T) sweepFixture {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	log := logs.GetLoggerFromLevel(slog.LevelError)
	manual := clock.NewManual(t0)
	messages := repositories.NewMessageRepository(db, log, manual)
	groups := repositories.NewGroupRepository(db, manual)
	users := repositories.NewUserRepository(db, manual)
	presence := runtime.NewPresence()
	router := runtime.NewDeliveryRouter(log, presence, users, time.Second)
	resolver := runtime.NewParticipantResolver(groups)

	return sweepFixture{
		clock:    manual,
		messages: messages,
		presence: presence,
		sweep:    workers.NewSchedulerSweep(log, messages, resolver, router, manual, time.Minute),
	}
}

// countingConnection is a live connection counting what it receives.
func countingConnection(ctrl *gomock.Controller, id string, counter *atomic.Int32) *mocks.MockConnection {
	conn := mocks.NewMockConnection(ctrl)
	conn.EXPECT().ID().Return(id).AnyTimes()
	conn.EXPECT().Push(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, domain.Delivery) error {
			counter.Add(1)
			return nil
		}).AnyTimes()
	return conn
}

func (f sweepFixture) schedule(t *testing.T, in time.Duration) domain.Message {
	t.Helper()
	body, err := domain.NewTextBody("happy birthday")
	require.NoError(t, err)
	draft, err := domain.NewScheduledDraft("alice", domain.DirectTarget{Recipient: "bob"}, body, t0.Add(in), f.clock.Now())
	require.NoError(t, err)
	message, err := f.messages.CreateMessage(context.Background(), draft)
	require.NoError(t, err)
	return message
}

func Test_Sweep_Promotes_Only_Due_Messages(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	f := newSweepFixture(t)

	var alicePushes, bobPushes atomic.Int32
	f.presence.Register("alice", countingConnection(ctrl, "alice-1", &alicePushes))
	f.presence.Register("bob", countingConnection(ctrl, "bob-1", &bobPushes))

	// Given a message scheduled five minutes ahead
	message := f.schedule(t, 5*time.Minute)

	// When the sweep runs one second too early
	f.clock.Set(t0.Add(5*time.Minute - time.Second))
	req.Zero(f.sweep.Sweep(ctx))

	// Then nothing moved
	stored, err := f.messages.GetMessage(ctx, message.ID)
	req.NoError(err)
	req.Equal(domain.StatusScheduled, stored.Status)
	req.Zero(alicePushes.Load() + bobPushes.Load())

	// When the sweep runs at the scheduled time
	f.clock.Set(t0.Add(5 * time.Minute))
	req.Equal(1, f.sweep.Sweep(ctx))

	// Then the message is sent and both parties got it once
	stored, err = f.messages.GetMessage(ctx, message.ID)
	req.NoError(err)
	req.Equal(domain.StatusSent, stored.Status)
	req.Equal(int32(1), alicePushes.Load())
	req.Equal(int32(1), bobPushes.Load())

	// And a later sweep does not deliver it again
	f.clock.Advance(time.Minute)
	req.Zero(f.sweep.Sweep(ctx))
	req.Equal(int32(1), bobPushes.Load())
}

func Test_Concurrent_Sweeps_Deliver_Once(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	f := newSweepFixture(t)

	var bobPushes atomic.Int32
	f.presence.Register("bob", countingConnection(ctrl, "bob-1", &bobPushes))
	f.schedule(t, time.Minute)
	f.clock.Set(t0.Add(time.Hour))

	// When two sweeps race on the same due message
	var promoted atomic.Int32
	var wg sync.WaitGroup
	start := make(chan struct{})
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			promoted.Add(int32(f.sweep.Sweep(ctx)))
		}()
	}
	close(start)
	wg.Wait()

	// Then exactly one of them claimed and delivered it
	req.Equal(int32(1), promoted.Load())
	req.Equal(int32(1), bobPushes.Load())
}

func Test_Sweep_Offline_Recipient_Still_Promotes(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f := newSweepFixture(t)

	message := f.schedule(t, time.Minute)
	f.clock.Set(t0.Add(2 * time.Minute))

	req.Equal(1, f.sweep.Sweep(ctx))
	stored, err := f.messages.GetMessage(ctx, message.ID)
	req.NoError(err)
	req.Equal(domain.StatusSent, stored.Status)
}

func Test_Run_Sweeps_At_Startup(t *testing.T) {
	req := require.New(t)
	f := newSweepFixture(t)

	message := f.schedule(t, time.Minute)
	f.clock.Set(t0.Add(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error)
	go func() { done <- f.sweep.Run(ctx) }()

	req.Eventually(func() bool {
		stored, err := f.messages.GetMessage(context.Background(), message.ID)
		return err == nil && stored.Status == domain.StatusSent
	}, time.Second, 10*time.Millisecond)

	cancel()
	req.NoError(<-done)
}
