package runtime

import (
	"chat-courier/contract"
	"chat-courier/domain"
	"chat-courier/observability"
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
)

// DeliveryRouter pushes persisted messages to the live connections of their participants.
//
// Delivery is best-effort: a participant without a connection receives nothing now
// and reads the message later from history. Nothing is queued or retried.
type DeliveryRouter struct {
	log         *slog.Logger
	presence    contract.IPresence
	users       contract.IUserStore
	pushTimeout time.Duration
	monitoring  *observability.MonitoringManager
}

func NewDeliveryRouter(log *slog.Logger, presence contract.IPresence,
	users contract.IUserStore, pushTimeout time.Duration) *DeliveryRouter {
	return &DeliveryRouter{log: log, presence: presence, users: users, pushTimeout: pushTimeout}
}

func (r *DeliveryRouter) WithMonitoring(monitoring *observability.MonitoringManager) *DeliveryRouter {
	r.monitoring = monitoring
	return r
}

// Deliver pushes the message to every connection of every participant and waits
// for all pushes to finish. It returns the number of successful pushes.
func (r *DeliveryRouter) Deliver(ctx context.Context, message domain.Message, participants []string) int {
	var targets []contract.Connection
	for _, participant := range lo.Uniq(lo.Compact(participants)) {
		targets = append(targets, r.presence.Lookup(participant)...)
	}
	if len(targets) == 0 {
		return 0
	}

	delivery := r.populate(ctx, message)

	var delivered atomic.Int64
	var wg sync.WaitGroup
	for _, conn := range targets {
		wg.Add(1)
		go func(conn contract.Connection) {
			defer wg.Done()
			pushCtx, cancel := context.WithTimeout(ctx, r.pushTimeout)
			defer cancel()
			if err := conn.Push(pushCtx, delivery); err != nil {
				r.log.Debug("Connection not live, message left in history",
					"connection_id", conn.ID(), "message_id", message.ID, "error", err)
				return
			}
			delivered.Add(1)
		}(conn)
	}
	wg.Wait()

	count := int(delivered.Load())
	r.monitoring.AddPushes(count, len(targets)-count)
	return count
}

// populate resolves the display fields of sender and recipient.
// A lookup failure is not fatal, the bare message is still delivered.
func (r *DeliveryRouter) populate(ctx context.Context, message domain.Message) domain.Delivery {
	delivery := domain.Delivery{Message: message}
	profiles, err := r.users.GetProfiles(ctx, lo.Compact([]string{message.Sender, message.Recipient}))
	if err != nil {
		r.log.Warn("Failed to resolve profiles", "message_id", message.ID, "error", err)
		return delivery
	}
	if p, ok := profiles[message.Sender]; ok {
		delivery.Sender = lo.ToPtr(p)
	}
	if p, ok := profiles[message.Recipient]; ok && message.Recipient != "" {
		delivery.Recipient = lo.ToPtr(p)
	}
	return delivery
}
