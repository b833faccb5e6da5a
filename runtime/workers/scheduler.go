package workers

import (
	"chat-courier/contract"
	"chat-courier/domain"
	chaterrors "chat-courier/errors"
	"chat-courier/internal/clock"
	"chat-courier/observability"
	"context"
	"errors"
	"log/slog"
	"time"
)

// SchedulerSweep promotes due scheduled messages to sent and hands them to the router.
//
// The scheduled->sent status write is the claim: only the sweep that performs it
// delivers the message, a concurrent sweep finding the message already sent skips it.
type SchedulerSweep struct {
	log      *slog.Logger
	store    contract.IMessageStore
	resolver contract.IParticipantResolver
	router   contract.IDeliveryRouter
	clock    clock.Clock
	interval time.Duration

	monitoring *observability.MonitoringManager
}

func NewSchedulerSweep(log *slog.Logger, store contract.IMessageStore,
	resolver contract.IParticipantResolver, router contract.IDeliveryRouter,
	clock clock.Clock, interval time.Duration) *SchedulerSweep {
	return &SchedulerSweep{
		log:      log,
		store:    store,
		resolver: resolver,
		router:   router,
		clock:    clock,
		interval: interval,
	}
}

func (w *SchedulerSweep) WithMonitoring(monitoring *observability.MonitoringManager) *SchedulerSweep {
	w.monitoring = monitoring
	return w
}

// Run sweeps once at startup to catch messages that fell due while the process
// was down, then once per interval until the context is canceled.
func (w *SchedulerSweep) Run(ctx context.Context) error {
	w.log.Info("Starting scheduler sweep", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.Sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.Sweep(ctx)
		}
	}
}

// Sweep processes every message due at the current clock time and returns
// how many of them this call promoted.
// A failure on one message is logged and never stops the others.
func (w *SchedulerSweep) Sweep(ctx context.Context) int {
	due, err := w.store.FindDueScheduled(ctx, w.clock.Now())
	if err != nil {
		w.log.Error("Failed to fetch due scheduled messages", "error", err)
		return 0
	}

	promoted := 0
	for _, message := range due {
		if ctx.Err() != nil {
			return promoted
		}
		if w.promote(ctx, message) {
			promoted++
		}
	}
	if promoted > 0 {
		w.log.Debug("Scheduled messages promoted", "count", promoted)
	}
	return promoted
}

func (w *SchedulerSweep) promote(ctx context.Context, message domain.Message) bool {
	sent, err := w.store.UpdateStatus(ctx, message.ID, domain.StatusScheduled, domain.StatusSent)
	switch {
	case errors.Is(err, chaterrors.ErrStatusConflict):
		w.log.Debug("Scheduled message already claimed", "message_id", message.ID)
		return false
	case err != nil:
		w.log.Error("Failed to promote scheduled message", "message_id", message.ID, "error", err)
		return false
	}
	w.monitoring.IncrScheduledPromoted()

	participants, err := w.resolver.Resolve(ctx, sent)
	if err != nil {
		w.log.Error("Failed to resolve participants", "message_id", sent.ID, "error", err)
		return true
	}
	w.router.Deliver(ctx, sent, participants)
	return true
}
