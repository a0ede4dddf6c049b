// Package worker ships audit events from the outbox table to the audit stream.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hotelchain/pkg/platform/audit/store/postgres"
	"hotelchain/pkg/platform/tx"
)

// Record is one outbox entry ready for the sink.
type Record struct {
	Key     string
	Value   []byte
	Headers map[string]string
}

// Sink publishes records, acknowledging all of them or failing.
type Sink interface {
	Publish(ctx context.Context, records ...Record) error
}

// Outbox is the slice of the outbox store the relay needs.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Relay polls the outbox and publishes unpublished entries in batches. Entries
// are marked published in the same transaction that locked them, so a failed
// publish leaves them for the next tick (at-least-once delivery).
type Relay struct {
	outbox Outbox
	sink   Sink
	tx     tx.Runner
	logger *slog.Logger
	batch  int
	period time.Duration
	now    func() time.Time
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batch = n
		}
	}
}

func WithPeriod(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.period = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Relay) { r.now = now }
}

func NewRelay(outbox Outbox, sink Sink, runner tx.Runner, logger *slog.Logger, opts ...Option) *Relay {
	r := &Relay{
		outbox: outbox,
		sink:   sink,
		tx:     runner,
		logger: logger,
		batch:  100,
		period: 2 * time.Second,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			n, err := r.RelayOnce(ctx)
			if err != nil {
				r.logger.WarnContext(ctx, "audit relay failed", "error", err)
				continue
			}
			if n > 0 {
				r.logger.DebugContext(ctx, "audit events relayed", "count", n)
			}
		}
	}
}

// RelayOnce publishes at most one batch and returns how many entries shipped.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	shipped := 0
	err := r.tx.RunInTx(ctx, func(ctx context.Context) error {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batch)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return nil
		}
		records := make([]Record, 0, len(entries))
		ids := make([]uuid.UUID, 0, len(entries))
		for _, e := range entries {
			records = append(records, Record{
				Key:     e.AggregateID,
				Value:   e.Payload,
				Headers: map[string]string{"event_type": e.EventType, "event_id": e.ID.String()},
			})
			ids = append(ids, e.ID)
		}
		if err := r.sink.Publish(ctx, records...); err != nil {
			return err
		}
		if err := r.outbox.MarkPublished(ctx, ids, r.now()); err != nil {
			return err
		}
		shipped = len(entries)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return shipped, nil
}
