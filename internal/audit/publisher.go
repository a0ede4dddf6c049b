package audit

import (
	"context"
	"log/slog"

	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  audit.Store
	logger *slog.Logger
}

func NewPublisher(store audit.Store, logger *slog.Logger) *Publisher {
	return &Publisher{store: store, logger: logger}
}

// Emit enriches the event from the request context and appends it. When ctx
// carries a SQL transaction the outbox row commits with the business change.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.IP == "" {
		event.IP = requestcontext.ClientIP(ctx)
	}
	if principal, ok := requestcontext.CurrentPrincipal(ctx); ok {
		if event.ActorID == "" && principal.UserID != event.UserID {
			event.ActorID = principal.UserID.String()
		}
		if event.BranchID == "" && principal.HasBranch() {
			event.BranchID = principal.BranchID.String()
		}
	}
	if p.logger != nil {
		p.logger.InfoContext(ctx, event.Action,
			"log_type", "audit",
			"category", event.Category,
			"user_id", event.UserID,
			"actor_id", event.ActorID,
			"subject", event.Subject,
			"request_id", event.RequestID,
		)
	}
	return p.store.Append(ctx, event)
}

// Recent lists the latest events for the admin dashboard.
func (p *Publisher) Recent(ctx context.Context, limit int) ([]audit.Event, error) {
	return p.store.ListRecent(ctx, limit)
}
