package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"hotelchain/internal/identity/metrics"
	"hotelchain/internal/identity/models"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/platform/tx"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, u *models.User) error
	Delete(ctx context.Context, userID id.UserID) error
	List(ctx context.Context) ([]*models.User, error)
	Count(ctx context.Context) (int, error)
}

type SessionStore interface {
	Save(ctx context.Context, sess *models.Session) error
	Find(ctx context.Context, sessionID id.SessionID, now time.Time) (*models.Session, error)
	Delete(ctx context.Context, sessionID id.SessionID) error
	DeleteByUser(ctx context.Context, userID id.UserID) error
}

type AttemptStore interface {
	RecordFailure(ctx context.Context, key string, now time.Time, window time.Duration) (int, error)
	Failures(ctx context.Context, key string, now time.Time) (int, error)
	Reset(ctx context.Context, key string) error
}

type TokenSigner interface {
	Sign(sessionID id.SessionID, userID id.UserID, issuedAt, expiresAt time.Time) (string, error)
	Parse(token string) (id.SessionID, error)
}

// BranchChecker confirms a branch exists before staff are bound to it.
type BranchChecker interface {
	BranchExists(ctx context.Context, branchID id.BranchID) (bool, error)
}

// GuestHistory reports whether an account has reservations, stays or
// invoices that must outlive it.
type GuestHistory interface {
	HasHistory(ctx context.Context, userID id.UserID) (bool, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service owns accounts and login sessions.
type Service struct {
	users    UserStore
	sessions SessionStore
	attempts AttemptStore
	tokens   TokenSigner
	branches BranchChecker
	history  GuestHistory
	tx       tx.Runner
	logger   *slog.Logger
	auditor  AuditPublisher
	metrics  *metrics.Metrics

	sessionTTL      time.Duration
	lockoutAttempts int
	lockoutWindow   time.Duration
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithBranchChecker(b BranchChecker) Option {
	return func(s *Service) { s.branches = b }
}

func WithGuestHistory(h GuestHistory) Option {
	return func(s *Service) { s.history = h }
}

func WithTx(r tx.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// WithLockout locks an email after attempts failures within window.
func WithLockout(attempts int, window time.Duration) Option {
	return func(s *Service) {
		s.lockoutAttempts = attempts
		s.lockoutWindow = window
	}
}

// New constructs a Service.
func New(users UserStore, sessions SessionStore, attempts AttemptStore, tokens TokenSigner, opts ...Option) *Service {
	s := &Service{
		users:           users,
		sessions:        sessions,
		attempts:        attempts,
		tokens:          tokens,
		logger:          slog.Default(),
		sessionTTL:      2 * time.Hour,
		lockoutAttempts: 5,
		lockoutWindow:   15 * time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = tx.NewLockRunner()
	}
	return s
}

// SessionTTL is the lifetime of new sessions.
func (s *Service) SessionTTL() time.Duration {
	return s.sessionTTL
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, u *models.User, subject string) error {
	if s.auditor == nil {
		return nil
	}
	event := audit.Event{Action: string(action), Subject: subject}
	if u != nil {
		event.UserID = u.ID
		event.Email = u.Email
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

// emitBestEffort records events whose loss must not fail the request.
func (s *Service) emitBestEffort(ctx context.Context, action audit.AuditEvent, u *models.User, subject string) {
	if err := s.emit(ctx, action, u, subject); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "action", action, "error", err)
	}
}

func wrapUserErr(err error, action string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.New(dErrors.CodeConflict, "email is already registered")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		return dErrors.New(dErrors.CodeValidation, dErrors.Message(err))
	case err != nil && dErrors.CodeOf(err) != dErrors.CodeInternal:
		return err
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to "+action)
	}
}
