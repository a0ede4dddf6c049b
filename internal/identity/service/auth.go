package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"hotelchain/internal/identity/models"
	"hotelchain/internal/identity/secrets"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

const csrfTokenBytes = 32

// LoginResult is a new session and the signed cookie value for it.
type LoginResult struct {
	Session *models.Session
	Token   string
}

var errInvalidCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	start := time.Now()
	now := requestcontext.Now(ctx)
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveLogin(start)
		}
	}()

	normalized, err := models.NormalizeEmail(email)
	if err != nil || password == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "email and password are required")
	}

	if s.lockoutAttempts > 0 {
		failures, err := s.attempts.Failures(ctx, normalized, now)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check login attempts")
		}
		if failures >= s.lockoutAttempts {
			s.recordLogin("locked")
			s.emitBestEffort(ctx, audit.EventLoginLocked, &models.User{Email: normalized}, "")
			return nil, dErrors.New(dErrors.CodeForbidden, "too many failed attempts, try again later")
		}
	}

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
		}
		secrets.VerifyDummy(password)
		return nil, s.failLogin(ctx, normalized, now)
	}
	if err := secrets.Verify(password, user.PasswordHash); err != nil {
		if !dErrors.HasCode(err, dErrors.CodeInvalidInput) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify password")
		}
		return nil, s.failLogin(ctx, normalized, now)
	}

	if s.lockoutAttempts > 0 {
		if err := s.attempts.Reset(ctx, normalized); err != nil {
			s.logger.WarnContext(ctx, "failed to reset login attempts", "error", err)
		}
	}

	csrf, err := secrets.Generate(csrfTokenBytes)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate csrf token")
	}
	sess := &models.Session{
		ID:        id.SessionID(uuid.New()),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		BranchID:  user.BranchID,
		CSRFToken: csrf,
		Device:    requestcontext.DeviceLabel(ctx),
		IPAddress: requestcontext.ClientIP(ctx),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	token, err := s.tokens.Sign(sess.ID, user.ID, sess.CreatedAt, sess.ExpiresAt)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session")
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save session")
	}

	s.recordLogin("success")
	s.emitBestEffort(ctx, audit.EventLoginSucceeded, user, sess.Device)
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID.String(), "role", user.Role.String())
	return &LoginResult{Session: sess, Token: token}, nil
}

func (s *Service) failLogin(ctx context.Context, email string, now time.Time) error {
	s.recordLogin("failure")
	s.emitBestEffort(ctx, audit.EventLoginFailed, &models.User{Email: email}, "")
	if s.lockoutAttempts > 0 {
		if _, err := s.attempts.RecordFailure(ctx, email, now, s.lockoutWindow); err != nil {
			s.logger.WarnContext(ctx, "failed to record login failure", "error", err)
		}
	}
	return errInvalidCredentials
}

func (s *Service) recordLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.IncrementLogin(outcome)
	}
}

// Logout ends a session. Unknown sessions are not an error.
func (s *Service) Logout(ctx context.Context, sessionID id.SessionID) error {
	if sessionID.IsNil() {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete session")
	}
	s.emitBestEffort(ctx, audit.EventLoggedOut, &models.User{ID: requestcontext.UserID(ctx)}, "")
	return nil
}

// Authenticate resolves a signed session cookie into the session principal.
func (s *Service) Authenticate(ctx context.Context, token string) (*authmw.Authenticated, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Find(ctx, sessionID, requestcontext.Now(ctx))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) || errors.Is(err, sentinel.ErrExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session expired")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load session")
	}
	p := requestcontext.Principal{
		UserID: sess.UserID,
		Role:   sess.Role,
		Name:   sess.Name,
	}
	if sess.BranchID != nil {
		p.BranchID = *sess.BranchID
	}
	return &authmw.Authenticated{SessionID: sess.ID, Principal: p, CSRFToken: sess.CSRFToken}, nil
}
