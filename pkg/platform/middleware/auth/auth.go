// Package auth resolves the session cookie into a request principal and gates
// pages by role.
package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"slices"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	request "hotelchain/pkg/platform/middleware/request"
	"hotelchain/pkg/requestcontext"
)

// CookieName is the session cookie set at login.
const CookieName = "hotel_session"

// CSRFField is the hidden form field carrying the session's CSRF token.
const CSRFField = "csrf_token"

// Authenticated is what an Authenticator resolves a session token to.
type Authenticated struct {
	SessionID id.SessionID
	Principal requestcontext.Principal
	CSRFToken string
}

// Authenticator validates a session token.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Authenticated, error)
}

type csrfKey struct{}

// CSRFToken returns the CSRF token of the current session, or "".
func CSRFToken(ctx context.Context) string {
	if tok, ok := ctx.Value(csrfKey{}).(string); ok {
		return tok
	}
	return ""
}

// WithSession injects an authenticated session into ctx. Tests use it to skip
// the cookie round trip.
func WithSession(ctx context.Context, a *Authenticated) context.Context {
	ctx = requestcontext.WithPrincipal(ctx, a.Principal)
	ctx = requestcontext.WithSessionID(ctx, a.SessionID)
	return context.WithValue(ctx, csrfKey{}, a.CSRFToken)
}

// LoadSession resolves the session cookie when present. Requests without a
// valid session continue anonymously; RequireRole decides what they may see.
func LoadSession(authenticator Authenticator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			authed, err := authenticator.Authenticate(ctx, cookie.Value)
			if err != nil {
				logger.InfoContext(ctx, "discarding invalid session cookie",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				ClearCookie(w)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithSession(ctx, authed)))
		})
	}
}

// RequireRole admits only principals holding one of roles. Anonymous requests
// are sent to the login page and the wrong role to its own home page.
func RequireRole(logger *slog.Logger, roles ...id.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			p, ok := requestcontext.CurrentPrincipal(ctx)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !slices.Contains(roles, p.Role) {
				logger.WarnContext(ctx, "role not permitted for page",
					"role", p.Role,
					"path", r.URL.Path,
					"user_id", p.UserID,
					"request_id", request.GetRequestID(ctx),
				)
				http.Redirect(w, r, p.Role.Home(), http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// VerifyCSRF rejects state-changing requests from a session whose form does
// not carry the session's CSRF token. Anonymous requests pass through.
func VerifyCSRF(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			ctx := r.Context()
			want := CSRFToken(ctx)
			if want == "" {
				next.ServeHTTP(w, r)
				return
			}
			got := r.PostFormValue(CSRFField)
			if subtle.ConstantTimeCompare([]byte(got), []byte(want)) != 1 {
				logger.WarnContext(ctx, "csrf token mismatch",
					"path", r.URL.Path,
					"request_id", request.GetRequestID(ctx),
				)
				http.Error(w, "invalid form token, reload the page and try again", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// BranchScope returns the branch the current staff principal works at.
func BranchScope(ctx context.Context) (id.BranchID, error) {
	p, ok := requestcontext.CurrentPrincipal(ctx)
	if !ok {
		return id.BranchID{}, dErrors.New(dErrors.CodeUnauthorized, "login required")
	}
	if !p.HasBranch() {
		return id.BranchID{}, dErrors.New(dErrors.CodeForbidden, "No branch assigned")
	}
	return p.BranchID, nil
}

// SetCookie writes the session cookie.
func SetCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
