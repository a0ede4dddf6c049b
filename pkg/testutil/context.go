package testutil

import (
	"net/http"

	"github.com/google/uuid"

	id "hotelchain/pkg/domain"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/requestcontext"
)

// NewPrincipal returns a signed-in user of role. Staff get a fresh branch.
func NewPrincipal(role id.Role) requestcontext.Principal {
	p := requestcontext.Principal{
		UserID: id.UserID(uuid.New()),
		Role:   role,
		Name:   "Test " + role.String(),
	}
	if role.IsStaff() {
		p.BranchID = id.BranchID(uuid.New())
	}
	return p
}

// WithPrincipal attaches a session for p to the request, simulating what
// LoadSession does for a valid cookie.
func WithPrincipal(req *http.Request, p requestcontext.Principal, csrfToken string) *http.Request {
	ctx := authmw.WithSession(req.Context(), &authmw.Authenticated{
		SessionID: id.SessionID(uuid.New()),
		Principal: p,
		CSRFToken: csrfToken,
	})
	return req.WithContext(ctx)
}

// InjectPrincipal is middleware that signs every request in as *p. A nil
// pointer, or one pointing at nil, leaves requests anonymous.
func InjectPrincipal(p **requestcontext.Principal) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p != nil && *p != nil {
				r = WithPrincipal(r, **p, "")
			}
			next.ServeHTTP(w, r)
		})
	}
}
