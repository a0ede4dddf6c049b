package auth

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	"hotelchain/pkg/requestcontext"
)

type stubAuthenticator struct {
	tokens map[string]*Authenticated
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*Authenticated, error) {
	if a, ok := s.tokens[token]; ok {
		return a, nil
	}
	return nil, errors.New("unknown token")
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
	clerk  *Authenticated
	auth   *stubAuthenticator
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.clerk = &Authenticated{
		SessionID: id.SessionID(uuid.New()),
		Principal: requestcontext.Principal{
			UserID:   id.UserID(uuid.New()),
			Role:     id.RoleClerk,
			BranchID: id.BranchID(uuid.New()),
		},
		CSRFToken: "csrf-abc",
	}
	s.auth = &stubAuthenticator{tokens: map[string]*Authenticated{"good": s.clerk}}
}

func (s *AuthMiddlewareSuite) chain(roles ...id.Role) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return LoadSession(s.auth, s.logger)(
		RequireRole(s.logger, roles...)(
			VerifyCSRF(s.logger)(final)))
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	s.Run("anonymous is sent to login", func() {
		rec := httptest.NewRecorder()
		s.chain(id.RoleClerk).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/clerk/check-in", nil))
		s.Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/login", rec.Header().Get("Location"))
	})

	s.Run("invalid cookie is cleared and treated as anonymous", func() {
		req := httptest.NewRequest(http.MethodGet, "/clerk/check-in", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "forged"})
		rec := httptest.NewRecorder()
		s.chain(id.RoleClerk).ServeHTTP(rec, req)
		s.Equal("/login", rec.Header().Get("Location"))
		s.Contains(rec.Header().Get("Set-Cookie"), CookieName+"=;")
	})

	s.Run("wrong role goes to its home page", func() {
		req := httptest.NewRequest(http.MethodGet, "/admin", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "good"})
		rec := httptest.NewRecorder()
		s.chain(id.RoleSuperAdmin).ServeHTTP(rec, req)
		s.Equal(http.StatusSeeOther, rec.Code)
		s.Equal("/clerk/check-in", rec.Header().Get("Location"))
	})

	s.Run("matching role passes", func() {
		req := httptest.NewRequest(http.MethodGet, "/clerk/check-in", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "good"})
		rec := httptest.NewRecorder()
		s.chain(id.RoleClerk, id.RoleManager).ServeHTTP(rec, req)
		s.Equal(http.StatusNoContent, rec.Code)
	})
}

func (s *AuthMiddlewareSuite) TestVerifyCSRF() {
	post := func(token string) *httptest.ResponseRecorder {
		form := url.Values{CSRFField: {token}}
		req := httptest.NewRequest(http.MethodPost, "/clerk/check-in", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "good"})
		rec := httptest.NewRecorder()
		s.chain(id.RoleClerk).ServeHTTP(rec, req)
		return rec
	}

	s.Equal(http.StatusForbidden, post("wrong").Code)
	s.Equal(http.StatusForbidden, post("").Code)
	s.Equal(http.StatusNoContent, post("csrf-abc").Code)
}

func (s *AuthMiddlewareSuite) TestBranchScope() {
	_, err := BranchScope(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))

	ctx := requestcontext.WithPrincipal(context.Background(), requestcontext.Principal{
		UserID: id.UserID(uuid.New()),
		Role:   id.RoleManager,
	})
	_, err = BranchScope(ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	s.Equal("No branch assigned", dErrors.Message(err))

	ctx = WithSession(context.Background(), s.clerk)
	branchID, err := BranchScope(ctx)
	s.Require().NoError(err)
	s.Equal(s.clerk.Principal.BranchID, branchID)
}
