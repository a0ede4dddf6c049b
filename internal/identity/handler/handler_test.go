package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelchain/internal/identity/models"
	"hotelchain/internal/identity/service"
	inventory "hotelchain/internal/inventory/models"
	"hotelchain/internal/web/render"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	authmw "hotelchain/pkg/platform/middleware/auth"
	"hotelchain/pkg/requestcontext"
	"hotelchain/pkg/testutil"
)

type stubIdentity struct {
	Service
	registered *service.RegisterCommand
	created    *service.CreateUserCommand
	deleted    id.UserID
	loginErr   error
	users      []*models.User
}

func (s *stubIdentity) Register(_ context.Context, cmd service.RegisterCommand) (*models.User, error) {
	s.registered = &cmd
	return &models.User{ID: id.UserID(uuid.New()), Email: cmd.Email}, nil
}

func (s *stubIdentity) Login(_ context.Context, email, _ string) (*service.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &service.LoginResult{
		Session: &models.Session{ID: id.SessionID(uuid.New()), Role: id.RoleClerk},
		Token:   "signed." + email,
	}, nil
}

func (s *stubIdentity) CreateUser(_ context.Context, cmd service.CreateUserCommand) (*models.User, error) {
	s.created = &cmd
	if cmd.BranchID == "" && cmd.Role == "clerk" {
		return nil, dErrors.New(dErrors.CodeValidation, "managers and clerks must be assigned to a branch")
	}
	return &models.User{ID: id.UserID(uuid.New()), Email: cmd.Email}, nil
}

func (s *stubIdentity) ListUsers(context.Context) ([]*models.User, error) { return s.users, nil }

func (s *stubIdentity) DeleteUser(_ context.Context, userID id.UserID) error {
	s.deleted = userID
	return nil
}

func (s *stubIdentity) SessionTTL() time.Duration { return time.Hour }

type branchList []*inventory.Branch

func (b branchList) ListBranches(context.Context) ([]*inventory.Branch, error) { return b, nil }

func newRouter(t *testing.T, svc Service, branches BranchLister, p **requestcontext.Principal) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rd, err := render.New(logger)
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Use(testutil.InjectPrincipal(p))
	New(svc, branches, rd, logger, false).Register(r)
	return r
}

func TestLogin(t *testing.T) {
	svc := &stubIdentity{}
	var anon *requestcontext.Principal
	router := newRouter(t, svc, branchList{}, &anon)

	testutil.When(t, "credentials are valid", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/login",
			url.Values{"email": {" clerk@example.com "}, "password": {"secret123"}}))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clerk/check-in", rec.Header().Get("Location"))

		var session *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == authmw.CookieName {
				session = c
			}
		}
		require.NotNil(t, session)
		assert.Equal(t, "signed.clerk@example.com", session.Value)
		assert.True(t, session.HttpOnly)
	})

	testutil.When(t, "credentials are rejected", func(t *testing.T) {
		svc.loginErr = dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		rec := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/login",
			url.Values{"email": {"clerk@example.com"}, "password": {"nope"}}))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		body := testutil.ReadBody(t, rec)
		assert.Contains(t, body, "invalid email or password")
		assert.Contains(t, body, `value="clerk@example.com"`, "email is kept in the form")
	})
}

func TestSignedInVisitorsGoHome(t *testing.T) {
	p := testutil.NewPrincipal(id.RoleManager)
	principal := &p
	router := newRouter(t, &stubIdentity{}, branchList{}, &principal)

	for _, path := range []string{"/", "/login"} {
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, path))
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/manager/billing", rec.Header().Get("Location"), path)
	}
}

func TestRegister(t *testing.T) {
	svc := &stubIdentity{}
	var anon *requestcontext.Principal
	router := newRouter(t, svc, branchList{}, &anon)

	rec := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/register", url.Values{
		"name": {"Ada"}, "email": {"ada@example.com"}, "role": {"travel_company"},
		"password": {"secret123"}, "confirm_password": {"secret124"},
	}))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, testutil.ReadBody(t, rec), "passwords do not match")
	assert.Nil(t, svc.registered)

	rec = testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/register", url.Values{
		"name": {" Ada "}, "email": {"ada@example.com"}, "role": {"travel_company"},
		"password": {"secret123"}, "confirm_password": {"secret123"},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Equal(t, "success|Registration successful. Please log in.", testutil.Flash(rec))
	require.NotNil(t, svc.registered)
	assert.Equal(t, "Ada", svc.registered.Name)
	assert.Equal(t, "travel_company", svc.registered.Role)
}

func TestUserAdministration(t *testing.T) {
	branch := &inventory.Branch{ID: id.BranchID(uuid.New()), Name: "Harbour"}
	clerk := &models.User{ID: id.UserID(uuid.New()), Name: "Desk", Email: "desk@example.com", Role: id.RoleClerk, BranchID: &branch.ID}
	svc := &stubIdentity{users: []*models.User{clerk}}
	var principal *requestcontext.Principal
	router := newRouter(t, svc, branchList{branch}, &principal)

	testutil.Given(t, "a clerk", func(t *testing.T) {
		p := testutil.NewPrincipal(id.RoleClerk)
		principal = &p
		rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/users"))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/clerk/check-in", rec.Header().Get("Location"))
	})

	testutil.Given(t, "a super admin", func(t *testing.T) {
		p := testutil.NewPrincipal(id.RoleSuperAdmin)
		principal = &p

		testutil.Then(t, "users are listed with their branch", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/admin/users"))
			require.Equal(t, http.StatusOK, rec.Code)
			body := testutil.ReadBody(t, rec)
			assert.Contains(t, body, "desk@example.com")
			assert.Contains(t, body, "Harbour")
		})

		testutil.Then(t, "staff without a branch are refused", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/admin/users", url.Values{
				"name": {"New"}, "email": {"new@example.com"}, "password": {"secret123"}, "role": {"clerk"},
			}))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "error|managers and clerks must be assigned to a branch", testutil.Flash(rec))
		})

		testutil.Then(t, "a user is deleted by id", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewFormRequest(t, http.MethodPost, "/admin/users/"+clerk.ID.String()+"/delete", url.Values{}))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, clerk.ID, svc.deleted)
		})
	})
}
