package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	auditpub "hotelchain/internal/audit"
	"hotelchain/internal/identity/models"
	"hotelchain/internal/identity/sessiontoken"
	attemptstore "hotelchain/internal/identity/store/attempts"
	sessionstore "hotelchain/internal/identity/store/session"
	userstore "hotelchain/internal/identity/store/user"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	auditmemory "hotelchain/pkg/platform/audit/store/memory"
	"hotelchain/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	users    *userstore.InMemory
	sessions *sessionstore.InMemory
	audit    *auditmemory.InMemoryStore
	branches *fakeBranches
	history  *fakeHistory
	service  *Service
}

type fakeBranches struct {
	known map[id.BranchID]bool
}

func (f *fakeBranches) BranchExists(_ context.Context, branchID id.BranchID) (bool, error) {
	return f.known[branchID], nil
}

type fakeHistory struct {
	kept map[id.UserID]bool
}

func (f *fakeHistory) HasHistory(_ context.Context, userID id.UserID) (bool, error) {
	return f.kept[userID], nil
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.users = userstore.NewInMemory()
	s.sessions = sessionstore.NewInMemory()
	s.audit = auditmemory.NewInMemoryStore()
	s.branches = &fakeBranches{known: map[id.BranchID]bool{}}
	s.history = &fakeHistory{kept: map[id.UserID]bool{}}
	s.service = New(s.users, s.sessions, attemptstore.NewInMemory(), sessiontoken.NewSigner("test-signing-key"),
		WithAuditPublisher(auditpub.NewPublisher(s.audit, nil)),
		WithBranchChecker(s.branches),
		WithGuestHistory(s.history),
		WithLockout(3, 15*time.Minute),
	)
}

func (s *ServiceSuite) register(email, password string) *models.User {
	u, err := s.service.Register(context.Background(), RegisterCommand{
		Name: "Ada Guest", Email: email, Password: password, Role: "customer",
	})
	s.Require().NoError(err)
	return u
}

func (s *ServiceSuite) actions() []string {
	events, err := s.audit.ListRecent(context.Background(), 100)
	s.Require().NoError(err)
	var out []string
	for _, e := range events {
		out = append(out, e.Action)
	}
	return out
}

func (s *ServiceSuite) TestRegister() {
	s.Run("customer registers with normalized email", func() {
		u := s.register("Ada@Example.com", "correct-horse")
		s.Equal("ada@example.com", u.Email)
		s.Equal(id.RoleCustomer, u.Role)
		s.NotEqual("correct-horse", u.PasswordHash)
		s.Contains(s.actions(), string(audit.EventUserRegistered))
	})

	s.Run("duplicate email differs only in case", func() {
		_, err := s.service.Register(context.Background(), RegisterCommand{
			Name: "Other", Email: "ADA@example.com", Password: "correct-horse", Role: "travel_company",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("staff roles cannot self register", func() {
		_, err := s.service.Register(context.Background(), RegisterCommand{
			Name: "Mallory", Email: "m@example.com", Password: "correct-horse", Role: "super_admin",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("short password", func() {
		_, err := s.service.Register(context.Background(), RegisterCommand{
			Name: "Bob", Email: "bob@example.com", Password: "short", Role: "customer",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("invalid email", func() {
		_, err := s.service.Register(context.Background(), RegisterCommand{
			Name: "Bob", Email: "not-an-email", Password: "correct-horse", Role: "customer",
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestCreateUserRequiresExistingBranchForStaff() {
	ctx := context.Background()
	branchID := id.BranchID(uuid.New())

	_, err := s.service.CreateUser(ctx, CreateUserCommand{
		Name: "Clara Clerk", Email: "clara@example.com", Password: "correct-horse", Role: "clerk",
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.CreateUser(ctx, CreateUserCommand{
		Name: "Clara Clerk", Email: "clara@example.com", Password: "correct-horse", Role: "clerk", BranchID: branchID.String(),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation), "unknown branch")

	s.branches.known[branchID] = true
	u, err := s.service.CreateUser(ctx, CreateUserCommand{
		Name: "Clara Clerk", Email: "clara@example.com", Password: "correct-horse", Role: "clerk", BranchID: branchID.String(),
	})
	s.Require().NoError(err)
	s.Require().NotNil(u.BranchID)
	s.Equal(branchID, *u.BranchID)
}

func (s *ServiceSuite) TestLoginAndAuthenticate() {
	ctx := context.Background()
	u := s.register("guest@example.com", "correct-horse")

	res, err := s.service.Login(ctx, "Guest@Example.com", "correct-horse")
	s.Require().NoError(err)
	s.NotEmpty(res.Token)
	s.NotEmpty(res.Session.CSRFToken)
	s.WithinDuration(res.Session.CreatedAt.Add(2*time.Hour), res.Session.ExpiresAt, time.Second)

	authed, err := s.service.Authenticate(ctx, res.Token)
	s.Require().NoError(err)
	s.Equal(u.ID, authed.Principal.UserID)
	s.Equal(id.RoleCustomer, authed.Principal.Role)
	s.Equal(res.Session.CSRFToken, authed.CSRFToken)

	s.Require().NoError(s.service.Logout(ctx, res.Session.ID))
	_, err = s.service.Authenticate(ctx, res.Token)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestLoginFailuresAreGeneric() {
	ctx := context.Background()
	s.register("guest@example.com", "correct-horse")

	_, errUnknown := s.service.Login(ctx, "nobody@example.com", "correct-horse")
	_, errWrong := s.service.Login(ctx, "guest@example.com", "wrong-password")
	s.True(dErrors.HasCode(errUnknown, dErrors.CodeUnauthorized))
	s.Equal(dErrors.Message(errUnknown), dErrors.Message(errWrong))
	s.Contains(s.actions(), string(audit.EventLoginFailed))
}

func (s *ServiceSuite) TestLoginLockout() {
	ctx := context.Background()
	s.register("guest@example.com", "correct-horse")

	for range 3 {
		_, err := s.service.Login(ctx, "guest@example.com", "wrong-password")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}
	_, err := s.service.Login(ctx, "guest@example.com", "correct-horse")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden), "correct password is refused while locked")
	s.Contains(s.actions(), string(audit.EventLoginLocked))
}

func (s *ServiceSuite) TestLoginLockoutWindow() {
	s.register("guest@example.com", "correct-horse")
	t0 := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	at := func(d time.Duration) context.Context {
		return requestcontext.WithTime(context.Background(), t0.Add(d))
	}

	for _, d := range []time.Duration{0, time.Minute, 14 * time.Minute} {
		_, err := s.service.Login(at(d), "guest@example.com", "wrong-password")
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	}

	s.Run("lock lasts a full window after the locking failure", func() {
		_, err := s.service.Login(at(16*time.Minute), "guest@example.com", "correct-horse")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
		_, err = s.service.Login(at(28*time.Minute), "guest@example.com", "correct-horse")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("lock lifts once the window has passed", func() {
		_, err := s.service.Login(at(30*time.Minute), "guest@example.com", "correct-horse")
		s.NoError(err)
	})

	s.Run("counting starts over after a successful login", func() {
		for _, d := range []time.Duration{31 * time.Minute, 32 * time.Minute} {
			_, err := s.service.Login(at(d), "guest@example.com", "wrong-password")
			s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
		}
		_, err := s.service.Login(at(33*time.Minute), "guest@example.com", "correct-horse")
		s.NoError(err)
	})
}

func (s *ServiceSuite) TestAuthenticateRejectsForgedToken() {
	_, err := s.service.Authenticate(context.Background(), "not-a-token")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func (s *ServiceSuite) TestDeleteUser() {
	admin := s.register("admin@example.com", "correct-horse")
	victim := s.register("victim@example.com", "correct-horse")
	ctx := requestcontext.WithPrincipal(context.Background(), requestcontext.Principal{UserID: admin.ID, Role: id.RoleSuperAdmin})

	s.Run("cannot delete self", func() {
		err := s.service.DeleteUser(ctx, admin.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("deletes user and revokes sessions", func() {
		res, err := s.service.Login(context.Background(), "victim@example.com", "correct-horse")
		s.Require().NoError(err)

		s.Require().NoError(s.service.DeleteUser(ctx, victim.ID))
		_, err = s.service.GetUser(ctx, victim.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.service.Authenticate(ctx, res.Token)
		s.True(dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})

	s.Run("guest with reservations or invoices is kept", func() {
		guest := s.register("kept@example.com", "correct-horse")
		s.history.kept[guest.ID] = true

		err := s.service.DeleteUser(ctx, guest.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		_, err = s.service.GetUser(ctx, guest.ID)
		s.NoError(err)
	})

	s.Run("unknown user", func() {
		err := s.service.DeleteUser(ctx, id.UserID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUpdateCustomer() {
	ctx := context.Background()
	guest := s.register("guest@example.com", "correct-horse")
	s.register("taken@example.com", "correct-horse")

	updated, err := s.service.UpdateCustomer(ctx, guest.ID, "Ada Lovelace", "ada@example.com")
	s.Require().NoError(err)
	s.Equal("Ada Lovelace", updated.Name)

	_, err = s.service.UpdateCustomer(ctx, guest.ID, "Ada Lovelace", "Taken@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	_, err = s.service.UpdateCustomer(ctx, guest.ID, "Ada Lovelace", "ada@example.com")
	s.NoError(err, "keeping own email is allowed")

	branchID := id.BranchID(uuid.New())
	s.branches.known[branchID] = true
	clerk, err := s.service.CreateUser(ctx, CreateUserCommand{
		Name: "Clara", Email: "clara@example.com", Password: "correct-horse", Role: "clerk", BranchID: branchID.String(),
	})
	s.Require().NoError(err)
	_, err = s.service.UpdateCustomer(ctx, clerk.ID, "Clara", "clara2@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
}

func (s *ServiceSuite) TestFindOrCreateGuest() {
	ctx := context.Background()
	existing := s.register("guest@example.com", "correct-horse")

	found, err := s.service.FindOrCreateGuest(ctx, "Whoever", "GUEST@example.com")
	s.Require().NoError(err)
	s.Equal(existing.ID, found.ID)

	created, err := s.service.FindOrCreateGuest(ctx, "Walk In", "walkin@example.com")
	s.Require().NoError(err)
	s.Equal(id.RoleCustomer, created.Role)
	s.NotEmpty(created.PasswordHash)
}

func (s *ServiceSuite) TestFindByEmail() {
	existing := s.register("lookup@example.com", "correct-horse")

	found, err := s.service.FindByEmail(context.Background(), "  LOOKUP@example.com ")
	s.Require().NoError(err)
	s.Equal(existing.ID, found.ID)

	_, err = s.service.FindByEmail(context.Background(), "nobody@example.com")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.service.FindByEmail(context.Background(), "not-an-email")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestSeedAdminOnlyOnEmptyStore() {
	ctx := context.Background()
	s.Require().NoError(s.service.SeedAdmin(ctx, "root@example.com", "correct-horse"))
	s.Require().NoError(s.service.SeedAdmin(ctx, "other@example.com", "correct-horse"))

	users, err := s.service.ListUsers(ctx)
	s.Require().NoError(err)
	s.Require().Len(users, 1)
	s.Equal(id.RoleSuperAdmin, users[0].Role)
}
