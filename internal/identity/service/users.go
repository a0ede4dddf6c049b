package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"hotelchain/internal/identity/models"
	"hotelchain/internal/identity/secrets"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

var errUserHasHistory = dErrors.New(dErrors.CodeConflict, "user still has reservations or invoices")

// RegisterCommand is the public sign-up form.
type RegisterCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// CreateUserCommand is an administrator creating an account of any role.
type CreateUserCommand struct {
	Name     string
	Email    string
	Password string
	Role     string
	BranchID string
}

// Register creates a customer or travel company account.
func (s *Service) Register(ctx context.Context, cmd RegisterCommand) (*models.User, error) {
	role, ok := id.ParseRole(cmd.Role)
	if !ok || !role.SelfRegistrable() {
		return nil, dErrors.New(dErrors.CodeValidation, "choose customer or travel company")
	}
	u, err := s.createUser(ctx, cmd.Name, cmd.Email, cmd.Password, role, nil)
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, audit.EventUserRegistered, u, role.String()); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "error", err)
	}
	return u, nil
}

// CreateUser creates an account of any role. Managers and clerks are bound to
// an existing branch.
func (s *Service) CreateUser(ctx context.Context, cmd CreateUserCommand) (*models.User, error) {
	role, ok := id.ParseRole(cmd.Role)
	if !ok {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown role")
	}
	var branchID *id.BranchID
	if role.IsStaff() {
		parsed, err := id.ParseBranchID(cmd.BranchID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, "managers and clerks must be assigned to a branch")
		}
		if s.branches != nil {
			exists, err := s.branches.BranchExists(ctx, parsed)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check branch")
			}
			if !exists {
				return nil, dErrors.New(dErrors.CodeValidation, "branch does not exist")
			}
		}
		branchID = &parsed
	}
	u, err := s.createUser(ctx, cmd.Name, cmd.Email, cmd.Password, role, branchID)
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, audit.EventUserCreated, u, role.String()); err != nil {
		s.logger.ErrorContext(ctx, "audit emit failed", "error", err)
	}
	return u, nil
}

func (s *Service) createUser(ctx context.Context, name, email, password string, role id.Role, branchID *id.BranchID) (*models.User, error) {
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(password)
	if err != nil {
		return nil, wrapUserErr(err, "hash password")
	}
	u, err := models.NewUser(id.UserID(uuid.New()), name, email, hash, role, branchID, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapUserErr(err, "create user")
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, wrapUserErr(err, "create user")
	}
	if s.metrics != nil {
		s.metrics.IncrementUserCreated(role.String())
	}
	s.logger.InfoContext(ctx, "user created", "user_id", u.ID.String(), "role", role.String())
	return u, nil
}

// GetUser loads one account.
func (s *Service) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err, "load user")
	}
	return u, nil
}

// FindByEmail looks an account up by email, case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	u, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return nil, wrapUserErr(err, "load user")
	}
	return u, nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

// DeleteUser removes an account and its sessions. Administrators cannot
// delete themselves, and accounts with reservations, stays or invoices are
// kept.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	if userID == requestcontext.UserID(ctx) {
		return dErrors.New(dErrors.CodeConflict, "you cannot delete your own account")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return wrapUserErr(err, "load user")
		}
		if s.history != nil {
			kept, err := s.history.HasHistory(ctx, userID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check user history")
			}
			if kept {
				return errUserHasHistory
			}
		}
		if err := s.users.Delete(ctx, userID); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errUserHasHistory
			}
			return wrapUserErr(err, "delete user")
		}
		if err := s.sessions.DeleteByUser(ctx, userID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to revoke sessions")
		}
		return s.emit(ctx, audit.EventUserDeleted, u, "")
	})
}

// UpdateCustomer changes a guest's name and email from the front desk.
func (s *Service) UpdateCustomer(ctx context.Context, userID id.UserID, name, email string) (*models.User, error) {
	var updated *models.User
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		u, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return wrapUserErr(err, "load user")
		}
		if !u.IsGuest() {
			return dErrors.New(dErrors.CodeForbidden, "only customer accounts can be edited here")
		}
		if err := u.Rename(name, email, requestcontext.Now(ctx)); err != nil {
			return wrapUserErr(err, "update user")
		}
		if err := s.users.Update(ctx, u); err != nil {
			return wrapUserErr(err, "update user")
		}
		updated = u
		return s.emit(ctx, audit.EventUserUpdated, u, "")
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// FindOrCreateGuest returns the customer with email, creating one with a
// random password when none exists. Walk-in guests reset it on first login.
func (s *Service) FindOrCreateGuest(ctx context.Context, name, email string) (*models.User, error) {
	normalized, err := models.NormalizeEmail(email)
	if err != nil {
		return nil, wrapUserErr(err, "find guest")
	}
	existing, err := s.users.FindByEmail(ctx, normalized)
	switch {
	case err == nil:
		if !existing.IsGuest() {
			return nil, dErrors.New(dErrors.CodeConflict, "email belongs to a staff account")
		}
		return existing, nil
	case !errors.Is(err, sentinel.ErrNotFound):
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load guest")
	}
	password, err := secrets.Generate(24)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to generate password")
	}
	u, err := s.createUser(ctx, name, normalized, password, id.RoleCustomer, nil)
	if err != nil {
		return nil, err
	}
	if err := s.emit(ctx, audit.EventUserCreated, u, "walk_in"); err != nil {
		return nil, err
	}
	return u, nil
}

// SeedAdmin creates the first super admin when the user table is empty.
func (s *Service) SeedAdmin(ctx context.Context, email, password string) error {
	count, err := s.users.Count(ctx)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count users")
	}
	if count > 0 {
		return nil
	}
	_, err = s.createUser(ctx, "Administrator", email, password, id.RoleSuperAdmin, nil)
	return err
}
