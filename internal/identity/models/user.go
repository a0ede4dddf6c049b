package models

import (
	"net/mail"
	"strings"
	"time"

	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
)

const (
	maxNameLength     = 128
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt limit
)

// User is an account of any role.
//
// Invariants:
//   - Name is non-empty and at most 128 characters
//   - Email is a valid address, stored lower-cased
//   - Role is one of the known roles
//   - Managers and clerks carry a branch; other roles never do
type User struct {
	ID           id.UserID
	Name         string
	Email        string
	PasswordHash string
	Role         id.Role
	BranchID     *id.BranchID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser validates invariants and builds a user.
func NewUser(userID id.UserID, name, email, passwordHash string, role id.Role, branchID *id.BranchID, now time.Time) (*User, error) {
	u := &User{
		ID:           userID,
		PasswordHash: passwordHash,
		Role:         role,
		BranchID:     branchID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Rename(name, email, now); err != nil {
		return nil, err
	}
	if _, ok := id.ParseRole(string(role)); !ok {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "unknown role")
	}
	if role.IsStaff() && (branchID == nil || branchID.IsNil()) {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "managers and clerks must be assigned to a branch")
	}
	if !role.IsStaff() {
		u.BranchID = nil
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "password hash is required")
	}
	return u, nil
}

// Rename updates the display name and email after validating both.
func (u *User) Rename(name, email string, now time.Time) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "name must be 1 to 128 characters")
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return err
	}
	u.Name = name
	u.Email = normalized
	u.UpdatedAt = now
	return nil
}

// IsGuest reports whether the user books stays as a customer.
func (u *User) IsGuest() bool {
	return u.Role.IsGuest()
}

// NormalizeEmail validates and lower-cases an address.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", dErrors.New(dErrors.CodeInvariantViolation, "invalid email address")
	}
	return email, nil
}

// ValidatePassword enforces length limits on a plaintext password.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at least 8 characters")
	}
	if len(password) > maxPasswordLength {
		return dErrors.New(dErrors.CodeValidation, "password must be at most 72 characters")
	}
	return nil
}
