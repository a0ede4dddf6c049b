package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"hotelchain/internal/inventory/models"
	"hotelchain/internal/inventory/store/room"
	id "hotelchain/pkg/domain"
	dErrors "hotelchain/pkg/domain-errors"
	audit "hotelchain/pkg/platform/audit"
	"hotelchain/pkg/platform/sentinel"
	"hotelchain/pkg/requestcontext"
)

var errBranchInUse = dErrors.New(dErrors.CodeConflict, "branch still has staff or bookings assigned")

// CreateBranch opens a new branch.
func (s *Service) CreateBranch(ctx context.Context, name, location string) (*models.Branch, error) {
	b, err := models.NewBranch(id.BranchID(uuid.New()), name, location, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapStoreErr(err, "branch", "create branch")
	}
	if err := s.branches.Create(ctx, b); err != nil {
		return nil, wrapStoreErr(err, "branch", "create branch")
	}
	s.emit(ctx, audit.EventBranchCreated, b.ID, b.Name)
	s.logger.InfoContext(ctx, "branch created", "branch_id", b.ID.String())
	return b, nil
}

// UpdateBranch renames or relocates a branch.
func (s *Service) UpdateBranch(ctx context.Context, branchID id.BranchID, name, location string) (*models.Branch, error) {
	b, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		return nil, wrapStoreErr(err, "branch", "load branch")
	}
	if err := b.Update(name, location, requestcontext.Now(ctx)); err != nil {
		return nil, wrapStoreErr(err, "branch", "update branch")
	}
	if err := s.branches.Update(ctx, b); err != nil {
		return nil, wrapStoreErr(err, "branch", "update branch")
	}
	s.emit(ctx, audit.EventBranchUpdated, b.ID, b.Name)
	return b, nil
}

// DeleteBranch removes a branch that no longer has rooms or staff.
func (s *Service) DeleteBranch(ctx context.Context, branchID id.BranchID) error {
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.branches.FindByID(ctx, branchID); err != nil {
			return wrapStoreErr(err, "branch", "load branch")
		}
		n, err := s.rooms.Count(ctx, room.Filter{BranchID: branchID})
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count rooms")
		}
		if n > 0 {
			return dErrors.New(dErrors.CodeConflict, "cannot delete a branch that still has rooms")
		}
		if s.staff != nil {
			staff, err := s.staff.CountStaff(ctx, branchID)
			if err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count staff")
			}
			if staff > 0 {
				return errBranchInUse
			}
		}
		if err := s.branches.Delete(ctx, branchID); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errBranchInUse
			}
			return wrapStoreErr(err, "branch", "delete branch")
		}
		s.emit(ctx, audit.EventBranchDeleted, branchID, "")
		return nil
	})
}

// ListBranches returns every branch ordered by name.
func (s *Service) ListBranches(ctx context.Context) ([]*models.Branch, error) {
	branches, err := s.branches.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list branches")
	}
	return branches, nil
}

func (s *Service) GetBranch(ctx context.Context, branchID id.BranchID) (*models.Branch, error) {
	b, err := s.branches.FindByID(ctx, branchID)
	if err != nil {
		return nil, wrapStoreErr(err, "branch", "load branch")
	}
	return b, nil
}

// BranchExists reports whether branchID names a branch.
func (s *Service) BranchExists(ctx context.Context, branchID id.BranchID) (bool, error) {
	_, err := s.branches.FindByID(ctx, branchID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}
