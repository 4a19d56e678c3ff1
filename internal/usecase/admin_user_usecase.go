package usecase

import (
	"context"
	"net/http"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	repo "github.com/zeinnaushad/elevate/internal/repository"
)

type AdminUserUsecase struct {
	userRepo repo.UserRepository
	tx       repo.TransactionManager
}

func NewAdminUserUsecase(userRepo repo.UserRepository, tx repo.TransactionManager) *AdminUserUsecase {
	return &AdminUserUsecase{userRepo: userRepo, tx: tx}
}

type ForceLogoutOutput struct {
	UserID       int64 `json:"userId"`
	TokenVersion int   `json:"tokenVersion"`
}

func (u *AdminUserUsecase) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.userRepo.List(ctx)
	if err != nil {
		return []model.User{}, errDB()
	}
	return users, nil
}

// DeleteUser removes the account and its cart rows. Orders and reviews stay as history.
func (u *AdminUserUsecase) DeleteUser(ctx context.Context, actorAdminUserID int64, targetUserID int64) error {
	if actorAdminUserID <= 0 {
		return errUnauthorized()
	}
	if targetUserID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if targetUserID == actorAdminUserID {
		return NewHTTPError(http.StatusBadRequest, "cannot delete yourself")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Users().FindByID(ctx, targetUserID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		if err != nil {
			return errDB()
		}

		if err := r.CartItems().ClearByUserID(ctx, targetUserID); err != nil {
			return errDB()
		}
		if err := r.Users().Delete(ctx, targetUserID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "user not found")
			}
			return errDB()
		}

		return writeAudit(ctx, r.AuditLogs(), actorAdminUserID, model.AuditActionDeleteUser,
			model.AuditResourceUser, targetUserID, before, nil)
	})
}

// ForceLogout bumps the target's token version so every token issued so far is rejected.
func (u *AdminUserUsecase) ForceLogout(ctx context.Context, actorAdminUserID int64, targetUserID int64) (ForceLogoutOutput, error) {
	if actorAdminUserID <= 0 {
		return ForceLogoutOutput{}, errUnauthorized()
	}
	if targetUserID <= 0 {
		return ForceLogoutOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out ForceLogoutOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		before, err := r.Users().FindByID(ctx, targetUserID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "user not found")
		}
		if err != nil {
			return errDB()
		}

		if err := r.Users().IncrementTokenVersion(ctx, targetUserID); err != nil {
			return errDB()
		}
		after, err := r.Users().FindByID(ctx, targetUserID)
		if err != nil {
			return errDB()
		}

		if err := writeAudit(ctx, r.AuditLogs(), actorAdminUserID, model.AuditActionForceLogout,
			model.AuditResourceUser, targetUserID,
			map[string]int{"tokenVersion": before.TokenVersion},
			map[string]int{"tokenVersion": after.TokenVersion}); err != nil {
			return err
		}

		out = ForceLogoutOutput{UserID: after.ID, TokenVersion: after.TokenVersion}
		return nil
	})
	if err != nil {
		return ForceLogoutOutput{}, err
	}
	return out, nil
}
