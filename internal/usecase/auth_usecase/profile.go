package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/repository"
)

// ProfileUsecase serves the signed-in user's own account: read, edit, logout.
type ProfileUsecase struct {
	userRepo repository.UserRepository
	tx       repository.TransactionManager
}

func NewProfileUsecase(userRepo repository.UserRepository, tx repository.TransactionManager) *ProfileUsecase {
	return &ProfileUsecase{userRepo: userRepo, tx: tx}
}

func (u *ProfileUsecase) Me(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return *user, nil
}

// UpdateProfile trims every provided field and leaves the others alone.
func (u *ProfileUsecase) UpdateProfile(ctx context.Context, userID int64, in repository.UserProfile) (model.User, error) {
	trim := func(p *string) *string {
		if p == nil {
			return nil
		}
		s := strings.TrimSpace(*p)
		return &s
	}
	in = repository.UserProfile{
		FirstName: trim(in.FirstName),
		LastName:  trim(in.LastName),
		Address:   trim(in.Address),
		City:      trim(in.City),
		State:     trim(in.State),
		ZipCode:   trim(in.ZipCode),
		Country:   trim(in.Country),
		Phone:     trim(in.Phone),
	}

	user, err := u.userRepo.UpdateProfile(ctx, userID, in)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return *user, nil
}

// Logout revokes every outstanding token of the user and empties the cart.
func (u *ProfileUsecase) Logout(ctx context.Context, userID int64) error {
	return u.tx.WithinTx(ctx, func(r repository.TxRepos) error {
		if err := r.Users().IncrementTokenVersion(ctx, userID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		return r.CartItems().ClearByUserID(ctx, userID)
	})
}
