package repository

import (
	"context"

	"github.com/zeinnaushad/elevate/internal/domain/model"
)

// UserProfile carries the editable profile fields; nil leaves a field unchanged.
type UserProfile struct {
	FirstName *string
	LastName  *string
	Address   *string
	City      *string
	State     *string
	ZipCode   *string
	Country   *string
	Phone     *string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateProfile(ctx context.Context, id int64, p UserProfile) (*model.User, error)
	// IncrementTokenVersion invalidates every token issued before the call.
	IncrementTokenVersion(ctx context.Context, id int64) error
	List(ctx context.Context) ([]model.User, error)
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
