package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/zeinnaushad/elevate/internal/domain/model"
	"github.com/zeinnaushad/elevate/internal/repository"
)

type RegisterUserInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// AuthOutput is the body of a successful register or login.
type AuthOutput struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

type RegisterUserUsecase struct {
	userRepo repository.UserRepository
	hasher   PasswordHasher
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	hasher PasswordHasher,
	issuer AccessTokenIssuer,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo: userRepo,
		hasher:   hasher,
		issuer:   issuer,
		clock:    clock,
	}
}

// Execute creates a plain user account and signs a token for it.
// Email and username must both be unused (compared case-insensitively).
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (AuthOutput, error) {
	var out AuthOutput

	email := strings.TrimSpace(in.Email)
	username := strings.TrimSpace(in.Username)

	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}
	if username == "" || len(username) > 100 {
		return out, ErrInvalidUsername
	}
	if len(in.Password) < minPasswordLength {
		return out, ErrPasswordTooShort
	}

	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	existing, err = u.userRepo.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		return out, ErrUsernameAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	user := &model.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		Role:      model.RoleUser,
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, u.conflictFor(ctx, email)
		}
		return out, err
	}

	token, _, err := u.issuer.Issue(*user, u.clock.Now())
	if err != nil {
		return out, err
	}

	out.User = *user
	out.Token = token
	return out, nil
}

// conflictFor names the field a concurrent registration took between the checks and the insert.
func (u *RegisterUserUsecase) conflictFor(ctx context.Context, email string) error {
	if _, err := u.userRepo.FindByEmail(ctx, email); err == nil {
		return ErrEmailAlreadyExists
	}
	return ErrUsernameAlreadyExists
}

func isValidEmailFormat(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
