package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/zeinnaushad/elevate/internal/repository"
)

type LoginInput struct {
	Email    string
	Password string
}

type LoginUsecase struct {
	userRepo repository.UserRepository
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// Execute answers ErrInvalidCredentials for an unknown email and for a wrong password alike.
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (AuthOutput, error) {
	var out AuthOutput

	user, err := u.userRepo.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	if !u.verifier.Verify(in.Password, user.Password) {
		return out, ErrInvalidCredentials
	}

	token, _, err := u.issuer.Issue(*user, u.clock.Now())
	if err != nil {
		return out, err
	}

	out.User = *user
	out.Token = token
	return out, nil
}
